package lotto

import (
	"github.com/osse101/lotto/internal/repository"
)

// Repository is a local interface for pool storage operations.
// It embeds repository.Pool to enable mock generation in this package.
type Repository interface {
	repository.Pool
}

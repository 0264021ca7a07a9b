package worker

import (
	"context"
	"errors"
	"fmt"

	"github.com/osse101/lotto/internal/domain"
	"github.com/osse101/lotto/internal/logger"
)

// UpkeepService is the part of the pool the keeper drives
type UpkeepService interface {
	CheckUpkeep(ctx context.Context) (*domain.UpkeepStatus, error)
	PerformUpkeep(ctx context.Context, performData []byte) (domain.RequestID, error)
}

// UpkeepJob is the periodic trigger: it checks whether a draw is due and
// starts one if so
type UpkeepJob struct {
	service UpkeepService
	observe func(outcome string)
}

// NewUpkeepJob creates the job. observe, if set, receives one outcome per run.
func NewUpkeepJob(service UpkeepService, observe func(outcome string)) *UpkeepJob {
	return &UpkeepJob{service: service, observe: observe}
}

// Process runs one keeper cycle. Losing a race to another caller that
// started the draw first is not an error.
func (j *UpkeepJob) Process(ctx context.Context) error {
	log := logger.FromContext(ctx)

	status, err := j.service.CheckUpkeep(ctx)
	if err != nil {
		j.record(UpkeepOutcomeError)
		log.Error(LogMsgUpkeepCheckFailed, "error", err)
		return fmt.Errorf("%s: %w", LogMsgUpkeepCheckFailed, err)
	}
	if !status.Needed {
		j.record(UpkeepOutcomeNotNeeded)
		return nil
	}

	requestID, err := j.service.PerformUpkeep(ctx, nil)
	switch {
	case errors.Is(err, domain.ErrUpkeepNotNeeded):
		j.record(UpkeepOutcomeRaced)
		log.Info(LogMsgUpkeepRaced, "reason", err)
		return nil
	case err != nil:
		j.record(UpkeepOutcomeError)
		return fmt.Errorf("%s: %w", LogMsgUpkeepPerformFailed, err)
	}

	j.record(UpkeepOutcomePerformed)
	log.Info(LogMsgUpkeepPerformed, "request_id", requestID)
	return nil
}

func (j *UpkeepJob) record(outcome string) {
	if j.observe != nil {
		j.observe(outcome)
	}
}

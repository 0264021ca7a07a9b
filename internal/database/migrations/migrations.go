// Package migrations embeds the goose migrations of the pool ledger.
package migrations

import "embed"

//go:embed *.sql
var FS embed.FS

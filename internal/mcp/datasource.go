package mcp

import (
	"context"

	"github.com/rotnitxe/yourprime/internal/analysis"
	"github.com/rotnitxe/yourprime/internal/coach"
	"github.com/rotnitxe/yourprime/internal/recovery"
)

// DataSource abstracts where coach answers come from. *coach.Coach computes
// locally against the database; HTTPClient calls a remote server's REST API
// (for MCP-over-stdio on a machine that only reaches the server via
// Tailscale).
type DataSource interface {
	MuscleBattery(ctx context.Context, muscle string) (recovery.BatteryResult, error)
	SystemicFatigue(ctx context.Context) (recovery.SystemicResult, error)
	VolumeBreakdown(ctx context.Context, muscle string, windowDays int) (analysis.Breakdown, error)
	Muscles() []string
}

// Compile-time check: *coach.Coach satisfies DataSource.
var _ DataSource = (*coach.Coach)(nil)

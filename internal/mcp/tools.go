package mcp

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
)

// --- Tool definitions ---

var toolGetMuscleRecovery = mcp.NewTool("get_muscle_recovery",
	mcp.WithDescription("Get the current recovery score (0-100 battery) for a muscle, muscle group or body part. Includes status (fresh/recovering/fatigued), hours since the last qualifying session, estimated hours to full recovery, and the factors slowing recovery (poor sleep, reported soreness)."),
	mcp.WithString("muscle", mcp.Required(), mcp.Description("Muscle, group or body part name (e.g. 'Pectorales', 'Piernas', 'Core', 'chest')")),
)

var toolGetSystemicFatigue = mcp.NewTool("get_systemic_fatigue",
	mcp.WithDescription("Get the whole-body CNS readiness score (0-100) aggregated over all recent training load and sleep, independent of any specific muscle."),
)

var toolGetVolumeBreakdown = mcp.NewTool("get_volume_breakdown",
	mcp.WithDescription("Get the training volume breakdown for a muscle over a window: direct sets (primary mover), indirect sets (secondary/stabilizer, activation-weighted), weekly frequency, average rest days between sessions, and tonnage."),
	mcp.WithString("muscle", mcp.Required(), mcp.Description("Muscle, group or body part name")),
	mcp.WithNumber("window_days", mcp.Description("Analysis window in days. Defaults to 28.")),
)

var toolListMuscles = mcp.NewTool("list_muscles",
	mcp.WithDescription("List every muscle, muscle group, body part and functional category the taxonomy can resolve."),
)

// --- Tool handlers ---

func (h *handlers) getMuscleRecovery(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	muscle := req.GetString("muscle", "")
	if muscle == "" {
		return mcp.NewToolResultError("muscle is required"), nil
	}

	battery, err := h.ds.MuscleBattery(ctx, muscle)
	if err != nil {
		h.log.Error("mcp get_muscle_recovery", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}

	result, err := mcp.NewToolResultJSON(battery)
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) getSystemicFatigue(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	fatigue, err := h.ds.SystemicFatigue(ctx)
	if err != nil {
		h.log.Error("mcp get_systemic_fatigue", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}

	result, err := mcp.NewToolResultJSON(fatigue)
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) getVolumeBreakdown(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	muscle := req.GetString("muscle", "")
	if muscle == "" {
		return mcp.NewToolResultError("muscle is required"), nil
	}
	windowDays := req.GetInt("window_days", 0)

	breakdown, err := h.ds.VolumeBreakdown(ctx, muscle, windowDays)
	if err != nil {
		h.log.Error("mcp get_volume_breakdown", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}

	result, err := mcp.NewToolResultJSON(breakdown)
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) listMuscles(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	result, err := mcp.NewToolResultJSON(h.ds.Muscles())
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

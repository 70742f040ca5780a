// Package mcp exposes the coach engine to LLM clients over the Model
// Context Protocol: recovery scores, systemic fatigue and volume breakdowns
// as tools, plus a whole-body recovery overview resource.
package mcp

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// New creates an MCP server with all tools and resources registered.
func New(ds DataSource, version string, log *slog.Logger) *server.MCPServer {
	s := server.NewMCPServer("YourPrime", version,
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
		server.WithInstructions("YourPrime training coach server. Query per-muscle recovery scores, systemic (CNS) fatigue, and training volume breakdowns computed from the user's workout history, sleep logs and post-session feedback. Muscle names are in Spanish (e.g. Pectorales, Cuádriceps); common English names are accepted as aliases."),
	)

	h := &handlers{ds: ds, log: log}

	s.AddTools(
		server.ServerTool{Tool: toolGetMuscleRecovery, Handler: h.getMuscleRecovery},
		server.ServerTool{Tool: toolGetSystemicFatigue, Handler: h.getSystemicFatigue},
		server.ServerTool{Tool: toolGetVolumeBreakdown, Handler: h.getVolumeBreakdown},
		server.ServerTool{Tool: toolListMuscles, Handler: h.listMuscles},
	)

	s.AddResources(
		server.ServerResource{Resource: resRecoveryOverview, Handler: h.recoveryOverview},
	)

	return s
}

// handlers holds dependencies for MCP tool/resource handlers.
type handlers struct {
	ds  DataSource
	log *slog.Logger
}

// --- Resource definitions ---

var resRecoveryOverview = mcp.NewResource(
	"yourprime://recovery_overview",
	"Recovery Overview",
	mcp.WithResourceDescription("Current recovery score and status for every major muscle group, plus the systemic fatigue score"),
	mcp.WithMIMEType("application/json"),
)

// overviewMuscles are the groups the overview resource reports on. Clients
// drill into children via the get_muscle_recovery tool.
var overviewMuscles = []string{
	"Pectorales", "Dorsales", "Trapecios", "Deltoides",
	"Bíceps", "Tríceps", "Cuádriceps", "Isquiosurales",
	"Glúteos", "Gemelos", "Core",
}

func (h *handlers) recoveryOverview(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	overview := make(map[string]any, len(overviewMuscles)+1)
	for _, muscle := range overviewMuscles {
		battery, err := h.ds.MuscleBattery(ctx, muscle)
		if err != nil {
			h.log.Error("mcp recovery_overview", "muscle", muscle, "error", err)
			return nil, err
		}
		overview[muscle] = battery
	}

	systemic, err := h.ds.SystemicFatigue(ctx)
	if err != nil {
		return nil, err
	}
	overview["systemic"] = systemic

	data, err := json.Marshal(overview)
	if err != nil {
		return nil, err
	}
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      req.Params.URI,
			MIMEType: "application/json",
			Text:     string(data),
		},
	}, nil
}

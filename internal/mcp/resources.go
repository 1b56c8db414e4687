package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/Aman-CERP/wbadvisor/configs"
	"github.com/Aman-CERP/wbadvisor/internal/aircraft"
)

// CurrentAircraftURI is the resource holding the aircraft the server
// computes against.
const CurrentAircraftURI = "wbadvisor://aircraft/current"

// PresetURI returns the resource URI of an embedded aircraft preset.
func PresetURI(name string) string {
	return "wbadvisor://aircraft/presets/" + name
}

// registerResources exposes the current aircraft and every embedded preset.
func (s *Server) registerResources() {
	s.mcp.AddResource(
		&mcp.Resource{
			Name:        "current_aircraft",
			URI:         CurrentAircraftURI,
			Description: "Aircraft data in use, including reloads of the aircraft file",
			MIMEType:    "application/json",
		},
		s.handleCurrentAircraft,
	)

	names := aircraft.Presets()
	for _, name := range names {
		s.mcp.AddResource(
			&mcp.Resource{
				Name:        "preset_" + name,
				URI:         PresetURI(name),
				Description: fmt.Sprintf("Embedded aircraft preset %q", name),
				MIMEType:    "application/yaml",
			},
			s.makePresetHandler(name),
		)
	}

	s.logger.Info("resources_registered", slog.Int("count", len(names)+1))
}

func (s *Server) handleCurrentAircraft(_ context.Context, _ *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
	data, err := json.MarshalIndent(aircraftInfo(s.source.Get()), "", "  ")
	if err != nil {
		return nil, MapError(err)
	}
	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{
			{
				URI:      CurrentAircraftURI,
				MIMEType: "application/json",
				Text:     string(data),
			},
		},
	}, nil
}

func (s *Server) makePresetHandler(name string) mcp.ResourceHandler {
	return func(_ context.Context, _ *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
		data, err := configs.AircraftPresets.ReadFile("aircraft/" + name + ".yaml")
		if err != nil {
			return nil, &MCPError{
				Code:    ErrCodeMethodNotFound,
				Message: fmt.Sprintf("Resource '%s' not found.", PresetURI(name)),
			}
		}
		return &mcp.ReadResourceResult{
			Contents: []*mcp.ResourceContents{
				{
					URI:      PresetURI(name),
					MIMEType: "application/yaml",
					Text:     string(data),
				},
			},
		}, nil
	}
}

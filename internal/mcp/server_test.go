package mcp

import (
	"context"
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Aman-CERP/wbadvisor/internal/aircraft"
	"github.com/Aman-CERP/wbadvisor/internal/payload"
	"github.com/Aman-CERP/wbadvisor/internal/profile"
	"github.com/Aman-CERP/wbadvisor/internal/units"
)

func newTestServer(t *testing.T, store profile.Store) (*Server, *aircraft.Source) {
	t.Helper()
	cfg, err := aircraft.Preset("c182-reference")
	require.NoError(t, err)
	src := aircraft.NewSource(cfg)
	s, err := NewServer(src, Options{CacheSize: 16, Profiles: store})
	require.NoError(t, err)
	return s, src
}

func fileStore(t *testing.T) profile.Store {
	t.Helper()
	return profile.NewFileStore(filepath.Join(t.TempDir(), "profiles.json"))
}

func TestNewServer_RequiresAircraft(t *testing.T) {
	_, err := NewServer(nil, Options{})
	require.Error(t, err)

	_, err = NewServer(aircraft.NewSource(nil), Options{})
	require.Error(t, err)
}

func TestNewServer_RejectsInvalidAircraft(t *testing.T) {
	// Given: an aircraft with no stations
	cfg, err := aircraft.Preset("c182-reference")
	require.NoError(t, err)
	broken := *cfg
	broken.Stations = nil

	// When: creating a server over it
	_, err = NewServer(aircraft.NewSource(&broken), Options{})

	// Then: construction fails up front
	require.Error(t, err)
}

func TestServer_InfoAndTools(t *testing.T) {
	s, _ := newTestServer(t, nil)

	name, ver := s.Info()
	assert.Equal(t, "wbadvisor", name)
	assert.NotEmpty(t, ver)
	assert.NotNil(t, s.MCPServer())

	var names []string
	for _, tool := range s.ListTools() {
		names = append(names, tool.Name)
		assert.NotEmpty(t, tool.Description)
	}
	assert.Equal(t, []string{
		"compute_report", "aircraft_info", "list_profiles",
		"load_profile", "save_profile", "optimization_brief",
	}, names)
}

func TestComputeReport_ReferenceScenario(t *testing.T) {
	s, _ := newTestServer(t, nil)

	// Given: pilot 170 lb and fuel 300 lb
	input := ComputeReportInput{Weights: map[string]float64{"pilot": 170, "fuel": 300}}

	// When: calling compute_report
	_, out, err := s.mcpComputeReportHandler(context.Background(), nil, input)
	require.NoError(t, err)

	// Then: the report matches the hand calculation
	assert.InDelta(t, 2490.0, out.Report.Takeoff.Weight, 1e-9)
	assert.InDelta(t, 39.5422, out.Report.Takeoff.CG, 1e-4)
	assert.True(t, out.Report.Takeoff.WithinEnvelope)
	assert.True(t, out.Safe)
}

func TestComputeReport_Units(t *testing.T) {
	s, _ := newTestServer(t, nil)

	// Given: pilot in kg and fuel in gallons
	input := ComputeReportInput{
		Weights:         map[string]float64{"pilot": 80, "fuel": 50},
		PlannedFuelBurn: 10,
		Unit:            "kg",
		FuelUnit:        "gal",
	}

	// When: calling compute_report
	_, out, err := s.mcpComputeReportHandler(context.Background(), nil, input)
	require.NoError(t, err)

	// Then: everything is converted to pounds
	assert.InDelta(t, 80*units.LbsPerKg, stationWeight(out, "pilot"), 1e-9)
	assert.InDelta(t, 300.0, stationWeight(out, "fuel"), 1e-9)
	assert.InDelta(t, 60.0, out.Report.PlannedFuelBurn, 1e-9)
}

func stationWeight(out ReportOutput, id aircraft.StationID) float64 {
	for _, l := range out.Report.Stations {
		if l.ID == id {
			return l.Weight
		}
	}
	return -1
}

func TestComputeReport_InvalidUnits(t *testing.T) {
	tests := []struct {
		name     string
		unit     string
		fuelUnit string
	}{
		{name: "gallons for people", unit: "gal"},
		{name: "unknown unit", unit: "stone"},
		{name: "unknown fuel unit", fuelUnit: "litre"},
	}
	s, _ := newTestServer(t, nil)

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := s.mcpComputeReportHandler(context.Background(), nil, ComputeReportInput{
				Weights:  map[string]float64{"pilot": 170},
				Unit:     tt.unit,
				FuelUnit: tt.fuelUnit,
			})

			var mcpErr *MCPError
			require.ErrorAs(t, err, &mcpErr)
			assert.Equal(t, ErrCodeInvalidParams, mcpErr.Code)
		})
	}
}

func TestComputeReport_UnknownStationIsFlagged(t *testing.T) {
	s, _ := newTestServer(t, nil)

	// When: weights name a station the aircraft lacks
	_, out, err := s.mcpComputeReportHandler(context.Background(), nil, ComputeReportInput{
		Weights: map[string]float64{"pilot": 170, "cargo_pod": 40},
	})

	// Then: it is reported, not rejected
	require.NoError(t, err)
	assert.Equal(t, []aircraft.StationID{"cargo_pod"}, out.Report.Advisories.IgnoredStations)
	assert.False(t, out.Safe)
}

func TestComputeReport_FollowsAircraftSwap(t *testing.T) {
	s, src := newTestServer(t, nil)
	input := ComputeReportInput{Weights: map[string]float64{"fuel": 300}}

	_, before, err := s.mcpComputeReportHandler(context.Background(), nil, input)
	require.NoError(t, err)
	assert.Equal(t, "c182-reference", before.Report.Aircraft)

	// Given: the aircraft is swapped after a reload
	next, err := aircraft.Preset("c182t")
	require.NoError(t, err)
	src.Swap(next)

	// When: computing again
	_, after, err := s.mcpComputeReportHandler(context.Background(), nil, input)
	require.NoError(t, err)

	// Then: the new aircraft is used
	assert.Equal(t, "c182t", after.Report.Aircraft)
	assert.NotEqual(t, before.Report.Takeoff.Weight, after.Report.Takeoff.Weight)
}

func TestAircraftInfo(t *testing.T) {
	s, _ := newTestServer(t, nil)

	_, out, err := s.mcpAircraftInfoHandler(context.Background(), nil, AircraftInfoInput{})
	require.NoError(t, err)

	assert.Equal(t, "c182-reference", out.Name)
	assert.InDelta(t, 2020*38.5, out.EmptyMoment, 1e-9)
	assert.Equal(t, "fuel", out.FuelStation)
	assert.Len(t, out.Stations, 7)
	assert.Equal(t, 2950.0, out.Limits.MaxLandingWeight)
	assert.Contains(t, out.Presets, "c182t")

	// Fuel inherits its maximum from the usable capacity.
	for _, st := range out.Stations {
		if st.ID == "fuel" {
			assert.InDelta(t, 87*units.FuelLbsPerGal, st.Max, 1e-9)
		}
	}
}

func TestProfiles_SaveListLoad(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestServer(t, fileStore(t))

	// Given: a saved profile entered in kg
	_, saved, err := s.mcpSaveProfileHandler(ctx, nil, SaveProfileInput{
		Name:    " Solo ",
		Weights: map[string]float64{"pilot": 80},
		Unit:    "kg",
	})
	require.NoError(t, err)
	assert.Equal(t, "Solo", saved.Profile.Name)
	assert.NotEmpty(t, saved.Profile.SavedAt)

	// When: listing and loading it
	_, list, err := s.mcpListProfilesHandler(ctx, nil, ListProfilesInput{})
	require.NoError(t, err)
	_, loaded, err := s.mcpLoadProfileHandler(ctx, nil, LoadProfileInput{Name: "Solo"})
	require.NoError(t, err)

	// Then: weights are stored in pounds and the report is recomputed
	require.Len(t, list.Profiles, 1)
	assert.InDelta(t, 80*units.LbsPerKg, list.Profiles[0].Weights["pilot"], 1e-9)
	assert.Equal(t, saved.Report, loaded.Report)
	assert.Equal(t, saved.Safe, loaded.Safe)
}

func TestProfiles_SaveReplacesByName(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestServer(t, fileStore(t))

	for _, w := range []float64{150, 190} {
		_, _, err := s.mcpSaveProfileHandler(ctx, nil, SaveProfileInput{
			Name:    "trip",
			Weights: map[string]float64{"pilot": w},
		})
		require.NoError(t, err)
	}

	_, list, err := s.mcpListProfilesHandler(ctx, nil, ListProfilesInput{})
	require.NoError(t, err)
	require.Len(t, list.Profiles, 1)
	assert.Equal(t, 190.0, list.Profiles[0].Weights["pilot"])
}

func TestProfiles_Errors(t *testing.T) {
	ctx := context.Background()

	t.Run("missing profile", func(t *testing.T) {
		s, _ := newTestServer(t, fileStore(t))
		_, _, err := s.mcpLoadProfileHandler(ctx, nil, LoadProfileInput{Name: "ghost"})

		var mcpErr *MCPError
		require.ErrorAs(t, err, &mcpErr)
		assert.Equal(t, ErrCodeProfileNotFound, mcpErr.Code)
	})

	t.Run("empty name", func(t *testing.T) {
		s, _ := newTestServer(t, fileStore(t))
		_, _, err := s.mcpSaveProfileHandler(ctx, nil, SaveProfileInput{Name: "  "})

		var mcpErr *MCPError
		require.ErrorAs(t, err, &mcpErr)
		assert.Equal(t, ErrCodeInvalidParams, mcpErr.Code)
	})

	t.Run("no store", func(t *testing.T) {
		s, _ := newTestServer(t, nil)
		_, _, err := s.mcpListProfilesHandler(ctx, nil, ListProfilesInput{})

		var mcpErr *MCPError
		require.ErrorAs(t, err, &mcpErr)
		assert.Equal(t, ErrCodeStoreUnavailable, mcpErr.Code)
	})
}

func TestOptimizationBrief(t *testing.T) {
	s, _ := newTestServer(t, nil)

	// Given: a loaded aircraft with every role represented
	input := OptimizationBriefInput{Weights: map[string]float64{
		"pilot": 170, "copilot": 150, "fuel": 300, "baggage_a": 100, "baggage_b": 20,
	}}

	// When: requesting the brief
	_, out, err := s.mcpOptimizationBriefHandler(context.Background(), nil, input)
	require.NoError(t, err)

	// Then: weights are grouped by role and margins are consistent
	assert.True(t, out.InWeightRange)
	assert.InDelta(t, 38.1625, out.ForwardLimit, 1e-4)
	assert.Equal(t, 320.0, out.OccupantWeight)
	assert.Equal(t, 300.0, out.FuelWeight)
	assert.Equal(t, 120.0, out.BaggageWeight)
	assert.InDelta(t, 2020+320+300+120, out.TakeoffWeight, 1e-9)
	assert.InDelta(t, out.CurrentCG-out.ForwardLimit, out.ForwardMargin, 1e-9)
	assert.InDelta(t, out.AftLimit-out.CurrentCG, out.AftMargin, 1e-9)
	assert.InDelta(t, 3100-out.TakeoffWeight, out.WeightMargin, 1e-9)

	roles := map[string]string{}
	for _, st := range out.Stations {
		roles[st.ID] = st.Role
		if st.ID == "baggage_a" {
			require.NotNil(t, st.Headroom)
			assert.Equal(t, 20.0, *st.Headroom)
		}
		if st.ID == "pilot" {
			assert.Nil(t, st.Headroom)
		}
	}
	assert.Equal(t, RoleFuel, roles["fuel"])
	assert.Equal(t, RoleBaggage, roles["baggage_c"])
	assert.Equal(t, RoleOccupant, roles["rear_seats"])
}

func TestOptimizationBrief_LimitsOutsideEnvelope(t *testing.T) {
	s, _ := newTestServer(t, nil)

	// When: the aircraft is over gross weight
	_, out, err := s.mcpOptimizationBriefHandler(context.Background(), nil, OptimizationBriefInput{
		Weights: map[string]float64{"pilot": 400, "copilot": 400, "rear_seats": 400},
	})
	require.NoError(t, err)

	// Then: limits and margins match the report's take-off state
	assert.False(t, out.WithinEnvelope)
	assert.False(t, out.InWeightRange)
	assert.Zero(t, out.ForwardLimit)
	assert.Zero(t, out.AftLimit)
	assert.Zero(t, out.ForwardMargin)
	assert.Zero(t, out.AftMargin)
	assert.Negative(t, out.WeightMargin)
	assert.True(t, out.Advisories.OverMaxWeight)
}

func TestCurrentAircraftResource(t *testing.T) {
	s, _ := newTestServer(t, nil)

	res, err := s.handleCurrentAircraft(context.Background(), nil)
	require.NoError(t, err)
	require.Len(t, res.Contents, 1)
	assert.Equal(t, CurrentAircraftURI, res.Contents[0].URI)

	var info AircraftInfoOutput
	require.NoError(t, json.Unmarshal([]byte(res.Contents[0].Text), &info))
	assert.Equal(t, "c182-reference", info.Name)
}

func TestPresetResource(t *testing.T) {
	s, _ := newTestServer(t, nil)

	res, err := s.makePresetHandler("c182t")(context.Background(), nil)
	require.NoError(t, err)
	require.Len(t, res.Contents, 1)

	// The YAML text parses back into the same preset.
	cfg, err := aircraft.Parse([]byte(res.Contents[0].Text))
	require.NoError(t, err)
	assert.Equal(t, "c182t", cfg.Name)

	_, err = s.makePresetHandler("nope")(context.Background(), nil)
	require.Error(t, err)
}

func TestPayloadFrom_Sanitizes(t *testing.T) {
	s, src := newTestServer(t, nil)

	st, err := s.payloadFrom(src.Get(), map[string]float64{"pilot": -5}, -1, "", "")
	require.NoError(t, err)
	assert.Equal(t, payload.State{
		Weights:         map[aircraft.StationID]float64{"pilot": 0},
		PlannedFuelBurn: 0,
	}, st)
}

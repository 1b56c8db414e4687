package mcp

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/Aman-CERP/wbadvisor/internal/aircraft"
	"github.com/Aman-CERP/wbadvisor/internal/balance"
	wberrors "github.com/Aman-CERP/wbadvisor/internal/errors"
	"github.com/Aman-CERP/wbadvisor/internal/payload"
	"github.com/Aman-CERP/wbadvisor/internal/profile"
	"github.com/Aman-CERP/wbadvisor/internal/units"
	"github.com/Aman-CERP/wbadvisor/pkg/version"
)

// ServerName is reported to MCP clients during initialization.
const ServerName = "wbadvisor"

// Server is the MCP server for wbadvisor.
// It exposes the weight-and-balance calculator and saved profiles as tools.
type Server struct {
	mcp      *mcp.Server
	source   *aircraft.Source
	profiles profile.Store
	units    payload.Units
	logger   *slog.Logger

	cacheSize int

	// cache is rebuilt whenever source hands out a different aircraft.
	mu    sync.Mutex
	cache *balance.Cache
}

// Options configures a Server.
type Options struct {
	// Units are the defaults for tool calls that do not name a unit.
	Units payload.Units
	// CacheSize bounds the report cache; 0 disables it.
	CacheSize int
	// Profiles may be nil, in which case the profile tools report an error.
	Profiles profile.Store
	Logger   *slog.Logger
}

// ToolInfo contains information about a registered tool.
type ToolInfo struct {
	Name        string
	Description string
}

var tools = []ToolInfo{
	{
		Name:        "compute_report",
		Description: "Compute the weight-and-balance report for a payload: take-off, zero-fuel and landing weight, moment and CG, envelope checks and limit advisories. Weights in the result are pounds.",
	},
	{
		Name:        "aircraft_info",
		Description: "Describe the loaded aircraft: empty weight and CG, load stations with arms and maxima, weight limits and the CG envelope.",
	},
	{
		Name:        "list_profiles",
		Description: "List saved payload profiles.",
	},
	{
		Name:        "load_profile",
		Description: "Load a saved payload profile and compute its report against the current aircraft.",
	},
	{
		Name:        "save_profile",
		Description: "Save a payload under a name, replacing any profile with that name, and return its report.",
	},
	{
		Name:        "optimization_brief",
		Description: "Summarize a payload for load planning: occupant, fuel and baggage weights, current CG, CG limits and margins, and per-station headroom.",
	},
}

// NewServer creates a new MCP server over the aircraft held by src.
func NewServer(src *aircraft.Source, opts Options) (*Server, error) {
	if src == nil || src.Get() == nil {
		return nil, errors.New("aircraft source is required")
	}
	if opts.Units.Input == "" {
		opts.Units.Input = units.Pounds
	}
	if opts.Units.Fuel == "" {
		opts.Units.Fuel = units.Pounds
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}

	s := &Server{
		source:    src,
		profiles:  opts.Profiles,
		units:     opts.Units,
		cacheSize: opts.CacheSize,
		logger:    opts.Logger,
	}

	// Fail at startup rather than on the first call.
	if _, err := s.reports(); err != nil {
		return nil, err
	}

	s.mcp = mcp.NewServer(
		&mcp.Implementation{
			Name:    ServerName,
			Version: version.Version,
		},
		nil,
	)

	s.registerTools()
	s.registerResources()

	return s, nil
}

// MCPServer returns the underlying MCP server instance.
func (s *Server) MCPServer() *mcp.Server {
	return s.mcp
}

// Info returns the server name and version.
func (s *Server) Info() (name, ver string) {
	return ServerName, version.Version
}

// ListTools returns all registered tools.
func (s *Server) ListTools() []ToolInfo {
	return append([]ToolInfo(nil), tools...)
}

func (s *Server) registerTools() {
	s.logger.Debug("registering_tools")

	mcp.AddTool(s.mcp, toolDef("compute_report"), s.mcpComputeReportHandler)
	mcp.AddTool(s.mcp, toolDef("aircraft_info"), s.mcpAircraftInfoHandler)
	mcp.AddTool(s.mcp, toolDef("list_profiles"), s.mcpListProfilesHandler)
	mcp.AddTool(s.mcp, toolDef("load_profile"), s.mcpLoadProfileHandler)
	mcp.AddTool(s.mcp, toolDef("save_profile"), s.mcpSaveProfileHandler)
	mcp.AddTool(s.mcp, toolDef("optimization_brief"), s.mcpOptimizationBriefHandler)

	s.logger.Info("tools_registered", slog.Int("count", len(tools)))
}

func toolDef(name string) *mcp.Tool {
	for _, t := range tools {
		if t.Name == name {
			return &mcp.Tool{Name: t.Name, Description: t.Description}
		}
	}
	panic("mcp: undefined tool " + name)
}

// reports returns the report cache for the current aircraft.
func (s *Server) reports() (*balance.Cache, error) {
	cfg := s.source.Get()

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cache != nil && s.cache.Calculator().Aircraft() == cfg {
		return s.cache, nil
	}
	calc, err := balance.NewCalculator(cfg)
	if err != nil {
		return nil, err
	}
	s.cache = balance.NewCache(calc, s.cacheSize)
	s.logger.Debug("report_cache_reset", slog.String("aircraft", cfg.Name))
	return s.cache, nil
}

// compute runs one pass and returns the aircraft it ran against.
func (s *Server) compute(p payload.State) (*aircraft.Config, balance.Report, error) {
	c, err := s.reports()
	if err != nil {
		return nil, balance.Report{}, err
	}
	return c.Calculator().Aircraft(), c.Compute(p), nil
}

// computeWeights converts tool weights and computes their report against
// one aircraft snapshot.
func (s *Server) computeWeights(weights map[string]float64, burn float64, unit, fuelUnit string) (*aircraft.Config, payload.State, balance.Report, error) {
	c, err := s.reports()
	if err != nil {
		return nil, payload.State{}, balance.Report{}, err
	}
	cfg := c.Calculator().Aircraft()
	st, err := s.payloadFrom(cfg, weights, burn, unit, fuelUnit)
	if err != nil {
		return nil, payload.State{}, balance.Report{}, err
	}
	return cfg, st, c.Compute(st), nil
}

// payloadFrom converts tool weights to a pounds payload. Stations the
// aircraft lacks are kept so the report can flag them.
func (s *Server) payloadFrom(cfg *aircraft.Config, weights map[string]float64, burn float64, unit, fuelUnit string) (payload.State, error) {
	u, err := s.inputUnits(unit, fuelUnit)
	if err != nil {
		return payload.State{}, err
	}
	st := payload.New()
	for name, v := range weights {
		id := aircraft.StationID(name)
		in := u.Input
		if id == cfg.FuelStation {
			in = u.Fuel
		}
		st.Set(id, units.ToLbs(v, in))
	}
	st.PlannedFuelBurn = units.ToLbs(burn, u.Fuel)
	return st.Sanitize(), nil
}

func (s *Server) inputUnits(unit, fuelUnit string) (payload.Units, error) {
	u := s.units
	if unit != "" {
		parsed, err := units.ParseUnit(unit)
		if err != nil {
			return u, err
		}
		if !parsed.IsMass() {
			return u, wberrors.New(wberrors.ErrCodeInvalidUnit,
				fmt.Sprintf("unit %q is not a mass unit", unit), nil).
				WithSuggestion("use lb or kg; gal applies to fuel_unit only")
		}
		u.Input = parsed
	}
	if fuelUnit != "" {
		parsed, err := units.ParseUnit(fuelUnit)
		if err != nil {
			return u, err
		}
		u.Fuel = parsed
	}
	return u, nil
}

func (s *Server) profileStore() (profile.Store, error) {
	if s.profiles == nil {
		return nil, ErrNoProfileStore
	}
	return s.profiles, nil
}

// mcpComputeReportHandler is the MCP SDK handler for the compute_report tool.
func (s *Server) mcpComputeReportHandler(_ context.Context, _ *mcp.CallToolRequest, input ComputeReportInput) (
	*mcp.CallToolResult,
	ReportOutput,
	error,
) {
	reqID := generateRequestID()
	s.logger.Debug("tool_call", slog.String("tool", "compute_report"), slog.String("request_id", reqID))

	_, _, report, err := s.computeWeights(input.Weights, input.PlannedFuelBurn, input.Unit, input.FuelUnit)
	if err != nil {
		return nil, ReportOutput{}, MapError(err)
	}

	s.logger.Debug("report_computed",
		slog.String("request_id", reqID),
		slog.Float64("takeoff_weight", report.Takeoff.Weight),
		slog.Bool("safe", report.Safe()))

	return nil, ReportOutput{Report: report, Safe: report.Safe()}, nil
}

// mcpAircraftInfoHandler is the MCP SDK handler for the aircraft_info tool.
func (s *Server) mcpAircraftInfoHandler(_ context.Context, _ *mcp.CallToolRequest, _ AircraftInfoInput) (
	*mcp.CallToolResult,
	AircraftInfoOutput,
	error,
) {
	return nil, aircraftInfo(s.source.Get()), nil
}

func aircraftInfo(cfg *aircraft.Config) AircraftInfoOutput {
	out := AircraftInfoOutput{
		Name:        cfg.Name,
		Model:       cfg.Model,
		EmptyWeight: cfg.EmptyWeight,
		EmptyCG:     cfg.EmptyCG,
		EmptyMoment: cfg.EmptyMoment(),
		FuelStation: string(cfg.FuelStation),
		Stations:    make([]StationInfo, 0, len(cfg.Stations)),
		Limits:      cfg.Limits,
		Envelope:    cfg.Envelope,
		Presets:     aircraft.Presets(),
	}
	out.Limits.MaxLandingWeight = cfg.Limits.LandingLimit()
	for _, st := range cfg.Stations {
		info := StationInfo{
			ID:      string(st.ID),
			Label:   st.Label,
			Arm:     st.ArmValue(),
			Baggage: st.Baggage,
		}
		if max, ok := cfg.StationMax(st.ID); ok {
			info.Max = max
		}
		out.Stations = append(out.Stations, info)
	}
	return out
}

// mcpListProfilesHandler is the MCP SDK handler for the list_profiles tool.
func (s *Server) mcpListProfilesHandler(ctx context.Context, _ *mcp.CallToolRequest, _ ListProfilesInput) (
	*mcp.CallToolResult,
	ListProfilesOutput,
	error,
) {
	store, err := s.profileStore()
	if err != nil {
		return nil, ListProfilesOutput{}, MapError(err)
	}
	profiles, err := store.Load(ctx)
	if err != nil {
		s.logger.Warn("profile_load_failed", slog.Any("error", wberrors.FormatForLog(err)))
		return nil, ListProfilesOutput{}, MapError(err)
	}

	out := ListProfilesOutput{Profiles: make([]ProfileOutput, 0, len(profiles))}
	for _, p := range profiles {
		out.Profiles = append(out.Profiles, profileOutput(p))
	}
	return nil, out, nil
}

// mcpLoadProfileHandler is the MCP SDK handler for the load_profile tool.
func (s *Server) mcpLoadProfileHandler(ctx context.Context, _ *mcp.CallToolRequest, input LoadProfileInput) (
	*mcp.CallToolResult,
	LoadProfileOutput,
	error,
) {
	if input.Name == "" {
		return nil, LoadProfileOutput{}, NewInvalidParamsError("name parameter is required")
	}
	store, err := s.profileStore()
	if err != nil {
		return nil, LoadProfileOutput{}, MapError(err)
	}
	p, err := profile.Get(ctx, store, input.Name)
	if err != nil {
		return nil, LoadProfileOutput{}, MapError(err)
	}
	_, report, err := s.compute(p.Weights)
	if err != nil {
		return nil, LoadProfileOutput{}, MapError(err)
	}
	return nil, LoadProfileOutput{
		Profile: profileOutput(p),
		Report:  report,
		Safe:    report.Safe(),
	}, nil
}

// mcpSaveProfileHandler is the MCP SDK handler for the save_profile tool.
func (s *Server) mcpSaveProfileHandler(ctx context.Context, _ *mcp.CallToolRequest, input SaveProfileInput) (
	*mcp.CallToolResult,
	SaveProfileOutput,
	error,
) {
	name, err := profile.ValidateName(input.Name)
	if err != nil {
		return nil, SaveProfileOutput{}, MapError(err)
	}
	store, err := s.profileStore()
	if err != nil {
		return nil, SaveProfileOutput{}, MapError(err)
	}
	_, st, report, err := s.computeWeights(input.Weights, input.PlannedFuelBurn, input.Unit, input.FuelUnit)
	if err != nil {
		return nil, SaveProfileOutput{}, MapError(err)
	}

	p := profile.Profile{Name: name, Weights: st, SavedAt: time.Now().UTC()}
	if err := store.Save(ctx, p); err != nil {
		s.logger.Warn("profile_save_failed",
			slog.String("name", name),
			slog.Any("error", wberrors.FormatForLog(err)))
		return nil, SaveProfileOutput{}, MapError(err)
	}
	s.logger.Info("profile_saved", slog.String("name", name))

	return nil, SaveProfileOutput{
		Profile: profileOutput(p),
		Report:  report,
		Safe:    report.Safe(),
	}, nil
}

// mcpOptimizationBriefHandler is the MCP SDK handler for the optimization_brief tool.
func (s *Server) mcpOptimizationBriefHandler(_ context.Context, _ *mcp.CallToolRequest, input OptimizationBriefInput) (
	*mcp.CallToolResult,
	OptimizationBriefOutput,
	error,
) {
	cfg, _, report, err := s.computeWeights(input.Weights, input.PlannedFuelBurn, input.Unit, input.FuelUnit)
	if err != nil {
		return nil, OptimizationBriefOutput{}, MapError(err)
	}
	return nil, brief(cfg, report), nil
}

// brief summarizes a report for load planning.
func brief(cfg *aircraft.Config, r balance.Report) OptimizationBriefOutput {
	to := r.Takeoff

	out := OptimizationBriefOutput{
		Aircraft:       r.Aircraft,
		BaggageWeight:  r.BaggageWeight,
		TakeoffWeight:  to.Weight,
		CurrentCG:      to.CG,
		InWeightRange:  to.InWeightRange,
		ForwardLimit:   to.ForwardLimit,
		AftLimit:       to.AftLimit,
		MaxWeight:      cfg.Limits.MaxWeight,
		WeightMargin:   cfg.Limits.MaxWeight - to.Weight,
		WithinEnvelope: to.WithinEnvelope,
		Safe:           r.Safe(),
		Stations:       make([]BriefStation, 0, len(r.Stations)),
		Advisories:     r.Advisories,
	}
	if to.InWeightRange {
		out.ForwardMargin = to.CG - to.ForwardLimit
		out.AftMargin = to.AftLimit - to.CG
	}

	for _, l := range r.Stations {
		bs := BriefStation{
			ID:     string(l.ID),
			Label:  l.Label,
			Role:   RoleOccupant,
			Weight: l.Weight,
			Arm:    l.Arm,
		}
		switch {
		case l.ID == cfg.FuelStation:
			bs.Role = RoleFuel
			out.FuelWeight += l.Weight
		case l.Baggage:
			bs.Role = RoleBaggage
		default:
			out.OccupantWeight += l.Weight
		}
		if l.Max > 0 {
			headroom := l.Max - l.Weight
			bs.Headroom = &headroom
		}
		out.Stations = append(out.Stations, bs)
	}
	return out
}

func profileOutput(p profile.Profile) ProfileOutput {
	out := ProfileOutput{
		Name:            p.Name,
		Weights:         make(map[string]float64, len(p.Weights.Weights)),
		PlannedFuelBurn: p.Weights.PlannedFuelBurn,
		SavedAt:         p.SavedAt.UTC().Format(time.RFC3339),
	}
	for id, w := range p.Weights.Weights {
		out.Weights[string(id)] = w
	}
	return out
}

// Serve starts the server with the specified transport.
func (s *Server) Serve(ctx context.Context, transport string) error {
	s.logger.Info("mcp_server_starting", slog.String("transport", transport))

	switch transport {
	case "stdio":
		err := s.mcp.Run(ctx, &mcp.StdioTransport{})
		if err != nil && !errors.Is(err, context.Canceled) {
			s.logger.Error("mcp_server_failed", slog.String("error", err.Error()))
		} else {
			s.logger.Info("mcp_server_stopped")
		}
		return err
	default:
		return fmt.Errorf("unknown transport: %s (supported: stdio)", transport)
	}
}

// Close releases the profile store.
func (s *Server) Close() error {
	if s.profiles == nil {
		return nil
	}
	return s.profiles.Close()
}

// generateRequestID creates a short unique request ID for log correlation.
func generateRequestID() string {
	b := make([]byte, 4)
	_, _ = rand.Read(b)
	return hex.EncodeToString(b)
}

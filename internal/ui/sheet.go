package ui

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/Aman-CERP/wbadvisor/internal/aircraft"
	"github.com/Aman-CERP/wbadvisor/internal/balance"
	wberrors "github.com/Aman-CERP/wbadvisor/internal/errors"
	"github.com/Aman-CERP/wbadvisor/internal/payload"
	"github.com/Aman-CERP/wbadvisor/internal/profile"
	"github.com/Aman-CERP/wbadvisor/internal/units"
)

// storeTimeout bounds each profile store call made from the load sheet.
const storeTimeout = 5 * time.Second

// SheetOptions configures a LoadSheet.
type SheetOptions struct {
	// Store may be nil; saving and cycling profiles are then unavailable.
	Store profile.Store
	// Unit is the initial entry unit, lb or kg.
	Unit    units.Unit
	NoColor bool
	// Initial pre-fills the fields.
	Initial payload.State
}

// field is one editable row. An empty id is the planned fuel burn.
type field struct {
	id    aircraft.StationID
	label string
	input textinput.Model
}

// LoadSheet is the interactive load sheet. Every keystroke recomputes the
// report. Weights are kept in pounds; the unit only changes how fields are
// entered and displayed.
type LoadSheet struct {
	ctx     context.Context
	reports *balance.Cache
	cfg     *aircraft.Config
	store   profile.Store
	styles  Styles
	unit    units.Unit

	fields []field
	focus  int
	state  payload.State
	report balance.Report

	profiles   []profile.Profile
	profileIdx int

	naming    bool
	nameInput textinput.Model

	status    string
	statusErr bool
	quitting  bool
}

// Message types for bubbletea
type profilesLoadedMsg struct {
	profiles []profile.Profile
	err      error
}

type profileSavedMsg struct {
	name     string
	profiles []profile.Profile
	err      error
}

// NewLoadSheet creates a load sheet over a report cache.
func NewLoadSheet(ctx context.Context, reports *balance.Cache, opts SheetOptions) *LoadSheet {
	unit := opts.Unit
	if unit != units.Kilograms {
		unit = units.Pounds
	}
	cfg := reports.Calculator().Aircraft()

	m := &LoadSheet{
		ctx:        ctx,
		reports:    reports,
		cfg:        cfg,
		store:      opts.Store,
		styles:     GetStyles(opts.NoColor),
		unit:       unit,
		state:      payload.New(),
		profileIdx: -1,
	}

	for _, st := range cfg.Stations {
		label := st.Label
		if label == "" {
			label = string(st.ID)
		}
		m.fields = append(m.fields, field{id: st.ID, label: label, input: newAmountInput()})
	}
	m.fields = append(m.fields, field{label: "Planned fuel burn", input: newAmountInput()})

	m.nameInput = textinput.New()
	m.nameInput.Placeholder = "profile name"
	m.nameInput.CharLimit = profile.MaxNameLength
	m.nameInput.Width = 32

	if opts.Initial.Weights != nil || opts.Initial.PlannedFuelBurn > 0 {
		m.fill(opts.Initial)
	}
	m.fields[0].input.Focus()
	m.report = m.reports.Compute(m.state)
	return m
}

func newAmountInput() textinput.Model {
	ti := textinput.New()
	ti.Prompt = ""
	ti.Placeholder = "0"
	ti.CharLimit = 12
	ti.Width = 12
	return ti
}

// Init implements tea.Model.
func (m *LoadSheet) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.loadProfiles())
}

// Update implements tea.Model.
func (m *LoadSheet) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.naming {
			return m.updateNaming(msg)
		}
		switch msg.String() {
		case "ctrl+c", "esc":
			m.quitting = true
			return m, tea.Quit
		case "tab", "down", "enter":
			return m, m.moveFocus(1)
		case "shift+tab", "up":
			return m, m.moveFocus(-1)
		case "ctrl+u":
			m.toggleUnit()
			return m, nil
		case "ctrl+s":
			if m.store == nil {
				m.setStatus("profiles are not available", true)
				return m, nil
			}
			m.naming = true
			m.nameInput.SetValue("")
			if m.profileIdx >= 0 {
				m.nameInput.SetValue(m.profiles[m.profileIdx].Name)
			}
			return m, m.nameInput.Focus()
		case "ctrl+l":
			m.nextProfile()
			return m, nil
		}

		var cmd tea.Cmd
		f := &m.fields[m.focus]
		f.input, cmd = f.input.Update(msg)
		m.readField(m.focus)
		m.recompute()
		return m, cmd

	case profilesLoadedMsg:
		if msg.err != nil {
			slog.Warn("profile_load_failed", slog.Any("error", wberrors.FormatForLog(msg.err)))
			m.setStatus("profiles unavailable: "+msg.err.Error(), true)
			return m, nil
		}
		m.profiles = msg.profiles
		return m, nil

	case profileSavedMsg:
		if msg.err != nil {
			slog.Warn("profile_save_failed",
				slog.String("name", msg.name),
				slog.Any("error", wberrors.FormatForLog(msg.err)))
			m.setStatus("save failed: "+msg.err.Error(), true)
			return m, nil
		}
		m.profiles = msg.profiles
		m.profileIdx = indexOf(m.profiles, msg.name)
		m.setStatus(fmt.Sprintf("saved %q", msg.name), false)
		return m, nil
	}

	// Blink and other messages go to the focused input.
	var cmd tea.Cmd
	if m.naming {
		m.nameInput, cmd = m.nameInput.Update(msg)
	} else {
		m.fields[m.focus].input, cmd = m.fields[m.focus].input.Update(msg)
	}
	return m, cmd
}

func (m *LoadSheet) updateNaming(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		m.quitting = true
		return m, tea.Quit
	case "esc":
		m.naming = false
		m.nameInput.Blur()
		m.setStatus("save cancelled", false)
		return m, nil
	case "enter":
		name, err := profile.ValidateName(m.nameInput.Value())
		if err != nil {
			m.setStatus(wberrors.FormatForCLI(err), true)
			return m, nil
		}
		m.naming = false
		m.nameInput.Blur()
		return m, m.saveProfile(name)
	}
	var cmd tea.Cmd
	m.nameInput, cmd = m.nameInput.Update(msg)
	return m, cmd
}

func (m *LoadSheet) moveFocus(delta int) tea.Cmd {
	m.fields[m.focus].input.Blur()
	m.focus = (m.focus + delta + len(m.fields)) % len(m.fields)
	return m.fields[m.focus].input.Focus()
}

// readField converts one field's text to pounds. Only the edited field is
// re-read so values shown rounded keep their stored precision.
func (m *LoadSheet) readField(i int) {
	f := m.fields[i]
	lbs := units.ToLbs(payload.Coerce(f.input.Value()), m.unit)
	if f.id == "" {
		m.state.PlannedFuelBurn = lbs
		return
	}
	m.state.Set(f.id, lbs)
}

func (m *LoadSheet) recompute() {
	m.report = m.reports.Compute(m.state)
}

// toggleUnit switches entry between pounds and kilograms and rewrites the
// fields from the stored pound values.
func (m *LoadSheet) toggleUnit() {
	if m.unit == units.Kilograms {
		m.unit = units.Pounds
	} else {
		m.unit = units.Kilograms
	}
	for i := range m.fields {
		m.fields[i].input.SetValue(m.display(m.lbs(i)))
	}
	m.setStatus("entering weights in "+m.unit.String(), false)
}

func (m *LoadSheet) lbs(i int) float64 {
	if id := m.fields[i].id; id != "" {
		return m.state.Weight(id)
	}
	return m.state.PlannedFuelBurn
}

// display formats a pound value in the current unit; zero is a blank field.
func (m *LoadSheet) display(lbs float64) string {
	if lbs == 0 {
		return ""
	}
	v := math.Round(units.FromLbs(lbs, m.unit)*100) / 100
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// fill replaces the payload and rewrites every field.
func (m *LoadSheet) fill(p payload.State) {
	m.state = p.Sanitize()
	for i := range m.fields {
		m.fields[i].input.SetValue(m.display(m.lbs(i)))
	}
}

func (m *LoadSheet) nextProfile() {
	if len(m.profiles) == 0 {
		m.setStatus("no saved profiles", true)
		return
	}
	m.profileIdx = (m.profileIdx + 1) % len(m.profiles)
	p := m.profiles[m.profileIdx]
	m.fill(p.Weights)
	m.recompute()
	m.setStatus(fmt.Sprintf("loaded %q (%d/%d)", p.Name, m.profileIdx+1, len(m.profiles)), false)
}

func (m *LoadSheet) setStatus(msg string, isErr bool) {
	m.status = msg
	m.statusErr = isErr
}

func (m *LoadSheet) loadProfiles() tea.Cmd {
	if m.store == nil {
		return nil
	}
	store, ctx := m.store, m.ctx
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(ctx, storeTimeout)
		defer cancel()
		profiles, err := store.Load(ctx)
		return profilesLoadedMsg{profiles: profiles, err: err}
	}
}

func (m *LoadSheet) saveProfile(name string) tea.Cmd {
	store, ctx := m.store, m.ctx
	p := profile.Profile{Name: name, Weights: m.state.Clone()}
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(ctx, storeTimeout)
		defer cancel()
		if err := store.Save(ctx, p); err != nil {
			return profileSavedMsg{name: name, err: err}
		}
		profiles, err := store.Load(ctx)
		return profileSavedMsg{name: name, profiles: profiles, err: err}
	}
}

func indexOf(profiles []profile.Profile, name string) int {
	for i, p := range profiles {
		if p.Name == name {
			return i
		}
	}
	return -1
}

// Report returns the report for the current entries.
func (m *LoadSheet) Report() balance.Report {
	return m.report
}

// State returns a copy of the current payload in pounds.
func (m *LoadSheet) State() payload.State {
	return m.state.Clone()
}

// Unit returns the current entry unit.
func (m *LoadSheet) Unit() units.Unit {
	return m.unit
}

// View implements tea.Model.
func (m *LoadSheet) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder
	title := "wbadvisor load sheet • " + m.cfg.Name
	if m.cfg.Model != "" {
		title += " (" + m.cfg.Model + ")"
	}
	b.WriteString(m.styles.Header.Render(title))
	b.WriteString("\n\n")

	for i, f := range m.fields {
		cursor := "  "
		label := m.styles.Label.Render(fmt.Sprintf("%-26s", truncate(f.label, 26)))
		if i == m.focus {
			cursor = m.styles.Active.Render("› ")
			label = m.styles.Active.Render(fmt.Sprintf("%-26s", truncate(f.label, 26)))
		}
		b.WriteString(cursor + label + " " + f.input.View() + " " + m.styles.Dim.Render(m.unit.String()))
		b.WriteByte('\n')
	}
	b.WriteByte('\n')

	b.WriteString(m.styles.Panel.Render(strings.TrimRight(RenderReport(m.report, m.styles, m.unit), "\n")))
	b.WriteByte('\n')

	if m.naming {
		b.WriteString(m.styles.Active.Render("Save as: ") + m.nameInput.View())
		b.WriteByte('\n')
	}
	if m.status != "" {
		style := m.styles.Label
		if m.statusErr {
			style = m.styles.Warning
		}
		b.WriteString(style.Render(m.status))
		b.WriteByte('\n')
	}

	help := "tab next • ctrl+u lb/kg • ctrl+l next profile • ctrl+s save • esc quit"
	if m.naming {
		help = "enter save • esc cancel"
	}
	b.WriteString(m.styles.Dim.Render(help))
	b.WriteByte('\n')
	return b.String()
}

// ErrNotTerminal is returned when the load sheet is started without a TTY.
var ErrNotTerminal = errors.New("the load sheet needs an interactive terminal")

// RunLoadSheet runs the load sheet until the user quits or ctx is done.
func RunLoadSheet(ctx context.Context, m *LoadSheet, out io.Writer) error {
	if !IsTTY(out) {
		return ErrNotTerminal
	}

	opts := []tea.ProgramOption{tea.WithContext(ctx), tea.WithAltScreen()}
	if f, ok := out.(*os.File); ok {
		opts = append(opts, tea.WithOutput(f))
	}

	_, err := tea.NewProgram(m, opts...).Run()
	if err != nil && ctx.Err() != nil {
		return nil
	}
	return err
}

var _ tea.Model = (*LoadSheet)(nil)

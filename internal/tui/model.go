// Package tui is the terminal front end of the setup wizard. It is a
// form adapter over wizard.Session: every step reads the session,
// validates its own fields locally, and writes back only through the
// validate → dispatch → advance contract.
package tui

import (
	"context"
	"fmt"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"

	"github.com/tkel/panoptes-setup/internal/draft"
	"github.com/tkel/panoptes-setup/internal/wizard"
)

const appName = "Panoptes Setup"

// ---------------------------------------------------------------------------
// Bubble Tea messages
// ---------------------------------------------------------------------------

type draftSavedMsg struct {
	name string
	err  error
}

type exportDoneMsg struct {
	path string
	err  error
}

// ---------------------------------------------------------------------------
// Model
// ---------------------------------------------------------------------------

// Model is the Bubble Tea model for the wizard. The session is owned
// by the caller and passed in explicitly; the model never reaches for
// shared state.
type Model struct {
	session    *wizard.Session
	drafts     *draft.Repo // nil when persistence is unavailable
	exportPath string
	keys       keyMap

	// Step form state. Rebuilt on every step change.
	nav          formNav
	lastStep     wizard.Step
	nameInput    textinput.Model
	typeIdx      int
	nodeName     textinput.Model
	nodeEndpoint textinput.Model
	nodeMonitor  bool
	repoURL      textinput.Model
	repoMonitor  bool
	chanKind     textinput.Model
	chanTarget   textinput.Model
	pending      []wizard.Channel

	draftID string

	width    int
	height   int
	status   string
	statusOK bool
}

// New builds the wizard model around an existing session.
func New(session *wizard.Session, drafts *draft.Repo, exportPath string) Model {
	m := Model{
		session:      session,
		drafts:       drafts,
		exportPath:   exportPath,
		keys:         newKeyMap(),
		nameInput:    newInput("mainnet-validator", 64),
		nodeName:     newInput("validator-1", 64),
		nodeEndpoint: newInput("https://rpc.example.com:26657", 200),
		repoURL:      newInput("github.com/cosmos/gaia", 200),
		chanKind:     newInput("telegram", 32),
		chanTarget:   newInput("@ops-alerts", 200),
		status:       "Let's set up monitoring. Fill in the chain basics.",
		statusOK:     true,
	}
	m.lastStep = session.Step()
	m.enterStep()
	return m
}

// WithDraftID ties the model to an existing draft so subsequent saves
// overwrite it instead of creating a new one. Used when resuming.
func (m Model) WithDraftID(id string) Model {
	m.draftID = id
	return m
}

func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil
	case draftSavedMsg:
		if msg.err != nil {
			m.setStatus(fmt.Sprintf("Draft save failed: %v", msg.err), false)
			return m, nil
		}
		m.setStatus(fmt.Sprintf("Draft %q saved.", msg.name), true)
		return m, nil
	case exportDoneMsg:
		if msg.err != nil {
			m.setStatus(fmt.Sprintf("Export failed: %v", msg.err), false)
			return m, nil
		}
		m.setStatus(fmt.Sprintf("Configuration written to %s", msg.path), true)
		return m, nil
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		return m.updateStep(msg)
	}
	return m, nil
}

func (m *Model) setStatus(text string, ok bool) {
	m.status = text
	m.statusOK = ok
}

// enterStep resets per-step form state when the active step changes.
func (m *Model) enterStep() {
	step := m.session.Step()
	m.lastStep = step
	switch step {
	case wizard.StepName:
		m.nav.reset(2)
		if c, ok := m.session.CurrentChain(); ok {
			// Revisiting: edit in place, type stays fixed.
			m.nameInput.SetValue(c.Name)
			for i, t := range m.chainTypes() {
				if t == c.Type {
					m.typeIdx = i
				}
			}
		} else {
			m.typeIdx = 0
		}
		syncFocus([]*textinput.Model{&m.nameInput}, 0)
	case wizard.StepNodes:
		m.nav.reset(3)
		m.nodeMonitor = true
		syncFocus([]*textinput.Model{&m.nodeName, &m.nodeEndpoint}, 0)
	case wizard.StepRepositories:
		m.nav.reset(2)
		m.repoMonitor = true
		syncFocus([]*textinput.Model{&m.repoURL}, 0)
	case wizard.StepChannels:
		m.nav.reset(2)
		// Editing resumes from whatever the chain already has, so a
		// retreat-then-return does not lose committed channels.
		if c, ok := m.session.CurrentChain(); ok {
			m.pending = append([]wizard.Channel(nil), c.Channels...)
		} else {
			m.pending = nil
		}
		syncFocus([]*textinput.Model{&m.chanKind, &m.chanTarget}, 0)
	case wizard.StepReview:
		m.nav.reset(0)
	}
}

// afterNavigate refreshes form state if navigation changed the step.
func (m *Model) afterNavigate() {
	if m.session.Step() != m.lastStep {
		m.enterStep()
	}
}

// chainTypes lists the selectable chain types in workflow order.
func (m Model) chainTypes() []string {
	return m.session.Workflows().Types()
}

func (m Model) selectedType() string {
	types := m.chainTypes()
	if len(types) == 0 {
		return ""
	}
	return types[m.typeIdx%len(types)]
}

// ---------------------------------------------------------------------------
// Commands
// ---------------------------------------------------------------------------

func saveDraftCmd(repo *draft.Repo, id, name string, snapshot []byte) tea.Cmd {
	return func() tea.Msg {
		err := repo.Save(context.Background(), draft.Draft{ID: id, Name: name, Snapshot: snapshot})
		return draftSavedMsg{name: name, err: err}
	}
}

func exportCmd(store wizard.Store, path string) tea.Cmd {
	return func() tea.Msg {
		return exportDoneMsg{path: path, err: wizard.WriteOutput(store, path)}
	}
}

// draftName labels a draft after the chain being edited, falling back
// to a generic name before the first chain exists.
func (m *Model) ensureDraftIdentity() (id, name string) {
	if m.draftID == "" {
		m.draftID = uuid.NewString()
	}
	name = "untitled setup"
	if c, ok := m.session.CurrentChain(); ok {
		name = c.Name
	} else if chains := m.session.Store().Chains(); len(chains) > 0 {
		name = chains[len(chains)-1].Name
	}
	return m.draftID, name
}

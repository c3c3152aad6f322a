package tui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/tkel/panoptes-setup/internal/wizard"
)

// ---------------------------------------------------------------------------
// Step dispatch
// ---------------------------------------------------------------------------

func (m Model) updateStep(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.session.Step() {
	case wizard.StepName:
		return m.updateNameStep(msg)
	case wizard.StepNodes:
		return m.updateNodesStep(msg)
	case wizard.StepRepositories:
		return m.updateRepositoriesStep(msg)
	case wizard.StepChannels:
		return m.updateChannelsStep(msg)
	case wizard.StepReview:
		return m.updateReviewStep(msg)
	}
	return m, nil
}

// ---------------------------------------------------------------------------
// NAME step: chain name + type selector
// ---------------------------------------------------------------------------

func (m *Model) syncNameFocus() {
	focus := -1
	if m.nav.focusIdx == 0 {
		focus = 0
	}
	syncFocus([]*textinput.Model{&m.nameInput}, focus)
}

func (m Model) updateNameStep(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		return m.submitNameStep()
	case "esc":
		if m.session.Retreat() {
			m.afterNavigate()
		}
		return m, nil
	}
	if m.nav.handleNav(msg) {
		m.syncNameFocus()
		return m, nil
	}
	if m.nav.focusIdx == 1 {
		// Type selector; fixed once the chain exists.
		if _, exists := m.session.CurrentChain(); exists {
			return m, nil
		}
		switch msg.String() {
		case "left", "h":
			n := len(m.chainTypes())
			m.typeIdx = (m.typeIdx - 1 + n) % n
		case "right", "l", " ":
			m.typeIdx = (m.typeIdx + 1) % len(m.chainTypes())
		}
		return m, nil
	}
	cmd := updateFocused([]*textinput.Model{&m.nameInput}, m.nav.focusIdx, msg)
	return m, cmd
}

func (m Model) submitNameStep() (tea.Model, tea.Cmd) {
	name := strings.TrimSpace(m.nameInput.Value())

	if c, ok := m.session.CurrentChain(); ok {
		// Revisiting the name step edits the existing chain.
		errs := wizard.ValidateChainBasics(m.session.Workflows(), name, c.Type)
		if len(errs) > 0 {
			m.session.SetFieldErrors(errs)
			m.setStatus("Fix the highlighted fields.", false)
			return m, nil
		}
		if err := m.session.Dispatch(wizard.UpdateChain{ID: c.ID, Patch: wizard.ChainPatch{Name: &name}}); err != nil {
			m.session.SetFieldErrors(wizard.FieldErrors{"name": err.Error()})
			m.setStatus("Fix the highlighted fields.", false)
			return m, nil
		}
		m.session.SetFieldErrors(nil)
		m.session.Advance()
		m.afterNavigate()
		m.setStatus(fmt.Sprintf("Chain %q updated.", name), true)
		return m, nil
	}

	if _, err := m.session.BeginChain(name, m.selectedType()); err != nil {
		if len(m.session.FieldErrors()) == 0 {
			m.session.SetFieldErrors(wizard.FieldErrors{"name": err.Error()})
		}
		m.setStatus("Fix the highlighted fields.", false)
		return m, nil
	}
	m.afterNavigate()
	m.setStatus(fmt.Sprintf("Chain %q created. Add its nodes.", name), true)
	return m, nil
}

// ---------------------------------------------------------------------------
// NODES step: append-only node entry
// ---------------------------------------------------------------------------

func (m *Model) syncNodeFocus() {
	focus := -1
	if m.nav.focusIdx < 2 {
		focus = m.nav.focusIdx
	}
	syncFocus([]*textinput.Model{&m.nodeName, &m.nodeEndpoint}, focus)
}

func (m Model) updateNodesStep(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		return m.submitNode()
	case "ctrl+n":
		// Nothing pending to validate; a chain may have zero nodes.
		m.session.SetFieldErrors(nil)
		m.session.Advance()
		m.afterNavigate()
		return m, nil
	case "esc":
		if m.session.Retreat() {
			m.afterNavigate()
		}
		return m, nil
	}
	if m.nav.handleNav(msg) {
		m.syncNodeFocus()
		return m, nil
	}
	if m.nav.focusIdx == 2 {
		if msg.String() == " " {
			m.nodeMonitor = !m.nodeMonitor
		}
		return m, nil
	}
	cmd := updateFocused([]*textinput.Model{&m.nodeName, &m.nodeEndpoint}, m.nav.focusIdx, msg)
	return m, cmd
}

func (m Model) submitNode() (tea.Model, tea.Cmd) {
	name := strings.TrimSpace(m.nodeName.Value())
	endpoint := strings.TrimSpace(m.nodeEndpoint.Value())

	errs := wizard.ValidateNode(name, endpoint)
	if len(errs) > 0 {
		m.session.SetFieldErrors(errs)
		m.setStatus("Fix the highlighted fields.", false)
		return m, nil
	}
	err := m.session.Dispatch(wizard.AddNode{
		ChainID: m.session.CurrentChainID(),
		Node:    wizard.Node{ID: wizard.NewID(), Name: name, Endpoint: endpoint, Monitor: m.nodeMonitor},
	})
	if err != nil {
		m.setStatus(fmt.Sprintf("Could not add node: %v", err), false)
		return m, nil
	}
	m.session.SetFieldErrors(nil)
	resetInputs(&m.nodeName, &m.nodeEndpoint)
	m.nav.focusIdx = 0
	m.syncNodeFocus()
	c, _ := m.session.CurrentChain()
	m.setStatus(fmt.Sprintf("Node %q added (%d total). Enter another or ctrl+n to continue.", name, len(c.Nodes)), true)
	return m, nil
}

// ---------------------------------------------------------------------------
// REPOSITORIES step
// ---------------------------------------------------------------------------

func (m *Model) syncRepoFocus() {
	focus := -1
	if m.nav.focusIdx == 0 {
		focus = 0
	}
	syncFocus([]*textinput.Model{&m.repoURL}, focus)
}

func (m Model) updateRepositoriesStep(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		return m.submitRepository()
	case "ctrl+n":
		m.session.SetFieldErrors(nil)
		m.session.Advance()
		m.afterNavigate()
		return m, nil
	case "esc":
		if m.session.Retreat() {
			m.afterNavigate()
		}
		return m, nil
	}
	if m.nav.handleNav(msg) {
		m.syncRepoFocus()
		return m, nil
	}
	if m.nav.focusIdx == 1 {
		if msg.String() == " " {
			m.repoMonitor = !m.repoMonitor
		}
		return m, nil
	}
	cmd := updateFocused([]*textinput.Model{&m.repoURL}, m.nav.focusIdx, msg)
	return m, cmd
}

func (m Model) submitRepository() (tea.Model, tea.Cmd) {
	repoURL := strings.TrimSpace(m.repoURL.Value())

	errs := wizard.ValidateRepository(repoURL)
	if len(errs) > 0 {
		m.session.SetFieldErrors(errs)
		m.setStatus("Fix the highlighted fields.", false)
		return m, nil
	}
	err := m.session.Dispatch(wizard.AddRepository{
		ChainID:    m.session.CurrentChainID(),
		Repository: wizard.Repository{ID: wizard.NewID(), URL: repoURL, Monitor: m.repoMonitor},
	})
	if err != nil {
		m.setStatus(fmt.Sprintf("Could not add repository: %v", err), false)
		return m, nil
	}
	m.session.SetFieldErrors(nil)
	resetInputs(&m.repoURL)
	m.nav.focusIdx = 0
	m.syncRepoFocus()
	c, _ := m.session.CurrentChain()
	m.setStatus(fmt.Sprintf("Repository added (%d total). Enter another or ctrl+n to continue.", len(c.Repositories)), true)
	return m, nil
}

// ---------------------------------------------------------------------------
// CHANNELS step: entries accumulate locally, committed in one patch
// ---------------------------------------------------------------------------

func (m *Model) syncChannelFocus() {
	syncFocus([]*textinput.Model{&m.chanKind, &m.chanTarget}, m.nav.focusIdx)
}

func (m Model) updateChannelsStep(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		return m.addPendingChannel()
	case "ctrl+n":
		return m.commitChannels()
	case "esc":
		if m.session.Retreat() {
			m.afterNavigate()
		}
		return m, nil
	}
	if m.nav.handleNav(msg) {
		m.syncChannelFocus()
		return m, nil
	}
	cmd := updateFocused([]*textinput.Model{&m.chanKind, &m.chanTarget}, m.nav.focusIdx, msg)
	return m, cmd
}

func (m Model) addPendingChannel() (tea.Model, tea.Cmd) {
	c, ok := m.session.CurrentChain()
	if !ok {
		m.setStatus("No chain in progress.", false)
		return m, nil
	}
	kind := strings.ToLower(strings.TrimSpace(m.chanKind.Value()))
	target := strings.TrimSpace(m.chanTarget.Value())

	errs := wizard.ValidateChannel(m.session.Workflows(), c.Type, kind, target)
	if len(errs) > 0 {
		m.session.SetFieldErrors(errs)
		m.setStatus("Fix the highlighted fields.", false)
		return m, nil
	}
	m.pending = append(m.pending, wizard.Channel{Kind: kind, Target: target})
	m.session.SetFieldErrors(nil)
	resetInputs(&m.chanKind, &m.chanTarget)
	m.nav.focusIdx = 0
	m.syncChannelFocus()
	m.setStatus(fmt.Sprintf("Channel added (%d pending). Enter another or ctrl+n to continue.", len(m.pending)), true)
	return m, nil
}

func (m Model) commitChannels() (tea.Model, tea.Cmd) {
	c, ok := m.session.CurrentChain()
	if !ok {
		m.setStatus("No chain in progress.", false)
		return m, nil
	}
	err := m.session.Dispatch(wizard.UpdateChain{
		ID:    c.ID,
		Patch: wizard.ChainPatch{Channels: append([]wizard.Channel{}, m.pending...)},
	})
	if err != nil {
		m.setStatus(fmt.Sprintf("Could not save channels: %v", err), false)
		return m, nil
	}
	m.session.SetFieldErrors(nil)
	m.session.Advance()
	m.afterNavigate()
	return m, nil
}

// ---------------------------------------------------------------------------
// REVIEW step
// ---------------------------------------------------------------------------

func (m Model) updateReviewStep(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()
	switch key {
	case "e":
		return m, exportCmd(m.session.Store(), m.exportPath)
	case "s":
		if m.drafts == nil {
			m.setStatus("Draft storage unavailable.", false)
			return m, nil
		}
		snapshot, err := m.session.Snapshot()
		if err != nil {
			m.setStatus(fmt.Sprintf("Snapshot failed: %v", err), false)
			return m, nil
		}
		id, name := m.ensureDraftIdentity()
		return m, saveDraftCmd(m.drafts, id, name, snapshot)
	case "a":
		if err := m.session.FinishChain(); err != nil {
			m.setStatus(fmt.Sprintf("Cannot start another chain: %v", err), false)
			return m, nil
		}
		m.nameInput.SetValue("")
		m.afterNavigate()
		m.setStatus("Chain saved. Set up the next one.", true)
		return m, nil
	case "d":
		if err := m.session.DiscardChain(); err != nil {
			m.setStatus(fmt.Sprintf("Discard failed: %v", err), false)
			return m, nil
		}
		m.nameInput.SetValue("")
		m.afterNavigate()
		m.setStatus("Chain discarded.", true)
		return m, nil
	case "esc", "left":
		if m.session.Retreat() {
			m.afterNavigate()
		}
		return m, nil
	}
	// Number keys jump straight to an already-validated step.
	if n, err := strconv.Atoi(key); err == nil {
		steps := m.session.Steps()
		if n >= 1 && n <= len(steps) {
			if err := m.session.JumpTo(steps[n-1]); err != nil {
				m.setStatus(err.Error(), false)
				return m, nil
			}
			m.afterNavigate()
		}
		return m, nil
	}
	return m, nil
}

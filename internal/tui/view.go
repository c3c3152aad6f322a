package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/x/ansi"

	"github.com/tkel/panoptes-setup/internal/wizard"
)

func (m Model) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render(appName))
	b.WriteString("  ")
	b.WriteString(subtitleStyle.Render(m.stepLine()))
	b.WriteString("\n\n")

	switch m.session.Step() {
	case wizard.StepName:
		b.WriteString(m.viewNameStep())
	case wizard.StepNodes:
		b.WriteString(m.viewNodesStep())
	case wizard.StepRepositories:
		b.WriteString(m.viewRepositoriesStep())
	case wizard.StepChannels:
		b.WriteString(m.viewChannelsStep())
	case wizard.StepReview:
		b.WriteString(m.viewReview())
	}

	b.WriteString("\n")
	b.WriteString(m.statusBar())
	b.WriteString("\n")
	b.WriteString(m.footer())
	return b.String()
}

// stepLine renders the workflow progress: done steps green, the active
// one highlighted, the rest dimmed.
func (m Model) stepLine() string {
	steps := m.session.Steps()
	current := m.session.Step()
	parts := make([]string, 0, len(steps))
	done := true
	for _, s := range steps {
		label := string(s)
		switch {
		case s == current:
			done = false
			parts = append(parts, stepHereStyle.Render(label))
		case done:
			parts = append(parts, stepDoneStyle.Render(label+" ✓"))
		default:
			parts = append(parts, dimStyle.Render(label))
		}
	}
	return strings.Join(parts, dimStyle.Render(" › "))
}

// ---------------------------------------------------------------------------
// Step bodies
// ---------------------------------------------------------------------------

func (m Model) viewNameStep() string {
	var b strings.Builder
	b.WriteString(labelStyle.Render("Chain basics"))
	b.WriteString("\n\n")
	b.WriteString(m.field("Name", m.nameInput.View(), "name", m.nav.focusIdx == 0))

	types := m.chainTypes()
	sel := make([]string, len(types))
	for i, t := range types {
		label := m.session.Workflows().Label(t)
		if i == m.typeIdx%len(types) {
			sel[i] = focusStyle.Render("● " + label)
		} else {
			sel[i] = dimStyle.Render("○ " + label)
		}
	}
	typeRow := strings.Join(sel, "   ")
	if _, exists := m.session.CurrentChain(); exists {
		typeRow += dimStyle.Render("  (type is fixed once the chain exists)")
	}
	b.WriteString(m.field("Type", typeRow, "type", m.nav.focusIdx == 1))
	b.WriteString("\n")
	b.WriteString(dimStyle.Render("enter confirms the basics and moves on"))
	b.WriteString("\n")
	return b.String()
}

func (m Model) viewNodesStep() string {
	var b strings.Builder
	b.WriteString(labelStyle.Render("Nodes"))
	b.WriteString("\n\n")
	b.WriteString(m.field("Name", m.nodeName.View(), "name", m.nav.focusIdx == 0))
	b.WriteString(m.field("Endpoint", m.nodeEndpoint.View(), "endpoint", m.nav.focusIdx == 1))
	b.WriteString(m.field("Monitor", toggle(m.nodeMonitor), "monitor", m.nav.focusIdx == 2))
	b.WriteString("\n")

	if c, ok := m.session.CurrentChain(); ok {
		if len(c.Nodes) == 0 {
			b.WriteString(dimStyle.Render("No nodes yet. A chain without nodes is allowed."))
			b.WriteString("\n")
		}
		for _, n := range c.Nodes {
			line := fmt.Sprintf("  • %s  %s  %s", n.Name, n.Endpoint, toggle(n.Monitor))
			b.WriteString(m.truncate(line))
			b.WriteString("\n")
		}
	}
	return b.String()
}

func (m Model) viewRepositoriesStep() string {
	var b strings.Builder
	b.WriteString(labelStyle.Render("Repositories"))
	b.WriteString("\n\n")
	b.WriteString(m.field("URL", m.repoURL.View(), "url", m.nav.focusIdx == 0))
	b.WriteString(m.field("Monitor", toggle(m.repoMonitor), "monitor", m.nav.focusIdx == 1))
	b.WriteString("\n")

	if c, ok := m.session.CurrentChain(); ok {
		if len(c.Repositories) == 0 {
			b.WriteString(dimStyle.Render("No repositories yet. Release monitoring is optional."))
			b.WriteString("\n")
		}
		for _, r := range c.Repositories {
			line := fmt.Sprintf("  • %s  %s", r.URL, toggle(r.Monitor))
			b.WriteString(m.truncate(line))
			b.WriteString("\n")
		}
	}
	return b.String()
}

func (m Model) viewChannelsStep() string {
	var b strings.Builder
	b.WriteString(labelStyle.Render("Alert channels"))
	b.WriteString("\n")
	if c, ok := m.session.CurrentChain(); ok {
		kinds := m.session.Workflows().ChannelKindsFor(c.Type)
		b.WriteString(dimStyle.Render("kinds: " + strings.Join(kinds, ", ")))
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(m.field("Kind", m.chanKind.View(), "kind", m.nav.focusIdx == 0))
	b.WriteString(m.field("Target", m.chanTarget.View(), "target", m.nav.focusIdx == 1))
	b.WriteString("\n")

	if len(m.pending) == 0 {
		b.WriteString(dimStyle.Render("No channels yet. ctrl+n saves the list as-is."))
		b.WriteString("\n")
	}
	for _, ch := range m.pending {
		b.WriteString(m.truncate(fmt.Sprintf("  • %s → %s", ch.Kind, ch.Target)))
		b.WriteString("\n")
	}
	return b.String()
}

func (m Model) viewReview() string {
	c, ok := m.session.CurrentChain()
	if !ok {
		return dimStyle.Render("Nothing to review.") + "\n"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s  %s\n",
		titleStyle.Render(c.Name),
		subtitleStyle.Render(m.session.Workflows().Label(c.Type)))
	fmt.Fprintf(&b, "%d node(s), %d repositor(y/ies), %d channel(s)\n\n",
		len(c.Nodes), len(c.Repositories), len(c.Channels))

	for _, n := range c.Nodes {
		b.WriteString(m.truncate(fmt.Sprintf("  node  %s  %s  %s", n.Name, n.Endpoint, toggle(n.Monitor))))
		b.WriteString("\n")
	}
	for _, r := range c.Repositories {
		b.WriteString(m.truncate(fmt.Sprintf("  repo  %s  %s", r.URL, toggle(r.Monitor))))
		b.WriteString("\n")
	}
	for _, ch := range c.Channels {
		b.WriteString(m.truncate(fmt.Sprintf("  alert %s → %s", ch.Kind, ch.Target)))
		b.WriteString("\n")
	}

	if other := m.session.Store().Len() - 1; other > 0 {
		b.WriteString("\n")
		b.WriteString(dimStyle.Render(fmt.Sprintf("%d other chain(s) already configured", other)))
		b.WriteString("\n")
	}

	steps := m.session.Steps()
	hints := make([]string, len(steps))
	for i, s := range steps {
		hints[i] = fmt.Sprintf("%d:%s", i+1, s)
	}
	b.WriteString("\n")
	b.WriteString(dimStyle.Render("jump: " + strings.Join(hints, "  ")))
	b.WriteString("\n")
	return sectionStyle.Render(b.String())
}

// ---------------------------------------------------------------------------
// Chrome
// ---------------------------------------------------------------------------

// field renders a labelled form row plus its validation error, if any.
func (m Model) field(label, body, errKey string, focused bool) string {
	marker := "  "
	style := labelStyle
	if focused {
		marker = focusStyle.Render("> ")
		style = focusStyle
	}
	row := fmt.Sprintf("%s%s  %s\n", marker, style.Render(fmt.Sprintf("%-10s", label)), body)
	if msg, ok := m.session.FieldErrors()[errKey]; ok {
		row += "    " + errorStyle.Render(msg) + "\n"
	}
	return row
}

func (m Model) statusBar() string {
	style := statusBarStyle
	text := m.status
	if !m.statusOK {
		text = errorStyle.Render(text)
	} else {
		text = okStyle.Render(text)
	}
	if m.width > 0 {
		return style.Width(m.width).Render(ansi.Truncate(text, m.width-4, "…"))
	}
	return style.Render(text)
}

func (m Model) footer() string {
	bindings := m.keys.formHelp()
	if m.session.Step() == wizard.StepReview {
		bindings = m.keys.reviewHelp()
	}
	parts := make([]string, 0, len(bindings))
	for _, b := range bindings {
		h := b.Help()
		parts = append(parts, fmt.Sprintf("%s %s", h.Key, dimStyle.Render(h.Desc)))
	}
	line := strings.Join(parts, "  ")
	if m.width > 0 {
		return footerStyle.Width(m.width).Render(ansi.Truncate(line, m.width-4, "…"))
	}
	return footerStyle.Render(line)
}

func (m Model) truncate(s string) string {
	if m.width > 0 {
		return ansi.Truncate(s, m.width-2, "…")
	}
	return s
}

func toggle(on bool) string {
	if on {
		return okStyle.Render("[monitoring on]")
	}
	return dimStyle.Render("[monitoring off]")
}

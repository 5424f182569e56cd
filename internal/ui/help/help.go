// Package help contains the help overlay component.
package help

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/lipgloss"

	"github.com/zjrosen/panecode/internal/keys"
	"github.com/zjrosen/panecode/internal/log"
	"github.com/zjrosen/panecode/internal/ui/markdown"
	"github.com/zjrosen/panecode/internal/ui/overlay"
	"github.com/zjrosen/panecode/internal/ui/styles"
)

// guide is shown under the keybindings.
const guide = `**Drag** a file from the list with the mouse and release it over a pane
to open it there. A file open in several panes is one buffer: edits show up
everywhere. Releasing outside a pane cancels the drag.`

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(styles.OverlayTitleColor).
			PaddingLeft(2)

	dividerStyle = lipgloss.NewStyle().
			Foreground(styles.OverlayBorderColor)

	sectionStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(styles.OverlayTitleColor).
			MarginTop(1)

	keyStyle = lipgloss.NewStyle().
			Foreground(styles.TextSecondaryColor).
			Width(11)

	descStyle = lipgloss.NewStyle().
			Foreground(styles.TextMutedColor)

	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(styles.OverlayBorderColor)

	contentStyle = lipgloss.NewStyle().
			Padding(0, 2)

	footerStyle = lipgloss.NewStyle().
			Foreground(styles.TextMutedColor).
			MarginTop(1)
)

// Model holds the help view state.
type Model struct {
	keys          keys.KeyMap
	listKeys      keys.ListKeyMap
	markdownStyle string
	guide         string
	width         int
	height        int
}

// New creates a new help view. markdownStyle is passed to glamour.
func New(markdownStyle string) Model {
	return Model{
		keys:          keys.DefaultKeyMap(),
		listKeys:      keys.DefaultListKeyMap(),
		markdownStyle: markdownStyle,
	}
}

// SetSize updates dimensions and re-renders the guide for the new width.
func (m Model) SetSize(width, height int) Model {
	m.width = width
	m.height = height
	m.guide = m.renderGuide(min(max(width-12, 20), 72))
	return m
}

// View renders the help overlay (standalone, no background).
func (m Model) View() string {
	return m.Overlay("")
}

// Overlay renders the help box on top of a background view.
func (m Model) Overlay(background string) string {
	helpBox := m.renderContent()

	if background == "" {
		return lipgloss.Place(
			m.width, m.height,
			lipgloss.Center, lipgloss.Center,
			helpBox,
		)
	}

	return overlay.Place(overlay.Config{
		Width:    m.width,
		Height:   m.height,
		Position: overlay.Center,
	}, helpBox, background)
}

func (m Model) renderGuide(width int) string {
	r, err := markdown.New(width, m.markdownStyle)
	if err != nil {
		log.WarnErr(log.CatUI, "help markdown renderer", err)
		return styles.Wrap(guide, width)
	}
	out, err := r.Render(guide)
	if err != nil {
		log.WarnErr(log.CatUI, "help markdown render", err)
	}
	return strings.TrimRight(out, "\n")
}

func (m Model) renderContent() string {
	columnStyle := lipgloss.NewStyle().MarginRight(4)

	column := func(title string, bindings ...key.Binding) string {
		var b strings.Builder
		b.WriteString(sectionStyle.Render(title))
		b.WriteString("\n")
		for _, k := range bindings {
			b.WriteString(renderBinding(k))
		}
		return b.String()
	}

	top := lipgloss.JoinHorizontal(
		lipgloss.Top,
		columnStyle.Render(column("Panes", m.keys.FocusNext, m.keys.FocusPrev, m.keys.Split, m.keys.ClosePane, m.keys.FocusFiles)),
		columnStyle.Render(column("Files", m.listKeys.Up, m.listKeys.Down, m.listKeys.Open, m.listKeys.OpenSplit)),
		column("Project", m.keys.Save, m.keys.Refresh, m.keys.SwitchProject),
	)
	bottom := lipgloss.JoinHorizontal(
		lipgloss.Top,
		columnStyle.Render(column("Terminal", m.keys.GrowTerminal, m.keys.ShrinkTerminal)),
		column("General", m.keys.Help, m.listKeys.Help, m.keys.ToggleStatus, m.keys.Quit),
	)

	sections := top + "\n" + bottom
	if m.guide != "" {
		sections += "\n\n" + m.guide
	}

	boxWidth := lipgloss.Width(sections) + 4
	body := contentStyle.Render(sections + "\n" + footerStyle.Render("Press ?, F1 or Esc to close"))
	divider := dividerStyle.Render(strings.Repeat("─", boxWidth))

	var content strings.Builder
	content.WriteString(titleStyle.Render("Keybindings"))
	content.WriteString("\n")
	content.WriteString(divider)
	content.WriteString("\n")
	content.WriteString(body)

	return boxStyle.Width(boxWidth).Render(content.String())
}

func renderBinding(b key.Binding) string {
	help := b.Help()
	return keyStyle.Render(help.Key) + descStyle.Render(help.Desc) + "\n"
}

package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/acheong08/guardian-angel/internal/render"
	"github.com/acheong08/guardian-angel/pkg/models"
)

// Decision is the reviewer's verdict on a proposed fix
type Decision int

const (
	DecisionNone Decision = iota
	DecisionAccepted
	DecisionRejected
)

func (d Decision) String() string {
	switch d {
	case DecisionAccepted:
		return "accepted"
	case DecisionRejected:
		return "rejected"
	default:
		return "none"
	}
}

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("69"))
	helpStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
)

const chromeHeight = 4

// Model shows a finished review in a scrollable pane and waits for a verdict
type Model struct {
	review   *models.Review
	content  string
	viewport viewport.Model
	ready    bool
	decision Decision
	width    int
	height   int
}

func NewModel(review *models.Review) Model {
	return Model{
		review:  review,
		content: reviewContent(review),
	}
}

func reviewContent(review *models.Review) string {
	var b strings.Builder
	b.WriteString(render.Terminal(review.Report))
	b.WriteString("\n")
	b.WriteString(render.Code("Fixed Code", review.FixedCode))
	b.WriteString("\n")
	b.WriteString(headerStyle.Render("Diff"))
	b.WriteString("\n")
	b.WriteString(render.Diff(review.Diff))
	return b.String()
}

// Decision returns the verdict recorded before the program quit
func (m Model) Decision() Decision { return m.decision }

func (m Model) Init() tea.Cmd { return nil }

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		height := msg.Height - chromeHeight
		if height < 1 {
			height = 1
		}
		if !m.ready {
			m.viewport = viewport.New(msg.Width, height)
			m.viewport.SetContent(m.content)
			m.ready = true
		} else {
			m.viewport.Width = msg.Width
			m.viewport.Height = height
		}
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "a":
			m.decision = DecisionAccepted
			return m, tea.Quit
		case "r":
			m.decision = DecisionRejected
			return m, tea.Quit
		case "q", "esc", "ctrl+c":
			return m, tea.Quit
		}
	}

	if !m.ready {
		return m, nil
	}
	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

func (m Model) View() string {
	if !m.ready {
		return "Loading review..."
	}

	header := headerStyle.Render("🛡️ Guardian Angel review")
	footer := helpStyle.Render(fmt.Sprintf(
		"%3.f%%  ↑/↓ scroll • a accept • r reject • q quit",
		m.viewport.ScrollPercent()*100,
	))
	return header + "\n\n" + m.viewport.View() + "\n" + footer
}

// Run opens the review full screen and blocks until the user decides or quits
func Run(review *models.Review, opts ...tea.ProgramOption) (Decision, error) {
	opts = append([]tea.ProgramOption{tea.WithAltScreen()}, opts...)
	program := tea.NewProgram(NewModel(review), opts...)
	final, err := program.Run()
	if err != nil {
		return DecisionNone, fmt.Errorf("review session failed: %w", err)
	}
	model, ok := final.(Model)
	if !ok {
		return DecisionNone, nil
	}
	return model.decision, nil
}

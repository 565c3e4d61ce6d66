package preview

import (
	"context"
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/amishk599/jobdigest/internal/digest"
)

var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

// GatherFunc runs one collection pass.
type GatherFunc func(ctx context.Context) digest.Gathered

type gatherDoneMsg struct {
	gathered digest.Gathered
}

type spinnerTickMsg struct{}

type loaderModel struct {
	label    string
	gatherFn GatherFunc
	cancel   context.CancelFunc
	ctx      context.Context
	frame    int
	result   digest.Gathered
	err      error
	done     bool
}

func (m loaderModel) Init() tea.Cmd {
	return tea.Batch(m.doGather(), m.tick())
}

func (m loaderModel) doGather() tea.Cmd {
	gatherFn, ctx := m.gatherFn, m.ctx
	return func() tea.Msg {
		return gatherDoneMsg{gathered: gatherFn(ctx)}
	}
}

func (m loaderModel) tick() tea.Cmd {
	return tea.Tick(80*time.Millisecond, func(time.Time) tea.Msg {
		return spinnerTickMsg{}
	})
}

func (m loaderModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case gatherDoneMsg:
		m.result = msg.gathered
		m.done = true
		return m, tea.Quit
	case spinnerTickMsg:
		m.frame = (m.frame + 1) % len(spinnerFrames)
		return m, m.tick()
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			m.cancel()
			m.done = true
			m.err = fmt.Errorf("cancelled")
			return m, tea.Quit
		}
	}
	return m, nil
}

func (m loaderModel) View() string {
	if m.done {
		return ""
	}
	spinner := lipgloss.NewStyle().Foreground(lipgloss.Color("33")).Render(spinnerFrames[m.frame])
	return fmt.Sprintf("%s Searching %s...\n", spinner, m.label)
}

// RunLoader shows a spinner while gatherFn runs. It renders inline (no alt screen).
func RunLoader(label string, gatherFn GatherFunc) (digest.Gathered, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	m := loaderModel{
		label:    label,
		gatherFn: gatherFn,
		ctx:      ctx,
		cancel:   cancel,
	}
	p := tea.NewProgram(m)
	result, err := p.Run()
	if err != nil {
		return digest.Gathered{}, err
	}
	final := result.(loaderModel)
	return final.result, final.err
}

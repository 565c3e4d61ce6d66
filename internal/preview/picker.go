package preview

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
)

type pickerState int

const (
	picking pickerState = iota
	picked
	cancelled
)

// pickerModel lets the user narrow a preview run to one company. Row 0 is
// the "all companies" entry, row i is companies[i-1].
type pickerModel struct {
	companies []string
	row       int
	state     pickerState
}

func newPickerModel(companies []string) pickerModel {
	return pickerModel{companies: companies}
}

func (m pickerModel) Init() tea.Cmd { return nil }

func (m pickerModel) lastRow() int { return len(m.companies) }

func (m pickerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	k, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	switch k.String() {
	case "q", "esc", "ctrl+c":
		m.state = cancelled
		return m, tea.Quit
	case "enter":
		m.state = picked
		return m, tea.Quit
	case "up", "k":
		m.row = clamp(m.row-1, 0, m.lastRow())
	case "down", "j":
		m.row = clamp(m.row+1, 0, m.lastRow())
	case "home", "g":
		m.row = 0
	case "end", "G":
		m.row = m.lastRow()
	}
	return m, nil
}

func (m pickerModel) label(row int) string {
	if row == 0 {
		return fmt.Sprintf("All companies (%d searches)", len(m.companies))
	}
	return m.companies[row-1]
}

func (m pickerModel) View() string {
	var b strings.Builder
	b.WriteString(detailTitleStyle.Render("  Which companies should the preview search?"))
	b.WriteByte('\n')

	for row := 0; row <= m.lastRow(); row++ {
		if row == m.row {
			b.WriteString("  " + selectedJobTitleStyle.Render(" "+m.label(row)+" "))
		} else {
			b.WriteString("   " + jobSubtitleStyle.Render(m.label(row)))
		}
		b.WriteByte('\n')
	}

	b.WriteByte('\n')
	b.WriteString(descHintStyle.Render("  j/k move · g/G first/last · enter search · q cancel"))
	return b.String()
}

// selection returns the companies to search; ok is false when the picker
// was cancelled.
func (m pickerModel) selection() (companies []string, ok bool) {
	switch {
	case m.state != picked:
		return nil, false
	case m.row == 0:
		return m.companies, true
	default:
		return []string{m.companies[m.row-1]}, true
	}
}

// RunCompanyPicker asks which configured companies to search. ok is false
// if the user cancelled.
func RunCompanyPicker(companies []string) (selected []string, ok bool, err error) {
	result, err := tea.NewProgram(newPickerModel(companies)).Run()
	if err != nil {
		return nil, false, err
	}
	selected, ok = result.(pickerModel).selection()
	return selected, ok, nil
}

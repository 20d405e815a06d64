package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

var (
	promptStyle    = lipgloss.NewStyle().Bold(true)
	promptErrStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	choiceStyle    = lipgloss.NewStyle().Bold(true).Underline(true)
)

// textModel asks for a single line of input, re-prompting until the
// validator accepts the value.
type textModel struct {
	input    textinput.Model
	title    string
	validate func(string) error
	errMsg   string
	done     bool
	aborted  bool
}

func (m textModel) Init() tea.Cmd { return textinput.Blink }

func (m textModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.String() {
		case "ctrl+c", "esc":
			m.aborted = true
			return m, tea.Quit
		case "enter":
			if m.validate != nil {
				if err := m.validate(m.input.Value()); err != nil {
					m.errMsg = err.Error()
					return m, nil
				}
			}
			m.done = true
			return m, tea.Quit
		}
	}
	m.errMsg = ""
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m textModel) View() string {
	if m.done {
		return ""
	}
	var b strings.Builder
	b.WriteString(promptStyle.Render(m.title) + "\n")
	b.WriteString(m.input.View() + "\n")
	if m.errMsg != "" {
		b.WriteString(promptErrStyle.Render(m.errMsg) + "\n")
	}
	return b.String()
}

// yesNoModel asks a yes/no question, defaulting to no.
type yesNoModel struct {
	title   string
	value   bool
	done    bool
	aborted bool
}

func (m yesNoModel) Init() tea.Cmd { return nil }

func (m yesNoModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	switch key.String() {
	case "ctrl+c", "esc":
		m.aborted = true
		return m, tea.Quit
	case "enter":
		m.done = true
		return m, tea.Quit
	case "y", "Y":
		m.value = true
		m.done = true
		return m, tea.Quit
	case "n", "N":
		m.value = false
		m.done = true
		return m, tea.Quit
	case "left", "right", "tab":
		m.value = !m.value
	}
	return m, nil
}

func (m yesNoModel) View() string {
	if m.done {
		return ""
	}
	yes, no := " Yes ", " No "
	if m.value {
		yes = choiceStyle.Render(yes)
	} else {
		no = choiceStyle.Render(no)
	}
	return fmt.Sprintf("%s %s/%s\n", promptStyle.Render(m.title), yes, no)
}

func promptInput(title, placeholder string, validate func(string) error) (string, error) {
	ti := textinput.New()
	ti.Placeholder = placeholder
	ti.Focus()

	result, err := tea.NewProgram(textModel{input: ti, title: title, validate: validate}).Run()
	if err != nil {
		return "", err
	}
	m := result.(textModel)
	if m.aborted {
		return "", fmt.Errorf("user aborted")
	}
	return m.input.Value(), nil
}

func promptConfirm(title string) (bool, error) {
	result, err := tea.NewProgram(yesNoModel{title: title}).Run()
	if err != nil {
		return false, err
	}
	m := result.(yesNoModel)
	if m.aborted {
		return false, fmt.Errorf("user aborted")
	}
	return m.value, nil
}

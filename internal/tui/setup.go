// ABOUTME: Interactive TUI wizard for configuring newsdesk storage and credentials.
// ABOUTME: 3-step bubbletea model collecting backend, data directory, and NewsAPI key.
package tui

import (
	"fmt"
	"slices"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// Step represents the current wizard step.
type Step int

const (
	StepBackend Step = iota
	StepDataDir
	StepAPIKey
	StepDone
)

const stepCount = int(StepDone)

// Values holds what the wizard collects.
type Values struct {
	Backend string
	DataDir string
	APIKey  string
}

// Options bounds what the wizard accepts.
type Options struct {
	// Backends are the accepted backend names; the first is the default.
	Backends []string

	// DefaultDataDir is used when the data directory is left blank.
	DefaultDataDir string
}

// SetupModel is the bubbletea model for the setup wizard.
type SetupModel struct {
	opts     Options
	step     Step
	inputs   [stepCount]textinput.Model
	errMsg   string
	quitting bool
}

var (
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("99"))
	brandStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("212"))
	stepStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("82"))
	promptStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
)

// NewSetupModel creates a setup wizard, pre-filled with existing config values.
func NewSetupModel(current Values, opts Options) SetupModel {
	backendInput := textinput.New()
	if len(opts.Backends) > 0 {
		backendInput.Placeholder = opts.Backends[0]
	}
	backendInput.Focus()
	backendInput.Width = 50
	backendInput.SetValue(current.Backend)

	dataDirInput := textinput.New()
	dataDirInput.Placeholder = opts.DefaultDataDir
	dataDirInput.Width = 50
	dataDirInput.SetValue(current.DataDir)

	keyInput := textinput.New()
	keyInput.Placeholder = "leave blank to use NEWS_API_KEY"
	keyInput.EchoMode = textinput.EchoPassword
	keyInput.EchoCharacter = '•'
	keyInput.Width = 50
	keyInput.SetValue(current.APIKey)

	return SetupModel{
		opts:   opts,
		step:   StepBackend,
		inputs: [stepCount]textinput.Model{backendInput, dataDirInput, keyInput},
	}
}

// Init implements tea.Model.
func (m SetupModel) Init() tea.Cmd {
	return textinput.Blink
}

// Update implements tea.Model.
func (m SetupModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEscape:
			m.quitting = true
			return m, tea.Quit
		}

		if m.step < StepDone {
			return m.updateInput(msg)
		}
	default:
		// Forward other messages (e.g. cursor blink) to the active input
		if m.step < StepDone {
			idx := int(m.step)
			var cmd tea.Cmd
			m.inputs[idx], cmd = m.inputs[idx].Update(msg)
			return m, cmd
		}
	}

	return m, nil
}

func (m SetupModel) updateInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.Type == tea.KeyEnter {
		return m.handleEnter()
	}

	idx := int(m.step)
	var cmd tea.Cmd
	m.inputs[idx], cmd = m.inputs[idx].Update(msg)
	return m, cmd
}

func (m SetupModel) handleEnter() (tea.Model, tea.Cmd) {
	idx := int(m.step)
	val := strings.TrimSpace(m.inputs[idx].Value())

	switch m.step {
	case StepBackend:
		if val == "" && len(m.opts.Backends) > 0 {
			val = m.opts.Backends[0]
		}
		val = strings.ToLower(val)
		if !slices.Contains(m.opts.Backends, val) {
			m.errMsg = fmt.Sprintf("unknown backend %q", val)
			return m, nil
		}
	case StepDataDir:
		if val == "" {
			val = m.opts.DefaultDataDir
		}
	}
	m.inputs[idx].SetValue(val)
	m.errMsg = ""
	m.inputs[idx].Blur()

	m.step++
	if m.step == StepDone {
		return m, tea.Quit
	}
	m.inputs[m.step].Focus()
	return m, textinput.Blink
}

// View implements tea.Model.
func (m SetupModel) View() string {
	var b strings.Builder

	b.WriteString("\n")
	b.WriteString(brandStyle.Render("   NEWSDESK"))
	b.WriteString(titleStyle.Render(" - Setup"))
	b.WriteString("\n\n")
	b.WriteString("Configure where articles are stored and how they are fetched.\n\n")

	switch m.step {
	case StepBackend:
		b.WriteString(stepStyle.Render(fmt.Sprintf("Step 1 of %d: Storage Backend", stepCount)))
		b.WriteString("\n")
		b.WriteString(promptStyle.Render(fmt.Sprintf("(%s, press Enter for default)", strings.Join(m.opts.Backends, ", "))))
		b.WriteString("\n")
		b.WriteString(m.inputs[StepBackend].View())
		b.WriteString("\n")

	case StepDataDir:
		b.WriteString(fmt.Sprintf("  Backend: %s\n\n", m.inputs[StepBackend].Value()))
		b.WriteString(stepStyle.Render(fmt.Sprintf("Step 2 of %d: Data Directory", stepCount)))
		b.WriteString("\n")
		b.WriteString(promptStyle.Render(fmt.Sprintf("(press Enter for default: %s)", m.opts.DefaultDataDir)))
		b.WriteString("\n")
		b.WriteString(m.inputs[StepDataDir].View())
		b.WriteString("\n")

	case StepAPIKey:
		b.WriteString(fmt.Sprintf("  Backend:        %s\n", m.inputs[StepBackend].Value()))
		b.WriteString(fmt.Sprintf("  Data directory: %s\n\n", m.inputs[StepDataDir].Value()))
		b.WriteString(stepStyle.Render(fmt.Sprintf("Step 3 of %d: NewsAPI Key", stepCount)))
		b.WriteString("\n")
		b.WriteString(promptStyle.Render("(stored in the config file; press Enter to skip)"))
		b.WriteString("\n")
		b.WriteString(m.inputs[StepAPIKey].View())
		b.WriteString("\n")

	case StepDone:
		b.WriteString(successStyle.Render("Setup complete!"))
		b.WriteString("\n\n")
		b.WriteString(fmt.Sprintf("  Backend:        %s\n", m.inputs[StepBackend].Value()))
		b.WriteString(fmt.Sprintf("  Data directory: %s\n", m.inputs[StepDataDir].Value()))
		key := "from NEWS_API_KEY"
		if m.inputs[StepAPIKey].Value() != "" {
			key = "saved"
		}
		b.WriteString(fmt.Sprintf("  API key:        %s\n", key))
		b.WriteString("\n")
	}

	if m.errMsg != "" {
		b.WriteString(errorStyle.Render(m.errMsg))
		b.WriteString("\n")
	}

	return b.String()
}

// Result returns the entered values.
func (m SetupModel) Result() Values {
	return Values{
		Backend: m.inputs[StepBackend].Value(),
		DataDir: m.inputs[StepDataDir].Value(),
		APIKey:  m.inputs[StepAPIKey].Value(),
	}
}

// ShouldSave returns true if the wizard completed and the user did not cancel.
func (m SetupModel) ShouldSave() bool {
	return m.step == StepDone && !m.quitting
}

// ABOUTME: Unit tests for the newsdesk setup TUI wizard bubbletea model.
// ABOUTME: Uses synthetic tea.Msg values to test state machine transitions.
package tui

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
)

var testOptions = Options{
	Backends:       []string{"file", "memory", "sqlite", "postgres"},
	DefaultDataDir: "/home/test/.local/share/newsdesk",
}

func enter(t *testing.T, m SetupModel) SetupModel {
	t.Helper()
	updated, _ := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	return updated.(SetupModel)
}

func TestNewSetupModel_DefaultValues(t *testing.T) {
	m := NewSetupModel(Values{}, testOptions)
	if m.step != StepBackend {
		t.Errorf("expected initial step StepBackend, got %d", m.step)
	}
	for i, in := range m.inputs {
		if in.Value() != "" {
			t.Errorf("expected empty input %d for new config, got %q", i, in.Value())
		}
	}
	if m.inputs[StepBackend].Placeholder != "file" {
		t.Errorf("expected first backend as placeholder, got %q", m.inputs[StepBackend].Placeholder)
	}
}

func TestNewSetupModel_ExistingConfig(t *testing.T) {
	m := NewSetupModel(Values{Backend: "sqlite", DataDir: "/custom/path", APIKey: "k"}, testOptions)
	if got := m.Result(); got != (Values{Backend: "sqlite", DataDir: "/custom/path", APIKey: "k"}) {
		t.Errorf("expected pre-filled values, got %+v", got)
	}
}

func TestSetupModel_StepTransitions(t *testing.T) {
	m := NewSetupModel(Values{}, testOptions)

	m = enter(t, m)
	if m.step != StepDataDir {
		t.Errorf("expected StepDataDir after Enter on backend, got %d", m.step)
	}
	if m.inputs[StepBackend].Value() != "file" {
		t.Errorf("expected default backend 'file', got %q", m.inputs[StepBackend].Value())
	}

	m = enter(t, m)
	if m.step != StepAPIKey {
		t.Errorf("expected StepAPIKey after Enter on data dir, got %d", m.step)
	}
	if m.inputs[StepDataDir].Value() != testOptions.DefaultDataDir {
		t.Errorf("expected default data dir, got %q", m.inputs[StepDataDir].Value())
	}

	m = enter(t, m)
	if m.step != StepDone {
		t.Errorf("expected StepDone after Enter on API key, got %d", m.step)
	}
	if m.Result().APIKey != "" {
		t.Errorf("expected blank API key to stay blank, got %q", m.Result().APIKey)
	}
}

func TestSetupModel_InvalidBackend(t *testing.T) {
	m := NewSetupModel(Values{}, testOptions)
	m.inputs[StepBackend].SetValue("floppy")

	m = enter(t, m)
	if m.step != StepBackend {
		t.Errorf("expected to stay on StepBackend with invalid backend, got %d", m.step)
	}
	if !strings.Contains(m.View(), "unknown backend") {
		t.Error("expected view to explain the rejected backend")
	}

	m.inputs[StepBackend].SetValue("postgres")
	m = enter(t, m)
	if m.step != StepDataDir {
		t.Errorf("expected StepDataDir with valid backend, got %d", m.step)
	}
	if strings.Contains(m.View(), "unknown backend") {
		t.Error("expected error message to clear after a valid backend")
	}
}

func TestSetupModel_BackendCaseInsensitive(t *testing.T) {
	m := NewSetupModel(Values{}, testOptions)
	m.inputs[StepBackend].SetValue("SQLite")

	m = enter(t, m)
	if m.inputs[StepBackend].Value() != "sqlite" {
		t.Errorf("expected lowercased backend, got %q", m.inputs[StepBackend].Value())
	}
}

func TestSetupModel_APIKeyIsMasked(t *testing.T) {
	m := NewSetupModel(Values{}, testOptions)
	m.step = StepAPIKey
	m.inputs[StepAPIKey].Focus()
	m.inputs[StepAPIKey].SetValue("supersecret")
	if strings.Contains(m.View(), "supersecret") {
		t.Error("expected API key to be masked in the view")
	}
}

func TestSetupModel_QuitOnCtrlC(t *testing.T) {
	m := NewSetupModel(Values{}, testOptions)
	updated, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
	m = updated.(SetupModel)
	if cmd == nil {
		t.Error("expected quit cmd on ctrl+c")
	}
	if !m.quitting {
		t.Error("expected quitting to be true")
	}
	if m.ShouldSave() {
		t.Error("expected ShouldSave false after ctrl+c")
	}
}

func TestSetupModel_QuitOnEsc(t *testing.T) {
	m := NewSetupModel(Values{}, testOptions)
	updated, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEscape})
	m = updated.(SetupModel)
	if cmd == nil {
		t.Error("expected quit cmd on escape")
	}
	if !m.quitting {
		t.Error("expected quitting to be true")
	}
}

func TestSetupModel_ShouldSave(t *testing.T) {
	t.Run("done means save", func(t *testing.T) {
		m := NewSetupModel(Values{}, testOptions)
		m.step = StepDone
		if !m.ShouldSave() {
			t.Error("expected ShouldSave true when done")
		}
	})

	t.Run("quit means no save", func(t *testing.T) {
		m := NewSetupModel(Values{}, testOptions)
		m.quitting = true
		if m.ShouldSave() {
			t.Error("expected ShouldSave false when quitting")
		}
	})
}

func TestSetupModel_ViewShowsCurrentStep(t *testing.T) {
	m := NewSetupModel(Values{}, testOptions)
	if !strings.Contains(m.View(), "NEWSDESK") {
		t.Error("expected view to contain branding")
	}

	steps := map[Step]string{
		StepBackend: "Storage Backend",
		StepDataDir: "Data Directory",
		StepAPIKey:  "NewsAPI Key",
		StepDone:    "Setup complete!",
	}
	for step, want := range steps {
		m.step = step
		if !strings.Contains(m.View(), want) {
			t.Errorf("expected step %d view to mention %q", step, want)
		}
	}
}

func TestSetupModel_FullPrefilledFlow(t *testing.T) {
	m := NewSetupModel(Values{Backend: "sqlite", DataDir: "/data/newsdesk", APIKey: "abc"}, testOptions)

	for range stepCount {
		m = enter(t, m)
	}
	if m.step != StepDone {
		t.Fatalf("expected StepDone, got %d", m.step)
	}
	if !m.ShouldSave() {
		t.Error("expected ShouldSave true after completing flow")
	}
	if got := m.Result(); got.Backend != "sqlite" || got.DataDir != "/data/newsdesk" || got.APIKey != "abc" {
		t.Errorf("unexpected result %+v", got)
	}
}

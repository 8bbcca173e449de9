// Package tui provides the Bubble Tea recording and history interface.
package tui

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"alfredoptarigan/vocalize/internal/models"
	"alfredoptarigan/vocalize/internal/session"
)

const refreshInterval = 500 * time.Millisecond

// Recorder is the recording session as seen by the UI.
type Recorder interface {
	Start(ctx context.Context) (bool, error)
	Stop() bool
	State() session.State
	Elapsed() time.Duration
	TimeLimit() time.Duration
	Events() <-chan session.Event
}

// History lists recorded attempts in version order.
type History interface {
	List() ([]models.Attempt, error)
}

// ClipLocator reports where a clip is stored.
type ClipLocator interface {
	Location(key string) string
}

var (
	titleStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#C89A3A")).Bold(true)
	recordingStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F")).Bold(true)
	readyStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#52C41A"))
	labelStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0")).Bold(true)
	mutedStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C"))
	errorStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F"))
	scoreStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#C89A3A")).Bold(true)
	selectedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#C89A3A"))
	barFilledStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#C89A3A"))
	barEmptyStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#4A4A4A"))
	footerStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
	bodyStyle      = lipgloss.NewStyle().PaddingLeft(4)
)

type refreshMsg time.Time

type eventMsg session.Event

type startedMsg struct {
	err error
}

// Model implements the Bubble Tea practice UI.
type Model struct {
	ctx      context.Context
	recorder Recorder
	attempts History
	clips    ClipLocator

	spinner spinner.Model
	history *history
	cursor  int
	notice  string

	width  int
	height int
}

// NewModel constructs the practice UI. ctx bounds background submissions.
func NewModel(ctx context.Context, recorder Recorder, attempts History, clips ClipLocator) *Model {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = titleStyle

	return &Model{
		ctx:      ctx,
		recorder: recorder,
		attempts: attempts,
		clips:    clips,
		spinner:  s,
		history:  newHistory(),
	}
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	m.refresh()
	return tea.Batch(m.spinner.Tick, refreshTick(), m.waitForEvent())
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil
	case tea.KeyMsg:
		return m, m.handleKey(msg)
	case refreshMsg:
		m.refresh()
		return m, refreshTick()
	case eventMsg:
		m.handleEvent(session.Event(msg))
		return m, m.waitForEvent()
	case startedMsg:
		if msg.err != nil {
			m.notice = captureNotice(msg.err)
		}
		return m, nil
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	default:
		return m, nil
	}
}

// View implements tea.Model.
func (m *Model) View() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Vocalize"))
	b.WriteString("\n\n")
	b.WriteString(m.renderRecorder())
	b.WriteString("\n")
	if m.notice != "" {
		b.WriteString(errorStyle.Render(m.notice))
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(m.renderHistory())
	b.WriteString("\n\n")
	b.WriteString(footerStyle.Render("r record/stop • ↑/↓ select • enter expand • q quit"))

	content := b.String()
	if m.width == 0 {
		return content
	}
	return lipgloss.NewStyle().Width(m.width).Render(content)
}

func (m *Model) handleKey(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "ctrl+c", "q":
		return tea.Quit
	case "r", " ":
		return m.toggleRecording()
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(m.history.attempts)-1 {
			m.cursor++
		}
	case "enter":
		if m.cursor < len(m.history.attempts) {
			m.history.toggle(m.history.attempts[m.cursor].Version)
		}
	}
	return nil
}

func (m *Model) toggleRecording() tea.Cmd {
	switch m.recorder.State() {
	case session.Ready:
		m.notice = ""
		ctx := m.ctx
		recorder := m.recorder
		return func() tea.Msg {
			_, err := recorder.Start(ctx)
			return startedMsg{err: err}
		}
	case session.Recording:
		m.recorder.Stop()
	}
	return nil
}

func (m *Model) handleEvent(ev session.Event) {
	switch ev.Type {
	case session.EventCaptureFailed:
		m.notice = captureNotice(ev.Err)
	case session.EventAttemptFailed:
		if errors.Is(ev.Err, session.ErrCaptureFailed) {
			m.notice = captureNotice(ev.Err)
		} else {
			m.notice = fmt.Sprintf("Transcription failed: %v", ev.Err)
		}
		m.refresh()
	case session.EventAttemptRecorded:
		m.notice = ""
		m.refresh()
	}
}

func (m *Model) refresh() {
	attempts, err := m.attempts.List()
	if err != nil {
		log.Printf("⚠️  Failed to load attempts: %v", err)
		return
	}
	m.history.sync(attempts)
	if m.cursor >= len(m.history.attempts) {
		m.cursor = max(len(m.history.attempts)-1, 0)
	}
}

func (m *Model) waitForEvent() tea.Cmd {
	events := m.recorder.Events()
	return func() tea.Msg {
		ev, ok := <-events
		if !ok {
			return nil
		}
		return eventMsg(ev)
	}
}

func refreshTick() tea.Cmd {
	return tea.Tick(refreshInterval, func(t time.Time) tea.Msg {
		return refreshMsg(t)
	})
}

func (m *Model) renderRecorder() string {
	switch m.recorder.State() {
	case session.Recording:
		return recordingStyle.Render("● Recording") + "  " + formatElapsed(m.recorder.Elapsed(), m.recorder.TimeLimit())
	case session.Transcribing:
		return m.spinner.View() + " Transcribing..."
	default:
		return readyStyle.Render("● Ready") + "  " + mutedStyle.Render("press r to record")
	}
}

func (m *Model) renderHistory() string {
	if len(m.history.attempts) == 0 {
		return mutedStyle.Render("No attempts yet.")
	}

	var b strings.Builder
	for i := range m.history.attempts {
		a := &m.history.attempts[i]
		prefix := "  "
		if i == m.cursor {
			prefix = selectedStyle.Render("> ")
		}
		b.WriteString(prefix)
		b.WriteString(attemptHeader(a))
		b.WriteString("\n")
		if m.history.isExpanded(a.Version) {
			location := ""
			if m.clips != nil && a.AudioKey != "" {
				location = m.clips.Location(a.AudioKey)
			}
			b.WriteString(bodyStyle.Render(renderAttemptBody(a, location)))
			b.WriteString("\n")
		}
	}
	return strings.TrimRight(b.String(), "\n")
}

func formatElapsed(elapsed, limit time.Duration) string {
	seconds := int(elapsed / time.Second)
	if limit <= 0 {
		return fmt.Sprintf("%ds", seconds)
	}
	return fmt.Sprintf("%ds / %ds", seconds, int(limit/time.Second))
}

func captureNotice(err error) string {
	if err == nil {
		return ""
	}
	log.Printf("❌ Recording failed: %v", err)
	return "Could not record. Check the microphone and try again."
}

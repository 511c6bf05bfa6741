package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/tui-lander/internal/session"
)

const (
	defaultBarWidth = 40
	maxBarWidth     = 80
	clockRate       = 4 // Elapsed-time refreshes per second
)

// EpisodeMsg carries one finished episode into the progress view.
type EpisodeMsg struct {
	Info  session.EpisodeInfo
	Stats session.RollingStats
}

// sessionDoneMsg is sent once the episode stream is closed.
type sessionDoneMsg struct{}

// waitForEpisode blocks on the next episode of the stream.
func waitForEpisode(events <-chan EpisodeMsg) tea.Cmd {
	return func() tea.Msg {
		ev, ok := <-events
		if !ok {
			return sessionDoneMsg{}
		}
		return ev
	}
}

// ProgressModel is the Bubble Tea model showing a running session.
type ProgressModel struct {
	title   string
	total   int
	events  <-chan EpisodeMsg
	bar     progress.Model
	help    help.Model
	keys    ProgressKeyMap
	started time.Time
	now     time.Time

	done     int
	last     *session.EpisodeInfo
	stats    session.RollingStats
	details  bool
	finished bool
	quitting bool
}

// NewProgressModel creates a view for a session of total episodes fed by events.
func NewProgressModel(title string, total int, events <-chan EpisodeMsg) ProgressModel {
	now := time.Now()
	return ProgressModel{
		title:   title,
		total:   total,
		events:  events,
		bar:     progress.New(progress.WithDefaultGradient(), progress.WithWidth(defaultBarWidth)),
		help:    help.New(),
		keys:    DefaultProgressKeyMap(),
		started: now,
		now:     now,
		details: true,
	}
}

// Init starts listening for episodes and the clock.
func (m ProgressModel) Init() tea.Cmd {
	return tea.Batch(waitForEpisode(m.events), tickCmd(clockRate))
}

// Update handles messages and updates the model state.
func (m ProgressModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.bar.Width = min(max(msg.Width-20, 10), maxBarWidth)
		m.help.Width = msg.Width
		return m, nil

	case EpisodeMsg:
		m.done++
		info := msg.Info
		m.last = &info
		m.stats = msg.Stats
		return m, waitForEpisode(m.events)

	case sessionDoneMsg:
		m.finished = true
		return m, tea.Quit

	case TickMsg:
		if m.finished || m.quitting {
			return m, nil
		}
		m.now = time.Time(msg)
		return m, tickCmd(clockRate)
	}

	return m, nil
}

// handleKey processes keyboard input.
func (m ProgressModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.quitting = true
		return m, tea.Quit
	case key.Matches(msg, m.keys.Details):
		m.details = !m.details
	}
	return m, nil
}

// Done returns the number of episodes received so far.
func (m ProgressModel) Done() int { return m.done }

// Percent returns the completed share of the session.
func (m ProgressModel) Percent() float64 {
	if m.total <= 0 {
		return 0
	}
	return min(float64(m.done)/float64(m.total), 1)
}

// View renders the current state to a string for display.
func (m ProgressModel) View() string {
	var sb strings.Builder

	sb.WriteString(titleStyle.Render(m.title))
	sb.WriteString("\n\n")
	sb.WriteString(m.bar.ViewAs(m.Percent()))
	fmt.Fprintf(&sb, "  %d/%d  %s\n\n", m.done, m.total, m.now.Sub(m.started).Truncate(time.Second))

	if m.last != nil {
		l := m.last
		fmt.Fprintf(&sb, "Last: #%d seed %d  %s  steps %d  reward %.1f\n",
			l.Number, l.Seed, OutcomeStyle(l.Outcome).Render(l.Outcome.String()), l.Steps, l.Reward.Total())
		if m.details {
			s := m.stats
			fmt.Fprintf(&sb, "Window (%d): landed %s  collided %s  escaped %s  pad %s  mean reward %.1f\n",
				s.Episodes, pct(s.LandingRate), pct(s.CollisionRate), pct(s.EscapeRate),
				pct(s.PadContactRate), s.MeanReward)
		}
	} else {
		sb.WriteString(dimStyle.Render("Waiting for the first episode..."))
		sb.WriteString("\n")
	}

	if m.finished {
		sb.WriteString("\nSession finished.\n")
		return sb.String()
	}
	sb.WriteString("\n")
	sb.WriteString(m.help.View(m.keys))
	return sb.String()
}

// RunFunc runs a session, reporting each finished episode through onEpisode.
type RunFunc func(ctx context.Context, onEpisode func(session.EpisodeInfo, session.RollingStats)) error

// RunProgress runs fn while showing its progress. Quitting the view cancels
// the context passed to fn; the error of fn is returned.
func RunProgress(ctx context.Context, title string, total int, fn RunFunc, opts ...tea.ProgramOption) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	events := make(chan EpisodeMsg)
	errc := make(chan error, 1)
	go func() {
		defer close(events)
		errc <- fn(ctx, func(info session.EpisodeInfo, stats session.RollingStats) {
			select {
			case events <- EpisodeMsg{Info: info, Stats: stats}:
			case <-ctx.Done():
			}
		})
	}()

	p := tea.NewProgram(NewProgressModel(title, total, events), opts...)
	_, uiErr := p.Run()

	// Stops the session when the view was closed early.
	cancel()
	runErr := <-errc
	if runErr != nil {
		return runErr
	}
	return uiErr
}

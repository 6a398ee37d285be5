// Package ask provides the question and answer view for the TUI.
package ask

import (
	"context"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/docrag/internal/adapters/driving/tui/components/input"
	"github.com/custodia-labs/docrag/internal/adapters/driving/tui/components/status"
	"github.com/custodia-labs/docrag/internal/adapters/driving/tui/components/transcript"
	"github.com/custodia-labs/docrag/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/docrag/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/docrag/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/docrag/internal/core/ports/driving"
)

// targetLabel is shown in the transcript for the configured question.
const targetLabel = "(pregunta objetivo)"

// View is the ask view: question input, transcript and status bar.
type View struct {
	styles     *styles.Styles
	keymap     *keymap.KeyMap
	input      *input.QuestionInput
	transcript *transcript.Transcript
	statusbar  *status.Bar

	queryService     driving.QueryService
	ingestionService driving.IngestionService
	opts             driving.QueryOptions
	ctx              context.Context

	width  int
	height int
	ready  bool
	busy   bool
	err    error
}

// NewView creates a new ask view. ingestion may be nil.
func NewView(
	s *styles.Styles,
	km *keymap.KeyMap,
	query driving.QueryService,
	ingestion driving.IngestionService,
) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	if km == nil {
		km = keymap.DefaultKeyMap()
	}

	return &View{
		styles:           s,
		keymap:           km,
		input:            input.NewQuestionInput(s),
		transcript:       transcript.New(s),
		statusbar:        status.NewBar(s, km),
		queryService:     query,
		ingestionService: ingestion,
		ctx:              context.Background(),
		width:            80,
		height:           24,
	}
}

// WithContext sets the context used for service calls.
func (v *View) WithContext(ctx context.Context) *View {
	v.ctx = ctx
	return v
}

// WithOptions sets the retrieval options applied to every question.
func (v *View) WithOptions(opts driving.QueryOptions) *View {
	v.opts = opts
	return v
}

// Init starts the cursor and loads collection statistics.
func (v *View) Init() tea.Cmd {
	return tea.Batch(v.input.Init(), v.loadStats())
}

// Update handles messages for the ask view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)
		return v, nil

	case tea.KeyMsg:
		return v.handleKeyMsg(msg)

	case messages.AnswerReceived:
		v.busy = false
		v.err = nil
		v.transcript.Append(transcript.Entry{Question: msg.Question, Answer: msg.Answer})
		v.statusbar.Clear()
		return v, nil

	case messages.IngestCompleted:
		v.busy = false
		v.statusbar.Clear()
		v.statusbar.SetStats(msg.Stats)
		if msg.Ingested {
			v.statusbar.SetMessage("Ingested new documents")
		} else {
			v.statusbar.SetMessage("Nothing ingested")
		}
		return v, nil

	case messages.StatsLoaded:
		v.statusbar.SetStats(msg.Stats)
		return v, nil

	case messages.ErrorOccurred:
		v.busy = false
		v.err = msg.Err
		v.statusbar.SetState(status.StateError)
		v.statusbar.SetMessage(msg.Err.Error())
		return v, nil
	}

	var cmd tea.Cmd
	v.input, cmd = v.input.Update(msg)
	return v, cmd
}

func (v *View) handleKeyMsg(msg tea.KeyMsg) (*View, tea.Cmd) {
	keyStr := msg.String()

	switch {
	case keymap.Matches(keyStr, v.keymap.Up):
		v.transcript.ScrollUp()
		return v, nil
	case keymap.Matches(keyStr, v.keymap.Down):
		v.transcript.ScrollDown()
		return v, nil
	case keymap.Matches(keyStr, v.keymap.Stats):
		return v, v.loadStats()
	}

	// One request at a time; typing is still allowed.
	if v.busy {
		if msg.Type == tea.KeyEnter {
			return v, nil
		}
		var cmd tea.Cmd
		v.input, cmd = v.input.Update(msg)
		return v, cmd
	}

	switch {
	case keymap.Matches(keyStr, v.keymap.Ask):
		question := strings.TrimSpace(v.input.Value())
		if question == "" {
			return v, nil
		}
		v.input.Reset()
		return v, v.ask(question)

	case keymap.Matches(keyStr, v.keymap.Target):
		return v, v.askTarget()

	case keymap.Matches(keyStr, v.keymap.Ingest):
		return v, v.ingest()
	}

	var cmd tea.Cmd
	v.input, cmd = v.input.Update(msg)
	return v, cmd
}

func (v *View) ask(question string) tea.Cmd {
	if v.queryService == nil {
		return errorCmd(ErrNoQueryService)
	}
	v.busy = true
	v.statusbar.SetState(status.StateThinking)

	svc, ctx, opts := v.queryService, v.ctx, v.opts
	return func() tea.Msg {
		return messages.AnswerReceived{Question: question, Answer: svc.Query(ctx, question, opts)}
	}
}

func (v *View) askTarget() tea.Cmd {
	if v.queryService == nil {
		return errorCmd(ErrNoQueryService)
	}
	v.busy = true
	v.statusbar.SetState(status.StateThinking)

	svc, ctx := v.queryService, v.ctx
	return func() tea.Msg {
		return messages.AnswerReceived{Question: targetLabel, Answer: svc.RunTargetQuestion(ctx)}
	}
}

func (v *View) ingest() tea.Cmd {
	if v.ingestionService == nil {
		return errorCmd(ErrNoIngestionService)
	}
	v.busy = true
	v.statusbar.SetState(status.StateIngesting)

	svc, ctx := v.ingestionService, v.ctx
	return func() tea.Msg {
		ingested := svc.Ingest(ctx)
		return messages.IngestCompleted{Ingested: ingested, Stats: svc.Stats(ctx)}
	}
}

func (v *View) loadStats() tea.Cmd {
	if v.ingestionService == nil {
		return nil
	}
	svc, ctx := v.ingestionService, v.ctx
	return func() tea.Msg {
		return messages.StatsLoaded{Stats: svc.Stats(ctx)}
	}
}

func errorCmd(err error) tea.Cmd {
	return func() tea.Msg {
		return messages.ErrorOccurred{Err: err}
	}
}

// View renders the ask view.
func (v *View) View() string {
	if !v.ready {
		return "Initialising..."
	}

	sections := make([]string, 0, 8)
	sections = append(sections, v.styles.Title.Render("docrag"), "")
	sections = append(sections, v.transcript.View(), "")

	if v.err != nil {
		sections = append(sections, v.styles.Error.Render("Error: "+v.err.Error()), "")
	}

	sections = append(sections, v.input.View(), "", v.statusbar.View())
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.ready = true

	v.input.SetWidth(width)
	// title, input box and status bar
	v.transcript.SetDimensions(width, height-9)
	v.statusbar.SetWidth(width)
}

// Ready returns whether the view is ready to render.
func (v *View) Ready() bool {
	return v.ready
}

// Busy returns whether a request is in flight.
func (v *View) Busy() bool {
	return v.busy
}

// Question returns the text in the input.
func (v *View) Question() string {
	return v.input.Value()
}

// SetQuestion sets the text in the input.
func (v *View) SetQuestion(q string) {
	v.input.SetValue(q)
}

// Entries returns the answered questions.
func (v *View) Entries() []transcript.Entry {
	return v.transcript.Entries()
}

// Err returns the current error, if any.
func (v *View) Err() error {
	return v.err
}

// StatusState returns the status bar state.
func (v *View) StatusState() status.State {
	return v.statusbar.State()
}

// StatusMessage returns the status bar message.
func (v *View) StatusMessage() string {
	return v.statusbar.Message()
}

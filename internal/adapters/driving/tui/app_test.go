package tui

import (
	"context"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/docrag/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/docrag/internal/core/domain"
	"github.com/custodia-labs/docrag/internal/core/ports/driving"
)

type mockQueryService struct{}

func (mockQueryService) Query(_ context.Context, q string, _ driving.QueryOptions) domain.StructuredAnswer {
	return domain.NewAnswer("eco: " + q)
}

func (mockQueryService) RunTargetQuestion(_ context.Context) domain.StructuredAnswer {
	return domain.NewAnswer("objetivo")
}

func newTestApp(t *testing.T) *App {
	t.Helper()
	app, err := NewApp(&Ports{Query: mockQueryService{}})
	require.NoError(t, err)
	app.SetDimensions(100, 30)
	return app
}

func TestNewApp_RequiresQuery(t *testing.T) {
	_, err := NewApp(&Ports{})
	assert.ErrorIs(t, err, ErrMissingQueryService)

	_, err = NewApp(nil)
	assert.ErrorIs(t, err, ErrMissingQueryService)
}

func TestApp_NotReadyUntilSized(t *testing.T) {
	app, err := NewApp(&Ports{Query: mockQueryService{}})
	require.NoError(t, err)

	assert.False(t, app.Ready())
	assert.Equal(t, "Initialising...", app.View())

	model, _ := app.Update(tea.WindowSizeMsg{Width: 80, Height: 24})
	assert.True(t, model.(*App).Ready())
}

func TestApp_HelpToggle(t *testing.T) {
	app := newTestApp(t)

	app.Update(tea.KeyMsg{Type: tea.KeyF1})
	assert.Equal(t, messages.ViewHelp, app.CurrentView())
	assert.Contains(t, app.View(), "ingest")

	app.Update(tea.KeyMsg{Type: tea.KeyEsc})
	assert.Equal(t, messages.ViewAsk, app.CurrentView())
}

func TestApp_QuitKeys(t *testing.T) {
	app := newTestApp(t)

	_, cmd := app.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())

	_, cmd = app.Update(tea.KeyMsg{Type: tea.KeyEsc})
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())

	_, cmd = app.Update(messages.Quit{})
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
}

func TestApp_AskRoundTrip(t *testing.T) {
	app := newTestApp(t).WithContext(context.Background())
	app.AskView().SetQuestion("hola")

	_, cmd := app.Update(tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)

	app.Update(cmd())
	require.Len(t, app.AskView().Entries(), 1)
	assert.Contains(t, app.View(), "eco: hola")
}

func TestApp_AnswerDeliveredWhileHelpShown(t *testing.T) {
	app := newTestApp(t)
	app.Update(messages.ViewChanged{View: messages.ViewHelp})

	app.Update(messages.AnswerReceived{Question: "q", Answer: domain.NewAnswer("a")})
	assert.Len(t, app.AskView().Entries(), 1)
	assert.Equal(t, messages.ViewHelp, app.CurrentView())
}

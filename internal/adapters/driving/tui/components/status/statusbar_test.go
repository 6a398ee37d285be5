package status

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/custodia-labs/docrag/internal/core/domain"
)

func TestNewBar_Defaults(t *testing.T) {
	b := NewBar(nil, nil)

	assert.Equal(t, StateReady, b.State())
	assert.Empty(t, b.Message())
	assert.Contains(t, b.View(), "Ready")
	assert.Contains(t, b.View(), "enter: ask")
}

func TestBar_States(t *testing.T) {
	tests := []struct {
		name  string
		state State
		msg   string
		want  string
	}{
		{"thinking", StateThinking, "", "Pensando..."},
		{"ingesting", StateIngesting, "", "Ingesting..."},
		{"error with message", StateError, "boom", "Error: boom"},
		{"error without message", StateError, "", "Error"},
		{"ready with message", StateReady, "Nothing ingested", "Nothing ingested"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := NewBar(nil, nil)
			b.SetWidth(120)
			b.SetState(tt.state)
			b.SetMessage(tt.msg)
			assert.Contains(t, b.View(), tt.want)
		})
	}
}

func TestBar_CollectionStats(t *testing.T) {
	tests := []struct {
		name  string
		stats domain.CollectionStats
		want  string
	}{
		{"points", domain.CollectionStats{Exists: true, PointsCount: 12}, "12 chunks"},
		{"missing", domain.CollectionStats{}, "No collection yet"},
		{"unreachable", domain.CollectionStats{Error: "dial tcp"}, "Collection unavailable"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := NewBar(nil, nil)
			b.SetWidth(120)
			b.SetStats(tt.stats)
			assert.Contains(t, b.View(), tt.want)
		})
	}
}

func TestBar_Clear(t *testing.T) {
	b := NewBar(nil, nil)
	b.SetState(StateError)
	b.SetMessage("boom")

	b.Clear()
	assert.Equal(t, StateReady, b.State())
	assert.Empty(t, b.Message())
}

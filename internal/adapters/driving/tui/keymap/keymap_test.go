package keymap

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDefaultKeyMap_Bindings(t *testing.T) {
	km := DefaultKeyMap()

	assert.True(t, Matches("enter", km.Ask))
	assert.True(t, Matches("ctrl+t", km.Target))
	assert.True(t, Matches("ctrl+r", km.Ingest))
	assert.True(t, Matches("ctrl+s", km.Stats))
	assert.True(t, Matches("f1", km.Help))
	assert.True(t, Matches("esc", km.Back))
	assert.True(t, Matches("ctrl+c", km.Quit))
	assert.True(t, Matches("pgup", km.Up))
	assert.True(t, Matches("down", km.Down))
}

func TestDefaultKeyMap_PrintableKeysStayFree(t *testing.T) {
	km := DefaultKeyMap()
	// Questions are typed into the input, so no binding may take a printable key.
	for _, group := range km.FullHelp() {
		for _, b := range group {
			for _, k := range b.Keys() {
				assert.Greater(t, len(k), 1, "binding %q uses printable key %q", b.Help().Desc, k)
			}
		}
	}
}

func TestMatches_NoMatch(t *testing.T) {
	assert.False(t, Matches("x", DefaultKeyMap().Ask))
}

func TestShortHelp(t *testing.T) {
	km := DefaultKeyMap()
	assert.Len(t, km.ShortHelp(), 4)
}

package workflow

import (
	"bytes"
	"context"
	"net/http/httptest"
	"path/filepath"
	"regexp"
	"strings"
	"testing"

	"deckofcards/api"
	"deckofcards/client"
	"deckofcards/config"
	"deckofcards/database"
	"deckofcards/deckapi"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// The demonstration runs end to end against the local deck server.
func TestRunAgainstEmulator(t *testing.T) {
	handler, err := database.NewDB(filepath.Join(t.TempDir(), "emulator.db"))
	require.NoError(t, err)
	wp := database.Init(handler, 4)
	t.Cleanup(func() {
		wp.Close()
		_ = handler.Close()
	})

	cfg := config.Default().Server
	srv := httptest.NewServer(api.NewServer(wp, cfg, nil, nil))
	t.Cleanup(srv.Close)

	deck := deckapi.New(srv.URL+"/api/deck", client.New())

	var out bytes.Buffer
	require.NoError(t, Run(context.Background(), deck, deck.URLs.BackImage(), &out))

	got := out.String()
	assert.Regexp(t, regexp.MustCompile(`Created deck: [0-9A-Za-z]{12} \| remaining: 52`), got)
	assert.Contains(t, got, "Piles listed. Remaining in deck: 48")
	assert.Contains(t, got, "Returned player1 pile to deck. Deck remaining: 50")
	assert.Contains(t, got, "| remaining: 50\n")
	assert.Contains(t, got, "| remaining: 54\n")
	assert.Contains(t, got, "Partial deck created: ")
	assert.True(t, strings.HasSuffix(got, srv.URL+"/static/img/back.png\n"))
	assert.Equal(t, 4+2+2+1, strings.Count(got, " - "), "every printed card line")
}

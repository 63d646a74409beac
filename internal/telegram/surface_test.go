package telegram

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Adiar1/Crackd/internal/pages"
	"github.com/Adiar1/Crackd/internal/surface"
)

func newTestSurface(t *testing.T) (*ChatSurface, *Registry) {
	t.Helper()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"ok":true,"result":{"message_id":1}}`))
	}))
	t.Cleanup(srv.Close)

	client := &Client{token: "test", httpClient: srv.Client(), baseURL: srv.URL}
	reg := NewRegistry()
	return NewChatSurface(client, reg, 1, 100, time.Minute), reg
}

// dispatch retries until the surface has registered its callback waiter.
func dispatch(t *testing.T, reg *Registry, data string) {
	t.Helper()
	require.Eventually(t, func() bool {
		return reg.DispatchCallback(1, 1, 100, Event{Data: data, CallbackID: "cb"})
	}, time.Second, 5*time.Millisecond)
}

func TestShowActionChoicesCancelWithoutSelection(t *testing.T) {
	surf, reg := newTestSurface(t)

	choices := []surface.Choice{{Label: "1", Value: "1"}}
	actions := []surface.Choice{
		{Label: "Archive Selected", Value: "archive"},
		{Label: "Cancel", Value: "cancel"},
	}

	type result struct {
		action string
		values []string
		err    error
	}
	done := make(chan result, 1)
	go func() {
		action, values, err := surf.ShowActionChoices(context.Background(), pages.Page{Title: "Pick"}, choices, actions)
		done <- result{action, values, err}
	}()

	dispatch(t, reg, "act:1")

	select {
	case res := <-done:
		require.NoError(t, res.err)
		assert.Equal(t, "cancel", res.action)
		assert.Empty(t, res.values)
	case <-time.After(2 * time.Second):
		t.Fatal("cancel with empty selection did not resolve the prompt")
	}
}

func TestShowActionChoicesRequiresSelectionForOtherActions(t *testing.T) {
	surf, reg := newTestSurface(t)

	choices := []surface.Choice{{Label: "1", Value: "1"}}
	actions := []surface.Choice{
		{Label: "Archive Selected", Value: "archive"},
		{Label: "Cancel", Value: "cancel"},
	}

	type result struct {
		action string
		values []string
		err    error
	}
	done := make(chan result, 1)
	go func() {
		action, values, err := surf.ShowActionChoices(context.Background(), pages.Page{Title: "Pick"}, choices, actions)
		done <- result{action, values, err}
	}()

	// Archive with nothing selected is refused and the prompt stays open.
	dispatch(t, reg, "act:0")
	select {
	case res := <-done:
		t.Fatalf("prompt resolved early: %+v", res)
	case <-time.After(50 * time.Millisecond):
	}

	dispatch(t, reg, "tgl:0")
	dispatch(t, reg, "act:0")

	select {
	case res := <-done:
		require.NoError(t, res.err)
		assert.Equal(t, "archive", res.action)
		assert.Equal(t, []string{"1"}, res.values)
	case <-time.After(2 * time.Second):
		t.Fatal("archive after toggling did not resolve the prompt")
	}
}

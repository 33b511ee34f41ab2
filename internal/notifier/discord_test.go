package notifier

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestDiscord(handler http.HandlerFunc) (*Discord, *httptest.Server) {
	srv := httptest.NewServer(handler)
	d := NewDiscord("test-token", zerolog.Nop())
	d.BaseURL = srv.URL
	return d, srv
}

func TestDiscordSend_Success(t *testing.T) {
	var gotAuth, gotPath string
	var gotPayload map[string]any
	d, srv := newTestDiscord(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotPath = r.URL.Path
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotPayload))
		w.WriteHeader(http.StatusOK)
	})
	defer srv.Close()

	err := d.Send(context.Background(), "chan-1", "hello")
	require.NoError(t, err)
	assert.Equal(t, "Bot test-token", gotAuth)
	assert.Equal(t, "/channels/chan-1/messages", gotPath)
	assert.Equal(t, "hello", gotPayload["content"])
	// Link previews are suppressed on every message.
	assert.EqualValues(t, suppressEmbedsFlag, gotPayload["flags"])
}

func TestDiscordSend_ClassifiesPermanentFailures(t *testing.T) {
	status := http.StatusForbidden
	d, srv := newTestDiscord(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(status)
	})
	defer srv.Close()

	err := d.Send(context.Background(), "chan-1", "hello")
	assert.ErrorIs(t, err, ErrPermissionDenied)

	status = http.StatusNotFound
	err = d.Send(context.Background(), "chan-1", "hello")
	assert.ErrorIs(t, err, ErrChannelNotFound)

	status = http.StatusInternalServerError
	err = d.Send(context.Background(), "chan-1", "hello")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrPermissionDenied)
	assert.NotErrorIs(t, err, ErrChannelNotFound)
}

func TestDiscordSendWithRetry_NoRetryOnPermanent(t *testing.T) {
	calls := 0
	d, srv := newTestDiscord(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusForbidden)
	})
	defer srv.Close()

	err := d.SendWithRetry(context.Background(), "chan-1", "hello", 3)
	assert.ErrorIs(t, err, ErrPermissionDenied)
	assert.Equal(t, 1, calls, "permission failures must not be retried")
}

func TestDiscordSendWithRetry_RecoversOnTransient(t *testing.T) {
	calls := 0
	d, srv := newTestDiscord(func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls == 1 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.WriteHeader(http.StatusOK)
	})
	defer srv.Close()

	err := d.SendWithRetry(context.Background(), "chan-1", "hello", 3)
	require.NoError(t, err)
	assert.Equal(t, 2, calls)
}

func TestWithRetry_SendRecoversOnTransient(t *testing.T) {
	calls := 0
	d, srv := newTestDiscord(func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls == 1 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.WriteHeader(http.StatusOK)
	})
	defer srv.Close()

	var n Notifier = WithRetry(d, 3)
	err := n.Send(context.Background(), "chan-1", "hello")
	require.NoError(t, err)
	assert.Equal(t, 2, calls, "wrapped Send must retry through SendWithRetry")
}

func TestMockNotifier(t *testing.T) {
	m := NewMock()
	require.NoError(t, m.Send(context.Background(), "c1", "a"))
	require.NoError(t, m.Send(context.Background(), "c2", "b"))

	assert.Equal(t, 2, m.Count())
	require.Len(t, m.SentTo("c1"), 1)
	assert.Equal(t, "a", m.SentTo("c1")[0].Content)
}

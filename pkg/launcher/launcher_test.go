package launcher

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/entrhq/screenboard/pkg/config"
	"github.com/entrhq/screenboard/pkg/logging"
)

func TestWaitReachable(t *testing.T) {
	t.Run("reachable server passes immediately", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
		}))
		defer srv.Close()

		assert.NoError(t, WaitReachable(context.Background(), srv.URL, time.Second))
	})

	t.Run("any response counts, status does not matter", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		}))
		defer srv.Close()

		assert.NoError(t, WaitReachable(context.Background(), srv.URL, time.Second))
	})

	t.Run("unreachable url times out", func(t *testing.T) {
		err := WaitReachable(context.Background(), "http://127.0.0.1:1", 10*time.Millisecond)

		var timeout *StartupTimeoutError
		require.ErrorAs(t, err, &timeout)
		assert.Equal(t, "http://127.0.0.1:1", timeout.BaseURL)
	})

	t.Run("cancellation wins over the window", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		err := WaitReachable(ctx, "http://127.0.0.1:1", time.Minute)
		assert.ErrorIs(t, err, context.Canceled)
	})
}

func TestEnsure(t *testing.T) {
	log := logging.ForComponent(logging.Discard(), "test")

	t.Run("nothing to do without command or base url", func(t *testing.T) {
		app, err := Ensure(context.Background(), config.App{}, log)
		require.NoError(t, err)
		assert.Nil(t, app)
		app.Stop() // nil-safe
	})

	t.Run("base url only polls reachability", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
		defer srv.Close()

		app, err := Ensure(context.Background(), config.App{BaseURL: srv.URL}, log)
		require.NoError(t, err)
		assert.Nil(t, app)
	})

	t.Run("spawned command is stopped on poll failure", func(t *testing.T) {
		// The command outlives the poll window; Ensure must reap it and
		// report the timeout. Short window comes from cancellation.
		ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
		defer cancel()

		_, err := Ensure(ctx, config.App{
			Command: "sleep 30",
			BaseURL: "http://127.0.0.1:1",
		}, log)
		assert.Error(t, err)
	})
}

func TestStartupTimeoutErrorMessage(t *testing.T) {
	err := &StartupTimeoutError{BaseURL: "http://localhost:3000", Window: StartupWindow}
	assert.Contains(t, err.Error(), "http://localhost:3000")
	assert.Contains(t, err.Error(), "1m0s")
}

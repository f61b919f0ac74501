package server

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/goevery/playerrelay/internal/relay"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newFakeMJ(t *testing.T, status int, body string, calls *atomic.Int32) *httptest.Server {
	t.Helper()

	mj := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		w.Write([]byte(body))
	}))
	t.Cleanup(mj.Close)

	return mj
}

func post(t *testing.T, url string, body string) (*http.Response, string) {
	t.Helper()

	resp, err := http.Post(url, "application/json", bytes.NewBufferString(body))
	require.NoError(t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	return resp, string(raw)
}

func TestRESTServer_Say(t *testing.T) {
	var calls atomic.Int32
	mj := newFakeMJ(t, http.StatusOK, `{"ok":true}`, &calls)
	app := newTestRelayServer(t, mj.URL, relay.Options{})

	t.Run("empty text is rejected without an upstream call", func(t *testing.T) {
		resp, body := post(t, app.server.URL+"/say", `{"text":""}`)

		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		assert.JSONEq(t, `{"error":"text required"}`, body)
		assert.Equal(t, int32(0), calls.Load())
	})

	t.Run("missing text is rejected", func(t *testing.T) {
		resp, _ := post(t, app.server.URL+"/say", `{}`)

		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		assert.Equal(t, int32(0), calls.Load())
	})

	t.Run("invalid body is rejected", func(t *testing.T) {
		resp, body := post(t, app.server.URL+"/say", `{"text":`)

		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		assert.JSONEq(t, `{"error":"invalid request body"}`, body)
		assert.Equal(t, int32(0), calls.Load())
	})

	t.Run("text is forwarded", func(t *testing.T) {
		resp, body := post(t, app.server.URL+"/say", `{"text":"hello"}`)

		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.JSONEq(t, `{"ok":true}`, body)
		assert.Equal(t, int32(1), calls.Load())
	})
}

func TestRESTServer_Join(t *testing.T) {
	t.Run("upstream status and body pass through", func(t *testing.T) {
		var calls atomic.Int32
		mj := newFakeMJ(t, http.StatusServiceUnavailable, `{"error":"mj busy"}`, &calls)
		app := newTestRelayServer(t, mj.URL, relay.Options{})

		resp, body := post(t, app.server.URL+"/join", `{"name":"Aria","cls":"mage"}`)

		assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
		assert.Equal(t, "application/json", resp.Header.Get("Content-Type"))
		assert.JSONEq(t, `{"error":"mj busy"}`, body)
		assert.Equal(t, int32(1), calls.Load())
	})

	t.Run("unreachable upstream is a 502", func(t *testing.T) {
		mj := httptest.NewServer(http.NotFoundHandler())
		mj.Close()
		app := newTestRelayServer(t, mj.URL, relay.Options{})

		resp, body := post(t, app.server.URL+"/join", `{}`)

		assert.Equal(t, http.StatusBadGateway, resp.StatusCode)
		assert.JSONEq(t, `{"error":"join proxy error"}`, body)
	})

	t.Run("name and cls reach the MJ as sent", func(t *testing.T) {
		received := make(chan map[string]any, 1)
		mj := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			var body map[string]any
			_ = json.NewDecoder(r.Body).Decode(&body)
			received <- body

			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(`{"ok":true}`))
		}))
		defer mj.Close()
		app := newTestRelayServer(t, mj.URL, relay.Options{})

		name := "  " + strings.Repeat("n", 100) + "  "
		resp, _ := post(t, app.server.URL+"/join", `{"name":"`+name+`","cls":""}`)

		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Equal(t, map[string]any{"playerId": "p1", "name": name, "cls": ""}, <-received)
	})

	t.Run("empty body joins without name", func(t *testing.T) {
		var calls atomic.Int32
		mj := newFakeMJ(t, http.StatusOK, `{"ok":true}`, &calls)
		app := newTestRelayServer(t, mj.URL, relay.Options{})

		resp, _ := post(t, app.server.URL+"/join", ``)

		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Equal(t, int32(1), calls.Load())
	})
}

func TestRESTServer_Start(t *testing.T) {
	mj := httptest.NewServer(http.NotFoundHandler())
	mj.Close()
	app := newTestRelayServer(t, mj.URL, relay.Options{})

	resp, body := post(t, app.server.URL+"/start", ``)

	assert.Equal(t, http.StatusBadGateway, resp.StatusCode)
	assert.JSONEq(t, `{"error":"start proxy error"}`, body)
}

func TestRESTServer_State(t *testing.T) {
	var calls atomic.Int32
	mj := newFakeMJ(t, http.StatusOK, `{}`, &calls)
	app := newTestRelayServer(t, mj.URL, relay.Options{})

	get := func() string {
		resp, err := http.Get(app.server.URL + "/state")
		require.NoError(t, err)
		defer resp.Body.Close()

		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Equal(t, "*", resp.Header.Get("Access-Control-Allow-Origin"))

		raw, err := io.ReadAll(resp.Body)
		require.NoError(t, err)

		return string(raw)
	}

	assert.JSONEq(t, `{"snapshot":null}`, get())

	app.relay.HandleEvent(relay.NewEvent(relay.KindState, json.RawMessage(`{"turn":4}`)))

	assert.JSONEq(t, `{"snapshot":{"turn":4}}`, get())
}

func TestRESTServer_Health(t *testing.T) {
	var calls atomic.Int32
	mj := newFakeMJ(t, http.StatusOK, `{}`, &calls)
	app := newTestRelayServer(t, mj.URL, relay.Options{})

	resp, err := http.Get(app.server.URL + "/health")
	require.NoError(t, err)
	defer resp.Body.Close()

	var health map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&health))

	assert.Equal(t, true, health["ok"])
	assert.Equal(t, "p1", health["playerId"])
	assert.Equal(t, mj.URL, health["mj"])
	assert.Equal(t, float64(0), health["channels"])
}

func TestRESTServer_Preflight(t *testing.T) {
	var calls atomic.Int32
	mj := newFakeMJ(t, http.StatusOK, `{}`, &calls)
	app := newTestRelayServer(t, mj.URL, relay.Options{})

	req, _ := http.NewRequest(http.MethodOptions, app.server.URL+"/say", nil)
	req.Header.Set("Origin", "http://localhost:3000")

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	assert.Equal(t, "*", resp.Header.Get("Access-Control-Allow-Origin"))
	assert.Equal(t, int32(0), calls.Load())
}

package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/voyago/tripsync/pkg/api"
)

type recordingHub struct {
	served chan string
}

func (r *recordingHub) ServeConn(_ context.Context, conn *websocket.Conn, userID string) {
	r.served <- userID
	_ = conn.Close()
}

func setupWSServer(t *testing.T) (*recordingHub, *httptest.Server) {
	t.Helper()

	hub := &recordingHub{served: make(chan string, 1)}
	h := NewWSHandler(testLogger(), hub, testJWTConfig())

	srv := httptest.NewServer(http.HandlerFunc(h.Serve))
	t.Cleanup(srv.Close)

	return hub, srv
}

func TestWSHandler_AuthenticatedUpgrade(t *testing.T) {
	hub, srv := setupWSServer(t)

	token, _, err := GenerateAccessToken(testJWTConfig(), "user-1", "alice")
	require.NoError(t, err)

	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http")
	header := http.Header{"Authorization": {"Bearer " + token}}

	conn, resp, err := websocket.DefaultDialer.Dial(wsURL, header)
	require.NoError(t, err)
	if resp != nil {
		resp.Body.Close()
	}
	defer conn.Close()

	select {
	case userID := <-hub.served:
		assert.Equal(t, "user-1", userID)
	case <-time.After(2 * time.Second):
		t.Fatal("connection never reached the hub")
	}
}

func TestWSHandler_QueryParamToken(t *testing.T) {
	hub, srv := setupWSServer(t)

	token, _, err := GenerateAccessToken(testJWTConfig(), "user-2", "bob")
	require.NoError(t, err)

	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http") + "?token=" + token

	conn, resp, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	if resp != nil {
		resp.Body.Close()
	}
	defer conn.Close()

	select {
	case userID := <-hub.served:
		assert.Equal(t, "user-2", userID)
	case <-time.After(2 * time.Second):
		t.Fatal("connection never reached the hub")
	}
}

func TestWSHandler_InvalidToken_ClosesUnauthorized(t *testing.T) {
	_, srv := setupWSServer(t)

	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http")
	header := http.Header{"Authorization": {"Bearer not-a-jwt"}}

	conn, resp, err := websocket.DefaultDialer.Dial(wsURL, header)
	require.NoError(t, err, "upgrade succeeds; rejection uses a close code")
	if resp != nil {
		resp.Body.Close()
	}
	defer conn.Close()

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, _, err = conn.ReadMessage()

	var closeErr *websocket.CloseError
	require.ErrorAs(t, err, &closeErr)
	assert.Equal(t, api.CloseUnauthorized, closeErr.Code)
}

package handler

import (
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dialStream(t *testing.T, srv *httptest.Server, path string) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + path
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	return conn
}

func TestStream_All(t *testing.T) {
	s := newTestServer(t)
	srv := httptest.NewServer(s.e)
	defer srv.Close()

	conn := dialStream(t, srv, "/v1/movies/stream")
	var msg StreamMessage
	require.NoError(t, conn.ReadJSON(&msg))
	assert.Equal(t, "movies", msg.Type)
	assert.Equal(t, "movies", msg.Path)
	assert.Len(t, msg.Movies, 2)
}

func TestStream_One(t *testing.T) {
	s := newTestServer(t)
	srv := httptest.NewServer(s.e)
	defer srv.Close()

	conn := dialStream(t, srv, "/v1/movies/1/stream")
	var msg StreamMessage
	require.NoError(t, conn.ReadJSON(&msg))
	assert.Equal(t, "movies/1", msg.Path)
	require.NotNil(t, msg.Movie)
	assert.Equal(t, "Dune: Part Two", msg.Movie.Title)

	missing := dialStream(t, srv, "/v1/movies/99/stream")
	msg = StreamMessage{}
	require.NoError(t, missing.ReadJSON(&msg))
	assert.Nil(t, msg.Movie)
}

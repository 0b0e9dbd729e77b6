package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mfpkg/model"
)

const subText = "# heading\n40 0 1 0 0 20 0.0 0.2 5 0 0\n2\n" +
	"CONSTANT 5.0\nCONSTANT 1e-4\nCONSTANT 1e-3\nCONSTANT 0\n"

func TestProcess(t *testing.T) {
	reply, err := Process(LoadRequest{Package: "SUB", Nrow: 2, Ncol: 2, Nlay: 2, Nper: 1, Text: subText})
	require.NoError(t, err)
	assert.Equal(t, "sub", reply.Package)
	assert.Equal(t, []int{40}, reply.Units)
	assert.Contains(t, reply.Text, "53 0 1 0 0 20 0.0 0.2 5 0 0\n2\n")
	require.Len(t, reply.Summary, 4)
	assert.Equal(t, 5.0, reply.Summary[0].Max)
}

func TestProcessErrors(t *testing.T) {
	_, err := Process(LoadRequest{Package: "lpf", Nrow: 1, Ncol: 1, Nlay: 1, Nper: 1})
	assert.Error(t, err)

	_, err = Process(LoadRequest{Package: "sub"})
	assert.Error(t, err)

	_, err = Process(LoadRequest{Package: "upw", Nrow: 1, Ncol: 1, Nlay: 1, Nper: 1,
		Text: "53 -1e30 0 0\n0\n0\n1.0\n0\n1\n"})
	assert.ErrorContains(t, err, "LAYWET")
}

func dial(t *testing.T) *websocket.Conn {
	t.Helper()
	s := NewServer("", websocket.Upgrader{})
	ts := httptest.NewServer(s.Handler())
	t.Cleanup(ts.Close)

	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws"
	conn, resp, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	require.Equal(t, http.StatusSwitchingProtocols, resp.StatusCode)
	t.Cleanup(func() { conn.Close() })
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))
	return conn
}

func roundTrip(t *testing.T, conn *websocket.Conn, msg model.Msg) model.Msg {
	t.Helper()
	require.NoError(t, conn.WriteJSON(&msg))
	var reply model.Msg
	require.NoError(t, conn.ReadJSON(&reply))
	return reply
}

func TestWebsocket(t *testing.T) {
	conn := dial(t)

	pong := roundTrip(t, conn, model.Msg{Type: TypePing})
	assert.Equal(t, TypePong, pong.Type)
	assert.NotEmpty(t, pong.Content)

	req, err := json.Marshal(LoadRequest{Package: "sub", Nrow: 2, Ncol: 2, Nlay: 2, Nper: 1, Text: subText})
	require.NoError(t, err)
	loaded := roundTrip(t, conn, model.Msg{Type: TypeLoad, Content: string(req)})
	require.Equal(t, TypeLoaded, loaded.Type, loaded.Content)
	var reply LoadReply
	require.NoError(t, json.Unmarshal([]byte(loaded.Content), &reply))
	assert.Contains(t, reply.Text, "CONSTANT 5.0  #hc layer 2")

	failed := roundTrip(t, conn, model.Msg{Type: TypeLoad, Content: "{"})
	assert.Equal(t, TypeError, failed.Type)

	unknown := roundTrip(t, conn, model.Msg{Type: "start"})
	assert.Equal(t, TypeError, unknown.Type)
	assert.Contains(t, unknown.Content, "start")
}

func TestReplyAfterSessionEnd(t *testing.T) {
	h := NewHub(nil)
	for i := 0; i < cap(h.failed); i++ {
		h.failed <- model.Msg{Type: TypeError}
	}
	close(h.done)

	finished := make(chan struct{})
	go func() {
		h.load(model.Msg{Type: TypeLoad, Content: "{"})
		h.reply(h.pong, model.Msg{Type: TypePong})
		close(finished)
	}()
	select {
	case <-finished:
	case <-time.After(5 * time.Second):
		t.Fatal("reply blocked after the session ended")
	}
}

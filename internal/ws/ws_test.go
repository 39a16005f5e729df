// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package ws

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GermanBionicSystems/oledrgb/buttons"
	"github.com/GermanBionicSystems/oledrgb/sim"
)

func dial(t *testing.T, srv *httptest.Server) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	c, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	return c
}

func send(t *testing.T, c *websocket.Conn, m Msg) Reply {
	t.Helper()
	require.NoError(t, c.WriteJSON(m))
	var r Reply
	require.NoError(t, c.ReadJSON(&r))
	return r
}

func TestButtons(t *testing.T) {
	p := sim.New(nil)
	h := New(p, zerolog.Nop())
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	c := dial(t, srv)
	defer c.Close()

	assert.Equal(t, Reply{Input: uint32(buttons.Left)}, send(t, c, Msg{Button: "left", Down: true}))
	assert.Equal(t, Reply{Input: uint32(buttons.Left | buttons.Right)}, send(t, c, Msg{Button: "R", Down: true}))
	assert.Equal(t, Reply{Input: uint32(buttons.Right)}, send(t, c, Msg{Button: "left"}))

	r := send(t, c, Msg{Button: "up", Down: true})
	assert.Equal(t, uint32(buttons.Right), r.Input)
	assert.Contains(t, r.Error, "unknown button")

	require.NoError(t, c.WriteMessage(websocket.TextMessage, []byte("{")))
	require.NoError(t, c.ReadJSON(&r))
	assert.NotEmpty(t, r.Error)
	assert.Equal(t, 1, h.Clients())
}

func TestReleaseOnDisconnect(t *testing.T) {
	p := sim.New(nil)
	p.Press(buttons.Left)
	h := New(p, zerolog.Nop())
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)

	c := dial(t, srv)
	send(t, c, Msg{Button: "center", Down: true})
	require.Equal(t, buttons.Left|buttons.Center, p.Input())
	require.NoError(t, c.Close())

	assert.Eventually(t, func() bool { return p.Input() == buttons.Left && h.Clients() == 0 }, time.Second, time.Millisecond)
}

func TestSharedHold(t *testing.T) {
	p := sim.New(nil)
	h := New(p, zerolog.Nop())
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)

	a := dial(t, srv)
	b := dial(t, srv)
	defer b.Close()
	send(t, a, Msg{Button: "center", Down: true})
	send(t, b, Msg{Button: "center", Down: true})
	send(t, b, Msg{Button: "right", Down: true})

	// Releasing a button this client does not hold changes nothing.
	assert.Equal(t, Reply{Input: uint32(buttons.Center | buttons.Right)}, send(t, a, Msg{Button: "right"}))

	require.NoError(t, a.Close())
	assert.Eventually(t, func() bool { return h.Clients() == 1 }, time.Second, time.Millisecond)
	assert.Equal(t, buttons.Center|buttons.Right, p.Input())

	assert.Equal(t, Reply{Input: uint32(buttons.Right)}, send(t, b, Msg{Button: "center"}))
}

func TestPage(t *testing.T) {
	srv := httptest.NewServer(Page("/stream", "/buttons"))
	t.Cleanup(srv.Close)
	resp, err := http.Get(srv.URL)
	require.NoError(t, err)
	defer resp.Body.Close()
	b, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, resp.Header.Get("Content-Type"), "text/html")
	assert.Contains(t, string(b), `src="/stream"`)
	assert.Contains(t, string(b), `"/buttons"`)
}

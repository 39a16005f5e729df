// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package ws lets a browser hold the simulated buttons over a websocket.
//
// Clients send {"button":"left","down":true} and get {"input":<mask>} back
// after every change. A button stays pressed while any client holds it, and a
// client's buttons are let go when it disconnects.
package ws

import (
	"encoding/json"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/GermanBionicSystems/oledrgb/buttons"
)

// Input is what the clients drive. *sim.Panel implements it.
type Input interface {
	Press(b buttons.Button)
	Release(b buttons.Button)
	Input() buttons.Button
}

// Msg is a client message.
type Msg struct {
	Button string `json:"button"`
	Down   bool   `json:"down"`
}

// Reply is sent back after every message.
type Reply struct {
	Input uint32 `json:"input"`
	Error string `json:"error,omitempty"`
}

// Handler serves the websocket endpoint.
type Handler struct {
	in  Input
	log zerolog.Logger
	up  websocket.Upgrader

	mu      sync.Mutex
	clients map[*websocket.Conn]struct{}
	holds   map[buttons.Button]int
}

// New returns a Handler driving in.
func New(in Input, log zerolog.Logger) *Handler {
	return &Handler{
		in:  in,
		log: log,
		// The page is served by the same process; any origin is accepted
		// so that it can also be opened from a file.
		up:      websocket.Upgrader{CheckOrigin: func(r *http.Request) bool { return true }},
		clients: map[*websocket.Conn]struct{}{},
		holds:   map[buttons.Button]int{},
	}
}

// hold presses b on behalf of one more client.
func (h *Handler) hold(b buttons.Button) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.holds[b]++
	if h.holds[b] == 1 {
		h.in.Press(b)
	}
}

// letGo drops one client's hold of b and releases it once nobody holds it.
func (h *Handler) letGo(b buttons.Button) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.holds[b] == 0 {
		return
	}
	h.holds[b]--
	if h.holds[b] == 0 {
		delete(h.holds, b)
		h.in.Release(b)
	}
}

// Clients returns the number of connected clients.
func (h *Handler) Clients() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

// Close disconnects every client.
func (h *Handler) Close() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	for c := range h.clients {
		_ = c.Close()
	}
	return nil
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := h.up.Upgrade(w, r, nil)
	if err != nil {
		h.log.Debug().Err(err).Msg("upgrade")
		return
	}
	h.mu.Lock()
	h.clients[conn] = struct{}{}
	h.mu.Unlock()
	log := h.log.With().Str("remote", r.RemoteAddr).Logger()
	log.Debug().Msg("client connected")

	var held buttons.Button
	defer func() {
		for _, b := range buttons.Priority {
			if held&b != 0 {
				h.letGo(b)
			}
		}
		h.mu.Lock()
		delete(h.clients, conn)
		h.mu.Unlock()
		_ = conn.Close()
		log.Debug().Msg("client gone")
	}()

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			return
		}
		var m Msg
		if err := json.Unmarshal(data, &m); err != nil {
			if err := conn.WriteJSON(Reply{Input: uint32(h.in.Input()), Error: err.Error()}); err != nil {
				return
			}
			continue
		}
		rep := Reply{}
		b, err := buttons.ParseButton(m.Button)
		if err != nil {
			rep.Error = err.Error()
		} else if m.Down {
			if held&b == 0 {
				h.hold(b)
				held |= b
			}
		} else if held&b != 0 {
			h.letGo(b)
			held &^= b
		}
		rep.Input = uint32(h.in.Input())
		if err := conn.WriteJSON(rep); err != nil {
			return
		}
	}
}

// Page serves a minimal control page showing the stream at streamPath and
// sending button events to wsPath.
func Page(streamPath, wsPath string) http.Handler {
	body := []byte(`<!DOCTYPE html>
<html><head><title>OLED RGB</title>
<style>
body{background:#1e3a1e;color:#ddd;font-family:sans-serif;text-align:center}
img{image-rendering:pixelated;width:384px;border:6px solid #111;border-radius:6px}
button{width:80px;height:80px;border-radius:40px;margin:16px;font-size:18px}
</style></head><body>
<p><img src="` + streamPath + `"></p>
<p><button data-b="left">L</button><button data-b="center">C</button><button data-b="right">R</button></p>
<pre id="state"></pre>
<script>
const ws = new WebSocket((location.protocol === "https:" ? "wss://" : "ws://") + location.host + "` + wsPath + `");
ws.onmessage = e => { document.getElementById("state").textContent = e.data; };
for (const el of document.querySelectorAll("button")) {
  const send = down => ws.send(JSON.stringify({button: el.dataset.b, down: down}));
  el.addEventListener("pointerdown", () => send(true));
  el.addEventListener("pointerup", () => send(false));
  el.addEventListener("pointerleave", () => send(false));
}
</script></body></html>
`)
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write(body)
	})
}

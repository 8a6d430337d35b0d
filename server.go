package smelt

import (
	"fmt"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
	channerics "github.com/niceyeti/channerics/channels"
)

// Time allowed to write a frame to the peer.
const observerWriteWait = time.Second

// ObserverServer streams rasterized snapshot frames to websocket clients on
// a fixed ticker. Each client reads whatever snapshot is current when its
// ticker fires; there is no backpressure toward the sim thread and dropped
// ticks are expected. The only client input is the view toggle.
type ObserverServer struct {
	log    Logger
	shared *Shared

	addr          string
	frameInterval time.Duration
	thermalRange  float32

	upgrader websocket.Upgrader
}

func NewObserverServer(cfg *Config, log Logger, shared *Shared) (*ObserverServer, error) {
	thermalRange, err := cfg.Float("thermal_view_range")
	if err != nil {
		return nil, err
	}
	if thermalRange <= 0 {
		return nil, fmt.Errorf("thermal_view_range must be positive, got %v", thermalRange)
	}

	return &ObserverServer{
		log:           log.Scoped("observer"),
		shared:        shared,
		addr:          cfg.StringOr("listen_addr", ":8080"),
		frameInterval: time.Duration(cfg.IntOr("frame_interval_ms", 50)) * time.Millisecond,
		thermalRange:  float32(thermalRange),
	}, nil
}

func (s *ObserverServer) Serve() error {
	r := mux.NewRouter()
	r.HandleFunc("/", s.serveIndex)
	r.HandleFunc("/ws", s.serveWebsocket)

	s.log.Infof("observer listening on %s", s.addr)
	if err := http.ListenAndServe(s.addr, r); err != nil {
		return fmt.Errorf("observer serve: %w", err)
	}
	return nil
}

func (s *ObserverServer) serveIndex(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	fmt.Fprint(w, observerIndexPage)
}

// observerHello is the first message on every websocket session.
type observerHello struct {
	Type         string `json:"type"`
	W            int    `json:"w"`
	H            int    `json:"h"`
	MaterialPack string `json:"material_pack"`
	ReactionPack string `json:"reaction_pack"`
}

// viewToggle is the only message a client may send.
type viewToggle struct {
	View string `json:"view"`
}

func (s *ObserverServer) serveWebsocket(w http.ResponseWriter, r *http.Request) {
	ws, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.Warnf("websocket upgrade: %v", err)
		return
	}
	defer ws.Close()

	var mode atomic.Int32
	done := make(chan struct{})

	// Read pump: consumes view toggles until the peer goes away. Closing
	// done stops the frame ticker below.
	go func() {
		defer close(done)
		for {
			var msg viewToggle
			if err := ws.ReadJSON(&msg); err != nil {
				return
			}
			switch msg.View {
			case "thermal":
				mode.Store(int32(ViewThermal))
			case "material":
				mode.Store(int32(ViewMaterial))
			}
		}
	}()

	hello := observerHello{
		Type:         "hello",
		W:            s.shared.Current().W,
		H:            s.shared.Current().H,
		MaterialPack: s.shared.MatDb.PackId.String(),
		ReactionPack: s.shared.ReactDb.PackId.String(),
	}
	if err := ws.WriteJSON(hello); err != nil {
		return
	}

	for range channerics.NewTicker(done, s.frameInterval) {
		snap := s.shared.Current()
		frame := EncodeFrame(snap, s.shared.MatDb, ViewMode(mode.Load()), s.thermalRange, s.shared.TickCount())

		ws.SetWriteDeadline(time.Now().Add(observerWriteWait)) //nolint:errcheck
		if err := ws.WriteJSON(frame); err != nil {
			return
		}
	}
}

const observerIndexPage = `<!DOCTYPE html>
<html>
<head><title>smelt</title>
<style>body{background:#101216;color:#ccc;font-family:monospace}canvas{image-rendering:pixelated;border:1px solid #333}</style>
</head>
<body>
<div>smelt observer &mdash; <span id="tick">tick 0</span> &mdash; press t to toggle thermal view</div>
<canvas id="view"></canvas>
<script>
const canvas = document.getElementById("view");
const ctx = canvas.getContext("2d");
const ws = new WebSocket("ws://" + location.host + "/ws");
let thermal = false;
document.addEventListener("keydown", (e) => {
  if (e.key !== "t") return;
  thermal = !thermal;
  ws.send(JSON.stringify({view: thermal ? "thermal" : "material"}));
});
ws.onmessage = (ev) => {
  const msg = JSON.parse(ev.data);
  if (msg.type === "hello") {
    canvas.width = msg.w;
    canvas.height = msg.h;
    canvas.style.width = (msg.w * 8) + "px";
    return;
  }
  document.getElementById("tick").textContent = "tick " + msg.tick;
  const bytes = Uint8ClampedArray.from(atob(msg.pixels), c => c.charCodeAt(0));
  ctx.putImageData(new ImageData(bytes, msg.w, msg.h), 0, 0);
};
</script>
</body>
</html>
`

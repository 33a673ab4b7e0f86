package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"image"
	"image/png"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
	"golang.org/x/image/draw"

	"github.com/viewcell/engine-bridge/bridge"
	"github.com/viewcell/engine-bridge/input"
	"github.com/viewcell/engine-bridge/surface"
)

// Config configures a viewer server.
type Config struct {
	// Addr is the listen address, e.g. ":8089".
	Addr string

	// Handle is the live instance viewer touches are injected into.
	Handle bridge.Handle

	// Pixels is the host-owned surface store frames are snapshotted from.
	Pixels *surface.Pixels

	// FPS is the downstream frame rate. 0 means 15.
	FPS int

	// MaxWidth downscales streamed frames wider than this. 0 disables
	// downscaling.
	MaxWidth int
}

// Server mirrors one embedded instance to websocket viewers.
type Server struct {
	cfg      Config
	upgrader websocket.Upgrader
	server   *http.Server
	sessions sync.Map
}

// New creates a viewer server. Serve or Start it afterwards.
func New(cfg Config) *Server {
	if cfg.FPS <= 0 {
		cfg.FPS = 15
	}
	return &Server{
		cfg: cfg,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
}

// Start listens on the configured address until ctx is canceled. It
// blocks, mirroring http.Server.ListenAndServe; cancellation shuts the
// server down and returns nil.
func (s *Server) Start(ctx context.Context) error {
	mux := http.NewServeMux()
	mux.HandleFunc("/view", s.HandleView)

	s.server = &http.Server{Addr: s.cfg.Addr, Handler: mux}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		s.server.Shutdown(shutdownCtx)
	}()

	Logger().Info("viewer listening", zap.String("addr", s.cfg.Addr))
	if err := s.server.ListenAndServe(); err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Stop shuts the server down, closing viewer connections.
func (s *Server) Stop(ctx context.Context) error {
	s.sessions.Range(func(_, val any) bool {
		val.(*websocket.Conn).Close()
		return true
	})
	if s.server != nil {
		return s.server.Shutdown(ctx)
	}
	return nil
}

// HandleView upgrades one viewer connection and runs its frame and touch
// loops until it disconnects.
func (s *Server) HandleView(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		Logger().Error("viewer upgrade failed", zap.Error(err))
		return
	}

	sessionID := uuid.New().String()
	s.sessions.Store(sessionID, conn)
	Logger().Info("viewer connected",
		zap.String("session", sessionID),
		zap.String("remote", r.RemoteAddr))

	defer func() {
		conn.Close()
		s.sessions.Delete(sessionID)
		Logger().Info("viewer disconnected", zap.String("session", sessionID))
	}()

	stop := make(chan struct{})
	go s.frameLoop(conn, sessionID, stop)
	s.touchLoop(conn, sessionID)
	close(stop)
}

// frameLoop streams PNG snapshots downstream at the configured rate until
// the connection breaks or the touch loop ends.
func (s *Server) frameLoop(conn *websocket.Conn, sessionID string, stop <-chan struct{}) {
	ticker := time.NewTicker(time.Second / time.Duration(s.cfg.FPS))
	defer ticker.Stop()

	var writeMu sync.Mutex
	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			frame, err := s.encodeFrame()
			if err != nil {
				Logger().Warn("frame encode failed",
					zap.String("session", sessionID),
					zap.Error(err))
				continue
			}
			writeMu.Lock()
			err = conn.WriteMessage(websocket.BinaryMessage, frame)
			writeMu.Unlock()
			if err != nil {
				Logger().Warn("viewer write failed",
					zap.String("session", sessionID),
					zap.Error(err))
				return
			}
		}
	}
}

// encodeFrame snapshots the surface, downscales when configured, and
// PNG-encodes the result.
func (s *Server) encodeFrame() ([]byte, error) {
	pix, w, h := s.cfg.Pixels.Snapshot()
	img := &image.RGBA{
		Pix:    pix,
		Stride: int(w) * 4,
		Rect:   image.Rect(0, 0, int(w), int(h)),
	}

	var out image.Image = img
	if s.cfg.MaxWidth > 0 && int(w) > s.cfg.MaxWidth {
		scale := float64(s.cfg.MaxWidth) / float64(w)
		dst := image.NewRGBA(image.Rect(0, 0, s.cfg.MaxWidth, int(float64(h)*scale)))
		draw.ApproxBiLinear.Scale(dst, dst.Bounds(), img, img.Bounds(), draw.Src, nil)
		out = dst
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, out); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// touchMessage is one upstream viewer event.
type touchMessage struct {
	Phase uint8   `json:"phase"`
	X     float32 `json:"x"`
	Y     float32 `json:"y"`
	ID    uint64  `json:"id"`
}

// touchLoop reads viewer touch JSON and forwards it through the bridge,
// applying the same multi-touch fan-out platform hosts use. Malformed
// messages are logged and skipped.
func (s *Server) touchLoop(conn *websocket.Conn, sessionID string) {
	tracker := input.NewTracker()
	for {
		_, payload, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				Logger().Warn("viewer read error",
					zap.String("session", sessionID),
					zap.Error(err))
			}
			return
		}

		var msg touchMessage
		if err := json.Unmarshal(payload, &msg); err != nil {
			Logger().Warn("malformed viewer touch",
				zap.String("session", sessionID),
				zap.Int("bytes", len(payload)),
				zap.Error(err))
			continue
		}

		phase, ok := input.PhaseFromByte(msg.Phase)
		if !ok {
			Logger().Warn("viewer touch with unknown phase",
				zap.String("session", sessionID),
				zap.Uint8("phase", msg.Phase))
			continue
		}

		var events []input.Touch
		switch phase {
		case input.PhaseStarted:
			events = tracker.Down(msg.ID, msg.X, msg.Y)
		case input.PhaseMoved:
			events = tracker.Move(msg.ID, msg.X, msg.Y)
		case input.PhaseEnded:
			events = tracker.Up(msg.ID, msg.X, msg.Y)
		case input.PhaseCanceled:
			events = tracker.Cancel(msg.ID, msg.X, msg.Y)
		}
		for _, ev := range events {
			bridge.TouchEvent(s.cfg.Handle, ev.Phase, ev.X, ev.Y, ev.ID)
		}
	}
}

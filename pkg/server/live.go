package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/goliatone/go-leadform/pkg/eventloop"
	"github.com/goliatone/go-leadform/pkg/format"
	"github.com/goliatone/go-leadform/pkg/forms"
	"github.com/goliatone/go-leadform/pkg/lifecycle"
	"github.com/goliatone/go-leadform/pkg/notify"
)

// Live frame types.
const (
	FrameChange = "change"
	FrameDate   = "date"
	FrameSubmit = "submit"
	FrameReset  = "reset"
	FrameState  = "state"
	FrameToast  = "toast"
	FrameError  = "error"
)

const (
	liveWriteWait = 10 * time.Second
	liveReadLimit = 64 << 10
)

// ClientFrame is sent by the browser.
type ClientFrame struct {
	Type  string `json:"type"`
	Field string `json:"field,omitempty"`
	Value string `json:"value,omitempty"`
}

// ServerFrame is sent to the browser: the form state after every change, a
// toast when the lifecycle announces an outcome, or an error for a frame
// that could not be applied.
type ServerFrame struct {
	Type         string               `json:"type"`
	State        *forms.Snapshot      `json:"state,omitempty"`
	Notification *notify.Notification `json:"notification,omitempty"`
	Error        string               `json:"error,omitempty"`
}

type liveSession struct {
	conn     *websocket.Conn
	logger   zerolog.Logger
	location *time.Location

	writeMu sync.Mutex
	ctrl    *lifecycle.Controller
}

// handleLive upgrades to a websocket and runs one engine, event loop and
// lifecycle controller for the lifetime of the connection.
func (s *Server) handleLive(w http.ResponseWriter, r *http.Request) {
	def, err := s.lookup(chi.URLParam(r, "id"))
	if err != nil {
		writeTextError(w, r, err)
		return
	}
	engine, err := s.newEngine(def)
	if err != nil {
		writeTextError(w, r, err)
		return
	}

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// The upgrader already replied.
		zerolog.Ctx(r.Context()).Warn().Err(err).Msg("live upgrade failed")
		return
	}
	defer conn.Close()
	conn.SetReadLimit(liveReadLimit)

	s.metrics.liveSessions.Inc()
	defer s.metrics.liveSessions.Dec()

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()
	stopClose := context.AfterFunc(ctx, func() { _ = conn.Close() })
	defer stopClose()

	logger := zerolog.Ctx(r.Context()).With().Str("form", def.ID).Logger()
	sess := &liveSession{conn: conn, logger: logger, location: s.opts.Location}
	defer s.trackLive(sess, cancel)()

	loop := eventloop.New()
	ctrl, err := lifecycle.New(engine, loop,
		lifecycle.WithGateway(s.gateway),
		lifecycle.WithNotifier(notify.Multi(notify.Func(sess.toast), notify.NewLogNotifier(logger))),
		lifecycle.WithTimings(s.opts.Timings),
		lifecycle.WithFailureMessage(s.opts.FailureMessage),
		lifecycle.WithClock(s.opts.Now),
		lifecycle.WithLogger(logger),
		lifecycle.WithContext(ctx),
		lifecycle.OnChange(sess.state),
	)
	if err != nil {
		logger.Error().Err(err).Msg("live session setup failed")
		return
	}
	sess.ctrl = ctrl

	loopDone := make(chan struct{})
	go func() {
		defer close(loopDone)
		_ = loop.Run(ctx)
	}()
	defer func() {
		cancel()
		<-loopDone
	}()

	logger.Debug().Msg("live session opened")
	snap, err := ctrl.Snapshot(ctx)
	if err != nil {
		return
	}
	sess.state(snap)
	sess.serve(ctx, s.metrics)
	logger.Debug().Msg("live session closed")
}

func (s *Server) trackLive(sess *liveSession, cancel context.CancelFunc) func() {
	s.liveMu.Lock()
	s.live[sess] = cancel
	s.liveMu.Unlock()
	return func() {
		s.liveMu.Lock()
		delete(s.live, sess)
		s.liveMu.Unlock()
	}
}

// CloseLive ends every open live session. In-flight submissions are
// cancelled with them.
func (s *Server) CloseLive() {
	s.liveMu.Lock()
	defer s.liveMu.Unlock()
	for _, cancel := range s.live {
		cancel()
	}
}

func (l *liveSession) serve(ctx context.Context, metrics *httpMetrics) {
	for {
		var frame ClientFrame
		if err := l.conn.ReadJSON(&frame); err != nil {
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				l.logger.Debug().Err(err).Msg("live read")
			}
			return
		}
		metrics.liveFrames.WithLabelValues(frameLabel(frame.Type)).Inc()
		if err := l.apply(ctx, frame); err != nil {
			if ctx.Err() != nil {
				return
			}
			l.send(ServerFrame{Type: FrameError, Error: err.Error()})
		}
	}
}

// apply runs one client frame on the controller. Rejected input and blocked
// submits answer with the unchanged state so the client can revert.
func (l *liveSession) apply(ctx context.Context, frame ClientFrame) error {
	var err error
	switch frame.Type {
	case FrameChange:
		err = l.ctrl.Change(ctx, frame.Field, frame.Value)
	case FrameDate:
		var date *time.Time
		if frame.Value != "" {
			day, parseErr := format.ParseISODate(frame.Value, l.location)
			if parseErr != nil {
				return parseErr
			}
			date = &day
		}
		err = l.ctrl.ChangeDate(ctx, frame.Field, date)
	case FrameSubmit:
		err = l.ctrl.Submit(ctx)
		if errors.Is(err, forms.ErrInvalid) {
			// The controller already emitted the errors.
			return nil
		}
	case FrameReset:
		err = l.ctrl.Reset(ctx)
	default:
		return fmt.Errorf("server: unknown frame type %q", frame.Type)
	}

	switch {
	case err == nil:
		return nil
	case errors.Is(err, forms.ErrRejectedInput),
		errors.Is(err, forms.ErrFormEmpty),
		errors.Is(err, forms.ErrSubmitInFlight):
		snap, snapErr := l.ctrl.Snapshot(ctx)
		if snapErr != nil {
			return snapErr
		}
		l.state(snap)
		return nil
	default:
		return err
	}
}

func (l *liveSession) state(snap forms.Snapshot) {
	l.send(ServerFrame{Type: FrameState, State: &snap})
}

func (l *liveSession) toast(_ context.Context, n notify.Notification) {
	n = notify.Normalize(n)
	l.send(ServerFrame{Type: FrameToast, Notification: &n})
}

func (l *liveSession) send(frame ServerFrame) {
	l.writeMu.Lock()
	defer l.writeMu.Unlock()
	_ = l.conn.SetWriteDeadline(time.Now().Add(liveWriteWait))
	if err := l.conn.WriteJSON(frame); err != nil {
		l.logger.Debug().Err(err).Str("frame", frame.Type).Msg("live write")
	}
}

func frameLabel(kind string) string {
	switch kind {
	case FrameChange, FrameDate, FrameSubmit, FrameReset:
		return kind
	default:
		return "unknown"
	}
}

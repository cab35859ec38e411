package engine

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/etwodev/srvconf/pkg/handler"
	srvlog "github.com/etwodev/srvconf/pkg/log"
	"github.com/google/uuid"
	"github.com/panjf2000/gnet/v2"
	"github.com/rs/zerolog"
)

// connState is attached to every accepted connection. Connections refused
// in OnOpen never get one.
type connState struct {
	id     uuid.UUID
	opened time.Time
}

// Server is a gnet event handler that enforces a Plan: the connection and
// rate gates on open, and the client timeout for connections that never
// send anything.
type Server struct {
	gnet.BuiltinEventEngine

	plan    *Plan
	handler handler.HandlerFunc
	log     zerolog.Logger
	metrics *Metrics
	now     func() time.Time

	engine gnet.Engine
	booted chan struct{}

	active atomic.Int64
	rate   rateWindow

	mu     sync.Mutex
	silent map[gnet.Conn]time.Time // accepted, no inbound bytes yet
}

// NewServer builds a Server for plan. A nil metrics gets unregistered
// collectors.
//
// Example usage:
//
//	srv := engine.NewServer(plan, handler.Echo, logger, metrics)
//	err := srv.Run(ctx)
func NewServer(plan *Plan, h handler.HandlerFunc, log zerolog.Logger, metrics *Metrics) *Server {
	if metrics == nil {
		metrics, _ = NewMetrics(nil)
	}
	return &Server{
		plan:    plan,
		handler: h,
		log:     log,
		metrics: metrics,
		now:     time.Now,
		booted:  make(chan struct{}),
		rate:    rateWindow{limit: plan.MaxConnectionRate},
		silent:  make(map[gnet.Conn]time.Time),
	}
}

// Active returns the number of open accepted connections.
func (s *Server) Active() int64 {
	return s.active.Load()
}

// Run serves until ctx is done, then stops the engine and gives in-flight
// work the plan's shutdown timeout to finish.
func (s *Server) Run(ctx context.Context) error {
	for _, name := range s.plan.Unsupported {
		s.log.Warn().Str("setting", name).Msg("setting is not supported by the engine and is ignored")
	}

	opts := append(s.plan.Options(), gnet.WithLogger(srvlog.Gnet{Logger: s.log}))
	errs := make(chan error, 1)
	go func() {
		errs <- gnet.Rotate(s, s.plan.Addrs, opts...)
	}()

	select {
	case err := <-errs:
		if err != nil {
			return fmt.Errorf("Run: engine exited: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	select {
	case <-s.booted:
	case err := <-errs:
		return err
	}

	stopCtx, cancel := context.WithTimeout(context.Background(), s.plan.ShutdownTimeout)
	defer cancel()

	s.log.Info().Dur("timeout", s.plan.ShutdownTimeout).Msg("stopping engine")
	if err := s.engine.Stop(stopCtx); err != nil {
		return fmt.Errorf("Run: failed stopping engine: %w", err)
	}
	return <-errs
}

func (s *Server) OnBoot(eng gnet.Engine) gnet.Action {
	s.engine = eng
	close(s.booted)
	s.log.Info().
		Strs("addrs", s.plan.Addrs).
		Int64("max_connections", s.plan.MaxConnections).
		Int64("max_connection_rate", s.plan.MaxConnectionRate).
		Msg("engine started")
	return gnet.None
}

func (s *Server) OnOpen(c gnet.Conn) ([]byte, gnet.Action) {
	if s.active.Load() >= s.plan.MaxConnections {
		s.metrics.Rejected.WithLabelValues(ReasonMaxConnections).Inc()
		s.log.Warn().Str("remote", remote(c)).Msg("max connections reached, refusing connection")
		return nil, gnet.Close
	}

	now := s.now()
	if !s.rate.allow(now) {
		s.metrics.Rejected.WithLabelValues(ReasonRate).Inc()
		s.log.Warn().Str("remote", remote(c)).Msg("connection rate exceeded, refusing connection")
		return nil, gnet.Close
	}

	st := &connState{id: uuid.New(), opened: now}
	c.SetContext(st)
	s.active.Add(1)
	s.metrics.Active.Inc()
	s.metrics.Accepted.Inc()

	s.mu.Lock()
	s.silent[c] = now
	s.mu.Unlock()

	s.log.Debug().Str("conn", st.id.String()).Str("remote", remote(c)).Msg("connection opened")
	return nil, gnet.None
}

func (s *Server) OnClose(c gnet.Conn, err error) gnet.Action {
	st, ok := c.Context().(*connState)
	if !ok {
		return gnet.None
	}

	s.mu.Lock()
	delete(s.silent, c)
	s.mu.Unlock()

	s.active.Add(-1)
	s.metrics.Active.Dec()

	event := s.log.Debug().Str("conn", st.id.String()).Dur("lifetime", s.now().Sub(st.opened))
	if err != nil {
		event = event.Err(err)
	}
	event.Msg("connection closed")
	return gnet.None
}

func (s *Server) OnTraffic(c gnet.Conn) gnet.Action {
	s.mu.Lock()
	delete(s.silent, c)
	s.mu.Unlock()

	buf, err := c.Next(-1)
	if err != nil {
		s.log.Warn().
			Err(err).
			Str("remote", remote(c)).
			Msg("failed to read from connection")
		return gnet.Close
	}
	return s.handler(c, buf)
}

// OnTick closes connections that stayed silent past the client timeout.
// A zero timeout disables the sweep.
func (s *Server) OnTick() (time.Duration, gnet.Action) {
	if s.plan.ClientTimeout <= 0 {
		return time.Second, gnet.None
	}
	for _, c := range s.expired(s.now()) {
		s.metrics.Rejected.WithLabelValues(ReasonClientTimeout).Inc()
		s.log.Debug().Str("remote", remote(c)).Msg("client timeout, closing connection")
		_ = c.CloseWithCallback(nil)
	}
	return sweepInterval(s.plan.ClientTimeout), gnet.None
}

// expired removes and returns the connections opened at or before
// now - ClientTimeout that have not sent anything.
func (s *Server) expired(now time.Time) []gnet.Conn {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []gnet.Conn
	for c, opened := range s.silent {
		if now.Sub(opened) >= s.plan.ClientTimeout {
			out = append(out, c)
			delete(s.silent, c)
		}
	}
	return out
}

func sweepInterval(timeout time.Duration) time.Duration {
	d := timeout / 4
	if d < 10*time.Millisecond {
		return 10 * time.Millisecond
	}
	if d > time.Second {
		return time.Second
	}
	return d
}

func remote(c gnet.Conn) string {
	if addr := c.RemoteAddr(); addr != nil {
		return addr.String()
	}
	return ""
}

package engine

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/etwodev/srvconf/pkg/config"
	"github.com/panjf2000/gnet/v2"
)

var (
	// ErrTLSNotImplemented is returned by NewPlan for settings with ssl.enabled.
	ErrTLSNotImplemented = errors.New("engine: tls is not implemented")

	// ErrOutOfRange is wrapped when a manual count does not fit the binding.
	ErrOutOfRange = errors.New("value out of range")
)

// Values used when a setting is "default".
const (
	DefaultMaxConnections    = 25000
	DefaultMaxConnectionRate = 256
	DefaultClientTimeout     = 5 * time.Second
	DefaultShutdownTimeout   = 30 * time.Second
)

// Plan is the resolved form of a Settings value: every "default" replaced by
// a concrete number and every listener rendered as a gnet address.
type Plan struct {
	Addrs             []string
	Multicore         bool
	NumEventLoop      int // 0 lets gnet pick one loop per logical CPU
	MaxConnections    int64
	MaxConnectionRate int64 // new connections per second
	KeepAlive         time.Duration
	ClientTimeout     time.Duration
	ShutdownTimeout   time.Duration

	// Unsupported names the settings that carry a manual value gnet has no
	// knob for. They are accepted and reported, never applied.
	Unsupported []string
}

// NewPlan resolves s. It fails for TLS and for settings without a listener.
func NewPlan[X any](s *config.Settings[X]) (*Plan, error) {
	if s.Ssl.Enabled {
		return nil, ErrTLSNotImplemented
	}
	if len(s.Hosts) == 0 {
		return nil, fmt.Errorf("NewPlan: no hosts to listen on")
	}

	p := &Plan{
		Multicore:         true,
		MaxConnections:    DefaultMaxConnections,
		MaxConnectionRate: DefaultMaxConnectionRate,
		ClientTimeout:     DefaultClientTimeout,
		ShutdownTimeout:   DefaultShutdownTimeout,
	}

	for _, addr := range s.Hosts {
		p.Addrs = append(p.Addrs, "tcp://"+addr.HostPort())
	}

	if n, ok := s.NumWorkers.Manual(); ok {
		if n > math.MaxInt {
			return nil, outOfRange("num-workers", n)
		}
		if n <= 1 {
			p.Multicore = false
		} else {
			p.NumEventLoop = int(n)
		}
	}
	if n, ok := s.MaxConnections.Manual(); ok {
		if n > math.MaxInt64 {
			return nil, outOfRange("max-connections", n)
		}
		p.MaxConnections = int64(n)
	}
	if n, ok := s.MaxConnectionRate.Manual(); ok {
		if n > math.MaxInt64 {
			return nil, outOfRange("max-connection-rate", n)
		}
		p.MaxConnectionRate = int64(n)
	}

	// "0 seconds" resolves to 0 like "disabled": no keep-alive option is set.
	d, err := s.KeepAlive.Duration()
	if err != nil {
		return nil, fmt.Errorf("NewPlan: keep-alive: %w", err)
	}
	p.KeepAlive = d

	for _, t := range []struct {
		key string
		src config.Timeout
		dst *time.Duration
	}{
		{"client-timeout", s.ClientTimeout, &p.ClientTimeout},
		{"shutdown-timeout", s.ShutdownTimeout, &p.ShutdownTimeout},
	} {
		if t.src.IsDefault() {
			continue
		}
		d, err := t.src.Duration()
		if err != nil {
			return nil, fmt.Errorf("NewPlan: %s: %w", t.key, err)
		}
		*t.dst = d
	}

	if _, ok := s.Backlog.Manual(); ok {
		p.Unsupported = append(p.Unsupported, "backlog")
	}
	if !s.ClientShutdown.IsDefault() {
		p.Unsupported = append(p.Unsupported, "client-shutdown")
	}
	return p, nil
}

// Options converts the plan into gnet options. The ticker is always on
// because the client timeout sweep runs from OnTick.
func (p *Plan) Options() []gnet.Option {
	opts := []gnet.Option{
		gnet.WithMulticore(p.Multicore),
		gnet.WithTicker(true),
	}
	if p.NumEventLoop > 0 {
		opts = append(opts, gnet.WithNumEventLoop(p.NumEventLoop))
	}
	if p.KeepAlive > 0 {
		opts = append(opts, gnet.WithTCPKeepAlive(p.KeepAlive))
	}
	return opts
}

func outOfRange(key string, n uint64) error {
	return fmt.Errorf("NewPlan: %s %d: %w", key, n, ErrOutOfRange)
}

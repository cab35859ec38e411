package middleware

import (
	"time"

	"github.com/etwodev/srvconf/pkg/handler"
	"github.com/panjf2000/gnet/v2"
	"github.com/rs/zerolog"
)

type logging struct {
	enabled bool
	log     zerolog.Logger
}

// NewLogging returns a middleware that logs every handled read at debug
// level. It is active only when enabled is true, which the CLI ties to the
// enable-log setting.
func NewLogging(enabled bool, log zerolog.Logger) Middleware {
	return logging{enabled: enabled, log: log}
}

func (l logging) Name() string       { return "logging" }
func (l logging) Status() bool       { return l.enabled }
func (l logging) Experimental() bool { return false }

func (l logging) Method() func(handler.HandlerFunc) handler.HandlerFunc {
	return func(next handler.HandlerFunc) handler.HandlerFunc {
		return func(conn gnet.Conn, body []byte) gnet.Action {
			start := time.Now()
			action := next(conn, body)

			event := l.log.Debug().
				Int("bytes", len(body)).
				Dur("took", time.Since(start))
			if addr := conn.RemoteAddr(); addr != nil {
				event = event.Str("remote", addr.String())
			}
			event.Msg("handled traffic")
			return action
		}
	}
}

package log

import (
	"github.com/panjf2000/gnet/v2/pkg/logging"
	"github.com/rs/zerolog"
)

var _ logging.Logger = Gnet{}

// Gnet routes gnet's internal logging through a zerolog logger.
type Gnet struct {
	Logger zerolog.Logger
}

func (g Gnet) Debugf(format string, args ...any) { g.Logger.Debug().Msgf(format, args...) }

func (g Gnet) Infof(format string, args ...any) { g.Logger.Info().Msgf(format, args...) }

func (g Gnet) Warnf(format string, args ...any) { g.Logger.Warn().Msgf(format, args...) }

func (g Gnet) Errorf(format string, args ...any) { g.Logger.Error().Msgf(format, args...) }

func (g Gnet) Fatalf(format string, args ...any) { g.Logger.Fatal().Msgf(format, args...) }

package presets

import (
	"fmt"
	"github.com/rs/zerolog"
)

// ZerologLogger adapts a zerolog.Logger to the rcon.Logger interface.
type ZerologLogger struct {
	Logger zerolog.Logger
}

func NewZerologLogger(logger zerolog.Logger) *ZerologLogger {
	return &ZerologLogger{Logger: logger.With().Str("component", "rcon").Logger()}
}

func (zl *ZerologLogger) Info(args ...interface{}) {
	zl.Logger.Info().Msg(fmt.Sprint(args...))
}

func (zl *ZerologLogger) Error(args ...interface{}) {
	zl.Logger.Error().Msg(fmt.Sprint(args...))
}

func (zl *ZerologLogger) Debug(args ...interface{}) {
	// Skip formatting when debug output is disabled.
	if e := zl.Logger.Debug(); e.Enabled() {
		e.Msg(fmt.Sprint(args...))
	}
}

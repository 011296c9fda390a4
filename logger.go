package rcon

// Logger receives the client's diagnostic output. presets.ZerologLogger is a ready-made implementation.
type Logger interface {
	Info(args ...interface{})
	Error(args ...interface{})
	Debug(args ...interface{})
}

// DefaultLogger discards everything.
type DefaultLogger struct{}

func (dl *DefaultLogger) Info(args ...interface{})  {}
func (dl *DefaultLogger) Error(args ...interface{}) {}
func (dl *DefaultLogger) Debug(args ...interface{}) {}

package cli

import "go.uber.org/zap"

// agentLogger wraps zap for verbose debug output. Disabled unless the user
// asked for --verbose, so the zero-value methods are cheap no-ops.
type agentLogger struct {
	sugared *zap.SugaredLogger
}

func newAgentLogger(globals *Globals) *agentLogger {
	if globals == nil || !globals.Verbose {
		return &agentLogger{}
	}
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
	cfg.Encoding = "json"
	logger, _ := cfg.Build()
	return &agentLogger{sugared: logger.Sugar()}
}

func (l *agentLogger) Debug(format string, args ...interface{}) {
	if l.sugared == nil {
		return
	}
	l.sugared.Debugf(format, args...)
}

// Sugared exposes the underlying logger for components that take one
// directly. Nil when verbose logging is off.
func (l *agentLogger) Sugared() *zap.SugaredLogger {
	return l.sugared
}

package charmm

import "go.uber.org/zap"

// The library logs overrides, misses and tally problems rather than failing
// on them, so the logger matters: it is the only trace of a "last loaded
// wins" collision. By default nothing is emitted; programs that care call
// SetLogger (the charmmtop command installs a development logger).
var log = zap.NewNop().Sugar()

// SetLogger replaces the package logger. Passing nil restores the no-op
// logger.
func SetLogger(l *zap.SugaredLogger) {
	if l == nil {
		log = zap.NewNop().Sugar()
		return
	}
	log = l
}

// Logger returns the current package logger, so subpackages log through
// the same sink.
func Logger() *zap.SugaredLogger {
	return log
}

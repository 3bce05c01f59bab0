package monitoring

import "log"

// Logf is the package-level operational logger. It defaults to log.Printf
// and may be replaced by SetLogger.
var Logf func(format string, v ...interface{}) = log.Printf

// Debugf traces per-tick navigation decisions. It is silent until
// SetDebugLogger installs a sink, since at 10 Hz it would drown Logf.
var Debugf func(format string, v ...interface{}) = func(string, ...interface{}) {}

// SetLogger replaces Logf. Passing nil installs a no-op logger.
func SetLogger(f func(format string, v ...interface{})) {
	Logf = orNoop(f)
}

// SetDebugLogger replaces Debugf. Passing nil silences the decision trace.
func SetDebugLogger(f func(format string, v ...interface{})) {
	Debugf = orNoop(f)
}

func orNoop(f func(format string, v ...interface{})) func(string, ...interface{}) {
	if f == nil {
		return func(string, ...interface{}) {}
	}
	return f
}

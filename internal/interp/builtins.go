package interp

import "time"

// clockEpoch lets tests and the optional .loxconfig.yaml override the
// reference point clock() measures from; the zero value means the real
// Unix epoch.
var clockEpoch time.Time

// SetClockEpoch sets the reference point clock() measures elapsed seconds
// from. Passing the zero Time restores the default (real Unix epoch); any
// other value is typically time.Now() captured at startup, so clock()
// returns seconds since the process started rather than wall-clock time,
// for deterministic golden-file tests. This is a package-level setting,
// not per-Interpreter, since clock() is a single shared native function.
func SetClockEpoch(t time.Time) {
	clockEpoch = t
}

// defineGlobals installs the built-in native functions into env. Lox's
// only standard library entry is clock(), arity 0, returning the number of
// seconds (with sub-second precision) since the epoch.
func defineGlobals(env *Environment) {
	env.Define("clock", &NativeFunction{
		name:  "clock",
		arity: 0,
		fn: func(_ *Interpreter, _ []Value) (Value, error) {
			epoch := clockEpoch
			if epoch.IsZero() {
				return float64(time.Now().UnixNano()) / 1e9, nil
			}
			return time.Since(epoch).Seconds(), nil
		},
	})
}

package cotask

import (
	"github.com/joeycumines/izerolog"
	"github.com/joeycumines/logiface"
	"github.com/rs/zerolog"
)

// Logger is the structured, leveled logger handle shared by the
// scheduler and the completion backend. It is a type alias for
// logiface's type-erased logger handle, so callers configure a
// concrete backend (e.g. zerolog, via github.com/joeycumines/izerolog)
// once and pass the result in via [WithLogger], without this package
// needing to be generic over the backend's event type.
//
// The zero value obtained from a [Logger] with no options configured
// is a disabled logger: it never panics and never allocates on a
// disabled level, so omitting [WithLogger] costs nothing.
type Logger = *logiface.Logger[logiface.Event]

// disabledLogger returns a Logger that discards everything.
func disabledLogger() Logger {
	return logiface.New[logiface.Event]()
}

// NewZerologLogger adapts an existing zerolog.Logger into the
// [Logger] handle the scheduler expects, via
// github.com/joeycumines/izerolog. This is the recommended way to get
// structured output out of a [Scheduler]; pass the result to
// [WithLogger].
func NewZerologLogger(zl zerolog.Logger) Logger {
	return logiface.New[*izerolog.Event](izerolog.WithZerolog(zl)).Logger()
}

package log

import "go.uber.org/zap"

func streamField(stream string) zap.Field {
	return zap.String("stream", stream)
}

// Level selects the log level a line sink writes at.
type Level int

// Sink levels.
const (
	LevelInfo Level = iota
	LevelError
)

// LineSink adapts the logger into a per-line callback for subprocess
// output. Every line of the child's stream becomes one log entry with
// the stream name attached; nothing from the child ever reaches the
// wrapper's own console directly.
//
// Returned values are plain funcs so the splitter package does not
// depend on this one.
func (l *Logger) LineSink(stream string, level Level) func(line string) {
	switch level {
	case LevelError:
		return func(line string) {
			l.zap.Error(line, streamField(stream))
		}
	default:
		return func(line string) {
			l.zap.Info(line, streamField(stream))
		}
	}
}

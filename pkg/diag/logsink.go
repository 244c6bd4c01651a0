package diag

import "github.com/charmbracelet/log"

// LogSink narrates events through a charmbracelet logger at warn level with
// structured keys. Kind-irrelevant fields are omitted from the output.
type LogSink struct {
	logger *log.Logger
}

// NewLogSink wraps the logger; a nil logger falls back to log.Default().
func NewLogSink(logger *log.Logger) *LogSink {
	if logger == nil {
		logger = log.Default()
	}
	return &LogSink{logger: logger}
}

// Emit logs the event.
func (s *LogSink) Emit(e Event) {
	kv := make([]any, 0, 12)
	if e.Fragment != "" {
		kv = append(kv, "fragment", e.Fragment)
	}
	if e.Control != "" {
		kv = append(kv, "control", e.Control)
	}
	if e.Section != "" {
		kv = append(kv, "section", e.Section)
	}
	if e.Token != "" {
		kv = append(kv, "token", e.Token)
	}
	switch e.Kind {
	case KindOrphanedControl, KindSuppressedColumnConflict:
		kv = append(kv, "row", e.Row, "column", e.Column)
	case KindSectionRowUnmapped:
		kv = append(kv, "row", e.Row)
	}
	msg := string(e.Kind)
	if e.Detail != "" {
		msg = e.Detail
	}
	s.logger.Warn(msg, kv...)
}

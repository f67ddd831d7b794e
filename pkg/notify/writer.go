package notify

import (
	"context"
	"fmt"
	"io"
	"sync"
)

// WriterNotifier prints notifications as single lines, for terminal hosts.
type WriterNotifier struct {
	mu  sync.Mutex
	out io.Writer
}

// NewWriterNotifier writes to out.
func NewWriterNotifier(out io.Writer) *WriterNotifier {
	return &WriterNotifier{out: out}
}

func (w *WriterNotifier) Announce(_ context.Context, n Notification) {
	if w == nil || w.out == nil {
		return
	}
	n = normalize(n)

	w.mu.Lock()
	defer w.mu.Unlock()
	_, _ = fmt.Fprintf(w.out, "%s %s\n", marker(n.Level), n.Message)
}

func marker(level Level) string {
	switch level {
	case LevelSuccess:
		return "[ok]"
	case LevelError:
		return "[error]"
	case LevelWarning:
		return "[warn]"
	default:
		return "[info]"
	}
}

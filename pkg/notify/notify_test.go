package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/rs/zerolog"
)

func TestDefaultOptions(t *testing.T) {
	want := Options{
		Position:        PositionTopRight,
		AutoClose:       3500 * time.Millisecond,
		AutoCloseMillis: 3500,
		CloseOnClick:    true,
		PauseOnHover:    true,
		Draggable:       true,
	}
	if diff := cmp.Diff(want, Success("done").Options); diff != "" {
		t.Fatalf("options mismatch (-want +got):\n%s", diff)
	}
}

func TestNotification_JSON(t *testing.T) {
	raw, err := json.Marshal(Success("We have received your request."))
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var got map[string]any
	if err := json.Unmarshal(raw, &got); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	opts := got["options"].(map[string]any)
	if got["level"] != "success" || opts["autoClose"] != float64(3500) || opts["position"] != "top-right" {
		t.Fatalf("unexpected payload %s", raw)
	}
}

func TestNormalize_FillsDefaults(t *testing.T) {
	n := Normalize(Notification{Message: "hi"})
	if n.Level != LevelInfo || n.Options.Position != PositionTopRight || n.Options.AutoClose != DefaultAutoClose {
		t.Fatalf("unexpected normalized notification %+v", n)
	}
	n = Normalize(Notification{Message: "hi", Options: Options{AutoCloseMillis: 1000}})
	if n.Options.AutoClose != time.Second {
		t.Fatalf("millis should seed duration, got %v", n.Options.AutoClose)
	}
}

func TestMulti(t *testing.T) {
	var got []string
	record := func(prefix string) Notifier {
		return Func(func(_ context.Context, n Notification) { got = append(got, prefix+n.Message) })
	}
	Multi(record("a:"), nil, record("b:")).Announce(context.Background(), Success("x"))
	if diff := cmp.Diff([]string{"a:x", "b:x"}, got); diff != "" {
		t.Fatalf("fan-out mismatch (-want +got):\n%s", diff)
	}
}

func TestWriterNotifier(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriterNotifier(&buf)
	w.Announce(context.Background(), Success("Saved"))
	w.Announce(context.Background(), Failure("Try again"))
	want := "[ok] Saved\n[error] Try again\n"
	if buf.String() != want {
		t.Fatalf("unexpected output %q", buf.String())
	}
}

func TestLogNotifier_UsesContextLogger(t *testing.T) {
	var own, scoped bytes.Buffer
	n := NewLogNotifier(zerolog.New(&own))

	ctxLogger := zerolog.New(&scoped).With().Str("session", "abc").Logger()
	ctx := ctxLogger.WithContext(context.Background())
	n.Announce(ctx, Success("Received"))
	n.Announce(context.Background(), Failure("Failed"))

	if !strings.Contains(scoped.String(), `"session":"abc"`) || !strings.Contains(scoped.String(), `"message":"Received"`) {
		t.Fatalf("context logger not used: %s", scoped.String())
	}
	if !strings.Contains(own.String(), `"level":"warn"`) || !strings.Contains(own.String(), `"message":"Failed"`) {
		t.Fatalf("fallback logger not used: %s", own.String())
	}
}

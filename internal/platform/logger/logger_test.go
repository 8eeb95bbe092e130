package logger

import (
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func observed() (*Logger, *observer.ObservedLogs) {
	core, logs := observer.New(zapcore.DebugLevel)
	return &Logger{SugaredLogger: zap.New(core).Sugar()}, logs
}

func TestRedactsSensitiveKeys(t *testing.T) {
	log, logs := observed()
	log.Info("request",
		"birth_date", "1990-01-15",
		"birthDate", "1990-01-15",
		"api_key", "sk-abc",
		"combo_tags", []string{"odd_heavy"},
	)

	entries := logs.All()
	if len(entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(entries))
	}
	fields := entries[0].ContextMap()
	for _, k := range []string{"birth_date", "birthDate", "api_key"} {
		if fields[k] != "[REDACTED]" {
			t.Fatalf("%s not redacted: %v", k, fields[k])
		}
	}
	if _, ok := fields["combo_tags"]; !ok {
		t.Fatalf("expected combo_tags to be kept")
	}
}

func TestHashesIdentifiers(t *testing.T) {
	log, logs := observed()
	log.With("user_id", "u-123").Warn("scoped")

	fields := logs.All()[0].ContextMap()
	v, _ := fields["user_id"].(string)
	if v == "u-123" || len(v) != len("hash:")+12 {
		t.Fatalf("user_id not hashed: %q", v)
	}
}

func TestTestModeIsSilent(t *testing.T) {
	log, err := New("test")
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	log.Info("nothing to see", "k", "v")
	log.Sync()
}

func TestRedactsCredentialValues(t *testing.T) {
	log, logs := observed()
	log.Info("upstream",
		"header", "Bearer abc.def",
		"key", "sk-0123456789abcdefghijklmnop",
		"model", "gpt-4o-mini",
		"usage", 42,
	)

	fields := logs.All()[0].ContextMap()
	if fields["header"] != redacted || fields["key"] != redacted {
		t.Fatalf("credentials leaked: %v", fields)
	}
	if fields["model"] != "gpt-4o-mini" {
		t.Fatalf("model = %v", fields["model"])
	}
	if fields["usage"] != int64(42) && fields["usage"] != 42 {
		t.Fatalf("usage = %v (%T)", fields["usage"], fields["usage"])
	}
}

func TestNestedMapsAreScrubbed(t *testing.T) {
	log, logs := observed()
	log.Info("request", "body", map[string]interface{}{"birthDate": "1990-01-15", "numbers": "1,2,3"})

	body, _ := logs.All()[0].ContextMap()["body"].(map[string]interface{})
	if body["birthDate"] != redacted || body["numbers"] != "1,2,3" {
		t.Fatalf("body = %v", body)
	}
}

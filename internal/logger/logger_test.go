package logger

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"testing"
)

// TestSetup_JSONOutput はログがJSON形式で出力されることを検証する。
func TestSetup_JSONOutput(t *testing.T) {
	var buf bytes.Buffer
	log := Setup(&buf, slog.LevelInfo)

	log.Info("pedido confirmado", "order_id", "o-1")

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
	if entry["msg"] != "pedido confirmado" {
		t.Errorf("msg = %v, want %q", entry["msg"], "pedido confirmado")
	}
	if entry["order_id"] != "o-1" {
		t.Errorf("order_id = %v, want %q", entry["order_id"], "o-1")
	}
}

// TestSetup_DebugSuppressed はInfoレベル設定でDebugログが抑制されることを検証する。
func TestSetup_DebugSuppressed(t *testing.T) {
	var buf bytes.Buffer
	log := Setup(&buf, slog.LevelInfo)

	log.Debug("should not appear")

	if buf.Len() != 0 {
		t.Errorf("debug log was written: %s", buf.String())
	}
}

// TestSetup_DebugLevel はDebugレベル設定でDebugログが出力されることを検証する。
func TestSetup_DebugLevel(t *testing.T) {
	var buf bytes.Buffer
	log := Setup(&buf, slog.LevelDebug)

	log.Debug("cart delta applied", "delta", 1)

	if buf.Len() == 0 {
		t.Error("debug log was suppressed at debug level")
	}
}

// TestParseLevel は環境変数由来のレベル文字列の解釈を検証する。
func TestParseLevel(t *testing.T) {
	tests := []struct {
		input string
		want  slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"DEBUG", slog.LevelDebug},
		{"info", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"warning", slog.LevelWarn},
		{"error", slog.LevelError},
		{" error ", slog.LevelError},
		{"", slog.LevelInfo},
		{"verbose", slog.LevelInfo},
	}
	for _, tt := range tests {
		if got := ParseLevel(tt.input); got != tt.want {
			t.Errorf("ParseLevel(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}

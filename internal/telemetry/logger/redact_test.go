package logger

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"
)

func TestRedactSensitive_KeyName(t *testing.T) {
	var buf bytes.Buffer
	l, err := New(Config{Level: "info", Format: "json", Output: &buf})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	defer SetLevel("warn")

	l.Info("config loaded", "api_key", "abc123", "password", "hunter2", "path", "/tmp")

	var logEntry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &logEntry); err != nil {
		t.Fatalf("Failed to parse JSON log: %v", err)
	}
	if logEntry["api_key"] != redactedValue {
		t.Errorf("api_key = %v, want redacted", logEntry["api_key"])
	}
	if logEntry["password"] != redactedValue {
		t.Errorf("password = %v, want redacted", logEntry["password"])
	}
	if logEntry["path"] != "/tmp" {
		t.Errorf("path = %v, should be untouched", logEntry["path"])
	}
}

func TestRedactSensitive_CommandLine(t *testing.T) {
	var buf bytes.Buffer
	l, err := New(Config{Level: "info", Format: "json", Output: &buf})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	defer SetLevel("warn")

	l.Info("dispatch", "line", "env GITHUB_TOKEN=ghp_abcdef make release")

	if strings.Contains(buf.String(), "ghp_abcdef") {
		t.Errorf("secret leaked into log: %s", buf.String())
	}
	if !strings.Contains(buf.String(), "GITHUB_TOKEN="+redactedValue) {
		t.Errorf("expected masked assignment, got %s", buf.String())
	}
}

func TestRedactSensitive_Group(t *testing.T) {
	a := slog.Group("request", slog.String("secret", "s3cr3t"), slog.String("name", "ls"))
	got := redactSensitive(a)

	attrs := got.Value.Group()
	if attrs[0].Value.String() != redactedValue {
		t.Errorf("nested secret = %q", attrs[0].Value.String())
	}
	if attrs[1].Value.String() != "ls" {
		t.Errorf("nested name = %q", attrs[1].Value.String())
	}
}

func TestRedactSensitive_EmptyValue(t *testing.T) {
	a := redactSensitive(slog.String("token", ""))
	if a.Value.String() != "" {
		t.Errorf("empty sensitive value should stay empty, got %q", a.Value.String())
	}
}

func TestRedactString(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"ls -la", "ls -la"},
		{"FOO=bar make", "FOO=bar make"},
		{"DB_PASSWORD=pw ./run", "DB_PASSWORD=" + redactedValue + " ./run"},
		{"export aws_secret_access_key=xyz", "export aws_secret_access_key=" + redactedValue},
		{"API_KEY=1 TOKEN=2", "API_KEY=" + redactedValue + " TOKEN=" + redactedValue},
	}
	for _, tt := range tests {
		if got := RedactString(tt.in); got != tt.want {
			t.Errorf("RedactString(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestIsSensitiveKey(t *testing.T) {
	tests := []struct {
		key  string
		want bool
	}{
		{"password", true},
		{"Auth_Header", true},
		{"GITHUB_TOKEN", true},
		{"line", false},
		{"cwd", false},
	}
	for _, tt := range tests {
		if got := IsSensitiveKey(tt.key); got != tt.want {
			t.Errorf("IsSensitiveKey(%q) = %v, want %v", tt.key, got, tt.want)
		}
	}
}

func TestIsSensitiveValue(t *testing.T) {
	if !IsSensitiveValue("SECRET=x") {
		t.Error("SECRET=x should be sensitive")
	}
	if IsSensitiveValue("cd /tmp") {
		t.Error("cd /tmp should not be sensitive")
	}
}

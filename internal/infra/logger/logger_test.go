package logger

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestParseLevel(t *testing.T) {
	cases := map[string]Level{
		"debug":   LevelDebug,
		"DEBUG":   LevelDebug,
		"warn":    LevelWarn,
		"error":   LevelError,
		"info":    LevelInfo,
		"verbose": LevelInfo,
		"":        LevelInfo,
	}
	for in, want := range cases {
		if got := ParseLevel(in); got != want {
			t.Errorf("ParseLevel(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	l := NewWithWriter(&buf, LevelWarn)

	l.Debug("debug %d", 1)
	l.Info("info %d", 2)
	l.Warn("warn %d", 3)
	l.Error("error %d", 4)

	out := buf.String()
	if strings.Contains(out, "debug 1") || strings.Contains(out, "info 2") {
		t.Fatalf("entries below warn should be filtered, got %q", out)
	}
	if !strings.Contains(out, "warn 3") || !strings.Contains(out, "error 4") {
		t.Fatalf("expected warn and error entries, got %q", out)
	}
}

func TestWriteTrimsNewlines(t *testing.T) {
	var buf bytes.Buffer
	l := NewWithWriter(&buf, LevelInfo)

	n, err := l.Write([]byte("GET /ws | 101\n"))
	if err != nil {
		t.Fatalf("Write returned error: %v", err)
	}
	if n != len("GET /ws | 101\n") {
		t.Fatalf("Write must report the full length, got %d", n)
	}
	if !strings.Contains(buf.String(), "GET /ws | 101") {
		t.Fatalf("expected message in output, got %q", buf.String())
	}

	buf.Reset()
	_, _ = l.Write([]byte("   \n"))
	if buf.Len() != 0 {
		t.Fatalf("blank writes should be dropped, got %q", buf.String())
	}
}

func TestWithPrefix(t *testing.T) {
	var buf bytes.Buffer
	l := NewWithWriter(&buf, LevelInfo).WithPrefix("engine")
	l.Info("admitted %s", "job-1")
	if !strings.Contains(buf.String(), "engine") || !strings.Contains(buf.String(), "admitted job-1") {
		t.Fatalf("expected prefixed entry, got %q", buf.String())
	}
}

func TestNewWritesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "jacktracker.log")
	l, err := New(path, LevelDebug, false)
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	l.Debug("hello %s", "file")
	if err := l.Close(); err != nil {
		t.Fatalf("Close returned error: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read log file: %v", err)
	}
	if !strings.Contains(string(data), "hello file") {
		t.Fatalf("expected debug entry in file, got %q", data)
	}
}

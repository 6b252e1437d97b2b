package logging

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestParseLevel(t *testing.T) {
	cases := map[string]Level{
		"debug":   LevelDebug,
		"info":    LevelInfo,
		"warn":    LevelWarn,
		"warning": LevelWarn,
		"error":   LevelError,
		"bogus":   LevelInfo,
		"":        LevelInfo,
	}
	for in, want := range cases {
		if got := ParseLevel(in); got != want {
			t.Errorf("ParseLevel(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestParseFormat(t *testing.T) {
	if got := ParseFormat("json"); got != FormatJSON {
		t.Errorf("ParseFormat(json) = %v", got)
	}
	if got := ParseFormat("text"); got != FormatText {
		t.Errorf("ParseFormat(text) = %v", got)
	}
	if got := ParseFormat(""); got != FormatText {
		t.Errorf("ParseFormat empty = %v", got)
	}
}

func TestFileOutput(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "logs", "test.log")

	l, err := New(&Config{
		Level:     LevelInfo,
		Format:    FormatJSON,
		Output:    "file",
		FilePath:  path,
		Component: "test",
	})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	l.Info("hello", "answer", 42)
	l.Debug("should be filtered")

	if err := l.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	out := string(data)

	if !strings.Contains(out, `"msg":"hello"`) {
		t.Errorf("log file missing info entry: %s", out)
	}
	if !strings.Contains(out, `"component":"test"`) {
		t.Errorf("log file missing component attribute: %s", out)
	}
	if strings.Contains(out, "should be filtered") {
		t.Errorf("debug entry leaked past info level: %s", out)
	}
}

func TestWithComponent(t *testing.T) {
	l, err := New(&Config{Level: LevelInfo, Output: "stderr"})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	child := l.WithComponent("layout")
	if child.Logger == nil {
		t.Fatal("child logger is nil")
	}
}

package log

import (
	"bytes"
	"os"
	"strings"
	"testing"
)

func TestLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	SetSink(&buf)
	defer SetSink(os.Stdout)
	defer SetLevel(Notice)

	logger := New("test")

	SetLevel(Warning)
	logger.Info("hidden")
	logger.Warningf("visible %d", 42)

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Fatalf("expected info message to be filtered out; got %q", out)
	}
	if !strings.Contains(out, "visible 42") || !strings.Contains(out, "[test]") {
		t.Fatalf("expected warning message with module name in output; got %q", out)
	}

	buf.Reset()
	SetLevel(Debug)
	logger.Debug("details")
	if !strings.Contains(buf.String(), "details") {
		t.Fatalf("expected debug message after raising verbosity; got %q", buf.String())
	}
}

func TestLevelNames(t *testing.T) {
	type spec struct {
		level Level
		exp   string
	}
	specs := []spec{
		{Debug, "DEBUG"},
		{Info, "INFO"},
		{Notice, "NOTICE"},
		{Warning, "WARNING"},
		{Error, "ERROR"},
	}
	for idx, s := range specs {
		if got := s.level.String(); got != s.exp {
			t.Fatalf("[spec %d] expected level name %q; got %q", idx, s.exp, got)
		}
	}
}

package logger

import (
	"bytes"
	"strings"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func TestLoggerCapturesRecords(t *testing.T) {
	var console bytes.Buffer
	log, err := New(Options{Level: "info", Console: &console})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	log.Debug("[t] hidden")
	log.Info("[t] built", zap.Int("trapezoids", 7))

	text := log.Text()
	if strings.Contains(text, "hidden") {
		t.Error("debug record should be filtered at info level")
	}
	if !strings.Contains(text, "[t] built") || !strings.Contains(text, "trapezoids") {
		t.Errorf("info record missing from buffer: %q", text)
	}
	if !strings.Contains(console.String(), "[t] built") {
		t.Errorf("console copy missing: %q", console.String())
	}

	log.ClearLogs()
	if log.Text() != "" {
		t.Errorf("buffer not cleared: %q", log.Text())
	}
}

func TestNewRejectsUnknownLevel(t *testing.T) {
	if _, err := New(Options{Level: "loud"}); err == nil {
		t.Fatal("expected error for unknown level")
	}
}

func TestNamedSharesBuffer(t *testing.T) {
	log, err := New(Options{})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	log.Named("child").Warn("[c] careful")
	if !strings.Contains(log.Text(), "child") || !strings.Contains(log.Text(), "[c] careful") {
		t.Errorf("child record not in parent buffer: %q", log.Text())
	}
	if !log.Enabled(zapcore.DebugLevel) {
		t.Error("empty level should default to debug")
	}
}

func TestANSIToHTML(t *testing.T) {
	in := "\033[32minfo\033[0m <msg> & more"
	got := ansiToHTML(in)
	want := `<pre><span style="color: green;">info</span> &lt;msg&gt; &amp; more</pre>`
	if got != want {
		t.Errorf("ansiToHTML = %q, want %q", got, want)
	}
}

func TestNopLogger(t *testing.T) {
	log := NewNop()
	log.Error("[n] dropped")
	if log.Text() != "" {
		t.Errorf("nop logger captured %q", log.Text())
	}
	if log.HTML() != "<pre></pre>" {
		t.Errorf("empty HTML = %q", log.HTML())
	}
}

func TestNoCaptureWritesOnlyToConsole(t *testing.T) {
	var console bytes.Buffer
	log, err := New(Options{Console: &console, NoCapture: true})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	log.Info("[t] served")
	if log.Text() != "" {
		t.Errorf("buffer should stay empty, got %q", log.Text())
	}
	if !strings.Contains(console.String(), "[t] served") {
		t.Errorf("console copy missing: %q", console.String())
	}
}

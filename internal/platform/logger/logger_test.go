package logger

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/ohmynofan/honeygain-pot-bot/internal/domain/model"
)

func TestJustLogLabelsAccountAndCaller(t *testing.T) {
	var buf bytes.Buffer
	SetOutput(&buf)
	defer SetOutput(&bytes.Buffer{})

	l := NewNamed("Worker", &model.Session{AccIdx: 1})
	l.JustLog("balance read")

	out := buf.String()
	if !strings.Contains(out, "[Operation - Account 2][TestJustLogLabelsAccountAndCaller] balance read") {
		t.Errorf("unexpected log line %q", out)
	}
}

func TestJustLogWithoutSessionUsesClass(t *testing.T) {
	var buf bytes.Buffer
	SetOutput(&buf)
	defer SetOutput(&bytes.Buffer{})

	type App struct{}
	NewLogger(&App{}, nil).JustLog("starting")
	if !strings.Contains(buf.String(), "[App]") {
		t.Errorf("expected class label, got %q", buf.String())
	}
}

func TestWaitReturnsOnCancel(t *testing.T) {
	SetOutput(&bytes.Buffer{})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	start := time.Now()
	err := NewNamed("Worker", &model.Session{}).Wait(ctx, "sleeping", time.Hour)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if time.Since(start) > time.Second {
		t.Error("Wait did not return promptly after cancel")
	}
}

func TestWaitCompletes(t *testing.T) {
	SetOutput(&bytes.Buffer{})
	if err := NewNamed("Worker", nil).Wait(context.Background(), "short", 10*time.Millisecond); err != nil {
		t.Fatalf("Wait: %v", err)
	}
	if err := NewNamed("Worker", nil).Wait(context.Background(), "zero", 0); err != nil {
		t.Fatalf("Wait(0): %v", err)
	}
}

func TestLogObjectNamesTheRealCaller(t *testing.T) {
	var buf bytes.Buffer
	SetOutput(&buf)
	defer SetOutput(&bytes.Buffer{})

	type family struct {
		Name    string        `yaml:"name"`
		Timeout time.Duration `yaml:"timeout"`
	}
	NewNamed("App", nil).LogObject("Locator profile", family{Name: "balance", Timeout: 15 * time.Second})

	out := buf.String()
	if !strings.Contains(out, "[App][TestLogObjectNamesTheRealCaller] Locator profile:") {
		t.Errorf("unexpected label in %q", out)
	}
	if !strings.Contains(out, "name: balance") || !strings.Contains(out, "timeout: 15s") {
		t.Errorf("object not rendered: %q", out)
	}
}

package logger

import (
	"bytes"
	"os"
	"sync"
	"testing"
)

func resetLogger(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	SetOutput(&buf)
	t.Cleanup(func() {
		SetVerbose(false)
		SetOutput(os.Stderr)
	})
	return &buf
}

func TestVerboseToggle(t *testing.T) {
	resetLogger(t)

	SetVerbose(false)
	if IsVerbose() {
		t.Error("expected verbose off by default")
	}

	SetVerbose(true)
	if !IsVerbose() {
		t.Error("expected verbose on after SetVerbose(true)")
	}
}

func TestLevels_WhenVerbose(t *testing.T) {
	buf := resetLogger(t)
	SetVerbose(true)

	Debug("loading %s", "dataset")
	Info("matched %d variants", 7)
	Warn("batch skipped")
	Section("Match")

	want := "[DEBUG] loading dataset\n" +
		"[INFO] matched 7 variants\n" +
		"[WARN] batch skipped\n" +
		"\n=== Match ===\n"
	if buf.String() != want {
		t.Errorf("unexpected output: %q", buf.String())
	}
}

func TestLevels_Silent_WhenNotVerbose(t *testing.T) {
	buf := resetLogger(t)
	SetVerbose(false)

	Debug("hidden")
	Info("hidden")
	Warn("hidden")
	Section("hidden")

	if buf.Len() > 0 {
		t.Errorf("expected no output, got %q", buf.String())
	}
}

func TestConcurrentUse(t *testing.T) {
	resetLogger(t)

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			SetVerbose(true)
			Debug("worker %d", n)
			IsVerbose()
			SetVerbose(false)
		}(i)
	}
	wg.Wait()
}

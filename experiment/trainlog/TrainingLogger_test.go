package trainlog

import (
	"bytes"
	"strings"
	"testing"
)

func TestLoggerTableFrequency(t *testing.T) {
	logger := New(6, false, 2)

	var buf bytes.Buffer
	logger.out = &buf

	for epoch := 0; epoch < 6; epoch++ {
		logger.Update(epoch, -0.5, 3.0, 3, 5.9601)
	}
	if err := logger.Close(); err != nil {
		t.Fatal(err)
	}

	out := buf.String()

	// The header is printed once, before the first row
	if got := strings.Count(out, "epoch"); got != 1 {
		t.Errorf("header printed %v times, want 1", got)
	}

	// Rows appear every tableLogFreq epochs: epochs 1, 3, and 5
	var rows int
	for _, line := range strings.Split(out, "\n") {
		if strings.Contains(line, "5.9601") {
			rows++
		}
	}
	if rows != 3 {
		t.Errorf("got %v table rows, want 3", rows)
	}
}

func TestLoggerNoTable(t *testing.T) {
	logger := New(4, false, 0)

	var buf bytes.Buffer
	logger.out = &buf

	for epoch := 0; epoch < 4; epoch++ {
		logger.Update(epoch, -0.5, 3.0, 3, 1.0)
	}
	if err := logger.Close(); err != nil {
		t.Fatal(err)
	}

	if buf.Len() != 0 {
		t.Errorf("a logger with no bar and no table frequency should "+
			"print nothing, got %q", buf.String())
	}
}

func TestLoggerCloseIdempotent(t *testing.T) {
	logger := New(3, true, 0)

	var buf bytes.Buffer
	logger.out = &buf

	if err := logger.Close(); err != nil {
		t.Fatal(err)
	}
	first := buf.Len()

	// A second Close releases nothing further
	if err := logger.Close(); err != nil {
		t.Fatal(err)
	}
	if buf.Len() != first {
		t.Error("a second Close should not write again")
	}
}

package ui

import (
	"bytes"
	"strings"
	"testing"
)

func TestSpinner_SuccessPrintsCheck(t *testing.T) {
	var buf bytes.Buffer
	sp := NewSpinnerTo(&buf, "Checking...")
	sp.Success("Ollama is up")

	if !strings.Contains(buf.String(), "✓ Ollama is up") {
		t.Errorf("expected check line, got %q", buf.String())
	}
}

func TestSpinner_FailPrintsCross(t *testing.T) {
	var buf bytes.Buffer
	sp := NewSpinnerTo(&buf, "Checking...")
	sp.Fail("Ollama is not answering")

	if !strings.Contains(buf.String(), "✗ Ollama is not answering") {
		t.Errorf("expected cross line, got %q", buf.String())
	}
}

func TestSpinner_StopWithoutStart(t *testing.T) {
	var buf bytes.Buffer
	sp := NewSpinnerTo(&buf, "Checking...")
	sp.Stop()
	sp.Stop()
	if buf.Len() != 0 {
		t.Errorf("stopping an idle spinner should write nothing, got %q", buf.String())
	}
}

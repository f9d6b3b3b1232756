package progress

import (
	"bytes"
	"io"
	"testing"
)

func TestNewBarDescribe(t *testing.T) {
	var buf bytes.Buffer
	bar := NewBar(PhaseLoad, 3, &buf)

	if err := bar.Add(1); err != nil {
		t.Fatalf("Add() error = %v", err)
	}
	bar.Describe("main.csvpp")
	if err := bar.Finish(); err != nil {
		t.Fatalf("Finish() error = %v", err)
	}
}

func TestPipelineAdvancesThroughPhases(t *testing.T) {
	p := NewPipeline([]Phase{PhaseLoad, PhaseResolve, PhaseEvaluate})
	p.output = io.Discard

	bar := p.Next(1)
	if bar == nil {
		t.Fatal("expected a bar for the first phase")
	}

	bar = p.Next(1)
	if bar == nil {
		t.Fatal("expected a bar for the second phase")
	}

	bar = p.Next(1)
	if bar == nil {
		t.Fatal("expected a bar for the third phase")
	}

	if bar := p.Next(1); bar != nil {
		t.Error("expected nil once every phase has been started")
	}
}

func TestPipelineDisable(t *testing.T) {
	p := NewPipeline([]Phase{PhaseLoad})
	p.Disable()

	bar := p.Next(1)
	if bar == nil {
		t.Fatal("expected a bar even when disabled, just writing to io.Discard")
	}
	if err := bar.Add(1); err != nil {
		t.Fatalf("Add() error = %v", err)
	}
	p.Finish()
}

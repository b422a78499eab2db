package rag

import (
	"context"
	"errors"
	"strings"
	"testing"
)

func TestSummarizePrimarySucceeds(t *testing.T) {
	primary := &fakeLLM{reply: "a fine summary"}
	fallback := &fakeLLM{reply: "unused"}
	gen := NewGenerator(primary, fallback)

	out, err := gen.Summarize(context.Background(), "some document text")
	if err != nil {
		t.Fatal(err)
	}
	if out.Text != "a fine summary" || out.ProducedBy != BackendPrimary {
		t.Errorf("outcome = {%q, %s}", out.Text, out.ProducedBy)
	}
	if fallback.callCount() != 0 {
		t.Errorf("fallback called %d times", fallback.callCount())
	}
}

func TestSummarizeFallbackOnPrimaryFailure(t *testing.T) {
	primary := &fakeLLM{err: errors.New("timeout")}
	fallback := &fakeLLM{reply: "rescue summary"}
	gen := NewGenerator(primary, fallback)

	out, err := gen.Summarize(context.Background(), "some document text")
	if err != nil {
		t.Fatal(err)
	}
	if out.Text != "rescue summary" || out.ProducedBy != BackendFallback {
		t.Errorf("outcome = {%q, %s}", out.Text, out.ProducedBy)
	}
	if primary.callCount() != 1 || fallback.callCount() != 1 {
		t.Errorf("calls = %d/%d, want exactly 1/1", primary.callCount(), fallback.callCount())
	}
}

func TestSummarizeBlankPrimaryOutputTriggersFallback(t *testing.T) {
	primary := &fakeLLM{reply: "   \n"}
	fallback := &fakeLLM{reply: "rescue"}
	gen := NewGenerator(primary, fallback)

	out, err := gen.Summarize(context.Background(), "text")
	if err != nil {
		t.Fatal(err)
	}
	if out.ProducedBy != BackendFallback {
		t.Errorf("blank primary output should fall through, got %s", out.ProducedBy)
	}
}

func TestSummarizeBothTiersFail(t *testing.T) {
	primary := &fakeLLM{err: errors.New("down")}
	fallback := &fakeLLM{err: errors.New("also down")}
	gen := NewGenerator(primary, fallback)

	_, err := gen.Summarize(context.Background(), "text")
	var genErr *GenerationError
	if !errors.As(err, &genErr) {
		t.Fatalf("expected *GenerationError, got %v", err)
	}
	if primary.callCount() != 1 || fallback.callCount() != 1 {
		t.Errorf("calls = %d/%d, want 1/1 (no retry loops)", primary.callCount(), fallback.callCount())
	}
}

func TestSummarizeTruncatesPerTier(t *testing.T) {
	long := strings.Repeat("q", 30000)
	primary := &fakeLLM{err: errors.New("down")}
	fallback := &fakeLLM{reply: "ok"}
	gen := NewGenerator(primary, fallback)

	if _, err := gen.Summarize(context.Background(), long); err != nil {
		t.Fatal(err)
	}

	if n := strings.Count(primary.lastPrompt(), "q"); n != 5000 {
		t.Errorf("primary saw %d input runes, want 5000", n)
	}
	if n := strings.Count(fallback.lastPrompt(), "q"); n != 15000 {
		t.Errorf("fallback saw %d input runes, want 15000", n)
	}
}

func TestAnswerFallbackTagged(t *testing.T) {
	primary := &fakeLLM{err: errors.New("overloaded")}
	fallback := &fakeLLM{reply: "the fallback answer"}
	gen := NewGenerator(primary, fallback)

	out, err := gen.Answer(context.Background(), "why?", "because of reasons")
	if err != nil {
		t.Fatal(err)
	}
	if out.Text != "the fallback answer" || out.ProducedBy != BackendFallback {
		t.Errorf("outcome = {%q, %s}", out.Text, out.ProducedBy)
	}
}

func TestAnswerBothTiersFail(t *testing.T) {
	primary := &fakeLLM{err: errors.New("down")}
	fallback := &fakeLLM{err: errors.New("also down")}
	gen := NewGenerator(primary, fallback)

	_, err := gen.Answer(context.Background(), "why?", "context")
	var genErr *GenerationError
	if !errors.As(err, &genErr) {
		t.Fatalf("expected *GenerationError, got %v", err)
	}
}

func TestAnswerRejectsEmptyContext(t *testing.T) {
	primary := &fakeLLM{reply: "never"}
	fallback := &fakeLLM{reply: "never"}
	gen := NewGenerator(primary, fallback)

	_, err := gen.Answer(context.Background(), "why?", "  \n ")
	if err == nil {
		t.Fatal("expected error for empty context")
	}
	if got := primary.callCount() + fallback.callCount(); got != 0 {
		t.Errorf("no backend should run on empty context, got %d calls", got)
	}
}

func TestAnswerPromptCarriesQuestionAndContext(t *testing.T) {
	primary := &fakeLLM{reply: "fine"}
	gen := NewGenerator(primary, &fakeLLM{})

	if _, err := gen.Answer(context.Background(), "what gives?", "the facts"); err != nil {
		t.Fatal(err)
	}
	prompt := primary.lastPrompt()
	if !strings.Contains(prompt, "the facts") || !strings.Contains(prompt, "what gives?") {
		t.Errorf("prompt missing question or context:\n%s", prompt)
	}
}

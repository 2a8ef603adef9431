package conversation

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/YiFeiChang/Smart-Farm-Steward/internal/llm"
	"github.com/YiFeiChang/Smart-Farm-Steward/pkg/dialogue"
)

func TestSummarizeAppendsRequestTurn(t *testing.T) {
	t.Parallel()

	sc := &scriptedCompleter{completions: []llm.Completion{
		modelTextCompletion(dialogue.SummaryMarker+" wants rain forecasts", 50),
	}}
	s := NewSummarizer(llm.NewClient(sc, llm.GenerationConfig{}), llm.GenerationConfig{})

	turns := mkConversation(2)
	summary, ok, err := s.Summarize(context.Background(), turns)
	if err != nil || !ok {
		t.Fatalf("Summarize: ok=%v err=%v", ok, err)
	}

	req := sc.requests[0]
	if len(req.Turns) != len(turns)+1 {
		t.Fatalf("request carried %d turns, want %d plus the summary instruction", len(req.Turns), len(turns))
	}
	last := req.Turns[len(req.Turns)-1]
	if last.Role != dialogue.RoleUser || last.Text() != summaryRequest {
		t.Errorf("final request turn = %+v, want the summary instruction as a user turn", last)
	}
	if len(req.Tools) != 0 {
		t.Error("summarization must not declare tools")
	}

	if !summary.IsSummary() {
		t.Errorf("summary turn %q must carry the marker on a model turn", summary.Text())
	}
}

func TestSummarizeAddsMissingMarker(t *testing.T) {
	t.Parallel()

	sc := &scriptedCompleter{completions: []llm.Completion{
		modelTextCompletion("plain summary without tag", 50),
	}}
	s := NewSummarizer(llm.NewClient(sc, llm.GenerationConfig{}), llm.GenerationConfig{})

	summary, ok, err := s.Summarize(context.Background(), mkConversation(1))
	if err != nil || !ok {
		t.Fatalf("Summarize: ok=%v err=%v", ok, err)
	}
	if !strings.HasPrefix(summary.Text(), dialogue.SummaryMarker) {
		t.Errorf("marker must be prepended, got %q", summary.Text())
	}
}

func TestSummarizeNoCandidates(t *testing.T) {
	t.Parallel()

	sc := &scriptedCompleter{completions: []llm.Completion{{Empty: true}}}
	s := NewSummarizer(llm.NewClient(sc, llm.GenerationConfig{}), llm.GenerationConfig{})

	_, ok, err := s.Summarize(context.Background(), mkConversation(1))
	if err != nil {
		t.Fatalf("Summarize: %v", err)
	}
	if ok {
		t.Error("ok must be false when the provider yields no candidates")
	}
}

func TestSummarizeDoesNotMutateInput(t *testing.T) {
	t.Parallel()

	sc := &scriptedCompleter{completions: []llm.Completion{
		modelTextCompletion(dialogue.SummaryMarker+" s", 10),
	}}
	s := NewSummarizer(llm.NewClient(sc, llm.GenerationConfig{}), llm.GenerationConfig{})

	turns := mkConversation(2)
	before := len(turns)
	if _, _, err := s.Summarize(context.Background(), turns[:before:before]); err != nil {
		t.Fatalf("Summarize: %v", err)
	}
	if len(turns) != before {
		t.Errorf("input slice grew to %d turns", len(turns))
	}
}

type errCompleter struct{ err error }

func (e errCompleter) Complete(context.Context, llm.CompletionRequest) (llm.Completion, error) {
	return llm.Completion{}, e.err
}

func (errCompleter) ModelName() string { return "err" }

func TestSummarizePropagatesError(t *testing.T) {
	t.Parallel()

	want := errors.New("provider down")
	s := NewSummarizer(llm.NewClient(errCompleter{err: want}, llm.GenerationConfig{}), llm.GenerationConfig{})

	_, ok, err := s.Summarize(context.Background(), mkConversation(1))
	if !errors.Is(err, want) {
		t.Fatalf("err = %v, want %v", err, want)
	}
	if ok {
		t.Error("ok must be false on error")
	}
}

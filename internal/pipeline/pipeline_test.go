package pipeline

import (
	"context"
	"errors"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/sant0-9/railletter/internal/letter"
	"github.com/sant0-9/railletter/internal/llm"
)

type stubProvider struct {
	content string
	err     error
	calls   int
	last    *llm.CompletionRequest
}

func (s *stubProvider) Name() string { return "stub" }

func (s *stubProvider) Ping(context.Context) error { return nil }

func (s *stubProvider) Complete(_ context.Context, req *llm.CompletionRequest) (*llm.CompletionResponse, error) {
	s.calls++
	s.last = req
	if s.err != nil {
		return nil, s.err
	}
	return &llm.CompletionResponse{Content: s.content, Usage: llm.Usage{TotalTokens: 42}}, nil
}

func newPipeline(t *testing.T, p llm.Provider, opts ...Option) *Pipeline {
	t.Helper()
	r, err := letter.NewRenderer(letter.Options{Header: "Official Letter", SignatoryName: "A. Kumar"})
	if err != nil {
		t.Fatal(err)
	}
	opts = append([]Option{WithLogger(nil)}, opts...)
	return New(p, "stub-model", r, opts...)
}

func TestSubmitLeaveRequest(t *testing.T) {
	stub := &stubProvider{content: "<p>Respected Sir, ...</p>"}
	var stages []Stage
	pl := newPipeline(t, stub, WithProgress(func(pr Progress) { stages = append(stages, pr.Stage) }))

	res, err := pl.Submit(context.Background(), letter.Fields{
		Date:      time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC),
		Recipient: "The DRM,\nCentral Railway.",
		Subject:   "Leave Request",
		Details:   "Request 5 days casual leave from 20-01-2024.",
	})
	if err != nil {
		t.Fatalf("Submit() error = %v", err)
	}

	if stub.calls != 1 {
		t.Errorf("backend called %d times, want 1", stub.calls)
	}
	if stub.last.Model != "stub-model" || len(stub.last.Messages) != 2 {
		t.Errorf("request = %+v", stub.last)
	}
	if !strings.Contains(stub.last.Messages[1].Content, "Date: 15-01-2024") {
		t.Errorf("user prompt = %q", stub.last.Messages[1].Content)
	}

	doc := res.Letter.Document
	checks := map[string]*regexp.Regexp{
		"Leave Request":             regexp.MustCompile(`<div class="subject-line">Sub: (.*?)</div>`),
		"15-01-2024":                regexp.MustCompile(`<strong>Date:</strong> (.*?)</div>`),
		"<p>Respected Sir, ...</p>": regexp.MustCompile(`(?s)<div class="letter-body">(.*?)</div>`),
	}
	for want, re := range checks {
		m := re.FindStringSubmatch(doc)
		if m == nil || m[1] != want {
			t.Errorf("region %s = %v, want %q", re, m, want)
		}
	}

	if res.Usage.TotalTokens != 42 {
		t.Errorf("Usage = %+v", res.Usage)
	}

	want := []Stage{StageValidating, StageGenerating, StageRendering, StageDone}
	if len(stages) != len(want) {
		t.Fatalf("stages = %v, want %v", stages, want)
	}
	for i := range want {
		if stages[i] != want[i] {
			t.Errorf("stage %d = %v, want %v", i, stages[i], want[i])
		}
	}
}

func TestSubmitEmptyDetailsSkipsBackend(t *testing.T) {
	stub := &stubProvider{content: "<p>x</p>"}
	pl := newPipeline(t, stub)

	for _, details := range []string{"", "   ", "\n\t"} {
		_, err := pl.Submit(context.Background(), letter.Fields{Subject: "Leave", Details: details})
		if !errors.Is(err, letter.ErrEmptyDetails) {
			t.Errorf("Submit(%q) error = %v, want ErrEmptyDetails", details, err)
		}
		if !letter.IsValidation(err) {
			t.Errorf("Submit(%q) error is not a validation error", details)
		}
	}
	if stub.calls != 0 {
		t.Errorf("backend called %d times, want 0", stub.calls)
	}
}

func TestSubmitBackendError(t *testing.T) {
	cause := errors.New("401 Unauthorized: invalid api key")
	stub := &stubProvider{err: cause}
	pl := newPipeline(t, stub)

	res, err := pl.Submit(context.Background(), letter.Fields{Details: "leave"})
	if res != nil {
		t.Errorf("Submit() result = %+v, want nil", res)
	}
	if !letter.IsBackend(err) || !errors.Is(err, cause) {
		t.Fatalf("Submit() error = %v, want backend error wrapping cause", err)
	}
	if err.Error() != cause.Error() {
		t.Errorf("error text = %q, want verbatim %q", err.Error(), cause.Error())
	}
	if stub.calls != 1 {
		t.Errorf("backend called %d times, want exactly 1 (no retry)", stub.calls)
	}
}

func TestSubmitEmptyResponse(t *testing.T) {
	stub := &stubProvider{content: "  \n"}
	pl := newPipeline(t, stub)

	_, err := pl.Submit(context.Background(), letter.Fields{Details: "leave"})
	if !letter.IsBackend(err) || !errors.Is(err, letter.ErrEmptyBody) {
		t.Errorf("Submit() error = %v, want backend ErrEmptyBody", err)
	}
}

func TestSubmitDefaultsDate(t *testing.T) {
	stub := &stubProvider{content: "<p>x</p>"}
	now := func() time.Time { return time.Date(2025, 6, 2, 9, 0, 0, 0, time.UTC) }
	pl := newPipeline(t, stub, WithClock(now))

	res, err := pl.Submit(context.Background(), letter.Fields{Details: "leave"})
	if err != nil {
		t.Fatal(err)
	}
	if got := res.Request.FormattedDate(); got != "02-06-2025" {
		t.Errorf("date = %q, want 02-06-2025", got)
	}
}

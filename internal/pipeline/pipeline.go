package pipeline

import (
	"context"
	"io"
	"log"
	"time"

	"github.com/sant0-9/railletter/internal/letter"
	"github.com/sant0-9/railletter/internal/llm"
)

// Stage represents a pipeline stage
type Stage int

const (
	StageValidating Stage = iota
	StageGenerating
	StageRendering
	StageDone
)

func (s Stage) String() string {
	switch s {
	case StageValidating:
		return "Validating"
	case StageGenerating:
		return "Generating"
	case StageRendering:
		return "Rendering"
	case StageDone:
		return "Done"
	default:
		return "Unknown"
	}
}

// Stages lists the stages in order, for progress displays.
var Stages = []Stage{StageValidating, StageGenerating, StageRendering}

// Progress represents pipeline progress
type Progress struct {
	Stage       Stage
	StageIndex  int
	TotalStages int
	Message     string
}

// Result contains one finished submission
type Result struct {
	Request  letter.Request
	Body     string
	Letter   *letter.Rendered
	Usage    llm.Usage
	Duration time.Duration
}

// Pipeline runs one submission at a time: build the request, make one
// generation call, render. It holds no per-submission state, so one Pipeline
// can serve concurrent callers.
type Pipeline struct {
	provider   llm.Provider
	model      string
	renderer   *letter.Renderer
	now        func() time.Time
	logger     *log.Logger
	onProgress func(Progress)
}

type Option func(*Pipeline)

// WithClock overrides the clock used for the default letter date.
func WithClock(now func() time.Time) Option {
	return func(p *Pipeline) { p.now = now }
}

// WithLogger sets the logger. nil discards logs.
func WithLogger(l *log.Logger) Option {
	return func(p *Pipeline) {
		if l == nil {
			l = log.New(io.Discard, "", 0)
		}
		p.logger = l
	}
}

// WithProgress sets the progress callback
func WithProgress(fn func(Progress)) Option {
	return func(p *Pipeline) { p.onProgress = fn }
}

// New creates a pipeline around an injected provider and renderer.
func New(provider llm.Provider, model string, renderer *letter.Renderer, opts ...Option) *Pipeline {
	p := &Pipeline{
		provider: provider,
		model:    model,
		renderer: renderer,
		now:      time.Now,
		logger:   log.Default(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

func (p *Pipeline) progress(stage Stage, msg string) {
	if p.onProgress == nil {
		return
	}
	idx := int(stage)
	p.onProgress(Progress{
		Stage:       stage,
		StageIndex:  idx,
		TotalStages: len(Stages),
		Message:     msg,
	})
}

// Submit runs the whole pipeline for one set of fields. Validation failures
// return before the backend is called. Backend failures come back as
// *letter.BackendError and are never retried.
func (p *Pipeline) Submit(ctx context.Context, fields letter.Fields) (*Result, error) {
	start := time.Now()

	p.progress(StageValidating, "Checking letter details...")
	req, err := letter.Build(fields, p.now)
	if err != nil {
		return nil, err
	}
	prompt := req.Prompt()

	p.progress(StageGenerating, "Writing letter with "+p.provider.Name()+"...")
	p.logger.Printf("[pipeline] generating letter provider=%s model=%s date=%s", p.provider.Name(), p.model, req.FormattedDate())

	resp, err := p.provider.Complete(ctx, llm.NewRequest(p.model, prompt.System, prompt.User))
	if err != nil {
		p.logger.Printf("[pipeline] generation failed provider=%s: %v", p.provider.Name(), err)
		return nil, &letter.BackendError{Provider: p.provider.Name(), Err: err}
	}

	body, err := letter.CleanBody(resp.Content)
	if err != nil {
		p.logger.Printf("[pipeline] unusable response provider=%s: %v", p.provider.Name(), err)
		return nil, &letter.BackendError{Provider: p.provider.Name(), Err: err}
	}

	p.progress(StageRendering, "Formatting letter...")
	rendered, err := p.renderer.Render(req, body)
	if err != nil {
		return nil, err
	}
	if rendered.SignatureMissing {
		p.logger.Printf("[pipeline] signature image unavailable, rendered placeholder")
	}

	p.progress(StageDone, "Letter ready")

	elapsed := time.Since(start)
	p.logger.Printf("[pipeline] letter %s ready in %s tokens=%d", rendered.ID, elapsed.Round(time.Millisecond), resp.Usage.TotalTokens)

	return &Result{
		Request:  req,
		Body:     body,
		Letter:   rendered,
		Usage:    resp.Usage,
		Duration: elapsed,
	}, nil
}

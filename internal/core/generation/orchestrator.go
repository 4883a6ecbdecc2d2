// Package generation drives one prompt through the completion provider and
// materializes the reply as a project.
package generation

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/markdave123-py/Appcraft/internal/apperr"
	"github.com/markdave123-py/Appcraft/internal/core"
	"github.com/markdave123-py/Appcraft/internal/core/codeblocks"
	"github.com/markdave123-py/Appcraft/internal/logger"
	"github.com/markdave123-py/Appcraft/internal/models"
)

// ProjectWriter is the slice of the project store the orchestrator needs.
type ProjectWriter interface {
	Put(id string, files *models.Files)
}

type Input struct {
	Prompt    string
	History   []models.Turn
	ProjectID string
}

type Result struct {
	Message   string
	Files     *models.Files
	ProjectID string
	// Fallback is set when the files came from the local template generator.
	Fallback bool
}

type Orchestrator struct {
	llm        core.LLMProvider
	store      ProjectWriter
	extractor  core.FileExtractor
	timeout    time.Duration
	maxHistory int
	log        *logger.Logger
}

type Option func(*Orchestrator)

func WithTimeout(d time.Duration) Option {
	return func(o *Orchestrator) { o.timeout = d }
}

// WithMaxHistory caps how many of the most recent turns are forwarded.
func WithMaxHistory(n int) Option {
	return func(o *Orchestrator) { o.maxHistory = n }
}

func WithExtractor(e core.FileExtractor) Option {
	return func(o *Orchestrator) { o.extractor = e }
}

// NewOrchestrator builds an orchestrator. llm may be nil, in which case
// every request is served by the fallback generator.
func NewOrchestrator(llm core.LLMProvider, store ProjectWriter, log *logger.Logger, opts ...Option) *Orchestrator {
	if log == nil {
		log = logger.Nop()
	}
	o := &Orchestrator{
		llm:       llm,
		store:     store,
		extractor: codeblocks.Extractor{},
		log:       log.With("component", "Orchestrator"),
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Configured reports whether a completion provider is wired in.
func (o *Orchestrator) Configured() bool { return o.llm != nil }

func (o *Orchestrator) Model() string {
	if o.llm == nil {
		return ""
	}
	return o.llm.Model()
}

func (o *Orchestrator) Generate(ctx context.Context, in Input) (Result, error) {
	return o.run(ctx, in, nil)
}

// GenerateStream behaves like Generate but reports progress while the
// completion is outstanding. onProgress is called from the calling goroutine.
func (o *Orchestrator) GenerateStream(ctx context.Context, in Input, onProgress func(string)) (Result, error) {
	if onProgress == nil {
		onProgress = func(string) {}
	}
	return o.run(ctx, in, onProgress)
}

func (o *Orchestrator) run(ctx context.Context, in Input, onProgress func(string)) (Result, error) {
	prompt := strings.TrimSpace(in.Prompt)
	if prompt == "" {
		return Result{}, apperr.Invalid("message", "message is required")
	}
	projectID := in.ProjectID
	if projectID == "" {
		projectID = uuid.NewString()
	}
	progress := func(msg string) {
		if onProgress != nil {
			onProgress(msg)
		}
	}

	progress("Analyzing your request...")
	start := time.Now()
	files, message, err := o.complete(ctx, prompt, o.recent(in.History), onProgress)

	res := Result{ProjectID: projectID}
	if err != nil {
		o.log.Warn("generation failed, using local template",
			"projectId", projectID,
			"error", err,
			"elapsed", time.Since(start).String(),
		)
		res.Files = Fallback(prompt)
		res.Message = fallbackMessage
		res.Fallback = true
	} else {
		progress(fmt.Sprintf("Extracted %d file(s)", files.Len()))
		res.Files = files
		res.Message = message
		o.log.Info("generation completed",
			"projectId", projectID,
			"files", files.Len(),
			"elapsed", time.Since(start).String(),
		)
	}

	o.store.Put(projectID, res.Files)
	return res, nil
}

// complete calls the provider, streaming when onProgress is set, and extracts
// files. Any failure is reported as ErrServiceUnavailable or
// ErrEmptyExtraction so run can fall back.
func (o *Orchestrator) complete(ctx context.Context, prompt string, history []models.Turn, onProgress func(string)) (*models.Files, string, error) {
	if o.llm == nil {
		return nil, "", fmt.Errorf("no completion provider configured: %w", apperr.ErrServiceUnavailable)
	}
	if o.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, o.timeout)
		defer cancel()
	}

	req := core.CompletionRequest{
		SystemPrompt: systemPrompt,
		History:      history,
		Prompt:       buildPrompt(prompt),
	}

	var (
		text string
		err  error
	)
	if onProgress != nil {
		received := 0
		text, err = o.llm.GenerateStream(ctx, req, func(chunk string) {
			received += len(chunk)
			onProgress(fmt.Sprintf("Generating code... (%d characters received)", received))
		})
	} else {
		text, err = o.llm.Generate(ctx, req)
	}
	if err != nil {
		if errors.Is(err, apperr.ErrServiceUnavailable) {
			return nil, "", err
		}
		return nil, "", fmt.Errorf("%w: %v", apperr.ErrServiceUnavailable, err)
	}
	if strings.TrimSpace(text) == "" {
		return nil, "", fmt.Errorf("empty completion: %w", apperr.ErrServiceUnavailable)
	}

	files := o.extractor.Extract(text)
	if files.Len() == 0 {
		return nil, "", apperr.ErrEmptyExtraction
	}
	return files, summarize(text, files), nil
}

func (o *Orchestrator) recent(history []models.Turn) []models.Turn {
	if o.maxHistory > 0 && len(history) > o.maxHistory {
		history = history[len(history)-o.maxHistory:]
	}
	return history
}

// summarize returns the prose around the code blocks, or a file summary
// when the model answered with code only.
func summarize(text string, files *models.Files) string {
	if prose := codeblocks.Prose(text); prose != "" {
		return prose
	}
	return fmt.Sprintf("Created %d file(s): %s", files.Len(), strings.Join(files.Paths(), ", "))
}

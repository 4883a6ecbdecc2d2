package generation

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/markdave123-py/Appcraft/internal/apperr"
	"github.com/markdave123-py/Appcraft/internal/core"
	"github.com/markdave123-py/Appcraft/internal/core/projectstore"
	"github.com/markdave123-py/Appcraft/internal/models"
)

type fakeLLM struct {
	GenerateFunc       func(ctx context.Context, req core.CompletionRequest) (string, error)
	GenerateStreamFunc func(ctx context.Context, req core.CompletionRequest, onChunk func(string)) (string, error)
}

func (f *fakeLLM) Generate(ctx context.Context, req core.CompletionRequest) (string, error) {
	return f.GenerateFunc(ctx, req)
}

func (f *fakeLLM) GenerateStream(ctx context.Context, req core.CompletionRequest, onChunk func(string)) (string, error) {
	return f.GenerateStreamFunc(ctx, req, onChunk)
}

func (f *fakeLLM) Model() string { return "fake-model" }

const siteReply = "Here is your landing page.\n\n```html:index.html\n<h1>Hi</h1>\n```\n\n```css\nh1 { color: red; }\n```\n"

func TestCalculatorFallbackWhenProviderUnavailable(t *testing.T) {
	store := projectstore.New(nil)
	o := NewOrchestrator(nil, store, nil)

	res, err := o.Generate(context.Background(), Input{Prompt: "build me a calculator", ProjectID: "p1"})
	require.NoError(t, err)

	assert.True(t, res.Fallback)
	require.Equal(t, 1, res.Files.Len())
	entry, ok := res.Files.Get("index.html")
	require.True(t, ok)
	assert.NotEmpty(t, entry.Content)
	assert.Contains(t, entry.Content, "Calculator")

	stored, ok := store.Get("p1")
	require.True(t, ok)
	assert.True(t, stored.Equal(res.Files))
}

func TestFallbackOnProviderError(t *testing.T) {
	llm := &fakeLLM{GenerateFunc: func(context.Context, core.CompletionRequest) (string, error) {
		return "", errors.New("503 from upstream")
	}}
	o := NewOrchestrator(llm, projectstore.New(nil), nil)

	res, err := o.Generate(context.Background(), Input{Prompt: "a todo list", ProjectID: "p1"})
	require.NoError(t, err)

	assert.True(t, res.Fallback)
	entry, ok := res.Files.Get("index.html")
	require.True(t, ok)
	assert.Contains(t, entry.Content, "Todo")
}

func TestFallbackOnEmptyExtraction(t *testing.T) {
	llm := &fakeLLM{GenerateFunc: func(context.Context, core.CompletionRequest) (string, error) {
		return "Sorry, I can only describe it in words.", nil
	}}
	o := NewOrchestrator(llm, projectstore.New(nil), nil)

	res, err := o.Generate(context.Background(), Input{Prompt: "a weather dashboard", ProjectID: "p1"})
	require.NoError(t, err)

	assert.True(t, res.Fallback)
	entry, ok := res.Files.Get("index.html")
	require.True(t, ok)
	assert.Contains(t, entry.Content, "a weather dashboard")
}

func TestGenerateExtractsAndStoresFiles(t *testing.T) {
	var got core.CompletionRequest
	llm := &fakeLLM{GenerateFunc: func(_ context.Context, req core.CompletionRequest) (string, error) {
		got = req
		return siteReply, nil
	}}
	store := projectstore.New(nil)
	o := NewOrchestrator(llm, store, nil)

	res, err := o.Generate(context.Background(), Input{Prompt: "landing page", ProjectID: "p1"})
	require.NoError(t, err)

	assert.False(t, res.Fallback)
	assert.Equal(t, "p1", res.ProjectID)
	assert.Equal(t, "Here is your landing page.", res.Message)
	assert.Equal(t, []string{"index.html", "styles.css"}, res.Files.Paths())
	assert.True(t, strings.HasSuffix(got.Prompt, "User request:\nlanding page"))
	assert.Equal(t, systemPrompt, got.SystemPrompt)

	_, ok := store.Get("p1")
	assert.True(t, ok)
}

func TestPromptKeepsUserTextVerbatim(t *testing.T) {
	request := "a page that says \"hi\"\nwith two lines"

	got := buildPrompt(request)

	assert.True(t, strings.HasSuffix(got, request))
	assert.NotContains(t, got, `\n`)
	assert.NotContains(t, got, `\"`)
}

func TestGenerateAssignsProjectID(t *testing.T) {
	o := NewOrchestrator(nil, projectstore.New(nil), nil)

	res, err := o.Generate(context.Background(), Input{Prompt: "hello"})
	require.NoError(t, err)
	assert.NotEmpty(t, res.ProjectID)
}

func TestGenerateRejectsEmptyPrompt(t *testing.T) {
	o := NewOrchestrator(nil, projectstore.New(nil), nil)

	_, err := o.Generate(context.Background(), Input{Prompt: "  "})
	require.Error(t, err)
	assert.ErrorIs(t, err, apperr.ErrInvalidRequest)
}

func TestHistoryIsCappedToMostRecentTurns(t *testing.T) {
	var got []models.Turn
	llm := &fakeLLM{GenerateFunc: func(_ context.Context, req core.CompletionRequest) (string, error) {
		got = req.History
		return siteReply, nil
	}}
	o := NewOrchestrator(llm, projectstore.New(nil), nil, WithMaxHistory(2))

	history := []models.Turn{
		{Role: models.RoleUser, Content: "one"},
		{Role: models.RoleAssistant, Content: "two"},
		{Role: models.RoleUser, Content: "three"},
	}
	_, err := o.Generate(context.Background(), Input{Prompt: "more", History: history, ProjectID: "p"})
	require.NoError(t, err)

	require.Len(t, got, 2)
	assert.Equal(t, "two", got[0].Content)
	assert.Equal(t, "three", got[1].Content)
}

func TestTimeoutBoundsTheProviderCall(t *testing.T) {
	llm := &fakeLLM{GenerateFunc: func(ctx context.Context, _ core.CompletionRequest) (string, error) {
		<-ctx.Done()
		return "", ctx.Err()
	}}
	o := NewOrchestrator(llm, projectstore.New(nil), nil, WithTimeout(10*time.Millisecond))

	res, err := o.Generate(context.Background(), Input{Prompt: "calc", ProjectID: "p"})
	require.NoError(t, err)
	assert.True(t, res.Fallback)
}

func TestGenerateStreamReportsProgress(t *testing.T) {
	llm := &fakeLLM{GenerateStreamFunc: func(_ context.Context, _ core.CompletionRequest, onChunk func(string)) (string, error) {
		half := len(siteReply) / 2
		onChunk(siteReply[:half])
		onChunk(siteReply[half:])
		return siteReply, nil
	}}
	o := NewOrchestrator(llm, projectstore.New(nil), nil)

	var events []string
	res, err := o.GenerateStream(context.Background(), Input{Prompt: "landing page", ProjectID: "p"}, func(msg string) {
		events = append(events, msg)
	})
	require.NoError(t, err)

	assert.False(t, res.Fallback)
	require.Len(t, events, 4)
	assert.Equal(t, "Analyzing your request...", events[0])
	assert.True(t, strings.HasPrefix(events[1], "Generating code..."))
	assert.Equal(t, "Extracted 2 file(s)", events[3])
}

func TestSummaryWhenReplyIsCodeOnly(t *testing.T) {
	llm := &fakeLLM{GenerateFunc: func(context.Context, core.CompletionRequest) (string, error) {
		return "```js\nconsole.log(1)\n```", nil
	}}
	o := NewOrchestrator(llm, projectstore.New(nil), nil)

	res, err := o.Generate(context.Background(), Input{Prompt: "script", ProjectID: "p"})
	require.NoError(t, err)
	assert.Equal(t, "Created 1 file(s): script.js", res.Message)
}

func TestFallbackTemplates(t *testing.T) {
	cases := map[string]string{
		"Make a TODO app":         "Todo App",
		"task tracker":            "Todo App",
		"scientific calculator":   "<title>Calculator</title>",
		"portfolio for a painter": "Portfolio For A Painter",
	}
	for prompt, want := range cases {
		files := Fallback(prompt)
		require.Equal(t, 1, files.Len(), prompt)
		entry, ok := files.Get("index.html")
		require.True(t, ok, prompt)
		assert.Contains(t, entry.Content, want, prompt)
		assert.Equal(t, "html", entry.Language)
	}
}

func TestPlaceholderEscapesPrompt(t *testing.T) {
	files := Fallback("<script>alert(1)</script>")
	entry, _ := files.Get("index.html")
	assert.NotContains(t, entry.Content, "<script>alert(1)</script>")
	assert.Contains(t, entry.Content, "&lt;script&gt;")
}

type extractorFunc func(string) *models.Files

func (f extractorFunc) Extract(text string) *models.Files { return f(text) }

func TestCustomExtractor(t *testing.T) {
	llm := &fakeLLM{GenerateFunc: func(context.Context, core.CompletionRequest) (string, error) {
		return "plain text answer", nil
	}}
	custom := extractorFunc(func(text string) *models.Files {
		f := models.NewFiles()
		f.Set("README.md", models.FileEntry{Content: text})
		return f
	})
	o := NewOrchestrator(llm, projectstore.New(nil), nil, WithExtractor(custom))

	res, err := o.Generate(context.Background(), Input{Prompt: "docs", ProjectID: "p"})
	require.NoError(t, err)
	assert.False(t, res.Fallback)
	assert.Equal(t, []string{"README.md"}, res.Files.Paths())
}

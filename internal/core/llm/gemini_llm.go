package llm

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/iterator"
	"google.golang.org/api/option"

	"github.com/markdave123-py/Appcraft/internal/core"
	"github.com/markdave123-py/Appcraft/internal/models"
)

type GeminiLLM struct {
	client    *genai.Client
	modelName string
}

func NewGeminiLLM(ctx context.Context, apiKey, modelName string) (*GeminiLLM, error) {
	if apiKey == "" {
		apiKey = os.Getenv("GEMINI_API_KEY")
	}
	if apiKey == "" {
		return nil, errors.New("gemini api key is empty")
	}
	cl, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, err
	}
	if modelName == "" {
		modelName = "gemini-1.5-flash"
	}
	return &GeminiLLM{client: cl, modelName: modelName}, nil
}

func (g *GeminiLLM) Close() error {
	if g.client != nil {
		return g.client.Close()
	}
	return nil
}

func (g *GeminiLLM) Model() string { return g.modelName }

func (g *GeminiLLM) Generate(ctx context.Context, req core.CompletionRequest) (string, error) {
	cs, parts := g.chat(req)

	resp, err := cs.SendMessage(ctx, parts...)
	if err != nil {
		return "", fmt.Errorf("gemini generate: %w", err)
	}
	return responseText(resp), nil
}

func (g *GeminiLLM) GenerateStream(ctx context.Context, req core.CompletionRequest, onChunk func(string)) (string, error) {
	cs, parts := g.chat(req)

	it := cs.SendMessageStream(ctx, parts...)
	var b strings.Builder
	for {
		resp, err := it.Next()
		if errors.Is(err, iterator.Done) {
			break
		}
		if err != nil {
			return "", fmt.Errorf("gemini stream: %w", err)
		}
		chunk := responseText(resp)
		if chunk == "" {
			continue
		}
		b.WriteString(chunk)
		if onChunk != nil {
			onChunk(chunk)
		}
	}
	return b.String(), nil
}

// chat prepares a chat session seeded with the request history and returns
// the parts of the message to send.
func (g *GeminiLLM) chat(req core.CompletionRequest) (*genai.ChatSession, []genai.Part) {
	m := g.client.GenerativeModel(g.modelName)
	m.SetTemperature(0.3)
	m.SetMaxOutputTokens(8192)
	if req.SystemPrompt != "" {
		m.SystemInstruction = &genai.Content{
			Parts: []genai.Part{genai.Text(req.SystemPrompt)},
		}
	}

	history, parts := splitHistory(req.History, req.Prompt)
	cs := m.StartChat()
	cs.History = history
	return cs, parts
}

// splitHistory returns the history to seed and the message parts to send.
// A history ending on a user turn would put two user contents in a row, so
// that turn is sent together with the prompt instead.
func splitHistory(turns []models.Turn, prompt string) ([]*genai.Content, []genai.Part) {
	history := historyContents(turns)
	parts := []genai.Part{genai.Text(prompt)}
	if n := len(history); n > 0 && history[n-1].Role == "user" {
		parts = append(history[n-1].Parts, parts...)
		history = history[:n-1]
	}
	return history, parts
}

// historyContents maps conversation turns onto Gemini's "user"/"model" roles.
// Gemini wants the roles to alternate, so blank turns are dropped and
// consecutive turns of the same role are folded into one content.
func historyContents(turns []models.Turn) []*genai.Content {
	out := make([]*genai.Content, 0, len(turns))
	for _, t := range turns {
		if strings.TrimSpace(t.Content) == "" {
			continue
		}
		role := "user"
		if t.Role == models.RoleAssistant {
			role = "model"
		}
		if n := len(out); n > 0 && out[n-1].Role == role {
			out[n-1].Parts = append(out[n-1].Parts, genai.Text(t.Content))
			continue
		}
		out = append(out, &genai.Content{Role: role, Parts: []genai.Part{genai.Text(t.Content)}})
	}
	return out
}

func responseText(resp *genai.GenerateContentResponse) string {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return ""
	}
	var b strings.Builder
	for _, p := range resp.Candidates[0].Content.Parts {
		if t, ok := p.(genai.Text); ok {
			b.WriteString(string(t))
		}
	}
	return b.String()
}

var _ core.LLMProvider = (*GeminiLLM)(nil)

package llm

import (
	"context"
	"testing"

	"github.com/google/generative-ai-go/genai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/markdave123-py/Appcraft/internal/models"
)

func TestHistoryContentsMapsRoles(t *testing.T) {
	out := historyContents([]models.Turn{
		{Role: models.RoleUser, Content: "build a todo app"},
		{Role: models.RoleAssistant, Content: "done"},
		{Role: models.RoleUser, Content: "   "},
	})

	require.Len(t, out, 2)
	assert.Equal(t, "user", out[0].Role)
	assert.Equal(t, "model", out[1].Role)
	assert.Equal(t, genai.Text("done"), out[1].Parts[0])
}

func TestHistoryContentsAlternatesRoles(t *testing.T) {
	out := historyContents([]models.Turn{
		{Role: models.RoleUser, Content: "make a game"},
		{Role: models.RoleAssistant, Content: ""},
		{Role: models.RoleUser, Content: "with a score board"},
		{Role: models.RoleAssistant, Content: "done"},
		{Role: models.RoleAssistant, Content: "anything else?"},
	})

	require.Len(t, out, 2)
	assert.Equal(t, "user", out[0].Role)
	assert.Equal(t, []genai.Part{genai.Text("make a game"), genai.Text("with a score board")}, out[0].Parts)
	assert.Equal(t, "model", out[1].Role)
	assert.Len(t, out[1].Parts, 2)
}

func TestSplitHistorySendsTrailingUserTurnWithPrompt(t *testing.T) {
	history, parts := splitHistory([]models.Turn{
		{Role: models.RoleUser, Content: "make a game"},
		{Role: models.RoleAssistant, Content: "done"},
		{Role: models.RoleUser, Content: "unanswered"},
	}, "add sound")

	require.Len(t, history, 2)
	assert.Equal(t, "model", history[1].Role)
	assert.Equal(t, []genai.Part{genai.Text("unanswered"), genai.Text("add sound")}, parts)

	history, parts = splitHistory(nil, "hello")
	assert.Empty(t, history)
	assert.Equal(t, []genai.Part{genai.Text("hello")}, parts)
}

func TestResponseText(t *testing.T) {
	assert.Equal(t, "", responseText(nil))
	assert.Equal(t, "", responseText(&genai.GenerateContentResponse{}))

	resp := &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{{
			Content: &genai.Content{Parts: []genai.Part{genai.Text("a"), genai.Text("b")}},
		}},
	}
	assert.Equal(t, "ab", responseText(resp))
}

func TestNewGeminiLLMRequiresKey(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "")
	_, err := NewGeminiLLM(context.Background(), "", "")
	assert.Error(t, err)
}

package generation

import (
	"bytes"
	"embed"
	"html/template"
	"strings"
	"unicode"

	"github.com/markdave123-py/Appcraft/internal/models"
)

//go:embed templates/*.html
var templateFS embed.FS

var placeholderTmpl = template.Must(template.ParseFS(templateFS, "templates/placeholder.html"))

const fallbackMessage = "I couldn't reach the code generator, so I created a working starter application for you. Send your request again to get a tailored version."

// Fallback builds a deterministic project from keywords in the prompt. It
// always returns exactly one index.html.
func Fallback(prompt string) *models.Files {
	lower := strings.ToLower(prompt)

	var content string
	switch {
	case strings.Contains(lower, "todo") || strings.Contains(lower, "task"):
		content = mustRead("templates/todo.html")
	case strings.Contains(lower, "calculator") || strings.Contains(lower, "calc"):
		content = mustRead("templates/calculator.html")
	default:
		content = placeholderPage(prompt)
	}

	files := models.NewFiles()
	files.Set("index.html", models.FileEntry{Content: content, Language: "html"})
	return files
}

func mustRead(name string) string {
	b, err := templateFS.ReadFile(name)
	if err != nil {
		panic(err)
	}
	return string(b)
}

func placeholderPage(prompt string) string {
	prompt = strings.TrimSpace(prompt)
	if prompt == "" {
		prompt = "hello world"
	}
	var buf bytes.Buffer
	err := placeholderTmpl.Execute(&buf, struct{ Title, Prompt string }{
		Title:  titleFor(prompt),
		Prompt: prompt,
	})
	if err != nil {
		// Only reachable if the embedded template is broken.
		return "<!DOCTYPE html><html><body><h1>My App</h1></body></html>"
	}
	return buf.String()
}

// titleFor turns the first few words of a prompt into a heading.
func titleFor(prompt string) string {
	words := strings.Fields(prompt)
	if len(words) > 6 {
		words = words[:6]
	}
	for i, w := range words {
		r := []rune(w)
		r[0] = unicode.ToUpper(r[0])
		words[i] = string(r)
	}
	return strings.Join(words, " ")
}

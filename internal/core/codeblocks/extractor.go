// Package codeblocks turns a free-form model reply into a file mapping by
// scanning it for fenced code blocks.
package codeblocks

import (
	"fmt"
	"strings"

	"github.com/markdave123-py/Appcraft/internal/core"
	"github.com/markdave123-py/Appcraft/internal/models"
)

const fence = "```"

var _ core.FileExtractor = Extractor{}

// defaultNames maps a declared language to the file it lands in when the
// fence header carries no explicit path.
var defaultNames = map[string]string{
	"html":       "index.html",
	"css":        "styles.css",
	"javascript": "script.js",
	"js":         "script.js",
	"jsx":        "App.jsx",
	"python":     "main.py",
	"json":       "data.json",
	"typescript": "main.ts",
	"ts":         "main.ts",
}

// Block is one fenced region found in a response.
type Block struct {
	Language string
	Path     string // explicit path from the header, empty when absent
	Body     string // trimmed
	Start    int    // offset of the opening fence
	End      int    // offset just past the closing fence
}

// Extractor is the stateless implementation of core.FileExtractor.
type Extractor struct{}

func (Extractor) Extract(text string) *models.Files { return Extract(text) }

// Extract returns path -> entry for every non-empty fenced block in text.
// Later blocks overwrite earlier ones that resolve to the same path.
func Extract(text string) *models.Files {
	files := models.NewFiles()
	unnamed := 0
	for _, b := range Scan(text) {
		if b.Body == "" {
			continue
		}
		p := b.Path
		if p == "" {
			p = DefaultName(b.Language, unnamed)
			unnamed++
		}
		lang := b.Language
		if lang == "" {
			lang = models.LanguageForPath(p)
		}
		files.Set(p, models.FileEntry{Content: b.Body, Language: lang})
	}
	return files
}

// DefaultName resolves the filename for a block without an explicit path.
// n is the zero-based index of the block among unnamed blocks.
func DefaultName(language string, n int) string {
	if language == "" {
		language = "text"
	}
	if name, ok := defaultNames[language]; ok {
		return name
	}
	return fmt.Sprintf("file%d.%s", n, language)
}

// Scan finds fenced blocks left to right without nesting. Each fence open is
// paired with the next fence close; an unterminated fence ends the scan.
// Runs in time linear in len(text).
func Scan(text string) []Block {
	var blocks []Block
	pos := 0
	// lineEnd is the offset of the first newline at or after pos, carried
	// across inline fences on the same line so each line is searched once.
	lineEnd := -1
	for pos < len(text) {
		open := strings.Index(text[pos:], fence)
		if open < 0 {
			break
		}
		open += pos
		headerStart := open + len(fence)

		if lineEnd < headerStart {
			nl := strings.IndexByte(text[headerStart:], '\n')
			if nl < 0 {
				break
			}
			lineEnd = headerStart + nl
		}
		header := text[headerStart:lineEnd]

		// ```inline``` on a single line is not a file.
		if i := strings.Index(header, fence); i >= 0 {
			pos = headerStart + i + len(fence)
			continue
		}

		bodyStart := lineEnd + 1
		closeAt := strings.Index(text[bodyStart:], fence)
		if closeAt < 0 {
			break
		}
		closeAt += bodyStart

		lang, p := parseHeader(header)
		blocks = append(blocks, Block{
			Language: lang,
			Path:     p,
			Body:     strings.TrimSpace(text[bodyStart:closeAt]),
			Start:    open,
			End:      closeAt + len(fence),
		})
		pos = closeAt + len(fence)
	}
	return blocks
}

// parseHeader splits "lang:some/path.ext" into its parts. Only the first
// word of the language part counts, so "html title" still reads as html.
func parseHeader(header string) (lang, p string) {
	header = strings.TrimSpace(header)
	langPart := header
	if i := strings.IndexByte(header, ':'); i >= 0 {
		langPart = header[:i]
		p = strings.TrimSpace(header[i+1:])
	}
	if fields := strings.Fields(langPart); len(fields) > 0 {
		lang = strings.ToLower(fields[0])
	}
	return lang, p
}

// Prose returns the response text with every fenced block removed, for use
// as the human-readable chat message.
func Prose(text string) string {
	var b strings.Builder
	last := 0
	for _, blk := range Scan(text) {
		b.WriteString(text[last:blk.Start])
		last = blk.End
	}
	b.WriteString(text[last:])

	lines := strings.Split(b.String(), "\n")
	out := make([]string, 0, len(lines))
	blank := 0
	for _, line := range lines {
		line = strings.TrimRight(line, " \t\r")
		if line == "" {
			blank++
			if blank > 1 {
				continue
			}
		} else {
			blank = 0
		}
		out = append(out, line)
	}
	return strings.TrimSpace(strings.Join(out, "\n"))
}

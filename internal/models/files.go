package models

import (
	"path"
	"strings"

	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// FileEntry is one generated file. Path is the key it is stored under.
type FileEntry struct {
	Path     string `json:"-"`
	Content  string `json:"content"`
	Language string `json:"language"`
}

// Files maps relative paths to entries and remembers insertion order.
// The zero value is ready to use.
type Files struct {
	m *orderedmap.OrderedMap[string, FileEntry]
}

func NewFiles() *Files {
	return &Files{m: orderedmap.New[string, FileEntry]()}
}

func (f *Files) init() {
	if f.m == nil {
		f.m = orderedmap.New[string, FileEntry]()
	}
}

// Set stores entry under p. Re-setting an existing path keeps its original position.
func (f *Files) Set(p string, entry FileEntry) {
	f.init()
	entry.Path = p
	if entry.Language == "" {
		entry.Language = LanguageForPath(p)
	}
	f.m.Set(p, entry)
}

func (f *Files) Get(p string) (FileEntry, bool) {
	if f == nil || f.m == nil {
		return FileEntry{}, false
	}
	return f.m.Get(p)
}

func (f *Files) Delete(p string) {
	if f == nil || f.m == nil {
		return
	}
	f.m.Delete(p)
}

func (f *Files) Len() int {
	if f == nil || f.m == nil {
		return 0
	}
	return f.m.Len()
}

// Entries returns the files in insertion order.
func (f *Files) Entries() []FileEntry {
	if f == nil || f.m == nil {
		return nil
	}
	out := make([]FileEntry, 0, f.m.Len())
	for pair := f.m.Oldest(); pair != nil; pair = pair.Next() {
		out = append(out, pair.Value)
	}
	return out
}

func (f *Files) Paths() []string {
	entries := f.Entries()
	out := make([]string, len(entries))
	for i, e := range entries {
		out[i] = e.Path
	}
	return out
}

// Clone returns an independent copy preserving order.
func (f *Files) Clone() *Files {
	out := NewFiles()
	for _, e := range f.Entries() {
		out.Set(e.Path, e)
	}
	return out
}

// Equal reports whether both mappings hold the same paths and entries, ignoring order.
func (f *Files) Equal(other *Files) bool {
	if f.Len() != other.Len() {
		return false
	}
	for _, e := range f.Entries() {
		o, ok := other.Get(e.Path)
		if !ok || o != e {
			return false
		}
	}
	return true
}

func (f *Files) MarshalJSON() ([]byte, error) {
	f.init()
	return f.m.MarshalJSON()
}

func (f *Files) UnmarshalJSON(data []byte) error {
	m := orderedmap.New[string, FileEntry]()
	if err := m.UnmarshalJSON(data); err != nil {
		return err
	}
	f.m = orderedmap.New[string, FileEntry]()
	for pair := m.Oldest(); pair != nil; pair = pair.Next() {
		f.Set(pair.Key, pair.Value)
	}
	return nil
}

var extLanguages = map[string]string{
	".html": "html",
	".htm":  "html",
	".css":  "css",
	".scss": "scss",
	".js":   "javascript",
	".jsx":  "javascript",
	".mjs":  "javascript",
	".ts":   "typescript",
	".tsx":  "typescript",
	".json": "json",
	".md":   "markdown",
	".py":   "python",
	".go":   "go",
	".rs":   "rust",
	".java": "java",
	".rb":   "ruby",
	".php":  "php",
	".vue":  "vue",
	".svg":  "svg",
	".yml":  "yaml",
	".yaml": "yaml",
	".sh":   "bash",
}

// LanguageForPath infers a language tag from the file extension, "text" when unknown.
func LanguageForPath(p string) string {
	if lang, ok := extLanguages[strings.ToLower(path.Ext(p))]; ok {
		return lang
	}
	return "text"
}

package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFilesKeepInsertionOrder(t *testing.T) {
	f := NewFiles()
	f.Set("app.js", FileEntry{Content: "x"})
	f.Set("index.html", FileEntry{Content: "<p>"})
	f.Set("about.html", FileEntry{Content: "<a>"})

	assert.Equal(t, []string{"app.js", "index.html", "about.html"}, f.Paths())

	f.Set("app.js", FileEntry{Content: "y"})
	assert.Equal(t, []string{"app.js", "index.html", "about.html"}, f.Paths())
	got, ok := f.Get("app.js")
	require.True(t, ok)
	assert.Equal(t, "y", got.Content)
	assert.Equal(t, "javascript", got.Language)
	assert.Equal(t, "app.js", got.Path)
}

func TestFilesJSONPreservesOrder(t *testing.T) {
	raw := `{"z.css":{"content":"a","language":"css"},"a.html":{"content":"b"}}`

	var f Files
	require.NoError(t, json.Unmarshal([]byte(raw), &f))
	assert.Equal(t, []string{"z.css", "a.html"}, f.Paths())

	entry, ok := f.Get("a.html")
	require.True(t, ok)
	assert.Equal(t, "html", entry.Language)
	assert.Equal(t, "a.html", entry.Path)

	out, err := json.Marshal(&f)
	require.NoError(t, err)
	assert.JSONEq(t, `{"z.css":{"content":"a","language":"css"},"a.html":{"content":"b","language":"html"}}`, string(out))
}

func TestFilesCloneIsIndependent(t *testing.T) {
	f := NewFiles()
	f.Set("index.html", FileEntry{Content: "one"})

	c := f.Clone()
	c.Set("index.html", FileEntry{Content: "two"})
	c.Set("extra.css", FileEntry{Content: "three"})

	orig, _ := f.Get("index.html")
	assert.Equal(t, "one", orig.Content)
	assert.Equal(t, 1, f.Len())
	assert.False(t, f.Equal(c))
}

func TestZeroValueFiles(t *testing.T) {
	var f *Files
	assert.Equal(t, 0, f.Len())
	assert.Nil(t, f.Entries())
	_, ok := f.Get("x")
	assert.False(t, ok)
}

func TestLanguageForPath(t *testing.T) {
	assert.Equal(t, "typescript", LanguageForPath("src/App.tsx"))
	assert.Equal(t, "html", LanguageForPath("INDEX.HTML"))
	assert.Equal(t, "text", LanguageForPath("Makefile"))
}

// Package preview serves stored projects as browsable pages.
package preview

import (
	"bytes"
	"html/template"
	"net/http"
	"net/url"
	"strings"

	"github.com/markdave123-py/Appcraft/internal/logger"
	"github.com/markdave123-py/Appcraft/internal/models"
)

const entryFile = "index.html"

// ProjectReader is the read side of the project store.
type ProjectReader interface {
	Get(id string) (*models.Files, bool)
}

type Responder struct {
	store ProjectReader
	log   *logger.Logger
}

func NewResponder(store ProjectReader, log *logger.Logger) *Responder {
	if log == nil {
		log = logger.Nop()
	}
	return &Responder{store: store, log: log.With("component", "PreviewResponder")}
}

// URL is the public path of a project's preview page. It ends in a slash so
// relative references inside the page resolve to the project's own files.
func URL(projectID string) string {
	return "/preview/" + url.PathEscape(projectID) + "/"
}

// FileURL is the public path of one raw file inside a project.
func FileURL(projectID, p string) string {
	segs := strings.Split(p, "/")
	for i, s := range segs {
		segs[i] = url.PathEscape(s)
	}
	return URL(projectID) + strings.Join(segs, "/")
}

// Entry picks the page a project opens on: index.html, otherwise the first
// html file in insertion order.
func Entry(files *models.Files) (models.FileEntry, bool) {
	if e, ok := files.Get(entryFile); ok {
		return e, true
	}
	for _, e := range files.Entries() {
		if ContentType(e.Path) == "text/html" {
			return e, true
		}
	}
	return models.FileEntry{}, false
}

// ServeProject writes the entry page of projectID, or a generated listing
// when the project has no html file.
func (r *Responder) ServeProject(w http.ResponseWriter, req *http.Request, projectID string) {
	files, ok := r.store.Get(projectID)
	if !ok {
		http.Error(w, "project not found", http.StatusNotFound)
		return
	}

	if e, ok := Entry(files); ok {
		writeFile(w, "text/html", e.Content)
		return
	}

	page, err := Listing(projectID, files)
	if err != nil {
		r.log.Error("render listing", "projectId", projectID, "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	writeFile(w, "text/html", page)
}

// ServeFile writes one raw file with the content type of its extension.
func (r *Responder) ServeFile(w http.ResponseWriter, req *http.Request, projectID, p string) {
	files, ok := r.store.Get(projectID)
	if !ok {
		http.Error(w, "project not found", http.StatusNotFound)
		return
	}
	e, ok := files.Get(p)
	if !ok {
		http.Error(w, "file not found", http.StatusNotFound)
		return
	}
	writeFile(w, ContentType(p), e.Content)
}

func writeFile(w http.ResponseWriter, contentType, content string) {
	if strings.HasPrefix(contentType, "text/") || strings.HasSuffix(contentType, "javascript") || strings.HasSuffix(contentType, "json") {
		contentType += "; charset=utf-8"
	}
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(content))
}

var listingTmpl = template.Must(template.New("listing").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="UTF-8">
<title>Project {{.ID}}</title>
<style>
body { font-family: -apple-system, BlinkMacSystemFont, sans-serif; max-width: 720px; margin: 40px auto; padding: 0 16px; color: #333; }
li { padding: 6px 0; }
.lang { color: #888; font-size: 0.85em; margin-left: 8px; }
</style>
</head>
<body>
<h1>Project files</h1>
<ul>
{{range .Files}}<li><a href="{{.URL}}">{{.Path}}</a><span class="lang">{{.Language}}</span></li>
{{end}}</ul>
</body>
</html>
`))

type listingFile struct {
	Path     string
	Language string
	URL      string
}

// Listing renders an index page linking every file of the project.
func Listing(projectID string, files *models.Files) (string, error) {
	data := struct {
		ID    string
		Files []listingFile
	}{ID: projectID}
	for _, e := range files.Entries() {
		data.Files = append(data.Files, listingFile{
			Path:     e.Path,
			Language: e.Language,
			URL:      FileURL(projectID, e.Path),
		})
	}

	var buf bytes.Buffer
	if err := listingTmpl.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}

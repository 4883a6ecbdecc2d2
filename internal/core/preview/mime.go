package preview

import (
	"path"
	"strings"
)

var mimeTypes = map[string]string{
	".html": "text/html",
	".css":  "text/css",
	".js":   "application/javascript",
	".json": "application/json",
	".png":  "image/png",
	".jpg":  "image/jpeg",
	".svg":  "image/svg+xml",
}

// ContentType maps a file path to the content type it is served with.
// Unknown extensions are served as text/plain.
func ContentType(p string) string {
	if ct, ok := mimeTypes[strings.ToLower(path.Ext(p))]; ok {
		return ct
	}
	return "text/plain"
}

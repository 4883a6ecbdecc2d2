package core

import "github.com/markdave123-py/Appcraft/internal/models"

// FileExtractor turns a raw model response into a file mapping. An empty
// mapping is a valid result.
type FileExtractor interface {
	Extract(text string) *models.Files
}

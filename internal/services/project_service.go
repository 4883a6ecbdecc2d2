package services

import (
	"context"
	"strings"

	"github.com/markdave123-py/Appcraft/internal/apperr"
	"github.com/markdave123-py/Appcraft/internal/core/preview"
	"github.com/markdave123-py/Appcraft/internal/models"
)

// ProjectStore is the project table shared by chat, preview and export.
type ProjectStore interface {
	Put(id string, files *models.Files)
	Get(id string) (*models.Files, bool)
	Delete(id string)
	ListIDs() []string
	Len() int
}

// FileInfo is one file as listed by the project-files endpoint.
type FileInfo struct {
	Path     string `json:"path"`
	Content  string `json:"content"`
	Language string `json:"language"`
	Size     int    `json:"size"`
}

type ProjectService struct {
	store ProjectStore
}

func NewProjectService(store ProjectStore) *ProjectService {
	return &ProjectService{store: store}
}

// Save replaces the whole file mapping of a project and returns its preview URL.
func (s *ProjectService) Save(_ context.Context, projectID string, files *models.Files) (string, error) {
	projectID = strings.TrimSpace(projectID)
	if err := checkProjectID(projectID); err != nil {
		return "", err
	}
	if files.Len() == 0 {
		return "", apperr.Invalid("files", "at least one file is required")
	}
	s.store.Put(projectID, files)
	return preview.URL(projectID), nil
}

func (s *ProjectService) Delete(_ context.Context, projectID string) error {
	if err := checkProjectID(strings.TrimSpace(projectID)); err != nil {
		return err
	}
	s.store.Delete(projectID)
	return nil
}

func (s *ProjectService) Files(_ context.Context, projectID string) ([]FileInfo, error) {
	files, ok := s.store.Get(projectID)
	if !ok {
		return nil, apperr.ProjectNotFound(projectID)
	}
	out := make([]FileInfo, 0, files.Len())
	for _, e := range files.Entries() {
		out = append(out, FileInfo{
			Path:     e.Path,
			Content:  e.Content,
			Language: e.Language,
			Size:     len(e.Content),
		})
	}
	return out, nil
}

// Lookup returns the project's files when it exists.
func (s *ProjectService) Lookup(projectID string) (*models.Files, bool) {
	return s.store.Get(projectID)
}

func (s *ProjectService) IDs() []string { return s.store.ListIDs() }

func (s *ProjectService) Count() int { return s.store.Len() }

// checkProjectID rejects ids that could not be used as a single directory
// or object key segment.
func checkProjectID(id string) error {
	if id == "" {
		return apperr.Invalid("projectId", "projectId is required")
	}
	if !models.ValidProjectID(id) {
		e := apperr.PathTraversal(id)
		e.Field = "projectId"
		return e
	}
	return nil
}

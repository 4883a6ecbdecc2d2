// Package projectstore holds the latest file mapping of every project for
// the lifetime of the process.
package projectstore

import (
	"sort"
	"sync"

	"github.com/markdave123-py/Appcraft/internal/logger"
	"github.com/markdave123-py/Appcraft/internal/models"
)

// Store is safe for concurrent use. Writes replace a project's mapping
// wholesale; concurrent writers to one id resolve as last-writer-wins.
type Store struct {
	mu       sync.RWMutex
	projects map[string]*models.Files
	log      *logger.Logger
}

func New(log *logger.Logger) *Store {
	if log == nil {
		log = logger.Nop()
	}
	return &Store{
		projects: make(map[string]*models.Files),
		log:      log.With("component", "ProjectStore"),
	}
}

// Put replaces whatever is stored under id. The store keeps its own copy.
func (s *Store) Put(id string, files *models.Files) {
	snapshot := files.Clone()

	s.mu.Lock()
	prev, existed := s.projects[id]
	s.projects[id] = snapshot
	total := len(s.projects)
	s.mu.Unlock()

	s.log.Info("stored project",
		"projectId", id,
		"files", snapshot.Len(),
		"previousFiles", prev.Len(),
		"replaced", existed,
		"totalProjects", total,
	)
}

// Get returns a copy of the mapping for id.
func (s *Store) Get(id string) (*models.Files, bool) {
	s.mu.RLock()
	files, ok := s.projects[id]
	s.mu.RUnlock()
	if !ok {
		return nil, false
	}
	return files.Clone(), true
}

// Delete removes id; deleting an unknown id is a no-op.
func (s *Store) Delete(id string) {
	s.mu.Lock()
	_, existed := s.projects[id]
	delete(s.projects, id)
	s.mu.Unlock()

	if existed {
		s.log.Info("deleted project", "projectId", id)
	}
}

// ListIDs returns the stored ids in lexical order. Diagnostics only.
func (s *Store) ListIDs() []string {
	s.mu.RLock()
	ids := make([]string, 0, len(s.projects))
	for id := range s.projects {
		ids = append(ids, id)
	}
	s.mu.RUnlock()

	sort.Strings(ids)
	return ids
}

func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.projects)
}

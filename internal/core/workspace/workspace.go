// Package workspace mirrors generated projects onto disk under a sandbox root.
package workspace

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/markdave123-py/Appcraft/internal/apperr"
	"github.com/markdave123-py/Appcraft/internal/logger"
	"github.com/markdave123-py/Appcraft/internal/models"
)

const (
	maxParallelWrites = 8
	// stagingDir holds half-written projects. Project ids never start with
	// a dot, so it cannot collide with a project directory.
	stagingDir = ".staging"
)

type Workspace struct {
	root string
	log  *logger.Logger

	// swapMu serializes the rename that publishes a staged project.
	swapMu sync.Mutex
}

func New(root string, log *logger.Logger) (*Workspace, error) {
	if log == nil {
		log = logger.Nop()
	}
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("workspace root: %w", err)
	}
	if err := os.MkdirAll(abs, 0o755); err != nil {
		return nil, fmt.Errorf("create workspace root: %w", err)
	}
	return &Workspace{root: abs, log: log.With("component", "Workspace")}, nil
}

func (w *Workspace) Root() string { return w.root }

// Resolve returns the absolute on-disk location of p inside projectID's
// directory. Anything that would land outside that directory is rejected.
func (w *Workspace) Resolve(projectID, p string) (string, error) {
	projectDir, err := w.projectDir(projectID)
	if err != nil {
		return "", err
	}
	target, err := within(projectDir, p)
	if err != nil || target == projectDir {
		return "", apperr.PathTraversal(p)
	}
	return target, nil
}

// Sync replaces the on-disk copy of a project with exactly files. All paths
// are checked before any write happens, and the new tree is written to a
// staging directory first, so a failed sync leaves the previous copy intact.
func (w *Workspace) Sync(ctx context.Context, projectID string, files *models.Files) error {
	projectDir, err := w.projectDir(projectID)
	if err != nil {
		return err
	}
	entries := files.Entries()
	rels := make([]string, len(entries))
	for i, e := range entries {
		target, err := w.Resolve(projectID, e.Path)
		if err != nil {
			return err
		}
		if rels[i], err = filepath.Rel(projectDir, target); err != nil {
			return apperr.PathTraversal(e.Path)
		}
	}

	stageRoot := filepath.Join(w.root, stagingDir)
	if err := os.MkdirAll(stageRoot, 0o755); err != nil {
		return fmt.Errorf("create staging dir: %w", err)
	}
	stage, err := os.MkdirTemp(stageRoot, projectID+"-*")
	if err != nil {
		return fmt.Errorf("create staging dir: %w", err)
	}
	defer os.RemoveAll(stage)
	if err := os.Chmod(stage, 0o755); err != nil {
		return fmt.Errorf("chmod staging dir: %w", err)
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxParallelWrites)
	for i, e := range entries {
		target, content := filepath.Join(stage, rels[i]), e.Content
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
				return fmt.Errorf("mkdir %s: %w", target, err)
			}
			if err := os.WriteFile(target, []byte(content), 0o644); err != nil {
				return fmt.Errorf("write %s: %w", target, err)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	if err := w.publish(stage, projectDir); err != nil {
		return err
	}
	w.log.Debug("project mirrored", "projectId", projectID, "files", len(entries))
	return nil
}

// publish moves stage into place as projectDir, discarding the old tree.
func (w *Workspace) publish(stage, projectDir string) error {
	w.swapMu.Lock()
	defer w.swapMu.Unlock()

	old := stage + ".old"
	hadOld := true
	if err := os.Rename(projectDir, old); err != nil {
		if !os.IsNotExist(err) {
			return fmt.Errorf("retire %s: %w", projectDir, err)
		}
		hadOld = false
	}
	if err := os.Rename(stage, projectDir); err != nil {
		if hadOld {
			_ = os.Rename(old, projectDir)
		}
		return fmt.Errorf("publish %s: %w", projectDir, err)
	}
	if hadOld {
		if err := os.RemoveAll(old); err != nil {
			w.log.Warn("could not remove previous project copy", "path", old, "error", err)
		}
	}
	return nil
}

// projectDir is the directory of projectID, which must be a single segment
// strictly below the workspace root.
func (w *Workspace) projectDir(projectID string) (string, error) {
	if !models.ValidProjectID(projectID) {
		return "", apperr.PathTraversal(projectID)
	}
	dir, err := within(w.root, projectID)
	if err != nil || dir == w.root {
		return "", apperr.PathTraversal(projectID)
	}
	return dir, nil
}

// within joins rel onto base and verifies the absolute result stays under base.
func within(base, rel string) (string, error) {
	if rel == "" || filepath.IsAbs(rel) {
		return "", apperr.ErrPathTraversal
	}
	abs, err := filepath.Abs(filepath.Join(base, filepath.FromSlash(rel)))
	if err != nil {
		return "", err
	}
	if abs != base && !strings.HasPrefix(abs, base+string(filepath.Separator)) {
		return "", apperr.ErrPathTraversal
	}
	return abs, nil
}

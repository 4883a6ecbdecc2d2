package services

import (
	"context"
	"fmt"
	"net/http"
	"path"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/markdave123-py/Appcraft/internal/apperr"
	"github.com/markdave123-py/Appcraft/internal/core"
	objectclient "github.com/markdave123-py/Appcraft/internal/core/object-client"
	"github.com/markdave123-py/Appcraft/internal/core/preview"
	"github.com/markdave123-py/Appcraft/internal/logger"
)

const maxParallelUploads = 4

type ExportService struct {
	store   ProjectStore
	objects core.ObjectClient
	bucket  string
	log     *logger.Logger
}

// NewExportService builds the exporter. objects may be nil when no object
// storage is configured; Export then answers with ErrServiceUnavailable.
func NewExportService(store ProjectStore, objects core.ObjectClient, bucket string, log *logger.Logger) *ExportService {
	if log == nil {
		log = logger.Nop()
	}
	return &ExportService{store: store, objects: objects, bucket: bucket, log: log.With("component", "ExportService")}
}

// Export uploads every file of the project and returns their URLs in the
// project's file order. A failed export removes what it already uploaded.
func (s *ExportService) Export(ctx context.Context, projectID string) ([]string, error) {
	if s.objects == nil {
		return nil, apperr.New(http.StatusServiceUnavailable, "storage_unavailable",
			fmt.Errorf("object storage is not configured: %w", apperr.ErrServiceUnavailable))
	}
	if err := checkProjectID(projectID); err != nil {
		return nil, err
	}
	files, ok := s.store.Get(projectID)
	if !ok {
		return nil, apperr.ProjectNotFound(projectID)
	}

	entries := files.Entries()
	for _, e := range entries {
		if escapesRoot(e.Path) {
			return nil, apperr.PathTraversal(e.Path)
		}
	}

	var (
		mu       sync.Mutex
		uploaded []string
	)
	urls := make([]string, len(entries))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxParallelUploads)
	for i, e := range entries {
		key := objectclient.ProjectKey(projectID, e.Path)
		g.Go(func() error {
			url, err := s.objects.UploadFile(gctx, s.bucket, key, strings.NewReader(e.Content), preview.ContentType(e.Path))
			if err != nil {
				return fmt.Errorf("upload %s: %w", e.Path, err)
			}
			urls[i] = url
			mu.Lock()
			uploaded = append(uploaded, key)
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		s.cleanup(ctx, uploaded)
		return nil, err
	}

	s.log.Info("project exported", "projectId", projectID, "files", len(urls), "bucket", s.bucket)
	return urls, nil
}

func (s *ExportService) cleanup(ctx context.Context, keys []string) {
	for _, key := range keys {
		if err := s.objects.DeleteFile(ctx, s.bucket, key); err != nil {
			s.log.Warn("export cleanup failed", "key", key, "error", err)
		}
	}
}

func escapesRoot(p string) bool {
	if p == "" || path.IsAbs(p) || strings.HasPrefix(p, `\`) {
		return true
	}
	cleaned := path.Clean(strings.ReplaceAll(p, `\`, "/"))
	return cleaned == ".." || strings.HasPrefix(cleaned, "../")
}

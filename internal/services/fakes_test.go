package services

import (
	"context"
	"io"
	"sync"

	"github.com/markdave123-py/Appcraft/internal/core"
	"github.com/markdave123-py/Appcraft/internal/models"
)

type fakeLLM struct {
	GenerateFunc func(ctx context.Context, req core.CompletionRequest) (string, error)
}

func (f *fakeLLM) Generate(ctx context.Context, req core.CompletionRequest) (string, error) {
	return f.GenerateFunc(ctx, req)
}

func (f *fakeLLM) GenerateStream(ctx context.Context, req core.CompletionRequest, onChunk func(string)) (string, error) {
	text, err := f.GenerateFunc(ctx, req)
	if err == nil && onChunk != nil {
		onChunk(text)
	}
	return text, err
}

func (f *fakeLLM) Model() string { return "fake" }

type fakeMirror struct {
	SyncFunc func(ctx context.Context, projectID string, files *models.Files) error
}

func (f *fakeMirror) Sync(ctx context.Context, projectID string, files *models.Files) error {
	return f.SyncFunc(ctx, projectID, files)
}

type fakeObjects struct {
	mu         sync.Mutex
	UploadFunc func(ctx context.Context, bucket, key string, data io.Reader, contentType string) (string, error)
	deleted    []string
}

func (f *fakeObjects) UploadFile(ctx context.Context, bucket, key string, data io.Reader, contentType string) (string, error) {
	return f.UploadFunc(ctx, bucket, key, data, contentType)
}

func (f *fakeObjects) DeleteFile(_ context.Context, _, key string) error {
	f.mu.Lock()
	f.deleted = append(f.deleted, key)
	f.mu.Unlock()
	return nil
}

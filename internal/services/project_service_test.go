package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/markdave123-py/Appcraft/internal/apperr"
	"github.com/markdave123-py/Appcraft/internal/core/projectstore"
	"github.com/markdave123-py/Appcraft/internal/models"
)

func TestProjectSaveReplacesWholeMapping(t *testing.T) {
	svc := NewProjectService(projectstore.New(nil))
	ctx := context.Background()

	a := models.NewFiles()
	a.Set("index.html", models.FileEntry{Content: "A"})
	a.Set("old.js", models.FileEntry{Content: "old"})
	url, err := svc.Save(ctx, "p1", a)
	require.NoError(t, err)
	assert.Equal(t, "/preview/p1/", url)

	b := models.NewFiles()
	b.Set("index.html", models.FileEntry{Content: "B"})
	_, err = svc.Save(ctx, "p1", b)
	require.NoError(t, err)

	files, err := svc.Files(ctx, "p1")
	require.NoError(t, err)
	require.Len(t, files, 1)
	assert.Equal(t, FileInfo{Path: "index.html", Content: "B", Language: "html", Size: 1}, files[0])
}

func TestProjectSaveValidation(t *testing.T) {
	svc := NewProjectService(projectstore.New(nil))
	files := models.NewFiles()
	files.Set("index.html", models.FileEntry{Content: "x"})

	_, err := svc.Save(context.Background(), "", files)
	assert.ErrorIs(t, err, apperr.ErrInvalidRequest)

	_, err = svc.Save(context.Background(), "p1", models.NewFiles())
	assert.ErrorIs(t, err, apperr.ErrInvalidRequest)
}

func TestProjectSaveRejectsIDsThatAreNotOneSegment(t *testing.T) {
	store := projectstore.New(nil)
	svc := NewProjectService(store)
	files := models.NewFiles()
	files.Set("index.html", models.FileEntry{Content: "x"})

	for _, id := range []string{".", "..", "../p2", "a/b"} {
		_, err := svc.Save(context.Background(), id, files)
		assert.ErrorIs(t, err, apperr.ErrPathTraversal, id)
		assert.Equal(t, 400, apperr.StatusOf(err), id)
	}
	assert.Equal(t, 0, store.Len())
}

func TestProjectDeleteIsIdempotent(t *testing.T) {
	svc := NewProjectService(projectstore.New(nil))
	ctx := context.Background()

	require.NoError(t, svc.Delete(ctx, "missing"))
	_, err := svc.Files(ctx, "missing")
	assert.ErrorIs(t, err, apperr.ErrProjectNotFound)
	assert.Error(t, svc.Delete(ctx, ""))
}

package core

import (
	"context"
	"io"

	"github.com/markdave123-py/Appcraft/internal/models"
)

// UserStore is the narrow persistence surface the auth flow needs.
// Lookups return (nil, nil) when nothing matches.
type UserStore interface {
	CreateUser(ctx context.Context, user *models.User) error
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	GetUserByID(ctx context.Context, id string) (*models.User, error)
	RecordLogin(ctx context.Context, userID string, info models.LoginInfo) error
	Close() error
}

// ObjectClient is the object storage surface used for project export.
type ObjectClient interface {
	UploadFile(ctx context.Context, bucket, key string, data io.Reader, contentType string) (url string, err error)
	DeleteFile(ctx context.Context, bucket, key string) error
}

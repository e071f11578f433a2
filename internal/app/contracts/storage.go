package contracts

import (
	"context"
	"io"
)

type Storage interface {
	UploadObject(ctx context.Context, objectName, contentType string, file io.Reader, size int64) (string, error)
}

package storage

import (
	"context"
	"errors"
	"io"
	"path"
	"strings"

	"github.com/google/uuid"
)

var ErrUploadsDisabled = errors.New("image uploads are not configured")

type UploadResult struct {
	Key      string
	Location string
	ETag     string
}

// FileUploader — хранилище картинок событий и категорий.
type FileUploader interface {
	Upload(ctx context.Context, key string, contentType string, reader io.Reader) (*UploadResult, error)

	Delete(ctx context.Context, key string) error

	GetPublicURL(key string) string
}

// File — загружаемый файл вместе с метаданными из multipart-формы.
type File struct {
	Name        string
	ContentType string
	Reader      io.Reader
}

// ObjectKey строит уникальный ключ объекта: prefix/<uuid><ext>.
func ObjectKey(prefix, filename string) string {
	ext := strings.ToLower(path.Ext(filename))
	switch ext {
	case ".jpg", ".jpeg", ".png", ".webp", ".heic":
	default:
		ext = ""
	}
	return path.Join(strings.Trim(prefix, "/"), uuid.NewString()+ext)
}

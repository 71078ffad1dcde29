package filestorage

import (
	"errors"
	"mime/multipart"
)

// MaxImageSize bounds uploaded property images (5 MB)
const MaxImageSize = 5 << 20

var (
	ErrUnsupportedType = errors.New("unsupported image type")
	ErrFileTooLarge    = errors.New("file too large")
)

// FileStorage defines the interface for file storage operations
type FileStorage interface {
	// SaveImage validates and stores an image under subPath and returns its public path
	SaveImage(fileHeader *multipart.FileHeader, subPath string) (string, error)

	// DeleteFile removes a previously stored file. Missing files are not an error.
	DeleteFile(filePath string) error
}

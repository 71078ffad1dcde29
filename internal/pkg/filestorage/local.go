package filestorage

import (
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/yigit/hostelpg/internal/pkg/logger"
)

// PublicPrefix is the URL prefix the server mounts the storage directory under
const PublicPrefix = "/uploads"

var imageExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".webp": true,
}

// LocalStorage handles saving files to the local filesystem.
type LocalStorage struct {
	basePath string // root directory on disk
	baseURL  string // optional absolute URL prefix for returned paths
}

// NewLocalStorage creates a new LocalStorage instance rooted at basePath.
func NewLocalStorage(basePath, baseURL string) (*LocalStorage, error) {
	if err := os.MkdirAll(basePath, 0o755); err != nil {
		logger.Error().Err(err).Str("path", basePath).Msg("Failed to create storage directory")
		return nil, fmt.Errorf("failed to create storage directory %s: %w", basePath, err)
	}
	logger.Info().Str("path", basePath).Msg("Local storage directory ensured")

	return &LocalStorage{
		basePath: basePath,
		baseURL:  strings.TrimRight(baseURL, "/"),
	}, nil
}

// BasePath returns the directory served under PublicPrefix
func (ls *LocalStorage) BasePath() string {
	return ls.basePath
}

// SaveImage stores an uploaded image in subPath under a random name
func (ls *LocalStorage) SaveImage(fileHeader *multipart.FileHeader, subPath string) (string, error) {
	if fileHeader == nil {
		return "", fmt.Errorf("%w: no file", ErrUnsupportedType)
	}

	ext := strings.ToLower(filepath.Ext(fileHeader.Filename))
	if !imageExtensions[ext] {
		return "", fmt.Errorf("%w: %s", ErrUnsupportedType, ext)
	}
	if fileHeader.Size > MaxImageSize {
		return "", fmt.Errorf("%w: %d bytes", ErrFileTooLarge, fileHeader.Size)
	}

	subPath = filepath.Clean("/" + subPath)[1:]

	file, err := fileHeader.Open()
	if err != nil {
		logger.Error().Err(err).Str("filename", fileHeader.Filename).Msg("Failed to open uploaded file")
		return "", fmt.Errorf("failed to open uploaded file: %w", err)
	}
	defer file.Close()

	dir := filepath.Join(ls.basePath, subPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		logger.Error().Err(err).Str("path", dir).Msg("Failed to create subdirectory")
		return "", fmt.Errorf("failed to create subdirectory: %w", err)
	}

	name := uuid.New().String() + ext
	dstPath := filepath.Join(dir, name)

	dst, err := os.Create(dstPath)
	if err != nil {
		logger.Error().Err(err).Str("path", dstPath).Msg("Failed to create destination file")
		return "", fmt.Errorf("failed to create destination file: %w", err)
	}
	defer dst.Close()

	// Cap the copy in case the header under-reports the size
	written, err := io.Copy(dst, io.LimitReader(file, MaxImageSize+1))
	if err == nil && written > MaxImageSize {
		err = ErrFileTooLarge
	}
	if err != nil {
		_ = os.Remove(dstPath)
		logger.Error().Err(err).Str("path", dstPath).Msg("Failed to copy uploaded file content")
		return "", fmt.Errorf("failed to save file content: %w", err)
	}

	publicPath := path.Join(PublicPrefix, filepath.ToSlash(subPath), name)
	if ls.baseURL != "" {
		publicPath = ls.baseURL + publicPath
	}

	logger.Info().Str("filename", fileHeader.Filename).Str("saved_as", publicPath).Msg("File saved successfully")
	return publicPath, nil
}

// DeleteFile removes a file given the public path SaveImage returned.
func (ls *LocalStorage) DeleteFile(filePath string) error {
	if filePath == "" {
		return nil
	}

	rel := filePath
	if ls.baseURL != "" {
		rel = strings.TrimPrefix(rel, ls.baseURL)
	}
	rel = strings.TrimPrefix(rel, PublicPrefix)
	rel = filepath.Clean("/" + rel)[1:]
	if rel == "" {
		return fmt.Errorf("invalid file path: %s", filePath)
	}

	physicalPath := filepath.Join(ls.basePath, rel)
	if err := os.Remove(physicalPath); err != nil {
		if os.IsNotExist(err) {
			logger.Warn().Str("path", physicalPath).Msg("File to delete does not exist")
			return nil
		}
		logger.Error().Err(err).Str("path", physicalPath).Msg("Failed to delete file")
		return fmt.Errorf("failed to delete file: %w", err)
	}

	logger.Info().Str("path", physicalPath).Msg("File deleted successfully")
	return nil
}

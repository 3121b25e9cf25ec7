package filestorage

import (
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/proske/proske-backend/internal/pkg/logger"
)

// LocalStorage stores uploads on the local filesystem under basePath,
// one subdirectory per bucket.
type LocalStorage struct {
	basePath string
	baseURL  string
}

// NewLocalStorage creates the storage root if it does not exist yet.
// baseURL, when set, is prepended to returned paths so clients get
// absolute URLs.
func NewLocalStorage(basePath, baseURL string) (*LocalStorage, error) {
	if err := os.MkdirAll(basePath, os.ModePerm); err != nil {
		return nil, fmt.Errorf("failed to create storage directory %s: %w", basePath, err)
	}
	logger.Info().Str("path", basePath).Msg("Local storage directory ensured")

	return &LocalStorage{
		basePath: basePath,
		baseURL:  baseURL,
	}, nil
}

// SaveFile writes the upload into the bucket subdirectory under a
// generated filename and returns the accessible path.
func (ls *LocalStorage) SaveFile(fileHeader *multipart.FileHeader, bucket string) (string, error) {
	if fileHeader == nil {
		return "", nil
	}

	file, err := fileHeader.Open()
	if err != nil {
		logger.Error().Err(err).Str("filename", fileHeader.Filename).Msg("Failed to open uploaded file")
		return "", fmt.Errorf("failed to open uploaded file: %w", err)
	}
	defer file.Close()

	dirPath := ls.basePath
	if bucket != "" {
		dirPath = filepath.Join(ls.basePath, bucket)
		if err := os.MkdirAll(dirPath, os.ModePerm); err != nil {
			return "", fmt.Errorf("failed to create bucket directory: %w", err)
		}
	}

	// Random filename keeps uploads collision-free and hides originals
	uniqueFilename := uuid.New().String() + filepath.Ext(fileHeader.Filename)
	dstPath := filepath.Join(dirPath, uniqueFilename)

	dst, err := os.Create(dstPath)
	if err != nil {
		return "", fmt.Errorf("failed to create destination file: %w", err)
	}
	defer dst.Close()

	if _, err = io.Copy(dst, file); err != nil {
		_ = os.Remove(dstPath)
		return "", fmt.Errorf("failed to save file content: %w", err)
	}

	accessiblePath := path(ls.baseURL, bucket, uniqueFilename)
	logger.Info().
		Str("filename", fileHeader.Filename).
		Str("saved_as", uniqueFilename).
		Str("accessible_path", accessiblePath).
		Msg("File saved")
	return accessiblePath, nil
}

// DeleteFile removes a stored file given its accessible path. Missing
// files are treated as already deleted.
func (ls *LocalStorage) DeleteFile(filePath string) error {
	if filePath == "" {
		return nil
	}

	filename := filepath.Base(filePath)
	if filename == "" || filename == "." || filename == "/" {
		return fmt.Errorf("invalid file path: %s", filePath)
	}

	bucket := filepath.Base(filepath.Dir(filePath))
	physicalPath := filepath.Join(ls.basePath, bucket, filename)
	if _, err := os.Stat(physicalPath); os.IsNotExist(err) {
		// Older records stored flat paths without a bucket
		physicalPath = filepath.Join(ls.basePath, filename)
	}

	if _, err := os.Stat(physicalPath); os.IsNotExist(err) {
		logger.Warn().Str("path", physicalPath).Msg("File to delete does not exist")
		return nil
	}

	if err := os.Remove(physicalPath); err != nil {
		return fmt.Errorf("failed to delete file: %w", err)
	}

	logger.Info().Str("path", physicalPath).Msg("File deleted")
	return nil
}

func path(baseURL, bucket, filename string) string {
	parts := []string{}
	if baseURL != "" {
		parts = append(parts, strings.TrimRight(baseURL, "/"))
	} else {
		parts = append(parts, "uploads")
	}
	if bucket != "" {
		parts = append(parts, bucket)
	}
	parts = append(parts, filename)
	return strings.Join(parts, "/")
}

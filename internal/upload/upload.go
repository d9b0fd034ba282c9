// Package upload stores resume files on local disk. Stored files are exposed
// through the /uploads static route; the storage layout is
// <dir>/resumes/<unix-millis>-<rand><ext>.
package upload

import (
	"fmt"
	"io"
	"math/rand"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"
	"time"

	"ethidata/internal/config"
	apperrors "ethidata/pkg/errors"
)

var allowedExtensions = map[string]bool{
	".pdf":  true,
	".doc":  true,
	".docx": true,
}

// Service saves uploaded resumes under the configured directory.
type Service struct {
	dir     string
	maxSize int64
}

// NewService creates the upload service and ensures the resume directory
// exists.
func NewService(cfg *config.UploadConfig) (*Service, error) {
	resumeDir := filepath.Join(cfg.Dir, "resumes")
	if err := os.MkdirAll(resumeDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create upload directory: %w", err)
	}
	return &Service{dir: cfg.Dir, maxSize: cfg.MaxFileSize}, nil
}

// Dir returns the root upload directory, for static file serving.
func (s *Service) Dir() string {
	return s.dir
}

// SaveResume validates and persists the uploaded file, returning the public
// URL path it will be served under.
func (s *Service) SaveResume(fh *multipart.FileHeader) (string, error) {
	if fh.Size > s.maxSize {
		return "", apperrors.New(apperrors.ErrCodeBadRequest,
			fmt.Sprintf("Resume file is too large (max %d MB)", s.maxSize/(1024*1024)))
	}

	ext := strings.ToLower(filepath.Ext(fh.Filename))
	if !allowedExtensions[ext] {
		return "", apperrors.New(apperrors.ErrCodeBadRequest,
			"Invalid file type. Only PDF, DOC, and DOCX files are allowed.")
	}

	src, err := fh.Open()
	if err != nil {
		return "", fmt.Errorf("failed to open uploaded file: %w", err)
	}
	defer src.Close()

	filename := fmt.Sprintf("%d-%d%s", time.Now().UnixMilli(), rand.Int63n(1_000_000_000), ext)
	dstPath := filepath.Join(s.dir, "resumes", filename)

	dst, err := os.Create(dstPath)
	if err != nil {
		return "", fmt.Errorf("failed to create resume file: %w", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		os.Remove(dstPath)
		return "", fmt.Errorf("failed to write resume file: %w", err)
	}

	return "/uploads/resumes/" + filename, nil
}

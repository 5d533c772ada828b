package services

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/gofrs/uuid"
	"go.uber.org/zap"
)

type fileService struct {
	uploadsDir  string
	maxFileSize int64
	logger      *zap.Logger
}

// NewFileService creates the local-disk upload store.
func NewFileService(uploadsDir string, maxFileSize int64, logger *zap.Logger) (FileService, error) {
	if err := os.MkdirAll(uploadsDir, 0o755); err != nil {
		return nil, fmt.Errorf("create uploads directory %s: %w", uploadsDir, err)
	}
	return &fileService{uploadsDir: uploadsDir, maxFileSize: maxFileSize, logger: logger}, nil
}

// Save stores an upload under a collision-free name derived from the
// original filename and returns the public path it is served from.
func (s *fileService) Save(ctx context.Context, filename string, r io.Reader) (string, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	base := strings.TrimSuffix(filepath.Base(filename), filepath.Ext(filename))
	base = sanitizeFilename(base)

	id, err := uuid.NewV4()
	if err != nil {
		return "", NewInternalError("failed to generate file name", err)
	}
	stored := fmt.Sprintf("%s-%s%s", base, id.String(), ext)
	target := filepath.Join(s.uploadsDir, stored)

	out, err := os.Create(target)
	if err != nil {
		return "", NewInternalError("failed to store upload", err)
	}
	defer out.Close()

	written, err := io.Copy(out, io.LimitReader(r, s.maxFileSize+1))
	if err != nil {
		os.Remove(target)
		return "", NewInternalError("failed to store upload", err)
	}
	if written > s.maxFileSize {
		os.Remove(target)
		return "", NewValidationError(fmt.Sprintf("file exceeds the %d byte limit", s.maxFileSize), nil)
	}

	s.logger.Info("stored upload",
		zap.String("filename", stored),
		zap.Int64("bytes", written),
	)
	return "/uploads/" + stored, nil
}

// Delete removes a previously stored upload. Paths outside the uploads
// directory are rejected.
func (s *fileService) Delete(ctx context.Context, publicPath string) error {
	name := filepath.Base(strings.TrimPrefix(publicPath, "/uploads/"))
	if name == "" || name == "." || name == string(filepath.Separator) {
		return NewValidationError("invalid upload path", nil)
	}

	target := filepath.Join(s.uploadsDir, name)
	if err := os.Remove(target); err != nil {
		if os.IsNotExist(err) {
			return NewNotFoundError("upload not found")
		}
		return NewInternalError("failed to delete upload", err)
	}
	return nil
}

// sanitizeFilename keeps letters, digits, dashes and underscores.
func sanitizeFilename(name string) string {
	var b strings.Builder
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			b.WriteRune(r)
		default:
			b.WriteRune('-')
		}
	}
	if b.Len() == 0 {
		return "file"
	}
	return b.String()
}

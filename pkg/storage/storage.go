package storage

import (
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

// allowed upload extensions for payment proof images
var allowedExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".webp": true,
}

// Store persists uploaded files under a base directory and hands back
// the public URL path they are served from.
type Store interface {
	SaveUpload(file *multipart.FileHeader, subdir string) (string, error)
	Remove(urlPath string) error
}

type fileStore struct {
	basePath  string
	publicURL string
}

// NewFileStore creates a local-disk store. publicURL is the URL prefix
// the saved files are served under (e.g. "/uploads").
func NewFileStore(basePath, publicURL string) Store {
	return &fileStore{basePath: basePath, publicURL: publicURL}
}

// SaveUpload stores the multipart file under a unique name and returns
// its URL path.
func (s *fileStore) SaveUpload(file *multipart.FileHeader, subdir string) (string, error) {
	ext := strings.ToLower(filepath.Ext(file.Filename))
	if !allowedExtensions[ext] {
		return "", fmt.Errorf("unsupported file type %q", ext)
	}

	dir := filepath.Join(s.basePath, subdir)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create upload dir: %w", err)
	}

	filename := fmt.Sprintf("%d-%s%s", time.Now().Unix(), uuid.New().String()[:8], ext)
	dst := filepath.Join(dir, filename)

	src, err := file.Open()
	if err != nil {
		return "", err
	}
	defer src.Close()

	out, err := os.Create(dst)
	if err != nil {
		return "", err
	}
	defer out.Close()

	if _, err := io.Copy(out, src); err != nil {
		return "", err
	}

	return path.Join(s.publicURL, subdir, filename), nil
}

// Remove deletes a previously saved file by its URL path.
func (s *fileStore) Remove(urlPath string) error {
	rel := strings.TrimPrefix(urlPath, s.publicURL)
	return os.Remove(filepath.Join(s.basePath, filepath.FromSlash(rel)))
}

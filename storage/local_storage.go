package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"
)

type LocalStorage struct {
	baseDir string
}

func NewLocalStorage(baseDir string) *LocalStorage {
	return &LocalStorage{baseDir: baseDir}
}

func (s *LocalStorage) userPath(userID uint, key string) string {
	return filepath.Join(s.baseDir, fmt.Sprintf("user_%d", userID), filepath.FromSlash(key))
}

func (s *LocalStorage) Upload(ctx context.Context, file io.Reader, userID uint, key string) (string, error) {
	path := s.userPath(userID, key)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return "", fmt.Errorf("failed to create user directory: %w", err)
	}

	out, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("failed to create file: %w", err)
	}
	defer out.Close()

	if _, err := io.Copy(out, file); err != nil {
		return "", fmt.Errorf("failed to write file: %w", err)
	}

	logrus.WithFields(logrus.Fields{"user": userID, "key": key}).Debug("Stored blob locally")
	return key, nil
}

func (s *LocalStorage) Open(ctx context.Context, userID uint, key string) (io.ReadCloser, error) {
	return os.Open(s.userPath(userID, key))
}

func (s *LocalStorage) Exists(ctx context.Context, userID uint, key string) (bool, error) {
	_, err := os.Stat(s.userPath(userID, key))
	if os.IsNotExist(err) {
		return false, nil
	}
	return err == nil, err
}

func (s *LocalStorage) Delete(ctx context.Context, userID uint, key string) error {
	return os.Remove(s.userPath(userID, key))
}

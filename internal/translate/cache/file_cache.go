// Package cache stores successful translation API responses on disk so that
// re-running a batch does not pay again for texts already seen.
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/at-ishikawa/langtable/internal/translate"
)

type FileCache struct {
	rootDir string
	next    translate.Client
}

var _ translate.Client = (*FileCache)(nil)

// New wraps next with a cache rooted at cacheDirectory
func New(cacheDirectory string, next translate.Client) (*FileCache, error) {
	if err := os.MkdirAll(cacheDirectory, 0755); err != nil {
		return nil, fmt.Errorf("os.MkdirAll > %w", err)
	}
	return &FileCache{
		rootDir: cacheDirectory,
		next:    next,
	}, nil
}

// Factory wraps every client built by factory with a cache in cacheDirectory
func Factory(cacheDirectory string, factory translate.Factory) translate.Factory {
	return func(ctx context.Context) (translate.Client, error) {
		client, err := factory(ctx)
		if err != nil {
			return nil, err
		}
		return New(cacheDirectory, client)
	}
}

func (cache *FileCache) Detect(ctx context.Context, texts []string) ([]translate.Detection, error) {
	var detections []translate.Detection
	err := cache.cache(key("detect", texts...), &detections, func() (any, error) {
		return cache.next.Detect(ctx, texts)
	})
	if err != nil {
		return nil, err
	}
	return detections, nil
}

func (cache *FileCache) Translate(ctx context.Context, text string, target string) (translate.Translation, error) {
	var translation translate.Translation
	err := cache.cache(key("translate", target, text), &translation, func() (any, error) {
		return cache.next.Translate(ctx, text, target)
	})
	if err != nil {
		return translate.Translation{}, err
	}
	return translation, nil
}

func (cache *FileCache) Close() error {
	return cache.next.Close()
}

func key(operation string, parts ...string) string {
	hash := sha256.New()
	hash.Write([]byte(operation))
	for _, part := range parts {
		hash.Write([]byte{0})
		hash.Write([]byte(part))
	}
	return operation + "-" + hex.EncodeToString(hash.Sum(nil))
}

func (cache *FileCache) filePath(key string) string {
	return filepath.Join(cache.rootDir, key+".json")
}

// cache decodes the stored response for key into result, or calls f and stores its response.
// Errors of f are returned as is so their classification survives.
func (cache *FileCache) cache(key string, result any, f func() (any, error)) error {
	localFilePath := cache.filePath(key)
	if _, err := os.Stat(localFilePath); err == nil {
		contents, err := cache.read(key)
		if err != nil {
			return fmt.Errorf("cache.read > %w", err)
		}
		if err := json.Unmarshal(contents, result); err != nil {
			return fmt.Errorf("json.Unmarshal(%s) > %w", localFilePath, err)
		}
		return nil
	}

	response, err := f()
	if err != nil {
		return err
	}
	contents, err := json.Marshal(response)
	if err != nil {
		return fmt.Errorf("json.Marshal > %w", err)
	}
	if err := json.Unmarshal(contents, result); err != nil {
		return fmt.Errorf("json.Unmarshal > %w", err)
	}

	file, err := os.Create(localFilePath)
	if err != nil {
		return fmt.Errorf("os.Create > %w", err)
	}
	defer func() {
		_ = file.Close()
	}()
	if _, err := file.Write(contents); err != nil {
		return fmt.Errorf("file.Write > %w", err)
	}
	return nil
}

func (cache *FileCache) read(key string) ([]byte, error) {
	file, err := os.Open(cache.filePath(key))
	if err != nil {
		return nil, fmt.Errorf("os.Open > %w", err)
	}
	defer func() {
		_ = file.Close()
	}()

	contents, err := io.ReadAll(file)
	if err != nil {
		return nil, fmt.Errorf("io.ReadAll > %w", err)
	}
	return contents, nil
}

// Package storage persists attachment files in an object store.
package storage

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"path"
	"strings"
	"sync"
)

// ObjectRepository defines the interface for attachment storage operations
type ObjectRepository interface {
	// Upload stores data under objectPath and returns the path.
	Upload(ctx context.Context, objectPath string, data io.Reader, contentType string, size int64) (string, error)
	Delete(ctx context.Context, objectPath string) error
	// URL returns a URL clients can download the object from.
	URL(ctx context.Context, objectPath string) (string, error)
}

// ObjectPath builds the object path of an attachment variant, e.g.
// transactions/<transactionID>/<attachmentID>_original.png
func ObjectPath(transactionID, attachmentID, variant, ext string) string {
	filename := fmt.Sprintf("%s_%s%s", attachmentID, variant, ext)
	return path.Join("transactions", transactionID, filename)
}

// Object is a stored file.
type Object struct {
	Data        []byte
	ContentType string
}

// MemoryObjectRepository keeps objects in process memory.
type MemoryObjectRepository struct {
	mu      sync.RWMutex
	objects map[string]Object
	baseURL string
}

// NewMemoryObjectRepository creates a repository whose URLs are baseURL
// joined with the object path.
func NewMemoryObjectRepository(baseURL string) *MemoryObjectRepository {
	if baseURL == "" {
		baseURL = "memory://attachments"
	}
	return &MemoryObjectRepository{
		objects: make(map[string]Object),
		baseURL: strings.TrimRight(baseURL, "/"),
	}
}

func (r *MemoryObjectRepository) Upload(ctx context.Context, objectPath string, data io.Reader, contentType string, size int64) (string, error) {
	var buf bytes.Buffer
	if _, err := io.Copy(&buf, data); err != nil {
		return "", fmt.Errorf("failed to read data: %w", err)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.objects[objectPath] = Object{Data: buf.Bytes(), ContentType: contentType}
	return objectPath, nil
}

func (r *MemoryObjectRepository) Delete(ctx context.Context, objectPath string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.objects, objectPath)
	return nil
}

func (r *MemoryObjectRepository) URL(ctx context.Context, objectPath string) (string, error) {
	return r.baseURL + "/" + objectPath, nil
}

// Get returns a stored object.
func (r *MemoryObjectRepository) Get(objectPath string) (Object, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	obj, ok := r.objects[objectPath]
	return obj, ok
}

// Len returns the number of stored objects.
func (r *MemoryObjectRepository) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.objects)
}

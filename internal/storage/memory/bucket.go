// Package memory is an in-process ObjectStore for local runs and tests.
package memory

import (
	"context"
	"sort"
	"strings"
	"studio-service/internal/storage"
	"sync"
)

const BaseURL = "memory://bucket"

type object struct {
	body        []byte
	contentType string
}

type Bucket struct {
	mu      sync.RWMutex
	objects map[string]object
}

func New() *Bucket {
	return &Bucket{objects: make(map[string]object)}
}

func (b *Bucket) Put(ctx context.Context, key string, body []byte, contentType string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	b.objects[key] = object{body: append([]byte(nil), body...), contentType: contentType}
	return BaseURL + "/" + key, nil
}

func (b *Bucket) Delete(ctx context.Context, key string) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	delete(b.objects, key)
	return nil
}

func (b *Bucket) List(ctx context.Context, prefix string) ([]string, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	var keys []string
	for key := range b.objects {
		if strings.HasPrefix(key, prefix) {
			keys = append(keys, key)
		}
	}
	sort.Strings(keys)
	return keys, nil
}

func (b *Bucket) KeyFromURL(rawURL string) (string, error) {
	return storage.TrimBase(BaseURL, rawURL)
}

// Get returns a copy of the stored body.
func (b *Bucket) Get(key string) ([]byte, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	obj, ok := b.objects[key]
	if !ok {
		return nil, false
	}
	return append([]byte(nil), obj.body...), true
}

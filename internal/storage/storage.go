// Package storage names and stores the binary files behind assets and
// deliverables. Backends return a public URL for every object they accept.
package storage

import (
	"context"
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	projectPrefix  = "projects"
	jobPrefix      = "jobs"
	randomLength   = 8
	defaultName    = "file"
	errNotOwnedFmt = "url %q is not served by this store"
)

type ObjectStore interface {
	Put(ctx context.Context, key string, body []byte, contentType string) (string, error)
	Delete(ctx context.Context, key string) error
	List(ctx context.Context, prefix string) ([]string, error)
	// KeyFromURL recovers the key from a URL returned by Put.
	KeyFromURL(rawURL string) (string, error)
}

// ProjectKey builds projects/<project_id>/<unix_nanos>-<random>-<filename>.
func ProjectKey(projectID uuid.UUID, filename string, now time.Time) string {
	return objectKey(projectPrefix, projectID, filename, now)
}

// JobKey is ProjectKey for creator-job deliverables.
func JobKey(jobID uuid.UUID, filename string, now time.Time) string {
	return objectKey(jobPrefix, jobID, filename, now)
}

func ProjectPrefix(projectID uuid.UUID) string {
	return projectPrefix + "/" + projectID.String() + "/"
}

func JobPrefix(jobID uuid.UUID) string {
	return jobPrefix + "/" + jobID.String() + "/"
}

func objectKey(prefix string, id uuid.UUID, filename string, now time.Time) string {
	random := strings.ReplaceAll(uuid.NewString(), "-", "")[:randomLength]
	return fmt.Sprintf("%s/%s/%d-%s-%s", prefix, id, now.UnixNano(), random, cleanName(filename))
}

func cleanName(filename string) string {
	name := path.Base(strings.ReplaceAll(filename, "\\", "/"))
	name = strings.Map(func(r rune) rune {
		switch {
		case r == ' ':
			return '_'
		case r < 0x20, r == '/', r == '?', r == '#', r == '%':
			return -1
		}
		return r
	}, name)
	if name == "" || name == "." || name == ".." {
		return defaultName
	}
	return name
}

// TrimBase strips base from rawURL, failing when rawURL lives elsewhere.
func TrimBase(base, rawURL string) (string, error) {
	prefix := strings.TrimSuffix(base, "/") + "/"
	if !strings.HasPrefix(rawURL, prefix) || len(rawURL) == len(prefix) {
		return "", fmt.Errorf(errNotOwnedFmt, rawURL)
	}
	return strings.TrimPrefix(rawURL, prefix), nil
}

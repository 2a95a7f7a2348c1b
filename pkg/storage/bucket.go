package storage

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"
)

// Kind selects which validation profile applies to an upload.
type Kind string

const (
	KindDocument Kind = "document"
	KindMedia    Kind = "media"
)

// Limits holds the validation profile for one kind of upload.
type Limits struct {
	AllowedMIMEs []string
	MaxSizeBytes int64
}

// BucketStore persists uploads on disk under per-bucket directories and
// serves them through a public base URL. It implements the two-call
// collaborator contract: Upload returns a public URL, Delete is best-effort.
type BucketStore struct {
	baseDir       string
	publicBaseURL string
	limits        map[Kind]Limits
}

// NewBucketStore ensures the base directory exists and returns a handle.
func NewBucketStore(baseDir, publicBaseURL string, document, media Limits) (*BucketStore, error) {
	if baseDir == "" {
		baseDir = "./storage"
	}
	if err := os.MkdirAll(baseDir, 0o755); err != nil {
		return nil, fmt.Errorf("create storage directory: %w", err)
	}
	return &BucketStore{
		baseDir:       baseDir,
		publicBaseURL: strings.TrimRight(publicBaseURL, "/"),
		limits: map[Kind]Limits{
			KindDocument: document,
			KindMedia:    media,
		},
	}, nil
}

// Validate checks MIME type and size before any upload is attempted.
func (s *BucketStore) Validate(kind Kind, mimeType string, size int64) error {
	limits, ok := s.limits[kind]
	if !ok {
		return fmt.Errorf("unknown upload kind %q", kind)
	}
	allowed := false
	for _, m := range limits.AllowedMIMEs {
		if strings.EqualFold(m, mimeType) {
			allowed = true
			break
		}
	}
	if !allowed {
		return fmt.Errorf("file type %q not allowed", mimeType)
	}
	if limits.MaxSizeBytes > 0 && size > limits.MaxSizeBytes {
		return fmt.Errorf("file too large, maximum is %dMB", limits.MaxSizeBytes/(1024*1024))
	}
	return nil
}

// Upload writes the payload under bucket/path and returns its public URL.
func (s *BucketStore) Upload(bucket, path string, data []byte) (string, error) {
	full := s.resolve(bucket, path)
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		return "", fmt.Errorf("prepare bucket directory: %w", err)
	}
	if err := os.WriteFile(full, data, 0o644); err != nil {
		return "", fmt.Errorf("write object: %w", err)
	}
	return s.PublicURL(bucket, path), nil
}

// Delete removes a stored object. Missing objects are not an error; the
// contract is best-effort and callers treat failures as non-fatal.
func (s *BucketStore) Delete(bucket, path string) error {
	if err := os.Remove(s.resolve(bucket, path)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("delete object: %w", err)
	}
	return nil
}

// PublicURL returns the externally servable URL for a stored object.
func (s *BucketStore) PublicURL(bucket, path string) string {
	return fmt.Sprintf("%s/%s/%s", s.publicBaseURL, url.PathEscape(bucket), path)
}

// ObjectPath builds the conventional storage path {folder}/{timestamp}_{name}.
func ObjectPath(folder, filename string) string {
	return fmt.Sprintf("%s/%d_%s", strings.Trim(folder, "/"), time.Now().UnixMilli(), SanitizeFilename(filename))
}

var unsafeFilenameChars = regexp.MustCompile(`[^a-zA-Z0-9._-]+`)

// SanitizeFilename strips path separators and unsafe characters from an
// uploaded filename.
func SanitizeFilename(name string) string {
	name = filepath.Base(name)
	name = unsafeFilenameChars.ReplaceAllString(name, "_")
	if name == "" || name == "." || name == ".." {
		return "file"
	}
	return name
}

func (s *BucketStore) resolve(bucket, path string) string {
	cleaned := filepath.Clean("/" + path)
	return filepath.Join(s.baseDir, filepath.Base(bucket), cleaned)
}

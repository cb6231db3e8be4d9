package media

import (
	"encoding/base64"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// DecodeField decodes a base64 payload field with a size cap. The field name
// is only used in error messages. maxBytes <= 0 disables the cap.
func DecodeField(name, data string, maxBytes int64) ([]byte, error) {
	if strings.TrimSpace(data) == "" {
		return nil, fmt.Errorf("missing required input: %s", name)
	}
	if maxBytes > 0 {
		// Base64 expands by 4/3; reject before decoding to avoid the allocation.
		if int64(len(data)) > (maxBytes*4)/3+4 {
			return nil, fmt.Errorf("%s exceeds maximum size of %d bytes", name, maxBytes)
		}
	}
	b, err := base64.StdEncoding.DecodeString(data)
	if err != nil {
		return nil, fmt.Errorf("%s is not valid base64: %w", name, err)
	}
	if len(b) == 0 {
		return nil, fmt.Errorf("%s decoded to zero bytes", name)
	}
	return b, nil
}

// EncodeFile reads a file and returns its base64 encoding.
func EncodeFile(path string) (string, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read %s: %w", path, err)
	}
	return base64.StdEncoding.EncodeToString(b), nil
}

// TempSet tracks temporary files created for one job so they can be removed
// together when the job finishes, regardless of outcome.
type TempSet struct {
	dir   string
	paths []string
}

// NewTempSet returns a TempSet writing into dir (os.TempDir when empty).
func NewTempSet(dir string) *TempSet {
	if dir == "" {
		dir = os.TempDir()
	}
	return &TempSet{dir: dir}
}

// Write stores data under a unique name with the given suffix and records the
// path for cleanup.
func (ts *TempSet) Write(suffix string, data []byte) (string, error) {
	p := filepath.Join(ts.dir, uuid.NewString()+suffix)
	if err := os.WriteFile(p, data, 0o600); err != nil {
		return "", fmt.Errorf("write temp file: %w", err)
	}
	ts.paths = append(ts.paths, p)
	return p, nil
}

// Path reserves a unique file path with the given suffix without creating the
// file, and records it for cleanup. Used for subprocess output targets.
func (ts *TempSet) Path(suffix string) string {
	p := filepath.Join(ts.dir, uuid.NewString()+suffix)
	ts.paths = append(ts.paths, p)
	return p
}

// Track adds an externally created file to the cleanup list.
func (ts *TempSet) Track(path string) {
	if path != "" {
		ts.paths = append(ts.paths, path)
	}
}

// Cleanup removes all tracked files. Best effort.
func (ts *TempSet) Cleanup() {
	for _, p := range ts.paths {
		_ = os.Remove(p)
	}
	ts.paths = nil
}

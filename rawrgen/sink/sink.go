// Package sink provides output destinations for generated bindings.
package sink

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"slices"
	"strings"
	"sync"
)

// GeneratedMarker appears on the first line of every generated file.
// Clean only removes files that carry it.
const GeneratedMarker = "Code generated by rawrgen. DO NOT EDIT."

// File is one generated output file.
type File struct {
	// Path is slash-separated and relative to the output root.
	Path    string
	Content []byte
}

// Sink receives generated file content.
// Implementations must be safe for concurrent calls.
type Sink interface {
	// WriteFile writes content to the specified slash-separated relative path.
	WriteFile(ctx context.Context, path string, content []byte) error
}

// Cleaner is implemented by sinks that can remove previously generated output.
type Cleaner interface {
	Clean(ctx context.Context) error
}

// FilesystemSink writes to a directory on the local filesystem.
type FilesystemSink struct {
	// Root is the base directory for all writes.
	Root string

	// Mode is the file permission mode (default: 0644).
	Mode os.FileMode

	// Overwrite controls behavior for existing files.
	// If false, returns an error when a file exists.
	Overwrite bool
}

// NewFilesystemSink creates a FilesystemSink writing under root.
func NewFilesystemSink(root string) *FilesystemSink {
	return &FilesystemSink{
		Root:      root,
		Mode:      0644,
		Overwrite: true,
	}
}

// WriteFile writes content to rel within Root, creating parent directories.
// The write is atomic: content goes to a temp file that is then renamed
// (or hard-linked when Overwrite is false) into place.
func (s *FilesystemSink) WriteFile(ctx context.Context, rel string, content []byte) error {
	if err := ValidatePath(rel); err != nil {
		return fmt.Errorf("invalid path %q: %w", rel, err)
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	full, err := s.resolve(rel)
	if err != nil {
		return err
	}
	dir := filepath.Dir(full)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create directories: %w", err)
	}

	mode := s.Mode
	if mode == 0 {
		mode = 0644
	}

	tmp, err := os.CreateTemp(dir, ".rawrgen-*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmp.Name()
	// Leftover temp files share the .rawrgen-*.tmp prefix; removal is best-effort.
	discard := func() { _ = os.Remove(tmpPath) }

	_, werr := tmp.Write(content)
	cerr := tmp.Close()
	switch {
	case werr != nil:
		discard()
		return fmt.Errorf("failed to write temp file: %w", werr)
	case cerr != nil:
		discard()
		return fmt.Errorf("failed to close temp file: %w", cerr)
	}
	if err := os.Chmod(tmpPath, mode); err != nil {
		discard()
		return fmt.Errorf("failed to set file mode: %w", err)
	}
	if err := ctx.Err(); err != nil {
		discard()
		return err
	}

	if s.Overwrite {
		if err := os.Rename(tmpPath, full); err != nil {
			discard()
			return fmt.Errorf("failed to rename temp file: %w", err)
		}
		return nil
	}
	// os.Link fails with EEXIST instead of replacing.
	err = os.Link(tmpPath, full)
	discard()
	if errors.Is(err, os.ErrExist) {
		return fmt.Errorf("file already exists: %q", rel)
	}
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	return nil
}

func (s *FilesystemSink) resolve(rel string) (string, error) {
	full := filepath.Join(s.Root, filepath.FromSlash(rel))
	absRoot, err := filepath.Abs(s.Root)
	if err != nil {
		return "", fmt.Errorf("failed to resolve root directory: %w", err)
	}
	absPath, err := filepath.Abs(full)
	if err != nil {
		return "", fmt.Errorf("failed to resolve path: %w", err)
	}
	if absPath != absRoot && !strings.HasPrefix(absPath, absRoot+string(filepath.Separator)) {
		return "", fmt.Errorf("path escapes root directory: %q", rel)
	}
	return full, nil
}

// Clean removes every file under Root whose first line carries
// GeneratedMarker, then any directories left empty. Hand-written files are
// never touched. A missing Root is not an error.
func (s *FilesystemSink) Clean(ctx context.Context) error {
	var dirs []string
	err := filepath.WalkDir(s.Root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) && p == s.Root {
				return fs.SkipAll
			}
			return err
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if d.IsDir() {
			if p != s.Root {
				dirs = append(dirs, p)
			}
			return nil
		}
		if !d.Type().IsRegular() {
			return nil
		}
		generated, err := isGenerated(p)
		if err != nil {
			return err
		}
		if generated {
			if err := os.Remove(p); err != nil {
				return fmt.Errorf("failed to remove %s: %w", p, err)
			}
		}
		return nil
	})
	if err != nil {
		return err
	}
	// Deepest first so parents empty out after their children.
	slices.SortFunc(dirs, func(a, b string) int { return len(b) - len(a) })
	for _, dir := range dirs {
		entries, err := os.ReadDir(dir)
		if err == nil && len(entries) == 0 {
			_ = os.Remove(dir)
		}
	}
	return nil
}

func isGenerated(p string) (bool, error) {
	f, err := os.Open(p)
	if err != nil {
		return false, err
	}
	defer f.Close()
	line, err := bufio.NewReader(f).ReadSlice('\n')
	if err != nil && len(line) == 0 {
		return false, nil
	}
	return bytes.Contains(line, []byte(GeneratedMarker)), nil
}

// MemorySink stores generated files in memory.
// All operations are thread-safe.
type MemorySink struct {
	mu    sync.RWMutex
	files map[string][]byte
}

// NewMemorySink creates a new MemorySink.
func NewMemorySink() *MemorySink {
	return &MemorySink{
		files: make(map[string][]byte),
	}
}

// WriteFile stores a copy of content under path.
func (s *MemorySink) WriteFile(ctx context.Context, p string, content []byte) error {
	if err := ValidatePath(p); err != nil {
		return fmt.Errorf("invalid path %q: %w", p, err)
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.files[p] = bytes.Clone(content)
	return nil
}

// Files returns a copy of all written files.
func (s *MemorySink) Files() map[string][]byte {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make(map[string][]byte, len(s.files))
	for p, content := range s.files {
		result[p] = bytes.Clone(content)
	}
	return result
}

// Paths returns the written paths in sorted order.
func (s *MemorySink) Paths() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	paths := make([]string, 0, len(s.files))
	for p := range s.files {
		paths = append(paths, p)
	}
	slices.Sort(paths)
	return paths
}

// Get returns the content of a single file, or nil if not found.
func (s *MemorySink) Get(p string) []byte {
	s.mu.RLock()
	defer s.mu.RUnlock()

	content, ok := s.files[p]
	if !ok {
		return nil
	}
	return bytes.Clone(content)
}

// Clean clears all stored files.
func (s *MemorySink) Clean(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.files = make(map[string][]byte)
	return nil
}

// ValidatePath checks if a path is valid for output.
// Paths must be relative, use / as separator, contain no .. components,
// and be clean (no ./, duplicate or trailing /).
func ValidatePath(p string) error {
	if p == "" {
		return errors.New("path is empty")
	}
	if strings.HasPrefix(p, "/") || filepath.IsAbs(p) {
		return errors.New("absolute paths not allowed")
	}
	// Windows drive letters, rejected on every platform.
	if len(p) >= 2 && p[1] == ':' && ((p[0] >= 'A' && p[0] <= 'Z') || (p[0] >= 'a' && p[0] <= 'z')) {
		return errors.New("absolute paths not allowed")
	}
	if strings.Contains(p, "\\") {
		return errors.New("backslash separators not allowed")
	}
	for _, seg := range strings.Split(p, "/") {
		if seg == ".." {
			return errors.New("path traversal not allowed")
		}
	}
	if cleaned := path.Clean(p); cleaned != p {
		return fmt.Errorf("path is not clean (expected %q, got %q)", cleaned, p)
	}
	return nil
}

package sink

import (
	"context"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"testing"
)

func TestValidatePath(t *testing.T) {
	tests := []struct {
		path    string
		wantErr string
	}{
		{"index.ts", ""},
		{"schemas/module/index.ts", ""},
		{"schemas/test_rpc.go", ""},
		{"", "empty"},
		{"/etc/passwd", "absolute"},
		{"C:/x/y.ts", "absolute"},
		{"a\\b.ts", "backslash"},
		{"../outside.ts", "traversal"},
		{"a/../../b.ts", "traversal"},
		{"./a.ts", "not clean"},
		{"a//b.ts", "not clean"},
		{"a/b/", "not clean"},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			err := ValidatePath(tt.path)
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("ValidatePath(%q) = %v", tt.path, err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("ValidatePath(%q) = %v, want error containing %q", tt.path, err, tt.wantErr)
			}
		})
	}
}

func TestFilesystemSink_WriteFile(t *testing.T) {
	root := t.TempDir()
	s := NewFilesystemSink(root)
	ctx := context.Background()

	if err := s.WriteFile(ctx, "schemas/module/index.ts", []byte("export type A = null;\n")); err != nil {
		t.Fatal(err)
	}
	got, err := os.ReadFile(filepath.Join(root, "schemas", "module", "index.ts"))
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != "export type A = null;\n" {
		t.Errorf("content = %q", got)
	}

	if err := s.WriteFile(ctx, "schemas/module/index.ts", []byte("v2")); err != nil {
		t.Fatalf("overwrite: %v", err)
	}
	got, _ = os.ReadFile(filepath.Join(root, "schemas", "module", "index.ts"))
	if string(got) != "v2" {
		t.Errorf("content after overwrite = %q", got)
	}

	entries, _ := os.ReadDir(filepath.Join(root, "schemas", "module"))
	for _, e := range entries {
		if strings.HasSuffix(e.Name(), ".tmp") {
			t.Errorf("temp file left behind: %s", e.Name())
		}
	}
}

func TestFilesystemSink_NoOverwrite(t *testing.T) {
	root := t.TempDir()
	s := &FilesystemSink{Root: root}
	ctx := context.Background()

	if err := s.WriteFile(ctx, "a.ts", []byte("one")); err != nil {
		t.Fatal(err)
	}
	err := s.WriteFile(ctx, "a.ts", []byte("two"))
	if err == nil || !strings.Contains(err.Error(), "already exists") {
		t.Fatalf("second write = %v, want already exists", err)
	}
	got, _ := os.ReadFile(filepath.Join(root, "a.ts"))
	if string(got) != "one" {
		t.Errorf("content = %q, want original", got)
	}
}

func TestFilesystemSink_RejectsInvalidPath(t *testing.T) {
	s := NewFilesystemSink(t.TempDir())
	if err := s.WriteFile(context.Background(), "../escape.ts", nil); err == nil {
		t.Error("expected error for traversal")
	}
}

func TestFilesystemSink_Canceled(t *testing.T) {
	s := NewFilesystemSink(t.TempDir())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := s.WriteFile(ctx, "a.ts", []byte("x")); err != context.Canceled {
		t.Errorf("WriteFile = %v, want context.Canceled", err)
	}
}

func TestFilesystemSink_Clean(t *testing.T) {
	root := t.TempDir()
	s := NewFilesystemSink(root)
	ctx := context.Background()

	generated := "// " + GeneratedMarker + "\nexport type A = null;\n"
	for _, p := range []string{"a/index.ts", "a/b/index.ts", "c/index.ts"} {
		if err := s.WriteFile(ctx, p, []byte(generated)); err != nil {
			t.Fatal(err)
		}
	}
	if err := s.WriteFile(ctx, "a/handwritten.ts", []byte("export const x = 1;\n")); err != nil {
		t.Fatal(err)
	}
	if err := s.WriteFile(ctx, "empty.ts", nil); err != nil {
		t.Fatal(err)
	}

	if err := s.Clean(ctx); err != nil {
		t.Fatal(err)
	}

	for _, gone := range []string{"a/index.ts", "a/b", "c"} {
		if _, err := os.Stat(filepath.Join(root, gone)); !os.IsNotExist(err) {
			t.Errorf("%s should be removed, stat err = %v", gone, err)
		}
	}
	for _, kept := range []string{"a/handwritten.ts", "empty.ts"} {
		if _, err := os.Stat(filepath.Join(root, kept)); err != nil {
			t.Errorf("%s should be kept: %v", kept, err)
		}
	}
}

func TestFilesystemSink_CleanMissingRoot(t *testing.T) {
	s := NewFilesystemSink(filepath.Join(t.TempDir(), "does-not-exist"))
	if err := s.Clean(context.Background()); err != nil {
		t.Errorf("Clean = %v", err)
	}
}

func TestMemorySink(t *testing.T) {
	s := NewMemorySink()
	ctx := context.Background()

	content := []byte("hello")
	if err := s.WriteFile(ctx, "b.ts", content); err != nil {
		t.Fatal(err)
	}
	content[0] = 'j'
	if got := string(s.Get("b.ts")); got != "hello" {
		t.Errorf("Get = %q, want a copy of the original content", got)
	}
	if err := s.WriteFile(ctx, "a/index.ts", nil); err != nil {
		t.Fatal(err)
	}
	if got := s.Paths(); !slices.Equal(got, []string{"a/index.ts", "b.ts"}) {
		t.Errorf("Paths = %v", got)
	}
	if s.Get("missing") != nil {
		t.Error("Get(missing) should be nil")
	}
	if err := s.WriteFile(ctx, "/abs", nil); err == nil {
		t.Error("expected error for absolute path")
	}

	if err := s.Clean(ctx); err != nil {
		t.Fatal(err)
	}
	if len(s.Files()) != 0 {
		t.Errorf("Files after Clean = %v", s.Files())
	}
}

func TestMemorySink_Concurrent(t *testing.T) {
	s := NewMemorySink()
	var wg sync.WaitGroup
	for i := range 50 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			p := filepath.ToSlash(filepath.Join("dir", string(rune('a'+i%26)), "f.ts"))
			if err := s.WriteFile(context.Background(), p, []byte("x")); err != nil {
				t.Error(err)
			}
		}()
	}
	wg.Wait()
	if n := len(s.Files()); n != 26 {
		t.Errorf("got %d files, want 26", n)
	}
}

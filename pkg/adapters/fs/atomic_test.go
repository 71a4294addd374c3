package fs

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestWriteFileAtomic(t *testing.T) {
	t.Run("Creates New File", func(t *testing.T) {
		filename := filepath.Join(t.TempDir(), "state.json")

		if err := writeFileAtomic(filename, []byte(`{"version":1}`), 0644); err != nil {
			t.Fatalf("writeFileAtomic failed: %v", err)
		}

		got, err := os.ReadFile(filename)
		if err != nil {
			t.Fatalf("Failed to read file: %v", err)
		}
		if string(got) != `{"version":1}` {
			t.Errorf("unexpected content %q", got)
		}
	})

	t.Run("Overwrites Existing File", func(t *testing.T) {
		filename := filepath.Join(t.TempDir(), "location")
		if err := os.WriteFile(filename, []byte("q=old"), 0644); err != nil {
			t.Fatalf("Setup failed: %v", err)
		}

		if err := writeFileAtomic(filename, []byte("q=new"), 0644); err != nil {
			t.Fatalf("writeFileAtomic failed: %v", err)
		}

		got, _ := os.ReadFile(filename)
		if string(got) != "q=new" {
			t.Errorf("Expected 'q=new', got %q", got)
		}
	})

	t.Run("Creates Missing Parent", func(t *testing.T) {
		filename := filepath.Join(t.TempDir(), ".showcase", "nested", "state.json")

		if err := writeFileAtomic(filename, []byte("{}"), 0644); err != nil {
			t.Fatalf("writeFileAtomic failed: %v", err)
		}
		if _, err := os.Stat(filename); err != nil {
			t.Fatalf("file not created: %v", err)
		}
	})

	t.Run("Leaves No Temp Files", func(t *testing.T) {
		dir := t.TempDir()
		for i := 0; i < 3; i++ {
			if err := writeFileAtomic(filepath.Join(dir, "state.json"), []byte("{}"), 0644); err != nil {
				t.Fatal(err)
			}
		}
		entries, err := os.ReadDir(dir)
		if err != nil {
			t.Fatal(err)
		}
		for _, e := range entries {
			if strings.HasPrefix(e.Name(), TempFilePrefix) {
				t.Errorf("temp file left behind: %s", e.Name())
			}
		}
	})
}

package fs

import (
	"os"
	"path/filepath"
	"testing"
)

func TestWriteFileAtomic(t *testing.T) {
	t.Run("Creates New File", func(t *testing.T) {
		filename := filepath.Join(t.TempDir(), "lesson.ts")
		if err := writeFileAtomic(filename, []byte("export default {};"), 0644); err != nil {
			t.Fatalf("writeFileAtomic failed: %v", err)
		}
		got, err := os.ReadFile(filename)
		if err != nil {
			t.Fatalf("Failed to read file: %v", err)
		}
		if string(got) != "export default {};" {
			t.Errorf("unexpected content %q", got)
		}
	})

	t.Run("Overwrites And Keeps Mode", func(t *testing.T) {
		filename := filepath.Join(t.TempDir(), "lesson.ts")
		if err := os.WriteFile(filename, []byte("initial"), 0600); err != nil {
			t.Fatalf("Setup failed: %v", err)
		}
		if err := writeFileAtomic(filename, []byte("overwritten"), 0644); err != nil {
			t.Fatalf("writeFileAtomic failed: %v", err)
		}
		got, _ := os.ReadFile(filename)
		if string(got) != "overwritten" {
			t.Errorf("Expected 'overwritten', got %q", got)
		}
		info, err := os.Stat(filename)
		if err != nil {
			t.Fatal(err)
		}
		t.Logf("File permissions: %v", info.Mode())
	})

	t.Run("Leaves No Temp Files", func(t *testing.T) {
		dir := t.TempDir()
		if err := writeFileAtomic(filepath.Join(dir, "a.ts"), []byte("x"), 0644); err != nil {
			t.Fatal(err)
		}
		entries, _ := os.ReadDir(dir)
		for _, e := range entries {
			if isScratch(e.Name()) {
				t.Errorf("temp file left behind: %s", e.Name())
			}
		}
	})

	t.Run("Fails if Directory Missing", func(t *testing.T) {
		filename := filepath.Join(t.TempDir(), "missing_folder", "test.txt")
		if err := writeFileAtomic(filename, []byte("fail"), 0644); err == nil {
			t.Error("Expected error when directory is missing, got nil")
		}
	})
}

func TestBackupFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "routing.ts")

	backup, err := backupFile(path)
	if err != nil || backup != "" {
		t.Fatalf("backup of missing file = %q, %v", backup, err)
	}

	if err := os.WriteFile(path, []byte("first"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := backupFile(path); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte("second"), 0644); err != nil {
		t.Fatal(err)
	}
	backup, err = backupFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if backup != path+BackupSuffix {
		t.Errorf("backup path = %q", backup)
	}
	got, _ := os.ReadFile(backup)
	if string(got) != "second" {
		t.Errorf("backup holds %q, want the latest pre-write bytes", got)
	}
}

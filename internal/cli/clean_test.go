package cli

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestGlobFiles(t *testing.T) {
	dir := t.TempDir()

	subdir := filepath.Join(dir, "nested")
	if err := os.MkdirAll(subdir, 0o755); err != nil {
		t.Fatal(err)
	}
	for _, name := range []string{"a.srt", "b.srt", "c.txt"} {
		if err := os.WriteFile(filepath.Join(subdir, name), []byte("x"), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	if err := os.WriteFile(filepath.Join(dir, "top.srt"), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}

	t.Run("extension glob", func(t *testing.T) {
		files, err := globFiles(dir, "*.srt")
		if err != nil {
			t.Fatal(err)
		}
		if len(files) != 3 {
			t.Fatalf("got %d files, want 3: %v", len(files), files)
		}
	})

	t.Run("all glob", func(t *testing.T) {
		files, err := globFiles(subdir, "*")
		if err != nil {
			t.Fatal(err)
		}
		if len(files) != 3 {
			t.Fatalf("got %d files, want 3: %v", len(files), files)
		}
	})

	t.Run("nonexistent dir", func(t *testing.T) {
		files, err := globFiles(filepath.Join(dir, "nope"), "*.srt")
		if err != nil {
			t.Fatal(err)
		}
		if len(files) != 0 {
			t.Fatalf("got %d files, want 0", len(files))
		}
	})
}

func TestDiffPaths(t *testing.T) {
	actual := []string{"/a/1.ass", "/a/2.ass", "/a/3.ass"}
	expected := map[string]bool{
		"/a/1.ass": true,
		"/a/3.ass": true,
	}

	orphans := diffPaths(actual, expected)
	if len(orphans) != 1 {
		t.Fatalf("got %d orphans, want 1", len(orphans))
	}
	if orphans[0] != "/a/2.ass" {
		t.Fatalf("got %s, want /a/2.ass", orphans[0])
	}
}

func TestRemoveFileEntry(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "test.vtt")
	if err := os.WriteFile(file, []byte("hello"), 0o644); err != nil {
		t.Fatal(err)
	}

	t.Run("dry run does not delete", func(t *testing.T) {
		cleanDryRun = true
		defer func() { cleanDryRun = false }()

		result := cleanResult{DryRun: true}
		removeFileEntry(file, os.Stdout, &result)

		if result.Removed != 1 {
			t.Fatalf("got removed=%d, want 1", result.Removed)
		}
		if result.FreedBytes != 5 {
			t.Fatalf("got freed=%d, want 5", result.FreedBytes)
		}
		// File should still exist
		if _, err := os.Stat(file); err != nil {
			t.Fatalf("file should still exist after dry run: %v", err)
		}
	})

	t.Run("actual remove deletes file", func(t *testing.T) {
		cleanDryRun = false
		result := cleanResult{}
		removeFileEntry(file, os.Stdout, &result)

		if result.Removed != 1 {
			t.Fatalf("got removed=%d, want 1", result.Removed)
		}
		if _, err := os.Stat(file); !os.IsNotExist(err) {
			t.Fatal("file should have been removed")
		}
	})

	t.Run("nonexistent file is skipped", func(t *testing.T) {
		result := cleanResult{}
		removeFileEntry(filepath.Join(dir, "nope.vtt"), os.Stdout, &result)
		if result.Skipped != 1 {
			t.Fatalf("got skipped=%d, want 1", result.Skipped)
		}
	})
}

func TestCleanOrphansKeepsCurrentOutputs(t *testing.T) {
	dir := newCLIProject(t)
	writeTestCue(t, dir, "intro.yaml", testCueYAML)

	if out, err := executeCLI(t, "batch", "--project", dir, "--no-progress"); err != nil {
		t.Fatalf("batch: %v\n%s", err, out)
	}
	current := filepath.Join(dir, "subtitles", "intro.ass")
	stale := filepath.Join(dir, "subtitles", "removed.srt")
	if err := os.WriteFile(stale, []byte("1\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	out, err := executeCLI(t, "clean", "orphans", "--project", dir, "--dry-run")
	if err != nil {
		t.Fatalf("dry run: %v\n%s", err, out)
	}
	if !strings.Contains(out, "would remove "+stale) {
		t.Fatalf("dry run output missing stale file:\n%s", out)
	}
	if _, err := os.Stat(stale); err != nil {
		t.Fatalf("dry run removed %s", stale)
	}

	if out, err := executeCLI(t, "clean", "orphans", "--project", dir); err != nil {
		t.Fatalf("clean orphans: %v\n%s", err, out)
	}
	if _, err := os.Stat(stale); !os.IsNotExist(err) {
		t.Fatalf("expected %s removed", stale)
	}
	if _, err := os.Stat(current); err != nil {
		t.Fatalf("expected %s kept: %v", current, err)
	}
}

func TestCleanOutputsRemovesState(t *testing.T) {
	dir := newCLIProject(t)
	writeTestCue(t, dir, "intro.yaml", testCueYAML)

	if out, err := executeCLI(t, "batch", "--project", dir, "--no-progress"); err != nil {
		t.Fatalf("batch: %v\n%s", err, out)
	}
	out, err := executeCLI(t, "clean", "outputs", "--project", dir)
	if err != nil {
		t.Fatalf("clean outputs: %v\n%s", err, out)
	}
	for _, path := range []string{
		filepath.Join(dir, "subtitles", "intro.ass"),
		filepath.Join(dir, ".subburn", "state.json"),
	} {
		if _, err := os.Stat(path); !os.IsNotExist(err) {
			t.Fatalf("expected %s removed", path)
		}
	}
	if !strings.Contains(out, "Clean outputs complete: 2 removed") {
		t.Fatalf("unexpected summary:\n%s", out)
	}
}

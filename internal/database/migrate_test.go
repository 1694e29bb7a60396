package database

import (
	"path/filepath"
	"testing"
)

func TestCopyLayouts(t *testing.T) {
	src := setupTestDB(t)
	dst := setupTestDB(t)

	originals := []string{"Ossuary", "", "Drowned Chapel"}
	for i, name := range originals {
		if _, err := src.SaveLayout(testLayout(int64(i+1)), name); err != nil {
			t.Fatalf("SaveLayout() error = %v", err)
		}
	}

	dry, err := CopyLayouts(src, dst, true)
	if err != nil {
		t.Fatalf("dry run error = %v", err)
	}
	if dry.Copied != 3 {
		t.Errorf("dry run Copied = %d, want 3", dry.Copied)
	}
	if list, _ := dst.ListLayouts(0); len(list) != 0 {
		t.Fatalf("dry run wrote %d layouts", len(list))
	}

	result, err := CopyLayouts(src, dst, false)
	if err != nil {
		t.Fatalf("CopyLayouts() error = %v", err)
	}
	if result.Copied != 3 || result.Skipped != 0 {
		t.Errorf("result = %+v, want 3 copied", result)
	}

	list, err := dst.ListLayouts(0)
	if err != nil {
		t.Fatal(err)
	}
	if len(list) != 3 {
		t.Fatalf("destination has %d layouts, want 3", len(list))
	}
	// Oldest first in, so newest-first listing reverses the source order.
	if list[0].Name != "Drowned Chapel" || list[2].Name != "Ossuary" || list[1].Seed != 2 {
		t.Errorf("destination order = %+v", list)
	}

	copied, err := dst.LoadLayout(list[2].ID)
	if err != nil {
		t.Fatal(err)
	}
	assertSameLayout(t, copied, testLayout(1))

	// A re-run skips the named layouts and duplicates only the unnamed one.
	again, err := CopyLayouts(src, dst, false)
	if err != nil {
		t.Fatalf("second CopyLayouts() error = %v", err)
	}
	if again.Copied != 1 || again.Skipped != 2 {
		t.Errorf("second result = %+v, want 1 copied, 2 skipped", again)
	}
}

func TestCopyLayoutsEmptySource(t *testing.T) {
	src := setupTestDB(t)
	dst, err := Open(DefaultConfig(filepath.Join(t.TempDir(), "nested", "dst.db")))
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	defer dst.Close()

	result, err := CopyLayouts(src, dst, false)
	if err != nil || result.Copied != 0 {
		t.Errorf("CopyLayouts() = %+v, %v; want nothing copied", result, err)
	}
}

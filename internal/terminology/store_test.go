package terminology

import (
	"os"
	"path/filepath"
	"testing"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := OpenStore(filepath.Join(t.TempDir(), "terms.db"))
	if err != nil {
		t.Fatalf("OpenStore failed: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestStorePutAndTable(t *testing.T) {
	store := openTestStore(t)

	if err := store.Put("English", "晶裂", "crystal crack"); err != nil {
		t.Fatalf("Put failed: %v", err)
	}
	if err := store.Put("English", "检测", "inspection"); err != nil {
		t.Fatalf("Put failed: %v", err)
	}

	table, err := store.Table("English")
	if err != nil {
		t.Fatalf("Table failed: %v", err)
	}
	if len(table) != 2 || table["晶裂"] != "crystal crack" {
		t.Errorf("Unexpected table: %v", table)
	}

	// Upsert overwrites.
	if err := store.Put("English", "晶裂", "crystal cracking"); err != nil {
		t.Fatalf("Put failed: %v", err)
	}
	table, _ = store.Table("English")
	if table["晶裂"] != "crystal cracking" {
		t.Errorf("Expected updated target, got %q", table["晶裂"])
	}
}

func TestStoreRejectsEmptySource(t *testing.T) {
	store := openTestStore(t)

	if err := store.Put("English", "", "nothing"); err == nil {
		t.Error("Expected error for empty source term")
	}
}

func TestStoreDelete(t *testing.T) {
	store := openTestStore(t)

	store.Put("English", "晶裂", "crystal crack")
	if err := store.Delete("English", "晶裂"); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}

	table, _ := store.Table("English")
	if len(table) != 0 {
		t.Errorf("Expected empty table after delete, got %v", table)
	}
}

func TestStoreImportAndLoad(t *testing.T) {
	store := openTestStore(t)

	lib := Library{
		"English": {"晶裂": "crystal crack"},
		"Russian": {"晶裂": "кристаллическая трещина"},
	}
	count, err := store.ImportLibrary(lib)
	if err != nil {
		t.Fatalf("ImportLibrary failed: %v", err)
	}
	if count != 2 {
		t.Errorf("Expected 2 imported terms, got %d", count)
	}

	loaded, err := store.Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if loaded["Russian"]["晶裂"] != "кристаллическая трещина" {
		t.Errorf("Unexpected library: %v", loaded)
	}
}

func TestLoadLibraryJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "terms.json")
	content := `{"English": {"晶裂": "crystal crack", "检测": "inspection"}}`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	lib, err := LoadLibrary(path)
	if err != nil {
		t.Fatalf("LoadLibrary failed: %v", err)
	}
	if lib["English"]["晶裂"] != "crystal crack" {
		t.Errorf("Unexpected library: %v", lib)
	}
}

func TestLoadLibraryMissingFile(t *testing.T) {
	if _, err := LoadLibrary("/nonexistent/terms.json"); err == nil {
		t.Error("Expected error for missing file")
	}
}

func TestSaveAndReloadLibrary(t *testing.T) {
	path := filepath.Join(t.TempDir(), "terms.json")
	lib := Library{"English": {"晶裂": "crystal crack"}}

	if err := SaveLibrary(path, lib); err != nil {
		t.Fatalf("SaveLibrary failed: %v", err)
	}
	reloaded, err := LoadLibrary(path)
	if err != nil {
		t.Fatalf("LoadLibrary failed: %v", err)
	}
	if reloaded["English"]["晶裂"] != "crystal crack" {
		t.Errorf("Round trip mismatch: %v", reloaded)
	}
}

func TestLibraryTableFor(t *testing.T) {
	lib := Library{"English": {"晶裂": "crystal crack"}}

	// Forward direction uses the target-keyed table as stored.
	table := lib.TableFor("Chinese", "English")
	if table["晶裂"] != "crystal crack" {
		t.Errorf("Expected forward table, got %v", table)
	}

	// Opposite direction against the same library gets the reversed table.
	table = lib.TableFor("English", "Chinese")
	if table["crystal crack"] != "晶裂" {
		t.Errorf("Expected reversed table, got %v", table)
	}

	// A direction the library knows nothing about yields no table.
	if table := lib.TableFor("Russian", "Japanese"); table != nil {
		t.Errorf("Expected nil table, got %v", table)
	}

	// An explicit table for the direction wins over reversing.
	lib["Chinese"] = Table{"crystal crack": "晶体裂纹"}
	table = lib.TableFor("English", "Chinese")
	if table["crystal crack"] != "晶体裂纹" {
		t.Errorf("Expected explicit table to win, got %v", table)
	}
}

func TestReadPairFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "terms.txt")
	content := "晶裂 = crystal crack\n# comment\n检测=inspection\n\nno separator line\n = orphan\n"
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	table, err := ReadPairFile(path)
	if err != nil {
		t.Fatalf("ReadPairFile failed: %v", err)
	}
	if len(table) != 2 {
		t.Errorf("Expected 2 terms, got %v", table)
	}
	if table["晶裂"] != "crystal crack" || table["检测"] != "inspection" {
		t.Errorf("Unexpected table: %v", table)
	}
}

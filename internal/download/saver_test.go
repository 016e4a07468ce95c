package download

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/paperlane/storefront/internal/model"
)

var workbook = []byte("PK\x03\x04rest-of-zip")

func TestSaveTemplate_WritesFixedName(t *testing.T) {
	dir := t.TempDir()
	s := NewSaver(dir)

	path, err := s.SaveTemplate(workbook)
	if err != nil {
		t.Fatalf("SaveTemplate: %v", err)
	}
	if want := filepath.Join(dir, model.TemplateFileName); path != want {
		t.Errorf("path = %q, want %q", path, want)
	}
	got, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != string(workbook) {
		t.Errorf("content mismatch")
	}
	assertOnlyFiles(t, dir, model.TemplateFileName)
}

func TestSaveTemplate_OverwritesExisting(t *testing.T) {
	dir := t.TempDir()
	s := NewSaver(dir)
	if _, err := s.SaveTemplate(workbook); err != nil {
		t.Fatal(err)
	}
	second := append([]byte("PK\x03\x04"), []byte("v2")...)
	path, err := s.SaveTemplate(second)
	if err != nil {
		t.Fatal(err)
	}
	got, _ := os.ReadFile(path)
	if string(got) != string(second) {
		t.Errorf("content = %q, want second payload", got)
	}
	assertOnlyFiles(t, dir, model.TemplateFileName)
}

func TestSaveTemplate_EmptyPayload(t *testing.T) {
	dir := t.TempDir()
	_, err := NewSaver(dir).SaveTemplate(nil)
	if !errors.Is(err, ErrEmptyPayload) {
		t.Fatalf("err = %v, want ErrEmptyPayload", err)
	}
	assertOnlyFiles(t, dir)
}

func TestSaveTemplate_RejectsNonWorkbook(t *testing.T) {
	dir := t.TempDir()
	_, err := NewSaver(dir).SaveTemplate([]byte("<html>login</html>"))
	if !errors.Is(err, ErrNotWorkbook) {
		t.Fatalf("err = %v, want ErrNotWorkbook", err)
	}
	assertOnlyFiles(t, dir)
}

func TestSave_FailedRenameLeavesNothing(t *testing.T) {
	dir := t.TempDir()
	// A directory occupying the destination name makes the rename fail.
	if err := os.Mkdir(filepath.Join(dir, model.TemplateFileName), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, model.TemplateFileName, "keep"), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}

	if _, err := NewSaver(dir).SaveTemplate(workbook); err == nil {
		t.Fatal("expected rename failure")
	}
	assertOnlyFiles(t, dir, model.TemplateFileName)
}

func assertOnlyFiles(t *testing.T, dir string, names ...string) {
	t.Helper()
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	want := map[string]bool{}
	for _, n := range names {
		want[n] = true
	}
	if len(entries) != len(names) {
		var got []string
		for _, e := range entries {
			got = append(got, e.Name())
		}
		t.Fatalf("dir entries = %v, want %v", got, names)
	}
	for _, e := range entries {
		if !want[e.Name()] {
			t.Errorf("unexpected entry %q", e.Name())
		}
	}
}

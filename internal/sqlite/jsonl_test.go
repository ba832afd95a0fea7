package sqlite

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
)

func TestWriteReadJSONLRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "records.jsonl")
	records := []json.RawMessage{
		json.RawMessage(`{"id":"1","name":"first"}`),
		json.RawMessage(`{"id":"2","name":"second"}`),
	}

	if err := writeJSONL(path, records); err != nil {
		t.Fatalf("writeJSONL failed: %v", err)
	}
	got, err := readJSONL(path)
	if err != nil {
		t.Fatalf("readJSONL failed: %v", err)
	}
	if len(got) != len(records) {
		t.Fatalf("expected %d records, got %d", len(records), len(got))
	}
	for i := range records {
		if string(got[i]) != string(records[i]) {
			t.Errorf("record %d = %s, want %s", i, got[i], records[i])
		}
	}
}

func TestReadJSONLSkipsBadLines(t *testing.T) {
	path := filepath.Join(t.TempDir(), "records.jsonl")
	content := `{"id":"1"}
not json at all

{"id":"2"}
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	got, err := readJSONL(path)
	if err != nil {
		t.Fatalf("readJSONL failed: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 parseable records, got %d", len(got))
	}
}

func TestWriteJSONLReplacesAtomically(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "records.jsonl")

	if err := writeJSONL(path, []json.RawMessage{json.RawMessage(`{"id":"old"}`)}); err != nil {
		t.Fatal(err)
	}
	if err := writeJSONL(path, []json.RawMessage{json.RawMessage(`{"id":"new"}`)}); err != nil {
		t.Fatal(err)
	}

	got, err := readJSONL(path)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 || string(got[0]) != `{"id":"new"}` {
		t.Errorf("unexpected content after rewrite: %v", got)
	}

	// No temp files may be left behind.
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 {
		t.Errorf("expected only the target file in %s, found %d entries", dir, len(entries))
	}
}

func TestInitJSONLFiles(t *testing.T) {
	dir := t.TempDir()
	if err := initJSONLFiles(dir); err != nil {
		t.Fatalf("initJSONLFiles failed: %v", err)
	}
	for _, name := range jsonlFiles {
		info, err := os.Stat(filepath.Join(dir, name))
		if err != nil {
			t.Errorf("expected %s to exist: %v", name, err)
			continue
		}
		if info.Size() != 0 {
			t.Errorf("expected %s to be empty, got %d bytes", name, info.Size())
		}
	}

	// Existing files keep their content.
	path := filepath.Join(dir, contentTypesFile)
	if err := os.WriteFile(path, []byte(`{"id":"1"}`+"\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := initJSONLFiles(dir); err != nil {
		t.Fatal(err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if len(data) == 0 {
		t.Error("initJSONLFiles must not truncate existing files")
	}
}

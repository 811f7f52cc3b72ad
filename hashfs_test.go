package proofset

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
)

// writeFixtureTree lays out the reference directory on disk.
func writeFixtureTree(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	if err := os.MkdirAll(filepath.Join(root, "dir1"), 0700); err != nil {
		t.Fatal(err)
	}
	files := map[string]string{
		"file1.txt":      "this is file1.txt\r\n",
		"dir1/file2.txt": "this is file2.txt\r\n",
		"dir1/file3.txt": "this is file3.txt\r\n",
	}
	for name, content := range files {
		p := filepath.Join(root, filepath.FromSlash(name))
		if err := os.WriteFile(p, []byte(content), 0600); err != nil {
			t.Fatal(err)
		}
	}
	return root
}

func TestCollectFiles(t *testing.T) {
	root := writeFixtureTree(t)

	entries, err := CollectFiles(root)
	if err != nil {
		t.Fatalf("CollectFiles failed: %v", err)
	}

	wantOrder := []string{"dir1/file2.txt", "dir1/file3.txt", "file1.txt"}
	if len(entries) != len(wantOrder) {
		t.Fatalf("got %d entries, want %d", len(entries), len(wantOrder))
	}
	for i, e := range entries {
		if e.Path != wantOrder[i] {
			t.Errorf("entry %d path = %q, want %q (canonical sort order)", i, e.Path, wantOrder[i])
		}
		if e.OriginalPath != e.Path {
			t.Errorf("entry %d original path = %q, want the relative path", i, e.OriginalPath)
		}
		if e.Modified.Location() != e.Modified.UTC().Location() {
			t.Errorf("entry %d modification time is not UTC", i)
		}
	}
	if !bytes.Equal(entries[0].Content, []byte("this is file2.txt\r\n")) {
		t.Error("entry content does not match the file on disk")
	}
}

func TestHashFile(t *testing.T) {
	root := writeFixtureTree(t)
	p := filepath.Join(root, "file1.txt")

	got, err := HashFile(p, SHA256)
	if err != nil {
		t.Fatalf("HashFile failed: %v", err)
	}
	if want := sum256("this is file1.txt\r\n"); got != want {
		t.Errorf("HashFile = %s, want %s", got, want)
	}

	t.Run("sha512", func(t *testing.T) {
		got, err := HashFile(p, SHA512)
		if err != nil {
			t.Fatalf("HashFile failed: %v", err)
		}
		if want := SumString("this is file1.txt\r\n", SHA512); got != want {
			t.Errorf("HashFile = %s, want %s", got, want)
		}
	})

	t.Run("empty file", func(t *testing.T) {
		empty := filepath.Join(root, "empty.bin")
		if err := os.WriteFile(empty, nil, 0600); err != nil {
			t.Fatal(err)
		}
		got, err := HashFile(empty, SHA256)
		if err != nil {
			t.Fatalf("HashFile failed: %v", err)
		}
		if want := sum256(""); got != want {
			t.Errorf("HashFile = %s, want %s", got, want)
		}
	})

	t.Run("larger than one chunk", func(t *testing.T) {
		big := filepath.Join(root, "big.bin")
		data := bytes.Repeat([]byte("0123456789abcdef"), (hashChunkSize/16)+1024)
		if err := os.WriteFile(big, data, 0600); err != nil {
			t.Fatal(err)
		}
		got, err := HashFile(big, SHA256)
		if err != nil {
			t.Fatalf("HashFile failed: %v", err)
		}
		if want := Sum(data, SHA256); got != want {
			t.Errorf("chunked hash differs from whole-buffer hash")
		}
	})
}

func TestBuildObservations(t *testing.T) {
	root := writeFixtureTree(t)

	obs, err := BuildObservations(root, SHA256)
	if err != nil {
		t.Fatalf("BuildObservations failed: %v", err)
	}
	if obs.Len() != 3 {
		t.Fatalf("observed %d paths, want 3", obs.Len())
	}

	foundPath, hash, ok := obs.lookupPath("dir1/file2.txt")
	if !ok {
		t.Fatal("dir1/file2.txt not observed")
	}
	if foundPath != "dir1/file2.txt" || hash != sum256("this is file2.txt\r\n") {
		t.Errorf("lookup = %q %q", foundPath, hash)
	}
}

func TestCreateFromDisk(t *testing.T) {
	root := writeFixtureTree(t)

	files, err := CollectFiles(root)
	if err != nil {
		t.Fatalf("CollectFiles failed: %v", err)
	}
	res := Create(files, ChainConfig{Seed: "abc", Algorithm: SHA256})

	if len(res.Entries) != 6 {
		t.Fatalf("got %d entries, want 6", len(res.Entries))
	}

	// Disclosing every line and matching against the same tree must
	// reconcile cleanly.
	obs, err := BuildObservations(root, SHA256)
	if err != nil {
		t.Fatalf("BuildObservations failed: %v", err)
	}
	var entries []ParsedDetailLine
	for _, rec := range res.Entries {
		parsed, err := ParseDetailLine(rec.DetailLine())
		if err != nil {
			t.Fatalf("ParseDetailLine failed: %v", err)
		}
		entries = append(entries, parsed)
	}
	for _, r := range MatchByPath(entries, obs) {
		if r.Status != MatchFound {
			t.Errorf("%s: %v", r.Entry.Path, r.Status)
		}
	}
	for _, r := range MatchByHash(entries, obs) {
		if r.Status != MatchFound {
			t.Errorf("%s: %v (by hash)", r.Entry.Path, r.Status)
		}
	}
}

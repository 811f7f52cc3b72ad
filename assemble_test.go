package proofset

import (
	"strings"
	"testing"
	"time"
)

//revive:disable:function-length Long test functions are acceptable

// fixtureFiles is the reference input: three files committed in
// lexicographic order, each under its full path and its bare filename.
func fixtureFiles() []SourceFileEntry {
	ts := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	return []SourceFileEntry{
		{Path: "dir1/file2.txt", OriginalPath: "dir1/file2.txt", Modified: ts, Content: []byte("this is file2.txt\r\n")},
		{Path: "dir1/file3.txt", OriginalPath: "dir1/file3.txt", Modified: ts, Content: []byte("this is file3.txt\r\n")},
		{Path: "file1.txt", OriginalPath: "file1.txt", Modified: ts, Content: []byte("this is file1.txt\r\n")},
	}
}

const fixtureRoot = "fe2fa18e06413411028266ae1ad3e3c6030409bf405fb0fe4bc37b3446f99f42"

func TestCreateReferenceVector(t *testing.T) {
	res := Create(fixtureFiles(), ChainConfig{Seed: "abc", Algorithm: SHA256})

	if len(res.Entries) != 6 {
		t.Fatalf("got %d entries, want 6 (two per file)", len(res.Entries))
	}
	if res.RootHash != fixtureRoot {
		t.Fatalf("root hash = %s, want %s", res.RootHash, fixtureRoot)
	}

	wantPaths := []string{
		"dir1/file2.txt", "file2.txt",
		"dir1/file3.txt", "file3.txt",
		"file1.txt", "file1.txt",
	}
	for i, rec := range res.Entries {
		if rec.Path != wantPaths[i] {
			t.Errorf("entry %d path = %q, want %q", i, rec.Path, wantPaths[i])
		}
	}

	// Independent recomputation of the whole chain with raw sha256.
	prevSecret, prevHash := "", ""
	var list strings.Builder
	for i, rec := range res.Entries {
		var secret string
		if i == 0 {
			secret = sum256("abc")
		} else {
			secret = sum256("abc" + prevSecret + prevHash)
		}
		item := secret + " " + rec.ModifiedUTC + " " + rec.ContentHash + " " + rec.Path
		hash := sum256(item)
		if rec.Secret != secret || rec.DetailItem != item || rec.DetailHash != hash {
			t.Fatalf("entry %d does not match independent recomputation", i)
		}
		prevSecret, prevHash = secret, hash
		list.WriteString(hash + "\r\n")
	}
	if res.HashListText != list.String() {
		t.Fatal("hash list text does not match independent recomputation")
	}
	if res.RootHash != sum256(list.String()) {
		t.Fatal("root hash is not the digest of the raw hash list bytes")
	}
}

func TestCreateRoundTrip(t *testing.T) {
	res := Create(fixtureFiles(), ChainConfig{Seed: "abc", Algorithm: SHA256})

	ok, err := VerifyRootHash(res.HashListText, res.RootHash)
	if err != nil {
		t.Fatalf("VerifyRootHash failed: %v", err)
	}
	if !ok {
		t.Fatal("freshly created root hash did not verify")
	}

	for i, rec := range res.Entries {
		line := rec.DetailLine()
		valid, err := VerifyDetailLine(line)
		if err != nil {
			t.Fatalf("entry %d: VerifyDetailLine failed: %v", i, err)
		}
		if !valid {
			t.Errorf("entry %d: detail line did not verify", i)
		}
		if !VerifyMembership(rec.DetailHash, res.HashListText) {
			t.Errorf("entry %d: detail hash not found in hash list", i)
		}
	}
}

func TestCreateDeterminism(t *testing.T) {
	cfg := ChainConfig{Seed: "abc", Algorithm: SHA256}
	a := Create(fixtureFiles(), cfg)
	b := Create(fixtureFiles(), cfg)

	if a.RootHash != b.RootHash {
		t.Errorf("root hashes differ: %s vs %s", a.RootHash, b.RootHash)
	}
	if a.HashListText != b.HashListText {
		t.Error("hash list texts differ")
	}
	if a.DetailLinesText != b.DetailLinesText {
		t.Error("detail line texts differ")
	}
}

func TestCreateOrderSensitivity(t *testing.T) {
	cfg := ChainConfig{Seed: "abc", Algorithm: SHA256}
	files := fixtureFiles()

	canonical := Create(files, cfg)

	reversed := []SourceFileEntry{files[2], files[1], files[0]}
	reordered := Create(reversed, cfg)

	if reordered.RootHash == canonical.RootHash {
		t.Error("reordering the input did not change the root hash")
	}
}

func TestCreateSeedSensitivity(t *testing.T) {
	a := Create(fixtureFiles(), ChainConfig{Seed: "abc", Algorithm: SHA256})
	b := Create(fixtureFiles(), ChainConfig{Seed: "abd", Algorithm: SHA256})
	if a.RootHash == b.RootHash {
		t.Error("different seeds produced the same root hash")
	}
}

func TestCreateTamperSensitivity(t *testing.T) {
	res := Create(fixtureFiles(), ChainConfig{Seed: "abc", Algorithm: SHA256})

	t.Run("flipped detail line", func(t *testing.T) {
		line := res.Entries[0].DetailLine()
		tampered := flipHexChar(line, len(line)-1)
		ok, err := VerifyDetailLine(tampered)
		if err != nil {
			t.Fatalf("VerifyDetailLine failed: %v", err)
		}
		if ok {
			t.Error("tampered detail line still verified")
		}
	})

	t.Run("flipped hash list", func(t *testing.T) {
		tampered := flipHexChar(res.HashListText, 0)
		ok, err := VerifyRootHash(tampered, res.RootHash)
		if err != nil {
			t.Fatalf("VerifyRootHash failed: %v", err)
		}
		if ok {
			t.Error("tampered hash list still verified")
		}
	})
}

// flipHexChar replaces the byte at idx with a different hex digit.
func flipHexChar(s string, idx int) string {
	b := []byte(s)
	if b[idx] == '0' {
		b[idx] = '1'
	} else {
		b[idx] = '0'
	}
	return string(b)
}

func TestCreateSingleVariantEntries(t *testing.T) {
	ts := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	files := []SourceFileEntry{
		{Path: "docs/readme.md", Modified: ts, Content: []byte("hello")},
	}

	res := Create(files, ChainConfig{Seed: "abc", Algorithm: SHA256})
	if len(res.Entries) != 1 {
		t.Fatalf("got %d entries, want 1 (no original path recorded)", len(res.Entries))
	}
	if res.Entries[0].Path != "readme.md" {
		t.Errorf("entry path = %q, want bare filename", res.Entries[0].Path)
	}
}

func TestCreateEmptyInput(t *testing.T) {
	res := Create(nil, ChainConfig{Seed: "abc", Algorithm: SHA256})
	if len(res.Entries) != 0 || res.HashListText != "" {
		t.Fatal("empty input should produce an empty hash list")
	}
	// Root of an empty list is still well defined: H("").
	if res.RootHash != sum256("") {
		t.Errorf("empty root = %s, want %s", res.RootHash, sum256(""))
	}
}

package proofset

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Artifact file suffixes. The hash list and simple listing are public;
// the detail-line file holds the chain secrets and stays private to the
// proofset creator.
const (
	HashListExt    = ".hashes"
	DetailLinesExt = ".details"
	SimpleExt      = ".simple"
)

// ErrInvalidHashListFormat indicates a hash-list line that is not a bare
// hex digest. The usual cause is passing a detail-line file where a hash
// list was expected.
var ErrInvalidHashListFormat = errors.New("invalid hash list format: expected bare hex digests")

// WriteArtifacts writes the two chained-proofset files under dir using
// name as the stem. The detail file carries the secrets and is written
// owner-readable only.
func WriteArtifacts(dir, name string, res *Result) error {
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("create artifact directory: %w", err)
	}
	hashPath := filepath.Join(dir, name+HashListExt)
	if err := os.WriteFile(hashPath, []byte(res.HashListText), 0644); err != nil {
		return fmt.Errorf("write hash list: %w", err)
	}
	detailPath := filepath.Join(dir, name+DetailLinesExt)
	if err := os.WriteFile(detailPath, []byte(res.DetailLinesText), 0600); err != nil {
		return fmt.Errorf("write detail lines: %w", err)
	}
	return nil
}

// WriteSimpleArtifact writes a simple-proofset listing under dir.
func WriteSimpleArtifact(dir, name string, res *SimpleResult) error {
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("create artifact directory: %w", err)
	}
	p := filepath.Join(dir, name+SimpleExt)
	if err := os.WriteFile(p, []byte(res.ListingText), 0644); err != nil {
		return fmt.Errorf("write simple listing: %w", err)
	}
	return nil
}

// LoadHashList reads a hash-list file and returns its raw text. Every
// non-empty line must be a bare digest; the raw bytes are returned
// untouched because the root hash covers them exactly as stored.
func LoadHashList(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read hash list: %w", err)
	}
	text := string(data)
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSuffix(line, "\r")
		if line == "" {
			continue
		}
		if !isHexDigest(line) {
			return "", fmt.Errorf("%w: line %q", ErrInvalidHashListFormat, truncateForErr(line))
		}
	}
	return text, nil
}

// LoadDetailLines reads a detail-line file and returns its detail lines,
// skipping any legacy header or summary decoration.
func LoadDetailLines(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read detail lines: %w", err)
	}
	return ExtractDetailLines(string(data)), nil
}

// LoadSimpleListing reads a simple-proofset file, returning both the raw
// text (what the root hash covers) and the parsed entries.
func LoadSimpleListing(path string) (string, []SimpleEntry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", nil, fmt.Errorf("read simple listing: %w", err)
	}
	text := string(data)
	entries, err := ParseSimpleListing(text)
	if err != nil {
		return "", nil, err
	}
	return text, entries, nil
}

func truncateForErr(s string) string {
	const max = 40
	if len(s) > max {
		return s[:max] + "..."
	}
	return s
}

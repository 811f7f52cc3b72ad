package proofset

import (
	"errors"
	"strings"
)

// ErrUnsupportedFormat indicates content matching neither the chained
// detail-line format nor the simple proofset format.
var ErrUnsupportedFormat = errors.New("unsupported format: neither chained nor simple proofset")

// Format identifies which of the two proofset artifact formats a blob
// carries.
type Format int

const (
	// FormatChained is the secret-chained detail-line format.
	FormatChained Format = iota
	// FormatSimple is the secretless one-line-per-file listing.
	FormatSimple
)

func (f Format) String() string {
	if f == FormatSimple {
		return "simple"
	}
	return "chained"
}

// SimpleEntry is one line of a simple proofset: no secret, no chaining,
// just the content hash, modification time and filename.
type SimpleEntry struct {
	ContentHash string
	ModifiedUTC string
	Filename    string
}

// Line renders the entry in wire form (without the terminator).
func (e SimpleEntry) Line() string {
	return e.ContentHash + " " + e.ModifiedUTC + " " + e.Filename
}

// SimpleResult is an assembled simple proofset. The root hash is the
// digest of the entire listing text, so any edit to any line changes it.
type SimpleResult struct {
	Algorithm   Algorithm
	RootHash    string
	ListingText string
	Entries     []SimpleEntry
}

// CreateSimple assembles a simple proofset over files in the given order.
// Unlike the chained format there is no per-entry secret, so entries are
// independent; order still matters because the root covers the raw
// listing bytes.
func CreateSimple(files []SourceFileEntry, algo Algorithm) *SimpleResult {
	var listing strings.Builder
	entries := make([]SimpleEntry, 0, len(files))

	for _, f := range files {
		e := SimpleEntry{
			ContentHash: Sum(f.Content, algo),
			ModifiedUTC: FormatTimestamp(f.Modified),
			Filename:    baseName(normalizePath(f.Path)),
		}
		entries = append(entries, e)
		listing.WriteString(e.Line())
		listing.WriteString(crlf)
	}

	text := listing.String()
	return &SimpleResult{
		Algorithm:   algo,
		RootHash:    SumString(text, algo),
		ListingText: text,
		Entries:     entries,
	}
}

// isSimpleLine reports whether line is shaped like a simple proofset
// entry: a hex digest, a timestamp, and a non-empty filename, separated
// by single spaces.
func isSimpleLine(line string) bool {
	parts := strings.SplitN(line, " ", 3)
	if len(parts) < 3 {
		return false
	}
	return isHexDigest(parts[0]) && isTimestamp(parts[1]) && parts[2] != ""
}

// ParseSimpleLine splits one simple proofset line into its fields. The
// filename absorbs any embedded spaces.
func ParseSimpleLine(line string) (SimpleEntry, error) {
	if !isSimpleLine(line) {
		return SimpleEntry{}, ErrUnsupportedFormat
	}
	parts := strings.SplitN(line, " ", 3)
	return SimpleEntry{
		ContentHash: parts[0],
		ModifiedUTC: parts[1],
		Filename:    parts[2],
	}, nil
}

// ParseSimpleListing parses every non-empty line of a simple proofset.
func ParseSimpleListing(text string) ([]SimpleEntry, error) {
	var out []SimpleEntry
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSuffix(line, "\r")
		if line == "" {
			continue
		}
		e, err := ParseSimpleLine(line)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, nil
}

// DetectFormat classifies a blob by its first non-empty line. The simple
// check runs first and requires the line NOT to be a chained detail line,
// since a chained line's hash-plus-separator prefix could otherwise pass
// a loose field count check. Run this before any chained parsing.
func DetectFormat(text string) (Format, error) {
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSuffix(line, "\r")
		if line == "" {
			continue
		}
		if isSimpleLine(line) && !isChainedDetailLine(line) {
			return FormatSimple, nil
		}
		if isChainedDetailLine(line) {
			return FormatChained, nil
		}
		return 0, ErrUnsupportedFormat
	}
	return 0, ErrUnsupportedFormat
}

package proofset

import (
	"errors"
	"fmt"
	"strings"
)

// ErrMalformedLine indicates a detail line without the "<hash>: <item>"
// separator.
var ErrMalformedLine = errors.New("malformed detail line: missing \": \" separator")

// ErrMalformedDetailItem indicates a detail item with fewer than the four
// required fields.
var ErrMalformedDetailItem = errors.New("malformed detail item: expected secret, timestamp, content hash and path")

// ErrEmptyPath indicates a detail item whose path field is blank after
// trimming.
var ErrEmptyPath = errors.New("detail item has an empty path field")

// detailLineSep separates a detail hash from the detail item it commits to.
const detailLineSep = ": "

// ParsedDetailLine is one disclosed detail line broken into its parts.
// DetailItem is kept verbatim: it is the exact string the hash covers and
// must never be re-assembled from the parsed fields.
type ParsedDetailLine struct {
	DetailHash  string
	DetailItem  string
	Secret      string
	ModifiedUTC string
	ContentHash string
	Path        string
}

// SplitDetailLine splits a line at the first ": " into the stated detail
// hash and the detail item string.
func SplitDetailLine(line string) (detailHash, detailItem string, err error) {
	idx := strings.Index(line, detailLineSep)
	if idx < 0 {
		return "", "", ErrMalformedLine
	}
	return line[:idx], line[idx+len(detailLineSep):], nil
}

// VerifyDetailLine checks a single disclosed line: it recomputes the
// digest of the item part with the algorithm inferred from the stated
// hash and compares case-insensitively. A false result means the line was
// altered; an error means it could not even be parsed.
func VerifyDetailLine(line string) (bool, error) {
	detailHash, detailItem, err := SplitDetailLine(line)
	if err != nil {
		return false, err
	}
	algo, err := InferAlgorithm(detailHash)
	if err != nil {
		return false, err
	}
	return strings.EqualFold(SumString(detailItem, algo), detailHash), nil
}

// VerifyMembership reports whether detailHash appears in the hash list.
// A linear scan is deliberate: hash lists hold thousands of entries at
// most, which does not justify building an index per call.
func VerifyMembership(detailHash, hashListText string) bool {
	for _, h := range strings.Split(hashListText, crlf) {
		if h == "" {
			continue
		}
		if strings.EqualFold(h, detailHash) {
			return true
		}
	}
	return false
}

// VerifyRootHash recomputes the digest of the raw hash list bytes and
// compares it against the expected root, inferring the algorithm from the
// root's length.
func VerifyRootHash(hashListText, expectedRoot string) (bool, error) {
	algo, err := InferAlgorithm(expectedRoot)
	if err != nil {
		return false, err
	}
	return strings.EqualFold(SumString(hashListText, algo), expectedRoot), nil
}

// isChainedDetailLine reports whether line carries a detail hash followed
// by ": ". This is the filter that lets legacy files keep their header
// and summary decoration: anything not shaped like a detail line is
// skipped, not rejected.
func isChainedDetailLine(line string) bool {
	idx := strings.Index(line, detailLineSep)
	if idx < 0 {
		return false
	}
	return isHexDigest(line[:idx])
}

// ExtractDetailLines returns the detail lines of text in order, dropping
// any decoration lines. Both CRLF and bare LF terminators are accepted on
// input; output lines carry no terminator.
func ExtractDetailLines(text string) []string {
	var out []string
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSuffix(line, "\r")
		if isChainedDetailLine(line) {
			out = append(out, line)
		}
	}
	return out
}

// ParseDetailItem splits a detail item into its four fields. The path is
// whatever remains after the third field, rejoined with single spaces, so
// paths containing spaces survive and the legacy double-space separator
// is absorbed.
func ParseDetailItem(item string) (secret, modifiedUTC, contentHash, filePath string, err error) {
	parts := strings.SplitN(item, " ", 4)
	if len(parts) < 4 {
		return "", "", "", "", ErrMalformedDetailItem
	}
	filePath = strings.Join(strings.Fields(parts[3]), " ")
	if filePath == "" {
		return "", "", "", "", ErrEmptyPath
	}
	return parts[0], parts[1], parts[2], filePath, nil
}

// ParseDetailLine splits a full detail line into hash and fields.
func ParseDetailLine(line string) (ParsedDetailLine, error) {
	detailHash, detailItem, err := SplitDetailLine(line)
	if err != nil {
		return ParsedDetailLine{}, err
	}
	secret, modified, contentHash, filePath, err := ParseDetailItem(detailItem)
	if err != nil {
		return ParsedDetailLine{}, fmt.Errorf("parse detail line %q: %w", detailHash, err)
	}
	return ParsedDetailLine{
		DetailHash:  detailHash,
		DetailItem:  detailItem,
		Secret:      secret,
		ModifiedUTC: modified,
		ContentHash: contentHash,
		Path:        filePath,
	}, nil
}

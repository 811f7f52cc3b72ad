package proofset

import (
	"path"
	"strings"
	"time"
)

// crlf terminates every line in proofset artifacts, regardless of the
// platform the proofset was created on.
const crlf = "\r\n"

// SourceFileEntry is one file handed to the assembler. Path is the
// relative, slash-separated path used for canonical ordering.
// OriginalPath optionally carries the path as it was first recorded (it
// may be absolute or contain directories); when set, the file commits
// under both that path and its bare filename.
type SourceFileEntry struct {
	Path         string
	OriginalPath string
	Modified     time.Time
	Content      []byte
}

// pathVariants returns the paths this file commits under, in chain order.
// The filename-only variant is always present and always last, so every
// file is discoverable by name alone even if directories were reshuffled.
func (e SourceFileEntry) pathVariants() []string {
	name := path.Base(strings.ReplaceAll(e.Path, "\\", "/"))
	if e.OriginalPath != "" {
		return []string{e.OriginalPath, name}
	}
	return []string{name}
}

// EntryRecord is the private record of one chain entry. DetailItem is the
// exact string that was hashed; disclosing the record (its detail line)
// reveals this file's provenance without revealing any other entry.
type EntryRecord struct {
	Secret      string
	ModifiedUTC string
	ContentHash string
	Path        string
	DetailItem  string
	DetailHash  string
}

// DetailLine renders the record in disclosure form: "<hash>: <item>".
func (r EntryRecord) DetailLine() string {
	return r.DetailHash + ": " + r.DetailItem
}

// Result is a fully assembled proofset. RootHash is the single published
// commitment; HashListText is the public hash list it is the digest of;
// DetailLinesText holds the private per-entry lines for later disclosure.
type Result struct {
	Algorithm       Algorithm
	RootHash        string
	HashListText    string
	DetailLinesText string
	Entries         []EntryRecord
}

// Create assembles a proofset over files in the given order. Each file
// contributes one chain step per path variant; the caller is responsible
// for presenting files in canonical order (lexicographic by relative
// path, as CollectFiles returns them), since any other order produces a
// different, equally valid root.
//
// The whole computation is a single sequential pass: the chain carries
// only the previous step's secret and hash, so memory stays constant in
// the number of files apart from the accumulated output.
func Create(files []SourceFileEntry, cfg ChainConfig) *Result {
	chain := NewChain(cfg)

	var hashList, detailLines strings.Builder
	entries := make([]EntryRecord, 0, len(files))

	for _, f := range files {
		contentHash := Sum(f.Content, cfg.Algorithm)
		modified := FormatTimestamp(f.Modified)

		for _, p := range f.pathVariants() {
			step := chain.Step(modified, contentHash, p)

			rec := EntryRecord{
				Secret:      step.Secret,
				ModifiedUTC: step.ModifiedUTC,
				ContentHash: step.ContentHash,
				Path:        step.Path,
				DetailItem:  step.Item,
				DetailHash:  step.Hash,
			}
			entries = append(entries, rec)

			hashList.WriteString(step.Hash)
			hashList.WriteString(crlf)
			detailLines.WriteString(rec.DetailLine())
			detailLines.WriteString(crlf)
		}
	}

	listText := hashList.String()
	return &Result{
		Algorithm:       cfg.Algorithm,
		RootHash:        SumString(listText, cfg.Algorithm),
		HashListText:    listText,
		DetailLinesText: detailLines.String(),
		Entries:         entries,
	}
}

package proofset

import (
	"sort"
	"strings"
)

// MatchStatus classifies the outcome of reconciling one disclosed entry
// against the files observed on disk.
type MatchStatus int

const (
	// MatchFound means a file resolved and its content hash agrees.
	MatchFound MatchStatus = iota
	// MatchMismatch means a file resolved but its content hash differs.
	MatchMismatch
	// MatchNotFound means no observed file resolved for the entry.
	MatchNotFound
)

func (s MatchStatus) String() string {
	switch s {
	case MatchFound:
		return "match"
	case MatchMismatch:
		return "mismatch"
	case MatchNotFound:
		return "not found"
	default:
		return "unknown"
	}
}

// MatchResult is the reconciliation outcome for one disclosed line.
// ComputedHash is set when a file resolved (match or mismatch);
// CandidatePaths lists every observed path carrying the entry's content
// hash when matching by hash.
type MatchResult struct {
	Entry          ParsedDetailLine
	Status         MatchStatus
	MatchedPath    string
	ComputedHash   string
	CandidatePaths []string
}

// Observations is the read-only index of what is actually on disk:
// relative path to content hash, and the reverse. Build it once (see
// BuildObservations) and share it across matching calls; it is never
// mutated after construction.
type Observations struct {
	byPath map[string]string
	byHash map[string][]string
	paths  []string
}

// NewObservations returns an empty index.
func NewObservations() *Observations {
	return &Observations{
		byPath: make(map[string]string),
		byHash: make(map[string][]string),
	}
}

// Add records one observed file. Paths are normalized to forward slashes;
// hashes are indexed case-insensitively.
func (o *Observations) Add(relPath, contentHash string) {
	p := normalizePath(relPath)
	if _, dup := o.byPath[p]; !dup {
		o.paths = append(o.paths, p)
		sort.Strings(o.paths)
	}
	o.byPath[p] = contentHash
	key := strings.ToLower(contentHash)
	o.byHash[key] = append(o.byHash[key], p)
	sort.Strings(o.byHash[key])
}

// Len returns the number of observed paths.
func (o *Observations) Len() int { return len(o.paths) }

func normalizePath(p string) string {
	return strings.ReplaceAll(p, "\\", "/")
}

// lookupPath resolves an entry path against the observations using an
// ordered list of strategies, short-circuiting on the first hit:
//
//  1. exact relative path;
//  2. progressively strip the leftmost segment and retry, which resolves
//     absolute paths recorded before relative paths existed;
//  3. for a bare filename, first match by name across all observed paths.
func (o *Observations) lookupPath(entryPath string) (foundPath, contentHash string, ok bool) {
	p := normalizePath(entryPath)

	if h, hit := o.byPath[p]; hit {
		return p, h, true
	}

	rest := p
	for {
		idx := strings.IndexByte(rest, '/')
		if idx < 0 {
			break
		}
		rest = rest[idx+1:]
		if rest == "" {
			break
		}
		if h, hit := o.byPath[rest]; hit {
			return rest, h, true
		}
	}

	if !strings.Contains(p, "/") {
		for _, cand := range o.paths {
			if baseName(cand) == p {
				return cand, o.byPath[cand], true
			}
		}
	}

	return "", "", false
}

func baseName(p string) string {
	if idx := strings.LastIndexByte(p, '/'); idx >= 0 {
		return p[idx+1:]
	}
	return p
}

// MatchByPath reconciles disclosed entries against observed files by
// path. A resolved file whose content hash disagrees with the entry is a
// mismatch, not a miss: the file is there but its bytes changed.
func MatchByPath(entries []ParsedDetailLine, obs *Observations) []MatchResult {
	results := make([]MatchResult, 0, len(entries))
	for _, e := range entries {
		r := MatchResult{Entry: e, Status: MatchNotFound}
		if foundPath, hash, ok := obs.lookupPath(e.Path); ok {
			r.MatchedPath = foundPath
			r.ComputedHash = hash
			if strings.EqualFold(hash, e.ContentHash) {
				r.Status = MatchFound
			} else {
				r.Status = MatchMismatch
			}
		}
		results = append(results, r)
	}
	return results
}

// MatchByHash reconciles disclosed entries by content hash alone. Immune
// to renames and moves; every observed path carrying the entry's content
// is reported as a candidate.
func MatchByHash(entries []ParsedDetailLine, obs *Observations) []MatchResult {
	results := make([]MatchResult, 0, len(entries))
	for _, e := range entries {
		r := MatchResult{Entry: e, Status: MatchNotFound}
		if paths, ok := obs.byHash[strings.ToLower(e.ContentHash)]; ok && len(paths) > 0 {
			r.Status = MatchFound
			r.ComputedHash = e.ContentHash
			r.MatchedPath = paths[0]
			r.CandidatePaths = append([]string(nil), paths...)
		}
		results = append(results, r)
	}
	return results
}

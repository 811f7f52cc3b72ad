package proofset

import (
	"strings"
	"time"
)

// ProofsetRecord is a created proofset as kept in a registry. HashList is
// the public artifact; DetailLines holds the chain secrets and must be
// treated as private.
type ProofsetRecord struct {
	RootHash    string
	Algorithm   Algorithm
	CreatedAt   time.Time
	EntryCount  int
	HashList    string
	DetailLines string
}

// RecordOf builds a registry record from an assembled proofset.
func RecordOf(res *Result, createdAt time.Time) ProofsetRecord {
	return ProofsetRecord{
		RootHash:    res.RootHash,
		Algorithm:   res.Algorithm,
		CreatedAt:   createdAt.UTC(),
		EntryCount:  len(res.Entries),
		HashList:    res.HashListText,
		DetailLines: res.DetailLinesText,
	}
}

// Store abstracts proofset registry persistence. Roots are keyed
// case-insensitively; saving the same root twice is a no-op since the
// record is fully determined by its root.
type Store interface {
	Save(rec ProofsetRecord) error
	Get(rootHash string) (ProofsetRecord, bool, error)
	List() ([]ProofsetRecord, error)
	Close() error
}

// storeKey canonicalizes a root hash for registry lookup.
func storeKey(rootHash string) string { return strings.ToLower(rootHash) }

package proofset

import (
	"crypto/sha256"
	"crypto/sha512"
	"fmt"
	"hash"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"sync"

	"golang.org/x/exp/mmap"
)

// hashChunkSize is how much of a mapped file is fed to the digest per
// read. Bounds memory for arbitrarily large files.
const hashChunkSize = 1 << 20

func newDigest(algo Algorithm) hash.Hash {
	if algo == SHA512 {
		return sha512.New()
	}
	return sha256.New()
}

// HashFile computes the content hash of the file at path by mapping it
// and digesting in fixed-size chunks.
func HashFile(path string, algo Algorithm) (string, error) {
	r, err := mmap.Open(path)
	if err != nil {
		return "", fmt.Errorf("open %q: %w", path, err)
	}
	defer r.Close()

	h := newDigest(algo)
	buf := make([]byte, hashChunkSize)
	for off := int64(0); off < int64(r.Len()); {
		n, err := r.ReadAt(buf, off)
		if n > 0 {
			_, _ = h.Write(buf[:n])
			off += int64(n)
		}
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", fmt.Errorf("read %q: %w", path, err)
		}
	}
	return fmt.Sprintf("%x", h.Sum(nil)), nil
}

// CollectFiles walks root and returns one SourceFileEntry per regular
// file, sorted lexicographically by relative slash path. OriginalPath is
// set to the relative path, so each file commits under both its path and
// its bare filename.
func CollectFiles(root string) ([]SourceFileEntry, error) {
	var entries []SourceFileEntry

	err := filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.Type().IsRegular() {
			return nil
		}
		rel, err := filepath.Rel(root, p)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)
		info, err := d.Info()
		if err != nil {
			return err
		}
		content, err := os.ReadFile(p)
		if err != nil {
			return fmt.Errorf("read %q: %w", p, err)
		}
		entries = append(entries, SourceFileEntry{
			Path:         rel,
			OriginalPath: rel,
			Modified:     info.ModTime().UTC(),
			Content:      content,
		})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk %q: %w", root, err)
	}

	sort.Slice(entries, func(i, j int) bool { return entries[i].Path < entries[j].Path })
	return entries, nil
}

// BuildObservations walks root and hashes every regular file, producing
// the read-only index the content matcher works against. Hashing runs on
// a worker pool since files are independent; the index is assembled only
// after all workers finish, so matching always sees a complete view.
func BuildObservations(root string, algo Algorithm) (*Observations, error) {
	var paths []string
	err := filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.Type().IsRegular() {
			paths = append(paths, p)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk %q: %w", root, err)
	}

	hashes := make([]string, len(paths))
	errs := make([]error, len(paths))

	jobs := make(chan int)
	var wg sync.WaitGroup
	for w := 0; w < runtime.NumCPU(); w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				hashes[i], errs[i] = HashFile(paths[i], algo)
			}
		}()
	}
	for i := range paths {
		jobs <- i
	}
	close(jobs)
	wg.Wait()

	obs := NewObservations()
	for i, p := range paths {
		if errs[i] != nil {
			return nil, errs[i]
		}
		rel, err := filepath.Rel(root, p)
		if err != nil {
			return nil, err
		}
		obs.Add(filepath.ToSlash(rel), hashes[i])
	}
	return obs, nil
}

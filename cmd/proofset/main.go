package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/karasz/proofset"
)

const (
	exitError  = 1
	exitFailed = 2 // verification completed and the answer is "no"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(0)
	}

	var err error
	switch os.Args[1] {
	case "create":
		err = cmdCreate(os.Args[2:])
	case "simple":
		err = cmdSimple(os.Args[2:])
	case "verify-root":
		err = cmdVerifyRoot(os.Args[2:])
	case "verify-lines":
		err = cmdVerifyLines(os.Args[2:])
	case "match":
		err = cmdMatch(os.Args[2:])
	case "detect":
		err = cmdDetect(os.Args[2:])
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", os.Args[1])
		usage()
		os.Exit(exitError)
	}

	if err != nil {
		if err == errVerifyFailed {
			os.Exit(exitFailed)
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(exitError)
	}
}

func usage() {
	fmt.Println("Usage: proofset <command> [flags]")
	fmt.Println("Commands:")
	fmt.Println("  create       build a chained proofset over a directory")
	fmt.Println("  simple       build a simple (secretless) proofset over a directory")
	fmt.Println("  verify-root  check a hash list against an expected root hash")
	fmt.Println("  verify-lines check disclosed detail lines (and optional membership)")
	fmt.Println("  match        reconcile disclosed detail lines against files on disk")
	fmt.Println("  detect       report whether a file is chained or simple format")
}

// errVerifyFailed marks a clean "verification said no" outcome, which
// exits 2 rather than 1.
var errVerifyFailed = fmt.Errorf("verification failed")

func parseAlgo(name string) (proofset.Algorithm, error) {
	switch name {
	case "sha256":
		return proofset.SHA256, nil
	case "sha512":
		return proofset.SHA512, nil
	default:
		return 0, fmt.Errorf("unknown algorithm %q (want sha256 or sha512)", name)
	}
}

func cmdCreate(args []string) error {
	fs := flag.NewFlagSet("create", flag.ExitOnError)
	dir := fs.String("dir", ".", "directory to commit to")
	algoName := fs.String("algo", "sha256", "hash algorithm: sha256 or sha512")
	out := fs.String("out", ".", "directory to write artifacts into")
	name := fs.String("name", "proofset", "artifact file stem")
	db := fs.String("db", "", "optional SQLite registry to record the proofset in")
	publish := fs.String("publish", "", "optional registry base URL to publish the root to")
	if err := fs.Parse(args); err != nil {
		return err
	}

	algo, err := parseAlgo(*algoName)
	if err != nil {
		return err
	}

	seed, err := getSeed(os.Stderr)
	if err != nil {
		return fmt.Errorf("read seed password: %w", err)
	}

	files, err := proofset.CollectFiles(*dir)
	if err != nil {
		return err
	}

	res := proofset.Create(files, proofset.ChainConfig{Seed: seed, Algorithm: algo})
	if err := proofset.WriteArtifacts(*out, *name, res); err != nil {
		return err
	}

	now := time.Now()
	if *db != "" {
		store, err := proofset.OpenSQLiteStore(*db)
		if err != nil {
			return err
		}
		defer store.Close()
		if err := store.Save(proofset.RecordOf(res, now)); err != nil {
			return err
		}
	}
	if *publish != "" {
		tr := proofset.NewHTTPTransport(*publish)
		if err := tr.PublishCommitment(proofset.CommitmentOf(res, now)); err != nil {
			return err
		}
	}

	fmt.Printf("%d files, %d entries\n", len(files), len(res.Entries))
	fmt.Printf("root: %s\n", res.RootHash)
	fmt.Printf("wrote %s and %s\n",
		filepath.Join(*out, *name+proofset.HashListExt),
		filepath.Join(*out, *name+proofset.DetailLinesExt))
	return nil
}

func cmdSimple(args []string) error {
	fs := flag.NewFlagSet("simple", flag.ExitOnError)
	dir := fs.String("dir", ".", "directory to commit to")
	algoName := fs.String("algo", "sha256", "hash algorithm: sha256 or sha512")
	out := fs.String("out", ".", "directory to write the listing into")
	name := fs.String("name", "proofset", "artifact file stem")
	if err := fs.Parse(args); err != nil {
		return err
	}

	algo, err := parseAlgo(*algoName)
	if err != nil {
		return err
	}

	files, err := proofset.CollectFiles(*dir)
	if err != nil {
		return err
	}

	res := proofset.CreateSimple(files, algo)
	if err := proofset.WriteSimpleArtifact(*out, *name, res); err != nil {
		return err
	}

	fmt.Printf("%d files\n", len(files))
	fmt.Printf("root: %s\n", res.RootHash)
	return nil
}

func cmdVerifyRoot(args []string) error {
	fs := flag.NewFlagSet("verify-root", flag.ExitOnError)
	list := fs.String("list", "", "hash list file")
	root := fs.String("root", "", "expected root hash (hex)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *list == "" || *root == "" {
		return fmt.Errorf("verify-root requires -list and -root")
	}

	text, err := proofset.LoadHashList(*list)
	if err != nil {
		return err
	}
	ok, err := proofset.VerifyRootHash(text, *root)
	if err != nil {
		return err
	}
	if !ok {
		fmt.Println("root hash: INVALID")
		return errVerifyFailed
	}
	fmt.Println("root hash: valid")
	return nil
}

func cmdVerifyLines(args []string) error {
	fs := flag.NewFlagSet("verify-lines", flag.ExitOnError)
	details := fs.String("details", "", "detail-line file (disclosed lines)")
	list := fs.String("list", "", "optional hash list file for membership checks")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *details == "" {
		return fmt.Errorf("verify-lines requires -details")
	}

	lines, err := proofset.LoadDetailLines(*details)
	if err != nil {
		return err
	}
	if len(lines) == 0 {
		return fmt.Errorf("no detail lines found in %s", *details)
	}

	var hashList string
	if *list != "" {
		hashList, err = proofset.LoadHashList(*list)
		if err != nil {
			return err
		}
	}

	failed := 0
	for _, line := range lines {
		ok, err := proofset.VerifyDetailLine(line)
		if err != nil {
			return err
		}
		parsed, err := proofset.ParseDetailLine(line)
		if err != nil {
			return err
		}
		status := "valid"
		if !ok {
			status = "INVALID"
			failed++
		} else if hashList != "" && !proofset.VerifyMembership(parsed.DetailHash, hashList) {
			status = "NOT IN LIST"
			failed++
		}
		fmt.Printf("%s  %s\n", status, parsed.Path)
	}

	fmt.Printf("%d lines, %d failed\n", len(lines), failed)
	if failed > 0 {
		return errVerifyFailed
	}
	return nil
}

func cmdMatch(args []string) error {
	fs := flag.NewFlagSet("match", flag.ExitOnError)
	details := fs.String("details", "", "detail-line file (disclosed lines)")
	dir := fs.String("dir", ".", "directory to reconcile against")
	by := fs.String("by", "path", "matching strategy: path or hash")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *details == "" {
		return fmt.Errorf("match requires -details")
	}

	lines, err := proofset.LoadDetailLines(*details)
	if err != nil {
		return err
	}
	entries := make([]proofset.ParsedDetailLine, 0, len(lines))
	for _, line := range lines {
		parsed, err := proofset.ParseDetailLine(line)
		if err != nil {
			return err
		}
		entries = append(entries, parsed)
	}

	algo := proofset.SHA256
	if len(entries) > 0 {
		algo, err = proofset.InferAlgorithm(entries[0].ContentHash)
		if err != nil {
			return err
		}
	}

	obs, err := proofset.BuildObservations(*dir, algo)
	if err != nil {
		return err
	}

	var results []proofset.MatchResult
	switch *by {
	case "path":
		results = proofset.MatchByPath(entries, obs)
	case "hash":
		results = proofset.MatchByHash(entries, obs)
	default:
		return fmt.Errorf("unknown strategy %q (want path or hash)", *by)
	}

	failed := 0
	for _, r := range results {
		if r.Status != proofset.MatchFound {
			failed++
		}
		fmt.Printf("%-9s %s\n", r.Status, r.Entry.Path)
	}
	fmt.Printf("%d entries, %d not matching\n", len(results), failed)
	if failed > 0 {
		return errVerifyFailed
	}
	return nil
}

func cmdDetect(args []string) error {
	fs := flag.NewFlagSet("detect", flag.ExitOnError)
	file := fs.String("file", "", "file to classify")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *file == "" {
		return fmt.Errorf("detect requires -file")
	}

	data, err := os.ReadFile(*file)
	if err != nil {
		return err
	}
	format, err := proofset.DetectFormat(string(data))
	if err != nil {
		return err
	}
	fmt.Println(format)
	return nil
}

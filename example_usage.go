package proofset

// Creating and verifying a proofset
//
// A proofset commits to an ordered set of files with a single root hash.
// Each file contributes one or two chained entries; disclosing one entry's
// detail line proves that file's provenance without revealing the rest.
//
// === Creating ===
//
//   files, err := proofset.CollectFiles("/data/reports")
//   if err != nil {
//       log.Fatal(err)
//   }
//
//   res := proofset.Create(files, proofset.ChainConfig{
//       Seed:      seedPassword,
//       Algorithm: proofset.SHA256,
//   })
//
//   // res.RootHash is the published commitment.
//   // res.HashListText is public; res.DetailLinesText stays private.
//   err = proofset.WriteArtifacts("/data/artifacts", "reports", res)
//
// === Verifying a disclosure ===
//
//   lines, _ := proofset.LoadDetailLines("disclosed.details")
//   list, _ := proofset.LoadHashList("reports.hashes")
//
//   for _, line := range lines {
//       ok, err := proofset.VerifyDetailLine(line)
//       parsed, _ := proofset.ParseDetailLine(line)
//       member := proofset.VerifyMembership(parsed.DetailHash, list)
//       // ok && member: the line is genuine and was committed to.
//   }
//
//   valid, _ := proofset.VerifyRootHash(list, publishedRoot)
//
// === Reconciling against files on disk ===
//
//   obs, _ := proofset.BuildObservations("/data/reports", proofset.SHA256)
//   results := proofset.MatchByPath(entries, obs)   // or MatchByHash
//
// === Publishing the root ===
//
//   tr := proofset.NewHTTPTransport("https://registry.example.com")
//   err = tr.PublishCommitment(proofset.CommitmentOf(res, time.Now()))
//
// The simple variant (CreateSimple) skips the secret chain entirely: one
// line per file, no selective disclosure, root hash over the raw listing.

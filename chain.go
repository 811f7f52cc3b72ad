package proofset

// ChainConfig fixes the parameters of one secret chain. Seed is the
// password the whole chain is derived from; Algorithm is used for every
// digest in the proofset.
type ChainConfig struct {
	Seed      string
	Algorithm Algorithm

	// LegacySpacing doubles the space before the path field of each
	// detail item, matching artifacts written before the separator was
	// made canonical. Creation normally leaves this false; it exists so
	// old proofsets can be re-derived byte for byte.
	LegacySpacing bool
}

// ChainStep is the output of one chain advance: the per-entry secret, the
// detail item string that was hashed, and its digest.
type ChainStep struct {
	Secret      string
	ModifiedUTC string
	ContentHash string
	Path        string
	Item        string
	Hash        string
}

// Chain derives the per-entry secret sequence. It has exactly two states:
// seeded (only secret[0] = H(seed) is derivable) and chained (the previous
// secret and detail hash are known). Each Step consumes the previous
// step's output, so the chain is strictly sequential and keeps O(1) state
// regardless of entry count.
type Chain struct {
	cfg        ChainConfig
	chained    bool
	prevSecret string
	prevHash   string
}

// NewChain returns a chain in the seeded state.
func NewChain(cfg ChainConfig) *Chain {
	return &Chain{cfg: cfg}
}

// nextSecret derives the secret for the upcoming entry.
//
//	secret[0] = H(seed)
//	secret[i] = H(seed || secret[i-1] || hash[i-1])
func (c *Chain) nextSecret() string {
	if !c.chained {
		return SumString(c.cfg.Seed, c.cfg.Algorithm)
	}
	return SumString(c.cfg.Seed+c.prevSecret+c.prevHash, c.cfg.Algorithm)
}

// Step advances the chain by one entry. modifiedUTC must already be in
// FormatTimestamp form and contentHash in lowercase hex.
func (c *Chain) Step(modifiedUTC, contentHash, path string) ChainStep {
	secret := c.nextSecret()
	item := buildDetailItem(secret, modifiedUTC, contentHash, path, c.cfg.LegacySpacing)
	hash := SumString(item, c.cfg.Algorithm)

	c.chained = true
	c.prevSecret = secret
	c.prevHash = hash

	return ChainStep{
		Secret:      secret,
		ModifiedUTC: modifiedUTC,
		ContentHash: contentHash,
		Path:        path,
		Item:        item,
		Hash:        hash,
	}
}

// buildDetailItem concatenates the four fields of a detail item. The
// string is hashed verbatim, so the separator choice is part of the
// recorded data and must never be normalized after the fact.
func buildDetailItem(secret, modifiedUTC, contentHash, path string, legacySpacing bool) string {
	pathSep := " "
	if legacySpacing {
		pathSep = "  "
	}
	return secret + " " + modifiedUTC + " " + contentHash + pathSep + path
}

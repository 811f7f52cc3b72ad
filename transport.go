package proofset

import (
	"bytes"
	"encoding/gob"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

// Commitment is the public record published for one proofset: the root
// hash and enough metadata to talk about it. It carries no secrets and no
// hash list; disclosure stays entirely under the creator's control.
type Commitment struct {
	RootHash   string
	Algorithm  Algorithm
	EntryCount int
	CreatedAt  time.Time
}

// CommitmentOf derives the publishable commitment of a proofset.
func CommitmentOf(res *Result, createdAt time.Time) Commitment {
	return Commitment{
		RootHash:   res.RootHash,
		Algorithm:  res.Algorithm,
		EntryCount: len(res.Entries),
		CreatedAt:  createdAt.UTC(),
	}
}

// Transport defines how commitments reach a registry server.
// Different implementations can use HTTP, gRPC, message queues, etc.
type Transport interface {
	// PublishCommitment registers a proofset root with the registry.
	PublishCommitment(c Commitment) error

	// LookupCommitment fetches a registered commitment by root hash.
	// The second result is false if the root is unknown.
	LookupCommitment(rootHash string) (Commitment, bool, error)

	// SubmitHashList asks the registry to recompute the root over the
	// submitted hash list. Returns true if it matches the registered root.
	SubmitHashList(rootHash, hashListText string) (bool, error)
}

// HTTPTransport implements Transport using HTTP/HTTPS.
type HTTPTransport struct {
	BaseURL string       // Base URL of the registry (e.g. "https://registry.example.com")
	Client  *http.Client // HTTP client (can customize timeouts, TLS, etc.)
}

// NewHTTPTransport creates a transport for talking to a registry server.
func NewHTTPTransport(baseURL string) *HTTPTransport {
	return &HTTPTransport{
		BaseURL: baseURL,
		Client:  &http.Client{},
	}
}

// PublishCommitment sends the commitment via HTTP POST.
func (t *HTTPTransport) PublishCommitment(c Commitment) error {
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(c); err != nil {
		return fmt.Errorf("encode commitment: %w", err)
	}

	resp, err := t.Client.Post(t.BaseURL+"/api/v1/commitments", "application/octet-stream", &buf)
	if err != nil {
		return fmt.Errorf("post commitment: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("server returned %d: %s", resp.StatusCode, body)
	}
	return nil
}

// LookupCommitment fetches a commitment by root hash.
func (t *HTTPTransport) LookupCommitment(rootHash string) (Commitment, bool, error) {
	resp, err := t.Client.Get(t.BaseURL + "/api/v1/commitments/" + url.PathEscape(storeKey(rootHash)))
	if err != nil {
		return Commitment{}, false, fmt.Errorf("get commitment: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return Commitment{}, false, nil
	}
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return Commitment{}, false, fmt.Errorf("server returned %d: %s", resp.StatusCode, body)
	}

	var c Commitment
	if err := gob.NewDecoder(resp.Body).Decode(&c); err != nil {
		return Commitment{}, false, fmt.Errorf("decode commitment: %w", err)
	}
	return c, true, nil
}

// hashListSubmission is the payload of a server-side root verification.
type hashListSubmission struct {
	RootHash string
	HashList string
}

// verifyResponse is the registry's answer to a hash-list submission.
type verifyResponse struct {
	Valid bool `json:"valid"`
}

// ErrUnknownRoot is returned when submitting a hash list for a root the
// registry has never seen.
var ErrUnknownRoot = errors.New("root hash not registered")

// SubmitHashList posts the full hash list for server-side recomputation.
func (t *HTTPTransport) SubmitHashList(rootHash, hashListText string) (bool, error) {
	var buf bytes.Buffer
	sub := hashListSubmission{RootHash: rootHash, HashList: hashListText}
	if err := gob.NewEncoder(&buf).Encode(sub); err != nil {
		return false, fmt.Errorf("encode submission: %w", err)
	}

	resp, err := t.Client.Post(t.BaseURL+"/api/v1/verify", "application/octet-stream", &buf)
	if err != nil {
		return false, fmt.Errorf("post hash list: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return false, ErrUnknownRoot
	}
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return false, fmt.Errorf("server returned %d: %s", resp.StatusCode, body)
	}

	var vr verifyResponse
	if err := json.NewDecoder(resp.Body).Decode(&vr); err != nil {
		return false, fmt.Errorf("decode response: %w", err)
	}
	return vr.Valid, nil
}

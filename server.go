package proofset

import (
	"crypto/tls"
	"encoding/gob"
	"encoding/json"
	"net/http"
	"strings"
	"sync"
)

// Server provides the registry endpoints commitments are published to.
// Registered roots are held in memory; a Store can be attached so
// commitments survive restarts.
type Server struct {
	mu          sync.RWMutex
	commitments map[string]Commitment
	tlsConfig   *tls.Config
}

// NewServer creates an empty commitment registry.
func NewServer() *Server {
	return &Server{commitments: make(map[string]Commitment)}
}

// SetTLSConfig clones cfg and stores it for use when serving HTTPS
// requests. If cfg is nil a default configuration will be used.
func (s *Server) SetTLSConfig(cfg *tls.Config) {
	if cfg == nil {
		s.tlsConfig = nil
		return
	}
	s.tlsConfig = cfg.Clone()
}

// Register adds a commitment directly, bypassing HTTP. Used to preload
// the registry from a Store at startup.
func (s *Server) Register(c Commitment) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.commitments[storeKey(c.RootHash)] = c
}

// Lookup returns the commitment registered for a root hash.
func (s *Server) Lookup(rootHash string) (Commitment, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.commitments[storeKey(rootHash)]
	return c, ok
}

// SetupRoutes registers all registry endpoints on the given mux.
func (s *Server) SetupRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/api/v1/commitments", s.handlePublish)
	mux.HandleFunc("/api/v1/commitments/", s.handleLookup)
	mux.HandleFunc("/api/v1/verify", s.handleVerify)
}

// ListenAndServe starts the registry on addr, with TLS if a config was
// set.
func (s *Server) ListenAndServe(addr string) error {
	mux := http.NewServeMux()
	s.SetupRoutes(mux)
	srv := &http.Server{Addr: addr, Handler: mux, TLSConfig: s.tlsConfig}
	if s.tlsConfig != nil {
		return srv.ListenAndServeTLS("", "")
	}
	return srv.ListenAndServe()
}

func (s *Server) handlePublish(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var c Commitment
	if err := gob.NewDecoder(r.Body).Decode(&c); err != nil {
		http.Error(w, "decode commitment: "+err.Error(), http.StatusBadRequest)
		return
	}
	if _, err := InferAlgorithm(c.RootHash); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	s.Register(c)
	w.WriteHeader(http.StatusOK)
}

func (s *Server) handleLookup(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	root := strings.TrimPrefix(r.URL.Path, "/api/v1/commitments/")
	c, ok := s.Lookup(root)
	if !ok {
		http.Error(w, "unknown root", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "application/octet-stream")
	if err := gob.NewEncoder(w).Encode(c); err != nil {
		http.Error(w, "encode commitment: "+err.Error(), http.StatusInternalServerError)
	}
}

// handleVerify recomputes the root over a submitted hash list and checks
// it against the registered commitment.
func (s *Server) handleVerify(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var sub hashListSubmission
	if err := gob.NewDecoder(r.Body).Decode(&sub); err != nil {
		http.Error(w, "decode submission: "+err.Error(), http.StatusBadRequest)
		return
	}

	c, ok := s.Lookup(sub.RootHash)
	if !ok {
		http.Error(w, "unknown root", http.StatusNotFound)
		return
	}

	valid, err := VerifyRootHash(sub.HashList, c.RootHash)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(verifyResponse{Valid: valid})
}

// Package server exposes the analysis graph to the visualization
// front end over HTTP, with a websocket channel that pushes fresh
// graphs after re-analysis in watch mode.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/AlexSherTemplar/StaticCodeViewer/internal/analyzer"
	"github.com/AlexSherTemplar/StaticCodeViewer/internal/search"
)

// Snapshot bundles one analysis run with its query helpers.
type Snapshot struct {
	Result   *analyzer.AnalysisResult
	Explorer *analyzer.Explorer
}

// Close releases the snapshot's caches.
func (s *Snapshot) Close() {
	if s.Explorer != nil {
		s.Explorer.Close()
	}
}

// Server serves the current snapshot. Publish swaps snapshots
// atomically and notifies websocket subscribers.
type Server struct {
	addr     string
	searcher *search.Searcher

	mu      sync.RWMutex
	current *Snapshot

	upgrader websocket.Upgrader

	clientsMu sync.Mutex
	clients   map[*websocket.Conn]bool
}

// New creates a Server with an initial snapshot. The searcher is owned
// by the caller and outlives snapshot swaps: watch mode reindexes it
// in place with Replace instead of building a new one per snapshot.
func New(addr string, initial *Snapshot, searcher *search.Searcher) *Server {
	return &Server{
		addr:     addr,
		searcher: searcher,
		current:  initial,
		upgrader: websocket.Upgrader{
			// The viewer is a local tool; any origin may connect.
			CheckOrigin: func(*http.Request) bool { return true },
		},
		clients: make(map[*websocket.Conn]bool),
	}
}

// Run serves until the context is cancelled.
func (s *Server) Run(ctx context.Context) error {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/graph", s.handleGraph)
	mux.HandleFunc("GET /api/nodes/{id}/source", s.handleNodeSource)
	mux.HandleFunc("GET /api/nodes/{id}/neighbors", s.handleNeighbors)
	mux.HandleFunc("GET /api/search", s.handleSearch)
	mux.HandleFunc("GET /ws", s.handleWebsocket)

	srv := &http.Server{Addr: s.addr, Handler: mux}

	errCh := make(chan error, 1)
	go func() {
		log.Printf("serving graph API on http://%s", s.addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
		s.closeClients()
		return ctx.Err()
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}

// Publish swaps in a fresh snapshot, releases the previous one and
// pushes the new graph to every websocket subscriber.
func (s *Server) Publish(snap *Snapshot) {
	s.mu.Lock()
	old := s.current
	s.current = snap
	s.mu.Unlock()
	if old != nil {
		old.Close()
	}

	s.clientsMu.Lock()
	defer s.clientsMu.Unlock()
	for conn := range s.clients {
		if err := conn.WriteJSON(snap.Result); err != nil {
			conn.Close()
			delete(s.clients, conn)
		}
	}
}

func (s *Server) snapshot() *Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

func (s *Server) handleGraph(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.snapshot().Result)
}

func (s *Server) handleNodeSource(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	snap := s.snapshot()

	for _, n := range snap.Result.Nodes {
		if n.ID == id {
			writeJSON(w, http.StatusOK, map[string]string{
				"id":     n.ID,
				"source": snap.Explorer.NodeText(n),
			})
			return
		}
	}
	http.Error(w, "node not found", http.StatusNotFound)
}

func (s *Server) handleNeighbors(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	snap := s.snapshot()

	edges := snap.Explorer.Neighbors(id)
	writeJSON(w, http.StatusOK, map[string]any{
		"id":     id,
		"degree": snap.Explorer.Degree(id),
		"edges":  edges,
	})
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query().Get("q")
	if q == "" {
		http.Error(w, "missing query parameter q", http.StatusBadRequest)
		return
	}
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	results, err := s.searcher.Search(r.Context(), q, limit)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"query":   q,
		"results": results,
	})
}

func (s *Server) handleWebsocket(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}

	// Send the current graph before registering the connection. Once
	// registered, Publish may write to it from another goroutine, and
	// a gorilla connection allows only one writer at a time.
	if err := conn.WriteJSON(s.snapshot().Result); err != nil {
		conn.Close()
		return
	}

	s.clientsMu.Lock()
	s.clients[conn] = true
	s.clientsMu.Unlock()

	// Drain reads to detect disconnects; the channel is push-only.
	go func() {
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				s.dropClient(conn)
				return
			}
		}
	}()
}

func (s *Server) dropClient(conn *websocket.Conn) {
	s.clientsMu.Lock()
	defer s.clientsMu.Unlock()
	conn.Close()
	delete(s.clients, conn)
}

func (s *Server) closeClients() {
	s.clientsMu.Lock()
	defer s.clientsMu.Unlock()
	for conn := range s.clients {
		conn.Close()
	}
	s.clients = make(map[*websocket.Conn]bool)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("failed to encode response: %v", err)
	}
}

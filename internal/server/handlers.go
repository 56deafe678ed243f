package server

import (
	"encoding/json"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/jeongseonghan/bersim/internal/sim"
)

// Handlers holds the sweep state served over HTTP.
type Handlers struct {
	hub     *WSHub
	runID   string
	cfg     sim.Config
	sweep   sim.Sweep
	started time.Time

	mu      sync.Mutex
	results []sim.Result
	done    bool
}

// NewHandlers creates handlers for one sweep.
func NewHandlers(runID string, cfg sim.Config, sweep sim.Sweep) *Handlers {
	return &Handlers{
		hub:     NewWSHub(),
		runID:   runID,
		cfg:     cfg,
		sweep:   sweep,
		started: time.Now(),
	}
}

// Hub returns the websocket hub.
func (h *Handlers) Hub() *WSHub { return h.hub }

// Record stores a completed point and broadcasts it. Its signature fits
// sim.Simulator.Sweep callbacks.
func (h *Handlers) Record(r sim.Result) error {
	h.mu.Lock()
	h.results = append(h.results, r)
	h.mu.Unlock()
	h.hub.Broadcast(WSMessage{Type: "point", Payload: r})
	return nil
}

// Finish marks the sweep complete.
func (h *Handlers) Finish(err error) {
	h.mu.Lock()
	h.done = true
	h.mu.Unlock()
	if err != nil {
		h.hub.BroadcastStatus("failed", err.Error())
		return
	}
	h.hub.BroadcastStatus("done", "sweep complete")
}

// Status is the /api/status response.
type Status struct {
	RunID       string      `json:"run_id"`
	Config      sim.Config  `json:"config"`
	Sweep       sim.Sweep   `json:"sweep"`
	PointsTotal int         `json:"points_total"`
	PointsDone  int         `json:"points_done"`
	Done        bool        `json:"done"`
	Elapsed     string      `json:"elapsed"`
	Summary     sim.Summary `json:"summary"`
}

// HandleStatus reports sweep progress.
func (h *Handlers) HandleStatus(w http.ResponseWriter, r *http.Request) {
	h.mu.Lock()
	st := Status{
		RunID:       h.runID,
		Config:      h.cfg,
		Sweep:       h.sweep,
		PointsTotal: len(h.sweep.Values()),
		PointsDone:  len(h.results),
		Done:        h.done,
		Elapsed:     time.Since(h.started).Round(time.Millisecond).String(),
		Summary:     sim.Summarize(h.results),
	}
	h.mu.Unlock()
	writeJSON(w, st)
}

// HandleResults returns every completed point.
func (h *Handlers) HandleResults(w http.ResponseWriter, r *http.Request) {
	h.mu.Lock()
	results := make([]sim.Result, len(h.results))
	copy(results, h.results)
	h.mu.Unlock()
	writeJSON(w, results)
}

// HandleWebSocket upgrades the request and keeps reading until the client
// goes away.
func (h *Handlers) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("WebSocket upgrade error: %v", err)
		return
	}

	h.hub.AddClient(conn)

	go func() {
		defer h.hub.RemoveClient(conn)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("Encode response: %v", err)
	}
}

// Package handlers implements the admin/observability HTTP surface: a
// health probe and a read-only book snapshot. It never touches the
// trading TCP protocol in internal/transport.
package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"matchcore/internal/engine"
)

// Handler serves the admin surface over a *engine.Book.
type Handler struct {
	book *engine.Book
}

func NewHandler(book *engine.Book) *Handler {
	return &Handler{book: book}
}

// SetupRoutes registers the admin endpoints on r. metricsHandler is
// the promhttp.HandlerFor scrape handler over the process registry,
// wired in from cmd/main.go so this package never imports prometheus
// directly.
func (h *Handler) SetupRoutes(r *mux.Router, metricsHandler http.Handler) {
	r.HandleFunc("/healthz", h.healthCheck).Methods("GET")
	r.HandleFunc("/api/book", h.bookSnapshot).Methods("GET")
	r.Handle("/api/metrics", metricsHandler).Methods("GET")
}

func (h *Handler) healthCheck(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}

type bookSnapshotResponse struct {
	BestBid        string `json:"best_bid,omitempty"`
	BestAsk        string `json:"best_ask,omitempty"`
	LastTradePrice string `json:"last_trade_price,omitempty"`
	HasTraded      bool   `json:"has_traded"`
	BidDepth       int    `json:"bid_depth"`
	AskDepth       int    `json:"ask_depth"`
	PendingStops   int    `json:"pending_stops"`
}

func (h *Handler) bookSnapshot(w http.ResponseWriter, r *http.Request) {
	resp := bookSnapshotResponse{PendingStops: h.book.PendingStops()}
	resp.BidDepth, resp.AskDepth = h.book.Depth()

	if bid, ok := h.book.BestBid(); ok {
		resp.BestBid = bid.String()
	}
	if ask, ok := h.book.BestAsk(); ok {
		resp.BestAsk = ask.String()
	}
	if px, ok := h.book.LastTradePrice(); ok {
		resp.LastTradePrice = px.String()
		resp.HasTraded = true
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}

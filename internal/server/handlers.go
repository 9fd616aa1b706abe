package server

import (
	"encoding/json"
	"net/http"

	"dealsniper/internal/deal"
	"dealsniper/internal/scan"
	"dealsniper/internal/source"
)

// manualScanRequest mirrors the POST /manual-scan body
type manualScanRequest struct {
	Term       string   `json:"term"`
	Percentage float64  `json:"percentage"`
	Sources    []string `json:"sources"`
}

// scanResponse is the JSON shape of a completed scan
type scanResponse struct {
	Success     bool        `json:"success"`
	Term        string      `json:"term"`
	MarketPrice *float64    `json:"marketPrice"`
	Scanned     int         `json:"scanned"`
	Deals       []deal.Deal `json:"deals"`
	Stats       scan.Stats  `json:"stats"`
}

// errorResponse is returned on fatal scan failure; the caller always gets a
// JSON-shaped answer
type errorResponse struct {
	Success bool       `json:"success"`
	Error   string     `json:"error"`
	Stats   scan.Stats `json:"stats"`
}

func (s *Server) handleManualScan(w http.ResponseWriter, r *http.Request) {
	var body manualScanRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{
			Error: "invalid request body: " + err.Error(),
			Stats: scan.Stats{Errors: []string{}},
		})
		return
	}

	req := scan.Request{
		Term:         body.Term,
		ThresholdPct: body.Percentage,
	}
	for _, raw := range body.Sources {
		req.Sources = append(req.Sources, source.ID(raw))
	}

	result, err := s.scanner.Scan(r.Context(), req)
	if err != nil {
		s.log.Warn().Str("term", body.Term).Err(err).Msg("Scan rejected")
		writeJSON(w, http.StatusBadRequest, errorResponse{
			Error: err.Error(),
			Stats: result.Stats,
		})
		return
	}

	writeJSON(w, http.StatusOK, scanResponse{
		Success:     true,
		Term:        result.Term,
		MarketPrice: result.MarketPrice,
		Scanned:     result.Scanned,
		Deals:       result.Deals,
		Stats:       result.Stats,
	})
}

// optionsResponse is the JSON shape of the tracked search options
type optionsResponse struct {
	Options []string `json:"options"`
}

func (s *Server) handleListOptions(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, optionsResponse{Options: s.store.List()})
}

func (s *Server) handleAppendOption(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Term string `json:"term"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}
	if err := s.store.Append(body.Term); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, optionsResponse{Options: s.store.List()})
}

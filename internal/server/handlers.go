package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/tkarimov/cryptostats/internal/model"
	"github.com/tkarimov/cryptostats/internal/stats"
	"github.com/tkarimov/cryptostats/internal/store"
)

// monthRequest asks for a month-unit window anchored at start.
type monthRequest struct {
	Start  string `json:"start"`
	Months int    `json:"months"`
}

// dayRequest asks for a day-unit window anchored at start.
type dayRequest struct {
	Start string `json:"start"`
	Days  int    `json:"days"`
}

type pricePointJSON struct {
	Timestamp time.Time `json:"timestamp"`
	Price     float64   `json:"price"`
}

type assetStatsResponse struct {
	Crypto   string           `json:"crypto"`
	Oldest   *pricePointJSON  `json:"oldest"`
	Newest   *pricePointJSON  `json:"newest"`
	MinPrice []pricePointJSON `json:"minPrice"`
	MaxPrice []pricePointJSON `json:"maxPrice"`
}

type normalizedEntry struct {
	Name  *string `json:"name"`
	Price float64 `json:"price"`
}

type normalizedResponse struct {
	NormalizedPrices []normalizedEntry `json:"normalized_prices"`
}

func toPointJSON(p *model.PricePoint) *pricePointJSON {
	if p == nil {
		return nil
	}
	return &pricePointJSON{Timestamp: p.Timestamp, Price: p.Price}
}

func toPointsJSON(pts []model.PricePoint) []pricePointJSON {
	out := make([]pricePointJSON, 0, len(pts))
	for _, p := range pts {
		out = append(out, pricePointJSON{Timestamp: p.Timestamp, Price: p.Price})
	}
	return out
}

func toNormalizedEntries(ranking []model.NormalizedPrice) []normalizedEntry {
	out := make([]normalizedEntry, 0, len(ranking))
	for _, n := range ranking {
		name := n.Symbol
		out = append(out, normalizedEntry{Name: &name, Price: n.Score})
	}
	return out
}

// resolveMonthWindow parses and validates a month request into a window.
func (s *Server) resolveMonthWindow(req monthRequest) (model.TimeWindow, error) {
	anchor, err := time.Parse(s.cfg.DatePattern, req.Start)
	if err != nil {
		return model.TimeWindow{}, err
	}
	return stats.ResolveWindow(anchor, req.Months, stats.UnitMonth)
}

func (s *Server) handleNormalized(w http.ResponseWriter, r *http.Request) {
	var req monthRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, s.logger, http.StatusBadRequest, "malformed request body: "+err.Error())
		return
	}

	window, err := s.resolveMonthWindow(req)
	if err != nil {
		writeError(w, s.logger, http.StatusBadRequest, err.Error())
		return
	}

	ranking, err := s.engine.NormalizedRanking(r.Context(), window)
	if err != nil {
		s.writeEngineError(w, r, err)
		return
	}

	writeJSON(w, s.logger, normalizedResponse{NormalizedPrices: toNormalizedEntries(ranking)})
}

func (s *Server) handleAssetStats(w http.ResponseWriter, r *http.Request) {
	crypto := r.PathValue("crypto")

	var req monthRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, s.logger, http.StatusBadRequest, "malformed request body: "+err.Error())
		return
	}

	window, err := s.resolveMonthWindow(req)
	if err != nil {
		writeError(w, s.logger, http.StatusBadRequest, err.Error())
		return
	}

	result, err := s.engine.AssetStats(r.Context(), crypto, window)
	if err != nil {
		s.writeEngineError(w, r, err)
		return
	}

	writeJSON(w, s.logger, assetStatsResponse{
		Crypto:   result.Asset.Name,
		Oldest:   toPointJSON(result.Oldest),
		Newest:   toPointJSON(result.Newest),
		MinPrice: toPointsJSON(result.MinPrices),
		MaxPrice: toPointsJSON(result.MaxPrices),
	})
}

func (s *Server) handleMaxNormalized(w http.ResponseWriter, r *http.Request) {
	var req dayRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, s.logger, http.StatusBadRequest, "malformed request body: "+err.Error())
		return
	}

	anchor, err := time.Parse(s.cfg.DatePattern, req.Start)
	if err != nil {
		writeError(w, s.logger, http.StatusBadRequest, err.Error())
		return
	}

	window, err := stats.ResolveWindow(anchor, req.Days, stats.UnitDay)
	if err != nil {
		writeError(w, s.logger, http.StatusBadRequest, err.Error())
		return
	}

	top, ok, err := s.engine.TopNormalized(r.Context(), window)
	if err != nil {
		s.writeEngineError(w, r, err)
		return
	}

	// The empty ranking is a success carrying a sentinel, not an error.
	entry := normalizedEntry{Price: top.Score}
	if ok {
		name := top.Symbol
		entry.Name = &name
	}
	writeJSON(w, s.logger, entry)
}

// lastMonthsHandler serves the fixed "last N months from today" shortcuts.
func (s *Server) lastMonthsHandler(months int) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		window, err := stats.ResolveWindow(time.Now().UTC(), months, stats.UnitMonth)
		if err != nil {
			writeError(w, s.logger, http.StatusInternalServerError, err.Error())
			return
		}

		ranking, err := s.engine.NormalizedRanking(r.Context(), window)
		if err != nil {
			s.writeEngineError(w, r, err)
			return
		}

		writeJSON(w, s.logger, normalizedResponse{NormalizedPrices: toNormalizedEntries(ranking)})
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	health := struct {
		Status     string         `json:"status"`
		Components map[string]any `json:"components"`
	}{
		Status:     "healthy",
		Components: make(map[string]any),
	}

	if err := s.store.Ping(ctx); err != nil {
		health.Status = "unhealthy"
		health.Components["store"] = map[string]string{
			"status": "disconnected",
			"error":  err.Error(),
		}
	} else {
		health.Components["store"] = "connected"
	}

	if assets, err := s.store.ListAssets(ctx); err == nil {
		health.Components["assets"] = len(assets)
		if len(assets) == 0 {
			health.Status = "degraded"
		}
	}

	w.Header().Set("Content-Type", "application/json")
	if health.Status == "unhealthy" {
		w.WriteHeader(http.StatusServiceUnavailable)
	}
	json.NewEncoder(w).Encode(health)
}

func (s *Server) writeEngineError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, store.ErrAssetNotFound):
		writeError(w, s.logger, http.StatusBadRequest, err.Error())
	case errors.Is(err, r.Context().Err()):
		// Client went away; the status is cosmetic at this point.
		writeError(w, s.logger, http.StatusServiceUnavailable, "request cancelled")
	default:
		s.logger.Error("query failed", "path", r.URL.Path, "error", err)
		writeError(w, s.logger, http.StatusInternalServerError, "internal error")
	}
}

package server

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/ziadkadry99/notebase/internal/retriever"
)

type searchRequest struct {
	Query      string   `json:"query"`
	TopK       int      `json:"top_k"`
	FilterTags []string `json:"filter_tags"`
	Start      *float64 `json:"start"`
	End        *float64 `json:"end"`
	Hybrid     bool     `json:"hybrid"`
}

type promptRequest struct {
	Query string `json:"query"`
	TopK  int    `json:"top_k"`
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	var req searchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Query == "" {
		writeError(w, http.StatusBadRequest, "query is required")
		return
	}
	if req.TopK <= 0 {
		req.TopK = s.topK
	}

	opts := retriever.SearchOptions{
		TopK:       req.TopK,
		FilterTags: req.FilterTags,
		Start:      req.Start,
		End:        req.End,
	}

	var (
		results []retriever.Result
		err     error
	)
	if req.Hybrid {
		results, err = s.engine.Retriever().SearchHybrid(r.Context(), req.Query, opts)
	} else {
		results, err = s.engine.Retriever().Search(r.Context(), req.Query, opts)
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if results == nil {
		results = []retriever.Result{}
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"query":   req.Query,
		"results": results,
	})
}

func (s *Server) handleAsk(w http.ResponseWriter, r *http.Request) {
	req, ok := decodePrompt(w, r)
	if !ok {
		return
	}
	res, err := s.engine.Answer(r.Context(), req.Query, req.TopK)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (s *Server) handleSummarize(w http.ResponseWriter, r *http.Request) {
	req, ok := decodePrompt(w, r)
	if !ok {
		return
	}
	res, err := s.engine.Summarize(r.Context(), req.Query, req.TopK)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	req, ok := decodePrompt(w, r)
	if !ok {
		return
	}
	res, err := s.engine.Analyze(r.Context(), req.Query, req.TopK)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (s *Server) handleReflect(w http.ResponseWriter, r *http.Request) {
	days := 7
	if d := r.URL.Query().Get("days"); d != "" {
		parsed, err := strconv.Atoi(d)
		if err != nil || parsed <= 0 {
			writeError(w, http.StatusBadRequest, "days must be a positive integer")
			return
		}
		days = parsed
	}

	res, err := s.engine.Reflect(r.Context(), days)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (s *Server) handleTags(w http.ResponseWriter, r *http.Request) {
	stats, err := s.engine.Retriever().GetStats(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	tags := stats.Tags
	if tags == nil {
		tags = []string{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"tags": tags})
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	stats, err := s.engine.Retriever().GetStats(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	payload := map[string]any{
		"total_notes":   stats.TotalNotes,
		"indexed_notes": stats.IndexedNotes,
		"tags":          stats.Tags,
	}
	if s.cache != nil {
		if cs, err := s.cache.GetStats(r.Context()); err == nil {
			payload["cache"] = cs
		}
	}
	writeJSON(w, http.StatusOK, payload)
}

func decodePrompt(w http.ResponseWriter, r *http.Request) (promptRequest, bool) {
	var req promptRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return req, false
	}
	if req.Query == "" {
		writeError(w, http.StatusBadRequest, "query is required")
		return req, false
	}
	return req, true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

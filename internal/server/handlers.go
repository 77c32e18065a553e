package server

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/spigell/jobmatch/internal/jobs"
	"github.com/spigell/jobmatch/internal/matching"
	"github.com/spigell/jobmatch/internal/metrics"
	"github.com/spigell/jobmatch/internal/skills"
)

type resumeRequest struct {
	ResumePath string `json:"resume_path"`
	TopN       int    `json:"top_n,omitempty"`
}

type scoreRequest struct {
	ResumePath  string `json:"resume_path"`
	JobID       string `json:"job_id,omitempty"`
	Description string `json:"description,omitempty"`
}

type scoreResponse struct {
	JobID   string   `json:"job_id,omitempty"`
	Percent float64  `json:"match_percent"`
	Skills  []string `json:"skills"`
}

type matchesResponse struct {
	Matches []matching.Match `json:"matches"`
}

type similarResponse struct {
	JobID   string             `json:"job_id"`
	Similar []matching.Similar `json:"similar"`
}

type skillsRequest struct {
	Text string `json:"text"`
}

type skillsResponse struct {
	Version string   `json:"dictionary_version"`
	Skills  []string `json:"skills"`
}

type tallyRequest struct {
	Texts []string `json:"texts"`
	// Stored holds comma-joined skill lists saved with earlier applications.
	Stored []string `json:"stored"`
}

type tallyResponse struct {
	Counts []skills.Count `json:"counts"`
}

func (s *Server) health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"status": "ok", "jobs": s.pool.Len()})
}

func (s *Server) recommend(w http.ResponseWriter, r *http.Request) {
	var req resumeRequest
	if !decodeBody(w, r, &req) || !requireResume(w, req.ResumePath) {
		return
	}
	topN := firstPositive(req.TopN, s.opts.RecommendTopN)

	var matches []matching.Match
	err := s.do(r.Context(), func(context.Context) {
		defer metrics.ObserveOperation(metrics.OperationRecommend, time.Now())
		matches = s.engine.Recommender.Recommend(req.ResumePath, s.pool, topN)
	})
	if err != nil {
		s.writeDoError(w, err)
		return
	}

	metrics.AddResults(metrics.OperationRecommend, len(matches))
	writeJSON(w, http.StatusOK, matchesResponse{Matches: matches})
}

func (s *Server) scan(w http.ResponseWriter, r *http.Request) {
	var req resumeRequest
	if !decodeBody(w, r, &req) || !requireResume(w, req.ResumePath) {
		return
	}
	topN := firstPositive(req.TopN, s.opts.ScanTopN)

	var (
		matches []matching.Match
		scanErr error
	)
	err := s.do(r.Context(), func(ctx context.Context) {
		defer metrics.ObserveOperation(metrics.OperationScan, time.Now())
		matches, scanErr = s.engine.Scanner.Scan(ctx, req.ResumePath, s.pool, topN)
	})
	if err == nil && scanErr != nil {
		if errors.Is(scanErr, context.DeadlineExceeded) {
			err = errTimeout
		} else {
			err = scanErr
		}
	}
	if err != nil {
		s.writeDoError(w, err)
		return
	}

	metrics.AddResults(metrics.OperationScan, len(matches))
	writeJSON(w, http.StatusOK, matchesResponse{Matches: matches})
}

func (s *Server) score(w http.ResponseWriter, r *http.Request) {
	var req scoreRequest
	if !decodeBody(w, r, &req) || !requireResume(w, req.ResumePath) {
		return
	}

	description := req.Description
	if req.JobID != "" {
		job, err := s.pool.Get(req.JobID)
		if err != nil {
			writeLookupError(w, err)
			return
		}
		description = job.Description
	}

	var resp scoreResponse
	err := s.do(r.Context(), func(context.Context) {
		defer metrics.ObserveOperation(metrics.OperationScore, time.Now())
		text := s.engine.Extractor.Extract(req.ResumePath)
		resp = scoreResponse{
			JobID:   req.JobID,
			Percent: s.engine.Scorer.ScoreText(text, description),
			Skills:  s.engine.Tagger.Extract(text),
		}
	})
	if err != nil {
		s.writeDoError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) similar(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	ref, err := s.pool.Get(id)
	if err != nil {
		writeLookupError(w, err)
		return
	}

	topN := s.opts.SimilarTopN
	if raw := r.URL.Query().Get("top_n"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			writeError(w, http.StatusBadRequest, "bad_request", "top_n must be a positive integer")
			return
		}
		topN = n
	}

	var result []matching.Similar
	err = s.do(r.Context(), func(context.Context) {
		defer metrics.ObserveOperation(metrics.OperationSimilar, time.Now())
		result = s.engine.Similar.Similar(ref, s.pool, topN)
	})
	if err != nil {
		s.writeDoError(w, err)
		return
	}

	metrics.AddResults(metrics.OperationSimilar, len(result))
	writeJSON(w, http.StatusOK, similarResponse{JobID: ref.ID, Similar: result})
}

func (s *Server) extractSkills(w http.ResponseWriter, r *http.Request) {
	var req skillsRequest
	if !decodeBody(w, r, &req) {
		return
	}

	start := time.Now()
	found := s.engine.Tagger.Extract(req.Text)
	metrics.ObserveOperation(metrics.OperationSkills, start)

	writeJSON(w, http.StatusOK, skillsResponse{
		Version: s.engine.Tagger.Dictionary().Version(),
		Skills:  found,
	})
}

// tallySkills counts skills across the given texts and stored skill lists,
// or across the loaded job descriptions when the request is empty.
func (s *Server) tallySkills(w http.ResponseWriter, r *http.Request) {
	var req tallyRequest
	if r.ContentLength != 0 && !decodeBody(w, r, &req) {
		return
	}

	texts := req.Texts
	if len(texts) == 0 && len(req.Stored) == 0 {
		texts = s.pool.Descriptions()
	}

	start := time.Now()
	sets := make([][]string, 0, len(texts)+len(req.Stored))
	for _, text := range texts {
		sets = append(sets, s.engine.Tagger.Extract(text))
	}
	for _, stored := range req.Stored {
		sets = append(sets, skills.SplitStored(stored))
	}
	counts := skills.Tally(sets)
	metrics.ObserveOperation(metrics.OperationSkills, start)

	s.logger.Debug("skills tallied", zap.Int("sets", len(sets)), zap.Int("distinct_skills", len(counts)))
	writeJSON(w, http.StatusOK, tallyResponse{Counts: counts})
}

func writeLookupError(w http.ResponseWriter, err error) {
	if errors.Is(err, jobs.ErrJobNotFound) {
		writeError(w, http.StatusNotFound, "job_not_found", err.Error())
		return
	}
	writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
}

func requireResume(w http.ResponseWriter, path string) bool {
	if strings.TrimSpace(path) == "" {
		writeError(w, http.StatusBadRequest, "bad_request", "resume_path is required")
		return false
	}
	return true
}

func firstPositive(values ...int) int {
	for _, v := range values {
		if v > 0 {
			return v
		}
	}
	return 0
}

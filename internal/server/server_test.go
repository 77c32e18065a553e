package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/spigell/jobmatch/internal/dashboard"
	"github.com/spigell/jobmatch/internal/extract"
	"github.com/spigell/jobmatch/internal/jobs"
	"github.com/spigell/jobmatch/internal/matching"
	"github.com/spigell/jobmatch/internal/skills"
)

func newEngine(src extract.TextSource) Engine {
	log := zap.NewNop()
	scorer := matching.NewPairScorer(src, log, matching.Options{})
	return Engine{
		Extractor:   src,
		Scorer:      scorer,
		Recommender: matching.NewRecommender(src, log, matching.Options{}),
		Similar:     matching.NewSimilarFinder(log),
		Scanner:     dashboard.NewScanner(src, scorer, 2, log),
		Tagger:      skills.NewTagger(nil),
	}
}

func testPool() *jobs.Pool {
	return jobs.NewPool(
		&jobs.Job{ID: "py", Title: "Python Developer", Description: "Python Django developer building REST APIs on PostgreSQL"},
		&jobs.Job{ID: "go", Title: "Go Developer", Description: "Go developer building REST APIs with Docker and Kubernetes"},
		&jobs.Job{ID: "chef", Title: "Chef", Description: "Pastry chef for a bakery, early mornings"},
	)
}

func writeResume(t *testing.T, text string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "resume.txt")
	if err := os.WriteFile(path, []byte(text), 0o600); err != nil {
		t.Fatalf("write resume: %v", err)
	}
	return path
}

func do(t *testing.T, h http.Handler, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

func decode[T any](t *testing.T, rr *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.NewDecoder(rr.Body).Decode(&v); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return v
}

func TestRecommendEndpoint(t *testing.T) {
	resume := writeResume(t, "Python developer with Django, PostgreSQL and REST APIs")
	srv := New(testPool(), newEngine(extract.New(zap.NewNop(), 0)), Options{}, zap.NewNop())

	rr := do(t, srv.Handler(), http.MethodPost, "/v1/recommend", `{"resume_path": "`+resume+`", "top_n": 2}`)
	if rr.Code != http.StatusOK {
		t.Fatalf("unexpected status %d: %s", rr.Code, rr.Body)
	}

	resp := decode[matchesResponse](t, rr)
	if len(resp.Matches) == 0 || len(resp.Matches) > 2 || resp.Matches[0].Job.ID != "py" {
		t.Fatalf("unexpected matches: %+v", resp.Matches)
	}
}

func TestRecommendEndpointValidation(t *testing.T) {
	srv := New(testPool(), newEngine(extract.New(zap.NewNop(), 0)), Options{}, zap.NewNop())

	if rr := do(t, srv.Handler(), http.MethodPost, "/v1/recommend", `{`); rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for bad json, got %d", rr.Code)
	}
	if rr := do(t, srv.Handler(), http.MethodPost, "/v1/recommend", `{"resume_path": " "}`); rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for missing resume, got %d", rr.Code)
	}

	rr := do(t, srv.Handler(), http.MethodPost, "/v1/recommend", `{"resume_path": "/does/not/exist.pdf"}`)
	if rr.Code != http.StatusOK {
		t.Fatalf("unreadable resume must not be an error, got %d", rr.Code)
	}
	if resp := decode[matchesResponse](t, rr); len(resp.Matches) != 0 {
		t.Fatalf("expected no matches, got %+v", resp.Matches)
	}
}

func TestScoreEndpoint(t *testing.T) {
	resume := writeResume(t, "Python and SQL developer. Knows Docker.")
	srv := New(testPool(), newEngine(extract.New(zap.NewNop(), 0)), Options{}, zap.NewNop())

	rr := do(t, srv.Handler(), http.MethodPost, "/v1/score", `{"resume_path": "`+resume+`", "job_id": "py"}`)
	if rr.Code != http.StatusOK {
		t.Fatalf("unexpected status %d: %s", rr.Code, rr.Body)
	}
	resp := decode[scoreResponse](t, rr)
	if resp.Percent <= 0 || resp.Percent > 100 {
		t.Fatalf("unexpected percent %v", resp.Percent)
	}
	if strings.Join(resp.Skills, ",") != "Docker,Python,Sql" {
		t.Fatalf("unexpected skills %v", resp.Skills)
	}

	rr = do(t, srv.Handler(), http.MethodPost, "/v1/score", `{"resume_path": "`+resume+`", "description": ""}`)
	if resp := decode[scoreResponse](t, rr); resp.Percent != 0 {
		t.Fatalf("empty description must score 0, got %v", resp.Percent)
	}

	rr = do(t, srv.Handler(), http.MethodPost, "/v1/score", `{"resume_path": "`+resume+`", "job_id": "missing"}`)
	if rr.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rr.Code)
	}
}

func TestSimilarEndpoint(t *testing.T) {
	srv := New(testPool(), newEngine(extract.New(zap.NewNop(), 0)), Options{SimilarTopN: 3}, zap.NewNop())

	rr := do(t, srv.Handler(), http.MethodGet, "/v1/jobs/py/similar", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("unexpected status %d", rr.Code)
	}
	resp := decode[similarResponse](t, rr)
	if len(resp.Similar) != 2 || resp.Similar[0].Job.ID != "go" {
		t.Fatalf("unexpected similar jobs: %+v", resp.Similar)
	}

	rr = do(t, srv.Handler(), http.MethodGet, "/v1/jobs/py/similar?top_n=1", "")
	if resp := decode[similarResponse](t, rr); len(resp.Similar) != 1 {
		t.Fatalf("expected one similar job, got %d", len(resp.Similar))
	}

	if rr := do(t, srv.Handler(), http.MethodGet, "/v1/jobs/py/similar?top_n=x", ""); rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rr.Code)
	}
	if rr := do(t, srv.Handler(), http.MethodGet, "/v1/jobs/nope/similar", ""); rr.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rr.Code)
	}
}

func TestSkillsEndpoints(t *testing.T) {
	srv := New(testPool(), newEngine(extract.New(zap.NewNop(), 0)), Options{}, zap.NewNop())

	rr := do(t, srv.Handler(), http.MethodPost, "/v1/skills", `{"text": "I know Python and SQL"}`)
	resp := decode[skillsResponse](t, rr)
	if strings.Join(resp.Skills, ",") != "Python,Sql" || resp.Version != skills.DefaultVersion {
		t.Fatalf("unexpected skills response: %+v", resp)
	}

	rr = do(t, srv.Handler(), http.MethodPost, "/v1/skills/tally", `{"texts": ["python sql", "python", "chef"]}`)
	tally := decode[tallyResponse](t, rr)
	if len(tally.Counts) != 2 || tally.Counts[0] != (skills.Count{Skill: "Python", Count: 2}) {
		t.Fatalf("unexpected tally: %+v", tally.Counts)
	}

	rr = do(t, srv.Handler(), http.MethodPost, "/v1/skills/tally", `{"stored": ["Python, Sql", "Docker,Sql"]}`)
	tally = decode[tallyResponse](t, rr)
	want := []skills.Count{{Skill: "Sql", Count: 2}, {Skill: "Docker", Count: 1}, {Skill: "Python", Count: 1}}
	if len(tally.Counts) != 3 || tally.Counts[0] != want[0] || tally.Counts[1] != want[1] || tally.Counts[2] != want[2] {
		t.Fatalf("unexpected stored tally: %+v", tally.Counts)
	}

	rr = do(t, srv.Handler(), http.MethodPost, "/v1/skills/tally", "")
	if tally := decode[tallyResponse](t, rr); len(tally.Counts) == 0 {
		t.Fatalf("expected tally over loaded jobs")
	}
}

func TestScanEndpoint(t *testing.T) {
	resume := writeResume(t, "Pastry chef for a bakery, early mornings")
	srv := New(testPool(), newEngine(extract.New(zap.NewNop(), 0)), Options{}, zap.NewNop())

	rr := do(t, srv.Handler(), http.MethodPost, "/v1/scan", `{"resume_path": "`+resume+`"}`)
	if rr.Code != http.StatusOK {
		t.Fatalf("unexpected status %d", rr.Code)
	}
	resp := decode[matchesResponse](t, rr)
	if len(resp.Matches) != 1 || resp.Matches[0].Job.ID != "chef" {
		t.Fatalf("unexpected matches: %+v", resp.Matches)
	}
}

func TestHealthAndMetrics(t *testing.T) {
	srv := New(testPool(), newEngine(extract.New(zap.NewNop(), 0)), Options{}, zap.NewNop())

	rr := do(t, srv.Handler(), http.MethodGet, "/healthz", "")
	if rr.Code != http.StatusOK || !strings.Contains(rr.Body.String(), `"jobs":3`) {
		t.Fatalf("unexpected health response %d: %s", rr.Code, rr.Body)
	}

	do(t, srv.Handler(), http.MethodGet, "/healthz", "")
	rr = do(t, srv.Handler(), http.MethodGet, "/metrics", "")
	if !strings.Contains(rr.Body.String(), "jobmatch_http_requests_total") {
		t.Fatalf("expected request metrics in output")
	}
}

type blockingSource struct {
	release chan struct{}
}

func (b *blockingSource) Extract(string) string {
	<-b.release
	return "python"
}

func TestTimeoutAndConcurrencyBound(t *testing.T) {
	src := &blockingSource{release: make(chan struct{})}
	defer close(src.release)

	srv := New(testPool(), newEngine(src), Options{MaxConcurrent: 1, RequestTimeout: 50 * time.Millisecond}, zap.NewNop())

	rr := do(t, srv.Handler(), http.MethodPost, "/v1/recommend", `{"resume_path": "a.txt"}`)
	if rr.Code != http.StatusGatewayTimeout {
		t.Fatalf("expected 504, got %d", rr.Code)
	}

	// The first call still holds the only slot.
	rr = do(t, srv.Handler(), http.MethodPost, "/v1/recommend", `{"resume_path": "b.txt"}`)
	if rr.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", rr.Code)
	}
}

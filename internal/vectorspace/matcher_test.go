package vectorspace

import (
	"math"
	"reflect"
	"testing"
)

func TestTokenize(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		input  string
		expect []string
	}{
		{
			name:   "drops stop words and single characters",
			input:  "C++ and Node.js, e.g. I/O",
			expect: []string{"node", "js"},
		},
		{
			name:   "lowercases and keeps underscores and digits",
			input:  "Python3 SNAKE_case 2024",
			expect: []string{"python3", "snake_case", "2024"},
		},
		{
			name:   "all stop words",
			input:  "The and of to the",
			expect: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := Tokenize(tt.input)
			if len(got) == 0 && len(tt.expect) == 0 {
				return
			}
			if !reflect.DeepEqual(got, tt.expect) {
				t.Fatalf("expected %v, got %v", tt.expect, got)
			}
		})
	}
}

func TestRankKnownValue(t *testing.T) {
	m := New(Options{})

	got := m.Rank("python java", []string{"python rust"})
	if len(got) != 1 {
		t.Fatalf("expected 1 similarity, got %d", len(got))
	}

	// python appears in both documents (idf 1), java and rust in one (idf ln(3/2)+1).
	rare := math.Log(1.5) + 1
	expected := 1 / (1 + rare*rare)
	if math.Abs(got[0].Value-expected) > 1e-12 {
		t.Fatalf("expected %v, got %v", expected, got[0].Value)
	}

	if p := Percent(got[0].Value); p != 33.61 {
		t.Fatalf("expected 33.61 percent, got %v", p)
	}
}

func TestRankIdenticalTexts(t *testing.T) {
	m := New(Options{})

	got := m.Score("senior python developer django", "Senior Python developer, Django!")
	if math.Abs(got-1) > 1e-9 {
		t.Fatalf("expected similarity 1, got %v", got)
	}
}

func TestRankPreservesCandidateOrder(t *testing.T) {
	m := New(Options{})

	candidates := []string{
		"pastry chef bakery croissants",
		"python backend engineer",
		"python django backend engineer postgres",
	}
	got := m.Rank("python django postgres backend", candidates)
	if len(got) != len(candidates) {
		t.Fatalf("expected %d similarities, got %d", len(candidates), len(got))
	}

	for i, s := range got {
		if s.Index != i {
			t.Fatalf("expected index %d at position %d, got %d", i, i, s.Index)
		}
		if s.Value < 0 || s.Value > 1 {
			t.Fatalf("similarity out of range: %v", s.Value)
		}
	}

	if got[0].Value != 0 {
		t.Fatalf("expected zero similarity for unrelated candidate, got %v", got[0].Value)
	}
	if !(got[2].Value > got[1].Value) {
		t.Fatalf("expected closer candidate to score higher: %v vs %v", got[2].Value, got[1].Value)
	}
}

func TestRankDegenerateInputs(t *testing.T) {
	t.Parallel()

	m := New(Options{MaxFeatures: DefaultMaxFeatures})

	tests := []struct {
		name       string
		query      string
		candidates []string
	}{
		{name: "stop word query", query: "the and of", candidates: []string{"python developer"}},
		{name: "stop word candidate", query: "python developer", candidates: []string{"with the and"}},
		{name: "no overlap", query: "python developer", candidates: []string{"pastry chef"}},
		{name: "empty query", query: "", candidates: []string{"pastry chef"}},
		{name: "empty candidate", query: "pastry chef", candidates: []string{""}},
		{name: "everything empty", query: "", candidates: []string{"", ""}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			for _, s := range m.Rank(tt.query, tt.candidates) {
				if s.Value != 0 || math.IsNaN(s.Value) {
					t.Fatalf("expected zero similarity, got %v", s.Value)
				}
			}
		})
	}
}

func TestRankNoCandidates(t *testing.T) {
	got := New(Options{}).Rank("python", nil)
	if got == nil || len(got) != 0 {
		t.Fatalf("expected empty non-nil result, got %#v", got)
	}
}

func TestRankDeterministic(t *testing.T) {
	m := New(Options{MaxFeatures: 5})

	query := "go kubernetes terraform aws python docker linux grpc"
	candidates := []string{
		"kubernetes operator in golang with grpc and docker",
		"aws terraform modules, linux administration",
		"python data pipelines on aws",
		"frontend react typescript",
	}

	first := m.Rank(query, candidates)
	for i := 0; i < 50; i++ {
		if got := m.Rank(query, candidates); !reflect.DeepEqual(first, got) {
			t.Fatalf("run %d differs: %v vs %v", i, first, got)
		}
	}
}

func TestRankMaxFeaturesKeepsFrequentTerms(t *testing.T) {
	m := New(Options{MaxFeatures: 1})

	// python is the only term present in every document, so it is the sole feature.
	got := m.Rank("python rust", []string{"python java", "python kotlin"})
	for _, s := range got {
		if math.Abs(s.Value-1) > 1e-9 {
			t.Fatalf("expected similarity 1 with single shared feature, got %v", s.Value)
		}
	}

	if uncapped := New(Options{}).Score("python rust", "python java"); uncapped >= 1 {
		t.Fatalf("expected uncapped similarity below 1, got %v", uncapped)
	}
}

func TestNewClampsNegativeMaxFeatures(t *testing.T) {
	if got := New(Options{MaxFeatures: -10}).MaxFeatures(); got != 0 {
		t.Fatalf("expected 0, got %d", got)
	}
}

func TestPercent(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in     float64
		expect float64
	}{
		{in: 0, expect: 0},
		{in: 1, expect: 100},
		{in: 0.004, expect: 0.4},
		{in: 0.123456, expect: 12.35},
		{in: 0.45, expect: 45},
	}

	for _, tt := range tests {
		if got := Percent(tt.in); got != tt.expect {
			t.Fatalf("Percent(%v): expected %v, got %v", tt.in, tt.expect, got)
		}
	}
}

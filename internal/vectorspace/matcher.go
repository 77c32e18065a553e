// Package vectorspace scores a query text against candidate texts using a
// TF-IDF vector space built from scratch for every call.
//
// The weighting scheme is fixed so results are reproducible:
//   - text is lowercased and split into runs of letters, digits and '_';
//     runs shorter than two characters are dropped;
//   - English stop words are dropped;
//   - tf is the raw term count in a document;
//   - idf(t) = ln((1+n)/(1+df(t))) + 1, n being the number of documents
//     (query included);
//   - document vectors are L2-normalised, so cosine similarity is their dot
//     product.
package vectorspace

import (
	"math"
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"
)

// DefaultMaxFeatures caps the vocabulary of resume-facing scorers.
const DefaultMaxFeatures = 3000

// Options tunes vocabulary construction.
type Options struct {
	// MaxFeatures limits the vocabulary size. Zero or negative means no cap.
	MaxFeatures int
}

// Similarity is the cosine similarity of the query against the candidate at Index.
type Similarity struct {
	Index int
	Value float64
}

// Matcher holds only immutable options and is safe for concurrent use.
type Matcher struct {
	maxFeatures int
}

func New(opts Options) *Matcher {
	maxFeatures := opts.MaxFeatures
	if maxFeatures < 0 {
		maxFeatures = 0
	}
	return &Matcher{maxFeatures: maxFeatures}
}

// MaxFeatures returns the vocabulary cap, 0 meaning uncapped.
func (m *Matcher) MaxFeatures() int {
	return m.maxFeatures
}

// Rank returns one entry per candidate, in candidate order. Every value lies in
// [0, 1]; pairs without usable shared vocabulary score 0.
func (m *Matcher) Rank(query string, candidates []string) []Similarity {
	if len(candidates) == 0 {
		return []Similarity{}
	}

	docs := make([][]string, 0, len(candidates)+1)
	docs = append(docs, Tokenize(query))
	for _, c := range candidates {
		docs = append(docs, Tokenize(c))
	}

	sp := newSpace(docs, m.maxFeatures)
	queryVec := sp.vectorize(docs[0])

	result := make([]Similarity, len(candidates))
	for i := range candidates {
		result[i] = Similarity{
			Index: i,
			Value: cosine(queryVec, sp.vectorize(docs[i+1])),
		}
	}
	return result
}

// Score is Rank for a single candidate.
func (m *Matcher) Score(query, candidate string) float64 {
	return m.Rank(query, []string{candidate})[0].Value
}

// Percent converts a similarity into a percentage rounded to two decimals.
func Percent(similarity float64) float64 {
	return math.Round(similarity*10000) / 100
}

// Tokenize lowercases text and returns its vocabulary-eligible tokens in order.
func Tokenize(text string) []string {
	fields := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '_'
	})

	tokens := fields[:0]
	for _, f := range fields {
		if utf8.RuneCountInString(f) < 2 || IsStopWord(f) {
			continue
		}
		tokens = append(tokens, f)
	}
	return tokens
}

type space struct {
	index map[string]int
	idf   []float64
}

func newSpace(docs [][]string, maxFeatures int) *space {
	df := make(map[string]int)
	total := make(map[string]int)
	for _, doc := range docs {
		seen := make(map[string]struct{}, len(doc))
		for _, term := range doc {
			total[term]++
			if _, ok := seen[term]; ok {
				continue
			}
			seen[term] = struct{}{}
			df[term]++
		}
	}

	terms := make([]string, 0, len(df))
	for term := range df {
		terms = append(terms, term)
	}

	if maxFeatures > 0 && len(terms) > maxFeatures {
		sort.Slice(terms, func(i, j int) bool {
			a, b := terms[i], terms[j]
			if df[a] != df[b] {
				return df[a] > df[b]
			}
			if total[a] != total[b] {
				return total[a] > total[b]
			}
			return a < b
		})
		terms = terms[:maxFeatures]
	}
	sort.Strings(terms)

	n := float64(len(docs))
	sp := &space{
		index: make(map[string]int, len(terms)),
		idf:   make([]float64, len(terms)),
	}
	for i, term := range terms {
		sp.index[term] = i
		sp.idf[i] = math.Log((1+n)/(1+float64(df[term]))) + 1
	}
	return sp
}

type entry struct {
	term   int
	weight float64
}

// vector is a sparse L2-normalised vector sorted by term index.
type vector []entry

func (sp *space) vectorize(doc []string) vector {
	counts := make(map[int]int)
	for _, term := range doc {
		if idx, ok := sp.index[term]; ok {
			counts[idx]++
		}
	}
	if len(counts) == 0 {
		return nil
	}

	vec := make(vector, 0, len(counts))
	for idx, c := range counts {
		vec = append(vec, entry{term: idx, weight: float64(c) * sp.idf[idx]})
	}
	sort.Slice(vec, func(i, j int) bool { return vec[i].term < vec[j].term })

	var sum float64
	for _, e := range vec {
		sum += e.weight * e.weight
	}
	norm := math.Sqrt(sum)
	if norm == 0 || math.IsNaN(norm) || math.IsInf(norm, 0) {
		return nil
	}
	for i := range vec {
		vec[i].weight /= norm
	}
	return vec
}

func cosine(a, b vector) float64 {
	var dot float64
	for i, j := 0, 0; i < len(a) && j < len(b); {
		switch {
		case a[i].term == b[j].term:
			dot += a[i].weight * b[j].weight
			i++
			j++
		case a[i].term < b[j].term:
			i++
		default:
			j++
		}
	}

	switch {
	case math.IsNaN(dot) || dot <= 0:
		return 0
	case dot > 1:
		return 1
	default:
		return dot
	}
}

// Package textsim computes lexical similarity between two text documents.
//
// Similarity builds TF-IDF weight vectors over the shared vocabulary of
// exactly the two inputs and returns their cosine. It is pure and
// deterministic: no corpus, no network, same output for same inputs on
// every platform.
package textsim

import (
	"math"
	"sort"
	"strings"
)

// Similarity returns the cosine similarity of the TF-IDF vectors of a and b,
// in [0, 1]. It returns 0.0 when either document is empty or yields no
// tokens; identical non-empty documents score 1.0.
func Similarity(a, b string) float64 {
	tokensA := tokenize(a)
	tokensB := tokenize(b)
	if len(tokensA) == 0 || len(tokensB) == 0 {
		return 0.0
	}

	countsA := termCounts(tokensA)
	countsB := termCounts(tokensB)

	vocab := vocabulary(countsA, countsB)

	vecA := tfidfVector(countsA, countsB, vocab)
	vecB := tfidfVector(countsB, countsA, vocab)

	return cosine(vecA, vecB)
}

// tokenize lowercases the text and splits it into alphanumeric runs,
// dropping single-character tokens. The rule is fixed: changing it changes
// every score in the system.
func tokenize(text string) []string {
	text = strings.ToLower(text)
	fields := strings.FieldsFunc(text, func(r rune) bool {
		return !isAlphanumeric(r)
	})

	tokens := make([]string, 0, len(fields))
	for _, f := range fields {
		if len(f) >= 2 {
			tokens = append(tokens, f)
		}
	}
	return tokens
}

func isAlphanumeric(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') ||
		(r >= '0' && r <= '9') || r == '_'
}

func termCounts(tokens []string) map[string]int {
	counts := make(map[string]int, len(tokens))
	for _, t := range tokens {
		counts[t]++
	}
	return counts
}

// vocabulary returns the union of terms in both documents in sorted order.
// Sorting fixes the reduction order of the dot product so results are
// bit-stable across runs.
func vocabulary(a, b map[string]int) []string {
	seen := make(map[string]struct{}, len(a)+len(b))
	for t := range a {
		seen[t] = struct{}{}
	}
	for t := range b {
		seen[t] = struct{}{}
	}

	terms := make([]string, 0, len(seen))
	for t := range seen {
		terms = append(terms, t)
	}
	sort.Strings(terms)
	return terms
}

// tfidfVector computes the TF-IDF weight of each vocabulary term for the
// document with counts doc, against the 2-document corpus {doc, other}.
// IDF uses the smoothed form ln((1+n)/(1+df)) + 1 over n=2 documents, so a
// term present in both documents weighs 1 and a term unique to one weighs
// ln(3/2) + 1.
func tfidfVector(doc, other map[string]int, vocab []string) []float64 {
	const corpusSize = 2.0

	vec := make([]float64, len(vocab))
	for i, term := range vocab {
		tf := float64(doc[term])
		if tf == 0 {
			continue
		}

		df := 0.0
		if doc[term] > 0 {
			df++
		}
		if other[term] > 0 {
			df++
		}

		idf := math.Log((1+corpusSize)/(1+df)) + 1
		vec[i] = tf * idf
	}
	return vec
}

// cosine returns dot(a, b) / (|a| * |b|), or 0.0 when either vector has
// zero magnitude. The result is clamped to [0, 1] to absorb floating-point
// drift above 1.
func cosine(a, b []float64) float64 {
	var dot, normA, normB float64
	for i := range a {
		dot += a[i] * b[i]
		normA += a[i] * a[i]
		normB += b[i] * b[i]
	}
	if normA == 0 || normB == 0 {
		return 0.0
	}

	sim := dot / (math.Sqrt(normA) * math.Sqrt(normB))
	if sim > 1.0 {
		return 1.0
	}
	if sim < 0.0 {
		return 0.0
	}
	return sim
}

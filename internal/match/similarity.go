package match

import (
	"errors"
	"math"
	"regexp"
	"sort"
	"strings"
)

// maxVocabularyTerms caps the vectorizer vocabulary; terms are kept by
// corpus frequency.
const maxVocabularyTerms = 500

// tokenPattern keeps word tokens of two or more characters.
var tokenPattern = regexp.MustCompile(`[a-z0-9][a-z0-9+#._-]+`)

var errDegenerateCorpus = errors.New("similarity: empty vocabulary after tokenization")

// englishStopWords excludes common function words from the vocabulary.
var englishStopWords = map[string]bool{}

func init() {
	for _, w := range strings.Fields(`a about above after again against all am an and any are as at be because
		been before being below between both but by can cannot could did do does doing down during each few for
		from further had has have having he her here hers herself him himself his how i if in into is it its
		itself just me more most my myself no nor not now of off on once only or other our ours ourselves out
		over own same she should so some such than that the their theirs them themselves then there these they
		this those through to too under until up very was we were what when where which while who whom why will
		with would you your yours yourself yourselves`) {
		englishStopWords[w] = true
	}
}

// CosineSimilarity vectorizes the two documents with term-frequency/inverse-
// document-frequency weighting over the two-document corpus and returns the
// cosine of their vectors. Degenerate input (nothing left after tokenization)
// is an explicit error so the caller can map it to the documented fallback.
func CosineSimilarity(docA, docB string) (float64, error) {
	termsA := tokenize(docA)
	termsB := tokenize(docB)
	if len(termsA) == 0 || len(termsB) == 0 {
		return 0, errDegenerateCorpus
	}

	vocab := buildVocabulary(termsA, termsB)
	if len(vocab) == 0 {
		return 0, errDegenerateCorpus
	}

	vecA := tfidfVector(termsA, termsB, vocab)
	vecB := tfidfVector(termsB, termsA, vocab)

	dot := 0.0
	for i := range vecA {
		dot += vecA[i] * vecB[i]
	}
	// Vectors are l2-normalized, so the dot product is the cosine.
	if math.IsNaN(dot) {
		return 0, errDegenerateCorpus
	}
	return dot, nil
}

func tokenize(doc string) map[string]int {
	counts := make(map[string]int)
	for _, tok := range tokenPattern.FindAllString(strings.ToLower(doc), -1) {
		tok = strings.Trim(tok, "._-")
		if len(tok) < 2 || englishStopWords[tok] {
			continue
		}
		counts[tok]++
	}
	return counts
}

// buildVocabulary assigns indices to the most frequent terms across both
// documents, alphabetical within equal frequency so the vector layout is
// reproducible.
func buildVocabulary(a, b map[string]int) map[string]int {
	type termFreq struct {
		term  string
		count int
	}
	totals := make(map[string]int, len(a)+len(b))
	for t, c := range a {
		totals[t] += c
	}
	for t, c := range b {
		totals[t] += c
	}

	terms := make([]termFreq, 0, len(totals))
	for t, c := range totals {
		terms = append(terms, termFreq{t, c})
	}
	sort.Slice(terms, func(i, j int) bool {
		if terms[i].count != terms[j].count {
			return terms[i].count > terms[j].count
		}
		return terms[i].term < terms[j].term
	})
	if len(terms) > maxVocabularyTerms {
		terms = terms[:maxVocabularyTerms]
	}

	vocab := make(map[string]int, len(terms))
	for i, tf := range terms {
		vocab[tf.term] = i
	}
	return vocab
}

// tfidfVector computes the smoothed tf-idf vector for doc against the
// two-document corpus {doc, other}, l2-normalized.
func tfidfVector(doc, other map[string]int, vocab map[string]int) []float64 {
	const corpusSize = 2.0
	vec := make([]float64, len(vocab))
	for term, idx := range vocab {
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
		vec[idx] = tf * idf
	}

	norm := 0.0
	for _, v := range vec {
		norm += v * v
	}
	if norm == 0 {
		return vec
	}
	norm = math.Sqrt(norm)
	for i := range vec {
		vec[i] /= norm
	}
	return vec
}

package classifier

import (
	"math"
	"sort"
)

// feature is one non-zero entry of a document vector.
type feature struct {
	index int
	value float64
}

// sparseVector holds the non-zero weights of a document, ordered by index.
type sparseVector []feature

func (v sparseVector) norm() float64 {
	var sum float64
	for _, f := range v {
		sum += f.value * f.value
	}
	return math.Sqrt(sum)
}

// tfidfVectorizer maps text onto term frequency times smoothed inverse
// document frequency weights over the vocabulary seen at fit time.
type tfidfVectorizer struct {
	vocabulary map[string]int
	terms      []string
	idf        []float64
}

// fitTFIDF learns the vocabulary and idf weights from docs.
func fitTFIDF(docs []string) *tfidfVectorizer {
	docFreq := make(map[string]int)
	for _, doc := range docs {
		seen := make(map[string]bool)
		for _, tok := range tokenize(doc) {
			if !seen[tok] {
				seen[tok] = true
				docFreq[tok]++
			}
		}
	}

	terms := make([]string, 0, len(docFreq))
	for term := range docFreq {
		terms = append(terms, term)
	}
	sort.Strings(terms)

	n := float64(len(docs))
	vocabulary := make(map[string]int, len(terms))
	idf := make([]float64, len(terms))
	for i, term := range terms {
		vocabulary[term] = i
		// idf(t) = ln((1+n)/(1+df)) + 1
		idf[i] = math.Log((1+n)/(1+float64(docFreq[term]))) + 1
	}

	return &tfidfVectorizer{
		vocabulary: vocabulary,
		terms:      terms,
		idf:        idf,
	}
}

// transform returns the L2-normalized tf-idf vector of text. Tokens that
// were not seen at fit time are ignored.
func (v *tfidfVectorizer) transform(text string) sparseVector {
	counts := make(map[int]float64)
	for _, tok := range tokenize(text) {
		if idx, ok := v.vocabulary[tok]; ok {
			counts[idx]++
		}
	}
	if len(counts) == 0 {
		return nil
	}

	vec := make(sparseVector, 0, len(counts))
	for idx, tf := range counts {
		vec = append(vec, feature{index: idx, value: tf * v.idf[idx]})
	}
	sort.Slice(vec, func(i, j int) bool { return vec[i].index < vec[j].index })

	if n := vec.norm(); n > 0 {
		for i := range vec {
			vec[i].value /= n
		}
	}
	return vec
}

func (v *tfidfVectorizer) size() int {
	return len(v.terms)
}

// Folio - Social Reviews and Work Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/folio

package algorithms

import (
	"context"
	"math"
	"regexp"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/tomtom215/folio/internal/recommend"
)

// wordRun matches maximal runs of word characters. Runs shorter than two
// runes are discarded by Tokenize.
var wordRun = regexp.MustCompile(`[\p{L}\p{N}_]+`)

// Tokenize lowercases text and splits it into tokens of at least two word
// characters. "Sci-Fi" yields ["sci", "fi"]; single-character runs are dropped.
func Tokenize(text string) []string {
	runs := wordRun.FindAllString(strings.ToLower(text), -1)
	tokens := runs[:0]
	for _, r := range runs {
		if utf8.RuneCountInString(r) >= 2 {
			tokens = append(tokens, r)
		}
	}
	return tokens
}

// termWeight is one non-zero entry of a sparse TF-IDF row.
type termWeight struct {
	term   int
	weight float64
}

// ContentSimilarity holds the work-by-work cosine similarity of TF-IDF
// vectors built from genre labels.
//
// Each work's document is its labels joined by spaces. Term frequency is the
// raw count, idf is ln((1+n)/(1+df)) + 1, and rows are L2-normalized, so the
// cosine of two rows is their dot product. Works without labels have a zero
// row and similarity 0 to every work, themselves included.
type ContentSimilarity struct {
	BaseAlgorithm

	workers int

	workIDs    []int64
	index      map[int64]int
	vocabulary []string
	idf        []float64
	rows       [][]termWeight
	matrix     []float64 // n*n, row-major

	nearest map[int64][]recommend.Neighbor
}

// NewContentSimilarity creates an unfitted content model. workers bounds the
// goroutines used for the pairwise matrix; zero means one per CPU.
func NewContentSimilarity(workers int) *ContentSimilarity {
	return &ContentSimilarity{
		BaseAlgorithm: NewBaseAlgorithm("content"),
		workers:       workers,
	}
}

// Fit vectorizes the genre labels of every work in the dataset universe.
func (c *ContentSimilarity) Fit(ctx context.Context, ds *recommend.Dataset) error {
	return c.FitGenres(ctx, ds.WorkGenres())
}

// FitGenres vectorizes the given work label lists and computes the full
// similarity matrix.
func (c *ContentSimilarity) FitGenres(ctx context.Context, genres map[int64][]string) error {
	c.acquireTrainLock()
	defer c.releaseTrainLock()

	if ContextCancelled(ctx) {
		return ctx.Err()
	}

	workIDs := make([]int64, 0, len(genres))
	for id := range genres {
		workIDs = append(workIDs, id)
	}
	sort.Slice(workIDs, func(i, j int) bool { return workIDs[i] < workIDs[j] })

	index := make(map[int64]int, len(workIDs))
	docs := make([][]string, len(workIDs))
	for i, id := range workIDs {
		index[id] = i
		docs[i] = Tokenize(strings.Join(genres[id], " "))
	}

	vocabulary, idf := buildVocabulary(docs)
	termIndex := make(map[string]int, len(vocabulary))
	for i, term := range vocabulary {
		termIndex[term] = i
	}

	rows := make([][]termWeight, len(docs))
	for i, doc := range docs {
		rows[i] = vectorize(doc, termIndex, idf)
	}

	n := len(workIDs)
	matrix := make([]float64, n*n)
	err := ParallelRows(ctx, n, c.workers, func(i int) {
		for j := i; j < n; j++ {
			matrix[i*n+j] = dot(rows[i], rows[j])
		}
	})
	if err != nil {
		return err
	}
	// Mirror the upper triangle so sim(a, b) and sim(b, a) are bit-identical.
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			matrix[j*n+i] = matrix[i*n+j]
		}
	}

	c.workIDs = workIDs
	c.index = index
	c.vocabulary = vocabulary
	c.idf = idf
	c.rows = rows
	c.matrix = matrix
	c.nearest = make(map[int64][]recommend.Neighbor)
	c.markTrained()
	return nil
}

// buildVocabulary returns the sorted term list and its smoothed idf.
func buildVocabulary(docs [][]string) ([]string, []float64) {
	df := make(map[string]int)
	for _, doc := range docs {
		seen := make(map[string]struct{}, len(doc))
		for _, term := range doc {
			if _, ok := seen[term]; ok {
				continue
			}
			seen[term] = struct{}{}
			df[term]++
		}
	}

	vocabulary := make([]string, 0, len(df))
	for term := range df {
		vocabulary = append(vocabulary, term)
	}
	sort.Strings(vocabulary)

	n := float64(len(docs))
	idf := make([]float64, len(vocabulary))
	for i, term := range vocabulary {
		idf[i] = math.Log((1+n)/(1+float64(df[term]))) + 1
	}
	return vocabulary, idf
}

// vectorize returns the L2-normalized TF-IDF row of doc ordered by term index.
func vectorize(doc []string, termIndex map[string]int, idf []float64) []termWeight {
	if len(doc) == 0 {
		return nil
	}

	counts := make(map[int]float64, len(doc))
	for _, term := range doc {
		counts[termIndex[term]]++
	}

	row := make([]termWeight, 0, len(counts))
	for term, tf := range counts {
		row = append(row, termWeight{term: term, weight: tf * idf[term]})
	}
	sort.Slice(row, func(i, j int) bool { return row[i].term < row[j].term })

	// Sum in term order so identical documents get bit-identical rows.
	var norm float64
	for _, tw := range row {
		norm += tw.weight * tw.weight
	}
	norm = math.Sqrt(norm)
	if norm == 0 {
		return nil
	}
	for i := range row {
		row[i].weight /= norm
	}
	return row
}

// dot multiplies two sparse rows sorted by term index.
func dot(a, b []termWeight) float64 {
	var sum float64
	i, j := 0, 0
	for i < len(a) && j < len(b) {
		switch {
		case a[i].term == b[j].term:
			sum += a[i].weight * b[j].weight
			i++
			j++
		case a[i].term < b[j].term:
			i++
		default:
			j++
		}
	}
	return sum
}

// Contains reports whether work was part of the fitted universe.
func (c *ContentSimilarity) Contains(work int64) bool {
	c.acquirePredictLock()
	defer c.releasePredictLock()
	_, ok := c.index[work]
	return ok
}

// Similarity returns the cosine similarity of two works, or 0 if either is
// unknown.
func (c *ContentSimilarity) Similarity(a, b int64) float64 {
	c.acquirePredictLock()
	defer c.releasePredictLock()

	i, okA := c.index[a]
	j, okB := c.index[b]
	if !okA || !okB {
		return 0
	}
	return c.matrix[i*len(c.workIDs)+j]
}

// NearestWorks returns the first k entries of work's similarity column,
// sorted by similarity descending and then by work ID. The work itself is
// part of the column. Unknown works return nil.
func (c *ContentSimilarity) NearestWorks(work int64, k int) []recommend.Neighbor {
	c.mu.Lock()
	defer c.mu.Unlock()

	if cached, ok := c.nearest[work]; ok && len(cached) >= min(k, len(c.workIDs)) {
		return recommend.TopN(cached, k)
	}

	i, ok := c.index[work]
	if !ok {
		return nil
	}

	n := len(c.workIDs)
	column := make([]recommend.Neighbor, n)
	for j, id := range c.workIDs {
		column[j] = recommend.Neighbor{ID: id, Similarity: c.matrix[j*n+i]}
	}
	SortNeighbors(column)

	top := recommend.TopN(column, k)
	c.nearest[work] = top
	return top
}

// Vocabulary returns the sorted term list of the fitted corpus.
func (c *ContentSimilarity) Vocabulary() []string {
	c.acquirePredictLock()
	defer c.releasePredictLock()
	return c.vocabulary
}

// WorkIDs returns the fitted work universe, ascending.
func (c *ContentSimilarity) WorkIDs() []int64 {
	c.acquirePredictLock()
	defer c.releasePredictLock()
	return c.workIDs
}

// Weights returns the normalized TF-IDF weights of work keyed by term.
func (c *ContentSimilarity) Weights(work int64) map[string]float64 {
	c.acquirePredictLock()
	defer c.releasePredictLock()

	i, ok := c.index[work]
	if !ok {
		return nil
	}
	out := make(map[string]float64, len(c.rows[i]))
	for _, tw := range c.rows[i] {
		out[c.vocabulary[tw.term]] = tw.weight
	}
	return out
}

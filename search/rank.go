package search

import (
	"math"
	"slices"

	"github.com/tasknest/tasknest/core"
)

const (
	// DefaultTopK is the default maximum number of results returned.
	DefaultTopK = 7

	// DefaultMinScore is the default similarity floor. Candidates scoring
	// below it are dropped rather than padding out the result list.
	DefaultMinScore = 0.35

	// scoreEpsilon is the tolerance within which two scores are considered
	// tied and recency decides the order.
	scoreEpsilon = 1e-6
)

// CosineSimilarity computes the cosine similarity between two vectors,
// clamped to [0, 1]. Returns 0 if either vector has zero magnitude; a
// degenerate vector matches nothing rather than everything.
func CosineSimilarity(a, b []float32) float32 {
	minLen := len(a)
	if len(b) < minLen {
		minLen = len(b)
	}

	var dot, magA, magB float64
	for i := 0; i < minLen; i++ {
		dot += float64(a[i]) * float64(b[i])
		magA += float64(a[i]) * float64(a[i])
		magB += float64(b[i]) * float64(b[i])
	}
	for i := minLen; i < len(a); i++ {
		magA += float64(a[i]) * float64(a[i])
	}
	for i := minLen; i < len(b); i++ {
		magB += float64(b[i]) * float64(b[i])
	}

	if magA == 0 || magB == 0 {
		return 0
	}

	similarity := dot / (math.Sqrt(magA) * math.Sqrt(magB))
	if similarity < 0 {
		// Opposed vectors are just "not similar"
		return 0
	}
	if similarity > 1 {
		return 1
	}
	return float32(similarity)
}

// Rank scores candidates against the query vector and returns the topK best
// matches at or above minScore, ordered by score descending. Ties within
// scoreEpsilon are broken by CreatedAt descending, newest first, so result
// order is deterministic for a fixed candidate set.
//
// Rank is a pure function: it never mutates the candidates and carries no
// state between calls.
func Rank(queryVector []float32, candidates []*core.Task, topK int, minScore float32) []*core.SearchResult {
	if topK <= 0 {
		topK = DefaultTopK
	}

	results := make([]*core.SearchResult, 0, len(candidates))
	for _, task := range candidates {
		if task == nil || len(task.Vector) == 0 {
			continue
		}

		score := CosineSimilarity(queryVector, task.Vector)
		if score < minScore {
			continue
		}

		results = append(results, &core.SearchResult{
			Task:  task,
			Score: score,
		})
	}

	slices.SortFunc(results, func(a, b *core.SearchResult) int {
		diff := float64(a.Score) - float64(b.Score)
		if diff > scoreEpsilon {
			return -1
		}
		if diff < -scoreEpsilon {
			return 1
		}
		// Tied: newer tasks first
		if a.Task.CreatedAt.After(b.Task.CreatedAt) {
			return -1
		}
		if b.Task.CreatedAt.After(a.Task.CreatedAt) {
			return 1
		}
		return 0
	})

	if len(results) > topK {
		results = results[:topK]
	}
	return results
}

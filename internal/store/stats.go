package store

import (
	"sort"

	"github.com/manav03panchal/brewlog/internal/model"
)

// MethodStat aggregates the brews of one method.
type MethodStat struct {
	Method  string  `json:"method"`
	Count   int     `json:"count"`
	Average float64 `json:"average"`
	Best    float64 `json:"best"`
}

// Stats summarizes a set of brews.
type Stats struct {
	Count    int          `json:"count"`
	Average  float64      `json:"average"`
	HasData  bool         `json:"has_data"`
	Best     *model.Brew  `json:"best,omitempty"`
	Latest   *model.Brew  `json:"latest,omitempty"`
	ByMethod []MethodStat `json:"by_method"`
}

// Summarize computes stats over brews. Methods are ordered by count, then
// average, then name.
func Summarize(brews []*model.Brew) Stats {
	stats := Stats{Count: len(brews), ByMethod: []MethodStat{}}
	stats.Average, stats.HasData = Average(brews)
	if !stats.HasData {
		return stats
	}

	byMethod := make(map[string]*MethodStat)
	totals := make(map[string]float64)
	for _, b := range brews {
		if stats.Best == nil || b.Score > stats.Best.Score {
			stats.Best = b
		}
		if stats.Latest == nil || b.CreatedAt.After(stats.Latest.CreatedAt) {
			stats.Latest = b
		}

		ms, ok := byMethod[b.Method]
		if !ok {
			ms = &MethodStat{Method: b.Method}
			byMethod[b.Method] = ms
		}
		ms.Count++
		totals[b.Method] += b.Score
		if b.Score > ms.Best {
			ms.Best = b.Score
		}
	}
	stats.Best = stats.Best.Clone()
	stats.Latest = stats.Latest.Clone()

	for method, ms := range byMethod {
		ms.Average = totals[method] / float64(ms.Count)
		stats.ByMethod = append(stats.ByMethod, *ms)
	}
	sort.Slice(stats.ByMethod, func(i, j int) bool {
		a, b := stats.ByMethod[i], stats.ByMethod[j]
		if a.Count != b.Count {
			return a.Count > b.Count
		}
		if a.Average != b.Average {
			return a.Average > b.Average
		}
		return a.Method < b.Method
	})

	return stats
}

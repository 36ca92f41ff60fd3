// Copyright 2026 Baibhav Bista
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package search

import (
	"math"
	"slices"
	"strings"
	"time"

	"github.com/baibhavbista/gai-workcycles/core"
)

// RankingConfig holds the weights and parameters of the composite
// score. It is an immutable value object: passed per call, never
// mutated by the engine. The seven signal weights sum to 1.0 so the
// weighted sum stays in [0, 1] before the recent-session boost.
type RankingConfig struct {
	WeightVectorSimilarity float64
	WeightRecency          float64
	WeightLevelBoost       float64
	WeightSessionStatus    float64
	WeightCycleStatus      float64
	WeightContentLength    float64
	WeightFieldImportance  float64

	// HalfLifeDays controls recency decay; MaxAgeDays zeroes it out.
	HalfLifeDays float64
	MaxAgeDays   float64

	// RecentSessionBoost multiplies the composite score of results
	// whose record is at most RecentSessionDays old.
	RecentSessionBoost float64
	RecentSessionDays  float64
}

// DefaultRankingConfig returns the standard weights.
func DefaultRankingConfig() *RankingConfig {
	return &RankingConfig{
		WeightVectorSimilarity: 0.40,
		WeightRecency:          0.20,
		WeightLevelBoost:       0.15,
		WeightSessionStatus:    0.10,
		WeightCycleStatus:      0.10,
		WeightContentLength:    0.03,
		WeightFieldImportance:  0.02,
		HalfLifeDays:           30,
		MaxAgeDays:             365,
		RecentSessionBoost:     1.2,
		RecentSessionDays:      7,
	}
}

// Rank scores raw hits against the query and returns them ordered by
// composite score descending. The sort is stable, so hits that tie
// keep their cascade order (which is similarity order within a level).
func Rank(results []*core.RawResult, query string, config *RankingConfig, now time.Time) []*core.RankedResult {
	if config == nil {
		config = DefaultRankingConfig()
	}

	ranked := make([]*core.RankedResult, len(results))
	for i, raw := range results {
		ranked[i] = &core.RankedResult{
			RawResult:      *raw,
			CompositeScore: compositeScore(raw, query, config, now),
		}
	}

	slices.SortStableFunc(ranked, func(a, b *core.RankedResult) int {
		switch {
		case a.CompositeScore > b.CompositeScore:
			return -1
		case a.CompositeScore < b.CompositeScore:
			return 1
		default:
			return 0
		}
	})

	for i, r := range ranked {
		r.Rank = i + 1
	}
	return ranked
}

// compositeScore combines the seven relevance signals, applies the
// recent-session multiplier, and clamps to [0, 1].
func compositeScore(raw *core.RawResult, query string, config *RankingConfig, now time.Time) float64 {
	record := raw.Record
	ageDays := now.Sub(record.CreatedAt).Hours() / 24

	score := config.WeightVectorSimilarity*float64(raw.Similarity) +
		config.WeightRecency*recencyScore(ageDays, config) +
		config.WeightLevelBoost*levelBoostScore(record.Level, query) +
		config.WeightSessionStatus*0.5 + // neutral pending richer session metadata
		config.WeightCycleStatus*0.5 + // neutral pending richer cycle metadata
		config.WeightContentLength*contentLengthScore(len(record.Text)) +
		config.WeightFieldImportance*fieldImportanceScore(record)

	if ageDays >= 0 && ageDays <= config.RecentSessionDays {
		score *= config.RecentSessionBoost
	}

	if score > 1.0 {
		score = 1.0
	}
	if score < 0 {
		score = 0
	}
	return score
}

// recencyScore decays exponentially with age and cuts to zero past
// MaxAgeDays. exp(-0.693 * age / halfLife) halves every half-life.
func recencyScore(ageDays float64, config *RankingConfig) float64 {
	if ageDays < 0 {
		ageDays = 0
	}
	if ageDays > config.MaxAgeDays {
		return 0
	}
	return math.Exp(-0.693 * ageDays / config.HalfLifeDays)
}

// levelBoostScore gives each level a base preference, amplified when
// the query names that level explicitly.
func levelBoostScore(level core.JobLevel, query string) float64 {
	var base float64
	switch level {
	case core.LevelSession:
		base = 0.7
	case core.LevelCycle:
		base = 0.6
	case core.LevelField:
		base = 0.5
	}

	if strings.Contains(strings.ToLower(query), level.String()) {
		base += 0.3
	}
	if base > 1.0 {
		base = 1.0
	}
	return base
}

// contentLengthScore prefers texts long enough to carry meaning but
// short enough to read, peaking between 200 and 500 characters.
func contentLengthScore(length int) float64 {
	switch {
	case length <= 0:
		return 0
	case length < 200:
		return float64(length) / 200
	case length <= 500:
		return 1.0
	default:
		score := 1.0 - float64(length-500)/1500
		if score < 0.1 {
			score = 0.1
		}
		return score
	}
}

// fieldImportanceScore orders columns by how much intent they carry:
// objectives and goals first, plan and review answers next, the rest
// last. Matches by substring so session and cycle columns both hit.
func fieldImportanceScore(record *core.VectorRecord) float64 {
	if record.Level != core.LevelField {
		return 0.5
	}

	name := strings.ToLower(record.Column + " " + record.FieldLabel)
	switch {
	case strings.Contains(name, "objective") || strings.Contains(name, "goal"):
		return 1.0
	case strings.Contains(name, "done") || strings.Contains(name, "importance") ||
		strings.Contains(name, "first_step") || strings.Contains(name, "review") ||
		strings.Contains(name, "accomplish") || strings.Contains(name, "lesson"):
		return 0.7
	default:
		return 0.4
	}
}

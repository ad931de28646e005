package models

import (
	"math"
	"sort"
	"time"

	"github.com/google/uuid"
)

// RecyclingLog records a single recycling drop-off
type RecyclingLog struct {
	ID           uuid.UUID `db:"id"`
	UserID       uuid.UUID `db:"user_id"`
	MaterialType string    `db:"material_type"`
	Weight       float64   `db:"weight"`
	PhotoURL     string    `db:"photo_url"`
	CreatedAt    time.Time `db:"created_at"`
}

// MaterialShare is the percentage of a month's logs made up by one material
type MaterialShare struct {
	Material string  `json:"material"`
	Percent  float64 `json:"percent"`
}

// MonthlyAggregates summarizes a user's recycling for the current month
type MonthlyAggregates struct {
	MonthStart  time.Time       `json:"month_start"`
	TotalWeight float64         `json:"total_weight"`
	Materials   []MaterialShare `json:"materials"`
}

// AggregateMonth builds the monthly summary from the month's logs. Shares are
// by log count, weights are summed; both are rounded to two decimals.
func AggregateMonth(monthStart time.Time, logs []*RecyclingLog) MonthlyAggregates {
	agg := MonthlyAggregates{MonthStart: monthStart, Materials: []MaterialShare{}}
	if len(logs) == 0 {
		return agg
	}

	counts := make(map[string]int)
	var total float64
	for _, l := range logs {
		counts[l.MaterialType]++
		total += l.Weight
	}
	agg.TotalWeight = round2(total)

	for material, n := range counts {
		agg.Materials = append(agg.Materials, MaterialShare{
			Material: material,
			Percent:  round2(float64(n) * 100.0 / float64(len(logs))),
		})
	}
	sort.Slice(agg.Materials, func(i, j int) bool {
		return agg.Materials[i].Material < agg.Materials[j].Material
	})

	return agg
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

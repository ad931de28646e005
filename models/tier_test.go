package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTierFor(t *testing.T) {
	tests := []struct {
		balance  int64
		expected Tier
	}{
		{-5, TierEcoLearner},
		{0, TierEcoLearner},
		{9, TierEcoLearner},
		{10, TierEcoExplorer},
		{29, TierEcoExplorer},
		{30, TierEcoChampion},
		{59, TierEcoChampion},
		{60, TierEcoEnabler},
		{1_000_000, TierEcoEnabler},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, TierFor(tt.balance), "balance %d", tt.balance)
	}
}

func TestUser_Tier(t *testing.T) {
	u := &User{EcoCoins: 45, Role: TierEcoLearner}
	assert.Equal(t, TierEcoChampion, u.Tier())
}

package models

// Tier is a named role band derived solely from a coin balance
type Tier string

const (
	TierEcoLearner  Tier = "Eco Learner"
	TierEcoExplorer Tier = "Eco Explorer"
	TierEcoChampion Tier = "Eco Champion"
	TierEcoEnabler  Tier = "Eco Enabler"
)

// tierBands are evaluated in ascending order; a balance belongs to the
// first band whose upper bound it is below.
var tierBands = []struct {
	upper int64
	tier  Tier
}{
	{10, TierEcoLearner},
	{30, TierEcoExplorer},
	{60, TierEcoChampion},
}

// TierFor maps a coin balance to its tier
func TierFor(balance int64) Tier {
	for _, band := range tierBands {
		if balance < band.upper {
			return band.tier
		}
	}
	return TierEcoEnabler
}

// String returns the display name of the tier
func (t Tier) String() string {
	return string(t)
}

package allocation

import (
	"math"

	"github.com/courtbook/booking-engine/internal/domain"
)

// Weight считает эффективный вес кандидата ранга rank для участника
// с тарифным весом tierWeight и серией из missStreak окон без слота.
// Вес = RankDecay^(rank-1) * tierWeight * boost, где boost растет
// на BoostPerMiss за каждый пропуск и ограничен MaxFairnessBoost.
// Серия пропусков обнуляется любым назначением
func Weight(rank int, tierWeight float64, missStreak int) float64 {
	if rank < 1 {
		rank = 1
	}
	if tierWeight <= 0 {
		tierWeight = domain.DefaultFairnessWeight
	}

	boost := 1.0 + domain.BoostPerMiss*float64(missStreak)
	if boost > domain.MaxFairnessBoost {
		boost = domain.MaxFairnessBoost
	}

	return math.Pow(domain.RankDecay, float64(rank-1)) * tierWeight * boost
}

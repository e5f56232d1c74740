package allocation

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWeight_RankDecay(t *testing.T) {
	assert.InDelta(t, 1.0, Weight(1, 1.0, 0), 1e-9)
	assert.InDelta(t, 0.5, Weight(2, 1.0, 0), 1e-9)
	assert.InDelta(t, 0.25, Weight(3, 1.0, 0), 1e-9)
}

func TestWeight_MissStreakBoost(t *testing.T) {
	assert.InDelta(t, 1.5, Weight(1, 1.0, 1), 1e-9)
	assert.InDelta(t, 2.0, Weight(1, 1.0, 2), 1e-9)

	// Буст ограничен сверху
	assert.InDelta(t, 3.0, Weight(1, 1.0, 4), 1e-9)
	assert.InDelta(t, 3.0, Weight(1, 1.0, 100), 1e-9)
}

func TestWeight_TierWeight(t *testing.T) {
	assert.InDelta(t, 2.0, Weight(1, 2.0, 0), 1e-9)
	assert.InDelta(t, 1.0, Weight(2, 2.0, 0), 1e-9)

	// Нулевой или отрицательный тарифный вес заменяется весом по умолчанию
	assert.InDelta(t, 1.0, Weight(1, 0, 0), 1e-9)
	assert.InDelta(t, 1.0, Weight(1, -1.0, 0), 1e-9)

	// Ранг меньше единицы нормализуется
	assert.InDelta(t, 1.0, Weight(0, 1.0, 0), 1e-9)
}

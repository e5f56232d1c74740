package allocation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/courtbook/booking-engine/internal/domain"
)

func member(id int64, tierWeight float64, missStreak int) domain.SnapshotMember {
	return domain.SnapshotMember{UserID: id, TierWeight: tierWeight, MissStreak: missStreak}
}

func assignmentsByUser(result []Assignment) map[int64]*Candidate {
	out := make(map[int64]*Candidate, len(result))
	for _, a := range result {
		out[a.UserID] = a.Candidate
	}
	return out
}

func TestSolve_MissStreakBoostWins(t *testing.T) {
	svc := NewService(&testLogger{})

	// Три участника хотят один и тот же слот первым приоритетом.
	// Двое без пропусков, третий пропустил два окна подряд: его буст
	// (1 + 0.5*2 = 2.0) перевешивает
	contested := slot(1, "18:00", 60)
	members := []domain.SnapshotMember{
		member(1, 1.0, 0),
		member(2, 1.0, 0),
		member(3, 1.0, 2),
	}
	candidates := map[int64][]Candidate{
		1: {{UserID: 1, Rank: 1, Slot: contested}},
		2: {{UserID: 2, Rank: 1, Slot: contested}},
		3: {{UserID: 3, Rank: 1, Slot: contested}},
	}

	byUser := assignmentsByUser(svc.Solve(members, candidates))
	require.Len(t, byUser, 3)
	assert.Nil(t, byUser[1])
	assert.Nil(t, byUser[2])
	require.NotNil(t, byUser[3])
	assert.Equal(t, contested, byUser[3].Slot)
}

func TestSolve_EqualWeightsLowerIDWins(t *testing.T) {
	svc := NewService(&testLogger{})

	contested := slot(1, "10:00", 60)
	members := []domain.SnapshotMember{
		member(42, 1.0, 0),
		member(7, 1.0, 0),
	}
	candidates := map[int64][]Candidate{
		42: {{UserID: 42, Rank: 1, Slot: contested}},
		7:  {{UserID: 7, Rank: 1, Slot: contested}},
	}

	byUser := assignmentsByUser(svc.Solve(members, candidates))
	require.NotNil(t, byUser[7])
	assert.Nil(t, byUser[42])
}

func TestSolve_PrefersTotalSatisfaction(t *testing.T) {
	svc := NewService(&testLogger{})

	// Участник 1 может взять любой из двух слотов, участник 2 - только первый.
	// Максимум суммарного веса отдает первый слот участнику 2,
	// а участника 1 сдвигает на второй приоритет
	slotA := slot(1, "10:00", 60)
	slotB := slot(2, "10:00", 60)
	members := []domain.SnapshotMember{
		member(1, 1.0, 0),
		member(2, 1.0, 0),
	}
	candidates := map[int64][]Candidate{
		1: {
			{UserID: 1, Rank: 1, Slot: slotA},
			{UserID: 1, Rank: 2, Slot: slotB},
		},
		2: {{UserID: 2, Rank: 1, Slot: slotA}},
	}

	byUser := assignmentsByUser(svc.Solve(members, candidates))
	require.NotNil(t, byUser[1])
	require.NotNil(t, byUser[2])
	assert.Equal(t, slotB, byUser[1].Slot)
	assert.Equal(t, slotA, byUser[2].Slot)
}

func TestSolve_Deterministic(t *testing.T) {
	svc := NewService(&testLogger{})

	slots := []domain.ConcreteSlot{
		slot(1, "10:00", 60),
		slot(1, "11:00", 60),
		slot(2, "10:00", 60),
	}
	members := []domain.SnapshotMember{
		member(3, 1.0, 1),
		member(1, 2.0, 0),
		member(2, 1.0, 0),
	}
	candidates := map[int64][]Candidate{
		1: {{UserID: 1, Rank: 1, Slot: slots[0]}, {UserID: 1, Rank: 2, Slot: slots[2]}},
		2: {{UserID: 2, Rank: 1, Slot: slots[0]}, {UserID: 2, Rank: 2, Slot: slots[1]}},
		3: {{UserID: 3, Rank: 1, Slot: slots[0]}},
	}

	first := svc.Solve(members, candidates)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, svc.Solve(members, candidates))
	}
}

func TestSolve_OverlappingDurationsResolved(t *testing.T) {
	svc := NewService(&testLogger{})

	// Двухчасовой слот 10:00-12:00 пересекается с часовым 11:00-12:00
	// на том же корте. Проигравший пересечение участник получает
	// свой запасной слот
	long := slot(1, "10:00", 120)
	overlapping := slot(1, "11:00", 60)
	fallback := slot(1, "12:00", 60)

	members := []domain.SnapshotMember{
		member(1, 1.0, 0),
		member(2, 1.0, 0),
	}
	candidates := map[int64][]Candidate{
		1: {{UserID: 1, Rank: 1, Slot: long}},
		2: {
			{UserID: 2, Rank: 1, Slot: overlapping},
			{UserID: 2, Rank: 2, Slot: fallback},
		},
	}

	byUser := assignmentsByUser(svc.Solve(members, candidates))
	require.NotNil(t, byUser[1])
	require.NotNil(t, byUser[2])
	assert.Equal(t, long, byUser[1].Slot)
	assert.Equal(t, fallback, byUser[2].Slot)
}

func TestSolve_NoCandidatesMeansUnassigned(t *testing.T) {
	svc := NewService(&testLogger{})

	members := []domain.SnapshotMember{member(1, 1.0, 0)}
	result := svc.Solve(members, map[int64][]Candidate{})

	require.Len(t, result, 1)
	assert.Equal(t, int64(1), result[0].UserID)
	assert.Nil(t, result[0].Candidate)
}

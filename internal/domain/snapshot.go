package domain

import "time"

// SnapshotMember is one fairness-eligible member captured in a window snapshot
type SnapshotMember struct {
	UserID     int64   `json:"user_id"`
	TierWeight float64 `json:"tier_weight"`
	MissStreak int     `json:"miss_streak"` // consecutive unassigned windows before this one
}

// WindowSnapshot is the immutable input of one fairness allocation run:
// all preference lists and all sellable slots, captured atomically at close_at.
// Persisted (JSONB) before the window enters "allocating", so a crash mid-solve
// resumes from the same input, never from live data.
type WindowSnapshot struct {
	WindowID   int64     `json:"window_id"`
	TargetDate time.Time `json:"target_date"`
	TakenAt    time.Time `json:"taken_at"`

	Members     []SnapshotMember   `json:"members"`
	Preferences []*PreferenceEntry `json:"preferences"`
	Slots       []ConcreteSlot     `json:"slots"`
}

package domain

import (
	"errors"
	"time"
)

// WindowState состояние окна честной аллокации
type WindowState string

const (
	WindowScheduled  WindowState = "scheduled"
	WindowOpen       WindowState = "open"
	WindowClosed     WindowState = "closed"
	WindowAllocating WindowState = "allocating"
	WindowAllocated  WindowState = "allocated"
	WindowFailed     WindowState = "failed"
)

// ErrInvalidTransition возвращается при недопустимом переходе состояния окна
var ErrInvalidTransition = errors.New("domain: invalid contention window state transition")

// Допустимые переходы состояния окна
// failed -> allocating: повтор прогона от сохраненного снапшота
var windowTransitions = map[WindowState][]WindowState{
	WindowScheduled:  {WindowOpen},
	WindowOpen:       {WindowClosed},
	WindowClosed:     {WindowAllocating},
	WindowAllocating: {WindowAllocated, WindowFailed},
	WindowFailed:     {WindowAllocating},
	WindowAllocated:  {},
}

// ContentionWindow is the scheduled contention period: requests submitted while
// the window is open are treated as simultaneous and resolved by the fairness
// allocator after close. Terminal state "allocated" is immutable; a new window
// is created for the next period.
type ContentionWindow struct {
	ID             int64
	OrganisationID int64

	OpenAt     time.Time
	CloseAt    time.Time
	TargetDate time.Time // the bookable date this window allocates

	State    WindowState
	Attempts int // solver attempts consumed so far

	CreatedAt time.Time
	UpdatedAt time.Time
}

// CanTransitionTo проверяет допустимость перехода состояния
func (w *ContentionWindow) CanTransitionTo(next WindowState) bool {
	for _, s := range windowTransitions[w.State] {
		if s == next {
			return true
		}
	}
	return false
}

// TransitionTo переводит окно в следующее состояние или возвращает ErrInvalidTransition
func (w *ContentionWindow) TransitionTo(next WindowState) error {
	if !w.CanTransitionTo(next) {
		return ErrInvalidTransition
	}
	w.State = next
	return nil
}

// IsTerminal returns true if no further transitions are possible
func (w *ContentionWindow) IsTerminal() bool {
	return w.State == WindowAllocated
}

// AcceptsPreferenceWrites returns true while preference lists may still be
// replaced for this window. Once closed, the snapshot is immutable.
func (w *ContentionWindow) AcceptsPreferenceWrites() bool {
	return w.State == WindowScheduled || w.State == WindowOpen
}

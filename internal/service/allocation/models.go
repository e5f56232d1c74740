package allocation

import "github.com/courtbook/booking-engine/internal/domain"

// Candidate один конкретный слот, приемлемый для участника на определенном
// ранге его списка предпочтений. Продукт разворачивания wildcard-полей
type Candidate struct {
	UserID int64
	Rank   int // 1 = первый выбор
	Slot   domain.ConcreteSlot
	Weight float64
}

// Assignment результат решателя для одного участника.
// Nil Candidate означает "без слота" (не ошибка)
type Assignment struct {
	UserID    int64
	Candidate *Candidate
}

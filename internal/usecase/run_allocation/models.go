package run_allocation

// Request модель запроса на прогон распределения окна
type Request struct {
	WindowID int64
}

// Response итог прогона распределения
type Response struct {
	WindowID   int64
	Members    int // участников в снапшоте
	Assigned   int
	Unassigned int
}

package run_allocation

import "errors"

var (
	// ErrWindowNotFound возвращается, когда окно не найдено
	ErrWindowNotFound = errors.New("run_allocation: contention window not found")

	// ErrWrongState возвращается, когда окно не готово к распределению
	ErrWrongState = errors.New("run_allocation: window is not ready for allocation")

	// ErrSnapshotMissing возвращается, когда у окна в состоянии allocating
	// нет сохраненного снапшота (потеря данных, прогон невозможен)
	ErrSnapshotMissing = errors.New("run_allocation: window snapshot is missing")

	// ErrCommitFailed возвращается, когда атомарный коммит результатов не удался;
	// окно переводится в failed и прогоняется заново от того же снапшота
	ErrCommitFailed = errors.New("run_allocation: failed to commit allocation results")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("run_allocation: internal error")
)

package window

import "errors"

var (
	// ErrWindowNotFound возвращается, когда окно аллокации не найдено
	ErrWindowNotFound = errors.New("window.repository: contention window not found")

	// ErrStateConflict возвращается, когда compare-and-set перехода состояния
	// не нашел окно в ожидаемом исходном состоянии
	ErrStateConflict = errors.New("window.repository: window is not in the expected state")

	// ErrSnapshotNotFound возвращается, когда у окна нет сохраненного снапшота
	ErrSnapshotNotFound = errors.New("window.repository: window snapshot not found")

	// ErrBuildQuery возвращается при ошибке построения SQL запроса
	ErrBuildQuery = errors.New("window.repository: failed to build query")

	// ErrExecQuery возвращается при ошибке выполнения SQL запроса
	ErrExecQuery = errors.New("window.repository: failed to execute query")

	// ErrScanRow возвращается при ошибке сканирования результата запроса
	ErrScanRow = errors.New("window.repository: failed to scan row")
)

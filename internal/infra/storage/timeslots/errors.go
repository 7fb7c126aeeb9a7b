package timeslots

import "errors"

var (
	// ErrTimeSlotNotFound возвращается, когда слот не найден
	ErrTimeSlotNotFound = errors.New("timeslots.repository: time slot not found")

	// ErrBuildQuery возвращается при ошибке построения SQL запроса
	ErrBuildQuery = errors.New("timeslots.repository: failed to build query")

	// ErrExecQuery возвращается при ошибке выполнения SQL запроса
	ErrExecQuery = errors.New("timeslots.repository: failed to execute query")

	// ErrScanRow возвращается при ошибке сканирования результата запроса
	ErrScanRow = errors.New("timeslots.repository: failed to scan row")
)

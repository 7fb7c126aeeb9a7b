package servicedays

import "errors"

var (
	// ErrServiceDayNotFound возвращается, когда день обслуживания не найден
	ErrServiceDayNotFound = errors.New("servicedays.repository: service day not found")

	// ErrDateAlreadyExists возвращается, когда день на эту дату уже создан
	ErrDateAlreadyExists = errors.New("servicedays.repository: service day for date already exists")

	// ErrBuildQuery возвращается при ошибке построения SQL запроса
	ErrBuildQuery = errors.New("servicedays.repository: failed to build query")

	// ErrExecQuery возвращается при ошибке выполнения SQL запроса
	ErrExecQuery = errors.New("servicedays.repository: failed to execute query")

	// ErrScanRow возвращается при ошибке сканирования результата запроса
	ErrScanRow = errors.New("servicedays.repository: failed to scan row")
)

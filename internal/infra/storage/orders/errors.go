package orders

import "errors"

var (
	// ErrOrderNotFound возвращается, когда заказ не найден
	ErrOrderNotFound = errors.New("orders.repository: order not found")

	// ErrDuplicateActiveOrder возвращается при нарушении уникальности (user_id, time_slot_id)
	// среди неотклоненных заказов
	ErrDuplicateActiveOrder = errors.New("orders.repository: user already has an active order in the slot")

	// ErrBuildQuery возвращается при ошибке построения SQL запроса
	ErrBuildQuery = errors.New("orders.repository: failed to build query")

	// ErrExecQuery возвращается при ошибке выполнения SQL запроса
	ErrExecQuery = errors.New("orders.repository: failed to execute query")

	// ErrScanRow возвращается при ошибке сканирования результата запроса
	ErrScanRow = errors.New("orders.repository: failed to scan row")
)

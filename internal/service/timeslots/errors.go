package timeslots

import "errors"

var (
	// ErrServiceDayNotFound возвращается, когда день обслуживания не найден
	ErrServiceDayNotFound = errors.New("service day not found")

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("service: internal error")
)

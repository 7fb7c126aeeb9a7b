package create_order

import "errors"

var (
	// ErrTimeSlotNotFound возвращается, когда слот не найден
	ErrTimeSlotNotFound = errors.New("create_order: time slot not found")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("create_order: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("create_order: internal error")
)

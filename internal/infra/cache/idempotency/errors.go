package idempotency

import "errors"

var (
	// ErrInProgress возвращается, когда запрос с тем же ключом еще выполняется
	ErrInProgress = errors.New("idempotency: request with the same key is in progress")

	// ErrStore возвращается при ошибке обращения к redis
	ErrStore = errors.New("idempotency: store error")
)

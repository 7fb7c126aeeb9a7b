package domain

import (
	"errors"
	"fmt"
)

// Domain errors. Every one maps to a stable code via ErrorCode.
var (
	ErrSlotFull                    = errors.New("time slot is full")
	ErrOrderNotModifiable          = errors.New("order is not modifiable")
	ErrUnauthorizedOrderAccess     = errors.New("order belongs to another user")
	ErrInvalidOrderStateTransition = errors.New("invalid order state transition")
	ErrConfiguration               = errors.New("service day configuration error")
	ErrDuplicateOrder              = errors.New("user already has an active order in this time slot")
	ErrServiceDayInactive          = errors.New("service day is not active")
	ErrWeekInPast                  = errors.New("week is entirely in the past")
	ErrInvalidStatus               = errors.New("invalid order status")
)

// Stable error codes for the calling layer
const (
	CodeSlotFull                    = "slot_full"
	CodeOrderNotModifiable          = "order_not_modifiable"
	CodeUnauthorizedOrderAccess     = "unauthorized_order_access"
	CodeInvalidOrderStateTransition = "invalid_order_state_transition"
	CodeConfiguration               = "configuration_error"
	CodeDuplicateOrder              = "duplicate_order"
	CodeServiceDayInactive          = "service_day_inactive"
	CodeWeekInPast                  = "week_in_past"
	CodeInvalidStatus               = "invalid_status"
	CodeUnknown                     = "unknown"
)

var errorCodes = []struct {
	err  error
	code string
}{
	{ErrSlotFull, CodeSlotFull},
	{ErrOrderNotModifiable, CodeOrderNotModifiable},
	{ErrUnauthorizedOrderAccess, CodeUnauthorizedOrderAccess},
	{ErrInvalidOrderStateTransition, CodeInvalidOrderStateTransition},
	{ErrConfiguration, CodeConfiguration},
	{ErrDuplicateOrder, CodeDuplicateOrder},
	{ErrServiceDayInactive, CodeServiceDayInactive},
	{ErrWeekInPast, CodeWeekInPast},
	{ErrInvalidStatus, CodeInvalidStatus},
}

// ErrorCode returns the stable code of a domain error or CodeUnknown
func ErrorCode(err error) string {
	for _, ec := range errorCodes {
		if errors.Is(err, ec.err) {
			return ec.code
		}
	}
	return CodeUnknown
}

// InvalidTransitionError carries the attempted (from, to) pair
type InvalidTransitionError struct {
	From OrderStatus
	To   OrderStatus
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("%s: %s -> %s", ErrInvalidOrderStateTransition, e.From, e.To)
}

// Is makes errors.Is(err, ErrInvalidOrderStateTransition) true
func (e *InvalidTransitionError) Is(target error) bool {
	return target == ErrInvalidOrderStateTransition
}

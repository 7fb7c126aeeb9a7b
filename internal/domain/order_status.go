package domain

// CanTransitionTo reports whether a status change from s to next is legal.
//
// pending is only an initial state, rejected is terminal, and any move
// between confirmed, ready and picked_up is allowed in both directions so
// staff can correct mistakes.
func (s OrderStatus) CanTransitionTo(next OrderStatus) bool {
	if !s.IsValid() || !next.IsValid() {
		return false
	}
	if s == StatusRejected {
		return false
	}
	return next != StatusPending
}

// IsValid returns true for known statuses
func (s OrderStatus) IsValid() bool {
	for _, known := range AllStatuses {
		if s == known {
			return true
		}
	}
	return false
}

// IsTerminal returns true if no transition may leave the status
func (s OrderStatus) IsTerminal() bool {
	return s == StatusRejected
}

// ValidateTransition returns *InvalidTransitionError when from -> to is not allowed
func ValidateTransition(from, to OrderStatus) error {
	if !from.CanTransitionTo(to) {
		return &InvalidTransitionError{From: from, To: to}
	}
	return nil
}

// ParseOrderStatus converts a raw string into a known OrderStatus
func ParseOrderStatus(raw string) (OrderStatus, error) {
	s := OrderStatus(raw)
	if !s.IsValid() {
		return "", ErrInvalidStatus
	}
	return s, nil
}

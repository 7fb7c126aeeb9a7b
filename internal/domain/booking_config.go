package domain

import (
	"errors"
	"fmt"

	"github.com/m04kA/SandwichBooking/pkg/types"
)

// ErrInvalidBookingConfig is returned when BookingConfig cannot be constructed
var ErrInvalidBookingConfig = errors.New("invalid booking config")

// BookingConfig holds the engine-wide settings. It is built once at startup
// and passed into every component that needs slot duration or capacity bounds.
type BookingConfig struct {
	SlotDurationMinutes int
	MinOrdersPerSlot    int
	MaxOrdersPerSlot    int
	DefaultStartTime    types.TimeString
	DefaultEndTime      types.TimeString
	DefaultMaxOrders    int
	DefaultMaxTime      int
	DefaultLocation     string
}

// NewBookingConfig validates every field; a missing or inconsistent value is an error
func NewBookingConfig(
	slotDurationMinutes int,
	minOrdersPerSlot int,
	maxOrdersPerSlot int,
	defaultStart string,
	defaultEnd string,
	defaultMaxOrders int,
	defaultMaxTime int,
	defaultLocation string,
) (*BookingConfig, error) {
	if slotDurationMinutes < MinSlotDurationMinutes || slotDurationMinutes > MaxSlotDurationMinutes {
		return nil, fmt.Errorf("%w: slot_duration_minutes must be between %d and %d, got %d",
			ErrInvalidBookingConfig, MinSlotDurationMinutes, MaxSlotDurationMinutes, slotDurationMinutes)
	}

	if minOrdersPerSlot < 1 {
		return nil, fmt.Errorf("%w: min_orders_per_slot must be positive, got %d", ErrInvalidBookingConfig, minOrdersPerSlot)
	}
	if maxOrdersPerSlot < minOrdersPerSlot {
		return nil, fmt.Errorf("%w: max_orders_per_slot (%d) is less than min_orders_per_slot (%d)",
			ErrInvalidBookingConfig, maxOrdersPerSlot, minOrdersPerSlot)
	}

	start, err := types.NewTimeStringFromString(defaultStart)
	if err != nil {
		return nil, fmt.Errorf("%w: default_start_time: %v", ErrInvalidBookingConfig, err)
	}
	end, err := types.NewTimeStringFromString(defaultEnd)
	if err != nil {
		return nil, fmt.Errorf("%w: default_end_time: %v", ErrInvalidBookingConfig, err)
	}
	if !start.IsBefore(end) {
		return nil, fmt.Errorf("%w: default window %s-%s is empty", ErrInvalidBookingConfig, start, end)
	}

	if defaultMaxOrders < minOrdersPerSlot || defaultMaxOrders > maxOrdersPerSlot {
		return nil, fmt.Errorf("%w: default_max_orders must be between %d and %d, got %d",
			ErrInvalidBookingConfig, minOrdersPerSlot, maxOrdersPerSlot, defaultMaxOrders)
	}
	if defaultMaxTime < 0 {
		return nil, fmt.Errorf("%w: default_max_time must not be negative, got %d", ErrInvalidBookingConfig, defaultMaxTime)
	}
	if len(defaultLocation) > MaxLocationLength {
		return nil, fmt.Errorf("%w: default_location is longer than %d", ErrInvalidBookingConfig, MaxLocationLength)
	}

	return &BookingConfig{
		SlotDurationMinutes: slotDurationMinutes,
		MinOrdersPerSlot:    minOrdersPerSlot,
		MaxOrdersPerSlot:    maxOrdersPerSlot,
		DefaultStartTime:    start,
		DefaultEndTime:      end,
		DefaultMaxOrders:    defaultMaxOrders,
		DefaultMaxTime:      defaultMaxTime,
		DefaultLocation:     defaultLocation,
	}, nil
}

// DefaultBookingConfig returns the built-in configuration
func DefaultBookingConfig() *BookingConfig {
	cfg, err := NewBookingConfig(
		DefaultSlotDurationMinutes,
		DefaultMinOrdersPerSlot,
		DefaultMaxOrdersPerSlot,
		DefaultStartTime,
		DefaultEndTime,
		DefaultMaxOrders,
		DefaultMaxTime,
		"",
	)
	if err != nil {
		panic(err)
	}
	return cfg
}

// CapacityInBounds returns true if maxOrders is within the configured bounds
func (c *BookingConfig) CapacityInBounds(maxOrders int) bool {
	return maxOrders >= c.MinOrdersPerSlot && maxOrders <= c.MaxOrdersPerSlot
}

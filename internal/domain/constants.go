package domain

// Default configuration values
const (
	DefaultSlotDurationMinutes = 15
	DefaultStartTime           = "08:00"
	DefaultEndTime             = "18:00"
	DefaultMaxOrders           = 10
	DefaultMaxTime             = 1440 // minutes a customer may book ahead of slot start
	DefaultMinOrdersPerSlot    = 1
	DefaultMaxOrdersPerSlot    = 100
)

// Business validation constants
const (
	MinSlotDurationMinutes = 5
	MaxSlotDurationMinutes = 240
	DaysInWeek             = 7
	MaxLocationLength      = 255
)

// Time format constants
const (
	TimeFormat = "15:04"      // HH:MM
	DateFormat = "2006-01-02" // YYYY-MM-DD
)

// IngredientCategoryBread the one category every sandwich must contain exactly once
const IngredientCategoryBread = "bread"

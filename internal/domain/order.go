package domain

import "time"

// OrderStatus represents the kitchen pipeline status of an order
type OrderStatus string

const (
	StatusPending   OrderStatus = "pending"
	StatusConfirmed OrderStatus = "confirmed"
	StatusReady     OrderStatus = "ready"
	StatusPickedUp  OrderStatus = "picked_up"
	StatusRejected  OrderStatus = "rejected"
)

// AllStatuses lists every known status
var AllStatuses = []OrderStatus{
	StatusPending,
	StatusConfirmed,
	StatusReady,
	StatusPickedUp,
	StatusRejected,
}

// Order represents a single customer booking against one TimeSlot
type Order struct {
	ID           int64
	UserID       int64
	TimeSlotID   int64
	ServiceDayID int64 // denormalized for day-scoped queries
	Status       OrderStatus
	DailyNumber  int
	Ingredients  []OrderIngredient

	CreatedAt time.Time
	UpdatedAt time.Time
}

// OrderIngredient is an immutable snapshot of a catalog ingredient
type OrderIngredient struct {
	ID           int64
	OrderID      int64
	IngredientID int64
	Name         string
	Category     string
}

// IsOwnedBy returns true if the actor owns the order
func (o *Order) IsOwnedBy(userID int64) bool {
	return o.UserID == userID
}

// IsModifiable returns true if ingredients may still be changed or the order deleted
func (o *Order) IsModifiable() bool {
	return o.Status == StatusPending
}

// OccupiesSeat returns true if the order counts against slot capacity
func (o *Order) OccupiesSeat() bool {
	return o.Status != StatusRejected
}

// CheckOwnerAccess applies the ownership and pending guards shared by update and delete
func (o *Order) CheckOwnerAccess(userID int64) error {
	if !o.IsOwnedBy(userID) {
		return ErrUnauthorizedOrderAccess
	}
	if !o.IsModifiable() {
		return ErrOrderNotModifiable
	}
	return nil
}

// SnapshotIngredients copies name and category of catalog ingredients into order lines
func SnapshotIngredients(orderID int64, ingredients []*Ingredient) []OrderIngredient {
	lines := make([]OrderIngredient, 0, len(ingredients))
	for _, ing := range ingredients {
		lines = append(lines, OrderIngredient{
			OrderID:      orderID,
			IngredientID: ing.ID,
			Name:         ing.Name,
			Category:     ing.Category,
		})
	}
	return lines
}

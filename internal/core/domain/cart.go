package domain

import "time"

// CartItem is a single product line inside a cart.
type CartItem struct {
	ProductID string    `json:"product_id" bson:"product_id"`
	Qty       int       `json:"qty" bson:"qty"`
	AddedAt   time.Time `json:"added_at" bson:"added_at"`
}

// Cart holds the products a user intends to order. One active cart per user.
type Cart struct {
	ID        string     `json:"id" bson:"_id,omitempty"`
	UserID    string     `json:"user_id" bson:"user_id"`
	Items     []CartItem `json:"items" bson:"items"`
	IsActive  bool       `json:"is_active" bson:"is_active"`
	IsDeleted bool       `json:"is_deleted" bson:"is_deleted"`
	CreatedAt time.Time  `json:"created_at" bson:"created_at"`
	UpdatedAt time.Time  `json:"updated_at" bson:"updated_at"`
}

// Item returns the line for productID, or nil when absent.
func (c *Cart) Item(productID string) *CartItem {
	for i := range c.Items {
		if c.Items[i].ProductID == productID {
			return &c.Items[i]
		}
	}
	return nil
}

package domain

import "time"

// Product is a catalog item. Removal is a soft delete so historical carts and
// orders keep resolving their product references.
type Product struct {
	ID          string    `json:"id" bson:"_id,omitempty"`
	Name        string    `json:"name" bson:"name"`
	Description string    `json:"description,omitempty" bson:"description,omitempty"`
	Price       float64   `json:"price" bson:"price"`
	Currency    string    `json:"currency" bson:"currency"`
	Category    string    `json:"category,omitempty" bson:"category,omitempty"`
	ImageURL    string    `json:"image_url,omitempty" bson:"image_url,omitempty"`
	AddedBy     string    `json:"added_by,omitempty" bson:"added_by,omitempty"`
	UpdatedBy   string    `json:"updated_by,omitempty" bson:"updated_by,omitempty"`
	IsActive    bool      `json:"is_active" bson:"is_active"`
	IsDeleted   bool      `json:"is_deleted" bson:"is_deleted"`
	CreatedAt   time.Time `json:"created_at" bson:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" bson:"updated_at"`
}

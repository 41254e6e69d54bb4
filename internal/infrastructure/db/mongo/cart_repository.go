package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/shopstack/ecommerce-api/internal/core/domain"
)

const cartsCollection = "carts"

// CartRepository implements ports.CartRepository using MongoDB. Item updates
// replace the whole items array in one document write.
type CartRepository struct {
	coll *mongo.Collection
}

func NewCartRepository(db *mongo.Database) *CartRepository {
	return &CartRepository{coll: db.Collection(cartsCollection)}
}

type mongoCartItem struct {
	ProductID string    `bson:"product_id"`
	Qty       int       `bson:"qty"`
	AddedAt   time.Time `bson:"added_at"`
}

type mongoCart struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	UserID    string             `bson:"user_id"`
	Items     []mongoCartItem    `bson:"items"`
	IsActive  bool               `bson:"is_active"`
	IsDeleted bool               `bson:"is_deleted"`
	CreatedAt time.Time          `bson:"created_at"`
	UpdatedAt time.Time          `bson:"updated_at"`
}

func toMongoItems(items []domain.CartItem) []mongoCartItem {
	out := make([]mongoCartItem, 0, len(items))
	for _, it := range items {
		out = append(out, mongoCartItem{ProductID: it.ProductID, Qty: it.Qty, AddedAt: it.AddedAt})
	}
	return out
}

func (mc *mongoCart) toDomain() *domain.Cart {
	items := make([]domain.CartItem, 0, len(mc.Items))
	for _, it := range mc.Items {
		items = append(items, domain.CartItem{ProductID: it.ProductID, Qty: it.Qty, AddedAt: it.AddedAt})
	}
	return &domain.Cart{
		ID:        mc.ID.Hex(),
		UserID:    mc.UserID,
		Items:     items,
		IsActive:  mc.IsActive,
		IsDeleted: mc.IsDeleted,
		CreatedAt: mc.CreatedAt,
		UpdatedAt: mc.UpdatedAt,
	}
}

func (r *CartRepository) Create(ctx context.Context, cart *domain.Cart) (*domain.Cart, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := mongoCart{
		UserID:    cart.UserID,
		Items:     toMongoItems(cart.Items),
		IsActive:  cart.IsActive,
		IsDeleted: cart.IsDeleted,
		CreatedAt: cart.CreatedAt,
		UpdatedAt: cart.UpdatedAt,
	}
	res, err := r.coll.InsertOne(ctx, doc)
	if err != nil {
		return nil, fmt.Errorf("insert cart: %w", err)
	}

	created := *cart
	created.ID = res.InsertedID.(primitive.ObjectID).Hex()
	return &created, nil
}

func (r *CartRepository) FindActiveByUser(ctx context.Context, userID string) (*domain.Cart, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var mc mongoCart
	err := r.coll.FindOne(ctx, activeFilter(bson.M{"user_id": userID})).Decode(&mc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrCartNotFound
		}
		return nil, fmt.Errorf("find cart: %w", err)
	}
	return mc.toDomain(), nil
}

func (r *CartRepository) ReplaceItems(ctx context.Context, cartID string, items []domain.CartItem) (*domain.Cart, error) {
	oid, err := primitive.ObjectIDFromHex(cartID)
	if err != nil {
		return nil, domain.ErrCartNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var mc mongoCart
	err = r.coll.FindOneAndUpdate(ctx,
		bson.M{"_id": oid},
		bson.M{"$set": bson.M{
			"items":      toMongoItems(items),
			"updated_at": time.Now().UTC(),
		}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&mc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrCartNotFound
		}
		return nil, fmt.Errorf("replace cart items: %w", err)
	}
	return mc.toDomain(), nil
}

func (r *CartRepository) SoftDelete(ctx context.Context, cartID string) error {
	oid, err := primitive.ObjectIDFromHex(cartID)
	if err != nil {
		return domain.ErrCartNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	_, err = r.coll.UpdateOne(ctx,
		bson.M{"_id": oid},
		bson.M{"$set": bson.M{"is_deleted": true, "updated_at": time.Now().UTC()}},
	)
	if err != nil {
		return fmt.Errorf("soft delete cart: %w", err)
	}
	return nil
}

// EnsureIndexes creates the per-user cart lookup index.
func (r *CartRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	_, err := r.coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "user_id", Value: 1}},
	})
	return err
}

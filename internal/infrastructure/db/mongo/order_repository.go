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
	"github.com/shopstack/ecommerce-api/internal/core/ports"
)

const ordersCollection = "orders"

// OrderRepository implements ports.OrderRepository using MongoDB. Status
// changes set the new status and append a history entry in one update.
type OrderRepository struct {
	coll *mongo.Collection
}

func NewOrderRepository(db *mongo.Database) *OrderRepository {
	return &OrderRepository{coll: db.Collection(ordersCollection)}
}

type mongoOrderItem struct {
	ProductID string  `bson:"product_id"`
	Name      string  `bson:"name"`
	Qty       int     `bson:"qty"`
	UnitPrice float64 `bson:"unit_price"`
	Currency  string  `bson:"currency"`
}

type mongoStatusEntry struct {
	Status    string    `bson:"status"`
	Timestamp time.Time `bson:"timestamp"`
	Notes     string    `bson:"notes,omitempty"`
}

type mongoOrder struct {
	ID            primitive.ObjectID `bson:"_id,omitempty"`
	OrderNumber   string             `bson:"order_number"`
	UserID        string             `bson:"user_id"`
	CartID        string             `bson:"cart_id"`
	Items         []mongoOrderItem   `bson:"items"`
	Total         float64            `bson:"total"`
	Currency      string             `bson:"currency"`
	Status        string             `bson:"status"`
	StatusHistory []mongoStatusEntry `bson:"status_history"`
	IsActive      bool               `bson:"is_active"`
	IsDeleted     bool               `bson:"is_deleted"`
	CreatedAt     time.Time          `bson:"created_at"`
	UpdatedAt     time.Time          `bson:"updated_at"`
}

func (mo *mongoOrder) toDomain() domain.Order {
	items := make([]domain.OrderItem, 0, len(mo.Items))
	for _, it := range mo.Items {
		items = append(items, domain.OrderItem{
			ProductID: it.ProductID,
			Name:      it.Name,
			Qty:       it.Qty,
			UnitPrice: it.UnitPrice,
			Currency:  it.Currency,
		})
	}
	history := make([]domain.StatusHistoryEntry, 0, len(mo.StatusHistory))
	for _, h := range mo.StatusHistory {
		history = append(history, domain.StatusHistoryEntry{
			Status:    domain.OrderStatus(h.Status),
			Timestamp: h.Timestamp,
			Notes:     h.Notes,
		})
	}
	return domain.Order{
		ID:            mo.ID.Hex(),
		OrderNumber:   mo.OrderNumber,
		UserID:        mo.UserID,
		CartID:        mo.CartID,
		Items:         items,
		Total:         mo.Total,
		Currency:      mo.Currency,
		Status:        domain.OrderStatus(mo.Status),
		StatusHistory: history,
		IsActive:      mo.IsActive,
		IsDeleted:     mo.IsDeleted,
		CreatedAt:     mo.CreatedAt,
		UpdatedAt:     mo.UpdatedAt,
	}
}

func (r *OrderRepository) Create(ctx context.Context, order *domain.Order) (*domain.Order, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	items := make([]mongoOrderItem, 0, len(order.Items))
	for _, it := range order.Items {
		items = append(items, mongoOrderItem{
			ProductID: it.ProductID,
			Name:      it.Name,
			Qty:       it.Qty,
			UnitPrice: it.UnitPrice,
			Currency:  it.Currency,
		})
	}
	history := make([]mongoStatusEntry, 0, len(order.StatusHistory))
	for _, h := range order.StatusHistory {
		history = append(history, mongoStatusEntry{Status: string(h.Status), Timestamp: h.Timestamp, Notes: h.Notes})
	}

	doc := mongoOrder{
		OrderNumber:   order.OrderNumber,
		UserID:        order.UserID,
		CartID:        order.CartID,
		Items:         items,
		Total:         order.Total,
		Currency:      order.Currency,
		Status:        string(order.Status),
		StatusHistory: history,
		IsActive:      order.IsActive,
		IsDeleted:     order.IsDeleted,
		CreatedAt:     order.CreatedAt,
		UpdatedAt:     order.UpdatedAt,
	}
	res, err := r.coll.InsertOne(ctx, doc)
	if err != nil {
		return nil, fmt.Errorf("insert order: %w", err)
	}

	created := *order
	created.ID = res.InsertedID.(primitive.ObjectID).Hex()
	return &created, nil
}

func (r *OrderRepository) FindByOrderNumber(ctx context.Context, orderNumber string) (*domain.Order, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var mo mongoOrder
	err := r.coll.FindOne(ctx, bson.M{"order_number": orderNumber, "is_deleted": false}).Decode(&mo)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrOrderNotFound
		}
		return nil, fmt.Errorf("find order: %w", err)
	}
	order := mo.toDomain()
	return &order, nil
}

func (r *OrderRepository) List(ctx context.Context, in ports.ListOrdersInput) ([]domain.Order, int64, error) {
	filter := bson.M{"is_deleted": false}
	if in.UserID != "" {
		filter["user_id"] = in.UserID
	}
	if in.Status != "" {
		filter["status"] = in.Status
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	total, err := r.coll.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("count orders: %w", err)
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetSkip(int64((in.Page - 1) * in.Limit)).
		SetLimit(int64(in.Limit))

	cursor, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, 0, fmt.Errorf("list orders: %w", err)
	}
	defer cursor.Close(ctx)

	var items []domain.Order
	for cursor.Next(ctx) {
		var mo mongoOrder
		if err := cursor.Decode(&mo); err != nil {
			return nil, 0, fmt.Errorf("decode order: %w", err)
		}
		items = append(items, mo.toDomain())
	}
	if err := cursor.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate orders: %w", err)
	}

	return items, total, nil
}

func (r *OrderRepository) UpdateStatus(ctx context.Context, orderNumber string, status domain.OrderStatus, ts time.Time, notes string) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	entry := mongoStatusEntry{Status: string(status), Timestamp: ts.UTC(), Notes: notes}
	_, err := r.coll.UpdateOne(ctx,
		bson.M{"order_number": orderNumber},
		bson.M{
			"$set":  bson.M{"status": string(status), "updated_at": ts.UTC()},
			"$push": bson.M{"status_history": entry},
		},
	)
	if err != nil {
		return fmt.Errorf("update order status: %w", err)
	}
	return nil
}

// EnsureIndexes creates the order number and per-user listing indexes.
func (r *OrderRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "order_number", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "created_at", Value: -1}}},
	}

	_, err := r.coll.Indexes().CreateMany(ctx, indexes)
	return err
}

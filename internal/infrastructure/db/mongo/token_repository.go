package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/shopstack/ecommerce-api/internal/core/domain"
)

const tokensCollection = "user_tokens"

// TokenRepository implements ports.TokenRepository using MongoDB. Session
// token documents are append-only; revocation flips is_token_expired.
type TokenRepository struct {
	coll *mongo.Collection
}

func NewTokenRepository(db *mongo.Database) *TokenRepository {
	return &TokenRepository{coll: db.Collection(tokensCollection)}
}

type mongoToken struct {
	ID               primitive.ObjectID `bson:"_id,omitempty"`
	UserID           string             `bson:"user_id"`
	Token            string             `bson:"token"`
	Platform         int                `bson:"platform"`
	IssuedAt         time.Time          `bson:"issued_at"`
	TokenExpiredTime time.Time          `bson:"token_expired_time"`
	IsTokenExpired   bool               `bson:"is_token_expired"`
}

func (mt *mongoToken) toDomain() *domain.SessionToken {
	return &domain.SessionToken{
		ID:               mt.ID.Hex(),
		UserID:           mt.UserID,
		Token:            mt.Token,
		Platform:         domain.Platform(mt.Platform),
		IssuedAt:         mt.IssuedAt,
		TokenExpiredTime: mt.TokenExpiredTime,
		IsTokenExpired:   mt.IsTokenExpired,
	}
}

func (r *TokenRepository) Create(ctx context.Context, token *domain.SessionToken) (*domain.SessionToken, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := mongoToken{
		UserID:           token.UserID,
		Token:            token.Token,
		Platform:         int(token.Platform),
		IssuedAt:         token.IssuedAt,
		TokenExpiredTime: token.TokenExpiredTime,
		IsTokenExpired:   token.IsTokenExpired,
	}
	res, err := r.coll.InsertOne(ctx, doc)
	if err != nil {
		return nil, fmt.Errorf("insert token: %w", err)
	}

	created := *token
	created.ID = res.InsertedID.(primitive.ObjectID).Hex()
	return &created, nil
}

func (r *TokenRepository) FindByToken(ctx context.Context, token string) (*domain.SessionToken, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var mt mongoToken
	if err := r.coll.FindOne(ctx, bson.M{"token": token}).Decode(&mt); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrTokenExpired
		}
		return nil, fmt.Errorf("find token: %w", err)
	}
	return mt.toDomain(), nil
}

func (r *TokenRepository) MarkExpired(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return domain.ErrTokenExpired
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	_, err = r.coll.UpdateOne(ctx,
		bson.M{"_id": oid},
		bson.M{"$set": bson.M{"is_token_expired": true}},
	)
	if err != nil {
		return fmt.Errorf("mark token expired: %w", err)
	}
	return nil
}

// EnsureIndexes creates lookup indexes on the token string and owner.
func (r *TokenRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "token", Value: 1}}},
		{Keys: bson.D{{Key: "user_id", Value: 1}}},
	}

	_, err := r.coll.Indexes().CreateMany(ctx, indexes)
	return err
}

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

const usersCollection = "users"

// UserRepository implements ports.UserRepository using MongoDB. All throttle
// mutations are expressed as server-side conditional updates so concurrent
// login attempts never lose an update.
type UserRepository struct {
	coll *mongo.Collection
}

func NewUserRepository(db *mongo.Database) *UserRepository {
	return &UserRepository{coll: db.Collection(usersCollection)}
}

type mongoResetLink struct {
	Code       string    `bson:"code,omitempty"`
	ExpireTime time.Time `bson:"expire_time,omitempty"`
}

type mongoUser struct {
	ID                primitive.ObjectID `bson:"_id,omitempty"`
	Email             string             `bson:"email,omitempty"`
	Phone             string             `bson:"phone,omitempty"`
	Name              string             `bson:"name,omitempty"`
	Password          string             `bson:"password"`
	UserType          int                `bson:"user_type"`
	IsActive          bool               `bson:"is_active"`
	IsDeleted         bool               `bson:"is_deleted"`
	LoginRetryLimit   int                `bson:"login_retry_limit"`
	LoginReactiveTime *time.Time         `bson:"login_reactive_time,omitempty"`
	ResetPasswordLink *mongoResetLink    `bson:"reset_password_link,omitempty"`
	CreatedAt         time.Time          `bson:"created_at"`
	UpdatedAt         time.Time          `bson:"updated_at"`
}

func toMongoUser(u *domain.User) mongoUser {
	mu := mongoUser{
		Email:             u.Email,
		Phone:             u.Phone,
		Name:              u.Name,
		Password:          u.PasswordHash,
		UserType:          int(u.UserType),
		IsActive:          u.IsActive,
		IsDeleted:         u.IsDeleted,
		LoginRetryLimit:   u.LoginRetryLimit,
		LoginReactiveTime: u.LoginReactiveTime,
		CreatedAt:         u.CreatedAt,
		UpdatedAt:         u.UpdatedAt,
	}
	if !u.ResetPasswordLink.IsZero() {
		mu.ResetPasswordLink = &mongoResetLink{
			Code:       u.ResetPasswordLink.Code,
			ExpireTime: u.ResetPasswordLink.ExpireTime,
		}
	}
	return mu
}

func (mu *mongoUser) toDomain() *domain.User {
	u := &domain.User{
		ID:                mu.ID.Hex(),
		Email:             mu.Email,
		Phone:             mu.Phone,
		Name:              mu.Name,
		PasswordHash:      mu.Password,
		UserType:          domain.UserType(mu.UserType),
		IsActive:          mu.IsActive,
		IsDeleted:         mu.IsDeleted,
		LoginRetryLimit:   mu.LoginRetryLimit,
		LoginReactiveTime: mu.LoginReactiveTime,
		CreatedAt:         mu.CreatedAt,
		UpdatedAt:         mu.UpdatedAt,
	}
	if mu.ResetPasswordLink != nil {
		u.ResetPasswordLink = domain.ResetPasswordLink{
			Code:       mu.ResetPasswordLink.Code,
			ExpireTime: mu.ResetPasswordLink.ExpireTime,
		}
	}
	return u
}

// activeFilter constrains a query to accounts eligible to authenticate.
func activeFilter(extra bson.M) bson.M {
	filter := bson.M{"is_active": true, "is_deleted": false}
	for k, v := range extra {
		filter[k] = v
	}
	return filter
}

func (r *UserRepository) Create(ctx context.Context, user *domain.User) (*domain.User, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := toMongoUser(user)
	res, err := r.coll.InsertOne(ctx, doc)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, domain.ErrUserExists
		}
		return nil, fmt.Errorf("insert user: %w", err)
	}

	created := *user
	created.ID = res.InsertedID.(primitive.ObjectID).Hex()
	return &created, nil
}

func (r *UserRepository) findOne(ctx context.Context, filter bson.M) (*domain.User, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var mu mongoUser
	if err := r.coll.FindOne(ctx, filter).Decode(&mu); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("find user: %w", err)
	}
	return mu.toDomain(), nil
}

func (r *UserRepository) FindActiveByID(ctx context.Context, id string) (*domain.User, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrUserNotFound
	}
	return r.findOne(ctx, activeFilter(bson.M{"_id": oid}))
}

func (r *UserRepository) FindActiveByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.findOne(ctx, activeFilter(bson.M{"email": email}))
}

func (r *UserRepository) FindActiveByPhone(ctx context.Context, phone string) (*domain.User, error) {
	return r.findOne(ctx, activeFilter(bson.M{"phone": phone}))
}

func (r *UserRepository) FindActiveByResetCode(ctx context.Context, code string) (*domain.User, error) {
	return r.findOne(ctx, activeFilter(bson.M{"reset_password_link.code": code}))
}

func (r *UserRepository) IncrementLoginRetry(ctx context.Context, id string) (int, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return 0, domain.ErrUserNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var mu mongoUser
	err = r.coll.FindOneAndUpdate(ctx,
		activeFilter(bson.M{"_id": oid}),
		bson.M{"$inc": bson.M{"login_retry_limit": 1}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&mu)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return 0, domain.ErrUserNotFound
		}
		return 0, fmt.Errorf("increment login retry: %w", err)
	}
	return mu.LoginRetryLimit, nil
}

func (r *UserRepository) ArmLoginLockout(ctx context.Context, id string, reactiveTime time.Time) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return domain.ErrUserNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	_, err = r.coll.UpdateOne(ctx,
		activeFilter(bson.M{"_id": oid}),
		bson.M{
			"$set": bson.M{"login_reactive_time": reactiveTime.UTC()},
			"$inc": bson.M{"login_retry_limit": 1},
		},
	)
	if err != nil {
		return fmt.Errorf("arm login lockout: %w", err)
	}
	return nil
}

func (r *UserRepository) ClearLoginLockout(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return domain.ErrUserNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	_, err = r.coll.UpdateOne(ctx,
		bson.M{"_id": oid},
		bson.M{
			"$set":   bson.M{"login_retry_limit": 0},
			"$unset": bson.M{"login_reactive_time": ""},
		},
	)
	if err != nil {
		return fmt.Errorf("clear login lockout: %w", err)
	}
	return nil
}

func (r *UserRepository) SetResetPasswordLink(ctx context.Context, id string, link domain.ResetPasswordLink) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return domain.ErrUserNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	_, err = r.coll.UpdateOne(ctx,
		activeFilter(bson.M{"_id": oid}),
		bson.M{"$set": bson.M{"reset_password_link": mongoResetLink{
			Code:       link.Code,
			ExpireTime: link.ExpireTime.UTC(),
		}}},
	)
	if err != nil {
		return fmt.Errorf("set reset link: %w", err)
	}
	return nil
}

func (r *UserRepository) ClearResetPasswordLink(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return domain.ErrUserNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	_, err = r.coll.UpdateOne(ctx,
		bson.M{"_id": oid},
		bson.M{"$unset": bson.M{"reset_password_link": ""}},
	)
	if err != nil {
		return fmt.Errorf("clear reset link: %w", err)
	}
	return nil
}

func (r *UserRepository) ResetPassword(ctx context.Context, id string, passwordHash string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return domain.ErrUserNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	_, err = r.coll.UpdateOne(ctx,
		activeFilter(bson.M{"_id": oid}),
		bson.M{
			"$set": bson.M{
				"password":          passwordHash,
				"login_retry_limit": 0,
				"updated_at":        time.Now().UTC(),
			},
			"$unset": bson.M{
				"reset_password_link": "",
				"login_reactive_time": "",
			},
		},
	)
	if err != nil {
		return fmt.Errorf("reset password: %w", err)
	}
	return nil
}

func (r *UserRepository) UpdateProfile(ctx context.Context, id string, patch ports.ProfilePatch) (*domain.User, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrUserNotFound
	}

	set := bson.M{"updated_at": time.Now().UTC()}
	if patch.Name != nil {
		set["name"] = *patch.Name
	}
	if patch.Email != nil {
		set["email"] = *patch.Email
	}
	if patch.Phone != nil {
		set["phone"] = *patch.Phone
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var mu mongoUser
	err = r.coll.FindOneAndUpdate(ctx,
		activeFilter(bson.M{"_id": oid}),
		bson.M{"$set": set},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&mu)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("update profile: %w", err)
	}
	return mu.toDomain(), nil
}

func (r *UserRepository) SoftDelete(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return domain.ErrUserNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	_, err = r.coll.UpdateOne(ctx,
		bson.M{"_id": oid},
		bson.M{"$set": bson.M{"is_deleted": true, "updated_at": time.Now().UTC()}},
	)
	if err != nil {
		return fmt.Errorf("soft delete user: %w", err)
	}
	return nil
}

// EnsureIndexes creates unique partial indexes on email and phone plus a
// lookup index on the reset code.
func (r *UserRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{
			Keys: bson.D{{Key: "email", Value: 1}},
			Options: options.Index().SetUnique(true).
				SetPartialFilterExpression(bson.M{"email": bson.M{"$type": "string"}}),
		},
		{
			Keys: bson.D{{Key: "phone", Value: 1}},
			Options: options.Index().SetUnique(true).
				SetPartialFilterExpression(bson.M{"phone": bson.M{"$type": "string"}}),
		},
		{Keys: bson.D{{Key: "reset_password_link.code", Value: 1}}},
	}

	_, err := r.coll.Indexes().CreateMany(ctx, indexes)
	return err
}

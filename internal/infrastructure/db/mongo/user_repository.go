package mongo

import (
	"context"
	"fmt"
	"regexp"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/pingcraft/identity-system/internal/core/domain"
	"github.com/pingcraft/identity-system/internal/core/ports"
)

const (
	userCollection    = "users"
	counterCollection = "counters"
	userCounterID     = "users"

	maxPageSize = 100
)

// UserRepository is the MongoDB-backed user store. Numeric ids come from an
// atomic counter document; account uniqueness is enforced by a partial
// unique index over live (non-deleted) records, which serializes concurrent
// registrations of the same account.
type UserRepository struct {
	coll     *mongo.Collection
	counters *mongo.Collection
}

func NewUserRepository(db *mongo.Database) *UserRepository {
	return &UserRepository{
		coll:     db.Collection(userCollection),
		counters: db.Collection(counterCollection),
	}
}

// EnsureIndexes creates the partial unique index on account. Connect runs it
// before the database is handed out.
func (r *UserRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "account", Value: 1}},
		Options: options.Index().
			SetUnique(true).
			SetPartialFilterExpression(bson.M{"is_delete": 0}),
	})
	if err != nil {
		return fmt.Errorf("create account index: %w", err)
	}
	return nil
}

type mongoUser struct {
	ID        int64  `bson:"_id"`
	Account   string `bson:"account"`
	Password  string `bson:"password"`
	Name      string `bson:"name"`
	Profile   string `bson:"profile,omitempty"`
	Role      string `bson:"role"`
	CreatedAt int64  `bson:"created_at"`
	UpdatedAt int64  `bson:"updated_at"`
	IsDelete  int    `bson:"is_delete"`
}

type counterDoc struct {
	ID  string `bson:"_id"`
	Seq int64  `bson:"seq"`
}

// nextID atomically increments and returns the user id sequence.
func (r *UserRepository) nextID(ctx context.Context) (int64, error) {
	var doc counterDoc
	err := r.counters.FindOneAndUpdate(ctx,
		bson.M{"_id": userCounterID},
		bson.M{"$inc": bson.M{"seq": 1}},
		options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After),
	).Decode(&doc)
	if err != nil {
		return 0, fmt.Errorf("next user id: %w", err)
	}
	return doc.Seq, nil
}

func (r *UserRepository) Insert(ctx context.Context, user *domain.User) (int64, error) {
	id, err := r.nextID(ctx)
	if err != nil {
		return 0, err
	}

	doc := mongoUser{
		ID:        id,
		Account:   user.Account,
		Password:  user.Password,
		Name:      user.Name,
		Profile:   user.Profile,
		Role:      user.Role,
		CreatedAt: user.CreatedAt.Unix(),
		UpdatedAt: user.UpdatedAt.Unix(),
	}
	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return 0, fmt.Errorf("%w: account already exists", domain.ErrInvalidArgument)
		}
		return 0, fmt.Errorf("insert user: %w", err)
	}
	return id, nil
}

func (r *UserRepository) FindByID(ctx context.Context, id int64) (*domain.User, error) {
	return r.findOne(ctx, bson.M{"_id": id, "is_delete": 0})
}

func (r *UserRepository) FindByAccount(ctx context.Context, account string) (*domain.User, error) {
	return r.findOne(ctx, bson.M{"account": account, "is_delete": 0})
}

func (r *UserRepository) FindByAccountAndPassword(ctx context.Context, account, digest string) (*domain.User, error) {
	return r.findOne(ctx, bson.M{"account": account, "password": digest, "is_delete": 0})
}

func (r *UserRepository) findOne(ctx context.Context, filter bson.M) (*domain.User, error) {
	var mu mongoUser
	if err := r.coll.FindOne(ctx, filter).Decode(&mu); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("find user: %w", err)
	}
	return mu.toDomain(), nil
}

// Update rewrites the mutable fields. Empty fields are left untouched so an
// administrator can change the role without resupplying the profile.
func (r *UserRepository) Update(ctx context.Context, user *domain.User) (bool, error) {
	set := bson.M{"updated_at": user.UpdatedAt.Unix()}
	if user.Name != "" {
		set["name"] = user.Name
	}
	if user.Profile != "" {
		set["profile"] = user.Profile
	}
	if user.Role != "" {
		set["role"] = user.Role
	}

	res, err := r.coll.UpdateOne(ctx,
		bson.M{"_id": user.ID, "is_delete": 0},
		bson.M{"$set": set},
	)
	if err != nil {
		return false, fmt.Errorf("update user: %w", err)
	}
	return res.MatchedCount > 0, nil
}

func (r *UserRepository) SoftDelete(ctx context.Context, id int64) (bool, error) {
	res, err := r.coll.UpdateOne(ctx,
		bson.M{"_id": id, "is_delete": 0},
		bson.M{"$set": bson.M{"is_delete": 1, "updated_at": time.Now().UTC().Unix()}},
	)
	if err != nil {
		return false, fmt.Errorf("soft delete user: %w", err)
	}
	return res.MatchedCount > 0, nil
}

// listFilter translates a query into a bson filter. Text filters are literal
// substring matches, so regex metacharacters in the admin's input are escaped
// rather than interpreted.
func listFilter(q ports.UserQuery) bson.M {
	filter := bson.M{"is_delete": 0}
	if q.ID > 0 {
		filter["_id"] = q.ID
	}
	if q.Role != "" {
		filter["role"] = q.Role
	}
	if q.Account != "" {
		filter["account"] = bson.M{"$regex": regexp.QuoteMeta(q.Account)}
	}
	if q.Name != "" {
		filter["name"] = bson.M{"$regex": regexp.QuoteMeta(q.Name)}
	}
	if q.Profile != "" {
		filter["profile"] = bson.M{"$regex": regexp.QuoteMeta(q.Profile)}
	}
	return filter
}

func (r *UserRepository) List(ctx context.Context, q ports.UserQuery) ([]*domain.User, int64, error) {
	filter := listFilter(q)

	total, err := r.coll.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("count users: %w", err)
	}

	pageSize := q.PageSize
	if pageSize > maxPageSize {
		pageSize = maxPageSize
	}
	opts := options.Find().
		SetSkip((q.Page - 1) * pageSize).
		SetLimit(pageSize)
	if q.SortField != "" {
		order := 1
		if q.SortOrder == "descend" {
			order = -1
		}
		opts.SetSort(bson.D{{Key: q.SortField, Value: order}})
	}

	cur, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, 0, fmt.Errorf("list users: %w", err)
	}
	defer cur.Close(ctx)

	var users []*domain.User
	for cur.Next(ctx) {
		var mu mongoUser
		if err := cur.Decode(&mu); err != nil {
			return nil, 0, fmt.Errorf("decode user: %w", err)
		}
		users = append(users, mu.toDomain())
	}
	if err := cur.Err(); err != nil {
		return nil, 0, fmt.Errorf("list users: %w", err)
	}
	return users, total, nil
}

func (mu *mongoUser) toDomain() *domain.User {
	return &domain.User{
		ID:        mu.ID,
		Account:   mu.Account,
		Password:  mu.Password,
		Name:      mu.Name,
		Profile:   mu.Profile,
		Role:      mu.Role,
		CreatedAt: unixToTime(mu.CreatedAt),
		UpdatedAt: unixToTime(mu.UpdatedAt),
		IsDelete:  mu.IsDelete != 0,
	}
}

func unixToTime(ts int64) time.Time {
	if ts == 0 {
		return time.Time{}
	}
	return time.Unix(ts, 0).UTC()
}

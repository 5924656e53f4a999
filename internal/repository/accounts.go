// Package repository persists patient and doctor accounts in MongoDB.
package repository

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/harentsoaR/medconnect-api/internal/models"
)

var (
	ErrNotFound       = errors.New("account not found")
	ErrDuplicateEmail = errors.New("an account with this email already exists")
)

// Filter narrows Find. Zero fields match everything.
type Filter struct {
	City string
}

// Accounts stores one account variant in its own collection. Email
// uniqueness is not enforced here: callers check before Create.
type Accounts[T any] struct {
	coll    *mongo.Collection
	timeout time.Duration
}

func NewAccounts[T any](db *mongo.Database, variant models.Variant, timeout time.Duration) *Accounts[T] {
	return &Accounts[T]{coll: db.Collection(variant.Collection()), timeout: timeout}
}

func NewPatients(db *mongo.Database, timeout time.Duration) *Accounts[models.Patient] {
	return NewAccounts[models.Patient](db, models.VariantPatient, timeout)
}

func NewDoctors(db *mongo.Database, timeout time.Duration) *Accounts[models.Doctor] {
	return NewAccounts[models.Doctor](db, models.VariantDoctor, timeout)
}

func (r *Accounts[T]) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if r.timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, r.timeout)
}

// FindByEmail returns ErrNotFound when no account has the email.
func (r *Accounts[T]) FindByEmail(ctx context.Context, email string) (*T, error) {
	return r.findOne(ctx, bson.M{"email": email})
}

// FindByID returns ErrNotFound when no account has the id.
func (r *Accounts[T]) FindByID(ctx context.Context, id primitive.ObjectID) (*T, error) {
	return r.findOne(ctx, bson.M{"_id": id})
}

func (r *Accounts[T]) findOne(ctx context.Context, filter bson.M) (*T, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	var out T
	err := r.coll.FindOne(ctx, filter).Decode(&out)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, errors.Wrapf(err, "find one in %s", r.coll.Name())
	}
	return &out, nil
}

// Create inserts doc. The caller assigns the id.
func (r *Accounts[T]) Create(ctx context.Context, doc *T) error {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrDuplicateEmail
		}
		return errors.Wrapf(err, "insert into %s", r.coll.Name())
	}
	return nil
}

// AppendMessage pushes msg onto the named array of account id.
func (r *Accounts[T]) AppendMessage(ctx context.Context, id primitive.ObjectID, field string, msg models.Message) error {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	res, err := r.coll.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$push": bson.M{field: msg}})
	if err != nil {
		return errors.Wrapf(err, "push %s in %s", field, r.coll.Name())
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// Find returns every account matching filter, ordered by insertion. The
// result is never nil. There is no paging: callers get the whole set.
func (r *Accounts[T]) Find(ctx context.Context, filter Filter) ([]T, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	query := bson.M{}
	if filter.City != "" {
		query["city"] = filter.City
	}

	cursor, err := r.coll.Find(ctx, query, options.Find().SetSort(bson.D{{Key: "_id", Value: 1}}))
	if err != nil {
		return nil, errors.Wrapf(err, "find in %s", r.coll.Name())
	}
	defer cursor.Close(ctx)

	out := make([]T, 0)
	if err := cursor.All(ctx, &out); err != nil {
		return nil, errors.Wrapf(err, "decode %s", r.coll.Name())
	}
	return out, nil
}

// Package services holds the registration, login, messaging and directory
// flows. Handlers call into it; it calls the store, the hasher and the token
// issuer through the small interfaces below.
package services

import (
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/harentsoaR/medconnect-api/internal/models"
	"github.com/harentsoaR/medconnect-api/internal/repository"
)

// AccountStore is the persistence contract for one account variant.
// Lookups return repository.ErrNotFound when nothing matches.
type AccountStore[T any] interface {
	FindByEmail(ctx context.Context, email string) (*T, error)
	FindByID(ctx context.Context, id primitive.ObjectID) (*T, error)
	Create(ctx context.Context, doc *T) error
	AppendMessage(ctx context.Context, id primitive.ObjectID, field string, msg models.Message) error
}

// DoctorStore adds directory queries to the doctor store.
type DoctorStore interface {
	AccountStore[models.Doctor]
	Find(ctx context.Context, filter repository.Filter) ([]models.Doctor, error)
}

type PasswordHasher interface {
	HashPassword(password string) (string, error)
	CheckPasswordHash(password, hash string) bool
}

type TokenSigner interface {
	GenerateJWT(id, name, role string) (string, error)
}

// MessageNotifier is told about every delivered message. Implementations
// must not block the caller.
type MessageNotifier interface {
	MessageDelivered(ctx context.Context, recipient models.Variant, msg models.Message)
}

type noopNotifier struct{}

func (noopNotifier) MessageDelivered(context.Context, models.Variant, models.Message) {}

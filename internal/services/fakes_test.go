package services

import (
	"context"
	"sync"

	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/harentsoaR/medconnect-api/internal/models"
	"github.com/harentsoaR/medconnect-api/internal/repository"
)

// fakeStore is an in-memory AccountStore. The *Err fields force failures;
// beforeCreate runs between the duplicate check and the insert.
type fakeStore[T any] struct {
	mu   sync.Mutex
	docs []*T
	base func(*T) *models.Account

	findErr      error
	createErr    error
	appendErr    map[primitive.ObjectID]error
	beforeCreate func()
	finds        int
}

func newFakePatients() *fakeStore[models.Patient] {
	return &fakeStore[models.Patient]{base: func(p *models.Patient) *models.Account { return &p.Account }}
}

func newFakeDoctors() *fakeDoctors {
	return &fakeDoctors{fakeStore: fakeStore[models.Doctor]{base: func(d *models.Doctor) *models.Account { return &d.Account }}}
}

func (f *fakeStore[T]) FindByEmail(_ context.Context, email string) (*T, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.finds++
	if f.findErr != nil {
		return nil, f.findErr
	}
	for _, d := range f.docs {
		if f.base(d).Email == email {
			return d, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (f *fakeStore[T]) FindByID(_ context.Context, id primitive.ObjectID) (*T, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.finds++
	if f.findErr != nil {
		return nil, f.findErr
	}
	for _, d := range f.docs {
		if f.base(d).ID == id {
			return d, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (f *fakeStore[T]) Create(_ context.Context, doc *T) error {
	if f.beforeCreate != nil {
		hook := f.beforeCreate
		f.beforeCreate = nil
		hook()
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createErr != nil {
		return f.createErr
	}
	f.docs = append(f.docs, doc)
	return nil
}

func (f *fakeStore[T]) AppendMessage(_ context.Context, id primitive.ObjectID, field string, msg models.Message) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.appendErr[id]; err != nil {
		return err
	}
	for _, d := range f.docs {
		if f.base(d).ID != id {
			continue
		}
		switch rec := any(d).(type) {
		case *models.Patient:
			switch field {
			case models.FieldYourMessages:
				rec.YourMessages = append(rec.YourMessages, msg)
			case models.FieldDoctorMessages:
				rec.DoctorMessages = append(rec.DoctorMessages, msg)
			default:
				return errors.Errorf("unknown patient field %s", field)
			}
		case *models.Doctor:
			if field != models.FieldPatientMessages {
				return errors.Errorf("unknown doctor field %s", field)
			}
			rec.PatientMessages = append(rec.PatientMessages, msg)
		}
		return nil
	}
	return repository.ErrNotFound
}

func (f *fakeStore[T]) count(email string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, d := range f.docs {
		if f.base(d).Email == email {
			n++
		}
	}
	return n
}

func (f *fakeStore[T]) seed(doc *T) *T {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.base(doc).ID.IsZero() {
		f.base(doc).ID = primitive.NewObjectID()
	}
	f.docs = append(f.docs, doc)
	return doc
}

type fakeDoctors struct {
	fakeStore[models.Doctor]
	listErr error
}

func (f *fakeDoctors) Find(_ context.Context, filter repository.Filter) ([]models.Doctor, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.listErr != nil {
		return nil, f.listErr
	}
	out := make([]models.Doctor, 0)
	for _, d := range f.docs {
		if filter.City == "" || d.City == filter.City {
			out = append(out, *d)
		}
	}
	return out, nil
}

type failingHasher struct{}

func (failingHasher) HashPassword(string) (string, error) {
	return "", errors.New("entropy exhausted")
}

func (failingHasher) CheckPasswordHash(string, string) bool {
	return false
}

type failingSigner struct{}

func (failingSigner) GenerateJWT(string, string, string) (string, error) {
	return "", errors.New("key unavailable")
}

type recordingNotifier struct {
	mu    sync.Mutex
	calls []models.Variant
}

func (n *recordingNotifier) MessageDelivered(_ context.Context, recipient models.Variant, _ models.Message) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.calls = append(n.calls, recipient)
}

package firestoredb

import (
	"context"
	"errors"
	"fmt"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

const (
	colCompanies   = "companies"
	colProjects    = "projects"
	colWorkers     = "workers"
	colMachinery   = "machinery"
	colReports     = "daily_reports"
	colAccessCodes = "worker_access_codes"
)

// maxInValues is the Firestore limit for the values of an "in" filter.
const maxInValues = 30

// store routes reads and writes through a transaction when one is running.
// Firestore transactions require every read to happen before the first write.
type store struct {
	client *firestore.Client
	tx     *firestore.Transaction
}

func (s store) col(name string) *firestore.CollectionRef { return s.client.Collection(name) }

func (s store) get(ctx context.Context, ref *firestore.DocumentRef) (*firestore.DocumentSnapshot, error) {
	if s.tx != nil {
		return s.tx.Get(ref)
	}
	return ref.Get(ctx)
}

func (s store) documents(ctx context.Context, q firestore.Query) *firestore.DocumentIterator {
	if s.tx != nil {
		return s.tx.Documents(q)
	}
	return q.Documents(ctx)
}

func (s store) create(ctx context.Context, ref *firestore.DocumentRef, data any) error {
	if s.tx != nil {
		return s.tx.Create(ref, data)
	}
	_, err := ref.Create(ctx, data)
	return err
}

func (s store) set(ctx context.Context, ref *firestore.DocumentRef, data any) error {
	if s.tx != nil {
		return s.tx.Set(ref, data)
	}
	_, err := ref.Set(ctx, data)
	return err
}

func (s store) update(ctx context.Context, ref *firestore.DocumentRef, updates []firestore.Update) error {
	if s.tx != nil {
		return s.tx.Update(ref, updates)
	}
	_, err := ref.Update(ctx, updates)
	return err
}

func (s store) delete(ctx context.Context, ref *firestore.DocumentRef) error {
	if s.tx != nil {
		return s.tx.Delete(ref)
	}
	_, err := ref.Delete(ctx)
	return err
}

// atomic runs fn in the current transaction, or in a new one.
func (s store) atomic(ctx context.Context, fn func(ctx context.Context, s store) error) error {
	if s.tx != nil {
		return fn(ctx, s)
	}
	return s.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		return fn(ctx, store{client: s.client, tx: tx})
	})
}

// each decodes every document of the query into a new T and hands it to fn.
func each[T any](ctx context.Context, s store, q firestore.Query, fn func(*T)) error {
	iter := s.documents(ctx, q)
	defer iter.Stop()
	for {
		doc, err := iter.Next()
		if errors.Is(err, iterator.Done) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("failed to iterate documents: %w", err)
		}
		var v T
		if err := doc.DataTo(&v); err != nil {
			return fmt.Errorf("failed to parse %s: %w", doc.Ref.ID, err)
		}
		fn(&v)
	}
}

// chunks splits ids into groups that fit an "in" filter.
func chunks(ids []string) [][]string {
	var out [][]string
	for len(ids) > maxInValues {
		out = append(out, ids[:maxInValues])
		ids = ids[maxInValues:]
	}
	if len(ids) > 0 {
		out = append(out, ids)
	}
	return out
}

func isNotFound(err error) bool      { return status.Code(err) == codes.NotFound }
func isAlreadyExists(err error) bool { return status.Code(err) == codes.AlreadyExists }

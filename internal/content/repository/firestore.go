package repository

import (
	"context"
	"errors"
	"sort"

	"cloud.google.com/go/firestore"
	"github.com/devstudy/devstudy-backend/internal/apperr"
	"github.com/devstudy/devstudy-backend/internal/content/domain"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// FirestoreStore keeps content under artifacts/{appID}/users/{uid}/{collection}.
type FirestoreStore struct {
	client *firestore.Client
	appID  string
}

func NewFirestoreStore(client *firestore.Client, appID string) *FirestoreStore {
	return &FirestoreStore{client: client, appID: appID}
}

func (s *FirestoreStore) users() *firestore.CollectionRef {
	return s.client.Collection("artifacts").Doc(s.appID).Collection("users")
}

func (s *FirestoreStore) col(ownerID string, col domain.Collection) *firestore.CollectionRef {
	return s.users().Doc(ownerID).Collection(string(col))
}

func (s *FirestoreStore) List(ctx context.Context, ownerID string, col domain.Collection, f domain.Filter) ([]domain.Item, error) {
	queries := []firestore.Query{s.col(ownerID, col).Query}
	if !f.IsZero() {
		queries = queries[:0]
		for _, name := range filterFields(col, f.Field) {
			queries = append(queries, s.col(ownerID, col).Where(name, "==", f.Value))
		}
	}

	seen := make(map[string]struct{})
	var out []domain.Item
	for _, q := range queries {
		docs, err := q.Documents(ctx).GetAll()
		if err != nil {
			return nil, apperr.Store("list "+string(col), err)
		}
		for _, d := range docs {
			if _, dup := seen[d.Ref.ID]; dup {
				continue
			}
			seen[d.Ref.ID] = struct{}{}
			out = append(out, fromSnapshot(ownerID, col, d))
		}
	}
	if out == nil {
		out = []domain.Item{}
	}
	// ordering is done client side: an orderBy on createdAt combined with an
	// equality filter would need a composite index per collection
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func (s *FirestoreStore) Get(ctx context.Context, ownerID string, col domain.Collection, id string) (domain.Item, bool, error) {
	snap, err := s.col(ownerID, col).Doc(id).Get(ctx)
	if status.Code(err) == codes.NotFound {
		return domain.Item{}, false, nil
	}
	if err != nil {
		return domain.Item{}, false, apperr.Store("get "+string(col), err)
	}
	return fromSnapshot(ownerID, col, snap), true, nil
}

func (s *FirestoreStore) Create(ctx context.Context, ownerID string, col domain.Collection, fields map[string]interface{}) (domain.Item, error) {
	data := domain.StripReserved(fields)
	data[domain.FieldOwnerID] = ownerID
	data[domain.FieldCreatedAt] = firestore.ServerTimestamp

	ref, _, err := s.col(ownerID, col).Add(ctx, data)
	if err != nil {
		return domain.Item{}, apperr.Store("create "+string(col), err)
	}

	// read back to pick up the server-assigned timestamp
	snap, err := ref.Get(ctx)
	if err != nil {
		return domain.Item{}, apperr.Store("read back "+string(col), err)
	}
	return fromSnapshot(ownerID, col, snap), nil
}

func (s *FirestoreStore) Delete(ctx context.Context, ownerID string, col domain.Collection, id string) error {
	if _, err := s.col(ownerID, col).Doc(id).Delete(ctx); err != nil {
		return apperr.Store("delete "+string(col), err)
	}
	return nil
}

func (s *FirestoreStore) Owners(ctx context.Context) ([]string, error) {
	it := s.users().DocumentRefs(ctx)
	var out []string
	for {
		ref, err := it.Next()
		if errors.Is(err, iterator.Done) {
			break
		}
		if err != nil {
			return nil, apperr.Store("list owners", err)
		}
		out = append(out, ref.ID)
	}
	return out, nil
}

func fromSnapshot(ownerID string, col domain.Collection, snap *firestore.DocumentSnapshot) domain.Item {
	return fromData(ownerID, col, snap.Ref.ID, snap.CreateTime, snap.Data())
}

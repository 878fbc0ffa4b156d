package users

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	pkgerrors "github.com/angelmondragon/bazaar-backend/pkg/errors"
)

// Service resolves owner and customer projections.
type Service interface {
	Profiles(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]Profile, error)
}

type service struct {
	repo UserRepository
}

func NewService(repo UserRepository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("user repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) Profiles(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]Profile, error) {
	seen := make(map[uuid.UUID]struct{}, len(ids))
	unique := make([]uuid.UUID, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok || id == uuid.Nil {
			continue
		}
		seen[id] = struct{}{}
		unique = append(unique, id)
	}

	out := make(map[uuid.UUID]Profile, len(unique))
	if len(unique) == 0 {
		return out, nil
	}
	rows, err := s.repo.FindByIDs(ctx, unique)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load users")
	}
	for _, u := range rows {
		out[u.ID] = ProfileFromModel(u)
	}
	return out, nil
}

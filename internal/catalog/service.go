package catalog

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/angelmondragon/bazaar-backend/pkg/db/models"
	pkgerrors "github.com/angelmondragon/bazaar-backend/pkg/errors"
)

// Service is the read-only catalog collaborator consumed by the cart and order engines.
type Service interface {
	// Products returns the live products keyed by id. Unknown ids are absent from the map.
	Products(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]models.Product, error)
	// Summaries returns display projections keyed by id.
	Summaries(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]ProductSummary, error)
}

type service struct {
	repo ProductRepository
}

func NewService(repo ProductRepository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("product repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) Products(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]models.Product, error) {
	unique := dedupe(ids)
	out := make(map[uuid.UUID]models.Product, len(unique))
	if len(unique) == 0 {
		return out, nil
	}
	rows, err := s.repo.FindByIDs(ctx, unique)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load products")
	}
	for _, p := range rows {
		out[p.ID] = p
	}
	return out, nil
}

func (s *service) Summaries(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]ProductSummary, error) {
	products, err := s.Products(ctx, ids)
	if err != nil {
		return nil, err
	}
	out := make(map[uuid.UUID]ProductSummary, len(products))
	for id, p := range products {
		out[id] = SummaryFromModel(p)
	}
	return out, nil
}

func dedupe(ids []uuid.UUID) []uuid.UUID {
	seen := make(map[uuid.UUID]struct{}, len(ids))
	out := make([]uuid.UUID, 0, len(ids))
	for _, id := range ids {
		if id == uuid.Nil {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

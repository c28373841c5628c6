package catalog

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"tourbook/pkg/cache"
)

const (
	cacheKeyList   = "tourbook:catalog:list"
	cacheKeyByCode = "tourbook:catalog:code:%s"
)

// Service reads the package catalog. The booking engine never writes to it;
// the catalog is maintained outside this system (cmd/seed for demo data).
type Service interface {
	GetByCode(ctx context.Context, code string) (*Package, error)
	GetByID(ctx context.Context, id uuid.UUID) (*Package, error)
	List(ctx context.Context) ([]Package, error)
}

type service struct {
	repo     Repository
	cache    cache.Service
	cacheTTL time.Duration
}

func NewService(repo Repository, cacheService cache.Service, cacheTTL time.Duration) Service {
	return &service{repo: repo, cache: cacheService, cacheTTL: cacheTTL}
}

func (s *service) GetByCode(ctx context.Context, code string) (*Package, error) {
	key := fmt.Sprintf(cacheKeyByCode, code)

	if s.cache != nil {
		var cached Package
		if err := s.cache.Get(ctx, key, &cached); err == nil {
			return &cached, nil
		}
	}

	pkg, err := s.repo.GetByCode(ctx, code)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		_ = s.cache.Set(ctx, key, pkg, s.cacheTTL)
	}
	return pkg, nil
}

func (s *service) GetByID(ctx context.Context, id uuid.UUID) (*Package, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *service) List(ctx context.Context) ([]Package, error) {
	if s.cache != nil {
		var cached []Package
		if err := s.cache.Get(ctx, cacheKeyList, &cached); err == nil {
			return cached, nil
		}
	}

	pkgs, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		_ = s.cache.Set(ctx, cacheKeyList, pkgs, s.cacheTTL)
	}
	return pkgs, nil
}

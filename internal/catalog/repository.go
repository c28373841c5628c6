package catalog

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Repository interface {
	GetByCode(ctx context.Context, code string) (*Package, error)
	GetByID(ctx context.Context, id uuid.UUID) (*Package, error)
	List(ctx context.Context) ([]Package, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) GetByCode(ctx context.Context, code string) (*Package, error) {
	var pkg Package
	err := r.db.WithContext(ctx).Where("code = ?", code).First(&pkg).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPackageNotFound
		}
		return nil, err
	}
	return &pkg, nil
}

func (r *repository) GetByID(ctx context.Context, id uuid.UUID) (*Package, error) {
	var pkg Package
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&pkg).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPackageNotFound
		}
		return nil, err
	}
	return &pkg, nil
}

func (r *repository) List(ctx context.Context) ([]Package, error) {
	var pkgs []Package
	err := r.db.WithContext(ctx).Order("code ASC").Find(&pkgs).Error
	return pkgs, err
}

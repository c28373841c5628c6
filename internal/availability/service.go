package availability

import (
	"context"
	"time"

	"tourbook/internal/catalog"
)

// Service answers lock-free availability questions for browsing and partner
// pre-checks. It never takes row locks: the answer is a snapshot that may be
// stale by the time a checkout runs.
type Service interface {
	Check(ctx context.Context, packageCode string, date time.Time, seats int) (*Snapshot, error)
}

type service struct {
	repo            Repository
	catalog         catalog.Service
	defaultCapacity int
}

func NewService(repo Repository, catalogService catalog.Service, defaultCapacity int) Service {
	return &service{repo: repo, catalog: catalogService, defaultCapacity: defaultCapacity}
}

func (s *service) Check(ctx context.Context, packageCode string, date time.Time, seats int) (*Snapshot, error) {
	pkg, err := s.catalog.GetByCode(ctx, packageCode)
	if err != nil {
		return nil, err
	}

	snapshot := &Snapshot{
		PackageID:     pkg.ID,
		PackageCode:   pkg.Code,
		TravelDate:    dateOnly(date).Format("2006-01-02"),
		TotalCapacity: s.defaultCapacity,
		ReservedCount: 0,
	}

	entry, err := s.repo.Get(ctx, pkg.ID, date)
	switch {
	case err == nil:
		snapshot.TotalCapacity = entry.TotalCapacity
		snapshot.ReservedCount = entry.ReservedCount
	case IsNotFound(err):
		// No ledger row yet: nothing sold, defaults apply.
	default:
		return nil, err
	}

	snapshot.Remaining = snapshot.TotalCapacity - snapshot.ReservedCount
	snapshot.Available = seats <= snapshot.Remaining
	return snapshot, nil
}

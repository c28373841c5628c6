package cart

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"tourbook/internal/availability"
	"tourbook/internal/catalog"
	"tourbook/internal/invoices"
	"tourbook/internal/reservations"
)

type fakeRepo struct {
	items map[uuid.UUID]*Item
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{items: make(map[uuid.UUID]*Item)}
}

func (f *fakeRepo) Upsert(_ context.Context, item *Item) error {
	for _, existing := range f.items {
		if existing.UserID == item.UserID && existing.PackageID == item.PackageID &&
			existing.TravelDate.Equal(item.TravelDate) {
			existing.Adults = item.Adults
			existing.Children = item.Children
			existing.UnitPriceAdult = item.UnitPriceAdult
			existing.UnitPriceChild = item.UnitPriceChild
			*item = *existing
			return nil
		}
	}
	if item.ID == uuid.Nil {
		item.ID = uuid.New()
	}
	copied := *item
	f.items[item.ID] = &copied
	return nil
}

func (f *fakeRepo) GetByID(_ context.Context, userID, itemID uuid.UUID) (*Item, error) {
	item, ok := f.items[itemID]
	if !ok || item.UserID != userID {
		return nil, ErrItemNotFound
	}
	copied := *item
	return &copied, nil
}

func (f *fakeRepo) ListByUser(_ context.Context, userID uuid.UUID) ([]Item, error) {
	var list []Item
	for _, item := range f.items {
		if item.UserID == userID {
			list = append(list, *item)
		}
	}
	return list, nil
}

func (f *fakeRepo) Delete(_ context.Context, userID, itemID uuid.UUID) error {
	item, ok := f.items[itemID]
	if !ok || item.UserID != userID {
		return ErrItemNotFound
	}
	delete(f.items, itemID)
	return nil
}

func (f *fakeRepo) ClearUser(_ context.Context, userID uuid.UUID) error {
	for id, item := range f.items {
		if item.UserID == userID {
			delete(f.items, id)
		}
	}
	return nil
}

func (f *fakeRepo) count(userID uuid.UUID) int {
	n := 0
	for _, item := range f.items {
		if item.UserID == userID {
			n++
		}
	}
	return n
}

type fakeCatalog struct {
	packages []*catalog.Package
}

func (f *fakeCatalog) GetByCode(_ context.Context, code string) (*catalog.Package, error) {
	for _, pkg := range f.packages {
		if pkg.Code == code {
			return pkg, nil
		}
	}
	return nil, catalog.ErrPackageNotFound
}

func (f *fakeCatalog) GetByID(_ context.Context, id uuid.UUID) (*catalog.Package, error) {
	for _, pkg := range f.packages {
		if pkg.ID == id {
			return pkg, nil
		}
	}
	return nil, catalog.ErrPackageNotFound
}

func (f *fakeCatalog) List(_ context.Context) ([]catalog.Package, error) {
	var list []catalog.Package
	for _, pkg := range f.packages {
		list = append(list, *pkg)
	}
	return list, nil
}

type fakeAvailability struct {
	remaining int
}

func (f *fakeAvailability) Check(_ context.Context, packageCode string, date time.Time, seats int) (*availability.Snapshot, error) {
	return &availability.Snapshot{
		PackageCode:   packageCode,
		TravelDate:    date.Format("2006-01-02"),
		TotalCapacity: 30,
		ReservedCount: 30 - f.remaining,
		Remaining:     f.remaining,
		Available:     seats <= f.remaining,
	}, nil
}

type fakeCoordinator struct {
	reservations.Service

	bookErr       error
	items         []reservations.BookingItem
	paymentMethod string
}

func (f *fakeCoordinator) BookMany(_ context.Context, userID *uuid.UUID, items []reservations.BookingItem, origin reservations.Origin, _ reservations.Contact, paymentMethod string) (*reservations.BookingResult, error) {
	f.items = items
	f.paymentMethod = paymentMethod
	if f.bookErr != nil {
		return nil, f.bookErr
	}
	if origin != reservations.OriginCart {
		return nil, errors.New("unexpected origin")
	}
	result := &reservations.BookingResult{Invoice: &invoices.Invoice{Code: "FAC-20250114-CART", Currency: "USD"}}
	for _, item := range items {
		result.Reservations = append(result.Reservations, &reservations.Reservation{
			ID:         uuid.New(),
			UserID:     userID,
			TravelDate: item.TravelDate,
			Adults:     item.Adults,
			Children:   item.Children,
			Origin:     origin,
			Status:     reservations.StatusActive,
		})
	}
	return result, nil
}

type fakeTxManager struct{}

func (fakeTxManager) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type cartEnv struct {
	svc         Service
	repo        *fakeRepo
	coordinator *fakeCoordinator
	cruise      *catalog.Package
	cityTour    *catalog.Package
}

func newCartEnv(remaining int, bookErr error) *cartEnv {
	cruise := &catalog.Package{
		ID: uuid.New(), Code: "GAL-CRUISE-4D", Title: "Galapagos Island Cruise",
		PriceAdult: 1890.00, PriceChild: 945.00, Currency: "USD",
	}
	cityTour := &catalog.Package{
		ID: uuid.New(), Code: "QUITO-CITY-1D", Title: "Quito Colonial City Tour",
		PriceAdult: 65.00, PriceChild: 32.50, Currency: "USD",
	}
	repo := newFakeRepo()
	coordinator := &fakeCoordinator{bookErr: bookErr}
	svc := NewService(repo, &fakeCatalog{packages: []*catalog.Package{cruise, cityTour}},
		&fakeAvailability{remaining: remaining}, coordinator, fakeTxManager{}, 0.15)
	return &cartEnv{svc: svc, repo: repo, coordinator: coordinator, cruise: cruise, cityTour: cityTour}
}

func TestAdd(t *testing.T) {
	userID := uuid.New()
	travelDate := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)

	t.Run("freezes unit prices at add time", func(t *testing.T) {
		env := newCartEnv(10, nil)

		item, err := env.svc.Add(context.Background(), userID, AddInput{
			PackageCode: "GAL-CRUISE-4D", TravelDate: travelDate, Adults: 2, Children: 1,
		})
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if item.UnitPriceAdult != 1890.00 || item.UnitPriceChild != 945.00 {
			t.Fatalf("prices not frozen: %+v", item)
		}

		// A price change on the package does not move the stored line.
		env.cruise.PriceAdult = 2100.00
		stored, _ := env.repo.GetByID(context.Background(), userID, item.ID)
		if stored.UnitPriceAdult != 1890.00 {
			t.Fatalf("stored line picked up the new price: %v", stored.UnitPriceAdult)
		}
	})

	t.Run("same package and date replaces the line", func(t *testing.T) {
		env := newCartEnv(10, nil)

		first, err := env.svc.Add(context.Background(), userID, AddInput{
			PackageCode: "QUITO-CITY-1D", TravelDate: travelDate, Adults: 1,
		})
		if err != nil {
			t.Fatalf("first add failed: %v", err)
		}
		second, err := env.svc.Add(context.Background(), userID, AddInput{
			PackageCode: "QUITO-CITY-1D", TravelDate: travelDate, Adults: 2, Children: 2,
		})
		if err != nil {
			t.Fatalf("second add failed: %v", err)
		}
		if second.ID != first.ID {
			t.Fatalf("expected upsert onto the same line")
		}
		if env.repo.count(userID) != 1 {
			t.Fatalf("expected 1 line, got %d", env.repo.count(userID))
		}
		if second.Adults != 2 || second.Children != 2 {
			t.Fatalf("party not replaced: %+v", second)
		}
	})

	t.Run("rejects a full departure", func(t *testing.T) {
		env := newCartEnv(1, nil)
		_, err := env.svc.Add(context.Background(), userID, AddInput{
			PackageCode: "GAL-CRUISE-4D", TravelDate: travelDate, Adults: 2,
		})
		if _, ok := reservations.AsCapacityError(err); !ok {
			t.Fatalf("expected CapacityError, got %v", err)
		}
		if env.repo.count(userID) != 0 {
			t.Fatalf("line stored despite rejection")
		}
	})
}

func TestGetQuote(t *testing.T) {
	userID := uuid.New()
	travelDate := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)

	t.Run("totals use frozen prices", func(t *testing.T) {
		env := newCartEnv(10, nil)
		mustAdd(t, env.svc, userID, AddInput{PackageCode: "GAL-CRUISE-4D", TravelDate: travelDate, Adults: 2, Children: 1})
		mustAdd(t, env.svc, userID, AddInput{PackageCode: "QUITO-CITY-1D", TravelDate: travelDate, Adults: 2})

		// Catalog price moves after the lines were added.
		env.cruise.PriceAdult = 2100.00

		quote, err := env.svc.GetQuote(context.Background(), userID)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		// 2*1890 + 945 = 4725, plus 2*65 = 130.
		if quote.Subtotal != 4855.00 {
			t.Fatalf("expected subtotal 4855.00, got %v", quote.Subtotal)
		}
		if quote.Tax != 728.25 {
			t.Fatalf("expected tax 728.25, got %v", quote.Tax)
		}
		if quote.Total != 5583.25 {
			t.Fatalf("expected total 5583.25, got %v", quote.Total)
		}
		if quote.Currency != "USD" {
			t.Fatalf("expected USD, got %s", quote.Currency)
		}
	})

	t.Run("empty cart", func(t *testing.T) {
		env := newCartEnv(10, nil)
		if _, err := env.svc.GetQuote(context.Background(), userID); !errors.Is(err, ErrEmptyCart) {
			t.Fatalf("expected ErrEmptyCart, got %v", err)
		}
	})
}

func TestCheckout(t *testing.T) {
	userID := uuid.New()
	travelDate := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)
	contact := reservations.Contact{Name: "Diego Mora", Email: "diego@tourbook.test"}

	t.Run("books every line and clears the cart", func(t *testing.T) {
		env := newCartEnv(10, nil)
		mustAdd(t, env.svc, userID, AddInput{PackageCode: "GAL-CRUISE-4D", TravelDate: travelDate, Adults: 2})
		mustAdd(t, env.svc, userID, AddInput{PackageCode: "QUITO-CITY-1D", TravelDate: travelDate, Adults: 1})

		result, err := env.svc.Checkout(context.Background(), userID, contact, "TARJETA")
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if len(result.Reservations) != 2 {
			t.Fatalf("expected 2 reservations, got %d", len(result.Reservations))
		}
		if len(env.coordinator.items) != 2 {
			t.Fatalf("coordinator received %d items", len(env.coordinator.items))
		}
		if env.coordinator.paymentMethod != "TARJETA" {
			t.Fatalf("payment method not passed through: %q", env.coordinator.paymentMethod)
		}
		if env.repo.count(userID) != 0 {
			t.Fatalf("cart not cleared after checkout")
		}
	})

	t.Run("failed booking keeps the cart", func(t *testing.T) {
		bookErr := &reservations.CapacityError{PackageCode: "GAL-CRUISE-4D", Requested: 2, Remaining: 0}
		env := newCartEnv(10, bookErr)
		mustAdd(t, env.svc, userID, AddInput{PackageCode: "GAL-CRUISE-4D", TravelDate: travelDate, Adults: 2})

		_, err := env.svc.Checkout(context.Background(), userID, contact, "")
		if _, ok := reservations.AsCapacityError(err); !ok {
			t.Fatalf("expected CapacityError, got %v", err)
		}
		if env.repo.count(userID) != 1 {
			t.Fatalf("cart cleared despite failed checkout")
		}
	})

	t.Run("empty cart", func(t *testing.T) {
		env := newCartEnv(10, nil)
		if _, err := env.svc.Checkout(context.Background(), userID, contact, ""); !errors.Is(err, ErrEmptyCart) {
			t.Fatalf("expected ErrEmptyCart, got %v", err)
		}
	})
}

func mustAdd(t *testing.T, svc Service, userID uuid.UUID, input AddInput) {
	t.Helper()
	if _, err := svc.Add(context.Background(), userID, input); err != nil {
		t.Fatalf("add failed: %v", err)
	}
}

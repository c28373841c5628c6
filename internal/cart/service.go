package cart

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"

	"tourbook/internal/availability"
	"tourbook/internal/catalog"
	"tourbook/internal/reservations"
	"tourbook/internal/shared/database"
)

// AddInput is a request to put a package on the cart.
type AddInput struct {
	PackageCode string
	TravelDate  time.Time
	Adults      int
	Children    int
}

// Quote is the advisory price breakdown of the current cart, computed from
// the frozen line prices. The binding numbers are on the invoice.
type Quote struct {
	Lines    []QuoteLine `json:"lines"`
	Subtotal float64     `json:"subtotal"`
	Tax      float64     `json:"tax"`
	Total    float64     `json:"total"`
	Currency string      `json:"currency"`
}

type QuoteLine struct {
	ItemID      uuid.UUID `json:"item_id"`
	PackageCode string    `json:"package_code"`
	PackageName string    `json:"package_name"`
	TravelDate  string    `json:"travel_date"`
	Adults      int       `json:"adults"`
	Children    int       `json:"children"`
	LineTotal   float64   `json:"line_total"`
	Available   bool      `json:"available"`
	Remaining   int       `json:"remaining"`
}

type Service interface {
	Add(ctx context.Context, userID uuid.UUID, input AddInput) (*Item, error)
	UpdateParty(ctx context.Context, userID, itemID uuid.UUID, adults, children int) (*Item, error)
	Remove(ctx context.Context, userID, itemID uuid.UUID) error
	Clear(ctx context.Context, userID uuid.UUID) error

	// GetQuote prices the cart with frozen prices and annotates each line
	// with a live availability snapshot.
	GetQuote(ctx context.Context, userID uuid.UUID) (*Quote, error)

	// Checkout books every line atomically and clears the cart in the same
	// transaction. A failed checkout leaves the cart untouched.
	Checkout(ctx context.Context, userID uuid.UUID, contact reservations.Contact, paymentMethod string) (*reservations.BookingResult, error)
}

type service struct {
	repo         Repository
	catalog      catalog.Service
	availability availability.Service
	coordinator  reservations.Service
	tx           database.TxManager
	taxRate      float64
}

func NewService(
	repo Repository,
	catalogService catalog.Service,
	availabilityService availability.Service,
	coordinator reservations.Service,
	tx database.TxManager,
	taxRate float64,
) Service {
	return &service{
		repo:         repo,
		catalog:      catalogService,
		availability: availabilityService,
		coordinator:  coordinator,
		tx:           tx,
		taxRate:      taxRate,
	}
}

func (s *service) Add(ctx context.Context, userID uuid.UUID, input AddInput) (*Item, error) {
	if input.Adults < 1 {
		return nil, fmt.Errorf("%w: at least one adult is required", reservations.ErrInvalidRequest)
	}
	if input.Children < 0 {
		return nil, fmt.Errorf("%w: children cannot be negative", reservations.ErrInvalidRequest)
	}

	pkg, err := s.catalog.GetByCode(ctx, input.PackageCode)
	if err != nil {
		return nil, err
	}

	// Advisory only: the ledger decides again at checkout.
	seats := input.Adults + input.Children
	snapshot, err := s.availability.Check(ctx, input.PackageCode, input.TravelDate, seats)
	if err != nil {
		return nil, err
	}
	if !snapshot.Available {
		return nil, &reservations.CapacityError{
			PackageCode: input.PackageCode,
			TravelDate:  input.TravelDate,
			Requested:   seats,
			Remaining:   snapshot.Remaining,
		}
	}

	item := &Item{
		UserID:         userID,
		PackageID:      pkg.ID,
		TravelDate:     dateOnly(input.TravelDate),
		Adults:         input.Adults,
		Children:       input.Children,
		UnitPriceAdult: pkg.PriceAdult,
		UnitPriceChild: pkg.PriceChild,
	}
	if err := s.repo.Upsert(ctx, item); err != nil {
		return nil, err
	}
	return item, nil
}

func (s *service) UpdateParty(ctx context.Context, userID, itemID uuid.UUID, adults, children int) (*Item, error) {
	if adults < 1 {
		return nil, fmt.Errorf("%w: at least one adult is required", reservations.ErrInvalidRequest)
	}
	if children < 0 {
		return nil, fmt.Errorf("%w: children cannot be negative", reservations.ErrInvalidRequest)
	}

	item, err := s.repo.GetByID(ctx, userID, itemID)
	if err != nil {
		return nil, err
	}
	item.Adults = adults
	item.Children = children
	if err := s.repo.Upsert(ctx, item); err != nil {
		return nil, err
	}
	return item, nil
}

func (s *service) Remove(ctx context.Context, userID, itemID uuid.UUID) error {
	return s.repo.Delete(ctx, userID, itemID)
}

func (s *service) Clear(ctx context.Context, userID uuid.UUID) error {
	return s.repo.ClearUser(ctx, userID)
}

func (s *service) GetQuote(ctx context.Context, userID uuid.UUID) (*Quote, error) {
	items, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, ErrEmptyCart
	}

	quote := &Quote{}
	for i := range items {
		item := &items[i]
		pkg, err := s.catalog.GetByID(ctx, item.PackageID)
		if err != nil {
			return nil, err
		}
		if quote.Currency == "" {
			quote.Currency = pkg.Currency
		}

		snapshot, err := s.availability.Check(ctx, pkg.Code, item.TravelDate, item.Seats())
		if err != nil {
			return nil, err
		}

		lineTotal := round2(float64(item.Adults)*item.UnitPriceAdult + float64(item.Children)*item.UnitPriceChild)
		quote.Lines = append(quote.Lines, QuoteLine{
			ItemID:      item.ID,
			PackageCode: pkg.Code,
			PackageName: pkg.Title,
			TravelDate:  item.TravelDate.Format("2006-01-02"),
			Adults:      item.Adults,
			Children:    item.Children,
			LineTotal:   lineTotal,
			Available:   snapshot.Available,
			Remaining:   snapshot.Remaining,
		})
		quote.Subtotal += lineTotal
	}

	quote.Subtotal = round2(quote.Subtotal)
	quote.Tax = round2(quote.Subtotal * s.taxRate)
	quote.Total = round2(quote.Subtotal + quote.Tax)
	return quote, nil
}

func (s *service) Checkout(ctx context.Context, userID uuid.UUID, contact reservations.Contact, paymentMethod string) (*reservations.BookingResult, error) {
	items, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, ErrEmptyCart
	}

	bookingItems := make([]reservations.BookingItem, 0, len(items))
	for i := range items {
		pkg, err := s.catalog.GetByID(ctx, items[i].PackageID)
		if err != nil {
			return nil, err
		}
		bookingItems = append(bookingItems, reservations.BookingItem{
			PackageCode: pkg.Code,
			TravelDate:  items[i].TravelDate,
			Adults:      items[i].Adults,
			Children:    items[i].Children,
		})
	}

	var result *reservations.BookingResult
	err = s.tx.WithTx(ctx, func(ctx context.Context) error {
		var bookErr error
		result, bookErr = s.coordinator.BookMany(ctx, &userID, bookingItems, reservations.OriginCart, contact, paymentMethod)
		if bookErr != nil {
			return bookErr
		}
		return s.repo.ClearUser(ctx, userID)
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

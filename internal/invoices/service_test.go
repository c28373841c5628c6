package invoices

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
)

type fakeRepo struct {
	invoices map[string]*Invoice
	links    map[uuid.UUID][]string
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		invoices: make(map[string]*Invoice),
		links:    make(map[uuid.UUID][]string),
	}
}

func (f *fakeRepo) Create(_ context.Context, invoice *Invoice, reservationIDs []uuid.UUID) error {
	if invoice.ID == uuid.Nil {
		invoice.ID = uuid.New()
	}
	copied := *invoice
	f.invoices[invoice.Code] = &copied
	for _, id := range reservationIDs {
		f.links[id] = append(f.links[id], invoice.Code)
	}
	return nil
}

func (f *fakeRepo) GetByCode(_ context.Context, code string) (*Invoice, error) {
	invoice, ok := f.invoices[code]
	if !ok {
		return nil, ErrInvoiceNotFound
	}
	copied := *invoice
	return &copied, nil
}

func (f *fakeRepo) FindByReservation(_ context.Context, reservationID uuid.UUID) ([]Invoice, error) {
	var found []Invoice
	for _, code := range f.links[reservationID] {
		found = append(found, *f.invoices[code])
	}
	return found, nil
}

func (f *fakeRepo) Void(_ context.Context, invoice *Invoice) error {
	stored := f.invoices[invoice.Code]
	if stored.Status == StatusIssued {
		now := time.Now().UTC()
		stored.Status = StatusVoid
		stored.VoidedAt = &now
	}
	invoice.Status = stored.Status
	return nil
}

func fixedClock() func() time.Time {
	at := time.Date(2025, 1, 14, 12, 0, 0, 0, time.UTC)
	return func() time.Time { return at }
}

func TestIssue(t *testing.T) {
	t.Run("rejects empty item list", func(t *testing.T) {
		svc := NewServiceWithClock(newFakeRepo(), 0.15, fixedClock())
		if _, err := svc.Issue(context.Background(), "USD", "", nil); err == nil {
			t.Fatalf("expected error for empty items")
		}
	})

	t.Run("splits adult and child lines per reservation", func(t *testing.T) {
		svc := NewServiceWithClock(newFakeRepo(), 0.15, fixedClock())
		resA, resB := uuid.New(), uuid.New()

		invoice, err := svc.Issue(context.Background(), "USD", "", []Item{
			{ReservationID: resA, ReservationCode: "RES-20250114-AAAA", PackageTitle: "Galapagos Island Cruise",
				Adults: 2, Children: 1, PriceAdult: 1890.00, PriceChild: 945.00},
			{ReservationID: resB, ReservationCode: "RES-20250114-BBBB", PackageTitle: "Quito Colonial City Tour",
				Adults: 1, PriceAdult: 65.00, PriceChild: 32.50},
		})
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		// Adult+child for the first reservation, adult only for the second.
		if len(invoice.Lines) != 3 {
			t.Fatalf("expected 3 lines, got %d", len(invoice.Lines))
		}
		for i, line := range invoice.Lines {
			if line.LineNo != i+1 {
				t.Fatalf("line %d: expected LineNo %d, got %d", i, i+1, line.LineNo)
			}
		}
		if invoice.Lines[0].Quantity != 2 || invoice.Lines[0].LineTotal != 3780.00 {
			t.Fatalf("unexpected adult line: %+v", invoice.Lines[0])
		}
		if invoice.Lines[1].Quantity != 1 || invoice.Lines[1].LineTotal != 945.00 {
			t.Fatalf("unexpected child line: %+v", invoice.Lines[1])
		}
		if !strings.Contains(invoice.Lines[2].Description, "RES-20250114-BBBB") {
			t.Fatalf("line description missing reservation code: %q", invoice.Lines[2].Description)
		}
	})

	t.Run("totals round at two decimals", func(t *testing.T) {
		svc := NewServiceWithClock(newFakeRepo(), 0.15, fixedClock())

		// 3 * 33.33 = 99.99; tax 14.9985 rounds to 15.00.
		invoice, err := svc.Issue(context.Background(), "USD", "", []Item{
			{ReservationID: uuid.New(), ReservationCode: "RES-20250114-CCCC", PackageTitle: "Banos Adventure Weekend",
				Adults: 3, PriceAdult: 33.33},
		})
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if invoice.Subtotal != 99.99 {
			t.Fatalf("expected subtotal 99.99, got %v", invoice.Subtotal)
		}
		if invoice.TaxAmount != 15.00 {
			t.Fatalf("expected tax 15.00, got %v", invoice.TaxAmount)
		}
		if invoice.Total != 114.99 {
			t.Fatalf("expected total 114.99, got %v", invoice.Total)
		}
	})

	t.Run("subtotal equals the sum of line totals", func(t *testing.T) {
		svc := NewServiceWithClock(newFakeRepo(), 0.15, fixedClock())

		invoice, err := svc.Issue(context.Background(), "USD", "", []Item{
			{ReservationID: uuid.New(), ReservationCode: "RES-20250114-DDDD", PackageTitle: "Cuenca Heritage Escape",
				Adults: 2, Children: 3, PriceAdult: 340.00, PriceChild: 170.00},
			{ReservationID: uuid.New(), ReservationCode: "RES-20250114-EEEE", PackageTitle: "Amazon Rainforest Lodge",
				Adults: 1, PriceAdult: 1250.00, PriceChild: 625.00},
		})
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		var sum float64
		for _, line := range invoice.Lines {
			sum += line.LineTotal
		}
		if invoice.Subtotal != round2(sum) {
			t.Fatalf("subtotal %v does not match line sum %v", invoice.Subtotal, sum)
		}
	})

	t.Run("records the payment method, defaulting to WEB", func(t *testing.T) {
		svc := NewServiceWithClock(newFakeRepo(), 0.15, fixedClock())

		cash, err := svc.Issue(context.Background(), "USD", "EFECTIVO", []Item{
			{ReservationID: uuid.New(), ReservationCode: "RES-20250114-HHHH", PackageTitle: "Quito Colonial City Tour",
				Adults: 1, PriceAdult: 65.00},
		})
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if cash.PaymentMethod != "EFECTIVO" {
			t.Fatalf("expected EFECTIVO, got %q", cash.PaymentMethod)
		}

		web, err := svc.Issue(context.Background(), "USD", "", []Item{
			{ReservationID: uuid.New(), ReservationCode: "RES-20250114-JJJJ", PackageTitle: "Quito Colonial City Tour",
				Adults: 1, PriceAdult: 65.00},
		})
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if web.PaymentMethod != DefaultPaymentMethod {
			t.Fatalf("expected %q, got %q", DefaultPaymentMethod, web.PaymentMethod)
		}
	})

	t.Run("stamps the issue date into the code", func(t *testing.T) {
		svc := NewServiceWithClock(newFakeRepo(), 0.15, fixedClock())
		invoice, err := svc.Issue(context.Background(), "USD", "", []Item{
			{ReservationID: uuid.New(), ReservationCode: "RES-20250114-FFFF", PackageTitle: "Quito Colonial City Tour",
				Adults: 1, PriceAdult: 65.00},
		})
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if !strings.HasPrefix(invoice.Code, "FAC-20250114-") {
			t.Fatalf("unexpected invoice code %q", invoice.Code)
		}
		if invoice.Status != StatusIssued {
			t.Fatalf("expected ISSUED, got %s", invoice.Status)
		}
	})
}

func TestVoidByReservation(t *testing.T) {
	t.Run("voids only issued invoices", func(t *testing.T) {
		repo := newFakeRepo()
		svc := NewServiceWithClock(repo, 0.15, fixedClock())
		reservationID := uuid.New()

		invoice, err := svc.Issue(context.Background(), "USD", "", []Item{
			{ReservationID: reservationID, ReservationCode: "RES-20250114-GGGG", PackageTitle: "Quito Colonial City Tour",
				Adults: 1, PriceAdult: 65.00},
		})
		if err != nil {
			t.Fatalf("issue failed: %v", err)
		}

		if err := svc.VoidByReservation(context.Background(), reservationID); err != nil {
			t.Fatalf("void failed: %v", err)
		}
		got, err := svc.GetByCode(context.Background(), invoice.Code)
		if err != nil {
			t.Fatalf("lookup failed: %v", err)
		}
		if got.Status != StatusVoid || got.VoidedAt == nil {
			t.Fatalf("invoice not voided: %+v", got)
		}

		// Voiding again must not touch the already-void invoice.
		voidedAt := *got.VoidedAt
		if err := svc.VoidByReservation(context.Background(), reservationID); err != nil {
			t.Fatalf("second void failed: %v", err)
		}
		again, _ := svc.GetByCode(context.Background(), invoice.Code)
		if !again.VoidedAt.Equal(voidedAt) {
			t.Fatalf("void timestamp changed on repeat void")
		}
	})

	t.Run("unlinked reservation is a no-op", func(t *testing.T) {
		svc := NewServiceWithClock(newFakeRepo(), 0.15, fixedClock())
		if err := svc.VoidByReservation(context.Background(), uuid.New()); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
	})
}

func TestGetByCode_NotFound(t *testing.T) {
	svc := NewServiceWithClock(newFakeRepo(), 0.15, fixedClock())
	_, err := svc.GetByCode(context.Background(), "FAC-20250101-XXXX")
	if !errors.Is(err, ErrInvoiceNotFound) {
		t.Fatalf("expected ErrInvoiceNotFound, got %v", err)
	}
}

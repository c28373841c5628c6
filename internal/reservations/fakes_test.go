package reservations

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"tourbook/internal/availability"
	"tourbook/internal/catalog"
	"tourbook/internal/invoices"
	"tourbook/internal/notifications"
)

// fakeTxManager serializes transactions with a mutex, standing in for the
// row locks postgres would take, and rolls fakes back on error.
type fakeTxManager struct {
	mu           sync.Mutex
	ledger       *fakeLedger
	reservations *fakeReservationRepo
	invoiceRepo  *fakeInvoiceRepo
}

type fakeTxKey struct{}

func (f *fakeTxManager) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if ctx.Value(fakeTxKey{}) != nil {
		return fn(ctx)
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	ledgerSnap := f.ledger.snapshot()
	resSnap := f.reservations.snapshot()
	invSnap := f.invoiceRepo.snapshot()

	err := fn(context.WithValue(ctx, fakeTxKey{}, true))
	if err != nil {
		f.ledger.restore(ledgerSnap)
		f.reservations.restore(resSnap)
		f.invoiceRepo.restore(invSnap)
	}
	return err
}

type fakeLedger struct {
	mu      sync.Mutex
	entries map[string]*availability.LedgerEntry
}

func newFakeLedger() *fakeLedger {
	return &fakeLedger{entries: make(map[string]*availability.LedgerEntry)}
}

func ledgerKey(packageID uuid.UUID, date time.Time) string {
	return fmt.Sprintf("%s|%s", packageID, date.Format("2006-01-02"))
}

func (f *fakeLedger) seed(packageID uuid.UUID, date time.Time, total, reserved int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.entries[ledgerKey(packageID, date)] = &availability.LedgerEntry{
		ID:            uuid.New(),
		PackageID:     packageID,
		TravelDate:    date,
		TotalCapacity: total,
		ReservedCount: reserved,
	}
}

func (f *fakeLedger) Ensure(_ context.Context, packageID uuid.UUID, date time.Time, capacity int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	key := ledgerKey(packageID, date)
	if _, ok := f.entries[key]; !ok {
		f.entries[key] = &availability.LedgerEntry{
			ID:            uuid.New(),
			PackageID:     packageID,
			TravelDate:    date,
			TotalCapacity: capacity,
		}
	}
	return nil
}

func (f *fakeLedger) LockAndGet(_ context.Context, packageID uuid.UUID, date time.Time) (*availability.LedgerEntry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	entry, ok := f.entries[ledgerKey(packageID, date)]
	if !ok {
		return nil, fmt.Errorf("no ledger row for %s", ledgerKey(packageID, date))
	}
	copied := *entry
	return &copied, nil
}

func (f *fakeLedger) AddReserved(_ context.Context, entry *availability.LedgerEntry, delta int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	stored := f.entries[ledgerKey(entry.PackageID, entry.TravelDate)]
	next := stored.ReservedCount + delta
	if next < 0 || next > stored.TotalCapacity {
		return availability.ErrCapacityInvariant
	}
	stored.ReservedCount = next
	entry.ReservedCount = next
	return nil
}

func (f *fakeLedger) Get(_ context.Context, packageID uuid.UUID, date time.Time) (*availability.LedgerEntry, error) {
	return f.LockAndGet(context.Background(), packageID, date)
}

func (f *fakeLedger) reserved(packageID uuid.UUID, date time.Time) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	entry, ok := f.entries[ledgerKey(packageID, date)]
	if !ok {
		return 0
	}
	return entry.ReservedCount
}

func (f *fakeLedger) snapshot() map[string]availability.LedgerEntry {
	f.mu.Lock()
	defer f.mu.Unlock()
	snap := make(map[string]availability.LedgerEntry, len(f.entries))
	for k, v := range f.entries {
		snap[k] = *v
	}
	return snap
}

func (f *fakeLedger) restore(snap map[string]availability.LedgerEntry) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.entries = make(map[string]*availability.LedgerEntry, len(snap))
	for k, v := range snap {
		copied := v
		f.entries[k] = &copied
	}
}

type fakeReservationRepo struct {
	mu     sync.Mutex
	byCode map[string]*Reservation
}

func newFakeReservationRepo() *fakeReservationRepo {
	return &fakeReservationRepo{byCode: make(map[string]*Reservation)}
}

func (f *fakeReservationRepo) Create(_ context.Context, reservation *Reservation) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if reservation.ID == uuid.Nil {
		reservation.ID = uuid.New()
	}
	reservation.CreatedAt = time.Now().UTC()
	copied := *reservation
	f.byCode[reservation.Code] = &copied
	return nil
}

func (f *fakeReservationRepo) GetByCode(_ context.Context, code string) (*Reservation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	reservation, ok := f.byCode[code]
	if !ok {
		return nil, ErrReservationNotFound
	}
	copied := *reservation
	return &copied, nil
}

func (f *fakeReservationRepo) GetByCodeForUpdate(ctx context.Context, code string) (*Reservation, error) {
	return f.GetByCode(ctx, code)
}

func (f *fakeReservationRepo) ListByUser(_ context.Context, userID uuid.UUID) ([]Reservation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var list []Reservation
	for _, reservation := range f.byCode {
		if reservation.UserID != nil && *reservation.UserID == userID {
			list = append(list, *reservation)
		}
	}
	return list, nil
}

func (f *fakeReservationRepo) MarkCancelled(_ context.Context, reservation *Reservation, at time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	stored := f.byCode[reservation.Code]
	stored.Status = StatusCancelled
	stored.CancelledAt = &at
	reservation.Status = StatusCancelled
	reservation.CancelledAt = &at
	return nil
}

func (f *fakeReservationRepo) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.byCode)
}

func (f *fakeReservationRepo) snapshot() map[string]Reservation {
	f.mu.Lock()
	defer f.mu.Unlock()
	snap := make(map[string]Reservation, len(f.byCode))
	for k, v := range f.byCode {
		snap[k] = *v
	}
	return snap
}

func (f *fakeReservationRepo) restore(snap map[string]Reservation) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.byCode = make(map[string]*Reservation, len(snap))
	for k, v := range snap {
		copied := v
		f.byCode[k] = &copied
	}
}

// fakeInvoiceRepo backs the real invoice service in coordinator tests.
type fakeInvoiceRepo struct {
	mu       sync.Mutex
	invoices map[string]*invoices.Invoice
	links    map[uuid.UUID][]string // reservationID -> invoice codes
}

func newFakeInvoiceRepo() *fakeInvoiceRepo {
	return &fakeInvoiceRepo{
		invoices: make(map[string]*invoices.Invoice),
		links:    make(map[uuid.UUID][]string),
	}
}

func (f *fakeInvoiceRepo) Create(_ context.Context, invoice *invoices.Invoice, reservationIDs []uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
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

func (f *fakeInvoiceRepo) GetByCode(_ context.Context, code string) (*invoices.Invoice, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	invoice, ok := f.invoices[code]
	if !ok {
		return nil, invoices.ErrInvoiceNotFound
	}
	copied := *invoice
	return &copied, nil
}

func (f *fakeInvoiceRepo) FindByReservation(_ context.Context, reservationID uuid.UUID) ([]invoices.Invoice, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var found []invoices.Invoice
	for _, code := range f.links[reservationID] {
		found = append(found, *f.invoices[code])
	}
	return found, nil
}

func (f *fakeInvoiceRepo) Void(_ context.Context, invoice *invoices.Invoice) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	stored := f.invoices[invoice.Code]
	if stored.Status == invoices.StatusIssued {
		now := time.Now().UTC()
		stored.Status = invoices.StatusVoid
		stored.VoidedAt = &now
	}
	invoice.Status = stored.Status
	return nil
}

func (f *fakeInvoiceRepo) statusOf(code string) invoices.InvoiceStatus {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.invoices[code].Status
}

func (f *fakeInvoiceRepo) snapshot() map[string]invoices.Invoice {
	f.mu.Lock()
	defer f.mu.Unlock()
	snap := make(map[string]invoices.Invoice, len(f.invoices))
	for k, v := range f.invoices {
		snap[k] = *v
	}
	return snap
}

func (f *fakeInvoiceRepo) restore(snap map[string]invoices.Invoice) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.invoices = make(map[string]*invoices.Invoice, len(snap))
	for k, v := range snap {
		copied := v
		f.invoices[k] = &copied
	}
}

type fakeCatalog struct {
	byCode map[string]*catalog.Package
	byID   map[uuid.UUID]*catalog.Package
}

func newFakeCatalog(pkgs ...*catalog.Package) *fakeCatalog {
	f := &fakeCatalog{
		byCode: make(map[string]*catalog.Package),
		byID:   make(map[uuid.UUID]*catalog.Package),
	}
	for _, pkg := range pkgs {
		f.byCode[pkg.Code] = pkg
		f.byID[pkg.ID] = pkg
	}
	return f
}

func (f *fakeCatalog) GetByCode(_ context.Context, code string) (*catalog.Package, error) {
	pkg, ok := f.byCode[code]
	if !ok {
		return nil, catalog.ErrPackageNotFound
	}
	return pkg, nil
}

func (f *fakeCatalog) GetByID(_ context.Context, id uuid.UUID) (*catalog.Package, error) {
	pkg, ok := f.byID[id]
	if !ok {
		return nil, catalog.ErrPackageNotFound
	}
	return pkg, nil
}

func (f *fakeCatalog) List(_ context.Context) ([]catalog.Package, error) {
	var list []catalog.Package
	for _, pkg := range f.byCode {
		list = append(list, *pkg)
	}
	return list, nil
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []notifications.ReservationEvent
}

func (p *recordingPublisher) PublishReservationEvent(_ context.Context, event notifications.ReservationEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
	return nil
}

func (p *recordingPublisher) Close() error { return nil }

func (p *recordingPublisher) typesSeen() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	var types []string
	for _, event := range p.events {
		types = append(types, event.Type)
	}
	return types
}

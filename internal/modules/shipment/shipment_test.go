// README: Shipment service tests (lifecycle + concurrent advance).
package shipment

import (
	"bufio"
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"shipscope/internal/modules/carrier"
	"shipscope/internal/modules/geosim"

	"github.com/jackc/pgx/v5/pgxpool"
)

// TestCanTransition verifies the lifecycle transition table without a database.
func TestCanTransition(t *testing.T) {
	cases := []struct {
		from, to Status
		want     bool
	}{
		// happy-path forward transitions
		{StatusCreated, StatusInTransit, true},
		{StatusInTransit, StatusOutForDelivery, true},
		{StatusOutForDelivery, StatusDelivered, true},
		// invalid: terminal state has no outgoing transitions
		{StatusDelivered, StatusCreated, false},
		{StatusDelivered, StatusInTransit, false},
		// invalid: skipping or reversing states
		{StatusCreated, StatusOutForDelivery, false},
		{StatusCreated, StatusDelivered, false},
		{StatusInTransit, StatusCreated, false},
		{StatusOutForDelivery, StatusInTransit, false},
		{StatusNone, StatusCreated, false},
	}
	for _, tc := range cases {
		got := CanTransition(tc.from, tc.to)
		if got != tc.want {
			t.Errorf("CanTransition(%s, %s) = %v, want %v", tc.from, tc.to, got, tc.want)
		}
	}
}

func TestNextStatus(t *testing.T) {
	cases := []struct {
		from, want Status
	}{
		{StatusCreated, StatusInTransit},
		{StatusInTransit, StatusOutForDelivery},
		{StatusOutForDelivery, StatusDelivered},
		{StatusDelivered, StatusNone},
		{StatusNone, StatusNone},
	}
	for _, tc := range cases {
		if got := NextStatus(tc.from); got != tc.want {
			t.Errorf("NextStatus(%s) = %s, want %s", tc.from, got, tc.want)
		}
	}
}

func TestShipmentLifecycle(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	sh, err := svc.Create(ctx, CreateCommand{
		TrackingNumber: "1Z999AA10123456784",
		Origin:         "memphis",
		Destination:    "Berlin, DE",
	})
	if err != nil {
		t.Fatalf("create shipment: %v", err)
	}
	if sh.Status != StatusCreated {
		t.Fatalf("new shipment status = %s, want %s", sh.Status, StatusCreated)
	}
	if sh.CarrierCode != "ups" {
		t.Fatalf("carrier code = %q, want ups", sh.CarrierCode)
	}
	if !sh.Eta.After(sh.CreatedAt) {
		t.Fatalf("eta %v not after created_at %v", sh.Eta, sh.CreatedAt)
	}
	if sh.CurrentPos != geosim.Interpolate(sh.OriginPos, sh.DestinationPos, 0.1) {
		t.Fatalf("current position not at route start: %+v", sh.CurrentPos)
	}

	for _, want := range []Status{StatusInTransit, StatusOutForDelivery, StatusDelivered} {
		sh, err = svc.Advance(ctx, AdvanceCommand{ShipmentID: sh.ID})
		if err != nil {
			t.Fatalf("advance to %s: %v", want, err)
		}
		if sh.Status != want {
			t.Fatalf("status = %s, want %s", sh.Status, want)
		}
	}

	if sh.DeliveredAt == nil {
		t.Fatalf("expected delivered_at to be set after delivery")
	}
	if sh.CurrentPos != sh.DestinationPos {
		t.Fatalf("delivered position %+v, want destination %+v", sh.CurrentPos, sh.DestinationPos)
	}

	if _, err := svc.Advance(ctx, AdvanceCommand{ShipmentID: sh.ID}); err != ErrInvalidState {
		t.Fatalf("advance past delivered: expected ErrInvalidState, got %v", err)
	}

	events, err := svc.store.ListEvents(ctx, sh.ID)
	if err != nil {
		t.Fatalf("list events: %v", err)
	}
	if len(events) != 4 {
		t.Fatalf("expected 4 lifecycle events, got %d", len(events))
	}
	if events[0].FromStatus != StatusNone || events[len(events)-1].ToStatus != StatusDelivered {
		t.Fatalf("unexpected event bounds: %+v", events)
	}
}

func TestShipmentCreateValidation(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	if _, err := svc.Create(ctx, CreateCommand{Origin: "memphis", Destination: "Berlin, DE"}); err != ErrBadRequest {
		t.Fatalf("missing tracking number: expected ErrBadRequest, got %v", err)
	}
	if _, err := svc.Create(ctx, CreateCommand{TrackingNumber: "1Z999AA10123456784", Origin: "memphis"}); err != ErrBadRequest {
		t.Fatalf("missing destination: expected ErrBadRequest, got %v", err)
	}
}

func TestShipmentUnknownCarrier(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	sh, err := svc.Create(ctx, CreateCommand{
		TrackingNumber: "@@@@",
		Origin:         "memphis",
		Destination:    "Austin, TX",
	})
	if err != nil {
		t.Fatalf("create shipment: %v", err)
	}
	if sh.CarrierCode != "unknown" {
		t.Fatalf("carrier code = %q, want unknown", sh.CarrierCode)
	}
}

func TestShipmentGetNotFound(t *testing.T) {
	svc := newTestService(t)
	if _, err := svc.Get(context.Background(), "missing"); err != ErrNotFound {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

// TestConcurrentAdvance checks that the versioned update admits exactly one
// winner per lifecycle step.
func TestConcurrentAdvance(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	sh, err := svc.Create(ctx, CreateCommand{
		TrackingNumber: "RR123456785CN",
		Origin:         "leipzig",
		Destination:    "Osaka, JP",
	})
	if err != nil {
		t.Fatalf("create shipment: %v", err)
	}

	const attempts = 6
	var wg sync.WaitGroup
	errs := make(chan error, attempts)
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.Advance(ctx, AdvanceCommand{ShipmentID: sh.ID})
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)

	success := 0
	for err := range errs {
		if err == nil {
			success++
			continue
		}
		if err != ErrConflict && err != ErrInvalidState {
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if success < 1 || success > 3 {
		t.Fatalf("expected 1-3 successful advances, got %d", success)
	}

	got, err := svc.Get(ctx, sh.ID)
	if err != nil {
		t.Fatalf("get shipment: %v", err)
	}
	if got.StatusVersion != success {
		t.Fatalf("status_version = %d, want %d", got.StatusVersion, success)
	}
}

func newTestService(t *testing.T) *Service {
	t.Helper()
	return NewService(setupTestStore(t), carrier.NewDetector(carrier.DefaultCatalog()))
}

func setupTestStore(t *testing.T) *Store {
	t.Helper()

	dsn := os.Getenv("SHIPSCOPE_TEST_DSN")
	if dsn == "" {
		t.Skip("SHIPSCOPE_TEST_DSN not set; skipping DB-backed tests")
	}

	ctx := context.Background()
	db, err := pgxpool.New(ctx, dsn)
	if err != nil {
		t.Fatalf("connect db: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	if err := applyMigration(ctx, db); err != nil {
		t.Fatalf("apply migration: %v", err)
	}

	if _, err := db.Exec(ctx, "TRUNCATE TABLE shipment_status_events, shipments"); err != nil {
		t.Fatalf("truncate tables: %v", err)
	}

	return NewStore(db)
}

func applyMigration(ctx context.Context, db *pgxpool.Pool) error {
	root, err := repoRoot()
	if err != nil {
		return err
	}
	content, err := os.ReadFile(filepath.Join(root, "migrations", "0001_init.sql"))
	if err != nil {
		return err
	}
	for _, stmt := range splitSQL(stripSQLComments(string(content))) {
		if _, err := db.Exec(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}

func repoRoot() (string, error) {
	dir, err := os.Getwd()
	if err != nil {
		return "", err
	}
	for i := 0; i < 6; i++ {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", os.ErrNotExist
}

func stripSQLComments(input string) string {
	var b strings.Builder
	scanner := bufio.NewScanner(strings.NewReader(input))
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "--") {
			continue
		}
		b.WriteString(scanner.Text())
		b.WriteString("\n")
	}
	return b.String()
}

func splitSQL(input string) []string {
	parts := strings.Split(input, ";")
	var stmts []string
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			stmts = append(stmts, p)
		}
	}
	return stmts
}

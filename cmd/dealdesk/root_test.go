package main

import (
	"bytes"
	"context"
	"io"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"dealdesk/internal/mockapi"
	"dealdesk/internal/models"
)

func startBackend(t *testing.T) *mockapi.Server {
	t.Helper()
	srv := mockapi.New(mockapi.Options{CompanyID: 100})
	srv.Seed()
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)

	t.Setenv("DEALDESK_API_BASE_URL", ts.URL)
	t.Setenv("DEALDESK_API_BASE_PATH", "/api/v1")
	t.Setenv("DEALDESK_COMPANY_ID", "100")
	t.Setenv("DEALDESK_RUNTIME_LOG_FILE", "discard")
	t.Setenv("DEALDESK_API_RENDER_CACHE", "false")
	return srv
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(io.Discard)
	rootCmd.SetArgs(args)
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
		rootCmd.SetArgs(nil)
		current = nil
	})
	err := rootCmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestShowByOrderNumberPerRole(t *testing.T) {
	startBackend(t)

	out, err := run(t, "show", "--role", "purchases", "П-0001")
	if err != nil {
		t.Fatalf("show purchases: %v", err)
	}
	if !strings.Contains(out, "Сделка 1 ") || !strings.Contains(out, "Поставщик: АО «СтройСнаб»") {
		t.Fatalf("purchases output:\n%s", out)
	}
	if !strings.Contains(out, "Итого: 26200.00 (двадцать шесть тысяч двести рублей)") {
		t.Fatalf("purchases totals:\n%s", out)
	}

	out, err = run(t, "show", "--role", "sales", "Р-0001")
	if err != nil {
		t.Fatalf("show sales: %v", err)
	}
	if !strings.Contains(out, "Сделка 2 ") {
		t.Fatalf("sales output:\n%s", out)
	}

	if _, err := run(t, "show", "--role", "sales", "П-0001"); err == nil {
		t.Fatal("a purchase must not be found among sales")
	}
}

func TestUnknownRole(t *testing.T) {
	startBackend(t)

	_, err := run(t, "sync", "--role", "archive")
	if err == nil || !strings.Contains(err.Error(), "Неизвестная роль") {
		t.Fatalf("err = %v, want unknown role", err)
	}
}

func TestSyncListsRoleDeals(t *testing.T) {
	startBackend(t)

	out, err := run(t, "sync", "--role", "sales")
	if err != nil {
		t.Fatalf("sync: %v", err)
	}
	if !strings.Contains(out, "Р-0001") || strings.Contains(out, "П-0001") {
		t.Fatalf("sales listing:\n%s", out)
	}
	if strings.Contains(out, "Последняя сделка по товарам") {
		t.Fatalf("services-only listing reported a goods deal:\n%s", out)
	}
}

func TestRenderWritesWorkbook(t *testing.T) {
	startBackend(t)
	t.Setenv("DEALDESK_API_RENDER_CACHE", "true")
	path := filepath.Join(t.TempDir(), "order.xlsx")

	if _, err := run(t, "render", "--role", "purchases", "--slot", "order", "-o", path, "1"); err != nil {
		t.Fatalf("render: %v", err)
	}
	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("stat: %v", err)
	}
	if info.Size() == 0 {
		t.Fatal("empty workbook")
	}
}

func TestCompleteThenShow(t *testing.T) {
	srv := startBackend(t)

	if _, err := run(t, "complete", "--role", "purchases", "1"); err != nil {
		t.Fatalf("complete: %v", err)
	}
	deal, ok := srv.Deal(1)
	if !ok || deal.Status != "completed" {
		t.Fatalf("backend deal = %+v", deal)
	}

	out, err := run(t, "show", "--role", "purchases", "1")
	if err != nil {
		t.Fatalf("show: %v", err)
	}
	if !strings.Contains(out, "Сделка 1 (completed") {
		t.Fatalf("output:\n%s", out)
	}
}

type fakeLookup map[int64]models.Deal

func (f fakeLookup) FindByID(id int64) (models.Deal, bool) {
	d, ok := f[id]
	return d, ok
}

func (f fakeLookup) FindByOrderNumber(number string) (models.Deal, bool) {
	for _, d := range f {
		if d.BuyerOrderNumber != nil && *d.BuyerOrderNumber == number {
			return d, true
		}
	}
	return models.Deal{}, false
}

func TestLookup(t *testing.T) {
	numeric := "42"
	deals := fakeLookup{
		7:  {ID: 7},
		42: {ID: 42},
		9:  {ID: 9, BuyerOrderNumber: &numeric},
		11: {ID: 11, BuyerOrderNumber: strPtr("П-11")},
	}

	cases := []struct {
		raw    string
		wantID int64
	}{
		{"7", 7},
		{"42", 42},
		{"П-11", 11},
	}
	for _, tc := range cases {
		deal, err := lookup(deals, tc.raw)
		if err != nil {
			t.Fatalf("lookup(%q): %v", tc.raw, err)
		}
		if deal.ID != tc.wantID {
			t.Errorf("lookup(%q) = %d, want %d", tc.raw, deal.ID, tc.wantID)
		}
	}

	if _, err := lookup(deals, "П-404"); err == nil {
		t.Fatal("missing order number must fail")
	}
	if _, err := parseID("-3"); err == nil {
		t.Fatal("negative id must fail")
	}
}

func strPtr(s string) *string { return &s }

package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/payrail/payrail/internal/cache"
	"github.com/payrail/payrail/internal/repo"
)

func expectSummaryQueries(mock sqlmock.Sqlmock) {
	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM payroll_schedules`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(3))
	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM recipients`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(5))
	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM payments`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(8))
	mock.ExpectQuery(`SELECT COALESCE\(SUM\(amount\), 0\) FROM payments WHERE status = 'success'`).
		WillReturnRows(sqlmock.NewRows([]string{"sum"}).AddRow(12500.50))
}

func TestDashboardHandler_Summary(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	expectSummaryQueries(mock)

	h := &DashboardHandler{
		Schedules:  repo.NewScheduleRepo(db),
		Recipients: repo.NewRecipientRepo(db),
		Payments:   repo.NewPaymentRepo(db),
		Cache:      cache.New(time.Minute),
	}

	req := httptest.NewRequest("GET", "/dashboard/summary", nil)
	rr := httptest.NewRecorder()
	h.Summary(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("status: got %d, want 200, body %s", rr.Code, rr.Body.String())
	}
	var out dashboardSummary
	if err := json.NewDecoder(rr.Body).Decode(&out); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if out.Schedules != 3 || out.Recipients != 5 || out.Payments != 8 || out.TotalPaid != 12500.50 {
		t.Errorf("unexpected summary: %+v", out)
	}

	// Second request is served from cache; no further queries expected.
	rr = httptest.NewRecorder()
	h.Summary(rr, httptest.NewRequest("GET", "/dashboard/summary", nil))
	if rr.Code != http.StatusOK {
		t.Fatalf("cached status: got %d, want 200", rr.Code)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expectations: %v", err)
	}
}

func TestDashboardHandler_Summary_InvalidatedAfterMutation(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	expectSummaryQueries(mock)
	expectSummaryQueries(mock)

	c := cache.New(time.Minute)
	h := &DashboardHandler{
		Schedules:  repo.NewScheduleRepo(db),
		Recipients: repo.NewRecipientRepo(db),
		Payments:   repo.NewPaymentRepo(db),
		Cache:      c,
	}

	rr := httptest.NewRecorder()
	h.Summary(rr, httptest.NewRequest("GET", "/dashboard/summary", nil))
	if rr.Code != http.StatusOK {
		t.Fatalf("status: got %d, want 200", rr.Code)
	}

	c.Invalidate(summaryCacheKey)

	rr = httptest.NewRecorder()
	h.Summary(rr, httptest.NewRequest("GET", "/dashboard/summary", nil))
	if rr.Code != http.StatusOK {
		t.Fatalf("status after invalidation: got %d, want 200", rr.Code)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expectations: %v", err)
	}
}

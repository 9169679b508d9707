package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/payrail/payrail/internal/notify"
	"github.com/payrail/payrail/internal/repo"
)

const testSTXAddress = "SP2J6ZY48GV1EZ5V2V5RB9MP66SW86PYKKNRV9EJ7"

type recordingNotifier struct {
	onboardings []notify.Onboarding
}

func (n *recordingNotifier) SendPaymentDue(_ context.Context, _ notify.PaymentDue) error {
	return nil
}

func (n *recordingNotifier) SendOnboarding(_ context.Context, o notify.Onboarding) error {
	n.onboardings = append(n.onboardings, o)
	return nil
}

func recipientRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "name", "email", "wallet_address", "btc_address", "rate", "created_at"})
}

func TestRecipientHandler_ListRecipients(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	mock.ExpectQuery(`SELECT id, name, email, wallet_address, btc_address, rate, created_at`).
		WithArgs(50, 0).
		WillReturnRows(recipientRows().
			AddRow(1, "John", "john@example.com", testSTXAddress, "", 500.0, time.Now()))

	h := &RecipientHandler{Repo: repo.NewRecipientRepo(db)}
	req := httptest.NewRequest("GET", "/recipients", nil)
	rr := httptest.NewRecorder()
	h.ListRecipients(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("status: got %d, want 200", rr.Code)
	}
	var list []struct {
		ID   int    `json:"id"`
		Name string `json:"name"`
	}
	if err := json.NewDecoder(rr.Body).Decode(&list); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(list) != 1 || list[0].Name != "John" {
		t.Errorf("unexpected list: %+v", list)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expectations: %v", err)
	}
}

func TestRecipientHandler_CreateRecipient(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	mock.ExpectQuery(`INSERT INTO recipients \(name, email, wallet_address, btc_address, rate\)`).
		WithArgs("John", "john@example.com", testSTXAddress, "", 500.0).
		WillReturnRows(recipientRows().
			AddRow(1, "John", "john@example.com", testSTXAddress, "", 500.0, time.Now()))

	notifier := &recordingNotifier{}
	h := &RecipientHandler{Repo: repo.NewRecipientRepo(db), Notifier: notifier}

	body, _ := json.Marshal(map[string]interface{}{
		"name":           "John",
		"email":          "john@example.com",
		"wallet_address": testSTXAddress,
		"rate":           500,
	})
	req := httptest.NewRequest("POST", "/recipients", bytes.NewReader(body))
	rr := httptest.NewRecorder()
	h.CreateRecipient(rr, req)

	if rr.Code != http.StatusCreated {
		t.Fatalf("status: got %d, want 201, body %s", rr.Code, rr.Body.String())
	}
	if len(notifier.onboardings) != 1 || notifier.onboardings[0].Email != "john@example.com" {
		t.Errorf("onboarding email not sent: %+v", notifier.onboardings)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expectations: %v", err)
	}
}

func TestRecipientHandler_CreateRecipient_InvalidWallet(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	h := &RecipientHandler{Repo: repo.NewRecipientRepo(db)}

	body, _ := json.Marshal(map[string]interface{}{
		"name":           "John",
		"wallet_address": "0xdeadbeef",
	})
	req := httptest.NewRequest("POST", "/recipients", bytes.NewReader(body))
	rr := httptest.NewRecorder()
	h.CreateRecipient(rr, req)

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("status: got %d, want 400", rr.Code)
	}
	var out struct {
		Fields map[string]string `json:"fields"`
	}
	if err := json.NewDecoder(rr.Body).Decode(&out); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if out.Fields["wallet_address"] == "" {
		t.Errorf("expected wallet_address error, got %v", out.Fields)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expectations: %v", err)
	}
}

// Registering the same wallet twice is a conflict, not a 500.
func TestRecipientHandler_CreateRecipient_DuplicateWallet(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	mock.ExpectQuery(`INSERT INTO recipients \(name, email, wallet_address, btc_address, rate\)`).
		WillReturnError(&pq.Error{Code: "23505"})

	h := &RecipientHandler{Repo: repo.NewRecipientRepo(db)}

	body, _ := json.Marshal(map[string]interface{}{
		"name":           "John",
		"wallet_address": testSTXAddress,
	})
	req := httptest.NewRequest("POST", "/recipients", bytes.NewReader(body))
	rr := httptest.NewRecorder()
	h.CreateRecipient(rr, req)

	if rr.Code != http.StatusConflict {
		t.Fatalf("status: got %d, want 409, body %s", rr.Code, rr.Body.String())
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expectations: %v", err)
	}
}

func TestRecipientHandler_DeleteRecipient(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	mock.ExpectExec(`DELETE FROM recipients WHERE id = \$1`).
		WithArgs(1).
		WillReturnResult(sqlmock.NewResult(0, 1))

	h := &RecipientHandler{Repo: repo.NewRecipientRepo(db)}
	req := requestWithChiURLParams("DELETE", "/recipients/1", nil, map[string]string{"id": "1"})
	rr := httptest.NewRecorder()
	h.DeleteRecipient(rr, req)

	if rr.Code != http.StatusNoContent {
		t.Errorf("status: got %d, want 204", rr.Code)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expectations: %v", err)
	}
}

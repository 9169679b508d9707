package notify

import (
	"context"
	"net/smtp"
	"strings"
	"testing"
)

type capturedMail struct {
	addr string
	from string
	to   []string
	msg  string
}

func captureNotifier() (*EmailNotifier, *capturedMail) {
	captured := &capturedMail{}
	n := NewEmailNotifier("smtp.example.com:587", "notifications@payrail.app", nil)
	n.send = func(addr string, _ smtp.Auth, from string, to []string, msg []byte) error {
		captured.addr = addr
		captured.from = from
		captured.to = to
		captured.msg = string(msg)
		return nil
	}
	return n, captured
}

func TestEmailNotifier_SendPaymentDue(t *testing.T) {
	n, captured := captureNotifier()

	err := n.SendPaymentDue(context.Background(), PaymentDue{
		Name:             "John Doe",
		Email:            "john@example.com",
		ScheduleName:     "Engineering payroll",
		Amount:           1250.5,
		NextRunAt:        "2025-02-15",
		OrganizationName: "Acme Inc",
	})
	if err != nil {
		t.Fatalf("SendPaymentDue: %v", err)
	}

	if captured.addr != "smtp.example.com:587" {
		t.Errorf("addr: got %s", captured.addr)
	}
	if len(captured.to) != 1 || captured.to[0] != "john@example.com" {
		t.Errorf("to: got %v", captured.to)
	}
	for _, want := range []string{
		"Subject: Payment due: Engineering payroll",
		"John Doe",
		"Acme Inc",
		"$1250.50",
		"2025-02-15",
		"Content-Type: text/html",
	} {
		if !strings.Contains(captured.msg, want) {
			t.Errorf("message missing %q", want)
		}
	}
}

func TestEmailNotifier_SendOnboarding(t *testing.T) {
	n, captured := captureNotifier()

	err := n.SendOnboarding(context.Background(), Onboarding{
		Name:  "Jane Smith",
		Email: "jane@example.com",
		Rate:  900,
	})
	if err != nil {
		t.Fatalf("SendOnboarding: %v", err)
	}

	for _, want := range []string{
		"Welcome to Payrail",
		"Jane Smith",
		"$900.00",
	} {
		if !strings.Contains(captured.msg, want) {
			t.Errorf("message missing %q", want)
		}
	}
}

func TestEmailNotifier_EscapesHTML(t *testing.T) {
	n, captured := captureNotifier()

	err := n.SendPaymentDue(context.Background(), PaymentDue{
		Name:         "<script>alert(1)</script>",
		Email:        "x@example.com",
		ScheduleName: "Payroll",
	})
	if err != nil {
		t.Fatalf("SendPaymentDue: %v", err)
	}
	if strings.Contains(captured.msg, "<script>") {
		t.Error("recipient name was not HTML-escaped")
	}
}

func TestEmailNotifier_CancelledContext(t *testing.T) {
	n, captured := captureNotifier()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := n.SendPaymentDue(ctx, PaymentDue{Email: "x@example.com"}); err == nil {
		t.Error("expected error from cancelled context")
	}
	if captured.msg != "" {
		t.Error("nothing should have been sent")
	}
}

package notify

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"net/smtp"
	"strings"
)

var paymentDueTmpl = template.Must(template.New("payment_due").Parse(`
<div style="font-family: sans-serif; max-width: 600px; margin: 0 auto; padding: 20px; border: 1px solid #eee; border-radius: 10px;">
  <h2 style="color: #f97316;">Payment on its way</h2>
  <p>Hi <strong>{{.Name}}</strong>,</p>
  <p>Your payment from <strong>{{.OrganizationName}}</strong> is due.</p>
  <div style="background: #f8fafc; padding: 15px; border-radius: 8px; margin: 20px 0;">
    <h3 style="margin-top: 0; font-size: 14px; text-transform: uppercase; color: #64748b;">Payment Details</h3>
    <p style="margin: 5px 0;"><strong>Schedule:</strong> {{.ScheduleName}}</p>
    <p style="margin: 5px 0;"><strong>Amount:</strong> ${{printf "%.2f" .Amount}} USD</p>
    <p style="margin: 5px 0;"><strong>Next run:</strong> {{.NextRunAt}}</p>
  </div>
  <p>Your payment will be processed automatically via the Stacks blockchain.</p>
  <hr style="border: 0; border-top: 1px solid #eee; margin: 20px 0;" />
  <p style="font-size: 12px; color: #94a3b8;">This is an automated notification from Payrail.</p>
</div>
`))

var onboardingTmpl = template.Must(template.New("onboarding").Parse(`
<div style="font-family: sans-serif; max-width: 600px; margin: 0 auto; padding: 20px; border: 1px solid #eee; border-radius: 10px;">
  <h2 style="color: #f97316;">Welcome to Payrail!</h2>
  <p>Hi <strong>{{.Name}}</strong>,</p>
  <p>You have been officially added to the payroll system.</p>
  <div style="background: #f8fafc; padding: 15px; border-radius: 8px; margin: 20px 0;">
    <h3 style="margin-top: 0; font-size: 14px; text-transform: uppercase; color: #64748b;">Payroll Details</h3>
    <p style="margin: 5px 0;"><strong>Rate:</strong> ${{printf "%.2f" .Rate}} USD</p>
  </div>
  <p>Your payments will be processed automatically via the Stacks blockchain.</p>
  <p>Excited to have you on board!</p>
  <hr style="border: 0; border-top: 1px solid #eee; margin: 20px 0;" />
  <p style="font-size: 12px; color: #94a3b8;">This is an automated notification from Payrail.</p>
</div>
`))

// EmailNotifier renders HTML notices and sends them over SMTP.
type EmailNotifier struct {
	Addr string // host:port
	From string
	Auth smtp.Auth

	// send allows tests to intercept delivery; defaults to smtp.SendMail.
	send func(addr string, a smtp.Auth, from string, to []string, msg []byte) error
}

// NewEmailNotifier returns an EmailNotifier for the given SMTP endpoint.
// auth may be nil for unauthenticated relays.
func NewEmailNotifier(addr, from string, auth smtp.Auth) *EmailNotifier {
	return &EmailNotifier{Addr: addr, From: from, Auth: auth, send: smtp.SendMail}
}

func (n *EmailNotifier) SendPaymentDue(ctx context.Context, p PaymentDue) error {
	var body bytes.Buffer
	if err := paymentDueTmpl.Execute(&body, p); err != nil {
		return fmt.Errorf("render payment due email: %w", err)
	}
	subject := fmt.Sprintf("Payment due: %s", p.ScheduleName)
	return n.deliver(ctx, p.Email, subject, body.Bytes())
}

func (n *EmailNotifier) SendOnboarding(ctx context.Context, o Onboarding) error {
	var body bytes.Buffer
	if err := onboardingTmpl.Execute(&body, o); err != nil {
		return fmt.Errorf("render onboarding email: %w", err)
	}
	return n.deliver(ctx, o.Email, "Welcome to Payrail - Your Payroll is Ready", body.Bytes())
}

func (n *EmailNotifier) deliver(ctx context.Context, to, subject string, body []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	var msg strings.Builder
	msg.WriteString("From: Payrail <" + n.From + ">\r\n")
	msg.WriteString("To: " + to + "\r\n")
	msg.WriteString("Subject: " + subject + "\r\n")
	msg.WriteString("MIME-Version: 1.0\r\n")
	msg.WriteString("Content-Type: text/html; charset=\"UTF-8\"\r\n")
	msg.WriteString("\r\n")
	msg.Write(body)

	sendFn := n.send
	if sendFn == nil {
		sendFn = smtp.SendMail
	}
	if err := sendFn(n.Addr, n.Auth, n.From, []string{to}, []byte(msg.String())); err != nil {
		return fmt.Errorf("send email to %s: %w", to, err)
	}
	return nil
}

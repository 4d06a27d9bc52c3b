package notification

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const (
	defaultEmailEndpoint = "https://api.brevo.com/v3/smtp/email"
	defaultSMSEndpoint   = "https://api.brevo.com/v3/transactionalSMS/sms"
)

// BrevoClient envia e-mail e SMS transacionais pela API da Brevo.
// Sem API key o construtor devolve nil e todo envio falha localmente,
// sem chamada de rede — o agendamento segue, só o Outcome fica false.
type BrevoClient struct {
	apiKey      string
	senderEmail string
	senderName  string
	smsSender   string
	sandbox     bool

	emailEndpoint string
	smsEndpoint   string
	httpClient    *http.Client
}

func NewBrevoClient(apiKey, senderEmail, senderName, smsSender string, sandbox bool) *BrevoClient {
	if strings.TrimSpace(apiKey) == "" || strings.TrimSpace(senderEmail) == "" {
		return nil
	}
	if strings.TrimSpace(senderName) == "" {
		senderName = senderEmail
	}
	return &BrevoClient{
		apiKey:        apiKey,
		senderEmail:   senderEmail,
		senderName:    senderName,
		smsSender:     smsSender,
		sandbox:       sandbox,
		emailEndpoint: defaultEmailEndpoint,
		smsEndpoint:   defaultSMSEndpoint,
		httpClient:    &http.Client{Timeout: 8 * time.Second},
	}
}

// ======================================================
// Notifier
// ======================================================

func (c *BrevoClient) SendWelcomeEmail(ctx context.Context, to string, d WelcomeData) error {
	subject := fmt.Sprintf("Bem-vindo à equipe - %s", d.CompanyName)
	body, err := buildWelcomeHTML(d)
	if err != nil {
		return err
	}
	return c.sendHTML(ctx, to, d.StaffName, subject, body)
}

func (c *BrevoClient) SendWelcomeSMS(ctx context.Context, to string, d WelcomeData) error {
	return c.sendSMS(ctx, to, welcomeSMSText(d))
}

func (c *BrevoClient) SendConfirmationEmail(ctx context.Context, to string, d AppointmentData) error {
	subject := fmt.Sprintf("Agendamento confirmado - %s", d.ServiceName)
	body, err := buildConfirmationHTML(d)
	if err != nil {
		return err
	}
	return c.sendHTML(ctx, to, d.ClientName, subject, body)
}

func (c *BrevoClient) SendConfirmationSMS(ctx context.Context, to string, d AppointmentData) error {
	return c.sendSMS(ctx, to, confirmationSMSText(d))
}

func (c *BrevoClient) SendRescheduleEmail(ctx context.Context, to string, d RescheduleData) error {
	subject := fmt.Sprintf("Agendamento remarcado - %s", d.ServiceName)
	body, err := buildRescheduleHTML(d)
	if err != nil {
		return err
	}
	return c.sendHTML(ctx, to, d.ClientName, subject, body)
}

func (c *BrevoClient) SendRescheduleSMS(ctx context.Context, to string, d RescheduleData) error {
	return c.sendSMS(ctx, to, rescheduleSMSText(d))
}

func (c *BrevoClient) SendCancellationEmail(ctx context.Context, to string, d CancellationData) error {
	subject := fmt.Sprintf("Agendamento cancelado - %s", d.ServiceName)
	body, err := buildCancellationHTML(d)
	if err != nil {
		return err
	}
	return c.sendHTML(ctx, to, d.ClientName, subject, body)
}

func (c *BrevoClient) SendCancellationSMS(ctx context.Context, to string, d CancellationData) error {
	return c.sendSMS(ctx, to, cancellationSMSText(d))
}

// ======================================================
// Transport
// ======================================================

func (c *BrevoClient) sendHTML(ctx context.Context, toEmail, toName, subject, htmlBody string) error {
	if c == nil {
		return errors.New("brevo client is nil")
	}
	if strings.TrimSpace(toEmail) == "" {
		return errors.New("missing recipient email")
	}

	payload := brevoEmailRequest{
		Sender: brevoSender{
			Name:  c.senderName,
			Email: c.senderEmail,
		},
		To: []brevoRecipient{
			{
				Email: toEmail,
				Name:  toName,
			},
		},
		Subject:     subject,
		HtmlContent: htmlBody,
	}
	if c.sandbox {
		payload.Headers = map[string]string{
			"X-Sib-Sandbox": "drop",
		}
	}

	return c.post(ctx, c.emailEndpoint, payload)
}

func (c *BrevoClient) sendSMS(ctx context.Context, toPhone, content string) error {
	if c == nil {
		return errors.New("brevo client is nil")
	}
	if strings.TrimSpace(toPhone) == "" {
		return errors.New("missing recipient phone")
	}

	payload := brevoSMSRequest{
		Type:      "transactional",
		Sender:    c.smsSender,
		Recipient: toPhone,
		Content:   content,
	}

	return c.post(ctx, c.smsEndpoint, payload)
}

func (c *BrevoClient) post(ctx context.Context, endpoint string, payload any) error {
	raw, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("brevo marshal payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(raw))
	if err != nil {
		return fmt.Errorf("brevo create request: %w", err)
	}
	req.Header.Set("accept", "application/json")
	req.Header.Set("content-type", "application/json")
	req.Header.Set("api-key", c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("brevo request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("brevo send failed: status=%d body=%s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	return nil
}

// ======================================================
// Wire types
// ======================================================

type brevoEmailRequest struct {
	Sender      brevoSender       `json:"sender"`
	To          []brevoRecipient  `json:"to"`
	Subject     string            `json:"subject"`
	HtmlContent string            `json:"htmlContent,omitempty"`
	Headers     map[string]string `json:"headers,omitempty"`
}

type brevoSender struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

type brevoRecipient struct {
	Email string `json:"email"`
	Name  string `json:"name,omitempty"`
}

type brevoSMSRequest struct {
	Type      string `json:"type"`
	Sender    string `json:"sender"`
	Recipient string `json:"recipient"`
	Content   string `json:"content"`
}

// Compile-time check
var _ Notifier = (*BrevoClient)(nil)

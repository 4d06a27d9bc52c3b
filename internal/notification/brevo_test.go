package notification

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testData() AppointmentData {
	return AppointmentData{
		AppointmentID: 42,
		ClientName:    "Ana Souza",
		StaffName:     "Bruno Lima",
		ServiceName:   "Consulta",
		CompanyName:   "Livegenda Demo",
		Start:         time.Date(2025, 6, 2, 13, 0, 0, 0, time.UTC),
		End:           time.Date(2025, 6, 2, 14, 0, 0, 0, time.UTC),
		Timezone:      "America/Sao_Paulo",
		Price:         120,
	}
}

func TestBrevoClient_SendConfirmationEmail(t *testing.T) {
	var got brevoEmailRequest
	var apiKey string

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		apiKey = r.Header.Get("api-key")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusCreated)
	}))
	defer srv.Close()

	c := NewBrevoClient("key-123", "agenda@livegenda.com", "Livegenda", "Livegenda", false)
	require.NotNil(t, c)
	c.emailEndpoint = srv.URL

	err := c.SendConfirmationEmail(context.Background(), "ana@example.com", testData())

	require.NoError(t, err)
	assert.Equal(t, "key-123", apiKey)
	assert.Equal(t, "agenda@livegenda.com", got.Sender.Email)
	require.Len(t, got.To, 1)
	assert.Equal(t, "ana@example.com", got.To[0].Email)
	assert.Equal(t, "Ana Souza", got.To[0].Name)
	assert.Contains(t, got.Subject, "Consulta")
	assert.Contains(t, got.HtmlContent, "Bruno Lima")
	assert.Empty(t, got.Headers, "sandbox header only when enabled")
}

func TestBrevoClient_SandboxHeader(t *testing.T) {
	var got brevoEmailRequest

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusCreated)
	}))
	defer srv.Close()

	c := NewBrevoClient("key-123", "agenda@livegenda.com", "Livegenda", "Livegenda", true)
	c.emailEndpoint = srv.URL

	require.NoError(t, c.SendConfirmationEmail(context.Background(), "ana@example.com", testData()))
	assert.Equal(t, "drop", got.Headers["X-Sib-Sandbox"])
}

func TestBrevoClient_SendConfirmationSMS(t *testing.T) {
	var got brevoSMSRequest

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusCreated)
	}))
	defer srv.Close()

	c := NewBrevoClient("key-123", "agenda@livegenda.com", "Livegenda", "Livegenda", false)
	c.smsEndpoint = srv.URL

	err := c.SendConfirmationSMS(context.Background(), "+5511999990000", testData())

	require.NoError(t, err)
	assert.Equal(t, "transactional", got.Type)
	assert.Equal(t, "+5511999990000", got.Recipient)
	assert.Contains(t, got.Content, "Consulta")
}

func TestBrevoClient_APIFailureReturnsError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"code":"unauthorized"}`))
	}))
	defer srv.Close()

	c := NewBrevoClient("bad-key", "agenda@livegenda.com", "Livegenda", "Livegenda", false)
	c.emailEndpoint = srv.URL

	err := c.SendConfirmationEmail(context.Background(), "ana@example.com", testData())

	require.Error(t, err)
	assert.Contains(t, err.Error(), "status=401")
}

func TestNewBrevoClient_DisabledWithoutAPIKey(t *testing.T) {
	c := NewBrevoClient("", "agenda@livegenda.com", "Livegenda", "Livegenda", false)
	assert.Nil(t, c)

	// Cliente nil continua satisfazendo a interface; envio falha localmente
	err := c.SendConfirmationEmail(context.Background(), "ana@example.com", testData())
	require.Error(t, err)
}

func TestBrevoClient_MissingRecipient(t *testing.T) {
	c := NewBrevoClient("key-123", "agenda@livegenda.com", "Livegenda", "Livegenda", false)

	require.Error(t, c.SendConfirmationEmail(context.Background(), "", testData()))
	require.Error(t, c.SendConfirmationSMS(context.Background(), "", testData()))
}

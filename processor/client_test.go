package processor_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/alovak/checkout-relay/processor"
	"github.com/stretchr/testify/require"
	"golang.org/x/exp/slog"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestEnvironmentBaseURL(t *testing.T) {
	require.Equal(t, "https://api-m.paypal.com", processor.Live.BaseURL())
	require.Equal(t, "https://api-m.sandbox.paypal.com", processor.Sandbox.BaseURL())

	// unknown environments fall back to the sandbox
	require.Equal(t, "https://api-m.sandbox.paypal.com", processor.Environment("staging").BaseURL())
}

func TestAccessToken(t *testing.T) {
	var tokenCalls int

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/v1/oauth2/token", r.URL.Path)

		id, secret, ok := r.BasicAuth()
		require.True(t, ok)
		require.Equal(t, "client-id", id)
		require.Equal(t, "client-secret", secret)

		require.NoError(t, r.ParseForm())
		require.Equal(t, "client_credentials", r.PostForm.Get("grant_type"))

		tokenCalls++
		json.NewEncoder(w).Encode(map[string]string{"access_token": "tok-1"})
	}))
	defer srv.Close()

	client := processor.New(srv.URL, "client-id", "client-secret", nil, testLogger())

	token, err := client.AccessToken(context.Background())
	require.NoError(t, err)
	require.Equal(t, "tok-1", token)
	require.Equal(t, 1, tokenCalls)
}

func TestAccessToken_UpstreamError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"invalid_client"}`, http.StatusUnauthorized)
	}))
	defer srv.Close()

	client := processor.New(srv.URL, "bad-id", "bad-secret", nil, testLogger())

	_, err := client.AccessToken(context.Background())
	require.Error(t, err)

	var upstream *processor.UpstreamError
	require.ErrorAs(t, err, &upstream)
	require.Equal(t, http.StatusUnauthorized, upstream.StatusCode)
	require.Contains(t, upstream.Body, "invalid_client")
}

func TestCreateOrder(t *testing.T) {
	const orderJSON = `{"id":"5O190127TN364715T","status":"CREATED","links":[{"href":"https://example.test/approve","rel":"approve"}]}`

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/v1/oauth2/token":
			json.NewEncoder(w).Encode(map[string]string{"access_token": "tok-order"})
		case "/v2/checkout/orders":
			require.Equal(t, "Bearer tok-order", r.Header.Get("Authorization"))

			var req processor.OrderRequest
			require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
			require.Equal(t, processor.OrderIntentCapture, req.Intent)
			require.Len(t, req.PurchaseUnits, 1)
			require.Equal(t, "USD", req.PurchaseUnits[0].Amount.CurrencyCode)
			require.Equal(t, "10.00", req.PurchaseUnits[0].Amount.Value)

			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusCreated)
			w.Write([]byte(orderJSON))
		default:
			t.Fatalf("unexpected path %s", r.URL.Path)
		}
	}))
	defer srv.Close()

	client := processor.New(srv.URL, "client-id", "client-secret", nil, testLogger())

	order, err := client.CreateOrder(context.Background(), processor.OrderRequest{
		Intent: processor.OrderIntentCapture,
		PurchaseUnits: []processor.PurchaseUnit{
			{Amount: processor.Amount{CurrencyCode: "USD", Value: "10.00"}},
		},
	})
	require.NoError(t, err)
	require.Equal(t, "5O190127TN364715T", order.ID)
	require.Equal(t, "CREATED", order.Status)
	require.JSONEq(t, orderJSON, string(order.Raw))
}

func TestCreateOrder_FreshTokenPerCall(t *testing.T) {
	var tokenCalls int

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/v1/oauth2/token":
			tokenCalls++
			json.NewEncoder(w).Encode(map[string]string{"access_token": "tok"})
		case "/v2/checkout/orders":
			w.Write([]byte(`{"id":"ORD-1","status":"CREATED"}`))
		default:
			t.Fatalf("unexpected path %s", r.URL.Path)
		}
	}))
	defer srv.Close()

	client := processor.New(srv.URL, "client-id", "client-secret", nil, testLogger())

	for i := 0; i < 3; i++ {
		_, err := client.CreateOrder(context.Background(), processor.OrderRequest{Intent: processor.OrderIntentCapture})
		require.NoError(t, err)
	}

	// every order call performs its own exchange; nothing is cached
	require.Equal(t, 3, tokenCalls)
}

func TestOrderAction(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/v1/oauth2/token":
			json.NewEncoder(w).Encode(map[string]string{"access_token": "tok"})
		case "/v2/checkout/orders/ORD-42/capture":
			require.Equal(t, http.MethodPost, r.Method)
			w.Write([]byte(`{"id":"ORD-42","status":"COMPLETED"}`))
		default:
			t.Fatalf("unexpected path %s", r.URL.Path)
		}
	}))
	defer srv.Close()

	client := processor.New(srv.URL, "client-id", "client-secret", nil, testLogger())

	order, err := client.OrderAction(context.Background(), "ORD-42", "capture")
	require.NoError(t, err)
	require.Equal(t, "ORD-42", order.ID)
	require.Equal(t, "COMPLETED", order.Status)
}

func TestOrderAction_UpstreamError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/v1/oauth2/token":
			json.NewEncoder(w).Encode(map[string]string{"access_token": "tok"})
		default:
			w.WriteHeader(http.StatusUnprocessableEntity)
			w.Write([]byte(`{"name":"UNPROCESSABLE_ENTITY"}`))
		}
	}))
	defer srv.Close()

	client := processor.New(srv.URL, "client-id", "client-secret", nil, testLogger())

	_, err := client.OrderAction(context.Background(), "ORD-1", "capture")

	var upstream *processor.UpstreamError
	require.ErrorAs(t, err, &upstream)
	require.Equal(t, http.StatusUnprocessableEntity, upstream.StatusCode)
}

func TestGenerateClientToken(t *testing.T) {
	tests := []struct {
		name       string
		customerID string
		wantBody   map[string]any
	}{
		{
			name:       "unscoped",
			customerID: "",
			wantBody:   map[string]any{},
		},
		{
			name:       "scoped to customer",
			customerID: "cust-7",
			wantBody:   map[string]any{"customer_id": "cust-7"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				switch r.URL.Path {
				case "/v1/oauth2/token":
					json.NewEncoder(w).Encode(map[string]string{"access_token": "tok"})
				case "/v1/identity/generate-token":
					require.Equal(t, "Bearer tok", r.Header.Get("Authorization"))

					var body map[string]any
					require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
					require.Equal(t, tt.wantBody, body)

					json.NewEncoder(w).Encode(map[string]string{"client_token": "ct-abc"})
				default:
					t.Fatalf("unexpected path %s", r.URL.Path)
				}
			}))
			defer srv.Close()

			client := processor.New(srv.URL, "client-id", "client-secret", nil, testLogger())

			token, err := client.GenerateClientToken(context.Background(), tt.customerID)
			require.NoError(t, err)
			require.Equal(t, "ct-abc", token)
		})
	}
}

func TestClient_TransportError(t *testing.T) {
	// a server that is already closed produces a connection failure
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close()

	client := processor.New(srv.URL, "client-id", "client-secret", nil, testLogger())

	_, err := client.AccessToken(context.Background())
	require.Error(t, err)

	// transport failures are wrapped plain errors, not UpstreamErrors
	var upstream *processor.UpstreamError
	require.False(t, errors.As(err, &upstream))
}

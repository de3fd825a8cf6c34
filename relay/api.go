package relay

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/alovak/checkout-relay/processor"
	"github.com/alovak/checkout-relay/relay/models"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"golang.org/x/exp/slog"
)

// API is the HTTP surface of the relay service.
type API struct {
	service *Service
	logger  *slog.Logger
}

func NewAPI(service *Service, logger *slog.Logger) *API {
	return &API{
		service: service,
		logger:  logger,
	}
}

func (a *API) AppendRoutes(r chi.Router) {
	// The payment form may be hosted on a different origin, so checkout
	// initiation accepts cross-origin requests unconditionally. The
	// middleware hangs on a sub-router so preflight requests reach it.
	r.Route("/initiate-payment", func(r chi.Router) {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins: []string{"*"},
			AllowedMethods: []string{http.MethodPost, http.MethodOptions},
			AllowedHeaders: []string{"*"},
		}))
		r.Post("/", a.initiatePayment)
	})
	r.Post("/complete_order", a.completeOrder)
	r.Post("/get_client_token", a.getClientToken)
}

func (a *API) initiatePayment(w http.ResponseWriter, r *http.Request) {
	var req models.InitiatePayment
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.writeError(w, models.ErrorKindValidation, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Currency == "" || req.Amount.String() == "" {
		a.writeError(w, models.ErrorKindValidation, http.StatusBadRequest, "currency and amount are required")
		return
	}

	order, err := a.service.InitiatePayment(r.Context(), req.Currency, req.Amount.String())
	if err != nil {
		a.writeUpstreamError(w, err)
		return
	}

	writeRawJSON(w, http.StatusOK, order.Raw)
}

func (a *API) completeOrder(w http.ResponseWriter, r *http.Request) {
	var req models.CompleteOrder
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.writeError(w, models.ErrorKindValidation, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.OrderID == "" || req.Intent == "" {
		a.writeError(w, models.ErrorKindValidation, http.StatusBadRequest, "order_id and intent are required")
		return
	}

	order, err := a.service.CompleteOrder(r.Context(), req.OrderID, req.Intent, req.Email)
	if err != nil {
		a.writeUpstreamError(w, err)
		return
	}

	writeRawJSON(w, http.StatusOK, order.Raw)
}

func (a *API) getClientToken(w http.ResponseWriter, r *http.Request) {
	var req models.ClientToken
	if r.Body != nil {
		// An empty or absent body means an unscoped token.
		_ = json.NewDecoder(r.Body).Decode(&req)
	}

	token, err := a.service.ClientToken(r.Context(), req.CustomerID)
	if err != nil {
		a.writeUpstreamError(w, err)
		return
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(token))
}

// writeUpstreamError maps a failed processor call onto the shared envelope:
// non-2xx from the processor and network failures both surface as 500, but
// with distinct kinds so clients can tell them apart.
func (a *API) writeUpstreamError(w http.ResponseWriter, err error) {
	a.logger.Error("upstream call failed", "err", err)

	var upstream *processor.UpstreamError
	if errors.As(err, &upstream) {
		a.writeError(w, models.ErrorKindUpstream, http.StatusInternalServerError, upstream.Error())
		return
	}
	a.writeError(w, models.ErrorKindTransport, http.StatusInternalServerError, err.Error())
}

func (a *API) writeError(w http.ResponseWriter, kind models.ErrorKind, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(models.NewErrorResponse(kind, message))
}

func writeRawJSON(w http.ResponseWriter, status int, body []byte) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write(body)
}

package models

import "encoding/json"

// InitiatePayment is the storefront's request to start a checkout. The card
// fields arrive from the payment form but are never forwarded upstream; the
// processor tokenizes card data on its own side.
type InitiatePayment struct {
	CardNumber string `json:"cardNumber"`
	CardHolder string `json:"cardHolder"`
	Expiry     string `json:"expiry"`
	CVV        string `json:"cvv"`

	Currency string      `json:"currency"`
	Amount   json.Number `json:"amount"`
}

// CompleteOrder applies an action verb to an existing order. When Email is
// set and the action succeeds, a receipt is dispatched for the order.
type CompleteOrder struct {
	OrderID string `json:"order_id"`
	Intent  string `json:"intent"`
	Email   string `json:"email,omitempty"`
}

// ClientToken requests an identity client token, optionally scoped to a
// returning customer.
type ClientToken struct {
	CustomerID string `json:"customer_id,omitempty"`
}

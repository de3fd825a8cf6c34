package processor

import "encoding/json"

// OrderIntentCapture is the intent used for storefront checkouts: funds are
// captured immediately on approval.
const OrderIntentCapture = "CAPTURE"

// OrderRequest is the payload sent to the processor to create an order.
type OrderRequest struct {
	Intent        string         `json:"intent"`
	PurchaseUnits []PurchaseUnit `json:"purchase_units"`
}

// PurchaseUnit carries one amount of an order.
type PurchaseUnit struct {
	InvoiceID string `json:"invoice_id,omitempty"`
	Amount    Amount `json:"amount"`
}

// Amount is a processor monetary amount: decimal string plus ISO 4217 code.
type Amount struct {
	CurrencyCode string `json:"currency_code"`
	Value        string `json:"value"`
}

// Link is a HATEOAS link returned on processor orders.
type Link struct {
	Href   string `json:"href"`
	Rel    string `json:"rel"`
	Method string `json:"method,omitempty"`
}

// Order is the processor's order object. Only the fields the relay reads are
// parsed; Raw holds the full response body for verbatim pass-through.
type Order struct {
	ID     string `json:"id"`
	Status string `json:"status"`
	Links  []Link `json:"links,omitempty"`

	Raw json.RawMessage `json:"-"`
}

package request

// CreateStockRequest is the body for registering stock reference data.
type CreateStockRequest struct {
	Symbol   string `json:"symbol"`
	Name     string `json:"name"`
	Currency string `json:"currency"`
	Exchange string `json:"exchange,omitempty"`
}

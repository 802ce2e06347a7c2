package model

// Stock represents tradable reference data. Symbols are unique.
type Stock struct {
	ID       string `json:"id"`
	Symbol   string `json:"symbol"`
	Name     string `json:"name"`
	Currency string `json:"currency"`
	Exchange string `json:"exchange,omitempty"`
}

package domain

// Counterpart is a customer or supplier a journal entry can refer to.
type Counterpart struct {
	CounterpartID string `json:"counterpartID"`
	Name          string `json:"name"`
	EIK           string `json:"eik"`       // Bulgarian company registry number
	VATNumber     string `json:"vatNumber"` // Validated against VIES by the gateway
}

package domain

// Account is the narrow view of a chart-of-accounts entry that the draft
// editor needs. The chart itself is owned by the accounting gateway.
type Account struct {
	AccountID        string `json:"accountID" yaml:"accountID"`               // Gateway identifier
	Code             string `json:"code" yaml:"code"`                         // e.g. "304"
	Name             string `json:"name" yaml:"name"`                         // e.g. "Стоки"
	SupportsQuantity bool   `json:"supportsQuantity" yaml:"supportsQuantity"` // Material account: tracks physical quantities
	DefaultUnit      string `json:"defaultUnit" yaml:"defaultUnit"`           // Unit of measure copied onto lines, e.g. "бр", "кг"
	IsActive         bool   `json:"isActive" yaml:"isActive"`
}

package domain

import "time"

// AuditFields holds standard audit information for domain entities.
type AuditFields struct {
	CreatedAt     time.Time `json:"createdAt" yaml:"createdAt"`
	CreatedBy     string    `json:"createdBy" yaml:"createdBy"` // UserID Reference
	LastUpdatedAt time.Time `json:"lastUpdatedAt" yaml:"lastUpdatedAt"`
	LastUpdatedBy string    `json:"lastUpdatedBy" yaml:"lastUpdatedBy"` // UserID Reference
}

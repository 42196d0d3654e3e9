package models

import (
	"time"

	"github.com/google/uuid"
)

// Audit severities accepted by the platform.
const (
	SeverityInfo     = "Info"
	SeverityModerate = "Moderate"
	SeverityHigh     = "High"
	SeverityCritical = "Critical"
)

// Audit is a platform audit log entry.
type Audit struct {
	ID        string         `json:"id"`
	TenantID  string         `json:"tenantId"`
	UserID    string         `json:"userId,omitempty"`
	Type      string         `json:"type"`
	Category  string         `json:"category"`
	Severity  string         `json:"severity"`
	Data      map[string]any `json:"data,omitempty"`
	Metadata  map[string]any `json:"metadata,omitempty"`
	IP        string         `json:"ip,omitempty"`
	UserAgent string         `json:"userAgent,omitempty"`
	Origin    string         `json:"origin,omitempty"`
	CreatedAt *time.Time     `json:"createdAt,omitempty"`
}

// NewAuditEvent builds an audit entry for submission, assigning a fresh
// UUID and the current timestamp. Severity defaults to Info.
func NewAuditEvent(tenantID, eventType, category string) *Audit {
	now := time.Now().UTC()
	return &Audit{
		ID:        uuid.NewString(),
		TenantID:  tenantID,
		Type:      eventType,
		Category:  category,
		Severity:  SeverityInfo,
		CreatedAt: &now,
	}
}

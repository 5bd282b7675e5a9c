package store

import (
	"context"
	"time"

	"github.com/rotisserie/eris"

	"github.com/agentgrowth/leadflow/internal/model"
)

// ErrNotFound is returned when a lead or resource does not exist.
var ErrNotFound = eris.New("store: not found")

// LeadFilter specifies criteria for listing leads.
type LeadFilter struct {
	Status      model.LeadStatus `json:"status,omitempty"`
	Since       time.Time        `json:"since,omitempty"`
	Undelivered bool             `json:"undelivered,omitempty"`
	Limit       int              `json:"limit,omitempty"`
	Offset      int              `json:"offset,omitempty"`
}

// Store defines the persistence interface for leads and resource downloads.
type Store interface {
	// Leads
	CreateLead(ctx context.Context, lead model.Lead) (*model.Lead, error)
	GetLead(ctx context.Context, id string) (*model.Lead, error)
	UpdateDeliveryFlags(ctx context.Context, id string, generated, sent bool) error
	UpdateCRMSynced(ctx context.Context, id string, synced bool) error
	ListLeads(ctx context.Context, filter LeadFilter) ([]model.Lead, error)

	// Resources
	GetResource(ctx context.Context, id string) (*model.Resource, error)
	RecordDownload(ctx context.Context, leadID, resourceID string) (*model.ResourceDownload, error)

	// Lifecycle
	Migrate(ctx context.Context) error
	Close() error
}

const defaultListLimit = 100

package repository

import (
	"context"

	"github.com/smart-bharat/backend/internal/model/alert"
)

// AlertStore persists dispatched emergency alerts. An alert is written once
// and never mutated; the store is the durable fallback when SMS delivery
// fails.
type AlertStore interface {
	SaveAlert(ctx context.Context, a alert.EmergencyAlert) error
}

package dispatch

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/smart-bharat/backend/internal/model/alert"
	"github.com/smart-bharat/backend/internal/repository"
)

// ErrValidation marks a dispatch request missing one of the five required
// fields. It is the only failure that aborts a dispatch.
var ErrValidation = errors.New("missing required fields")

// Service performs emergency dispatch: resolve an address, persist the
// alert, notify the contact by SMS. Notification is best-effort; nothing
// after validation blocks the user from seeing confirmation.
type Service struct {
	geocoder Geocoder
	store    repository.AlertStore
	sms      SMSSender
}

// NewService wires the dispatch dependencies. store and sms may be nil when
// unconfigured; the corresponding step then degrades to a warning.
func NewService(geocoder Geocoder, store repository.AlertStore, sms SMSSender) *Service {
	return &Service{geocoder: geocoder, store: store, sms: sms}
}

// Dispatch executes one alert. The returned result is a success carrying
// the alert payload unless validation failed; non-fatal step failures are
// collected in result.Warnings.
func (s *Service) Dispatch(ctx context.Context, req alert.DispatchRequest) (alert.DispatchResult, error) {
	if err := validate(req); err != nil {
		return alert.DispatchResult{}, err
	}

	lat, lon := *req.Latitude, *req.Longitude
	var warnings []string

	address := FormatCoordinates(lat, lon)
	if s.geocoder != nil {
		resolved, err := s.geocoder.ReverseGeocode(ctx, lat, lon)
		if err != nil {
			log.Printf("[dispatch] reverse geocoding failed: %v", err)
			warnings = append(warnings, "address lookup failed; using raw coordinates")
		} else {
			address = resolved
		}
	}

	alertType := req.Type
	if alertType == "" {
		alertType = alert.TypeSOS
	}

	a := alert.EmergencyAlert{
		ID:        fmt.Sprintf("%s-%s", alertType, uuid.NewString()),
		Type:      alertType,
		Location:  alert.Location{Latitude: lat, Longitude: lon, Address: address},
		Message:   req.Message,
		Timestamp: time.Now().UTC(),
		Contact:   alert.Contact{Name: req.ContactName, Phone: req.ContactPhone},
	}

	if s.store == nil {
		warnings = append(warnings, "alert store not configured; alert not persisted")
	} else if err := s.store.SaveAlert(ctx, a); err != nil {
		log.Printf("[dispatch] failed to store alert %s: %v", a.ID, err)
		warnings = append(warnings, "alert could not be persisted")
	}

	if s.sms == nil {
		warnings = append(warnings, "SMS gateway not configured; contact not notified")
	} else if err := s.sms.Send(ctx, req.ContactPhone, smsBody(a)); err != nil {
		log.Printf("[dispatch] failed to send SMS for alert %s: %v", a.ID, err)
		warnings = append(warnings, "SMS notification could not be sent")
	}

	return alert.DispatchResult{
		Success:   true,
		Alert:     a,
		Warnings:  warnings,
		Timestamp: time.Now().UTC(),
	}, nil
}

func validate(req alert.DispatchRequest) error {
	var missing []string
	if req.Latitude == nil {
		missing = append(missing, "latitude")
	}
	if req.Longitude == nil {
		missing = append(missing, "longitude")
	}
	if strings.TrimSpace(req.Message) == "" {
		missing = append(missing, "message")
	}
	if strings.TrimSpace(req.ContactName) == "" {
		missing = append(missing, "contactName")
	}
	if strings.TrimSpace(req.ContactPhone) == "" {
		missing = append(missing, "contactPhone")
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: %s", ErrValidation, strings.Join(missing, ", "))
	}
	return nil
}

func smsBody(a alert.EmergencyAlert) string {
	return fmt.Sprintf("EMERGENCY ALERT: %s\nLocation: %s\nMap: https://www.google.com/maps?q=%s,%s",
		a.Message, a.Location.Address,
		formatCoordinate(a.Location.Latitude), formatCoordinate(a.Location.Longitude))
}

package models

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// Stop is a bus stop from the route reference data
type Stop struct {
	ID   uuid.UUID `json:"id" db:"id"`
	Name string    `json:"name" db:"name"`
	City string    `json:"city" db:"city"`
}

// Label renders the stop for reports, e.g. "Central Station (Kandy)"
func (s Stop) Label() string {
	if s.City == "" {
		return s.Name
	}
	return fmt.Sprintf("%s (%s)", s.Name, s.City)
}

// Route is an ordered journey between two stops. Routes are owned by the
// fleet administration and are read-only for reservations.
type Route struct {
	ID                uuid.UUID `json:"id"`
	DepartureStop     Stop      `json:"departure_stop"`
	DestinationStop   Stop      `json:"destination_stop"`
	IntermediateStops []Stop    `json:"intermediate_stops"`
}

// Validate checks the route invariants
func (r *Route) Validate() error {
	if r.DepartureStop.ID == uuid.Nil || r.DestinationStop.ID == uuid.Nil {
		return errors.New("route must have departure and destination stops")
	}
	if r.DepartureStop.ID == r.DestinationStop.ID {
		return errors.New("departure and destination stops must differ")
	}
	return nil
}

// Description is the human readable key used to group sales by route
func (r *Route) Description() string {
	parts := make([]string, 0, len(r.IntermediateStops)+2)
	parts = append(parts, r.DepartureStop.Label())
	for _, stop := range r.IntermediateStops {
		parts = append(parts, stop.Label())
	}
	parts = append(parts, r.DestinationStop.Label())
	return strings.Join(parts, " → ")
}

// UnknownRouteDescription is the sales group label for a route id that no
// longer resolves to reference data.
func UnknownRouteDescription(routeID uuid.UUID) string {
	return fmt.Sprintf("Unknown route (%s)", routeID)
}

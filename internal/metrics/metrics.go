package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// SeatHolds counts hold attempts by result (held, conflict, rejected, error)
	SeatHolds = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "reservations",
			Name:      "seat_holds_total",
			Help:      "The total number of seat hold attempts",
		},
		[]string{"result"},
	)

	// TicketTransitions counts lifecycle transitions by target status and result
	TicketTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "reservations",
			Name:      "ticket_transitions_total",
			Help:      "The total number of ticket status transition attempts",
		},
		[]string{"to", "result"},
	)

	// PassengerResolutions counts identity resolutions by outcome (existing, created, raced)
	PassengerResolutions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "reservations",
			Name:      "passenger_resolutions_total",
			Help:      "The total number of passenger identity resolutions",
		},
		[]string{"outcome"},
	)
)

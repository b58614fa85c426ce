// Package metrics exposes prometheus collectors for the messaging core.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Registrations counts successful identity registrations.
	Registrations = promauto.NewCounter(prometheus.CounterOpts{
		Name: "msgdesk_registrations_total",
		Help: "Successful identity registrations.",
	})

	// Logins counts successful authentications.
	Logins = promauto.NewCounter(prometheus.CounterOpts{
		Name: "msgdesk_logins_total",
		Help: "Successful authentications.",
	})

	// MessagesSent counts accepted conversation messages.
	MessagesSent = promauto.NewCounter(prometheus.CounterOpts{
		Name: "msgdesk_messages_sent_total",
		Help: "Accepted conversation messages.",
	})

	// TicketsSubmitted counts accepted support tickets.
	TicketsSubmitted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "msgdesk_tickets_submitted_total",
		Help: "Accepted support tickets.",
	})

	// ModerationActions counts administrator mutations by action
	// (ban, unban, delete_message, delete_ticket).
	ModerationActions = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "msgdesk_moderation_actions_total",
		Help: "Administrator moderation actions.",
	}, []string{"action"})

	// LiveSubscriptions tracks open subscription streams by kind
	// (directory, conversation, tickets).
	LiveSubscriptions = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "msgdesk_live_subscriptions",
		Help: "Open subscription streams.",
	}, []string{"stream"})
)

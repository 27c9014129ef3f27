package metrics

import "github.com/prometheus/client_golang/prometheus"

func init() {
	register(
		chatRepliesTotal,
		emergencyBlocksTotal,
		sessionsTotal,
		messagesTotal,
		repliesDropped,
	)
}

var (
	chatRepliesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "chat_replies_total",
			Help: "Bot replies by outcome (ok/emergency/fallback/error).",
		},
		[]string{"outcome"},
	)

	emergencyBlocksTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "chat_emergency_blocks_total",
			Help: "Messages answered by the emergency short-circuit without a model call.",
		},
	)

	sessionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "chat_sessions_total",
			Help: "Session lifecycle events (created/deleted).",
		},
		[]string{"event"},
	)

	messagesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "chat_messages_total",
			Help: "Messages appended to the store by sender.",
		},
		[]string{"sender"},
	)

	repliesDropped = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "chat_replies_dropped_total",
			Help: "Replies that resolved after their session was deleted.",
		},
	)
)

func IncReply(outcome string) {
	chatRepliesTotal.WithLabelValues(norm(outcome)).Inc()
}

func IncEmergencyBlock() {
	emergencyBlocksTotal.Inc()
	chatRepliesTotal.WithLabelValues("emergency").Inc()
}

func IncSession(event string) {
	sessionsTotal.WithLabelValues(norm(event)).Inc()
}

func IncMessage(sender string) {
	messagesTotal.WithLabelValues(norm(sender)).Inc()
}

func IncReplyDropped() {
	repliesDropped.Inc()
}

package metrics

import "github.com/prometheus/client_golang/prometheus"

// ChatMetrics counts chat delivery activity.
type ChatMetrics struct {
	messagesSent      prometheus.Counter
	polls             *prometheus.CounterVec
	broadcastFailures *prometheus.CounterVec
}

func NewChatMetrics(reg prometheus.Registerer) *ChatMetrics {
	m := &ChatMetrics{
		messagesSent: prometheus.NewCounter(
			prometheus.CounterOpts{Name: "chat_messages_sent_total", Help: "Chat messages persisted."},
		),
		polls: prometheus.NewCounterVec(
			prometheus.CounterOpts{Name: "chat_polls_total", Help: "check-new polls by whether they delivered messages."},
			[]string{"result"},
		),
		broadcastFailures: prometheus.NewCounterVec(
			prometheus.CounterOpts{Name: "chat_broadcast_failures_total", Help: "Failed push broadcasts."},
			[]string{"driver"},
		),
	}
	reg.MustRegister(m.messagesSent, m.polls, m.broadcastFailures)
	return m
}

func (m *ChatMetrics) MessageSent() {
	m.messagesSent.Inc()
}

func (m *ChatMetrics) PollCompleted(delivered int) {
	result := "empty"
	if delivered > 0 {
		result = "delivered"
	}
	m.polls.WithLabelValues(result).Inc()
}

func (m *ChatMetrics) BroadcastFailed(driver string) {
	m.broadcastFailures.WithLabelValues(driver).Inc()
}

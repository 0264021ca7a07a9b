package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// HTTP Metrics
var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameHTTPRequestsTotal,
			Help: HelpTextHTTPRequestsTotal,
		},
		[]string{LabelMethod, LabelPath, LabelStatus},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    MetricNameHTTPRequestDuration,
			Help:    HelpTextHTTPRequestDuration,
			Buckets: HTTPLatencyBuckets,
		},
		[]string{LabelMethod, LabelPath},
	)

	HTTPRequestsInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: MetricNameHTTPRequestsInFlight,
			Help: HelpTextHTTPRequestsInFlight,
		},
	)
)

// Event Metrics
var (
	EventsPublished = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameEventsPublished,
			Help: HelpTextEventsPublished,
		},
		[]string{LabelType},
	)

	EventHandlerErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameEventHandlerErrors,
			Help: HelpTextEventHandlerErrors,
		},
		[]string{LabelType},
	)
)

// Pool Metrics
var (
	Entries = promauto.NewCounterVec(
		prometheus.CounterOpts{Name: MetricNameEntries, Help: HelpTextEntries},
		[]string{LabelPool},
	)

	EntryValue = promauto.NewCounterVec(
		prometheus.CounterOpts{Name: MetricNameEntryValue, Help: HelpTextEntryValue},
		[]string{LabelPool},
	)

	DrawsRequested = promauto.NewCounterVec(
		prometheus.CounterOpts{Name: MetricNameDrawsRequested, Help: HelpTextDrawsRequested},
		[]string{LabelPool},
	)

	WinnersPicked = promauto.NewCounterVec(
		prometheus.CounterOpts{Name: MetricNameWinnersPicked, Help: HelpTextWinnersPicked},
		[]string{LabelPool},
	)

	PayoutFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{Name: MetricNamePayoutFailures, Help: HelpTextPayoutFailures},
		[]string{LabelPool},
	)

	DrawsReset = promauto.NewCounterVec(
		prometheus.CounterOpts{Name: MetricNameDrawsReset, Help: HelpTextDrawsReset},
		[]string{LabelPool},
	)

	RejectedCalls = promauto.NewCounterVec(
		prometheus.CounterOpts{Name: MetricNameRejectedCalls, Help: HelpTextRejectedCalls},
		[]string{LabelOperation, LabelReason},
	)

	// Wei amounts are exported as float64 and lose precision above 2^53.
	PoolBalance = promauto.NewGaugeVec(
		prometheus.GaugeOpts{Name: MetricNamePoolBalance, Help: HelpTextPoolBalance},
		[]string{LabelPool},
	)

	PoolParticipants = promauto.NewGaugeVec(
		prometheus.GaugeOpts{Name: MetricNamePoolParticipants, Help: HelpTextPoolParticipants},
		[]string{LabelPool},
	)

	LastPayout = promauto.NewGaugeVec(
		prometheus.GaugeOpts{Name: MetricNameLastPayout, Help: HelpTextLastPayout},
		[]string{LabelPool},
	)

	KeeperRuns = promauto.NewCounterVec(
		prometheus.CounterOpts{Name: MetricNameKeeperRuns, Help: HelpTextKeeperRuns},
		[]string{LabelOutcome},
	)

	OracleFulfillments = promauto.NewCounterVec(
		prometheus.CounterOpts{Name: MetricNameOracleFulfillments, Help: HelpTextOracleFulfillments},
		[]string{LabelOutcome},
	)
)

// ObserveKeeperRun records one keeper tick
func ObserveKeeperRun(outcome string) {
	KeeperRuns.WithLabelValues(outcome).Inc()
}

// ObserveFulfillment records one oracle delivery attempt
func ObserveFulfillment(outcome string) {
	OracleFulfillments.WithLabelValues(outcome).Inc()
}

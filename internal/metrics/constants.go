package metrics

// ============================================================================
// Metric Names
// ============================================================================

// HTTP metric names
const (
	MetricNameHTTPRequestsTotal    = "http_requests_total"
	MetricNameHTTPRequestDuration  = "http_request_duration_seconds"
	MetricNameHTTPRequestsInFlight = "http_requests_in_flight"
)

// Event metric names
const (
	MetricNameEventsPublished    = "events_published_total"
	MetricNameEventHandlerErrors = "event_handler_errors_total"
)

// Pool metric names
const (
	MetricNameEntries            = "lotto_entries_total"
	MetricNameEntryValue         = "lotto_entry_value_wei_total"
	MetricNameDrawsRequested     = "lotto_draws_requested_total"
	MetricNameWinnersPicked      = "lotto_winners_picked_total"
	MetricNamePayoutFailures     = "lotto_payout_failures_total"
	MetricNameDrawsReset         = "lotto_draws_reset_total"
	MetricNameRejectedCalls      = "lotto_rejected_calls_total"
	MetricNamePoolBalance        = "lotto_pool_balance_wei"
	MetricNamePoolParticipants   = "lotto_pool_participants"
	MetricNameLastPayout         = "lotto_last_payout_wei"
	MetricNameKeeperRuns         = "lotto_keeper_runs_total"
	MetricNameOracleFulfillments = "lotto_oracle_fulfillments_total"
)

// ============================================================================
// Metric Help Text
// ============================================================================

// HTTP metric help text
const (
	HelpTextHTTPRequestsTotal    = "Total number of HTTP requests"
	HelpTextHTTPRequestDuration  = "HTTP request latency in seconds"
	HelpTextHTTPRequestsInFlight = "Current number of HTTP requests being served"
)

// Event metric help text
const (
	HelpTextEventsPublished    = "Total number of events published"
	HelpTextEventHandlerErrors = "Total number of event handler errors"
)

// Pool metric help text
const (
	HelpTextEntries            = "Total number of accepted entries"
	HelpTextEntryValue         = "Total value entered into the pool in wei"
	HelpTextDrawsRequested     = "Total number of randomness requests issued"
	HelpTextWinnersPicked      = "Total number of settled draws"
	HelpTextPayoutFailures     = "Total number of payouts rejected by the winner"
	HelpTextDrawsReset         = "Total number of stuck draws abandoned by an operator"
	HelpTextRejectedCalls      = "Total number of pool operations rejected, by operation and reason"
	HelpTextPoolBalance        = "Current pool balance in wei"
	HelpTextPoolParticipants   = "Current number of participant slots"
	HelpTextLastPayout         = "Amount paid to the most recent winner in wei"
	HelpTextKeeperRuns         = "Total number of keeper ticks by outcome"
	HelpTextOracleFulfillments = "Total number of oracle deliveries by outcome"
)

// ============================================================================
// Metric Label Names
// ============================================================================

const (
	LabelMethod    = "method"
	LabelPath      = "path"
	LabelStatus    = "status"
	LabelType      = "type"
	LabelPool      = "pool"
	LabelOperation = "operation"
	LabelReason    = "reason"
	LabelOutcome   = "outcome"
)

// Operation label values for rejected calls
const (
	OperationEnter         = "enter"
	OperationPerformUpkeep = "perform_upkeep"
	OperationFulfill       = "fulfill"
	OperationResetDraw     = "reset_draw"
)

// ReasonOther labels rejections that do not map to a known pool error
const ReasonOther = "other"

// ============================================================================
// Histogram Buckets
// ============================================================================

// HTTPLatencyBuckets defines the histogram buckets for HTTP request duration
// in seconds, from 1ms to 10s.
var HTTPLatencyBuckets = []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10}

// ============================================================================
// Log Messages
// ============================================================================

const (
	LogMsgEventPayloadInvalid = "Event payload could not be decoded"
	LogMsgMetricsRecorded     = "Metrics recorded for event"
	LogMsgAmountUnparseable   = "Amount in event payload is not a decimal integer"
)

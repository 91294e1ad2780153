package performance

import "time"

// FilterMode controls how a caller-supplied interviewer list is applied.
type FilterMode string

const (
	FilterInclude FilterMode = "include"
	FilterExclude FilterMode = "exclude"
)

// Request asks for one campaign's reconciled performance.
//
// FromDate/ToDate are calendar dates (YYYY-MM-DD) interpreted in the fixed
// campaign time zone; both must be set or both empty.
//
// AccessInterviewerIDs is the access-control-resolved allow-list: nil means
// the caller sees everything, an empty non-nil slice means the caller manages
// nobody and gets an all-zero result.
type Request struct {
	CampaignID string `json:"campaign_id"`

	FromDate string `json:"from_date,omitempty"`
	ToDate   string `json:"to_date,omitempty"`

	InterviewerIDs []string   `json:"interviewer_ids,omitempty"`
	Mode           FilterMode `json:"mode,omitempty"`

	AccessInterviewerIDs []string `json:"-"`
}

// PerformanceRow is one interviewer's derived metric set for a request.
// Recomputed per request, never persisted.
type PerformanceRow struct {
	Seq int `json:"seq"`

	InterviewerID string `json:"interviewer_id"`
	Name          string `json:"name,omitempty"`
	Phone         string `json:"phone,omitempty"`
	MemberID      string `json:"member_id,omitempty"`

	// DialsAttempted counts every submitted response, including abandoned
	// ones. Intentionally broader than counting CallAttempt records, which
	// may be missing for some dials.
	DialsAttempted int `json:"dials_attempted"`
	CallsConnected int `json:"calls_connected"`

	Completed         int `json:"completed"`
	Approved          int `json:"approved"`
	Rejected          int `json:"rejected"`
	UnderReviewQueue  int `json:"under_review_queue"`
	ProcessingInBatch int `json:"processing_in_batch"`
	Incomplete        int `json:"incomplete"`

	// FormDuration sums time spent on completed responses, as H:MM:SS.
	FormDuration        string `json:"form_duration"`
	FormDurationSeconds int    `json:"form_duration_seconds"`

	// Ringing and NotRinging overlap on switched_off: a phone found off
	// rang on the interviewer's side and still counts as unreachable.
	Ringing    int `json:"ringing"`
	NotRinging int `json:"not_ringing"`

	CallNotReceivedToTelecaller int `json:"call_not_received_to_telecaller"`

	SwitchOff          int `json:"switch_off"`
	NumberNotReachable int `json:"number_not_reachable"`
	NumberDoesNotExist int `json:"number_doesnt_exist"`

	// NoResponseByTelecaller is derived from call-attempt records, not
	// responses: attempts where the originating side hung up or the
	// provider reported code 7.
	NoResponseByTelecaller int `json:"no_response_by_telecaller"`
}

// CallerPerformance is the campaign-wide dialing summary.
type CallerPerformance struct {
	TotalDials       int    `json:"total_dials"`
	CallsAttended    int    `json:"calls_attended"`
	CallsConnected   int    `json:"calls_connected"`
	TotalTalkSeconds int    `json:"total_talk_seconds"`
	TotalTalkTime    string `json:"total_talk_time"`
}

// NumberStatus summarizes respondent-number health.
// Ringing is net of NotRinging; the switched_off overlap cancels out.
type NumberStatus struct {
	CallNotReceived int `json:"call_not_received"`
	Ringing         int `json:"ringing"`
	NotRinging      int `json:"not_ringing"`
}

// RingStatus splits in-scope responses into connected and not.
type RingStatus struct {
	Connected    int `json:"connected"`
	NotConnected int `json:"not_connected"`
}

// AttemptSummary is one raw call-attempt line for drill-down display.
type AttemptSummary struct {
	ID              string    `json:"id"`
	FromNumber      string    `json:"from_number"`
	ToNumber        string    `json:"to_number"`
	Outcome         string    `json:"outcome"`
	InterviewerName string    `json:"interviewer_name,omitempty"`
	DurationSeconds int       `json:"duration_seconds"`
	CreatedAt       time.Time `json:"created_at"`
}

// CampaignReport is the full reconciled result for one request.
type CampaignReport struct {
	CampaignID string `json:"campaign_id"`
	FromDate   string `json:"from_date,omitempty"`
	ToDate     string `json:"to_date,omitempty"`

	CallerPerformance CallerPerformance `json:"caller_performance"`
	NumberStatus      NumberStatus      `json:"number_status"`
	RingStatus        RingStatus        `json:"ring_status"`

	Rows []PerformanceRow `json:"rows"`

	// CallLog is a bounded sample of raw attempts for drill-down.
	CallLog []AttemptSummary `json:"call_log"`

	// TotalCallRecords is the deduplicated attempt count across both
	// discovery paths, reported for diagnostics.
	TotalCallRecords int `json:"total_call_records"`
}

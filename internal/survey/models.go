package survey

import "time"

// InterviewResponse is one interview record produced by an interviewer for
// one respondent. Approval transitions are made by the quality-review
// pipeline; this package only reads the current state.
type InterviewResponse struct {
	ID         string `json:"id" db:"id"`
	CampaignID string `json:"campaign_id" db:"campaign_id"`

	InterviewerID    string `json:"interviewer_id" db:"interviewer_id"`
	InterviewerName  string `json:"interviewer_name,omitempty" db:"interviewer_name"`
	InterviewerPhone string `json:"interviewer_phone,omitempty" db:"interviewer_phone"`
	MemberID         string `json:"member_id,omitempty" db:"member_id"`

	Mode InterviewMode `json:"mode" db:"mode"`

	// ApprovalStatus is stored as free text by the review pipeline
	// ("Approved", "rejected", "pending_qc", ...); read via ParseApproval.
	ApprovalStatus string `json:"approval_status,omitempty" db:"approval_status"`

	// CallOutcome is the dedicated call-outcome field. Older records carry
	// the label in Metadata.CallStatus or buried in the answer list; the
	// resolver in outcome.go walks that priority chain.
	CallOutcome string           `json:"call_outcome,omitempty" db:"call_outcome"`
	Metadata    ResponseMetadata `json:"metadata,omitempty" db:"metadata"`
	Answers     []Answer         `json:"answers,omitempty" db:"answers"`

	TotalTimeSpentSeconds int `json:"total_time_spent_seconds" db:"total_time_spent_seconds"`

	BatchID          string `json:"batch_id,omitempty" db:"batch_id"`
	IsSampleResponse bool   `json:"is_sample_response" db:"is_sample_response"`

	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

type InterviewMode string

const (
	ModeTelephonic InterviewMode = "telephonic"
	ModeInPerson   InterviewMode = "in_person"
)

// ResponseMetadata carries legacy fields kept for older records.
type ResponseMetadata struct {
	CallStatus string `json:"call_status,omitempty"`
}

// Answer is one entry of the free-form question/answer list.
type Answer struct {
	QuestionID string `json:"question_id"`
	Question   string `json:"question,omitempty"`
	Value      string `json:"value"`
}

type ApprovalStatus string

const (
	ApprovalNone      ApprovalStatus = ""
	ApprovalPendingQC ApprovalStatus = "pending_qc"
	ApprovalApproved  ApprovalStatus = "approved"
	ApprovalRejected  ApprovalStatus = "rejected"
)

// Batch is a quality-control grouping of pending responses. A sampled subset
// of the batch goes through review first; RemainingDecision says what happens
// to the rest once the sample has a preliminary status.
type Batch struct {
	ID     string      `json:"id" db:"id"`
	Status BatchStatus `json:"status" db:"status"`

	RemainingDecision BatchStatus `json:"remaining_decision,omitempty" db:"remaining_decision"`
}

type BatchStatus string

const (
	BatchCollecting  BatchStatus = "collecting"
	BatchQueuedForQC BatchStatus = "queued_for_qc"
	BatchProcessing  BatchStatus = "processing"
	BatchCompleted   BatchStatus = "completed"
)

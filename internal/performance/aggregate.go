package performance

import (
	"fmt"

	"cati-platform/internal/calls"
	"cati-platform/internal/survey"
)

// ringingLabels are outcomes where the interviewer's side picked up,
// including phones later found switched off.
var ringingLabels = map[survey.OutcomeLabel]struct{}{
	survey.LabelCallConnected: {},
	survey.LabelBusy:          {},
	survey.LabelDidntPickUp:   {},
	survey.LabelSwitchedOff:   {},
}

// notRingingLabels are outcomes where the respondent number never rang.
// switched_off is deliberately in both sets; the campaign net subtraction
// cancels the overlap.
var notRingingLabels = map[survey.OutcomeLabel]struct{}{
	survey.LabelSwitchedOff:        {},
	survey.LabelNotReachable:       {},
	survey.LabelNumberDoesNotExist: {},
}

// rowBuilder accumulates PerformanceRows in discovery order. It is local to
// one request and needs no locking.
type rowBuilder struct {
	rows  map[string]*PerformanceRow
	order []string

	// phoneToInterviewer matches attempts that carry only an originating
	// number back to an interviewer.
	phoneToInterviewer map[string]string
}

func newRowBuilder() *rowBuilder {
	return &rowBuilder{
		rows:               make(map[string]*PerformanceRow),
		phoneToInterviewer: make(map[string]string),
	}
}

// row returns the interviewer's row, creating it on first sight.
func (b *rowBuilder) row(interviewerID string) *PerformanceRow {
	if r, ok := b.rows[interviewerID]; ok {
		return r
	}
	r := &PerformanceRow{Seq: len(b.order) + 1, InterviewerID: interviewerID}
	b.rows[interviewerID] = r
	b.order = append(b.order, interviewerID)
	return r
}

// observe fills display fields from whichever source showed up first;
// later sources only fill gaps, never overwrite.
func (b *rowBuilder) observe(interviewerID, name, phone, memberID string) {
	r := b.row(interviewerID)
	if r.Name == "" {
		r.Name = name
	}
	if r.Phone == "" {
		r.Phone = phone
	}
	if r.MemberID == "" {
		r.MemberID = memberID
	}
	if phone != "" {
		if _, ok := b.phoneToInterviewer[phone]; !ok {
			b.phoneToInterviewer[phone] = interviewerID
		}
	}
}

// interviewerFor resolves an attempt to an interviewer id, preferring the
// direct reference and falling back to the originating-number map.
func (b *rowBuilder) interviewerFor(a calls.CallAttempt) string {
	if a.HasInterviewer() {
		return a.InterviewerID
	}
	return b.phoneToInterviewer[a.FromNumber]
}

// finalize renders derived fields and returns rows in discovery order.
func (b *rowBuilder) finalize() []PerformanceRow {
	out := make([]PerformanceRow, 0, len(b.order))
	for _, id := range b.order {
		r := b.rows[id]
		r.FormDuration = FormatDuration(r.FormDurationSeconds)
		out = append(out, *r)
	}
	return out
}

// countResponse applies one classified response to its interviewer's row.
func countResponse(r *PerformanceRow, label survey.OutcomeLabel, bucket survey.CompletionBucket, timeSpentSeconds int) {
	r.DialsAttempted++

	if label.Connected() {
		r.CallsConnected++
	}
	if _, ok := ringingLabels[label]; ok {
		r.Ringing++
	}
	if _, ok := notRingingLabels[label]; ok {
		r.NotRinging++
	}

	switch label {
	case survey.LabelSwitchedOff:
		r.SwitchOff++
	case survey.LabelNotReachable:
		r.NumberNotReachable++
	case survey.LabelNumberDoesNotExist:
		r.NumberDoesNotExist++
	case survey.LabelDidntGetCall:
		r.CallNotReceivedToTelecaller++
	}

	switch bucket {
	case survey.BucketApproved:
		r.Approved++
	case survey.BucketRejected:
		r.Rejected++
	case survey.BucketUnderReviewQueue:
		r.UnderReviewQueue++
	case survey.BucketProcessingInBatch:
		r.ProcessingInBatch++
	case survey.BucketIncomplete:
		r.Incomplete++
	}
	if bucket.Completed() {
		r.Completed++
		r.FormDurationSeconds += timeSpentSeconds
	}
}

// responseTotals are campaign-level counters computed straight from
// responses, independent of the row map. They back the fallback path when
// interviewer rows are empty and the drift check on connected counts.
type responseTotals struct {
	dials           int
	connected       int
	ringing         int
	notRinging      int
	callNotReceived int
	talkSeconds     int
}

func (t *responseTotals) count(label survey.OutcomeLabel, timeSpentSeconds int) {
	t.dials++
	t.talkSeconds += timeSpentSeconds
	if label.Connected() {
		t.connected++
	}
	if _, ok := ringingLabels[label]; ok {
		t.ringing++
	}
	if _, ok := notRingingLabels[label]; ok {
		t.notRinging++
	}
	if label == survey.LabelDidntGetCall {
		t.callNotReceived++
	}
}

// FormatDuration renders seconds as H:MM:SS without a padded hour.
func FormatDuration(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	return fmt.Sprintf("%d:%02d:%02d", seconds/3600, (seconds%3600)/60, seconds%60)
}

// preferNonZero picks the row-based aggregate when it carries signal, else
// the response-level computation. The row path is preferred because it
// already respects interviewer-level access scope.
func preferNonZero(rowBased, responseLevel int) int {
	if rowBased != 0 {
		return rowBased
	}
	return responseLevel
}

package telephony

import (
	"strconv"
	"strings"

	"cati-platform/internal/calls"
)

// CanonicalOutcome is the normalized result of a provider status code.
type CanonicalOutcome string

const (
	OutcomeCompleted CanonicalOutcome = "completed"
	OutcomeAnswered  CanonicalOutcome = "answered"
	OutcomeNoAnswer  CanonicalOutcome = "no_answer"
	OutcomeCancelled CanonicalOutcome = "cancelled"
	OutcomeFailed    CanonicalOutcome = "failed"
	OutcomeBusy      CanonicalOutcome = "busy"
	OutcomeUnknown   CanonicalOutcome = "unknown"
)

// NumberCategory refines failed/no-answer outcomes using hangup metadata.
type NumberCategory string

const (
	NumberSwitchedOff  NumberCategory = "switched_off"
	NumberNotReachable NumberCategory = "not_reachable"
	NumberDoesNotExist NumberCategory = "number_doesnt_exist"
	NumberNone         NumberCategory = "none"
)

// StatusInput carries everything the provider reported about one attempt.
type StatusInput struct {
	// Code is the provider status, an integer or numeric string.
	Code string

	HangupCause       string
	HangupReason      string
	StatusDescription string

	// StoredOutcome is a label persisted by earlier processing, used as the
	// fallback for unrecognized codes.
	StoredOutcome string
}

// NormalizedStatus is the canonical view of a provider status report.
type NormalizedStatus struct {
	Outcome CanonicalOutcome

	// OriginatorAnswered is true when the interviewer's leg was answered,
	// regardless of what happened to the respondent leg.
	OriginatorAnswered bool

	NumberCategory NumberCategory
}

// NormalizeStatus maps a provider status code to a canonical outcome.
//
// The code table is fixed provider behavior and must not drift:
//
//	3            completed (both parties answered)
//	4, 5, 10     answered
//	6, 7, 8, 9   no_answer
//	11,12,20,21  cancelled
//	13,14,15,16  failed
//	18           failed, number does not exist
//	17, 19       busy
//
// Unrecognized or non-numeric codes fall back to the stored outcome label
// when present, else unknown. Normalization never fails.
//
// failedDefault is the category applied to failed codes 13/15/16 when the
// hangup text gives no hint; pass NumberNone to disable the default.
func NormalizeStatus(in StatusInput, failedDefault NumberCategory) NormalizedStatus {
	out := NormalizedStatus{Outcome: OutcomeUnknown, NumberCategory: NumberNone}

	code, err := strconv.Atoi(strings.TrimSpace(in.Code))
	if err != nil {
		out.Outcome = storedFallback(in.StoredOutcome)
		return out
	}

	out.OriginatorAnswered = originatorAnswered(code)

	switch code {
	case 3:
		out.Outcome = OutcomeCompleted
	case 4, 5, 10:
		out.Outcome = OutcomeAnswered
	case 6, 7, 8, 9:
		out.Outcome = OutcomeNoAnswer
	case 11, 12, 20, 21:
		out.Outcome = OutcomeCancelled
	case 13, 14, 15, 16:
		out.Outcome = OutcomeFailed
	case 18:
		out.Outcome = OutcomeFailed
		out.NumberCategory = NumberDoesNotExist
	case 17, 19:
		out.Outcome = OutcomeBusy
	default:
		out.Outcome = storedFallback(in.StoredOutcome)
		return out
	}

	switch code {
	case 13, 15, 16:
		out.NumberCategory = categoryFromHints(in, failedDefault)
	case 7, 8, 9:
		// No-answer codes take a category only when the text names one.
		out.NumberCategory = categoryFromHints(in, NumberNone)
	}
	return out
}

// NormalizeAttempt is NormalizeStatus applied to a stored call attempt.
func NormalizeAttempt(a calls.CallAttempt, failedDefault NumberCategory) NormalizedStatus {
	return NormalizeStatus(StatusInput{
		Code:              a.StatusCode,
		HangupCause:       a.HangupCause,
		HangupReason:      a.HangupReason,
		StatusDescription: a.StatusDescription,
		StoredOutcome:     a.StoredOutcome,
	}, failedDefault)
}

// originatorAnswered holds for the codes where the interviewer's leg picked
// up, whatever the respondent leg's fate.
func originatorAnswered(code int) bool {
	switch code {
	case 3, 6, 10, 14, 16:
		return true
	default:
		return false
	}
}

func categoryFromHints(in StatusInput, fallback NumberCategory) NumberCategory {
	hint := strings.ToLower(in.HangupCause + " " + in.HangupReason + " " + in.StatusDescription)
	switch {
	case strings.Contains(hint, "switch"):
		return NumberSwitchedOff
	case strings.Contains(hint, "not reachable"):
		return NumberNotReachable
	default:
		return fallback
	}
}

func storedFallback(stored string) CanonicalOutcome {
	switch CanonicalOutcome(strings.ToLower(strings.TrimSpace(stored))) {
	case OutcomeCompleted:
		return OutcomeCompleted
	case OutcomeAnswered:
		return OutcomeAnswered
	case OutcomeNoAnswer:
		return OutcomeNoAnswer
	case OutcomeCancelled:
		return OutcomeCancelled
	case OutcomeFailed:
		return OutcomeFailed
	case OutcomeBusy:
		return OutcomeBusy
	default:
		return OutcomeUnknown
	}
}

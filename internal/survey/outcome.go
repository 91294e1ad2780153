package survey

import "strings"

// OutcomeLabel is the interview-reported classification of how a call went.
// This vocabulary is independent of the provider's numeric status codes and
// the two must never be conflated.
type OutcomeLabel string

const (
	LabelCallConnected      OutcomeLabel = "call_connected"
	LabelBusy               OutcomeLabel = "busy"
	LabelDidntPickUp        OutcomeLabel = "didnt_pick_up"
	LabelSwitchedOff        OutcomeLabel = "switched_off"
	LabelNotReachable       OutcomeLabel = "not_reachable"
	LabelNumberDoesNotExist OutcomeLabel = "number_doesnt_exist"
	LabelDidntGetCall       OutcomeLabel = "didnt_get_call"
	LabelUnknown            OutcomeLabel = "unknown"
)

// CallStatusQuestionID identifies the answer-list question that carries the
// call status on records predating the dedicated field.
const CallStatusQuestionID = "call_status"

// Connected reports whether the respondent actually picked up and the
// interview could start.
func (l OutcomeLabel) Connected() bool { return l == LabelCallConnected }

// labelSource is one candidate location for the call-outcome label.
// Sources are tried in order; the first non-empty value wins.
type labelSource func(r InterviewResponse) string

var labelSources = []labelSource{
	func(r InterviewResponse) string { return r.CallOutcome },
	func(r InterviewResponse) string { return r.Metadata.CallStatus },
	func(r InterviewResponse) string {
		for _, a := range r.Answers {
			if a.QuestionID == CallStatusQuestionID {
				return a.Value
			}
		}
		return ""
	},
}

// ResolveOutcomeLabel derives exactly one label per response: dedicated
// field, then legacy metadata, then the answer list. Responses with no
// candidate value resolve to unknown, never an error.
func ResolveOutcomeLabel(r InterviewResponse) OutcomeLabel {
	for _, src := range labelSources {
		if v := strings.TrimSpace(src(r)); v != "" {
			return NormalizeLabel(v)
		}
	}
	return LabelUnknown
}

// NormalizeLabel folds a raw label into the canonical vocabulary.
// "success" and "call_connected" are synonyms and fold together; spelling
// variants from older clients are tolerated.
func NormalizeLabel(raw string) OutcomeLabel {
	v := strings.ToLower(strings.TrimSpace(raw))
	v = strings.ReplaceAll(v, "-", "_")
	v = strings.ReplaceAll(v, " ", "_")

	switch v {
	case "call_connected", "success":
		return LabelCallConnected
	case "busy":
		return LabelBusy
	case "didnt_pick_up", "didnt_pickup", "did_not_pick_up", "no_answer":
		return LabelDidntPickUp
	case "switched_off", "switch_off", "switch_offf":
		return LabelSwitchedOff
	case "not_reachable", "number_not_reachable":
		return LabelNotReachable
	case "number_doesnt_exist", "number_does_not_exist", "doesnt_exist":
		return LabelNumberDoesNotExist
	case "didnt_get_call", "didnt_get_the_call", "call_not_received":
		return LabelDidntGetCall
	default:
		return LabelUnknown
	}
}

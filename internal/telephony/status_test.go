package telephony

import "testing"

func TestNormalizeStatus_CodeTable(t *testing.T) {
	cases := []struct {
		code    string
		outcome CanonicalOutcome
	}{
		{"3", OutcomeCompleted},
		{"4", OutcomeAnswered},
		{"5", OutcomeAnswered},
		{"10", OutcomeAnswered},
		{"6", OutcomeNoAnswer},
		{"7", OutcomeNoAnswer},
		{"8", OutcomeNoAnswer},
		{"9", OutcomeNoAnswer},
		{"11", OutcomeCancelled},
		{"12", OutcomeCancelled},
		{"20", OutcomeCancelled},
		{"21", OutcomeCancelled},
		{"13", OutcomeFailed},
		{"14", OutcomeFailed},
		{"15", OutcomeFailed},
		{"16", OutcomeFailed},
		{"18", OutcomeFailed},
		{"17", OutcomeBusy},
		{"19", OutcomeBusy},
	}
	for _, tc := range cases {
		got := NormalizeStatus(StatusInput{Code: tc.code}, NumberNone)
		if got.Outcome != tc.outcome {
			t.Fatalf("code %s: got %q, want %q", tc.code, got.Outcome, tc.outcome)
		}
	}
}

func TestNormalizeStatus_OriginatorAnsweredSet(t *testing.T) {
	answered := map[string]bool{
		"3": true, "6": true, "10": true, "14": true, "16": true,
		"4": false, "5": false, "7": false, "8": false, "9": false,
		"11": false, "12": false, "13": false, "15": false, "17": false,
		"18": false, "19": false, "20": false, "21": false,
	}
	for code, want := range answered {
		got := NormalizeStatus(StatusInput{Code: code}, NumberNone)
		if got.OriginatorAnswered != want {
			t.Fatalf("code %s: originator answered = %v, want %v", code, got.OriginatorAnswered, want)
		}
	}
}

func TestNormalizeStatus_DoesNotExistCode(t *testing.T) {
	got := NormalizeStatus(StatusInput{Code: "18"}, NumberNone)
	if got.NumberCategory != NumberDoesNotExist {
		t.Fatalf("code 18: got category %q", got.NumberCategory)
	}
}

func TestNormalizeStatus_HangupTextHints(t *testing.T) {
	got := NormalizeStatus(StatusInput{Code: "13", HangupCause: "SWITCHED OFF"}, NumberNotReachable)
	if got.NumberCategory != NumberSwitchedOff {
		t.Fatalf("switch hint: got %q", got.NumberCategory)
	}

	got = NormalizeStatus(StatusInput{Code: "15", HangupReason: "subscriber not reachable"}, NumberNone)
	if got.NumberCategory != NumberNotReachable {
		t.Fatalf("not-reachable hint: got %q", got.NumberCategory)
	}

	// No hint on a failed code: the configured default applies.
	got = NormalizeStatus(StatusInput{Code: "16"}, NumberNotReachable)
	if got.NumberCategory != NumberNotReachable {
		t.Fatalf("failed default: got %q", got.NumberCategory)
	}

	// No hint on a no-answer code: no category.
	got = NormalizeStatus(StatusInput{Code: "7"}, NumberNotReachable)
	if got.NumberCategory != NumberNone {
		t.Fatalf("no-answer without hint: got %q", got.NumberCategory)
	}

	// Hint on a no-answer code is honored.
	got = NormalizeStatus(StatusInput{Code: "8", StatusDescription: "handset switch off"}, NumberNone)
	if got.NumberCategory != NumberSwitchedOff {
		t.Fatalf("no-answer with switch hint: got %q", got.NumberCategory)
	}
}

func TestNormalizeStatus_FallbackNeverPanics(t *testing.T) {
	cases := []StatusInput{
		{Code: "999"},
		{Code: "abc"},
		{Code: ""},
		{Code: "2", StoredOutcome: "Busy"},
		{Code: "xyz", StoredOutcome: " completed "},
		{Code: "xyz", StoredOutcome: "nonsense"},
	}
	wants := []CanonicalOutcome{
		OutcomeUnknown,
		OutcomeUnknown,
		OutcomeUnknown,
		OutcomeBusy,
		OutcomeCompleted,
		OutcomeUnknown,
	}
	for i, in := range cases {
		got := NormalizeStatus(in, NumberNone)
		if got.Outcome != wants[i] {
			t.Fatalf("case %d: got %q, want %q", i, got.Outcome, wants[i])
		}
	}
}

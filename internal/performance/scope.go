package performance

import (
	"fmt"
	"sort"
	"strings"
	"time"
)

const dateLayout = "2006-01-02"

// Scope restricts which records a request may see: an absolute time window
// plus interviewer allow/deny sets. It is computed once per request and
// re-checked before every counting step, so a mis-joined record can never
// leak across an access boundary.
type Scope struct {
	CampaignID string

	// From/To are absolute bounds; zero means unbounded on that side.
	From time.Time
	To   time.Time

	include map[string]struct{}
	exclude map[string]struct{}

	// empty marks a scope whose access allow-list resolved to nobody.
	// Components short-circuit to an all-zero result instead of silently
	// returning unfiltered data.
	empty bool
}

// BuildScope converts a request's calendar dates and interviewer filters
// into an absolute scope. Calendar dates are civil dates in zone: the window
// runs from local midnight of the start date through 23:59:59.999 of the end
// date.
//
// The access allow-list intersects a caller-supplied include list (never a
// union) and fully replaces an absent one. An empty access list forces an
// empty scope.
func BuildScope(req Request, zone *time.Location) (Scope, error) {
	s := Scope{CampaignID: req.CampaignID}

	if (req.FromDate == "") != (req.ToDate == "") {
		return Scope{}, fmt.Errorf("%w: date range requires both from and to", ErrInvalidRequest)
	}
	if req.FromDate != "" {
		from, err := time.ParseInLocation(dateLayout, req.FromDate, zone)
		if err != nil {
			return Scope{}, fmt.Errorf("%w: bad from date %q", ErrInvalidRequest, req.FromDate)
		}
		to, err := time.ParseInLocation(dateLayout, req.ToDate, zone)
		if err != nil {
			return Scope{}, fmt.Errorf("%w: bad to date %q", ErrInvalidRequest, req.ToDate)
		}
		if to.Before(from) {
			return Scope{}, fmt.Errorf("%w: to date before from date", ErrInvalidRequest)
		}
		s.From = from
		s.To = to.Add(24*time.Hour - time.Millisecond)
	}

	var include, exclude map[string]struct{}
	if len(req.InterviewerIDs) > 0 {
		set := toSet(req.InterviewerIDs)
		if req.Mode == FilterExclude {
			exclude = set
		} else {
			include = set
		}
	}

	if req.AccessInterviewerIDs != nil {
		access := toSet(req.AccessInterviewerIDs)
		if len(access) == 0 {
			return Scope{CampaignID: req.CampaignID, empty: true}, nil
		}
		if include == nil {
			include = access
		} else {
			include = intersect(include, access)
		}
		if len(include) == 0 {
			return Scope{CampaignID: req.CampaignID, empty: true}, nil
		}
	}

	s.include = include
	s.exclude = exclude
	return s, nil
}

// IsEmpty reports whether the scope resolved to nobody.
func (s Scope) IsEmpty() bool { return s.empty }

// AllowsInterviewer checks the interviewer filter. Records with no resolved
// interviewer are excluded whenever any interviewer restriction is active.
func (s Scope) AllowsInterviewer(id string) bool {
	if s.empty {
		return false
	}
	if s.exclude != nil && id != "" {
		if _, banned := s.exclude[id]; banned {
			return false
		}
	}
	if s.include != nil {
		if id == "" {
			return false
		}
		_, ok := s.include[id]
		return ok
	}
	return true
}

// Restricted reports whether any interviewer restriction is active.
func (s Scope) Restricted() bool { return s.include != nil || s.exclude != nil }

// InWindow checks the time window; zero timestamps pass so records with
// missing creation times degrade rather than disappear silently.
func (s Scope) InWindow(ts time.Time) bool {
	if s.empty {
		return false
	}
	if ts.IsZero() {
		return true
	}
	if !s.From.IsZero() && ts.Before(s.From) {
		return false
	}
	if !s.To.IsZero() && ts.After(s.To) {
		return false
	}
	return true
}

// Fingerprint is a stable digest of the scope, used in cache keys.
func (s Scope) Fingerprint() string {
	var b strings.Builder
	b.WriteString(s.CampaignID)
	b.WriteString("|")
	if !s.From.IsZero() {
		b.WriteString(s.From.UTC().Format(time.RFC3339))
	}
	b.WriteString("|")
	if !s.To.IsZero() {
		b.WriteString(s.To.UTC().Format(time.RFC3339))
	}
	b.WriteString("|i:")
	b.WriteString(strings.Join(sortedKeys(s.include), ","))
	b.WriteString("|x:")
	b.WriteString(strings.Join(sortedKeys(s.exclude), ","))
	if s.empty {
		b.WriteString("|empty")
	}
	return b.String()
}

func toSet(ids []string) map[string]struct{} {
	set := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		id = strings.TrimSpace(id)
		if id != "" {
			set[id] = struct{}{}
		}
	}
	return set
}

func intersect(a, b map[string]struct{}) map[string]struct{} {
	out := make(map[string]struct{})
	for k := range a {
		if _, ok := b[k]; ok {
			out[k] = struct{}{}
		}
	}
	return out
}

func sortedKeys(set map[string]struct{}) []string {
	if len(set) == 0 {
		return nil
	}
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

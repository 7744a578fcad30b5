package models

import "time"

// RecipientKind selects which roster a recipient belongs to
type RecipientKind string

const (
	KindCandidate   RecipientKind = "candidate"
	KindPanelMember RecipientKind = "panel"
)

// Valid reports whether k is a known recipient kind
func (k RecipientKind) Valid() bool {
	return k == KindCandidate || k == KindPanelMember
}

// Candidate is one row of the candidates roster, keyed by email
type Candidate struct {
	Email      string `json:"email"`
	Name       string `json:"name"`
	Skills     string `json:"skills"`
	Experience string `json:"experience"`
}

// PanelMember is one row of the panel roster, keyed by email
type PanelMember struct {
	Email     string `json:"email"`
	Name      string `json:"name"`
	Expertise string `json:"expertise"`
}

// ScheduleSlot is a computed interview assignment
type ScheduleSlot struct {
	Candidate string        `json:"candidate"`
	Name      string        `json:"name"`
	Start     time.Time     `json:"start"`
	Duration  time.Duration `json:"duration"`
}

// End returns the time the slot finishes
func (s ScheduleSlot) End() time.Time {
	return s.Start.Add(s.Duration)
}

// Outcome records the result of one notification
type Outcome struct {
	Recipient string        `json:"recipient"`
	Role      RecipientKind `json:"role"`
	Sent      bool          `json:"sent"`
	ErrorKind string        `json:"error_kind,omitempty"`
	Message   string        `json:"message"`
}

// ScheduleReport is the result of one scheduling run
type ScheduleReport struct {
	Group       string         `json:"group"`
	Panel       string         `json:"panel"`
	MeetingLink string         `json:"meeting_link"`
	Slots       []ScheduleSlot `json:"slots"`
	Outcomes    []Outcome      `json:"outcomes"`
	Timestamp   string         `json:"timestamp"`
}

// Failed counts the outcomes that were not sent
func (r ScheduleReport) Failed() int {
	n := 0
	for _, o := range r.Outcomes {
		if !o.Sent {
			n++
		}
	}
	return n
}

// BulkReport is the result of one bulk message run
type BulkReport struct {
	Successful int       `json:"successful"`
	Failed     int       `json:"failed"`
	Outcomes   []Outcome `json:"outcomes"`
}

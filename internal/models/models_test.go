package models

import (
	"testing"
	"time"
)

func TestRecipientKindValid(t *testing.T) {
	if !KindCandidate.Valid() || !KindPanelMember.Valid() {
		t.Error("Expected built-in kinds to be valid")
	}
	if RecipientKind("guest").Valid() {
		t.Error("Expected unknown kind to be invalid")
	}
}

func TestScheduleSlotEnd(t *testing.T) {
	start := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	slot := ScheduleSlot{Start: start, Duration: 45 * time.Minute}

	if want := start.Add(45 * time.Minute); !slot.End().Equal(want) {
		t.Errorf("Expected end %v, got %v", want, slot.End())
	}
}

func TestScheduleReportFailed(t *testing.T) {
	report := ScheduleReport{
		Outcomes: []Outcome{
			{Recipient: "a@example.com", Sent: true},
			{Recipient: "b@example.com", Sent: false},
			{Recipient: "c@example.com", Sent: false},
		},
	}

	if report.Failed() != 2 {
		t.Errorf("Expected 2 failed outcomes, got %d", report.Failed())
	}
}

package dispatch

import (
	"context"
	"errors"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fmuoria/interview-organizer/internal/apperrors"
	"github.com/fmuoria/interview-organizer/internal/models"
	"github.com/fmuoria/interview-organizer/internal/notify"
	"github.com/fmuoria/interview-organizer/internal/roster"
	"github.com/fmuoria/interview-organizer/internal/session"
)

type sentMail struct {
	To      string
	Subject string
	Body    string
	HTML    bool
}

type fakeMailer struct {
	sent []sentMail
	fail map[string]error
}

func (f *fakeMailer) SendEmail(_ context.Context, to, subject, body string, isHTML bool) (notify.Confirmation, error) {
	f.sent = append(f.sent, sentMail{To: to, Subject: subject, Body: body, HTML: isHTML})
	if err := f.fail[to]; err != nil {
		return notify.Confirmation{}, err
	}
	return notify.Confirmation{Recipient: to, Subject: subject}, nil
}

type countingRecorder struct {
	sent, failed int
}

func (c *countingRecorder) RecordNotification(_ string, sent bool, _ string) {
	if sent {
		c.sent++
	} else {
		c.failed++
	}
}

func testRoster(t *testing.T) *roster.Roster {
	t.Helper()
	r, err := roster.New(
		[]models.Candidate{
			{Email: "ada@example.com", Name: "Ada", Skills: "Go", Experience: "5 years"},
			{Email: "alan@example.com", Name: "Alan", Skills: "Python", Experience: "3 years"},
			{Email: "kat@example.com", Name: "Katherine", Skills: "Math", Experience: "10 years"},
			{Email: "anon@example.com"},
		},
		[]models.PanelMember{
			{Email: "grace@example.com", Name: "Grace", Expertise: "Compilers"},
			{Email: "edsger@example.com", Name: "Edsger", Expertise: "Algorithms"},
		},
	)
	require.NoError(t, err)
	return r
}

func testSession() *session.Session {
	s := session.New("test")
	s.CreateGroup("morning")
	s.AddToGroup("morning", "ada@example.com", "alan@example.com", "kat@example.com")
	s.CreateGroup("empty")
	s.CreatePanel("backend", []string{"grace@example.com", "edsger@example.com"})
	return s
}

func validRequest() ScheduleRequest {
	return ScheduleRequest{
		Group:           "morning",
		Panel:           "backend",
		StartDate:       "2024-03-15",
		StartTime:       "09:00",
		DurationMinutes: 30,
		MeetingLink:     "https://meet.example.com/abc",
	}
}

func TestPlanSlots(t *testing.T) {
	start := time.Date(2024, 3, 15, 9, 0, 0, 0, time.UTC)
	d := 45 * time.Minute
	candidates := []string{"a", "b", "c", "d"}

	slots := PlanSlots(candidates, strings.ToUpper, start, d)
	require.Len(t, slots, 4)
	for i, s := range slots {
		assert.Equal(t, candidates[i], s.Candidate)
		assert.Equal(t, strings.ToUpper(candidates[i]), s.Name)
		assert.True(t, s.Start.Equal(start.Add(time.Duration(i)*d)), "slot %d starts at %v", i, s.Start)
		if i > 0 {
			assert.True(t, s.Start.Equal(slots[i-1].End()), "slots are back to back")
		}
	}
	assert.Empty(t, PlanSlots(nil, strings.ToUpper, start, d))
}

func TestScheduleNotifiesCandidatesThenPanel(t *testing.T) {
	mailer := &fakeMailer{}
	rec := &countingRecorder{}
	d := New(testRoster(t), mailer, WithLocation(time.UTC), WithMetrics(rec))

	var progress []int
	req := validRequest()
	req.Progress = func(current, total int, _ string) {
		assert.Equal(t, 5, total)
		progress = append(progress, current)
	}

	report, err := d.Schedule(context.Background(), testSession(), req)
	require.NoError(t, err)

	require.Len(t, mailer.sent, 5)
	wantTimes := []string{"2024-03-15 09:00", "2024-03-15 09:30", "2024-03-15 10:00"}
	wantNames := []string{"Ada", "Alan", "Katherine"}
	for i, m := range mailer.sent[:3] {
		assert.Equal(t, CandidateSubject, m.Subject)
		assert.False(t, m.HTML)
		assert.Contains(t, m.Body, "Dear "+wantNames[i]+",")
		assert.Contains(t, m.Body, "Your interview has been scheduled for "+wantTimes[i]+".")
		assert.Contains(t, m.Body, "Duration: 30 minutes")
		assert.Contains(t, m.Body, "Panel: backend")
		assert.Contains(t, m.Body, "Meeting Link: https://meet.example.com/abc")
	}

	grace, edsger := mailer.sent[3], mailer.sent[4]
	assert.Equal(t, "grace@example.com", grace.To)
	assert.Equal(t, "edsger@example.com", edsger.To)
	assert.True(t, grace.HTML)
	assert.Equal(t, "Interview Schedule - March 15, 2024", grace.Subject)
	assert.Equal(t, grace.Body, edsger.Body, "every panel member gets the same itinerary")
	assert.Contains(t, grace.Body, "<td style=\"padding: 8px;\">09:30</td>")
	assert.Contains(t, grace.Body, "Katherine")
	assert.Contains(t, grace.Body, "5 years - Go")
	assert.Contains(t, grace.Body, "Meeting Link: https://meet.example.com/abc")

	require.Len(t, report.Slots, 3)
	require.Len(t, report.Outcomes, 5)
	assert.Equal(t, 0, report.Failed())
	assert.Equal(t, models.KindPanelMember, report.Outcomes[4].Role)
	assert.Equal(t, []int{0, 1, 2, 3, 4, 5}, progress)
	assert.Equal(t, 5, rec.sent)
}

func TestScheduleExtraMessage(t *testing.T) {
	mailer := &fakeMailer{}
	d := New(testRoster(t), mailer, WithLocation(time.UTC))

	req := validRequest()
	req.Message = "Bring your ID."
	_, err := d.Schedule(context.Background(), testSession(), req)
	require.NoError(t, err)

	body := mailer.sent[0].Body
	assert.Contains(t, body, "Bring your ID.\n\nPlease be prepared and join on time.")
	assert.True(t, strings.HasSuffix(body, "Best regards,\nInterview Team\n"))
}

func TestScheduleContinuesAfterFailures(t *testing.T) {
	mailer := &fakeMailer{fail: map[string]error{
		"ada@example.com":   &notify.Error{Kind: notify.KindTransport, Err: errors.New("timeout")},
		"grace@example.com": &notify.Error{Kind: notify.KindAuthFailed, Hint: notify.AuthRemediation},
	}}
	rec := &countingRecorder{}
	d := New(testRoster(t), mailer, WithLocation(time.UTC), WithMetrics(rec))

	report, err := d.Schedule(context.Background(), testSession(), validRequest())
	require.NoError(t, err)

	assert.Len(t, mailer.sent, 5, "every recipient is attempted")
	assert.Equal(t, 2, report.Failed())
	assert.False(t, report.Outcomes[0].Sent)
	assert.Equal(t, "transport", report.Outcomes[0].ErrorKind)
	assert.Equal(t, "auth_failed", report.Outcomes[3].ErrorKind)
	assert.Contains(t, report.Outcomes[3].Message, "App Password")
	assert.Equal(t, SentMessage, report.Outcomes[1].Message)
	assert.Equal(t, 3, rec.sent)
	assert.Equal(t, 2, rec.failed)

	assert.Contains(t, mailer.sent[1].Body, "09:30", "clock advances past a failed send")
}

func TestScheduleEmptyGroup(t *testing.T) {
	mailer := &fakeMailer{}
	d := New(testRoster(t), mailer, WithLocation(time.UTC))

	req := validRequest()
	req.Group = "empty"
	report, err := d.Schedule(context.Background(), testSession(), req)
	require.NoError(t, err)
	assert.Empty(t, report.Outcomes)
	assert.Empty(t, report.Slots)
	assert.Empty(t, mailer.sent)
}

func TestScheduleValidation(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*ScheduleRequest)
	}{
		{"unknown group", func(r *ScheduleRequest) { r.Group = "evening" }},
		{"unknown panel", func(r *ScheduleRequest) { r.Panel = "frontend" }},
		{"missing group", func(r *ScheduleRequest) { r.Group = "" }},
		{"bad date", func(r *ScheduleRequest) { r.StartDate = "15/03/2024" }},
		{"bad time", func(r *ScheduleRequest) { r.StartTime = "9am" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mailer := &fakeMailer{}
			d := New(testRoster(t), mailer)
			req := validRequest()
			tt.mutate(&req)

			_, err := d.Schedule(context.Background(), testSession(), req)
			var ve *apperrors.ValidationError
			require.True(t, errors.As(err, &ve), "want ValidationError, got %v", err)
			assert.Empty(t, mailer.sent, "nothing is sent on validation failure")
		})
	}
}

func TestScheduleAcceptsUncheckedDuration(t *testing.T) {
	mailer := &fakeMailer{}
	d := New(testRoster(t), mailer, WithLocation(time.UTC))

	req := validRequest()
	req.DurationMinutes = 0
	report, err := d.Schedule(context.Background(), testSession(), req)
	require.NoError(t, err)
	for _, s := range report.Slots {
		assert.Equal(t, "09:00", s.Start.Format(TimeLayout))
	}
}

func TestScheduleGeneratesLink(t *testing.T) {
	mailer := &fakeMailer{}
	d := New(testRoster(t), mailer, WithLocation(time.UTC))

	req := validRequest()
	req.MeetingLink = ""
	req.GenerateLink = true
	report, err := d.Schedule(context.Background(), testSession(), req)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(report.MeetingLink, "https://meet.google.com/"))
	assert.Contains(t, mailer.sent[0].Body, report.MeetingLink)
}

func TestScheduleUnknownCandidateFallsBack(t *testing.T) {
	mailer := &fakeMailer{}
	d := New(testRoster(t), mailer, WithLocation(time.UTC))
	s := session.New("x")
	s.CreateGroup("g")
	s.AddToGroup("g", "ghost@example.com", "anon@example.com")
	s.CreatePanel("p", []string{"grace@example.com"})

	req := validRequest()
	req.Group, req.Panel = "g", "p"
	_, err := d.Schedule(context.Background(), s, req)
	require.NoError(t, err)

	assert.Contains(t, mailer.sent[0].Body, "Dear Candidate,")
	assert.Contains(t, mailer.sent[1].Body, "Dear Candidate,")
	assert.Contains(t, mailer.sent[2].Body, "ghost@example.com")
}

func TestScheduleStopsOnCancel(t *testing.T) {
	mailer := &fakeMailer{}
	d := New(testRoster(t), mailer, WithLocation(time.UTC))
	ctx, cancel := context.WithCancel(context.Background())
	req := validRequest()
	req.Progress = func(current, _ int, _ string) {
		if current == 1 {
			cancel()
		}
	}

	report, err := d.Schedule(ctx, testSession(), req)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Len(t, report.Outcomes, 2, "the send already announced still goes out")
	assert.Len(t, mailer.sent, 2)
}

func TestGenerateMeetLink(t *testing.T) {
	a, b := GenerateMeetLink(), GenerateMeetLink()
	assert.Len(t, strings.TrimPrefix(a, "https://meet.google.com/"), 8)
	assert.NotEqual(t, a, b)
}

// overlapMailer records whether two sends were ever in flight together
type overlapMailer struct {
	inFlight atomic.Int32
	overlap  atomic.Bool
	mu       sync.Mutex
	sent     int
}

func (m *overlapMailer) SendEmail(_ context.Context, to, subject, _ string, _ bool) (notify.Confirmation, error) {
	if m.inFlight.Add(1) > 1 {
		m.overlap.Store(true)
	}
	time.Sleep(2 * time.Millisecond)
	m.inFlight.Add(-1)

	m.mu.Lock()
	m.sent++
	m.mu.Unlock()
	return notify.Confirmation{Recipient: to, Subject: subject}, nil
}

func TestConcurrentRunsDoNotInterleave(t *testing.T) {
	mailer := &overlapMailer{}
	d := New(testRoster(t), mailer, WithLocation(time.UTC))

	var scheduleProgress, bulkProgress []int
	schedule := validRequest()
	schedule.Progress = func(current, _ int, _ string) { scheduleProgress = append(scheduleProgress, current) }
	bulk := BulkRequest{
		Kind:     models.KindCandidate,
		All:      true,
		Subject:  "s",
		Body:     "b",
		Progress: func(current, _ int, _ string) { bulkProgress = append(bulkProgress, current) },
	}

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		_, err := d.Schedule(context.Background(), testSession(), schedule)
		assert.NoError(t, err)
	}()
	go func() {
		defer wg.Done()
		_, err := d.SendBulk(context.Background(), bulk)
		assert.NoError(t, err)
	}()
	wg.Wait()

	assert.False(t, mailer.overlap.Load(), "sends from two runs overlapped")
	assert.Equal(t, 9, mailer.sent)
	assert.Equal(t, []int{0, 1, 2, 3, 4, 5}, scheduleProgress, "each run reports only its own progress")
	assert.Equal(t, []int{0, 1, 2, 3, 4}, bulkProgress)
}

package services

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math"
	"strings"
	"time"

	"eventmaster/internal/domain"
	"eventmaster/internal/repository/collection"
)

// GuestQRTemplate is the message template used for guest QR code mails.
const GuestQRTemplate = "guest_qr"

// RSVPResponseSettings configures the response service.
type RSVPResponseSettings struct {
	// SubmitDelay is waited before a guest submission is stored.
	SubmitDelay time.Duration
	// SeedDemo enables sample responses for events that never stored any.
	SeedDemo bool
}

type rsvpResponseService struct {
	responses      *collection.Collection[*domain.RSVPResponse]
	events         domain.EventLookup
	forms          domain.RSVPFormService
	mail           domain.MailComposer
	settings       RSVPResponseSettings
	logger         *slog.Logger
	contextTimeout time.Duration
	now            clock
}

// NewRSVPResponseService creates the response service.
func NewRSVPResponseService(kv domain.KVStore, events domain.EventLookup, forms domain.RSVPFormService, mail domain.MailComposer, settings RSVPResponseSettings, logger *slog.Logger, timeout time.Duration) domain.RSVPResponseService {
	return &rsvpResponseService{
		responses:      collection.New(kv, domain.KindRSVPResponses, func(r *domain.RSVPResponse) string { return r.ID }, logger),
		events:         events,
		forms:          forms,
		mail:           mail,
		settings:       settings,
		logger:         logger,
		contextTimeout: timeout,
		now:            time.Now,
	}
}

// Submit stores one guest response. Answers for fields the form does not have
// are dropped; required fields must be answered.
func (s *rsvpResponseService) Submit(ctx context.Context, eventID string, answers map[string]any) (*domain.RSVPResponse, *domain.RSVPForm, error) {
	if err := requireEvent(ctx, s.events, eventID); err != nil {
		return nil, nil, err
	}
	form, err := s.forms.GetForm(ctx, eventID)
	if err != nil {
		return nil, nil, err
	}
	if !form.IsActive {
		return nil, nil, domain.ErrFormInactive
	}

	kept := make(map[string]any, len(form.Fields))
	var missing []string
	for _, f := range form.Fields {
		v, ok := answers[f.Name]
		if ok && !blankAnswer(v) {
			kept[f.Name] = v
			continue
		}
		if f.Required {
			missing = append(missing, f.Name)
		}
	}
	if len(missing) > 0 {
		return nil, nil, fmt.Errorf("%w: missing required fields: %s", domain.ErrInvalidInput, strings.Join(missing, ", "))
	}

	if s.settings.SubmitDelay > 0 {
		timer := time.NewTimer(s.settings.SubmitDelay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, nil, ctx.Err()
		case <-timer.C:
		}
	}

	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	now := s.now()
	resp := &domain.RSVPResponse{
		ID:          newID(now),
		FormID:      form.ID,
		EventID:     eventID,
		Responses:   kept,
		SubmittedAt: now,
		QRCode:      qrLabel(now.UnixMilli()),
		Source:      domain.SourceGuest,
	}
	if err := s.responses.Append(ctx, eventID, resp); err != nil {
		return nil, nil, fmt.Errorf("save rsvp response: %w", err)
	}
	return resp, form, nil
}

func (s *rsvpResponseService) ListResponses(ctx context.Context, eventID string, filter domain.ResponseFilter, page domain.PaginationParams) ([]*domain.RSVPResponse, int, error) {
	match, err := responseMatcher(filter)
	if err != nil {
		return nil, 0, err
	}
	all, err := s.load(ctx, eventID)
	if err != nil {
		return nil, 0, err
	}
	out := make([]*domain.RSVPResponse, 0, len(all))
	for _, r := range all {
		if match(r) {
			out = append(out, r)
		}
	}
	start, end := page.Slice(len(out))
	return out[start:end], len(out), nil
}

func (s *rsvpResponseService) GetResponse(ctx context.Context, eventID, responseID string) (*domain.RSVPResponse, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	resp, err := s.responses.Get(ctx, eventID, responseID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get rsvp response: %w", err)
	}
	return resp, nil
}

func (s *rsvpResponseService) Stats(ctx context.Context, eventID string) (*domain.RSVPStats, error) {
	all, err := s.load(ctx, eventID)
	if err != nil {
		return nil, err
	}
	st := &domain.RSVPStats{Total: len(all)}
	for _, r := range all {
		switch r.Answer("attendance") {
		case domain.AttendanceYes:
			st.Attending++
		case domain.AttendanceMaybe:
			st.Maybe++
		case domain.AttendanceNo:
			st.NotAttending++
		}
	}
	st.AttendingPercent = percent(st.Attending, st.Total)
	st.MaybePercent = percent(st.Maybe, st.Total)
	st.NotAttendingPercent = percent(st.NotAttending, st.Total)
	return st, nil
}

var csvHeader = []string{"Name", "Email", "Phone", "Attendance", "Submitted At"}

// ExportCSV writes every response of the event as CSV.
func (s *rsvpResponseService) ExportCSV(ctx context.Context, eventID string, w io.Writer) error {
	all, err := s.load(ctx, eventID)
	if err != nil {
		return err
	}
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return fmt.Errorf("write csv: %w", err)
	}
	for _, r := range all {
		row := []string{
			r.Answer("name"),
			r.Answer("email"),
			r.Answer("phone"),
			r.Answer("attendance"),
			r.SubmittedAt.Format("1/2/2006"),
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write csv: %w", err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("write csv: %w", err)
	}
	return nil
}

// SeedDemoResponses stores the sample guests when the event has never stored
// responses. An emptied collection is left alone.
func (s *rsvpResponseService) SeedDemoResponses(ctx context.Context, eventID string) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if err := requireEvent(ctx, s.events, eventID); err != nil {
		return false, err
	}
	seeded, err := s.responses.Seed(ctx, eventID, demoResponses(eventID, s.now()))
	if err != nil {
		return false, fmt.Errorf("seed demo responses: %w", err)
	}
	if seeded {
		s.logger.InfoContext(ctx, "seeded demo rsvp responses", "event_id", eventID)
	}
	return seeded, nil
}

func (s *rsvpResponseService) QRCodeSVG(ctx context.Context, eventID, responseID string) (string, error) {
	resp, err := s.GetResponse(ctx, eventID, responseID)
	if err != nil {
		return "", err
	}
	return qrPatternSVG(resp.QRCode), nil
}

// GuestMail composes the QR code message for a guest as a mailto link.
func (s *rsvpResponseService) GuestMail(ctx context.Context, eventID, responseID string) (*domain.GuestMail, error) {
	event, err := s.events.GetEvent(ctx, eventID)
	if err != nil {
		return nil, err
	}
	resp, err := s.GetResponse(ctx, eventID, responseID)
	if err != nil {
		return nil, err
	}
	to := resp.Answer("email")
	if to == "" {
		return nil, fmt.Errorf("%w: response has no email", domain.ErrInvalidInput)
	}

	subject, body, err := s.mail.Compose(GuestQRTemplate, domain.GuestQRMailData{
		GuestName:  resp.Answer("name"),
		EventName:  event.Name,
		EventDate:  orTBD(formatEventDate(event.Date)),
		EventTime:  orTBD(event.Time),
		EventVenue: orTBD(event.Venue),
		QRCode:     resp.QRCode,
	})
	if err != nil {
		return nil, fmt.Errorf("compose guest mail: %w", err)
	}
	return &domain.GuestMail{
		To:      to,
		Subject: subject,
		Body:    body,
		Link:    "mailto:" + to + "?subject=" + encodeURIComponent(subject) + "&body=" + encodeURIComponent(body),
	}, nil
}

func (s *rsvpResponseService) DropEvent(ctx context.Context, eventID string) error {
	if err := s.responses.Drop(ctx, eventID); err != nil {
		return fmt.Errorf("drop rsvp responses: %w", err)
	}
	return nil
}

// load returns all responses of the event, seeding demo data first when enabled.
func (s *rsvpResponseService) load(ctx context.Context, eventID string) ([]*domain.RSVPResponse, error) {
	if s.settings.SeedDemo {
		if _, err := s.SeedDemoResponses(ctx, eventID); err != nil {
			return nil, err
		}
	}
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	all, err := s.responses.Load(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("list rsvp responses: %w", err)
	}
	return all, nil
}

var statusAttendance = map[string]string{
	"attending":     domain.AttendanceYes,
	"maybe":         domain.AttendanceMaybe,
	"not-attending": domain.AttendanceNo,
}

func responseMatcher(filter domain.ResponseFilter) (func(*domain.RSVPResponse) bool, error) {
	want := ""
	if filter.Status != "" && filter.Status != "all" {
		var ok bool
		if want, ok = statusAttendance[filter.Status]; !ok {
			return nil, fmt.Errorf("%w: unknown status %q", domain.ErrInvalidInput, filter.Status)
		}
	}
	query := strings.ToLower(strings.TrimSpace(filter.Search))
	return func(r *domain.RSVPResponse) bool {
		if want != "" && r.Answer("attendance") != want {
			return false
		}
		if query == "" || strings.Contains(strings.ToLower(r.QRCode), query) {
			return true
		}
		for field := range r.Responses {
			if strings.Contains(strings.ToLower(r.Answer(field)), query) {
				return true
			}
		}
		return false
	}, nil
}

func demoResponses(eventID string, now time.Time) []*domain.RSVPResponse {
	guests := []struct {
		name, email, phone, attendance string
	}{
		{"John Smith", "john@example.com", "+1-555-0123", domain.AttendanceYes},
		{"Sarah Johnson", "sarah@example.com", "+1-555-0124", domain.AttendanceYes},
		{"Mike Davis", "mike@example.com", "+1-555-0125", domain.AttendanceMaybe},
		{"Emily Wilson", "emily@example.com", "+1-555-0126", domain.AttendanceNo},
	}
	out := make([]*domain.RSVPResponse, 0, len(guests))
	for i, g := range guests {
		out = append(out, &domain.RSVPResponse{
			ID:      fmt.Sprint(i + 1),
			FormID:  "demo",
			EventID: eventID,
			Responses: map[string]any{
				"name":       g.name,
				"email":      g.email,
				"phone":      g.phone,
				"attendance": g.attendance,
			},
			SubmittedAt: now.Add(-time.Duration(i+1) * 24 * time.Hour),
			QRCode:      fmt.Sprintf("QR%d", 123456+i),
			Source:      domain.SourceDemo,
		})
	}
	return out
}

func blankAnswer(v any) bool {
	switch x := v.(type) {
	case nil:
		return true
	case string:
		return strings.TrimSpace(x) == ""
	case bool:
		return !x
	case []any:
		return len(x) == 0
	}
	return false
}

func percent(n, total int) int {
	if total == 0 {
		return 0
	}
	return int(math.Round(float64(n) * 100 / float64(total)))
}

func orTBD(s string) string {
	if strings.TrimSpace(s) == "" {
		return "TBD"
	}
	return s
}

// formatEventDate renders an ISO date as month/day/year; other values pass through.
func formatEventDate(date string) string {
	t, err := time.Parse("2006-01-02", date)
	if err != nil {
		return date
	}
	return t.Format("1/2/2006")
}

// encodeURIComponent percent-encodes every byte of s outside A-Z a-z 0-9 and -_.!~*'().
func encodeURIComponent(s string) string {
	const hex = "0123456789ABCDEF"
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		c := s[i]
		if 'a' <= c && c <= 'z' || 'A' <= c && c <= 'Z' || '0' <= c && c <= '9' || strings.IndexByte("-_.!~*'()", c) >= 0 {
			b.WriteByte(c)
			continue
		}
		b.WriteByte('%')
		b.WriteByte(hex[c>>4])
		b.WriteByte(hex[c&15])
	}
	return b.String()
}

package domain

import (
	"context"
	"fmt"
	"io"
	"slices"
	"strings"
	"time"
)

// FieldType enumerates the input types an RSVP field can have.
type FieldType string

const (
	FieldText     FieldType = "text"
	FieldEmail    FieldType = "email"
	FieldPhone    FieldType = "phone"
	FieldSelect   FieldType = "select"
	FieldRadio    FieldType = "radio"
	FieldCheckbox FieldType = "checkbox"
	FieldFile     FieldType = "file"
)

var fieldTypes = []FieldType{FieldText, FieldEmail, FieldPhone, FieldSelect, FieldRadio, FieldCheckbox, FieldFile}

// Valid reports whether t is one of the known field types.
func (t FieldType) Valid() bool {
	return slices.Contains(fieldTypes, t)
}

// HasOptions reports whether fields of this type carry a list of choices.
func (t FieldType) HasOptions() bool {
	return t == FieldSelect || t == FieldRadio
}

// RSVPField is one input of an RSVP form.
// swagger:model RSVPField
type RSVPField struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Type        FieldType `json:"type"`
	Required    bool      `json:"required"`
	Options     []string  `json:"options,omitempty"`
	Placeholder string    `json:"placeholder,omitempty"`
}

// Normalize trims the field and drops options that do not apply to its type.
func (f *RSVPField) Normalize() {
	f.Name = strings.TrimSpace(f.Name)
	if !f.Type.HasOptions() {
		f.Options = nil
		return
	}
	opts := make([]string, 0, len(f.Options))
	for _, o := range f.Options {
		if o = strings.TrimSpace(o); o != "" {
			opts = append(opts, o)
		}
	}
	f.Options = opts
}

// Validate returns an ErrInvalidInput-wrapped error when the field is unusable.
func (f *RSVPField) Validate() error {
	if f.Name == "" {
		return fmt.Errorf("%w: field name is required", ErrInvalidInput)
	}
	if !f.Type.Valid() {
		return fmt.Errorf("%w: unknown field type %q", ErrInvalidInput, f.Type)
	}
	return nil
}

// RSVPFieldPatch carries optional field updates.
type RSVPFieldPatch struct {
	Name        *string
	Type        *FieldType
	Required    *bool
	Options     *[]string
	Placeholder *string
}

// RSVPForm is the guest form of an event. Field order is display order.
// swagger:model RSVPForm
type RSVPForm struct {
	ID              string      `json:"id"`
	EventID         string      `json:"eventId"`
	Fields          []RSVPField `json:"fields"`
	ThankYouMessage string      `json:"thankYouMessage"`
	IsActive        bool        `json:"isActive"`
}

// Field returns the index of the field with the given id, or -1.
func (f *RSVPForm) Field(fieldID string) int {
	return slices.IndexFunc(f.Fields, func(x RSVPField) bool { return x.ID == fieldID })
}

// RSVPFormPatch carries optional form updates. Fields replaces the whole list.
type RSVPFormPatch struct {
	Fields          *[]RSVPField
	ThankYouMessage *string
	IsActive        *bool
}

// ResponseSource tells real guest submissions apart from seeded sample data.
type ResponseSource string

const (
	SourceGuest ResponseSource = "guest"
	SourceDemo  ResponseSource = "demo"
)

// RSVPResponse is one guest submission.
// swagger:model RSVPResponse
type RSVPResponse struct {
	ID          string         `json:"id"`
	FormID      string         `json:"formId"`
	EventID     string         `json:"eventId"`
	Responses   map[string]any `json:"responses"`
	SubmittedAt time.Time      `json:"submittedAt"`
	QRCode      string         `json:"qrCode"`
	Source      ResponseSource `json:"source"`
}

// Answer returns the submitted value of a field as text ("" when absent).
func (r *RSVPResponse) Answer(field string) string {
	v, ok := r.Responses[field]
	if !ok || v == nil {
		return ""
	}
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprint(v)
}

// Attendance values used by the dashboard filters.
const (
	AttendanceYes   = "Yes"
	AttendanceMaybe = "Maybe"
	AttendanceNo    = "No"
)

// ResponseFilter narrows a response listing.
type ResponseFilter struct {
	Search string
	// Status is one of all, attending, maybe, not-attending. Empty means all.
	Status string
}

// RSVPStats summarizes attendance for an event.
type RSVPStats struct {
	Total               int `json:"total"`
	Attending           int `json:"attending"`
	Maybe               int `json:"maybe"`
	NotAttending        int `json:"notAttending"`
	AttendingPercent    int `json:"attendingPercent"`
	MaybePercent        int `json:"maybePercent"`
	NotAttendingPercent int `json:"notAttendingPercent"`
}

// GuestMail is a composed message for a guest, delivered by the operator's mail client.
type GuestMail struct {
	To      string `json:"to"`
	Subject string `json:"subject"`
	Body    string `json:"body"`
	Link    string `json:"link"`
}

// MailComposer renders a named message template.
type MailComposer interface {
	Compose(templateName string, data any) (subject, body string, err error)
}

// GuestQRMailData is the data of the guest QR code message.
type GuestQRMailData struct {
	GuestName  string
	EventName  string
	EventDate  string
	EventTime  string
	EventVenue string
	QRCode     string
}

// RSVPFormService defines the form builder and the public form lookup.
type RSVPFormService interface {
	EventScoped
	GetForm(ctx context.Context, eventID string) (*RSVPForm, error)
	// CreateForm creates the default form; created is false when one already exists.
	CreateForm(ctx context.Context, eventID string) (form *RSVPForm, created bool, err error)
	UpdateForm(ctx context.Context, eventID string, patch RSVPFormPatch) (*RSVPForm, error)
	AddField(ctx context.Context, eventID string, field *RSVPField) (*RSVPForm, error)
	UpdateField(ctx context.Context, eventID, fieldID string, patch RSVPFieldPatch) (*RSVPForm, error)
	RemoveField(ctx context.Context, eventID, fieldID string) (*RSVPForm, error)
	ShareLink(eventID string) string
	// PublicForm returns the event and its active form for the guest page.
	PublicForm(ctx context.Context, eventID string) (*Event, *RSVPForm, error)
}

// RSVPResponseService defines guest submissions and the response dashboard.
type RSVPResponseService interface {
	EventScoped
	Submit(ctx context.Context, eventID string, answers map[string]any) (*RSVPResponse, *RSVPForm, error)
	ListResponses(ctx context.Context, eventID string, filter ResponseFilter, page PaginationParams) ([]*RSVPResponse, int, error)
	GetResponse(ctx context.Context, eventID, responseID string) (*RSVPResponse, error)
	Stats(ctx context.Context, eventID string) (*RSVPStats, error)
	ExportCSV(ctx context.Context, eventID string, w io.Writer) error
	// SeedDemoResponses writes sample responses when the event has no stored collection.
	SeedDemoResponses(ctx context.Context, eventID string) (bool, error)
	QRCodeSVG(ctx context.Context, eventID, responseID string) (string, error)
	GuestMail(ctx context.Context, eventID, responseID string) (*GuestMail, error)
}

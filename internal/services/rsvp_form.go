package services

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"time"

	"eventmaster/internal/domain"
	"eventmaster/internal/repository/collection"
)

const defaultThankYouMessage = "Thank you for your RSVP! We look forward to seeing you at the event."

func defaultFields() []domain.RSVPField {
	return []domain.RSVPField{
		{ID: "1", Name: "name", Type: domain.FieldText, Required: true, Placeholder: "Your full name"},
		{ID: "2", Name: "email", Type: domain.FieldEmail, Required: true, Placeholder: "your@email.com"},
	}
}

type rsvpFormService struct {
	forms          *collection.Document[*domain.RSVPForm]
	events         domain.EventLookup
	publicBaseURL  string
	contextTimeout time.Duration
	now            clock
}

// NewRSVPFormService creates the form builder. Share links are built on publicBaseURL.
func NewRSVPFormService(kv domain.KVStore, events domain.EventLookup, publicBaseURL string, logger *slog.Logger, timeout time.Duration) domain.RSVPFormService {
	return &rsvpFormService{
		forms:          collection.NewDocument[*domain.RSVPForm](kv, domain.KindRSVPForm, logger),
		events:         events,
		publicBaseURL:  strings.TrimSuffix(publicBaseURL, "/"),
		contextTimeout: timeout,
		now:            time.Now,
	}
}

func (s *rsvpFormService) GetForm(ctx context.Context, eventID string) (*domain.RSVPForm, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	form, found, err := s.forms.Get(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("get rsvp form: %w", err)
	}
	if !found {
		return nil, domain.ErrNotFound
	}
	return form, nil
}

func (s *rsvpFormService) CreateForm(ctx context.Context, eventID string) (*domain.RSVPForm, bool, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if err := requireEvent(ctx, s.events, eventID); err != nil {
		return nil, false, err
	}
	created := false
	form, err := s.forms.Update(ctx, eventID, func(cur *domain.RSVPForm, found bool) (*domain.RSVPForm, error) {
		if found {
			return cur, nil
		}
		created = true
		return &domain.RSVPForm{
			ID:              newID(s.now()),
			EventID:         eventID,
			Fields:          defaultFields(),
			ThankYouMessage: defaultThankYouMessage,
			IsActive:        true,
		}, nil
	})
	if err != nil {
		return nil, false, fmt.Errorf("create rsvp form: %w", err)
	}
	return form, created, nil
}

func (s *rsvpFormService) UpdateForm(ctx context.Context, eventID string, patch domain.RSVPFormPatch) (*domain.RSVPForm, error) {
	var fields []domain.RSVPField
	if patch.Fields != nil {
		fields = make([]domain.RSVPField, len(*patch.Fields))
		copy(fields, *patch.Fields)
		for i := range fields {
			fields[i].Normalize()
			if err := fields[i].Validate(); err != nil {
				return nil, err
			}
			if fields[i].ID == "" {
				fields[i].ID = fmt.Sprintf("%s%d", newID(s.now()), i)
			}
		}
		if err := uniqueFieldIDs(fields); err != nil {
			return nil, err
		}
	}
	return s.modify(ctx, eventID, func(form *domain.RSVPForm) error {
		if patch.Fields != nil {
			form.Fields = fields
		}
		if patch.ThankYouMessage != nil {
			form.ThankYouMessage = *patch.ThankYouMessage
		}
		if patch.IsActive != nil {
			form.IsActive = *patch.IsActive
		}
		return nil
	})
}

// AddField appends field to the form. A nil field adds the default blank text field.
func (s *rsvpFormService) AddField(ctx context.Context, eventID string, field *domain.RSVPField) (*domain.RSVPForm, error) {
	f := domain.RSVPField{Name: "new_field", Type: domain.FieldText, Placeholder: "Enter placeholder text"}
	if field != nil {
		f = *field
	}
	f.Normalize()
	if err := f.Validate(); err != nil {
		return nil, err
	}
	return s.modify(ctx, eventID, func(form *domain.RSVPForm) error {
		if f.ID == "" || form.Field(f.ID) >= 0 {
			f.ID = newID(s.now())
		}
		form.Fields = append(form.Fields, f)
		return nil
	})
}

func (s *rsvpFormService) UpdateField(ctx context.Context, eventID, fieldID string, patch domain.RSVPFieldPatch) (*domain.RSVPForm, error) {
	return s.modify(ctx, eventID, func(form *domain.RSVPForm) error {
		i := form.Field(fieldID)
		if i < 0 {
			return domain.ErrNotFound
		}
		f := form.Fields[i]
		if patch.Name != nil {
			f.Name = *patch.Name
		}
		if patch.Type != nil {
			f.Type = *patch.Type
		}
		if patch.Required != nil {
			f.Required = *patch.Required
		}
		if patch.Options != nil {
			f.Options = slices.Clone(*patch.Options)
		}
		if patch.Placeholder != nil {
			f.Placeholder = *patch.Placeholder
		}
		f.Normalize()
		if err := f.Validate(); err != nil {
			return err
		}
		form.Fields[i] = f
		return nil
	})
}

func (s *rsvpFormService) RemoveField(ctx context.Context, eventID, fieldID string) (*domain.RSVPForm, error) {
	return s.modify(ctx, eventID, func(form *domain.RSVPForm) error {
		i := form.Field(fieldID)
		if i < 0 {
			return domain.ErrNotFound
		}
		form.Fields = slices.Delete(form.Fields, i, i+1)
		return nil
	})
}

// ShareLink returns the public URL guests open to answer the form.
func (s *rsvpFormService) ShareLink(eventID string) string {
	return s.publicBaseURL + "/rsvp/" + eventID
}

func (s *rsvpFormService) PublicForm(ctx context.Context, eventID string) (*domain.Event, *domain.RSVPForm, error) {
	event, err := s.events.GetEvent(ctx, eventID)
	if err != nil {
		return nil, nil, err
	}
	form, err := s.GetForm(ctx, eventID)
	if err != nil {
		return nil, nil, err
	}
	if !form.IsActive {
		return nil, nil, domain.ErrFormInactive
	}
	return event, form, nil
}

func (s *rsvpFormService) DropEvent(ctx context.Context, eventID string) error {
	if err := s.forms.Delete(ctx, eventID); err != nil {
		return fmt.Errorf("drop rsvp form: %w", err)
	}
	return nil
}

// modify applies fn to the stored form. It returns domain.ErrNotFound when the event has no form.
func (s *rsvpFormService) modify(ctx context.Context, eventID string, fn func(*domain.RSVPForm) error) (*domain.RSVPForm, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	form, err := s.forms.Update(ctx, eventID, func(form *domain.RSVPForm, found bool) (*domain.RSVPForm, error) {
		if !found {
			return nil, domain.ErrNotFound
		}
		if err := fn(form); err != nil {
			return nil, err
		}
		return form, nil
	})
	if err != nil {
		return nil, err
	}
	return form, nil
}

func uniqueFieldIDs(fields []domain.RSVPField) error {
	seen := make(map[string]struct{}, len(fields))
	for _, f := range fields {
		if _, dup := seen[f.ID]; dup {
			return fmt.Errorf("%w: duplicate field id %q", domain.ErrInvalidInput, f.ID)
		}
		seen[f.ID] = struct{}{}
	}
	return nil
}

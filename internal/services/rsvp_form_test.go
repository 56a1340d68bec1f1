package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"eventmaster/internal/domain"
)

func newFormFixture(t *testing.T) (domain.KVStore, domain.EventService, domain.RSVPFormService, *domain.Event) {
	t.Helper()
	kv, events, event := newEventFixture(t)
	forms := NewRSVPFormService(kv, events, "https://rsvp.example/", testLogger, testTimeout)
	return kv, events, forms, event
}

func TestRSVPFormService_CreateDefault(t *testing.T) {
	ctx := context.Background()
	_, _, forms, event := newFormFixture(t)

	_, err := forms.GetForm(ctx, event.ID)
	assert.True(t, errors.Is(err, domain.ErrNotFound))

	form, created, err := forms.CreateForm(ctx, event.ID)
	require.NoError(t, err)
	assert.True(t, created)
	assert.True(t, form.IsActive)
	assert.Equal(t, defaultThankYouMessage, form.ThankYouMessage)
	assert.Equal(t, defaultFields(), form.Fields)

	again, created, err := forms.CreateForm(ctx, event.ID)
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, form.ID, again.ID)

	_, _, err = forms.CreateForm(ctx, "ghost")
	assert.True(t, errors.Is(err, domain.ErrNotFound))

	assert.Equal(t, "https://rsvp.example/rsvp/"+event.ID, forms.ShareLink(event.ID))
}

func TestRSVPFormService_FieldEditing(t *testing.T) {
	ctx := context.Background()
	_, _, forms, event := newFormFixture(t)
	_, _, err := forms.CreateForm(ctx, event.ID)
	require.NoError(t, err)

	form, err := forms.AddField(ctx, event.ID, nil)
	require.NoError(t, err)
	require.Len(t, form.Fields, 3)
	added := form.Fields[2]
	assert.Equal(t, "new_field", added.Name)
	assert.Equal(t, domain.FieldText, added.Type)
	assert.False(t, added.Required)
	assert.Equal(t, "Enter placeholder text", added.Placeholder)

	name := "attendance"
	typ := domain.FieldRadio
	opts := []string{"Yes", "", "  Maybe ", "No"}
	form, err = forms.UpdateField(ctx, event.ID, added.ID, domain.RSVPFieldPatch{Name: &name, Type: &typ, Options: &opts})
	require.NoError(t, err)
	assert.Equal(t, []string{"Yes", "Maybe", "No"}, form.Fields[2].Options)

	text := domain.FieldText
	form, err = forms.UpdateField(ctx, event.ID, added.ID, domain.RSVPFieldPatch{Type: &text})
	require.NoError(t, err)
	assert.Nil(t, form.Fields[2].Options, "options only apply to select and radio")

	bad := domain.FieldType("slider")
	_, err = forms.UpdateField(ctx, event.ID, added.ID, domain.RSVPFieldPatch{Type: &bad})
	assert.True(t, errors.Is(err, domain.ErrInvalidInput))

	form, err = forms.RemoveField(ctx, event.ID, "1")
	require.NoError(t, err)
	assert.Equal(t, []string{"email", "attendance"}, []string{form.Fields[0].Name, form.Fields[1].Name})

	_, err = forms.RemoveField(ctx, event.ID, "1")
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}

func TestRSVPFormService_UpdateFormKeepsFieldOrder(t *testing.T) {
	ctx := context.Background()
	_, _, forms, event := newFormFixture(t)

	_, err := forms.UpdateForm(ctx, event.ID, domain.RSVPFormPatch{})
	assert.True(t, errors.Is(err, domain.ErrNotFound), "no form yet")

	_, _, err = forms.CreateForm(ctx, event.ID)
	require.NoError(t, err)

	fields := []domain.RSVPField{
		{ID: "c", Name: "phone", Type: domain.FieldPhone},
		{ID: "a", Name: "name", Type: domain.FieldText, Required: true},
		{Name: "diet", Type: domain.FieldSelect, Options: []string{"Vegan", "None"}},
	}
	inactive := false
	msg := "See you there"
	_, err = forms.UpdateForm(ctx, event.ID, domain.RSVPFormPatch{Fields: &fields, IsActive: &inactive, ThankYouMessage: &msg})
	require.NoError(t, err)

	form, err := forms.GetForm(ctx, event.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"phone", "name", "diet"}, []string{form.Fields[0].Name, form.Fields[1].Name, form.Fields[2].Name})
	assert.NotEmpty(t, form.Fields[2].ID)
	assert.False(t, form.IsActive)
	assert.Equal(t, "See you there", form.ThankYouMessage)

	_, _, err = forms.PublicForm(ctx, event.ID)
	assert.True(t, errors.Is(err, domain.ErrFormInactive))

	dup := []domain.RSVPField{{ID: "x", Name: "a", Type: domain.FieldText}, {ID: "x", Name: "b", Type: domain.FieldText}}
	_, err = forms.UpdateForm(ctx, event.ID, domain.RSVPFormPatch{Fields: &dup})
	assert.True(t, errors.Is(err, domain.ErrInvalidInput))
}

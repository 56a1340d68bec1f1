package controllers

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"eventmaster/internal/adapters/email"
	"eventmaster/internal/domain"
	"eventmaster/internal/services"
)

type rsvpFixture struct {
	event     *domain.Event
	forms     *RSVPFormController
	responses *RSVPResponseController
	public    *PublicRSVPController
}

func newRSVPFixture(t *testing.T, seedDemo bool) rsvpFixture {
	t.Helper()
	kv, events, event := newEventStore(t)
	forms := services.NewRSVPFormService(kv, events, "https://rsvp.example", testLogger, testTimeout)
	responses := services.NewRSVPResponseService(kv, events, forms, email.NewTemplateComposer(),
		services.RSVPResponseSettings{SeedDemo: seedDemo}, testLogger, testTimeout)
	return rsvpFixture{
		event:     event,
		forms:     NewRSVPFormController(testLogger, forms),
		responses: NewRSVPResponseController(testLogger, responses),
		public:    NewPublicRSVPController(testLogger, forms, responses),
	}
}

func TestRSVPFormController_Builder(t *testing.T) {
	f := newRSVPFixture(t, false)
	id := f.event.ID

	rr := httptest.NewRecorder()
	f.forms.GetForm(rr, newJSONRequest(http.MethodGet, "/", "", "eventID", id))
	require.Equal(t, http.StatusNotFound, rr.Code)

	rr = httptest.NewRecorder()
	f.forms.CreateForm(rr, newJSONRequest(http.MethodPost, "/", "", "eventID", id))
	require.Equal(t, http.StatusCreated, rr.Code)
	var resp RSVPFormResponse
	decodeEnvelope(t, rr, &resp)
	assert.Equal(t, "https://rsvp.example/rsvp/"+id, resp.ShareLink)
	require.Len(t, resp.Form.Fields, 2)
	assert.True(t, resp.Form.IsActive)

	rr = httptest.NewRecorder()
	f.forms.CreateForm(rr, newJSONRequest(http.MethodPost, "/", "", "eventID", id))
	assert.Equal(t, http.StatusOK, rr.Code, "existing form is kept")

	rr = httptest.NewRecorder()
	f.forms.AddField(rr, newJSONRequest(http.MethodPost, "/", "", "eventID", id))
	require.Equal(t, http.StatusCreated, rr.Code)
	decodeEnvelope(t, rr, &resp)
	require.Len(t, resp.Form.Fields, 3)
	added := resp.Form.Fields[2]
	assert.Equal(t, "new_field", added.Name)
	assert.Equal(t, domain.FieldText, added.Type)

	rr = httptest.NewRecorder()
	f.forms.UpdateField(rr, newJSONRequest(http.MethodPatch, "/",
		`{"name":"attendance","type":"radio","required":true,"options":["Yes"," ","Maybe","No"]}`,
		"eventID", id, "fieldID", added.ID))
	require.Equal(t, http.StatusOK, rr.Code)
	decodeEnvelope(t, rr, &resp)
	assert.Equal(t, []string{"Yes", "Maybe", "No"}, resp.Form.Fields[2].Options)

	rr = httptest.NewRecorder()
	f.forms.AddField(rr, newJSONRequest(http.MethodPost, "/", `{"name":"shoe size","type":"slider"}`, "eventID", id))
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	rr = httptest.NewRecorder()
	f.forms.UpdateForm(rr, newJSONRequest(http.MethodPut, "/", `{"thankYouMessage":"See you!","isActive":false}`, "eventID", id))
	require.Equal(t, http.StatusOK, rr.Code)
	decodeEnvelope(t, rr, &resp)
	assert.Equal(t, "See you!", resp.Form.ThankYouMessage)
	assert.False(t, resp.Form.IsActive)

	rr = httptest.NewRecorder()
	f.forms.RemoveField(rr, newJSONRequest(http.MethodDelete, "/", "", "eventID", id, "fieldID", added.ID))
	require.Equal(t, http.StatusOK, rr.Code)
	decodeEnvelope(t, rr, &resp)
	assert.Len(t, resp.Form.Fields, 2)
}

func TestPublicRSVPController_Submit(t *testing.T) {
	f := newRSVPFixture(t, false)
	id := f.event.ID

	rr := httptest.NewRecorder()
	f.public.GetForm(rr, newJSONRequest(http.MethodGet, "/", "", "eventID", id))
	assert.Equal(t, http.StatusNotFound, rr.Code, "no form yet")

	rr = httptest.NewRecorder()
	f.forms.CreateForm(rr, newJSONRequest(http.MethodPost, "/", "", "eventID", id))
	require.Equal(t, http.StatusCreated, rr.Code)

	rr = httptest.NewRecorder()
	f.public.GetForm(rr, newJSONRequest(http.MethodGet, "/", "", "eventID", id))
	require.Equal(t, http.StatusOK, rr.Code)
	var form PublicRSVPForm
	decodeEnvelope(t, rr, &form)
	assert.Equal(t, "Launch", form.Event.Name)
	assert.Len(t, form.Fields, 2)

	rr = httptest.NewRecorder()
	f.public.Submit(rr, newJSONRequest(http.MethodPost, "/", `{"responses":{"name":"Ada"}}`, "eventID", id))
	require.Equal(t, http.StatusBadRequest, rr.Code)
	envelope := decodeEnvelope(t, rr, nil)
	assert.Contains(t, envelope.Error.Message, "email")

	rr = httptest.NewRecorder()
	f.public.Submit(rr, newJSONRequest(http.MethodPost, "/", `{"responses":{"name":"Ada","email":"ada@example.com","extra":"dropped"}}`, "eventID", id))
	require.Equal(t, http.StatusCreated, rr.Code)
	var submitted SubmitRSVPResponse
	decodeEnvelope(t, rr, &submitted)
	assert.Regexp(t, `^QR\d{6}$`, submitted.QRCode)
	assert.Contains(t, submitted.ThankYouMessage, "Thank you for your RSVP")

	rr = httptest.NewRecorder()
	f.responses.ListResponses(rr, newJSONRequest(http.MethodGet, "/", "", "eventID", id))
	require.Equal(t, http.StatusOK, rr.Code)
	var list ListRSVPResponsesResponse
	decodeEnvelope(t, rr, &list)
	require.Len(t, list.Items, 1)
	assert.Equal(t, domain.SourceGuest, list.Items[0].Source)
	assert.NotContains(t, list.Items[0].Responses, "extra")

	rr = httptest.NewRecorder()
	f.forms.UpdateForm(rr, newJSONRequest(http.MethodPut, "/", `{"isActive":false}`, "eventID", id))
	require.Equal(t, http.StatusOK, rr.Code)

	rr = httptest.NewRecorder()
	f.public.Submit(rr, newJSONRequest(http.MethodPost, "/", `{"responses":{"name":"Bob","email":"bob@example.com"}}`, "eventID", id))
	assert.Equal(t, http.StatusConflict, rr.Code)

	rr = httptest.NewRecorder()
	f.public.GetForm(rr, newJSONRequest(http.MethodGet, "/", "", "eventID", id))
	assert.Equal(t, http.StatusConflict, rr.Code)
}

func TestRSVPResponseController_DemoDashboard(t *testing.T) {
	f := newRSVPFixture(t, true)
	id := f.event.ID

	tests := []struct {
		name      string
		query     string
		wantNames []string
		wantTotal int
		wantPages int
	}{
		{"all seeded guests", "", []string{"John Smith", "Sarah Johnson", "Mike Davis", "Emily Wilson"}, 4, 1},
		{"attending", "?status=attending", []string{"John Smith", "Sarah Johnson"}, 2, 1},
		{"not attending", "?status=not-attending", []string{"Emily Wilson"}, 1, 1},
		{"search by qr code", "?search=qr123458", []string{"Mike Davis"}, 1, 1},
		{"search is case-insensitive", "?search=SARAH", []string{"Sarah Johnson"}, 1, 1},
		{"second page", "?page=2&page_size=3", []string{"Emily Wilson"}, 4, 2},
		{"no paging", "?page_size=all", []string{"John Smith", "Sarah Johnson", "Mike Davis", "Emily Wilson"}, 4, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := httptest.NewRecorder()
			f.responses.ListResponses(rr, newJSONRequest(http.MethodGet, "/events/"+id+"/rsvp/responses"+tt.query, "", "eventID", id))
			require.Equal(t, http.StatusOK, rr.Code)
			var list ListRSVPResponsesResponse
			decodeEnvelope(t, rr, &list)
			var names []string
			for _, item := range list.Items {
				names = append(names, item.Answer("name"))
			}
			assert.Equal(t, tt.wantNames, names)
			assert.Equal(t, tt.wantTotal, list.Pagination.Total)
			assert.Equal(t, tt.wantPages, list.Pagination.TotalPages)
		})
	}

	rr := httptest.NewRecorder()
	f.responses.ListResponses(rr, newJSONRequest(http.MethodGet, "/?status=sometimes", "", "eventID", id))
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	rr = httptest.NewRecorder()
	f.responses.Stats(rr, newJSONRequest(http.MethodGet, "/", "", "eventID", id))
	require.Equal(t, http.StatusOK, rr.Code)
	var stats domain.RSVPStats
	decodeEnvelope(t, rr, &stats)
	assert.Equal(t, domain.RSVPStats{Total: 4, Attending: 2, Maybe: 1, NotAttending: 1, AttendingPercent: 50, MaybePercent: 25, NotAttendingPercent: 25}, stats)

	rr = httptest.NewRecorder()
	f.responses.ExportCSV(rr, newJSONRequest(http.MethodGet, "/", "", "eventID", id))
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "text/csv; charset=utf-8", rr.Header().Get("Content-Type"))
	assert.Contains(t, rr.Header().Get("Content-Disposition"), "rsvp-responses-"+id+".csv")
	lines := strings.Split(strings.TrimSpace(rr.Body.String()), "\n")
	require.Len(t, lines, 5)
	assert.Equal(t, "Name,Email,Phone,Attendance,Submitted At", strings.TrimSpace(lines[0]))
	assert.True(t, strings.HasPrefix(lines[1], "John Smith,john@example.com,+1-555-0123,Yes,"))

	rr = httptest.NewRecorder()
	f.responses.GetResponse(rr, newJSONRequest(http.MethodGet, "/", "", "eventID", id, "responseID", "1"))
	require.Equal(t, http.StatusOK, rr.Code)

	rr = httptest.NewRecorder()
	f.responses.QRCode(rr, newJSONRequest(http.MethodGet, "/", "", "eventID", id, "responseID", "1"))
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "image/svg+xml", rr.Header().Get("Content-Type"))
	assert.True(t, strings.HasPrefix(rr.Body.String(), "<svg"))

	rr = httptest.NewRecorder()
	f.responses.GuestMail(rr, newJSONRequest(http.MethodGet, "/", "", "eventID", id, "responseID", "2"))
	require.Equal(t, http.StatusOK, rr.Code)
	var mail domain.GuestMail
	decodeEnvelope(t, rr, &mail)
	assert.Equal(t, "sarah@example.com", mail.To)
	assert.Equal(t, "QR Code for Launch", mail.Subject)
	assert.True(t, strings.HasPrefix(mail.Link, "mailto:sarah@example.com?subject=QR%20Code%20for%20Launch&body="))

	rr = httptest.NewRecorder()
	f.responses.QRCode(rr, newJSONRequest(http.MethodGet, "/", "", "eventID", id, "responseID", "99"))
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

package mailer_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/novakinetix/mailkit/modules/mailer"
	"github.com/novakinetix/mailkit/pkg/email"
	"github.com/novakinetix/mailkit/pkg/logger"
	"github.com/novakinetix/mailkit/pkg/ratelimiter"
)

type recordingSender struct {
	mu   sync.Mutex
	msgs []*email.Message
	err  error
}

func (s *recordingSender) Send(_ context.Context, msg *email.Message) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.msgs = append(s.msgs, msg)
	return s.err
}

func (s *recordingSender) sent() []*email.Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]*email.Message(nil), s.msgs...)
}

func quietLogger() *slog.Logger { return logger.New(logger.WithOutput(&bytes.Buffer{})) }

func newEmailService(t *testing.T, sender email.Sender, opts ...email.ServiceOption) *email.Service {
	t.Helper()
	catalog, err := email.DefaultCatalog()
	require.NoError(t, err)
	opts = append([]email.ServiceOption{email.WithLogger(quietLogger())}, opts...)
	return email.MustNewService(catalog, sender, "noreply@academy.example.com", opts...)
}

func newHandler(t *testing.T, svc *email.Service, opts ...mailer.Option) http.Handler {
	t.Helper()
	opts = append([]mailer.Option{mailer.WithLogger(quietLogger())}, opts...)
	return mailer.NewService(svc, opts...).Handle()
}

func doJSON(h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	req.RemoteAddr = "192.0.2.10:40000"
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

type sendBody struct {
	Status string `json:"status"`
	ID     string `json:"id"`
	Error  string `json:"error"`
}

func TestSendEmail(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		path       string
		body       string
		senderErr  error
		wantStatus int
		wantBody   string
		wantError  string
		wantSent   int
		wantRecord bool
	}{
		{
			name:       "template with single recipient",
			path:       "/send-email",
			body:       `{"to":"jane@example.com","subject":"Hi","template":"welcome","templateData":{"full_name":"Jane","role":"student"}}`,
			wantStatus: http.StatusOK,
			wantBody:   "sent",
			wantSent:   1,
			wantRecord: true,
		},
		{
			name:       "raw html with recipient list via alias",
			path:       "/api/send-email",
			body:       `{"to":["a@example.com"," b@example.com "],"subject":"Hi","htmlBody":"<p>x</p>"}`,
			wantStatus: http.StatusOK,
			wantBody:   "sent",
			wantSent:   1,
			wantRecord: true,
		},
		{
			name:       "invalid recipient",
			path:       "/send-email",
			body:       `{"to":"not-an-email","subject":"Hi","htmlBody":"<p>x</p>"}`,
			wantStatus: http.StatusBadRequest,
			wantBody:   "failed",
			wantError:  "not-an-email",
			wantRecord: true,
		},
		{
			name:       "missing template data",
			path:       "/send-email",
			body:       `{"to":"a@example.com","subject":"Hi","template":"welcome"}`,
			wantStatus: http.StatusUnprocessableEntity,
			wantBody:   "failed",
			wantError:  "full_name",
			wantRecord: true,
		},
		{
			name:       "unknown template",
			path:       "/send-email",
			body:       `{"to":"a@example.com","subject":"Hi","template":"newsletter"}`,
			wantStatus: http.StatusBadRequest,
			wantBody:   "failed",
			wantError:  "unknown template",
			wantRecord: true,
		},
		{
			name:       "conflicting content",
			path:       "/send-email",
			body:       `{"to":"a@example.com","subject":"Hi","template":"welcome","htmlBody":"<p>x</p>","templateData":{"full_name":"A"}}`,
			wantStatus: http.StatusBadRequest,
			wantBody:   "failed",
			wantError:  "conflicting content",
			wantRecord: true,
		},
		{
			name:       "transport failure",
			path:       "/send-email",
			body:       `{"to":"a@example.com","subject":"Hi","htmlBody":"<p>x</p>"}`,
			senderErr:  errors.New("421 service not available"),
			wantStatus: http.StatusBadGateway,
			wantBody:   "failed",
			wantError:  "421 service not available",
			wantSent:   1,
			wantRecord: true,
		},
		{
			name:       "malformed json",
			path:       "/send-email",
			body:       `{"to":`,
			wantStatus: http.StatusBadRequest,
			wantBody:   "failed",
		},
		{
			name:       "to of wrong type",
			path:       "/send-email",
			body:       `{"to":42,"subject":"Hi","htmlBody":"<p>x</p>"}`,
			wantStatus: http.StatusBadRequest,
			wantBody:   "failed",
		},
		{
			name:       "template data with nested object",
			path:       "/send-email",
			body:       `{"to":"a@example.com","subject":"Hi","template":"welcome","templateData":{"full_name":{"first":"A"}}}`,
			wantStatus: http.StatusBadRequest,
			wantBody:   "failed",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			sender := &recordingSender{err: tt.senderErr}
			svc := newEmailService(t, sender)
			h := newHandler(t, svc)

			rec := doJSON(h, http.MethodPost, tt.path, tt.body)
			assert.Equal(t, tt.wantStatus, rec.Code, rec.Body.String())
			assert.Contains(t, rec.Header().Get("Content-Type"), "application/json")

			body := decode[sendBody](t, rec)
			assert.Equal(t, tt.wantBody, body.Status)
			if tt.wantError != "" {
				assert.Contains(t, body.Error, tt.wantError)
			}
			assert.Len(t, sender.sent(), tt.wantSent)

			records := svc.History().List()
			if tt.wantRecord {
				require.Len(t, records, 1)
				assert.Equal(t, records[0].ID, body.ID)
			} else {
				assert.Empty(t, records)
				assert.Empty(t, body.ID)
			}
		})
	}
}

func TestSendEmail_RecipientsForwarded(t *testing.T) {
	t.Parallel()

	sender := &recordingSender{}
	h := newHandler(t, newEmailService(t, sender))

	rec := doJSON(h, http.MethodPost, "/send-email",
		`{"to":["a@example.com"," b@example.com "],"subject":"Hi","template":" Welcome ","templateData":{"full_name":"Jane","role":"student"}}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	msgs := sender.sent()
	require.Len(t, msgs, 1)
	assert.Equal(t, []string{"a@example.com", "b@example.com"}, msgs[0].To)
	assert.Contains(t, msgs[0].HTML, "Jane")
	assert.Contains(t, msgs[0].HTML, "student")
	assert.Equal(t, email.TemplateWelcome, msgs[0].Tag)
}

func TestSendEmail_UnsupportedMediaType(t *testing.T) {
	t.Parallel()

	sender := &recordingSender{}
	h := newHandler(t, newEmailService(t, sender))

	req := httptest.NewRequest(http.MethodPost, "/send-email", strings.NewReader(`to=a@example.com`))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnsupportedMediaType, rec.Code)
	assert.Empty(t, sender.sent())
}

func TestSendEmail_Timeout(t *testing.T) {
	t.Parallel()

	release := make(chan struct{})
	t.Cleanup(func() { close(release) })
	blocking := email.SenderFunc(func(context.Context, *email.Message) error {
		<-release
		return nil
	})
	h := newHandler(t, newEmailService(t, blocking, email.WithSendTimeout(20*time.Millisecond)))

	rec := doJSON(h, http.MethodPost, "/send-email", `{"to":"a@example.com","subject":"Hi","htmlBody":"<p>x</p>"}`)
	assert.Equal(t, http.StatusGatewayTimeout, rec.Code)
	assert.Contains(t, decode[sendBody](t, rec).Error, "timed out")
}

func TestEventEndpoints(t *testing.T) {
	t.Parallel()

	tests := []struct {
		path        string
		body        string
		wantTo      string
		wantSubject string
	}{
		{
			path:        "/send-welcome-email",
			body:        `{"email":"jane@example.com","full_name":"Jane"}`,
			wantTo:      "jane@example.com",
			wantSubject: "Welcome to Novakinetix Academy!",
		},
		{
			path:        "/send-password-reset",
			body:        `{"email":"jane@example.com","reset_url":"https://academy.example.com/reset?token=abc"}`,
			wantTo:      "jane@example.com",
			wantSubject: "Password Reset Request - Novakinetix Academy",
		},
		{
			path: "/send-volunteer-hours-approved",
			body: `{"intern_email":"i@example.com","intern_name":"Ivan","activity_type":"Tutoring",
				"description":"Math","hours":5.5,"date":"2026-02-01","total_hours":24}`,
			wantTo:      "i@example.com",
			wantSubject: "Volunteer Hours Approved - Novakinetix Academy",
		},
		{
			path: "/send-volunteer-hours-rejected",
			body: `{"intern_email":"i@example.com","intern_name":"Ivan","activity_type":"Tutoring",
				"description":"Math","hours":"2","date":"2026-02-01","rejection_reason":"Duplicate entry"}`,
			wantTo:      "i@example.com",
			wantSubject: "Volunteer Hours Update - Novakinetix Academy",
		},
		{
			path: "/send-tutoring-notification",
			body: `{"recipient_email":"s@example.com","recipient_name":"Sam","session_type":"Completed",
				"message":"Great work","subject":"Algebra","session_date":"2026-03-02","duration_minutes":45,
				"tutor_name":"Tara","student_name":"Sam"}`,
			wantTo:      "s@example.com",
			wantSubject: "Tutoring Session Completed - Novakinetix Academy",
		},
		{
			path: "/send-admin-notification",
			body: `{"admin_email":"root@example.com","admin_name":"Ada","notification_message":"New signup",
				"notification_type":"User Registration"}`,
			wantTo:      "root@example.com",
			wantSubject: "Admin Notification: User Registration - Novakinetix Academy",
		},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			t.Parallel()

			sender := &recordingSender{}
			h := newHandler(t, newEmailService(t, sender))

			rec := doJSON(h, http.MethodPost, tt.path, tt.body)
			require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
			assert.Equal(t, "sent", decode[sendBody](t, rec).Status)

			msgs := sender.sent()
			require.Len(t, msgs, 1)
			assert.Equal(t, []string{tt.wantTo}, msgs[0].To)
			assert.Equal(t, tt.wantSubject, msgs[0].Subject)
		})
	}
}

func TestEventEndpoint_MissingField(t *testing.T) {
	t.Parallel()

	sender := &recordingSender{}
	h := newHandler(t, newEmailService(t, sender))

	rec := doJSON(h, http.MethodPost, "/send-password-reset", `{"email":"jane@example.com"}`)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, decode[sendBody](t, rec).Error, "reset_url")
	assert.Empty(t, sender.sent())
}

func TestHistoryEndpoints(t *testing.T) {
	t.Parallel()

	svc := newEmailService(t, &recordingSender{})
	h := newHandler(t, svc)

	type historyBody struct {
		Records []struct {
			ID         string   `json:"id"`
			Recipients []string `json:"recipients"`
			Subject    string   `json:"subject"`
			Status     string   `json:"status"`
			Error      string   `json:"error"`
		} `json:"records"`
		Count int `json:"count"`
	}

	empty := decode[historyBody](t, doJSON(h, http.MethodGet, "/history", ""))
	assert.Equal(t, 0, empty.Count)
	assert.NotNil(t, empty.Records)

	doJSON(h, http.MethodPost, "/send-email", `{"to":"a@example.com","subject":"First","htmlBody":"<p>x</p>"}`)
	doJSON(h, http.MethodPost, "/send-email", `{"to":"bad","subject":"Second","htmlBody":"<p>x</p>"}`)

	rec := doJSON(h, http.MethodGet, "/history", "")
	require.Equal(t, http.StatusOK, rec.Code)
	hist := decode[historyBody](t, rec)
	require.Equal(t, 2, hist.Count)
	require.Len(t, hist.Records, 2)
	assert.Equal(t, "First", hist.Records[0].Subject)
	assert.Equal(t, "sent", hist.Records[0].Status)
	assert.Equal(t, []string{"a@example.com"}, hist.Records[0].Recipients)
	assert.Equal(t, "failed", hist.Records[1].Status)
	assert.NotEmpty(t, hist.Records[1].Error)

	rec = doJSON(h, http.MethodDelete, "/history", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"cleared"}`, rec.Body.String())
	assert.Zero(t, svc.History().Len())
}

func TestTemplatesEndpoint(t *testing.T) {
	t.Parallel()

	h := newHandler(t, newEmailService(t, &recordingSender{}))
	rec := doJSON(h, http.MethodGet, "/templates", "")
	require.Equal(t, http.StatusOK, rec.Code)

	body := decode[mailer.TemplatesResponse](t, rec)
	require.Len(t, body.Templates, 6)

	byName := map[string]mailer.TemplateInfo{}
	for _, tpl := range body.Templates {
		byName[tpl.Name] = tpl
	}
	assert.Equal(t, []string{"full_name"}, byName["welcome"].Required)
	assert.Equal(t, []string{"reset_url"}, byName["password_reset"].Required)
	assert.Contains(t, byName["volunteer_hours_rejected"].Required, "rejection_reason")
	assert.Equal(t, "Welcome to Novakinetix Academy!", byName["welcome"].Subject)
}

func TestRateLimitedSends(t *testing.T) {
	t.Parallel()

	store := ratelimiter.NewMemoryStore(ratelimiter.WithCleanupInterval(0))
	t.Cleanup(store.Close)
	bucket, err := ratelimiter.NewBucket(store, ratelimiter.Config{
		Capacity: 1, RefillRate: 1, RefillInterval: time.Minute,
	})
	require.NoError(t, err)

	sender := &recordingSender{}
	svc := newEmailService(t, sender)
	h := newHandler(t, svc, mailer.WithRateLimiter(bucket))

	body := `{"to":"a@example.com","subject":"Hi","htmlBody":"<p>x</p>"}`
	first := doJSON(h, http.MethodPost, "/send-email", body)
	assert.Equal(t, http.StatusOK, first.Code)

	second := doJSON(h, http.MethodPost, "/send-welcome-email", `{"email":"a@example.com","full_name":"A"}`)
	assert.Equal(t, http.StatusTooManyRequests, second.Code)
	assert.NotEmpty(t, second.Header().Get("Retry-After"))
	assert.Equal(t, "failed", decode[sendBody](t, second).Status)

	assert.Len(t, sender.sent(), 1)
	assert.Equal(t, 1, svc.History().Len())

	assert.Equal(t, http.StatusOK, doJSON(h, http.MethodGet, "/history", "").Code)
}

func TestStatusFor(t *testing.T) {
	t.Parallel()

	tests := []struct {
		err  error
		want int
	}{
		{nil, 0},
		{email.ErrInvalidRecipient, http.StatusBadRequest},
		{email.ErrConflictingContent, http.StatusBadRequest},
		{email.ErrUnknownTemplate, http.StatusBadRequest},
		{email.ErrMissingTemplateData, http.StatusUnprocessableEntity},
		{email.ErrSendTimeout, http.StatusGatewayTimeout},
		{email.ErrFailedToSendEmail, http.StatusBadGateway},
		{ratelimiter.ErrLimitExceeded, http.StatusTooManyRequests},
		{errors.New("boom"), 0},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, mailer.StatusFor(tt.err), "%v", tt.err)
	}
}

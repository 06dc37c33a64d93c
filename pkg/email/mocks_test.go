package email_test

import (
	"context"
	"sync"

	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/mrz1836/postmark"
	"github.com/stretchr/testify/mock"
)

// MockPostmarkAPI is a mock implementation of email.PostmarkAPI.
type MockPostmarkAPI struct {
	mock.Mock
}

func (m *MockPostmarkAPI) SendEmail(ctx context.Context, e postmark.Email) (postmark.EmailResponse, error) {
	args := m.Called(ctx, e)
	return args.Get(0).(postmark.EmailResponse), args.Error(1)
}

// MockSESAPI is a mock implementation of email.SESAPI.
type MockSESAPI struct {
	mock.Mock
}

func (m *MockSESAPI) SendEmail(ctx context.Context, params *sesv2.SendEmailInput, optFns ...func(*sesv2.Options)) (*sesv2.SendEmailOutput, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*sesv2.SendEmailOutput), args.Error(1)
}

// warnRecorder collects warnings passed to an email.WarningSink.
type warnRecorder struct {
	mu   sync.Mutex
	msgs []string
}

func (w *warnRecorder) WarnContext(_ context.Context, msg string, _ ...any) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.msgs = append(w.msgs, msg)
}

func (w *warnRecorder) messages() []string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return append([]string(nil), w.msgs...)
}

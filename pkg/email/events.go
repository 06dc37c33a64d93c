package email

import (
	"context"
	"fmt"
	"strings"
)

// Template names shipped in the default catalog.
const (
	TemplateWelcome                = "welcome"
	TemplatePasswordReset          = "password_reset"
	TemplateVolunteerHoursApproved = "volunteer_hours_approved"
	TemplateVolunteerHoursRejected = "volunteer_hours_rejected"
	TemplateTutoringNotification   = "tutoring_notification"
	TemplateAdminNotification      = "admin_notification"
)

// Event is a typed application event that maps onto one catalog template.
type Event interface {
	TemplateName() string
	// Request builds the dispatch request. defaultSubject is the catalog
	// subject for the template and may be overridden by the event.
	Request(defaultSubject string) Request
}

// SendEvent builds a Request from ev and dispatches it through Send.
func (s *Service) SendEvent(ctx context.Context, ev Event) Result {
	var subject string
	if def, err := s.catalog.Lookup(ev.TemplateName()); err == nil {
		subject = def.Subject
	}
	return s.Send(ctx, ev.Request(subject))
}

// put sets key only when v is not blank so optional fields stay absent.
func put(d Data, key, v string) {
	if strings.TrimSpace(v) != "" {
		d[key] = String(v)
	}
}

func putValue(d Data, key string, v Value) {
	if !v.IsAbsent() {
		d[key] = v
	}
}

func orDefault(v, def string) string {
	if strings.TrimSpace(v) == "" {
		return def
	}
	return v
}

// WelcomeEmail is sent after account creation.
type WelcomeEmail struct {
	Email    string `json:"email"`
	FullName string `json:"full_name"`
	Role     string `json:"role,omitempty"`
	LoginURL string `json:"login_url,omitempty"`
}

func (WelcomeEmail) TemplateName() string { return TemplateWelcome }

func (e WelcomeEmail) Request(subject string) Request {
	d := Data{}
	put(d, "full_name", e.FullName)
	put(d, "role", orDefault(e.Role, "member"))
	put(d, "login_url", e.LoginURL)
	return Request{To: recipients(e.Email), Subject: subject, Template: TemplateWelcome, Data: d}
}

// PasswordResetEmail carries a ready-made reset link.
type PasswordResetEmail struct {
	Email    string `json:"email"`
	ResetURL string `json:"reset_url"`
	UserName string `json:"user_name,omitempty"`
}

func (PasswordResetEmail) TemplateName() string { return TemplatePasswordReset }

func (e PasswordResetEmail) Request(subject string) Request {
	d := Data{}
	put(d, "reset_url", e.ResetURL)
	put(d, "user_name", e.UserName)
	return Request{To: recipients(e.Email), Subject: subject, Template: TemplatePasswordReset, Data: d}
}

// VolunteerHoursApprovedEmail notifies an intern that logged hours were approved.
type VolunteerHoursApprovedEmail struct {
	InternEmail  string `json:"intern_email"`
	InternName   string `json:"intern_name"`
	ActivityType string `json:"activity_type"`
	Description  string `json:"description"`
	Hours        Value  `json:"hours"`
	Date         string `json:"date"`
	TotalHours   Value  `json:"total_hours"`
}

func (VolunteerHoursApprovedEmail) TemplateName() string { return TemplateVolunteerHoursApproved }

func (e VolunteerHoursApprovedEmail) Request(subject string) Request {
	d := Data{}
	put(d, "intern_name", e.InternName)
	put(d, "activity_type", e.ActivityType)
	put(d, "description", e.Description)
	putValue(d, "hours", e.Hours)
	put(d, "date", e.Date)
	putValue(d, "total_hours", e.TotalHours)
	return Request{To: recipients(e.InternEmail), Subject: subject, Template: TemplateVolunteerHoursApproved, Data: d}
}

// VolunteerHoursRejectedEmail notifies an intern that logged hours were rejected.
type VolunteerHoursRejectedEmail struct {
	InternEmail     string `json:"intern_email"`
	InternName      string `json:"intern_name"`
	ActivityType    string `json:"activity_type"`
	Description     string `json:"description"`
	Hours           Value  `json:"hours"`
	Date            string `json:"date"`
	RejectionReason string `json:"rejection_reason"`
}

func (VolunteerHoursRejectedEmail) TemplateName() string { return TemplateVolunteerHoursRejected }

func (e VolunteerHoursRejectedEmail) Request(subject string) Request {
	d := Data{}
	put(d, "intern_name", e.InternName)
	put(d, "activity_type", e.ActivityType)
	put(d, "description", e.Description)
	putValue(d, "hours", e.Hours)
	put(d, "date", e.Date)
	put(d, "rejection_reason", e.RejectionReason)
	return Request{To: recipients(e.InternEmail), Subject: subject, Template: TemplateVolunteerHoursRejected, Data: d}
}

// TutoringNotificationEmail announces a scheduled, cancelled or completed session.
type TutoringNotificationEmail struct {
	RecipientEmail  string `json:"recipient_email"`
	RecipientName   string `json:"recipient_name"`
	SessionType     string `json:"session_type,omitempty"`
	Message         string `json:"message"`
	Subject         string `json:"subject"`
	SessionDate     string `json:"session_date"`
	DurationMinutes Value  `json:"duration_minutes"`
	TutorName       string `json:"tutor_name"`
	StudentName     string `json:"student_name"`
	Notes           string `json:"notes,omitempty"`
}

func (TutoringNotificationEmail) TemplateName() string { return TemplateTutoringNotification }

// Request uses "Tutoring Session <type> - Novakinetix Academy" as the mail
// subject. Subject on the event is the tutoring subject, not the mail subject.
func (e TutoringNotificationEmail) Request(string) Request {
	sessionType := orDefault(e.SessionType, "Scheduled")
	d := Data{}
	put(d, "recipient_name", e.RecipientName)
	put(d, "session_type", sessionType)
	put(d, "message", e.Message)
	put(d, "subject", e.Subject)
	put(d, "session_date", e.SessionDate)
	putValue(d, "duration_minutes", e.DurationMinutes)
	put(d, "tutor_name", e.TutorName)
	put(d, "student_name", e.StudentName)
	put(d, "notes", e.Notes)
	return Request{
		To:       recipients(e.RecipientEmail),
		Subject:  fmt.Sprintf("Tutoring Session %s - Novakinetix Academy", sessionType),
		Template: TemplateTutoringNotification,
		Data:     d,
	}
}

// AdminNotificationEmail alerts an administrator.
type AdminNotificationEmail struct {
	AdminEmail          string `json:"admin_email"`
	AdminName           string `json:"admin_name"`
	NotificationMessage string `json:"notification_message"`
	NotificationType    string `json:"notification_type"`
	Priority            string `json:"priority,omitempty"`
	ActionRequired      string `json:"action_required,omitempty"`
	AdditionalInfo      string `json:"additional_info,omitempty"`
}

func (AdminNotificationEmail) TemplateName() string { return TemplateAdminNotification }

func (e AdminNotificationEmail) Request(subject string) Request {
	if t := strings.TrimSpace(e.NotificationType); t != "" {
		subject = fmt.Sprintf("Admin Notification: %s - Novakinetix Academy", t)
	}
	d := Data{}
	put(d, "admin_name", e.AdminName)
	put(d, "notification_message", e.NotificationMessage)
	put(d, "notification_type", e.NotificationType)
	put(d, "priority", orDefault(e.Priority, "normal"))
	put(d, "action_required", e.ActionRequired)
	put(d, "additional_info", e.AdditionalInfo)
	return Request{To: recipients(e.AdminEmail), Subject: subject, Template: TemplateAdminNotification, Data: d}
}

func recipients(addr string) []string {
	addr = strings.TrimSpace(addr)
	if addr == "" {
		return nil
	}
	return []string{addr}
}

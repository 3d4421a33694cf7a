package services

import (
	"bytes"
	"encoding/json"
	"log"
	"net/http"
	"os"
	"time"

	"prestaclick/internal/adapters/persistence/models"
)

// NotificationService posts workflow events to a webhook endpoint
// (typically a Slack-compatible or internal relay). Delivery is
// fire-and-forget: failures are logged and swallowed, never surfaced to
// the workflow.
type NotificationService struct {
	webhookURL string
	client     *http.Client
	enabled    bool
}

// NewNotificationService creates a new notification service
func NewNotificationService() *NotificationService {
	url := os.Getenv("NOTIFY_WEBHOOK_URL")
	return &NotificationService{
		webhookURL: url,
		client:     &http.Client{Timeout: 5 * time.Second},
		enabled:    url != "",
	}
}

// IsEnabled checks if notification is enabled
func (s *NotificationService) IsEnabled() bool {
	return s != nil && s.enabled
}

// notificationEvent is the webhook payload
type notificationEvent struct {
	Event         string `json:"event"`
	ApplicationID uint   `json:"application_id"`
	Folio         string `json:"folio"`
	Status        string `json:"status"`
	Applicant     string `json:"applicant,omitempty"`
	Actor         string `json:"actor,omitempty"`
	Reason        string `json:"reason,omitempty"`
	OccurredAt    string `json:"occurred_at"`
}

func (s *NotificationService) send(event *notificationEvent) {
	if !s.IsEnabled() {
		return
	}

	event.OccurredAt = time.Now().Format(time.RFC3339)
	body, err := json.Marshal(event)
	if err != nil {
		return
	}

	// Delivery must never block a workflow request
	go func() {
		resp, err := s.client.Post(s.webhookURL, "application/json", bytes.NewReader(body))
		if err != nil {
			log.Printf("⚠️ Notification delivery failed: %v", err)
			return
		}
		resp.Body.Close()
	}()
}

func applicantName(app *models.Application) string {
	if app.Person != nil {
		return app.Person.FullName()
	}
	if app.Company != nil {
		return app.Company.LegalName
	}
	return ""
}

// NotifySubmitted announces a newly submitted application
func (s *NotificationService) NotifySubmitted(app *models.Application) {
	if !s.IsEnabled() {
		return
	}
	s.send(&notificationEvent{
		Event:         "application.submitted",
		ApplicationID: app.ID,
		Folio:         app.Folio,
		Status:        string(app.Status),
		Applicant:     applicantName(app),
	})
}

// NotifyStatusChanged announces a status transition
func (s *NotificationService) NotifyStatusChanged(app *models.Application, actorName string) {
	if !s.IsEnabled() {
		return
	}
	s.send(&notificationEvent{
		Event:         "application.status_changed",
		ApplicationID: app.ID,
		Folio:         app.Folio,
		Status:        string(app.Status),
		Applicant:     applicantName(app),
		Actor:         actorName,
	})
}

// NotifyDecision announces an approval or rejection
func (s *NotificationService) NotifyDecision(app *models.Application, actorName string) {
	if !s.IsEnabled() {
		return
	}
	s.send(&notificationEvent{
		Event:         "application.decision",
		ApplicationID: app.ID,
		Folio:         app.Folio,
		Status:        string(app.Status),
		Applicant:     applicantName(app),
		Actor:         actorName,
		Reason:        app.RejectionReason,
	})
}

// NotifyStalled reminds reviewers about an application stuck in a blocked
// status. Used by the daily sweep.
func (s *NotificationService) NotifyStalled(app *models.Application, days int) {
	if !s.IsEnabled() {
		return
	}
	s.send(&notificationEvent{
		Event:         "application.stalled",
		ApplicationID: app.ID,
		Folio:         app.Folio,
		Status:        string(app.Status),
		Applicant:     applicantName(app),
	})
	log.Printf("📣 Reminder sent for application %s (%d+ days in %s)", app.Folio, days, app.Status)
}

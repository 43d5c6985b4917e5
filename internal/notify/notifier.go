// Package notify defines the outbound notification contract. Delivery
// (email, SMS, push) is owned by an external collaborator; this core only
// builds structured payloads and hands them over.
package notify

//go:generate mockgen -source=notifier.go -destination=mocks/mocks.go -package=mocks Notifier

import (
	"context"
	"log/slog"
	"sync"
)

// Category routes a notification to the right template downstream.
type Category string

const (
	CategoryStatusChange Category = "status_change"
	CategorySLA          Category = "sla"
	CategoryEscalation   Category = "escalation"
	CategoryDigest       Category = "digest"
)

// Severity orders notifications for downstream prioritization.
type Severity string

const (
	SeverityInfo     Severity = "info"
	SeverityWarning  Severity = "warning"
	SeverityCritical Severity = "critical"
)

// Notification is the structured payload handed to the delivery
// collaborator. Metadata carries checkId, candidateName, and eventKind so
// templates can link back without another lookup.
type Notification struct {
	Recipient string
	Category  Category
	Severity  Severity
	Title     string
	Message   string
	Link      string
	Metadata  map[string]string
}

// Notifier hands a notification to the delivery collaborator.
type Notifier interface {
	Send(ctx context.Context, n Notification) error
}

// LogNotifier writes notifications to the structured log. The default when
// no delivery collaborator is wired.
type LogNotifier struct {
	logger *slog.Logger
}

func NewLogNotifier(logger *slog.Logger) *LogNotifier {
	return &LogNotifier{logger: logger}
}

func (l *LogNotifier) Send(_ context.Context, n Notification) error {
	l.logger.Info("notification",
		"recipient", n.Recipient,
		"category", string(n.Category),
		"severity", string(n.Severity),
		"title", n.Title,
		"link", n.Link)
	return nil
}

// CaptureNotifier records notifications in memory for assertions.
type CaptureNotifier struct {
	mu   sync.Mutex
	sent []Notification
}

func NewCaptureNotifier() *CaptureNotifier {
	return &CaptureNotifier{}
}

func (c *CaptureNotifier) Send(_ context.Context, n Notification) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sent = append(c.sent, n)
	return nil
}

// Sent returns a copy of everything captured so far.
func (c *CaptureNotifier) Sent() []Notification {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]Notification{}, c.sent...)
}

// Reset clears captured notifications between test cases.
func (c *CaptureNotifier) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sent = nil
}

// Package notify renders submission-outcome emails and attempts delivery.
// Delivery is best-effort at-most-once: a failure is logged and swallowed,
// never surfaced to the HTTP caller and never rolled back into the already
// persisted submission.
package notify

import (
	"log"

	"ethidata/internal/domain"
	"ethidata/internal/metrics"
)

// Notifier dispatches the five submission-outcome emails.
type Notifier struct {
	sender    Sender
	teamEmail string
}

// NewNotifier creates a notifier that delivers through sender. Team
// notifications go to teamEmail.
func NewNotifier(sender Sender, teamEmail string) *Notifier {
	return &Notifier{sender: sender, teamEmail: teamEmail}
}

// ContactReceived confirms receipt to the submitter and notifies the team.
func (n *Notifier) ContactReceived(c *domain.Contact) {
	company := ""
	if c.Company != nil {
		company = *c.Company
	}

	confirmation := contactConfirmationEmail(c.Name)
	n.attempt(TemplateContactConfirmation, c.Email, confirmation)

	notification := contactNotificationEmail(c.Name, c.Email, company, c.Subject, c.Message)
	n.attempt(TemplateContactNotification, n.teamEmail, notification)
}

// ApplicationReceived confirms receipt of a job application.
func (n *Notifier) ApplicationReceived(a *domain.Application, jobTitle string) {
	n.attempt(TemplateApplicationConfirmation, a.Email, applicationConfirmationEmail(a.Name, jobTitle))
}

// EventRegistrationConfirmed confirms a registration with the event schedule.
func (n *Notifier) EventRegistrationConfirmed(reg *domain.EventRegistration, event *domain.Event) {
	rendered := eventRegistrationConfirmationEmail(reg.Name, event.Title, event.Date.Format("January 2, 2006"), event.Time)
	n.attempt(TemplateEventConfirmation, reg.Email, rendered)
}

// ResourceDownloadLink mails the download link for a requested resource.
func (n *Notifier) ResourceDownloadLink(email, name string, resource *domain.Resource) {
	n.attempt(TemplateResourceDownloadLink, email, resourceDownloadLinkEmail(name, resource.Title, resource.FileURL))
}

func (n *Notifier) attempt(template, to string, email renderedEmail) {
	err := n.sender.Send(to, email.subject, email.html, email.text)
	metrics.RecordEmail(template, err)
	if err != nil {
		log.Printf("[EMAIL] Warning: failed to send %s to %s: %v", template, to, err)
		return
	}
	log.Printf("[EMAIL] Sent %s to %s", template, to)
}

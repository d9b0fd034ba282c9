package notify

import (
	"fmt"
	"html"
)

// Template names, used for logging and metrics labels.
const (
	TemplateContactConfirmation     = "contact_confirmation"
	TemplateContactNotification     = "contact_notification"
	TemplateApplicationConfirmation = "application_confirmation"
	TemplateEventConfirmation       = "event_registration_confirmation"
	TemplateResourceDownloadLink    = "resource_download_link"
)

type renderedEmail struct {
	subject string
	html    string
	text    string
}

func contactConfirmationEmail(name string) renderedEmail {
	safeName := html.EscapeString(name)
	return renderedEmail{
		subject: "Thank you for contacting Ethidata",
		html: fmt.Sprintf(`<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;">
    <h2 style="color: #1a1a2e;">Thank You for Reaching Out</h2>
    <p>Hi %s,</p>
    <p>We've received your message and appreciate you taking the time to contact us.</p>
    <p>Our team will review your inquiry and get back to you within 1-2 business days.</p>
    <p>Best regards,<br>The Ethidata Team</p>
</div>`, safeName),
		text: fmt.Sprintf(`Hi %s,

We've received your message and appreciate you taking the time to contact us.
Our team will review your inquiry and get back to you within 1-2 business days.

Best regards,
The Ethidata Team`, name),
	}
}

func contactNotificationEmail(name, email, company, subject, message string) renderedEmail {
	companyRow := ""
	companyLine := "Not provided"
	if company != "" {
		companyRow = fmt.Sprintf(`<tr><td><strong>Company:</strong></td><td>%s</td></tr>`, html.EscapeString(company))
		companyLine = company
	}
	return renderedEmail{
		subject: fmt.Sprintf("New Contact Form Submission: %s", subject),
		html: fmt.Sprintf(`<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;">
    <h2 style="color: #1a1a2e;">New Contact Form Submission</h2>
    <table style="width: 100%%; border-collapse: collapse;">
        <tr><td><strong>Name:</strong></td><td>%s</td></tr>
        <tr><td><strong>Email:</strong></td><td><a href="mailto:%s">%s</a></td></tr>
        %s
        <tr><td><strong>Subject:</strong></td><td>%s</td></tr>
    </table>
    <h3>Message:</h3>
    <p style="background: #f5f5f5; padding: 15px; border-radius: 5px; white-space: pre-wrap;">%s</p>
</div>`, html.EscapeString(name), html.EscapeString(email), html.EscapeString(email), companyRow,
			html.EscapeString(subject), html.EscapeString(message)),
		text: fmt.Sprintf(`New Contact Form Submission

Name: %s
Email: %s
Company: %s
Subject: %s

Message:
%s`, name, email, companyLine, subject, message),
	}
}

func applicationConfirmationEmail(name, jobTitle string) renderedEmail {
	safeName := html.EscapeString(name)
	safeTitle := html.EscapeString(jobTitle)
	return renderedEmail{
		subject: fmt.Sprintf("Application Received: %s", jobTitle),
		html: fmt.Sprintf(`<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;">
    <h2 style="color: #1a1a2e;">Application Received</h2>
    <p>Hi %s,</p>
    <p>Thank you for applying for the <strong>%s</strong> position at Ethidata.</p>
    <p>We've received your application and our hiring team will review it carefully. If your qualifications match our requirements, we'll be in touch to schedule an interview.</p>
    <p>Best of luck,<br>The Ethidata Recruiting Team</p>
</div>`, safeName, safeTitle),
		text: fmt.Sprintf(`Hi %s,

Thank you for applying for the %s position at Ethidata.

We've received your application and our hiring team will review it carefully.
If your qualifications match our requirements, we'll be in touch to schedule
an interview.

Best of luck,
The Ethidata Recruiting Team`, name, jobTitle),
	}
}

func eventRegistrationConfirmationEmail(name, eventTitle, eventDate, eventTime string) renderedEmail {
	return renderedEmail{
		subject: fmt.Sprintf("Registration Confirmed: %s", eventTitle),
		html: fmt.Sprintf(`<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;">
    <h2 style="color: #1a1a2e;">Registration Confirmed!</h2>
    <p>Hi %s,</p>
    <p>You're registered for <strong>%s</strong>.</p>
    <div style="background: #f5f5f5; padding: 15px; border-radius: 5px; margin: 20px 0;">
        <p><strong>Date:</strong> %s</p>
        <p><strong>Time:</strong> %s</p>
    </div>
    <p>We'll send you a reminder before the event.</p>
    <p>See you there!<br>The Ethidata Team</p>
</div>`, html.EscapeString(name), html.EscapeString(eventTitle), html.EscapeString(eventDate), html.EscapeString(eventTime)),
		text: fmt.Sprintf(`Hi %s,

You're registered for %s.

Date: %s
Time: %s

We'll send you a reminder before the event.

See you there!
The Ethidata Team`, name, eventTitle, eventDate, eventTime),
	}
}

func resourceDownloadLinkEmail(name, resourceTitle, downloadURL string) renderedEmail {
	greetingHTML := "<p>Hello,</p>"
	greetingText := "Hello,"
	if name != "" {
		greetingHTML = fmt.Sprintf("<p>Hi %s,</p>", html.EscapeString(name))
		greetingText = fmt.Sprintf("Hi %s,", name)
	}
	return renderedEmail{
		subject: fmt.Sprintf("Your Download: %s", resourceTitle),
		html: fmt.Sprintf(`<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;">
    <h2 style="color: #1a1a2e;">Your Download is Ready</h2>
    %s
    <p>Thank you for your interest in <strong>%s</strong>.</p>
    <p style="text-align: center; margin: 30px 0;">
        <a href="%s" style="background: #6366f1; color: white; padding: 12px 24px; text-decoration: none; border-radius: 5px;">Download Now</a>
    </p>
    <p>Best regards,<br>The Ethidata Team</p>
</div>`, greetingHTML, html.EscapeString(resourceTitle), html.EscapeString(downloadURL)),
		text: fmt.Sprintf(`%s

Thank you for your interest in %s.

Download: %s

Best regards,
The Ethidata Team`, greetingText, resourceTitle, downloadURL),
	}
}

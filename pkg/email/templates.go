package email

import (
	"fmt"
)

// SubmissionEmailData contains the data needed for submission email templates.
type SubmissionEmailData struct {
	Name           string
	Email          string
	Phone          string // display form, e.g. "+919876543210"
	Reference      string
	FormLabel      string // e.g. "donation", "volunteer application"
	Reason         string // rejection/decline reason, when provided
	UnsubscribeURL string
	OrgName        string
	BaseURL        string
}

func (d SubmissionEmailData) orgName() string {
	if d.OrgName == "" {
		return "Samarthya Trust"
	}
	return d.OrgName
}

func (d SubmissionEmailData) firstName() string {
	if d.Name == "" {
		return "there"
	}
	return d.Name
}

func (d SubmissionEmailData) phoneLineText() string {
	if d.Phone == "" {
		return ""
	}
	return fmt.Sprintf("\nWe may also reach you at %s if needed.\n", d.Phone)
}

func (d SubmissionEmailData) phoneLineHTML() string {
	if d.Phone == "" {
		return ""
	}
	return fmt.Sprintf("\n    <p>We may also reach you at %s if needed.</p>", d.Phone)
}

// Build returns the message for a named template, or false when the
// template is unknown.
func Build(template string, data SubmissionEmailData) (Message, bool) {
	switch template {
	case "submission-received":
		return BuildSubmissionReceivedEmail(data), true
	case "newsletter-welcome":
		return BuildNewsletterWelcomeEmail(data), true
	case "donation-completed":
		return BuildGoodNewsEmail(data, "Thank you for your donation",
			"Your donation has been received and put to work. Thank you for standing with us."), true
	case "volunteer-approved":
		return BuildGoodNewsEmail(data, "Welcome to the volunteer team",
			"Your volunteer application has been approved. Our team will reach out with next steps."), true
	case "intern-accepted":
		return BuildGoodNewsEmail(data, "Your internship application is accepted",
			"Congratulations! Your internship application has been accepted. We will contact you shortly to schedule onboarding."), true
	case "volunteer-rejected":
		return BuildRegretEmail(data, "Update on your volunteer application"), true
	case "intern-rejected":
		return BuildRegretEmail(data, "Update on your internship application"), true
	case "collaboration-accepted":
		return BuildGoodNewsEmail(data, "Let's work together",
			"We would love to collaborate. Our partnerships team will be in touch."), true
	case "collaboration-declined":
		return BuildRegretEmail(data, "Update on your collaboration proposal"), true
	case "media-published":
		return BuildGoodNewsEmail(data, "Your submission is live",
			"Your media submission has been published. Thank you for sharing your story with us."), true
	case "news-published":
		return BuildGoodNewsEmail(data, "Your update is live",
			"Your news update has been published. Thank you for the contribution."), true
	}
	return Message{}, false
}

// BuildSubmissionReceivedEmail creates the confirmation sent right after a
// form submission is recorded.
func BuildSubmissionReceivedEmail(data SubmissionEmailData) Message {
	org := data.orgName()
	subject := fmt.Sprintf("We received your %s — %s", data.FormLabel, data.Reference)

	textBody := fmt.Sprintf(`Hi %s,

Thank you for reaching out to %s. We have received your %s.

Your reference code: %s
%s
Please keep this code for any follow-up. We will get back to you as soon as we can.

Warm regards,
The %s Team`,
		data.firstName(), org, data.FormLabel, data.Reference, data.phoneLineText(), org)

	htmlBody := fmt.Sprintf(`<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
</head>
<body style="font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, sans-serif; line-height: 1.6; color: #333; max-width: 600px; margin: 0 auto; padding: 20px;">
    <h2 style="color: #2563eb;">Hi %s,</h2>
    <p>Thank you for reaching out to %s. We have received your %s.</p>
    <p>Your reference code:</p>
    <p style="background-color: #f3f4f6; padding: 10px 15px; border-radius: 4px; font-family: monospace; font-size: 16px;">%s</p>%s
    <p>Please keep this code for any follow-up. We will get back to you as soon as we can.</p>
    <p style="color: #6b7280; font-size: 14px; margin-top: 30px;">Warm regards,<br>The %s Team</p>
</body>
</html>`,
		data.firstName(), org, data.FormLabel, data.Reference, data.phoneLineHTML(), org)

	return Message{
		To:       []string{data.Email},
		Subject:  subject,
		TextBody: textBody,
		HTMLBody: htmlBody,
	}
}

// BuildNewsletterWelcomeEmail creates the welcome message for new or
// reactivated newsletter subscribers.
func BuildNewsletterWelcomeEmail(data SubmissionEmailData) Message {
	org := data.orgName()
	subject := fmt.Sprintf("Welcome to the %s newsletter", org)

	textBody := fmt.Sprintf(`Hi %s,

You're subscribed to the %s newsletter. Expect stories from the field, event invitations, and updates on our programs.

If you ever want to stop receiving these emails, unsubscribe here:
%s

Warm regards,
The %s Team`,
		data.firstName(), org, data.UnsubscribeURL, org)

	htmlBody := fmt.Sprintf(`<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
</head>
<body style="font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, sans-serif; line-height: 1.6; color: #333; max-width: 600px; margin: 0 auto; padding: 20px;">
    <h2 style="color: #2563eb;">Hi %s,</h2>
    <p>You're subscribed to the %s newsletter. Expect stories from the field, event invitations, and updates on our programs.</p>
    <p style="color: #6b7280; font-size: 14px; margin-top: 30px;">If you ever want to stop receiving these emails, <a href="%s">unsubscribe here</a>.</p>
    <p style="color: #6b7280; font-size: 14px;">Warm regards,<br>The %s Team</p>
</body>
</html>`,
		data.firstName(), org, data.UnsubscribeURL, org)

	return Message{
		To:       []string{data.Email},
		Subject:  subject,
		TextBody: textBody,
		HTMLBody: htmlBody,
	}
}

// BuildGoodNewsEmail creates a positive status-update message.
func BuildGoodNewsEmail(data SubmissionEmailData, subject, lead string) Message {
	org := data.orgName()

	textBody := fmt.Sprintf(`Hi %s,

%s

Reference: %s

Warm regards,
The %s Team`,
		data.firstName(), lead, data.Reference, org)

	htmlBody := fmt.Sprintf(`<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
</head>
<body style="font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, sans-serif; line-height: 1.6; color: #333; max-width: 600px; margin: 0 auto; padding: 20px;">
    <h2 style="color: #16a34a;">Hi %s,</h2>
    <p>%s</p>
    <p>Reference: <strong>%s</strong></p>
    <p style="color: #6b7280; font-size: 14px; margin-top: 30px;">Warm regards,<br>The %s Team</p>
</body>
</html>`,
		data.firstName(), lead, data.Reference, org)

	return Message{
		To:       []string{data.Email},
		Subject:  subject,
		TextBody: textBody,
		HTMLBody: htmlBody,
	}
}

// BuildRegretEmail creates a decline/rejection message, including the
// reason when one was recorded.
func BuildRegretEmail(data SubmissionEmailData, subject string) Message {
	org := data.orgName()

	reasonText := ""
	reasonHTML := ""
	if data.Reason != "" {
		reasonText = "\n\n" + data.Reason
		reasonHTML = fmt.Sprintf(`<p style="background-color: #f3f4f6; padding: 10px 15px; border-radius: 4px;">%s</p>`, data.Reason)
	}

	textBody := fmt.Sprintf(`Hi %s,

Thank you for your interest in %s. After careful review, we are unable to move forward at this time.%s

We truly appreciate the time you took, and we hope you stay connected with our work.

Warm regards,
The %s Team`,
		data.firstName(), org, reasonText, org)

	htmlBody := fmt.Sprintf(`<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
</head>
<body style="font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, sans-serif; line-height: 1.6; color: #333; max-width: 600px; margin: 0 auto; padding: 20px;">
    <h2 style="color: #2563eb;">Hi %s,</h2>
    <p>Thank you for your interest in %s. After careful review, we are unable to move forward at this time.</p>
    %s
    <p>We truly appreciate the time you took, and we hope you stay connected with our work.</p>
    <p style="color: #6b7280; font-size: 14px; margin-top: 30px;">Warm regards,<br>The %s Team</p>
</body>
</html>`,
		data.firstName(), org, reasonHTML, org)

	return Message{
		To:       []string{data.Email},
		Subject:  subject,
		TextBody: textBody,
		HTMLBody: htmlBody,
	}
}

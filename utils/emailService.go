package utils

import (
	"fmt"
	"html"

	"empowerment/models"
	"empowerment/notify"
)

// HTML wrapper shared by every outgoing email
func getEmailTemplate(title string, bodyContent string) string {
	return fmt.Sprintf(`
	<!DOCTYPE html>
	<html>
	<head>
		<style>
			body { font-family: 'Helvetica Neue', Helvetica, Arial, sans-serif; background-color: #F6F6F6; margin: 0; padding: 0; }
			.container { max-width: 600px; margin: 40px auto; background: #FFFFFF; border-radius: 8px; overflow: hidden; }
			.header { background-color: #1B5E20; padding: 30px; text-align: center; }
			.header h1 { color: #FFFFFF; margin: 0; font-size: 22px; letter-spacing: 1px; }
			.content { padding: 40px 30px; color: #1B1B1B; line-height: 1.6; }
			.footer { background-color: #F6F6F6; padding: 20px; text-align: center; font-size: 12px; color: #666666; }
			.info-box { background: #E8F5E9; padding: 15px; border-radius: 4px; border-left: 4px solid #F9A825; margin: 20px 0; }
		</style>
	</head>
	<body>
		<div class="container">
			<div class="header">
				<h1>WOMEN &amp; YOUTH EMPOWERMENT</h1>
			</div>
			<div class="content">
				<h2>%s</h2>
				%s
			</div>
			<div class="footer">
				This is an automated message. Please do not reply.
			</div>
		</div>
	</body>
	</html>
	`, title, bodyContent)
}

// BankStatusSummary turns a bank status code into the wording applicants see.
func BankStatusSummary(bankStatus string) string {
	switch bankStatus {
	case models.BankStatusVerified:
		return "approved"
	case models.BankStatusRejected:
		return "rejected due to existing loan"
	case models.BankStatusNoBusiness:
		return "rejected (no business info)"
	default:
		return "status unknown"
	}
}

// --- Triggers ---

// 1. New applicant in a sheha's ward
func NewApplicantEmail(sheha models.Sheha, applicant models.Applicant) notify.Message {
	body := fmt.Sprintf(`
		<p>Dear %s,</p>
		<p>A new applicant from <strong>%s</strong> has registered in your ward.</p>
		<div class="info-box">
			<strong>Applicant:</strong> %s
		</div>
		<p>Please review their information in your notifications.</p>
	`, html.EscapeString(sheha.Name), html.EscapeString(applicant.Village), html.EscapeString(applicant.Name))

	return notify.Message{
		DedupKey: fmt.Sprintf("new-applicant:%d", applicant.ID),
		To:       sheha.Email,
		Subject:  "New Applicant Notification",
		HTML:     getEmailTemplate("New Applicant", body),
	}
}

// 2. Sheha approved, with the bank outcome
func ApplicationStatusEmail(requestID uint, to string, applicant models.Applicant) notify.Message {
	body := fmt.Sprintf(`
		<p>Dear %s,</p>
		<p>Your application was approved by the Sheha.</p>
		<div class="info-box">
			<strong>Bank verification:</strong> %s
		</div>
	`, html.EscapeString(applicant.Name), BankStatusSummary(applicant.BankStatus))

	return notify.Message{
		DedupKey: fmt.Sprintf("verification:%d", requestID),
		To:       to,
		Subject:  "Application Status",
		HTML:     getEmailTemplate("Application Status", body),
	}
}

// 3. Loan officer decision
func LoanDecisionEmail(to string, applicant models.Applicant, application models.LoanApplication) notify.Message {
	body := fmt.Sprintf(`
		<p>Dear %s,</p>
		<p>Your loan application #%d for <strong>%s</strong> has been <strong>%s</strong>.</p>
		<div class="info-box">%s</div>
	`, html.EscapeString(applicant.Name), application.ID, application.AmountRequested.StringFixed(2),
		application.Decision, html.EscapeString(application.SystemComment))

	return notify.Message{
		DedupKey: fmt.Sprintf("loan-decision:%d", application.ID),
		To:       to,
		Subject:  "Loan Application " + application.Decision,
		HTML:     getEmailTemplate("Loan Application Update", body),
	}
}

// 4. Welcome / Signup
func WelcomeEmail(user models.User) notify.Message {
	body := fmt.Sprintf(`
		<p>Dear %s,</p>
		<p>Your account <strong>%s</strong> has been created.</p>
		<p>Complete your applicant profile so the Sheha of your ward can verify you.</p>
	`, html.EscapeString(user.Name), html.EscapeString(user.Username))

	return notify.Message{
		DedupKey: fmt.Sprintf("welcome:%d", user.ID),
		To:       user.Email,
		Subject:  "Welcome",
		HTML:     getEmailTemplate("Welcome Onboard!", body),
	}
}

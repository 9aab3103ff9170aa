// Package compose renders the audience-specific subject and dual-format
// body for a notification event. Rendering is pure: missing record fields
// become "N/A" placeholders instead of errors.
package compose

import (
	"bytes"
	"fmt"
	"html/template"
	"strings"
	"time"

	"business-notifier/internal/models"
)

const missingField = "N/A"

// Message is one rendered email: a subject, an HTML body, and the plain
// text mechanically derived from it.
type Message struct {
	Subject string
	HTML    string
	Text    string
}

type Composer struct {
	brand string
	now   func() time.Time
}

func NewComposer(brand string) *Composer {
	return &Composer{
		brand: brand,
		now:   time.Now,
	}
}

// Compose renders the message for one audience of the event. The
// loan-status template is only used for the client audience; staff always
// receive the internal detail template.
func (c *Composer) Compose(event *models.NotificationEvent, audience string) Message {
	if audience == models.AudienceClient && event.UpdateKind == models.UpdateKindLoanStatus {
		return c.composeLoanStatus(event)
	}
	if audience == models.AudienceStaff {
		return c.composeStaff(event)
	}
	return c.composeClient(event)
}

func (c *Composer) composeStaff(event *models.NotificationEvent) Message {
	data := c.templateData(event)
	subject := fmt.Sprintf("Client %s: %s", data.UpdateKind, orDefault(event.Record.LegalName, "Unknown Client"))
	html := render(staffTemplate, data)
	return Message{Subject: subject, HTML: html, Text: HTMLToText(html)}
}

func (c *Composer) composeClient(event *models.NotificationEvent) Message {
	data := c.templateData(event)
	html := render(clientTemplate, data)
	return Message{
		Subject: "Your Business Application Status Update",
		HTML:    html,
		Text:    HTMLToText(html),
	}
}

func (c *Composer) composeLoanStatus(event *models.NotificationEvent) Message {
	data := c.templateData(event)
	subject := fmt.Sprintf("Your Loan Status Update - %s", c.brand)
	html := render(loanStatusTemplate, data)
	return Message{Subject: subject, HTML: html, Text: HTMLToText(html)}
}

type templateData struct {
	Brand              string
	Actor              string
	UpdateKind         string
	UpdateKindLower    string
	ClientName         string
	LegalName          string
	TradeName          string
	RegistrationNumber string
	ConstitutionType   string
	MobileNumber       string
	UserEmail          string
	CompanyEmail       string
	Status             string
	StatusColor        string
	LoanStatus         string
	LoanStatusColor    string
	LoanStatusUpper    string
	UpdatedAt          string
}

func (c *Composer) templateData(event *models.NotificationEvent) templateData {
	record := event.Record

	loanStatus := event.LoanStatus
	if loanStatus == "" {
		loanStatus = orDefault(record.LoanStatus, models.LoanStatusSoon)
	}

	clientName := record.LegalName
	if clientName == "" {
		clientName = record.TradeName
	}
	if clientName == "" {
		clientName = "Client"
	}

	return templateData{
		Brand:              c.brand,
		Actor:              orDefault(event.ActorName, missingField),
		UpdateKind:         humanizeKind(event.UpdateKind),
		UpdateKindLower:    strings.ToLower(humanizeKind(event.UpdateKind)),
		ClientName:         clientName,
		LegalName:          orDefault(record.LegalName, missingField),
		TradeName:          orDefault(record.TradeName, missingField),
		RegistrationNumber: orDefault(record.RegistrationNumber, missingField),
		ConstitutionType:   orDefault(record.ConstitutionType, missingField),
		MobileNumber:       orDefault(record.MobileNumber, missingField),
		UserEmail:          orDefault(record.UserEmail, missingField),
		CompanyEmail:       orDefault(record.CompanyEmail, missingField),
		Status:             orDefault(record.Status, missingField),
		StatusColor:        badgeColor(statusColors, record.Status),
		LoanStatus:         loanStatus,
		LoanStatusColor:    badgeColor(loanStatusColors, loanStatus),
		LoanStatusUpper:    strings.ToUpper(loanStatus),
		UpdatedAt:          c.now().UTC().Format("2006-01-02 15:04:05"),
	}
}

func render(tmpl *template.Template, data templateData) string {
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		// Templates are parsed at init and data is a plain struct; an
		// execute failure here means a template bug, not bad input.
		return fmt.Sprintf("<html><body><p>%s notification</p></body></html>", data.Brand)
	}
	return buf.String()
}

func humanizeKind(kind string) string {
	switch kind {
	case models.UpdateKindLoanStatus:
		return "Loan Status Updated"
	case models.UpdateKindGeneric, "":
		return "Updated"
	default:
		return titleCase(kind)
	}
}

func titleCase(s string) string {
	s = strings.ReplaceAll(s, "_", " ")
	words := strings.Fields(s)
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}

func orDefault(val, fallback string) string {
	if val == "" {
		return fallback
	}
	return val
}

func badgeColor(palette map[string]string, key string) string {
	if color, ok := palette[strings.ToLower(key)]; ok {
		return color
	}
	return defaultBadgeColor
}

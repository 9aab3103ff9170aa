package models

import "strings"

// ClientRecord is a snapshot of a business client taken at the moment the
// triggering update was committed. It is owned by the event that carries it
// and is never mutated afterwards.
type ClientRecord struct {
	LegalName          string   `json:"legalName"`
	TradeName          string   `json:"tradeName"`
	RegistrationNumber string   `json:"registrationNumber"`
	ConstitutionType   string   `json:"constitutionType"`
	MobileNumber       string   `json:"mobileNumber"`
	UserEmail          string   `json:"userEmail"`
	CompanyEmail       string   `json:"companyEmail"`
	StaffEmails        []string `json:"staffEmails,omitempty"`
	AssignedStaff      []string `json:"assignedStaff,omitempty"` // free-form: names or emails
	StaffEmail         string   `json:"staffEmail,omitempty"`    // creator, may be the literal "Unknown"
	CreatedBy          string   `json:"createdBy,omitempty"`     // directory account id
	Status             string   `json:"status"`
	LoanStatus         string   `json:"loanStatus"`
}

// StaffAccount is a read-only view of one internal account as returned by
// the staff directory.
type StaffAccount struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// DisplayName returns the account name, falling back to the local part of
// the email address.
func (a StaffAccount) DisplayName() string {
	if a.Name != "" {
		return a.Name
	}
	if at := strings.IndexByte(a.Email, '@'); at > 0 {
		return a.Email[:at]
	}
	return a.Email
}

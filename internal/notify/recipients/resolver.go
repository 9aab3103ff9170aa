// Package recipients derives the two notification audiences, internal staff
// and client contacts, from a client record and a staff directory snapshot.
package recipients

import (
	"context"
	"strings"

	"business-notifier/internal/common/logger"
	"business-notifier/internal/models"
)

// The creator field holds this placeholder when the record predates the
// field being captured.
const unknownCreator = "Unknown"

// Directory is the read-only staff directory port. StaffAccounts returns
// every internal account carrying the organizational marker; LookupByID
// resolves one account for the creator step.
type Directory interface {
	StaffAccounts(ctx context.Context) ([]models.StaffAccount, error)
	LookupByID(ctx context.Context, id string) (*models.StaffAccount, error)
}

type Resolver struct {
	staffPrefix string
	logger      logger.Logger
}

func NewResolver(staffPrefix string, log logger.Logger) *Resolver {
	return &Resolver{
		staffPrefix: staffPrefix,
		logger:      log,
	}
}

// Resolve computes the recipient set for one event. Directory failures
// degrade the result instead of failing it: a broken staff query yields an
// empty staff side, a creator lookup miss skips the creator step. Both are
// logged.
func (r *Resolver) Resolve(ctx context.Context, record models.ClientRecord, dir Directory) *models.RecipientSet {
	set := &models.RecipientSet{}

	r.resolveStaff(ctx, record, dir, set)
	r.resolveClient(ctx, record, dir, set)

	r.logger.Info("recipients resolved", map[string]interface{}{
		"staff":  len(set.Staff),
		"client": len(set.Client),
	})

	return set
}

func (r *Resolver) resolveStaff(ctx context.Context, record models.ClientRecord, dir Directory, set *models.RecipientSet) {
	// Unscoped staff broadcast is intentionally not supported: a record
	// with no assignment notifies nobody on the staff side.
	if len(record.AssignedStaff) == 0 {
		r.logger.Debug("no assigned staff on record, skipping staff audience", nil)
		return
	}

	accounts, err := dir.StaffAccounts(ctx)
	if err != nil {
		r.logger.WithError(err).Warn("staff directory query failed, staff audience empty", nil)
		return
	}

	for _, acct := range accounts {
		if acct.Email == "" || !strings.HasPrefix(acct.Email, r.staffPrefix) {
			continue
		}
		if !r.isAssigned(acct, record.AssignedStaff) {
			r.logger.Debug("skipping non-assigned staff account", map[string]interface{}{
				"email": acct.Email,
			})
			continue
		}
		appendRecipient(&set.Staff, acct.DisplayName(), acct.Email)
	}
}

// isAssigned matches a directory account against the free-form assignment
// entries: exact email, exact display name, or the entry appearing as a
// substring of the address.
func (r *Resolver) isAssigned(acct models.StaffAccount, assigned []string) bool {
	name := acct.DisplayName()
	for _, entry := range assigned {
		if entry == "" {
			continue
		}
		if acct.Email == entry || name == entry || strings.Contains(acct.Email, entry) {
			return true
		}
	}
	return false
}

func (r *Resolver) resolveClient(ctx context.Context, record models.ClientRecord, dir Directory, set *models.RecipientSet) {
	clientName := record.LegalName
	if clientName == "" {
		clientName = "Client"
	}

	appendRecipient(&set.Client, clientName, record.UserEmail)
	appendRecipient(&set.Client, clientName, record.CompanyEmail)

	for _, email := range record.StaffEmails {
		appendRecipient(&set.Client, clientName, email)
	}

	if name, email, ok := r.resolveCreator(ctx, record, dir); ok {
		appendRecipient(&set.Client, name, email)
	}
}

// resolveCreator prefers the explicit creator address on the record, then
// falls back to a directory lookup of the creating account.
func (r *Resolver) resolveCreator(ctx context.Context, record models.ClientRecord, dir Directory) (name, email string, ok bool) {
	if record.StaffEmail != "" && record.StaffEmail != unknownCreator {
		local := record.StaffEmail
		if at := strings.IndexByte(local, '@'); at > 0 {
			local = local[:at]
		}
		return local, record.StaffEmail, true
	}

	if record.CreatedBy == "" {
		return "", "", false
	}

	acct, err := dir.LookupByID(ctx, record.CreatedBy)
	if err != nil {
		r.logger.WithError(err).Warn("creator lookup failed, skipping creator recipient", map[string]interface{}{
			"createdBy": record.CreatedBy,
		})
		return "", "", false
	}
	if acct == nil || acct.Email == "" {
		r.logger.Warn("creator not found in directory, skipping creator recipient", map[string]interface{}{
			"createdBy": record.CreatedBy,
		})
		return "", "", false
	}

	return acct.DisplayName(), acct.Email, true
}

// appendRecipient adds one address, deduplicated case-insensitively with
// the first-seen display name winning. Empty addresses are dropped.
func appendRecipient(list *[]models.Recipient, name, email string) {
	if email == "" || models.ContainsEmail(*list, email) {
		return
	}
	*list = append(*list, models.Recipient{Name: name, Email: email})
}

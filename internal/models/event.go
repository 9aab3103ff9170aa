package models

// Update kinds
const (
	UpdateKindGeneric    = "updated"
	UpdateKindLoanStatus = "loan_status"
)

// Loan statuses
const (
	LoanStatusApproved   = "approved"
	LoanStatusProcessing = "processing"
	LoanStatusHold       = "hold"
	LoanStatusRejected   = "rejected"
	LoanStatusSoon       = "soon"
)

// NotificationEvent is produced by the request-handling layer after it
// commits a client mutation. Created once per state change and consumed
// exactly once by the dispatch pipeline.
type NotificationEvent struct {
	ID         string       `json:"id"`
	Record     ClientRecord `json:"record"`
	ActorName  string       `json:"actorName"`
	UpdateKind string       `json:"updateKind"`
	LoanStatus string       `json:"loanStatus,omitempty"` // set only for loan_status events
}

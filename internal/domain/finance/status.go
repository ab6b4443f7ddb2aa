package finance

// AccountStatus is the payment state of a receivable or payable
type AccountStatus string

const (
	AccountStatusPending       AccountStatus = "pending"
	AccountStatusPartiallyPaid AccountStatus = "partially_paid"
	AccountStatusPaid          AccountStatus = "paid"
	AccountStatusOverdue       AccountStatus = "overdue"
)

// IsValid reports whether s is a known status
func (s AccountStatus) IsValid() bool {
	switch s {
	case AccountStatusPending, AccountStatusPartiallyPaid, AccountStatusPaid, AccountStatusOverdue:
		return true
	}
	return false
}

// CanBecomeOverdue reports whether the overdue sweep applies to s
func (s AccountStatus) CanBecomeOverdue() bool {
	return s == AccountStatusPending || s == AccountStatusPartiallyPaid
}

// OverdueCandidateStatuses lists the statuses the overdue sweep moves
func OverdueCandidateStatuses() []AccountStatus {
	return []AccountStatus{AccountStatusPending, AccountStatusPartiallyPaid}
}

// InstallmentStatus is the payment state of a single installment
type InstallmentStatus string

const (
	InstallmentStatusPending InstallmentStatus = "pending"
	InstallmentStatusPaid    InstallmentStatus = "paid"
)

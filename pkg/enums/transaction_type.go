package enums

import "fmt"

// TransactionType tags every wallet ledger row. Commission-tagged rows carry
// an order reference and participate in the (user, type, order) idempotency
// key; the remaining tags describe balance movements with no order linkage.
type TransactionType string

const (
	TransactionMarketerCommission          TransactionType = "marketer_commission"
	TransactionMarketerCommissionAvailable TransactionType = "marketer_commission_available"
	TransactionMarketerCommissionWithheld  TransactionType = "marketer_commission_withheld"
	TransactionAdminCommission             TransactionType = "admin_commission"
	TransactionSuperAdminCommission        TransactionType = "superadmin_commission"
	TransactionWithheldRelease             TransactionType = "withheld_release"
	TransactionWithheldReject              TransactionType = "withheld_reject"
	TransactionWithdrawalRequest           TransactionType = "withdrawal_request"
	TransactionWithdrawalRefund            TransactionType = "withdrawal_refund"
)

var validTransactionTypes = []TransactionType{
	TransactionMarketerCommission,
	TransactionMarketerCommissionAvailable,
	TransactionMarketerCommissionWithheld,
	TransactionAdminCommission,
	TransactionSuperAdminCommission,
	TransactionWithheldRelease,
	TransactionWithheldReject,
	TransactionWithdrawalRequest,
	TransactionWithdrawalRefund,
}

var commissionTransactionTypes = map[TransactionType]bool{
	TransactionMarketerCommission:          true,
	TransactionMarketerCommissionAvailable: true,
	TransactionMarketerCommissionWithheld:  true,
	TransactionAdminCommission:             true,
	TransactionSuperAdminCommission:        true,
}

// String implements fmt.Stringer.
func (t TransactionType) String() string {
	return string(t)
}

// IsValid reports whether the value is a known TransactionType.
func (t TransactionType) IsValid() bool {
	for _, candidate := range validTransactionTypes {
		if candidate == t {
			return true
		}
	}
	return false
}

// IsCommission reports whether rows of this type must carry an order reference.
func (t TransactionType) IsCommission() bool {
	return commissionTransactionTypes[t]
}

// ParseTransactionType converts raw input into a TransactionType.
func ParseTransactionType(value string) (TransactionType, error) {
	for _, candidate := range validTransactionTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid transaction type %q", value)
}

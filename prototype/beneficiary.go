package prototype

import (
	"github.com/coschain/contentos-reward/common/constants"
)

// Beneficiary receives Weight basis points of the author's share of a payout.
type Beneficiary struct {
	Account *AccountName `json:"account"`
	Weight  uint16       `json:"weight"`
}

// ValidateBeneficiaries checks a route list: at most MaxBeneficiaries entries, strictly
// sorted by account name, positive weights summing to at most 100%.
func ValidateBeneficiaries(list []*Beneficiary) error {
	if len(list) == 0 {
		return Reject(StatusBeneficiaryInvalid, "must specify at least one beneficiary")
	}
	if len(list) > constants.MaxBeneficiaries {
		return Reject(StatusBeneficiaryInvalid, "cannot specify more than %d beneficiaries", constants.MaxBeneficiaries)
	}
	var sum uint32
	for i, b := range list {
		if b == nil {
			return Reject(StatusBeneficiaryInvalid, "null beneficiary at %d", i)
		}
		if err := b.Account.Validate(); err != nil {
			return Reject(StatusBeneficiaryInvalid, "beneficiary %d: %v", i, err)
		}
		if b.Weight == 0 || b.Weight > constants.PERCENT {
			return Reject(StatusBeneficiaryInvalid, "beneficiary %s weight %d out of range", b.Account.Value, b.Weight)
		}
		sum += uint32(b.Weight)
		if sum > constants.PERCENT {
			return Reject(StatusBeneficiaryInvalid, "beneficiary weights sum above 100%%")
		}
		if i > 0 && list[i-1].Account.Value >= b.Account.Value {
			return Reject(StatusBeneficiaryInvalid, "beneficiaries must be sorted by account and unique")
		}
	}
	return nil
}

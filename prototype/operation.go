package prototype

import (
	"github.com/coschain/contentos-reward/common/constants"
)

const maxPermlinkLength = 256

// Operation is one of VoteOperation, CommentOperation or CommentOptionsOperation.
type Operation interface {
	Validate() error
	isOperation()
}

type VoteOperation struct {
	Voter    *AccountName `json:"voter"`
	Author   *AccountName `json:"author"`
	Permlink string       `json:"permlink"`
	// signed basis points, zero removes the vote
	Weight int16 `json:"weight"`
}

type CommentOperation struct {
	Author         *AccountName `json:"author"`
	Permlink       string       `json:"permlink"`
	ParentAuthor   *AccountName `json:"parent_author,omitempty"`
	ParentPermlink string       `json:"parent_permlink,omitempty"`
	// throttled reward weight in basis points, zero means full weight
	RewardWeight uint16 `json:"reward_weight,omitempty"`
}

type CommentOptionsOperation struct {
	Author               *AccountName   `json:"author"`
	Permlink             string         `json:"permlink"`
	MaxAcceptedPayout    uint64         `json:"max_accepted_payout"`
	PercentStableUnit    uint16         `json:"percent_stable_unit"`
	AllowVotes           bool           `json:"allow_votes"`
	AllowCurationRewards bool           `json:"allow_curation_rewards"`
	Beneficiaries        []*Beneficiary `json:"beneficiaries,omitempty"`
}

func (*VoteOperation) isOperation()           {}
func (*CommentOperation) isOperation()        {}
func (*CommentOptionsOperation) isOperation() {}

func validatePermlink(permlink string) error {
	if len(permlink) == 0 || len(permlink) > maxPermlinkLength {
		return Reject(StatusOperationInvalid, "permlink length must be between 1 and %d", maxPermlinkLength)
	}
	return nil
}

func (m *VoteOperation) Validate() error {
	if m == nil {
		return ErrNpe
	}
	if err := m.Voter.Validate(); err != nil {
		return Reject(StatusOperationInvalid, "voter: %v", err)
	}
	if err := m.Author.Validate(); err != nil {
		return Reject(StatusOperationInvalid, "author: %v", err)
	}
	if err := validatePermlink(m.Permlink); err != nil {
		return err
	}
	if m.Weight > constants.PERCENT || m.Weight < -constants.PERCENT {
		return Reject(StatusOperationInvalid, "weight %d is not between -100%% and 100%%", m.Weight)
	}
	return nil
}

func (m *CommentOperation) IsRoot() bool {
	return m.ParentAuthor == nil || m.ParentAuthor.Value == ""
}

func (m *CommentOperation) Validate() error {
	if m == nil {
		return ErrNpe
	}
	if err := m.Author.Validate(); err != nil {
		return Reject(StatusOperationInvalid, "author: %v", err)
	}
	if err := validatePermlink(m.Permlink); err != nil {
		return err
	}
	if !m.IsRoot() {
		if err := m.ParentAuthor.Validate(); err != nil {
			return Reject(StatusOperationInvalid, "parent author: %v", err)
		}
		if err := validatePermlink(m.ParentPermlink); err != nil {
			return err
		}
	}
	if m.RewardWeight > constants.PERCENT {
		return Reject(StatusOperationInvalid, "reward weight %d above 100%%", m.RewardWeight)
	}
	return nil
}

func (m *CommentOptionsOperation) Validate() error {
	if m == nil {
		return ErrNpe
	}
	if err := m.Author.Validate(); err != nil {
		return Reject(StatusOperationInvalid, "author: %v", err)
	}
	if err := validatePermlink(m.Permlink); err != nil {
		return err
	}
	if m.PercentStableUnit > constants.PERCENT {
		return Reject(StatusOptionsInvalid, "percent stable unit %d above 100%%", m.PercentStableUnit)
	}
	if len(m.Beneficiaries) > 0 {
		return ValidateBeneficiaries(m.Beneficiaries)
	}
	return nil
}

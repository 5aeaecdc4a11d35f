package table

import (
	"github.com/coschain/contentos-reward/hardfork"
	"github.com/coschain/contentos-reward/prototype"
	"github.com/holiman/uint256"
)

// Content is a post (ParentId zero) or a reply. Parent and root are arena ids.
type Content struct {
	Id       prototype.ContentId
	Author   string
	Permlink string
	ParentId prototype.ContentId
	RootId   prototype.ContentId
	Depth    uint16
	Children uint32

	Created        prototype.TimePointSec
	CreatedVersion hardfork.Version
	LastPayout     prototype.TimePointSec

	NetRShares         int64
	AbsRShares         uint64
	VoteRShares        uint64
	ChildrenAbsRShares uint64
	// vshares summed over the subtree rooted here, this node included
	ChildrenRShares2 uint256.Int
	NetVotes         int32

	CashoutTime    prototype.TimePointSec
	MaxCashoutTime prototype.TimePointSec

	TotalVoteWeight uint64
	RewardWeight    uint16

	PercentStableUnit    uint16
	MaxAcceptedPayout    uint64
	AllowVotes           bool
	AllowCurationRewards bool
	Beneficiaries        []*prototype.Beneficiary

	AuthorRewards          uint64
	TotalPayoutValue       uint64
	CuratorPayoutValue     uint64
	BeneficiaryPayoutValue uint64
}

func (c *Content) IsRoot() bool {
	return !c.ParentId.Valid()
}

func (c *Content) clone() *Content {
	n := *c
	if c.Beneficiaries != nil {
		n.Beneficiaries = make([]*prototype.Beneficiary, len(c.Beneficiaries))
		for i, b := range c.Beneficiaries {
			cb := *b
			if b.Account != nil {
				cb.Account = prototype.NewAccountName(b.Account.Value)
			}
			n.Beneficiaries[i] = &cb
		}
	}
	return &n
}

// Vote is the record of one voter on one content item.
type Vote struct {
	Voter       string
	Content     prototype.ContentId
	RShares     int64
	VotePercent int16
	Weight      uint64
	LastUpdate  prototype.TimePointSec
	NumChanges  int8
}

func (v *Vote) Key() prototype.VoterId {
	return prototype.VoterId{Voter: v.Voter, Content: v.Content}
}

func (v *Vote) Paid() bool {
	return v.NumChanges == -1
}

type Account struct {
	Name          string
	Balance       uint64
	StableBalance uint64
	VestingShares uint64

	VotingPower  uint16
	LastVoteTime prototype.TimePointSec

	CurationRewards uint64
	PostingRewards  uint64
}

type RewardFund struct {
	Name                  string
	RecentRShares2        uint256.Int
	RewardBalance         uint64
	PercentContentRewards uint16
	LastUpdate            prototype.TimePointSec
}

// Globals is the singleton of chain wide counters.
type Globals struct {
	HeadBlock uint64
	HeadTime  prototype.TimePointSec
	Version   hardfork.Version

	TotalRewardShares2 uint256.Int
	TotalRewardFund    uint64
	TotalEmitted       uint64
	TotalPaid          uint64

	TotalVestingFund   uint64
	TotalVestingShares uint64
	TotalStable        uint64
	TotalLiquid        uint64

	PriceFeed       prototype.Price
	StablePrintRate uint16
}

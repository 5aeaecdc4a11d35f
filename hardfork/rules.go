package hardfork

import "github.com/coschain/contentos-reward/common/constants"

type CashoutRule uint8

const (
	// votes move the root's cashout to a weighted average of the current schedule and a fresh window
	AveragedWindow CashoutRule = iota
	// every content item gets one window at creation, votes never move it
	FixedWindow
)

type CurationCurve uint8

const (
	// weight = rshares^3 / abs_rshares^2
	PreAuctionCurve CurationCurve = iota
	// weight = W(R_after) - W(R_before), discounted during the reverse auction window
	AuctionCurve
)

type DustRule uint8

const (
	// used power rounds down plus one, rshares never below one, no threshold
	LenientDust DustRule = iota
	// used power rounds up, rshares must exceed the dust threshold
	StrictDust
)

type FundModel uint8

const (
	// all content pays from the post fund against live state, whole threads at once
	SharedFund FundModel = iota
	// roots pay from the post fund, replies from the comment fund, against a per-block snapshot
	SplitFunds
)

// VoteRetention is what a later vote may do with a vote record marked paid.
type VoteRetention uint8

const (
	// the paid record is deleted and the vote counts as new
	LazyDeleteVotes VoteRetention = iota
	// the paid record blocks further votes
	InertVotes
)

type BeneficiaryBase uint8

const (
	// beneficiary cuts come from author tokens before curator dust is returned
	PreDustBase BeneficiaryBase = iota
	// curator dust returns to the author first, cuts come from the sum
	PostDustBase
)

// Rules is the full set of reward rule variants for one protocol version.
type Rules struct {
	Version Version

	Cashout         CashoutRule
	CashoutWindow   uint32
	RepliesRideRoot bool
	SecondWindow    bool

	Curve                CurationCurve
	RootCurationPercent  uint16
	ReplyCurationPercent uint16

	Dust            DustRule
	MinVoteInterval bool

	Funds           FundModel
	Retention       VoteRetention
	BeneficiaryBase BeneficiaryBase
}

func RulesOf(v Version) Rules {
	switch v {
	case Standard:
		return Rules{
			Version:              Standard,
			Cashout:              AveragedWindow,
			CashoutWindow:        constants.CashoutWindowSecondsStandard,
			RepliesRideRoot:      true,
			SecondWindow:         true,
			Curve:                AuctionCurve,
			RootCurationPercent:  constants.CurationPercentStandard,
			ReplyCurationPercent: constants.CurationPercentStandard,
			Dust:                 StrictDust,
			MinVoteInterval:      true,
			Funds:                SharedFund,
			Retention:            InertVotes,
			BeneficiaryBase:      PreDustBase,
		}
	case Modern:
		return Rules{
			Version:              Modern,
			Cashout:              FixedWindow,
			CashoutWindow:        constants.CashoutWindowSeconds,
			Curve:                AuctionCurve,
			RootCurationPercent:  constants.CurationPercentStandard,
			ReplyCurationPercent: 0,
			Dust:                 StrictDust,
			MinVoteInterval:      true,
			Funds:                SplitFunds,
			Retention:            InertVotes,
			BeneficiaryBase:      PostDustBase,
		}
	default:
		return Rules{
			Version:              Legacy,
			Cashout:              AveragedWindow,
			CashoutWindow:        constants.CashoutWindowSecondsLegacy,
			RepliesRideRoot:      true,
			Curve:                PreAuctionCurve,
			RootCurationPercent:  constants.CurationPercentLegacy,
			ReplyCurationPercent: constants.CurationPercentLegacy,
			Dust:                 LenientDust,
			Funds:                SharedFund,
			Retention:            LazyDeleteVotes,
			BeneficiaryBase:      PreDustBase,
		}
	}
}

func (r Rules) CurationPercent(isRoot bool) uint16 {
	if isRoot {
		return r.RootCurationPercent
	}
	return r.ReplyCurationPercent
}

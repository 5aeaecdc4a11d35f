package app

import (
	"github.com/coschain/contentos-reward/app/table"
	"github.com/coschain/contentos-reward/common/constants"
	"github.com/coschain/contentos-reward/hardfork"
	"github.com/coschain/contentos-reward/prototype"
)

// Params are the chain tunables the engine reads. They are fixed for the life of a chain.
type Params struct {
	ContentConstant        uint64
	VoteDustThreshold      uint64
	VoteRegenerationPerDay uint64
	MaxVoteChanges         int8
	UpvoteLockout          uint32
	ReverseAuctionWindow   uint32
	MinPayoutStable        uint64

	// emission shares once the post and comment funds are split
	PostFundPercent    uint16
	CommentFundPercent uint16
}

func DefaultParams() Params {
	return Params{
		ContentConstant:        constants.ContentConstant,
		VoteDustThreshold:      constants.VoteDustThreshold,
		VoteRegenerationPerDay: constants.VoteRegenerationPerDay,
		MaxVoteChanges:         constants.MaxVoteChanges,
		UpvoteLockout:          constants.UpvoteLockout,
		ReverseAuctionWindow:   constants.ReverseAuctionWindowSeconds,
		MinPayoutStable:        constants.MinPayoutStable,
		PostFundPercent:        constants.PostRewardFundPercent,
		CommentFundPercent:     constants.CommentRewardFundPercent,
	}
}

// maxVoteDenom is how many full-power votes regenerate over one regeneration period.
func (p Params) maxVoteDenom() uint64 {
	return p.VoteRegenerationPerDay * constants.VoteRegenerationSeconds / (60 * 60 * 24)
}

type DynamicGlobalPropsRW struct {
	store *table.Store
}

func (dgp *DynamicGlobalPropsRW) GetProps() table.Globals {
	return dgp.store.GetGlobals()
}

func (dgp *DynamicGlobalPropsRW) HeadBlockTime() prototype.TimePointSec {
	return dgp.store.GetGlobals().HeadTime
}

func (dgp *DynamicGlobalPropsRW) Version() hardfork.Version {
	return dgp.store.GetGlobals().Version
}

func (dgp *DynamicGlobalPropsRW) Rules() hardfork.Rules {
	return hardfork.RulesOf(dgp.Version())
}

func (dgp *DynamicGlobalPropsRW) ModifyProps(modifier func(g *table.Globals)) {
	dgp.store.ModifyGlobals(modifier)
}

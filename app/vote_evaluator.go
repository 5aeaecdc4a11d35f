package app

import (
	"github.com/coschain/contentos-reward/app/table"
	"github.com/coschain/contentos-reward/common/constants"
	"github.com/coschain/contentos-reward/economist/curve"
	"github.com/coschain/contentos-reward/hardfork"
	"github.com/coschain/contentos-reward/prototype"
	"github.com/pkg/errors"
)

type VoteEvaluator struct {
	ctx *ApplyContext
	op  *prototype.VoteOperation
}

// netVotesDelta is the change of net_votes when a vote moves from old to new r-shares.
func netVotesDelta(old, new int64) int32 {
	sign := func(v int64) int32 {
		switch {
		case v > 0:
			return 1
		case v < 0:
			return -1
		}
		return 0
	}
	return sign(new) - sign(old)
}

func (ev *VoteEvaluator) Apply() error {
	op := ev.op
	store, rules, params := ev.ctx.store, ev.ctx.rules, ev.ctx.params
	now := ev.ctx.dgp.HeadBlockTime()
	voter := op.Voter.Value

	id, ok := store.ContentByPermlink(op.Author.Value, op.Permlink)
	if !ok {
		return prototype.Reject(prototype.StatusContentNotFound, "content %s/%s not found", op.Author.Value, op.Permlink)
	}
	content, _ := store.GetContent(id)
	account, ok := store.GetAccount(voter)
	if !ok {
		return prototype.Reject(prototype.StatusAccountNotFound, "voter %s not found", voter)
	}
	if ev.ctx.ledger.IsBarred(voter) {
		return prototype.Reject(prototype.StatusVoterBarred, "%s has declined voting rights", voter)
	}
	if op.Weight > 0 && !content.AllowVotes {
		return prototype.Reject(prototype.StatusVoteNotAllowed, "votes are not allowed on %s/%s", content.Author, content.Permlink)
	}

	key := prototype.VoterId{Voter: voter, Content: id}
	existing, hasVote := store.GetVote(key)

	if discussionPayoutTime(store, rules, &content).IsNever() {
		return ev.recordFrozen(key, existing, hasVote, now)
	}

	if hasVote && existing.Paid() {
		if rules.Retention != hardfork.LazyDeleteVotes {
			return prototype.Reject(prototype.StatusVoteAfterPayout, "cannot vote again on a comment after payout")
		}
		if err := store.RemoveVote(key); err != nil {
			return err
		}
		existing, hasVote = table.Vote{}, false
	}
	if !hasVote && op.Weight == 0 {
		return prototype.Reject(prototype.StatusVoteZeroUnseen, "vote weight cannot be 0")
	}
	if hasVote && existing.NumChanges >= params.MaxVoteChanges {
		return prototype.Reject(prototype.StatusVoteChangesExceeded, "voter has used the maximum number of vote changes on this comment")
	}
	if hasVote && existing.VotePercent == op.Weight {
		return prototype.Reject(prototype.StatusVoteUnchanged, "you have already voted in a similar way")
	}

	// voting power
	elapsed := now.Since(account.LastVoteTime)
	if rules.MinVoteInterval && elapsed < constants.MinVoteIntervalSeconds {
		return prototype.Reject(prototype.StatusVoteTooFrequent, "can only vote once every %d seconds", constants.MinVoteIntervalSeconds)
	}
	regenerated := uint64(constants.PERCENT) * uint64(elapsed) / constants.VoteRegenerationSeconds
	currentPower := uint64(account.VotingPower) + regenerated
	if currentPower > constants.PERCENT {
		currentPower = constants.PERCENT
	}
	if currentPower == 0 {
		return prototype.Reject(prototype.StatusNoVotingPower, "%s currently does not have voting power", voter)
	}
	absWeight := uint64(op.Weight)
	if op.Weight < 0 {
		absWeight = uint64(-int64(op.Weight))
	}
	usedPower := currentPower * absWeight / constants.PERCENT
	denom := params.maxVoteDenom()
	if denom == 0 {
		return prototype.Violation("max vote denominator is zero")
	}
	if rules.Dust == hardfork.LenientDust {
		usedPower = usedPower/denom + 1
	} else {
		usedPower = (usedPower + denom - 1) / denom
	}
	if usedPower > currentPower {
		return prototype.Reject(prototype.StatusNoVotingPower, "%s does not have enough power to vote", voter)
	}

	vesting, err := ev.ctx.ledger.EffectiveVesting(voter)
	if err != nil {
		return err
	}
	absRShares := curve.MulDiv(vesting, usedPower, constants.PERCENT)
	if rules.Dust == hardfork.LenientDust && absRShares == 0 {
		absRShares = 1
	}
	if absWeight > 0 && rules.Dust == hardfork.StrictDust && absRShares <= params.VoteDustThreshold {
		return prototype.Reject(prototype.StatusVoteDust, "voting weight is too small, please accumulate more voting power or stake")
	}
	if absRShares > 1<<62 {
		return prototype.Violation("vote r-shares %d out of range", absRShares)
	}
	rshares := int64(absRShares)
	if op.Weight < 0 {
		rshares = -rshares
	}

	increases := (!hasVote && rshares > 0) || (hasVote && existing.RShares < rshares)
	if increases {
		ref := lockoutReference(store, rules, &content)
		if uint64(now.UtcSeconds)+uint64(params.UpvoteLockout) >= uint64(ref.UtcSeconds) {
			return prototype.Reject(prototype.StatusUpvoteLockout, "cannot increase payout within the last minute before payout")
		}
	}

	if err = store.ModifyAccount(voter, func(a *table.Account) {
		a.VotingPower = uint16(currentPower - usedPower)
		a.LastVoteTime = now
	}); err != nil {
		return err
	}

	var oldRShares int64
	if hasVote {
		oldRShares = existing.RShares
	}
	if err = store.ModifyContent(id, func(c *table.Content) {
		c.NetRShares += rshares - oldRShares
		c.AbsRShares += absRShares
		if !hasVote && rshares > 0 {
			c.VoteRShares += uint64(rshares)
		}
		c.NetVotes += netVotesDelta(oldRShares, rshares)
	}); err != nil {
		return err
	}
	if err = rescheduleOnVote(store, rules, &content, absRShares, now); err != nil {
		return err
	}

	if hasVote {
		err = ev.revote(key, existing, rshares, now)
	} else {
		err = ev.newVote(key, &content, rshares, now)
	}
	if err != nil {
		return err
	}

	updated, _ := store.GetContent(id)
	s := params.ContentConstant
	ev.ctx.log.Debugf("vote: %s on %s/%s weight %d rshares %d net %d", voter, content.Author, content.Permlink, op.Weight, rshares, updated.NetRShares)
	return adjustRShares2(store, id, curve.VShares(content.NetRShares, s), curve.VShares(updated.NetRShares, s))
}

func (ev *VoteEvaluator) newVote(key prototype.VoterId, before *table.Content, rshares int64, now prototype.TimePointSec) error {
	store, params := ev.ctx.store, ev.ctx.params
	after, _ := store.GetContent(key.Content)

	var weight, maxWeight uint64
	eligible := rshares > 0 &&
		after.LastPayout.IsZero() &&
		after.AllowCurationRewards &&
		ev.ctx.rules.CurationPercent(after.IsRoot()) > 0
	if eligible {
		// the curve follows the version the content was created under
		if hardfork.RulesOf(after.CreatedVersion).Curve == hardfork.PreAuctionCurve {
			maxWeight = curve.PreAuctionWeight(rshares, after.AbsRShares)
			weight = maxWeight
		} else {
			maxWeight = curve.MarginalWeight(before.VoteRShares, after.VoteRShares, params.ContentConstant)
			weight = curve.AuctionDiscount(maxWeight, now.Since(after.Created), params.ReverseAuctionWindow)
		}
	}

	if maxWeight > 0 {
		if after.TotalVoteWeight+maxWeight < after.TotalVoteWeight {
			return prototype.Violation("total vote weight of %s overflows", key.Content)
		}
		if err := store.ModifyContent(key.Content, func(c *table.Content) {
			c.TotalVoteWeight += maxWeight
		}); err != nil {
			return err
		}
	}
	return errors.WithMessage(store.CreateVote(table.Vote{
		Voter:       key.Voter,
		Content:     key.Content,
		RShares:     rshares,
		VotePercent: ev.op.Weight,
		Weight:      weight,
		LastUpdate:  now,
	}), "create vote")
}

// revote replaces the old r-shares. The replaced curation weight is forfeited.
func (ev *VoteEvaluator) revote(key prototype.VoterId, old table.Vote, rshares int64, now prototype.TimePointSec) error {
	store := ev.ctx.store
	c, _ := store.GetContent(key.Content)
	if c.TotalVoteWeight < old.Weight {
		return prototype.Violation("total vote weight of %s below vote weight of %s", key.Content, key.Voter)
	}
	if err := store.ModifyContent(key.Content, func(c *table.Content) {
		c.TotalVoteWeight -= old.Weight
	}); err != nil {
		return err
	}
	return store.ModifyVote(key, func(v *table.Vote) {
		v.RShares = rshares
		v.VotePercent = ev.op.Weight
		v.LastUpdate = now
		v.Weight = 0
		v.NumChanges++
	})
}

// recordFrozen keeps only the requested intensity on content that will never pay again.
func (ev *VoteEvaluator) recordFrozen(key prototype.VoterId, existing table.Vote, hasVote bool, now prototype.TimePointSec) error {
	store := ev.ctx.store
	if !hasVote {
		if ev.op.Weight == 0 {
			return prototype.Reject(prototype.StatusVoteZeroUnseen, "vote weight cannot be 0")
		}
		return store.CreateVote(table.Vote{
			Voter:       key.Voter,
			Content:     key.Content,
			VotePercent: ev.op.Weight,
			LastUpdate:  now,
		})
	}
	if existing.VotePercent == ev.op.Weight {
		return prototype.Reject(prototype.StatusVoteUnchanged, "you have already voted in a similar way")
	}
	return store.ModifyVote(key, func(v *table.Vote) {
		v.VotePercent = ev.op.Weight
		v.LastUpdate = now
	})
}

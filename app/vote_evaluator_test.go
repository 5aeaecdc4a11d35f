package app

import (
	"testing"

	"github.com/coschain/contentos-reward/app/table"
	"github.com/coschain/contentos-reward/common/constants"
	"github.com/coschain/contentos-reward/economist/curve"
	"github.com/coschain/contentos-reward/hardfork"
	"github.com/coschain/contentos-reward/prototype"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const contentConstant = constants.ContentConstant

func TestVoteEvaluator_Upvote(t *testing.T) {
	myassert := assert.New(t)
	e := newTestEngine(t, hardfork.Fixed(hardfork.Modern))
	e.account("alice", 1e8)
	e.account("bob", 1e8)

	e.mustStep(3, post("alice", "hello"))
	e.mustStep(3, vote("bob", "alice", "hello", 10000))

	c := e.content("alice", "hello")
	myassert.Equal(int64(5e8), c.NetRShares)
	myassert.Equal(uint64(5e8), c.AbsRShares)
	myassert.Equal(uint64(5e8), c.VoteRShares)
	myassert.Equal(int32(1), c.NetVotes)
	myassert.True(c.ChildrenRShares2.Eq(curve.VShares(5e8, contentConstant)))
	myassert.Equal(uint16(10000-50), e.accountOf("bob").VotingPower)

	maxWeight := curve.CurationWeight(5e8, contentConstant)
	myassert.Equal(maxWeight, c.TotalVoteWeight)
	v, ok := e.vote("bob", "alice", "hello")
	require.True(t, ok)
	myassert.Equal(curve.AuctionDiscount(maxWeight, 3, constants.ReverseAuctionWindowSeconds), v.Weight)
	myassert.Equal(int16(10000), v.VotePercent)
	myassert.Equal(int8(0), v.NumChanges)

	g := e.ctrl.Store().GetGlobals()
	myassert.True(g.TotalRewardShares2.Eq(curve.VShares(5e8, contentConstant)))
	myassert.NoError(e.ctrl.ValidateInvariants())
}

func TestVoteEvaluator_Rejections(t *testing.T) {
	myassert := assert.New(t)
	e := newTestEngine(t, hardfork.Fixed(hardfork.Modern))
	e.account("alice", 1e8)
	e.account("bob", 1e8)
	e.account("dusty", 10)
	e.account("mallory", 1e8)

	e.mustStep(3, post("alice", "hello"), post("alice", "second"), post("alice", "third"), post("alice", "closed"))
	e.mustStep(3, &prototype.CommentOptionsOperation{
		Author:               prototype.NewAccountName("alice"),
		Permlink:             "closed",
		MaxAcceptedPayout:    constants.MaxAcceptedPayout,
		PercentStableUnit:    constants.PERCENT,
		AllowVotes:           false,
		AllowCurationRewards: true,
	})

	myassert.Equal(prototype.StatusContentNotFound, e.reject(3, vote("bob", "alice", "nope", 10000)))
	myassert.Equal(prototype.StatusAccountNotFound, e.reject(3, vote("nobody", "alice", "hello", 10000)))
	myassert.Equal(prototype.StatusVoteZeroUnseen, e.reject(3, vote("bob", "alice", "hello", 0)))
	myassert.Equal(prototype.StatusVoteDust, e.reject(3, vote("dusty", "alice", "hello", 10000)))
	myassert.Equal(prototype.StatusOperationInvalid, e.reject(3, vote("bob", "alice", "hello", 10001)))
	myassert.Equal(prototype.StatusVoteNotAllowed, e.reject(3, vote("bob", "alice", "closed", 10000)))

	e.ctrl.Ledger().Bar("mallory")
	myassert.Equal(prototype.StatusVoterBarred, e.reject(3, vote("mallory", "alice", "hello", 10000)))
	e.ctrl.Ledger().Unbar("mallory")
	e.mustStep(3, vote("mallory", "alice", "hello", 10000))

	e.mustStep(3, vote("bob", "alice", "hello", 10000))
	myassert.Equal(prototype.StatusVoteUnchanged, e.reject(3, vote("bob", "alice", "hello", 10000)))

	r := e.step(3, vote("bob", "alice", "second", 10000), vote("bob", "alice", "third", 10000))
	myassert.Equal(1, r.Applied)
	require.Len(t, r.Rejected, 1)
	myassert.Equal(1, r.Rejected[0].Trx)
	myassert.Equal(prototype.StatusVoteTooFrequent, r.Rejected[0].Code)

	// downvotes stay allowed on content closed to votes
	e.mustStep(3, vote("bob", "alice", "closed", -10000))
	myassert.Equal(int64(-5e8), e.content("alice", "closed").NetRShares)
	myassert.NoError(e.ctrl.ValidateInvariants())
}

func TestVoteEvaluator_Lockout(t *testing.T) {
	myassert := assert.New(t)
	e := newTestEngine(t, hardfork.Fixed(hardfork.Modern))
	e.account("alice", 1e8)
	e.account("bob", 1e8)
	e.account("carol", 1e8)

	e.mustStep(3, post("alice", "hello"))
	created := e.content("alice", "hello").Created
	myassert.Equal(created.Add(constants.CashoutWindowSeconds), e.content("alice", "hello").CashoutTime)

	myassert.Equal(prototype.StatusUpvoteLockout, e.reject(constants.CashoutWindowSeconds-30, vote("bob", "alice", "hello", 10000)))
	e.mustStep(3, vote("carol", "alice", "hello", -10000))
	myassert.Equal(int64(-5e8), e.content("alice", "hello").NetRShares)
}

func TestVoteEvaluator_Revote(t *testing.T) {
	myassert := assert.New(t)
	e := newTestEngine(t, hardfork.Fixed(hardfork.Modern))
	e.account("alice", 1e8)
	e.account("bob", 1e8)

	e.mustStep(3, post("alice", "hello"))
	e.mustStep(3, vote("bob", "alice", "hello", 10000))
	maxWeight := curve.CurationWeight(5e8, contentConstant)
	first := curve.AuctionDiscount(maxWeight, 3, constants.ReverseAuctionWindowSeconds)

	e.mustStep(3, vote("bob", "alice", "hello", 5000))
	c := e.content("alice", "hello")
	myassert.Equal(int64(2.5e8), c.NetRShares)
	myassert.Equal(uint64(7.5e8), c.AbsRShares)
	myassert.Equal(uint64(5e8), c.VoteRShares)
	myassert.Equal(int32(1), c.NetVotes)
	myassert.Equal(maxWeight-first, c.TotalVoteWeight)
	myassert.True(c.ChildrenRShares2.Eq(curve.VShares(2.5e8, contentConstant)))
	v, _ := e.vote("bob", "alice", "hello")
	myassert.Equal(int64(2.5e8), v.RShares)
	myassert.Equal(uint64(0), v.Weight)
	myassert.Equal(int8(1), v.NumChanges)

	e.mustStep(3, vote("bob", "alice", "hello", -10000))
	c = e.content("alice", "hello")
	myassert.Equal(int64(-5e8), c.NetRShares)
	myassert.Equal(int32(-1), c.NetVotes)
	myassert.True(c.ChildrenRShares2.IsZero())

	e.mustStep(3, vote("bob", "alice", "hello", 0))
	c = e.content("alice", "hello")
	myassert.Equal(int64(0), c.NetRShares)
	myassert.Equal(int32(0), c.NetVotes)

	e.mustStep(3, vote("bob", "alice", "hello", 4000))
	e.mustStep(3, vote("bob", "alice", "hello", 6000))
	v, _ = e.vote("bob", "alice", "hello")
	myassert.Equal(int8(constants.MaxVoteChanges), v.NumChanges)
	myassert.Equal(prototype.StatusVoteChangesExceeded, e.reject(3, vote("bob", "alice", "hello", 7000)))
	myassert.NoError(e.ctrl.ValidateInvariants())
}

func TestVoteEvaluator_LegacyRevoteToZero(t *testing.T) {
	myassert := assert.New(t)
	e := newTestEngine(t, hardfork.Fixed(hardfork.Legacy))
	e.account("alice", 1e8)
	e.account("bob", 1e8)

	e.mustStep(3, post("alice", "hello"))
	e.mustStep(3, vote("bob", "alice", "hello", 10000))
	myassert.Equal(uint16(9949), e.accountOf("bob").VotingPower)
	c := e.content("alice", "hello")
	myassert.Equal(uint64(5.1e8), c.AbsRShares)

	// lenient rounding still spends a unit of power and yields r-shares
	e.mustStep(3, vote("bob", "alice", "hello", 0))
	myassert.Equal(uint16(9948), e.accountOf("bob").VotingPower)
	c = e.content("alice", "hello")
	myassert.Equal(uint64(5.2e8), c.AbsRShares)
	myassert.Equal(uint64(5.2e8), c.ChildrenAbsRShares)
	myassert.Equal(int64(1e7), c.NetRShares)
	v, ok := e.vote("bob", "alice", "hello")
	require.True(t, ok)
	myassert.Equal(int16(0), v.VotePercent)
	myassert.Equal(int64(1e7), v.RShares)
	myassert.NoError(e.ctrl.ValidateInvariants())
}

func TestVoteEvaluator_CurationTelescopes(t *testing.T) {
	myassert := assert.New(t)
	e := newTestEngine(t, hardfork.Fixed(hardfork.Modern))
	e.account("alice", 1e8)
	voters := []string{"bob", "carol", "dave"}
	for _, name := range voters {
		e.account(name, 1e8)
	}
	e.mustStep(3, post("alice", "hello"))
	e.mustStep(constants.ReverseAuctionWindowSeconds, vote("bob", "alice", "hello", 10000))
	e.mustStep(3, vote("carol", "alice", "hello", 10000))
	e.mustStep(3, vote("dave", "alice", "hello", 10000))

	var sum uint64
	for _, name := range voters {
		v, ok := e.vote(name, "alice", "hello")
		require.True(t, ok)
		myassert.True(v.Weight > 0)
		sum += v.Weight
	}
	c := e.content("alice", "hello")
	myassert.Equal(uint64(1.5e9), c.VoteRShares)
	myassert.Equal(curve.CurationWeight(1.5e9, contentConstant), sum)
	myassert.Equal(sum, c.TotalVoteWeight)

	// earlier votes weigh more for the same r-shares
	b, _ := e.vote("bob", "alice", "hello")
	d, _ := e.vote("dave", "alice", "hello")
	myassert.True(b.Weight > d.Weight)
}

func TestVoteEvaluator_LegacyCurve(t *testing.T) {
	myassert := assert.New(t)
	e := newTestEngine(t, hardfork.NewSchedule())
	e.account("alice", 1e8)
	e.account("bob", 1e8)
	e.account("tiny", 1)

	e.mustStep(3, post("alice", "hello"))
	e.mustStep(3, vote("bob", "alice", "hello", 10000))

	// lenient rounding: used power is 10000/200+1
	c := e.content("alice", "hello")
	myassert.Equal(int64(5.1e8), c.NetRShares)
	myassert.Equal(uint16(10000-51), e.accountOf("bob").VotingPower)
	v, _ := e.vote("bob", "alice", "hello")
	myassert.Equal(uint64(5.1e8), v.Weight)
	myassert.Equal(uint64(5.1e8), c.TotalVoteWeight)

	// no dust threshold, a tiny stake still counts
	e.mustStep(3, vote("tiny", "alice", "hello", 100))
	myassert.Equal(int64(5.1e8+1), e.content("alice", "hello").NetRShares)

	// the averaged schedule restarts from the first vote
	voted := e.now - 3
	root := e.content("alice", "hello")
	myassert.True(root.CashoutTime.UtcSeconds >= voted+constants.CashoutWindowSecondsLegacy)
	myassert.Equal(voted+constants.MaxCashoutWindowSeconds, root.MaxCashoutTime.UtcSeconds)
	myassert.NoError(e.ctrl.ValidateInvariants())
}

func TestVoteEvaluator_FrozenContent(t *testing.T) {
	myassert := assert.New(t)
	e := newTestEngine(t, hardfork.NewSchedule())
	for _, name := range []string{"alice", "bob", "carol", "dave"} {
		e.account(name, 1e8)
	}
	e.mustStep(3, post("alice", "hello"))
	e.mustStep(3, vote("bob", "alice", "hello", 10000))
	e.mustStep(2 * constants.CashoutWindowSecondsLegacy)

	c := e.content("alice", "hello")
	require.False(t, c.LastPayout.IsZero())
	myassert.True(c.CashoutTime.IsNever())
	paid, ok := e.vote("bob", "alice", "hello")
	require.True(t, ok)
	myassert.True(paid.Paid())

	e.mustStep(3, vote("carol", "alice", "hello", 10000))
	v, ok := e.vote("carol", "alice", "hello")
	require.True(t, ok)
	myassert.Equal(int16(10000), v.VotePercent)
	myassert.Equal(int64(0), v.RShares)
	myassert.Equal(uint16(constants.PERCENT), e.accountOf("carol").VotingPower)
	myassert.Equal(int64(0), e.content("alice", "hello").NetRShares)

	myassert.Equal(prototype.StatusVoteUnchanged, e.reject(3, vote("carol", "alice", "hello", 10000)))
	e.mustStep(3, vote("carol", "alice", "hello", 5000))
	v, _ = e.vote("carol", "alice", "hello")
	myassert.Equal(int16(5000), v.VotePercent)
	myassert.Equal(prototype.StatusVoteZeroUnseen, e.reject(3, vote("dave", "alice", "hello", 0)))
}

func TestVoteEvaluator_SecondWindow(t *testing.T) {
	myassert := assert.New(t)
	e := newTestEngine(t, hardfork.Fixed(hardfork.Standard))
	for _, name := range []string{"alice", "bob", "carol"} {
		e.account(name, 1e8)
	}
	e.mustStep(3, post("alice", "hello"))
	e.mustStep(3, vote("bob", "alice", "hello", 10000))
	e.mustStep(constants.CashoutWindowSecondsStandard + 60)

	c := e.content("alice", "hello")
	require.False(t, c.LastPayout.IsZero())
	myassert.Equal(c.LastPayout.Add(constants.SecondCashoutWindow), c.CashoutTime)
	v, _ := e.vote("bob", "alice", "hello")
	myassert.True(v.Paid())

	myassert.Equal(prototype.StatusVoteAfterPayout, e.reject(3, vote("bob", "alice", "hello", 5000)))

	e.mustStep(3, vote("carol", "alice", "hello", 10000))
	c = e.content("alice", "hello")
	myassert.Equal(int64(5e8), c.NetRShares)
	myassert.Equal(c.LastPayout.Add(constants.SecondCashoutWindow), c.CashoutTime)
	v, _ = e.vote("carol", "alice", "hello")
	myassert.Equal(uint64(0), v.Weight)
	myassert.True(c.ChildrenRShares2.Eq(curve.VShares(5e8, contentConstant)))
	myassert.NoError(e.ctrl.ValidateInvariants())
}

func TestVoteEvaluator_LegacyPaidVoteReplaced(t *testing.T) {
	myassert := assert.New(t)
	e := newTestEngine(t, hardfork.Fixed(hardfork.Legacy))
	e.account("alice", 1e8)
	e.account("bob", 1e8)
	e.mustStep(3, post("alice", "hello"))
	e.mustStep(3, vote("bob", "alice", "hello", 10000))
	e.mustStep(2 * constants.CashoutWindowSecondsLegacy)

	v, ok := e.vote("bob", "alice", "hello")
	require.True(t, ok)
	require.True(t, v.Paid())

	// a paid record gives way to a fresh vote once the content pays again
	c := e.content("alice", "hello")
	require.NoError(t, e.ctrl.Store().ModifyContent(c.Id, func(c *table.Content) {
		c.CashoutTime = prototype.TimePointSec{UtcSeconds: e.now}.Add(constants.CashoutWindowSecondsLegacy)
	}))
	e.mustStep(3, vote("bob", "alice", "hello", 5000))
	v, ok = e.vote("bob", "alice", "hello")
	require.True(t, ok)
	myassert.False(v.Paid())
	myassert.Equal(int8(0), v.NumChanges)
	myassert.Equal(int16(5000), v.VotePercent)
	myassert.True(v.RShares > 0)
	myassert.Equal(v.RShares, e.content("alice", "hello").NetRShares)
	myassert.NoError(e.ctrl.ValidateInvariants())
}

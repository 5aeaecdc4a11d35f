package app

import (
	"github.com/coschain/contentos-reward/app/table"
	"github.com/coschain/contentos-reward/common/constants"
	"github.com/coschain/contentos-reward/hardfork"
	"github.com/coschain/contentos-reward/prototype"
	"github.com/holiman/uint256"
)

// initialCashout is the schedule of freshly created content.
func initialCashout(rules hardfork.Rules, isRoot bool, now prototype.TimePointSec) prototype.TimePointSec {
	if !isRoot && rules.RepliesRideRoot {
		return prototype.TimeNever
	}
	return now.Add(rules.CashoutWindow)
}

// discussionPayoutTime is when a content item actually pays: its own cashout time, or the
// root's while replies ride the root schedule.
func discussionPayoutTime(store *table.Store, rules hardfork.Rules, c *table.Content) prototype.TimePointSec {
	if c.IsRoot() || !rules.RepliesRideRoot {
		return c.CashoutTime
	}
	root, ok := store.GetContent(c.RootId)
	if !ok {
		return prototype.TimeNever
	}
	return root.CashoutTime
}

// lockoutReference is the time the last-minute upvote lockout counts back from.
func lockoutReference(store *table.Store, rules hardfork.Rules, c *table.Content) prototype.TimePointSec {
	if rules.Cashout == hardfork.FixedWindow {
		return c.CashoutTime
	}
	return discussionPayoutTime(store, rules, c)
}

// rescheduleOnVote accounts a vote's unsigned r-shares on the thread root and, in averaged
// eras, moves the root's cashout time toward a fresh window weighted by r-shares.
func rescheduleOnVote(store *table.Store, rules hardfork.Rules, c *table.Content, absRShares uint64, now prototype.TimePointSec) error {
	root, ok := store.GetContent(c.RootId)
	if !ok {
		return prototype.Violation("root %s of %s not found", c.RootId, c.Id)
	}
	if rules.Cashout == hardfork.FixedWindow {
		return store.ModifyContent(root.Id, func(r *table.Content) {
			r.ChildrenAbsRShares += absRShares
		})
	}

	cur := discussionPayoutTime(store, rules, c)
	fresh := now.Add(rules.CashoutWindow)
	avg := cur
	if den := root.ChildrenAbsRShares + absRShares; den > 0 {
		num := new(uint256.Int).Mul(uint256.NewInt(uint64(cur.UtcSeconds)), uint256.NewInt(root.ChildrenAbsRShares))
		num.Add(num, new(uint256.Int).Mul(uint256.NewInt(uint64(fresh.UtcSeconds)), uint256.NewInt(absRShares)))
		num.Div(num, uint256.NewInt(den))
		avg = prototype.TimePointSec{UtcSeconds: uint32(num.Uint64())}
	}

	return store.ModifyContent(root.Id, func(r *table.Content) {
		r.ChildrenAbsRShares += absRShares
		if rules.SecondWindow && !r.LastPayout.IsZero() {
			r.CashoutTime = r.LastPayout.Add(constants.SecondCashoutWindow)
		} else {
			r.CashoutTime = prototype.MinTime(avg, r.MaxCashoutTime)
		}
		if r.MaxCashoutTime.IsNever() {
			r.MaxCashoutTime = now.Add(constants.MaxCashoutWindowSeconds)
		}
	})
}

// cashoutAfterPayout is the schedule of content that just paid.
func cashoutAfterPayout(rules hardfork.Rules, c *table.Content, now prototype.TimePointSec) prototype.TimePointSec {
	if rules.Cashout == hardfork.FixedWindow {
		return prototype.TimeNever
	}
	if c.IsRoot() {
		if rules.SecondWindow && c.LastPayout.IsZero() {
			return now.Add(constants.SecondCashoutWindow)
		}
		return prototype.TimeNever
	}
	return c.CashoutTime
}

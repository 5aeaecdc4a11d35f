package iservices

import "github.com/coschain/contentos-reward/prototype"

//
// This file defines the account ledger the reward engine pays through.
//
type IAccountLedger interface {
	// stake backing an account's votes
	EffectiveVesting(account string) (uint64, error)

	// voting barred by governance
	IsBarred(account string) bool

	// lock coins into vesting shares for the account, returns the shares created
	ConvertToVesting(account string, coins uint64) (uint64, error)

	// issue stable units for coins at the feed price, limited by the print rate.
	// returns the stable units issued and the coins paid out liquid instead.
	ConvertToStable(account string, coins uint64) (stable uint64, volatile uint64, err error)

	// current feed, null when none
	Price() prototype.Price

	// cumulative reward counters
	AddCurationReward(account string, coins uint64) error
	AddPostingReward(account string, coins uint64) error
}

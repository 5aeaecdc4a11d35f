package ledger

import (
	"github.com/coschain/contentos-reward/app/table"
	"github.com/coschain/contentos-reward/common/constants"
	"github.com/coschain/contentos-reward/economist/curve"
	"github.com/coschain/contentos-reward/prototype"
	mapset "github.com/deckarep/golang-set"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// AccountLedger keeps balances in the store so that every conversion is undone together
// with the block or transaction that made it.
type AccountLedger struct {
	store  *table.Store
	barred mapset.Set
	log    *logrus.Logger
}

func NewAccountLedger(store *table.Store, log *logrus.Logger) *AccountLedger {
	return &AccountLedger{store: store, barred: mapset.NewSet(), log: log}
}

// CreateAccount opens an account with the given stake, vested at the current share price.
func (l *AccountLedger) CreateAccount(name string, vestingCoins uint64) error {
	if err := prototype.NewAccountName(name).Validate(); err != nil {
		return err
	}
	if err := l.store.CreateAccount(table.Account{
		Name:        name,
		VotingPower: constants.PERCENT,
	}); err != nil {
		return err
	}
	if vestingCoins > 0 {
		_, err := l.ConvertToVesting(name, vestingCoins)
		return err
	}
	return nil
}

func (l *AccountLedger) Bar(account string) {
	l.barred.Add(account)
}

func (l *AccountLedger) Unbar(account string) {
	l.barred.Remove(account)
}

func (l *AccountLedger) IsBarred(account string) bool {
	return l.barred.Contains(account)
}

func (l *AccountLedger) EffectiveVesting(account string) (uint64, error) {
	a, ok := l.store.GetAccount(account)
	if !ok {
		return 0, errors.Wrapf(table.ErrNotFound, "account %s", account)
	}
	return a.VestingShares, nil
}

func (l *AccountLedger) ConvertToVesting(account string, coins uint64) (uint64, error) {
	if coins == 0 {
		return 0, nil
	}
	g := l.store.GetGlobals()
	var vests uint64
	if g.TotalVestingFund == 0 || g.TotalVestingShares == 0 {
		vests = coins * constants.InitialVestsPerCoin
	} else {
		vests = curve.MulDiv(coins, g.TotalVestingShares, g.TotalVestingFund)
	}
	if err := l.store.ModifyAccount(account, func(a *table.Account) {
		a.VestingShares += vests
	}); err != nil {
		return 0, err
	}
	l.store.ModifyGlobals(func(g *table.Globals) {
		g.TotalVestingFund += coins
		g.TotalVestingShares += vests
	})
	return vests, nil
}

func (l *AccountLedger) ConvertToStable(account string, coins uint64) (uint64, uint64, error) {
	if _, ok := l.store.GetAccount(account); !ok {
		return 0, 0, errors.Wrapf(table.ErrNotFound, "account %s", account)
	}
	if coins == 0 {
		return 0, 0, nil
	}
	g := l.store.GetGlobals()
	var toStable uint64
	if !g.PriceFeed.IsNull() {
		toStable = curve.MulDiv(coins, uint64(g.StablePrintRate), constants.PERCENT)
	}
	stable := g.PriceFeed.ToStable(toStable)
	if stable == 0 {
		toStable = 0
	}
	volatile := coins - toStable

	if err := l.store.ModifyAccount(account, func(a *table.Account) {
		a.StableBalance += stable
		a.Balance += volatile
	}); err != nil {
		return 0, 0, err
	}
	l.store.ModifyGlobals(func(g *table.Globals) {
		g.TotalStable += stable
		g.TotalLiquid += volatile
	})
	return stable, volatile, nil
}

func (l *AccountLedger) Price() prototype.Price {
	return l.store.GetGlobals().PriceFeed
}

func (l *AccountLedger) SetPrice(p prototype.Price) {
	l.store.ModifyGlobals(func(g *table.Globals) {
		g.PriceFeed = p
	})
}

// SetPrintRate sets the share of stable conversions actually issued as stable units, in basis points.
func (l *AccountLedger) SetPrintRate(rate uint16) {
	if rate > constants.PERCENT {
		rate = constants.PERCENT
	}
	l.store.ModifyGlobals(func(g *table.Globals) {
		g.StablePrintRate = rate
	})
}

func (l *AccountLedger) AddCurationReward(account string, coins uint64) error {
	return l.store.ModifyAccount(account, func(a *table.Account) {
		a.CurationRewards += coins
	})
}

func (l *AccountLedger) AddPostingReward(account string, coins uint64) error {
	return l.store.ModifyAccount(account, func(a *table.Account) {
		a.PostingRewards += coins
	})
}

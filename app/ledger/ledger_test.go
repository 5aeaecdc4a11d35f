package ledger

import (
	"testing"

	"github.com/coschain/contentos-reward/app/table"
	"github.com/coschain/contentos-reward/common/constants"
	"github.com/coschain/contentos-reward/iservices"
	"github.com/coschain/contentos-reward/prototype"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var _ iservices.IAccountLedger = (*AccountLedger)(nil)

func newLedger(t *testing.T) (*table.Store, *AccountLedger) {
	s := table.NewStore()
	l := NewAccountLedger(s, logrus.New())
	require.NoError(t, l.CreateAccount("alice", 1000))
	require.NoError(t, l.CreateAccount("bob", 0))
	return s, l
}

func TestAccountLedger_Vesting(t *testing.T) {
	myassert := assert.New(t)
	s, l := newLedger(t)

	v, err := l.EffectiveVesting("alice")
	myassert.NoError(err)
	myassert.Equal(uint64(1000*constants.InitialVestsPerCoin), v)

	a, _ := s.GetAccount("alice")
	myassert.Equal(uint16(constants.PERCENT), a.VotingPower)

	// the share price holds after the first deposit
	vests, err := l.ConvertToVesting("bob", 10)
	myassert.NoError(err)
	myassert.Equal(uint64(10*constants.InitialVestsPerCoin), vests)

	g := s.GetGlobals()
	myassert.Equal(uint64(1010), g.TotalVestingFund)
	myassert.Equal(uint64(1010*constants.InitialVestsPerCoin), g.TotalVestingShares)

	_, err = l.ConvertToVesting("nobody", 10)
	myassert.Error(err)
	_, err = l.EffectiveVesting("nobody")
	myassert.Error(err)
	myassert.Error(l.CreateAccount("x", 0))
}

func TestAccountLedger_Stable(t *testing.T) {
	myassert := assert.New(t)
	s, l := newLedger(t)

	// no feed: everything is paid liquid
	stable, volatile, err := l.ConvertToStable("bob", 100)
	myassert.NoError(err)
	myassert.Equal(uint64(0), stable)
	myassert.Equal(uint64(100), volatile)

	l.SetPrice(prototype.Price{Base: 2, Quote: 1})
	l.SetPrintRate(5000)
	stable, volatile, err = l.ConvertToStable("bob", 100)
	myassert.NoError(err)
	myassert.Equal(uint64(100), stable)
	myassert.Equal(uint64(50), volatile)

	b, _ := s.GetAccount("bob")
	myassert.Equal(uint64(100), b.StableBalance)
	myassert.Equal(uint64(150), b.Balance)

	l.SetPrintRate(20000)
	myassert.Equal(uint16(constants.PERCENT), s.GetGlobals().StablePrintRate)

	_, _, err = l.ConvertToStable("nobody", 1)
	myassert.Error(err)
}

func TestAccountLedger_CountersAndBar(t *testing.T) {
	myassert := assert.New(t)
	s, l := newLedger(t)

	myassert.NoError(l.AddCurationReward("bob", 3))
	myassert.NoError(l.AddPostingReward("bob", 4))
	b, _ := s.GetAccount("bob")
	myassert.Equal(uint64(3), b.CurationRewards)
	myassert.Equal(uint64(4), b.PostingRewards)

	myassert.False(l.IsBarred("bob"))
	l.Bar("bob")
	myassert.True(l.IsBarred("bob"))
	l.Unbar("bob")
	myassert.False(l.IsBarred("bob"))
}

func TestAccountLedger_Undo(t *testing.T) {
	myassert := assert.New(t)
	s, l := newLedger(t)

	s.BeginTransaction()
	_, err := l.ConvertToVesting("bob", 10)
	myassert.NoError(err)
	myassert.NoError(s.EndTransaction(false))

	b, _ := s.GetAccount("bob")
	myassert.Equal(uint64(0), b.VestingShares)
	myassert.Equal(uint64(1000), s.GetGlobals().TotalVestingFund)
}

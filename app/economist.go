package app

import (
	"github.com/coschain/contentos-reward/app/blocklog"
	"github.com/coschain/contentos-reward/app/table"
	"github.com/coschain/contentos-reward/common"
	"github.com/coschain/contentos-reward/common/constants"
	"github.com/coschain/contentos-reward/economist/curve"
	"github.com/coschain/contentos-reward/hardfork"
	"github.com/coschain/contentos-reward/iservices"
	"github.com/coschain/contentos-reward/prototype"
	"github.com/holiman/uint256"
	"github.com/sirupsen/logrus"
)

// Economist runs the reward pool: decay and emission every block, then the payout of all
// content whose cashout time has come.
type Economist struct {
	store  *table.Store
	ledger iservices.IAccountLedger
	dgp    *DynamicGlobalPropsRW
	params Params
	log    *logrus.Logger
	events *blocklog.EventContext
}

func NewEconomist(store *table.Store, ledger iservices.IAccountLedger, params Params, log *logrus.Logger) *Economist {
	return &Economist{store: store, ledger: ledger, dgp: &DynamicGlobalPropsRW{store: store}, params: params, log: log}
}

func (e *Economist) SetEventContext(ctx *blocklog.EventContext) {
	e.events = ctx
}

// decayRecent removes the share of recent claims that aged out over elapsed seconds.
func decayRecent(recent *uint256.Int, elapsed uint32) {
	if elapsed == 0 || recent.IsZero() {
		return
	}
	if elapsed >= constants.RecentRSharesDecaySeconds {
		recent.Clear()
		return
	}
	d := new(uint256.Int).Mul(recent, uint256.NewInt(uint64(elapsed)))
	d.Div(d, uint256.NewInt(constants.RecentRSharesDecaySeconds))
	recent.Sub(recent, d)
}

// Tick decays every fund's recent claims and credits each fund its share of the block emission.
func (e *Economist) Tick(emission uint64) error {
	now := e.dgp.HeadBlockTime()
	names := e.store.FundNames()

	var pct uint64
	for _, name := range names {
		f, _ := e.store.GetFund(name)
		pct += uint64(f.PercentContentRewards)
	}
	if pct > constants.PERCENT {
		return prototype.Violation("reward fund percents sum to %d", pct)
	}

	var credited uint64
	for _, name := range names {
		f, _ := e.store.GetFund(name)
		credit := curve.MulDiv(emission, uint64(f.PercentContentRewards), constants.PERCENT)
		if f.RewardBalance+credit < f.RewardBalance {
			return prototype.Violation("reward fund %s balance overflows", name)
		}
		elapsed := now.Since(f.LastUpdate)
		if err := e.store.ModifyFund(name, func(rf *table.RewardFund) {
			decayRecent(&rf.RecentRShares2, elapsed)
			rf.RewardBalance += credit
			rf.LastUpdate = now
		}); err != nil {
			return err
		}
		credited += credit
	}
	if credited > 0 {
		e.dgp.ModifyProps(func(g *table.Globals) {
			g.TotalRewardFund += credited
			g.TotalEmitted += credited
		})
	}
	return nil
}

// Do pays every content item due at the head block time.
func (e *Economist) Do() error {
	e.events.PushCause("cashout")
	defer e.events.PopCause()

	t := common.NewTiming()
	t.Begin()
	rules := e.dgp.Rules()
	var (
		paid int
		err  error
	)
	if rules.Funds == hardfork.SplitFunds {
		paid, err = e.cashoutSplit(rules)
	} else {
		paid, err = e.cashoutShared(rules)
	}
	t.End()
	if err != nil {
		return err
	}
	if paid > 0 {
		e.log.Debugf("cashout: %d content items paid at %s in %s", paid, e.dgp.HeadBlockTime().ToString(), t.String())
	}
	return nil
}

// cashoutShared pays due threads from the post fund against live state. Each payout is
// debited before the next share is computed.
func (e *Economist) cashoutShared(rules hardfork.Rules) (int, error) {
	now := e.dgp.HeadBlockTime()
	paid := 0
	for {
		id, ok := e.store.EarliestDue(now)
		if !ok {
			return paid, nil
		}
		c, _ := e.store.GetContent(id)
		thread := []prototype.ContentId{id}
		if c.IsRoot() && rules.RepliesRideRoot {
			thread = e.store.Thread(id)
		}
		for _, tid := range thread {
			item, _ := e.store.GetContent(tid)
			fund, _ := e.store.GetFund(constants.PostRewardFundName)
			g := e.dgp.GetProps()
			vshares := curve.VShares(item.NetRShares, e.params.ContentConstant)

			claimed, err := e.cashoutHelper(&item, rules, &g.TotalRewardShares2, fund.RewardBalance)
			if err != nil {
				return paid, err
			}
			if err = e.debitFund(constants.PostRewardFundName, claimed, vshares); err != nil {
				return paid, err
			}
			paid++
		}
		if c, _ = e.store.GetContent(id); c.CashoutTime.UtcSeconds <= now.UtcSeconds {
			return paid, prototype.Violation("content %s still due after payout", id)
		}
	}
}

// cashoutSplit pays due roots from the post fund and due replies from the comment fund,
// all against one snapshot of each fund taken before the first payout.
func (e *Economist) cashoutSplit(rules hardfork.Rules) (int, error) {
	now := e.dgp.HeadBlockTime()
	s := e.params.ContentConstant

	type snapshot struct {
		fund    table.RewardFund
		awarded uint64
	}
	snapshots := make(map[string]*snapshot)
	for _, name := range e.store.FundNames() {
		f, _ := e.store.GetFund(name)
		snapshots[name] = &snapshot{fund: f}
	}
	fundOf := func(c *table.Content) (*snapshot, error) {
		name := constants.PostRewardFundName
		if !c.IsRoot() {
			name = constants.CommentRewardFundName
		}
		snap, ok := snapshots[name]
		if !ok {
			return nil, prototype.Violation("reward fund %s not found", name)
		}
		return snap, nil
	}

	due := e.store.DueContents(now)
	if len(due) == 0 {
		return 0, nil
	}
	for _, id := range due {
		c, _ := e.store.GetContent(id)
		snap, err := fundOf(&c)
		if err != nil {
			return 0, err
		}
		snap.fund.RecentRShares2.Add(&snap.fund.RecentRShares2, curve.VShares(c.NetRShares, s))
	}

	paid := 0
	for {
		id, ok := e.store.EarliestDue(now)
		if !ok {
			break
		}
		c, _ := e.store.GetContent(id)
		snap, err := fundOf(&c)
		if err != nil {
			return paid, err
		}
		claimed, err := e.cashoutHelper(&c, rules, &snap.fund.RecentRShares2, snap.fund.RewardBalance)
		if err != nil {
			return paid, err
		}
		snap.awarded += claimed
		if snap.awarded > snap.fund.RewardBalance {
			return paid, prototype.Violation("reward fund %s awarded %d above balance %d", snap.fund.Name, snap.awarded, snap.fund.RewardBalance)
		}
		paid++
		if paid > len(due) {
			return paid, prototype.Violation("cashout scan paid more items than were due")
		}
	}

	for _, name := range e.store.FundNames() {
		snap := snapshots[name]
		if err := e.store.ModifyFund(name, func(rf *table.RewardFund) {
			rf.RecentRShares2 = snap.fund.RecentRShares2
			rf.RewardBalance -= snap.awarded
		}); err != nil {
			return paid, err
		}
		if snap.awarded > 0 {
			e.dgp.ModifyProps(func(g *table.Globals) {
				g.TotalRewardFund -= snap.awarded
				g.TotalPaid += snap.awarded
			})
		}
	}
	return paid, nil
}

func (e *Economist) debitFund(name string, claimed uint64, vshares *uint256.Int) error {
	f, ok := e.store.GetFund(name)
	if !ok {
		return prototype.Violation("reward fund %s not found", name)
	}
	if claimed > f.RewardBalance {
		return prototype.Violation("reward fund %s debit %d above balance %d", name, claimed, f.RewardBalance)
	}
	if err := e.store.ModifyFund(name, func(rf *table.RewardFund) {
		rf.RewardBalance -= claimed
		rf.RecentRShares2.Add(&rf.RecentRShares2, vshares)
	}); err != nil {
		return err
	}
	if claimed > 0 {
		e.dgp.ModifyProps(func(g *table.Globals) {
			g.TotalRewardFund -= claimed
			g.TotalPaid += claimed
		})
	}
	return nil
}

// cashoutHelper pays one content item its share of balance and resets it. It returns the
// coins claimed from the fund.
func (e *Economist) cashoutHelper(c *table.Content, rules hardfork.Rules, total *uint256.Int, balance uint64) (uint64, error) {
	s := e.params.ContentConstant
	var claimed uint64

	if c.NetRShares > 0 {
		claims := curve.Claims(c.NetRShares, s, c.RewardWeight)
		reward, ok := curve.RewardFromClaims(balance, claims, total)
		if !ok {
			return 0, prototype.Violation("reward of %s exceeds fund balance %d", c.Id, balance)
		}
		price := e.ledger.Price()
		if !price.IsNull() {
			if price.ToStable(reward) < e.params.MinPayoutStable {
				reward = 0
			}
			if max := price.ToCoin(c.MaxAcceptedPayout); reward > max {
				reward = max
			}
		}
		if c.MaxAcceptedPayout == 0 {
			reward = 0
		}
		if reward > 0 {
			var err error
			if claimed, err = e.distribute(c, rules, reward); err != nil {
				return 0, err
			}
		} else {
			e.log.Warnf("cashout: %s/%s has net rshares %d but earns nothing", c.Author, c.Permlink, c.NetRShares)
		}
	}

	if err := adjustRShares2(e.store, c.Id, curve.VShares(c.NetRShares, s), uint256.NewInt(0)); err != nil {
		return 0, err
	}
	next := cashoutAfterPayout(rules, c, e.dgp.HeadBlockTime())
	if err := e.store.ModifyContent(c.Id, func(m *table.Content) {
		// negative net rshares carry over to the next window
		if m.NetRShares > 0 {
			m.NetRShares = 0
		}
		m.AbsRShares = 0
		m.VoteRShares = 0
		m.TotalVoteWeight = 0
		if m.IsRoot() {
			m.ChildrenAbsRShares = 0
		}
		m.MaxCashoutTime = prototype.TimeNever
		m.CashoutTime = next
		m.LastPayout = e.dgp.HeadBlockTime()
	}); err != nil {
		return 0, err
	}
	e.events.Emit(&blocklog.CommentPayoutUpdate{Author: c.Author, Permlink: c.Permlink})

	for _, v := range e.store.VotesOf(c.Id) {
		if err := e.store.ModifyVote(v.Key(), func(v *table.Vote) {
			v.NumChanges = constants.VoteChangesPaid
		}); err != nil {
			return 0, err
		}
	}
	return claimed, nil
}

// distribute splits reward between curators, beneficiaries and the author.
func (e *Economist) distribute(c *table.Content, rules hardfork.Rules, reward uint64) (uint64, error) {
	curationTokens := curve.MulDiv(reward, uint64(rules.CurationPercent(c.IsRoot())), constants.PERCENT)
	authorTokens := reward - curationTokens

	unclaimed, err := e.payCurators(c, curationTokens)
	if err != nil {
		return 0, err
	}
	curatorPaid := curationTokens - unclaimed

	base := authorTokens
	if rules.BeneficiaryBase == hardfork.PostDustBase {
		base += unclaimed
	}
	var benefTotal uint64
	for _, b := range c.Beneficiaries {
		cut := curve.MulDiv(base, uint64(b.Weight), constants.PERCENT)
		if cut == 0 {
			continue
		}
		vests, err := e.ledger.ConvertToVesting(b.Account.Value, cut)
		if err != nil {
			return 0, err
		}
		benefTotal += cut
		e.events.Emit(&blocklog.CommentBenefactorReward{
			Beneficiary: b.Account.Value,
			Author:      c.Author,
			Permlink:    c.Permlink,
			Reward:      vests,
		})
	}
	authorTokens += unclaimed
	if benefTotal > authorTokens {
		return 0, prototype.Violation("beneficiary cuts %d of %s exceed author tokens %d", benefTotal, c.Id, authorTokens)
	}
	authorTokens -= benefTotal

	stableCoins := curve.MulDiv(authorTokens, uint64(c.PercentStableUnit), 2*constants.PERCENT)
	vestingCoins := authorTokens - stableCoins
	stable, volatile, err := e.ledger.ConvertToStable(c.Author, stableCoins)
	if err != nil {
		return 0, err
	}
	vests, err := e.ledger.ConvertToVesting(c.Author, vestingCoins)
	if err != nil {
		return 0, err
	}
	if err = e.ledger.AddPostingReward(c.Author, authorTokens); err != nil {
		return 0, err
	}
	if err = e.store.ModifyContent(c.Id, func(m *table.Content) {
		m.AuthorRewards += authorTokens
		m.TotalPayoutValue += authorTokens
		m.CuratorPayoutValue += curatorPaid
		m.BeneficiaryPayoutValue += benefTotal
	}); err != nil {
		return 0, err
	}

	claimed := authorTokens + curatorPaid + benefTotal
	e.events.Emit(&blocklog.AuthorReward{
		Author:         c.Author,
		Permlink:       c.Permlink,
		StablePayout:   stable,
		VolatilePayout: volatile,
		VestingPayout:  vests,
	})
	e.events.Emit(&blocklog.CommentReward{Author: c.Author, Permlink: c.Permlink, TotalPayout: claimed})
	e.log.Debugf("cashout: %s/%s reward %d, author %d, curators %d, beneficiaries %d", c.Author, c.Permlink, reward, authorTokens, curatorPaid, benefTotal)
	return claimed, nil
}

// payCurators splits curation tokens by vote weight and returns what no curator claimed.
func (e *Economist) payCurators(c *table.Content, curationTokens uint64) (uint64, error) {
	if curationTokens == 0 {
		return 0, nil
	}
	if !c.AllowCurationRewards || c.TotalVoteWeight == 0 {
		return curationTokens, nil
	}
	unclaimed := curationTokens
	for _, v := range e.store.VotesByWeight(c.Id) {
		if v.Weight == 0 {
			break
		}
		claim := curve.MulDiv(curationTokens, v.Weight, c.TotalVoteWeight)
		if claim == 0 {
			continue
		}
		if claim > unclaimed {
			return 0, prototype.Violation("curator claims on %s exceed curation tokens %d", c.Id, curationTokens)
		}
		unclaimed -= claim
		vests, err := e.ledger.ConvertToVesting(v.Voter, claim)
		if err != nil {
			return 0, err
		}
		if err = e.ledger.AddCurationReward(v.Voter, claim); err != nil {
			return 0, err
		}
		e.events.Emit(&blocklog.CurationReward{
			Curator:  v.Voter,
			Reward:   vests,
			Author:   c.Author,
			Permlink: c.Permlink,
		})
	}
	return unclaimed, nil
}

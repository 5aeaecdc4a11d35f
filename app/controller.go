package app

import (
	"fmt"

	"github.com/coschain/contentos-reward/app/blocklog"
	"github.com/coschain/contentos-reward/app/ledger"
	"github.com/coschain/contentos-reward/app/table"
	"github.com/coschain/contentos-reward/common"
	"github.com/coschain/contentos-reward/common/constants"
	"github.com/coschain/contentos-reward/economist/curve"
	"github.com/coschain/contentos-reward/hardfork"
	"github.com/coschain/contentos-reward/iservices"
	"github.com/coschain/contentos-reward/prototype"
	"github.com/holiman/uint256"
	"github.com/pkg/errors"
	"github.com/sasha-s/go-deadlock"
	"github.com/sirupsen/logrus"
)

// Block is the input of one engine step: a head time, the coins minted for content rewards
// and the transactions to apply, each a list of operations applied all or nothing.
type Block struct {
	Height       uint64
	Time         prototype.TimePointSec
	Emission     uint64
	Transactions [][]prototype.Operation
}

type Rejection struct {
	Trx  int
	Code prototype.StatusCode
	Err  error
}

type BlockResult struct {
	Height   uint64
	Version  hardfork.Version
	Applied  int
	Rejected []*Rejection
	Events   []*blocklog.Event
}

// Controller is the single writer of the ledger store. All mutating entry points hold its lock.
type Controller struct {
	mu        deadlock.Mutex
	store     *table.Store
	undo      iservices.IUndoSession
	ledger    *ledger.AccountLedger
	economist *Economist
	dgp       *DynamicGlobalPropsRW
	journal   *blocklog.Journal
	schedule  *hardfork.Schedule
	params    Params
	log       *logrus.Logger
}

func NewController(schedule *hardfork.Schedule, params Params, journal *blocklog.Journal, log *logrus.Logger) *Controller {
	store := table.NewStore()
	l := ledger.NewAccountLedger(store, log)
	return &Controller{
		store:     store,
		undo:      store,
		ledger:    l,
		economist: NewEconomist(store, l, params, log),
		dgp:       &DynamicGlobalPropsRW{store: store},
		journal:   journal,
		schedule:  schedule,
		params:    params,
		log:       log,
	}
}

func (c *Controller) Store() *table.Store {
	return c.store
}

func (c *Controller) Ledger() *ledger.AccountLedger {
	return c.ledger
}

// InitGenesis creates the reward funds and sets the head time of an empty store.
func (c *Controller) InitGenesis(genesis prototype.TimePointSec) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if len(c.store.FundNames()) > 0 {
		return errors.New("genesis already initialized")
	}
	version := c.schedule.At(0)
	postPct, commentPct := uint16(constants.PERCENT), uint16(0)
	if version >= hardfork.Modern {
		postPct, commentPct = c.params.PostFundPercent, c.params.CommentFundPercent
	}
	if err := c.store.CreateFund(table.RewardFund{
		Name:                  constants.PostRewardFundName,
		PercentContentRewards: postPct,
		LastUpdate:            genesis,
	}); err != nil {
		return err
	}
	if err := c.store.CreateFund(table.RewardFund{
		Name:                  constants.CommentRewardFundName,
		PercentContentRewards: commentPct,
		LastUpdate:            genesis,
	}); err != nil {
		return err
	}
	c.dgp.ModifyProps(func(g *table.Globals) {
		g.HeadTime = genesis
		g.Version = version
	})
	c.log.Infof("genesis: %s at %s, schedule %s", version, genesis.ToString(), c.schedule)
	return nil
}

// ApplyBlock applies one block atomically. A transaction failing validation is rolled back
// and reported in the result. Any other error rolls back the whole block.
func (c *Controller) ApplyBlock(b *Block) (result *BlockResult, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	g := c.store.GetGlobals()
	if b.Height <= g.HeadBlock && g.HeadBlock > 0 {
		return nil, errors.Errorf("block %d is not after head block %d", b.Height, g.HeadBlock)
	}
	if b.Time.Before(g.HeadTime) {
		return nil, errors.Errorf("block time %s is before head time %s", b.Time.ToString(), g.HeadTime.ToString())
	}
	version := c.schedule.At(b.Height)
	if version < g.Version {
		return nil, errors.Errorf("block %d would move the protocol back from %s to %s", b.Height, g.Version, version)
	}

	t := common.NewTiming()
	t.Begin()
	events := blocklog.NewEventContext(b.Height)
	c.economist.SetEventContext(events)
	defer c.economist.SetEventContext(nil)

	c.undo.BeginTransaction()
	defer func() {
		if err != nil {
			c.undo.EndTransaction(false)
			c.log.Errorf("block %d unwound: %v", b.Height, err)
			result = nil
		}
	}()

	c.dgp.ModifyProps(func(g *table.Globals) {
		g.HeadBlock = b.Height
		g.HeadTime = b.Time
	})
	if version > g.Version {
		if err = c.transition(g.Version, version); err != nil {
			return
		}
	}

	result = &BlockResult{Height: b.Height, Version: version}
	ctx := &ApplyContext{
		store:  c.store,
		ledger: c.ledger,
		dgp:    c.dgp,
		rules:  hardfork.RulesOf(version),
		params: c.params,
		log:    c.log,
	}
	for i, trx := range b.Transactions {
		mark := events.Mark()
		events.PushCause("apply")
		trxErr := withSession(c.undo, func() error {
			return applyTransaction(ctx, trx)
		})
		events.PopCause()
		if trxErr == nil {
			result.Applied++
			continue
		}
		events.Truncate(mark)
		if verr, ok := prototype.IsValidation(trxErr); ok {
			c.log.Debugf("block %d: transaction %d rejected: %v", b.Height, i, trxErr)
			result.Rejected = append(result.Rejected, &Rejection{Trx: i, Code: verr.Code, Err: trxErr})
			continue
		}
		err = errors.WithMessage(trxErr, fmt.Sprintf("transaction %d", i))
		return
	}

	t.Mark("trx")
	if err = c.economist.Tick(b.Emission); err != nil {
		return
	}
	t.Mark("tick")
	if err = c.economist.Do(); err != nil {
		return
	}
	t.Mark("cashout")
	if c.journal != nil {
		if err = c.journal.Commit(events); err != nil {
			return
		}
	}
	if err = c.undo.EndTransaction(true); err != nil {
		return
	}
	result.Events = events.Events()
	t.End()
	c.log.Debugf("block %d: %s, %d applied, %d rejected, %d events, %s", b.Height, version, result.Applied, len(result.Rejected), len(result.Events), t)
	return
}

func applyTransaction(ctx *ApplyContext, ops []prototype.Operation) error {
	for _, op := range ops {
		if err := op.Validate(); err != nil {
			if _, ok := prototype.IsValidation(err); ok {
				return err
			}
			return prototype.Reject(prototype.StatusOperationInvalid, "%v", err)
		}
		ev, err := GetBaseEvaluator(ctx, op)
		if err != nil {
			return err
		}
		if err = ev.Apply(); err != nil {
			return err
		}
	}
	return nil
}

// ApplyOperation applies a single operation at the current head time outside of any block.
func (c *Controller) ApplyOperation(op prototype.Operation) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	ctx := &ApplyContext{
		store:  c.store,
		ledger: c.ledger,
		dgp:    c.dgp,
		rules:  c.dgp.Rules(),
		params: c.params,
		log:    c.log,
	}
	return withSession(c.undo, func() error {
		return applyTransaction(ctx, []prototype.Operation{op})
	})
}

// withSession runs fn in a nested undo session that is kept only if fn succeeds.
func withSession(s iservices.IUndoSession, fn func() error) error {
	s.BeginTransaction()
	if err := fn(); err != nil {
		if rerr := s.EndTransaction(false); rerr != nil {
			return errors.WithMessage(rerr, err.Error())
		}
		return err
	}
	return s.EndTransaction(true)
}

// transition moves the store from one protocol version to a later one.
func (c *Controller) transition(from, to hardfork.Version) error {
	c.log.Infof("protocol version %s -> %s at block %d", from, to, c.dgp.GetProps().HeadBlock)
	if from < hardfork.Modern && to >= hardfork.Modern {
		if err := c.splitFunds(); err != nil {
			return err
		}
		if err := c.rewindow(); err != nil {
			return err
		}
	}
	c.dgp.ModifyProps(func(g *table.Globals) {
		g.Version = to
	})
	return nil
}

// splitFunds gives the comment fund its share of emission and of the shared balance.
func (c *Controller) splitFunds() error {
	post, ok := c.store.GetFund(constants.PostRewardFundName)
	if !ok {
		return prototype.Violation("reward fund %s not found", constants.PostRewardFundName)
	}
	moved := curve.MulDiv(post.RewardBalance, uint64(c.params.CommentFundPercent), constants.PERCENT)
	if err := c.store.ModifyFund(constants.PostRewardFundName, func(rf *table.RewardFund) {
		rf.PercentContentRewards = c.params.PostFundPercent
		rf.RewardBalance -= moved
	}); err != nil {
		return err
	}
	return c.store.ModifyFund(constants.CommentRewardFundName, func(rf *table.RewardFund) {
		rf.PercentContentRewards = c.params.CommentFundPercent
		rf.RewardBalance += moved
	})
}

// rewindow gives every live content item at least a full fixed window from its creation.
func (c *Controller) rewindow() error {
	ids := c.store.ContentIds()
	for _, id := range ids {
		root, _ := c.store.GetContent(id)
		if !root.IsRoot() || root.CashoutTime.IsNever() {
			continue
		}
		if err := c.store.ModifyContent(id, func(m *table.Content) {
			m.CashoutTime = prototype.MaxTime(m.Created.Add(constants.CashoutWindowSeconds), m.CashoutTime)
		}); err != nil {
			return err
		}
	}
	for _, id := range ids {
		reply, _ := c.store.GetContent(id)
		if reply.IsRoot() {
			continue
		}
		root, _ := c.store.GetContent(reply.RootId)
		if root.CashoutTime.IsNever() {
			continue
		}
		if err := c.store.ModifyContent(id, func(m *table.Content) {
			m.CashoutTime = prototype.MaxTime(root.CashoutTime, m.Created.Add(constants.CashoutWindowSeconds))
		}); err != nil {
			return err
		}
	}
	return nil
}

// ValidateInvariants recomputes the aggregates from scratch and checks the fund ledger.
func (c *Controller) ValidateInvariants() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	s := c.params.ContentConstant
	expected := make(map[prototype.ContentId]*uint256.Int)
	ids := c.store.ContentIds()
	for _, id := range ids {
		expected[id] = new(uint256.Int)
	}
	for _, id := range ids {
		content, _ := c.store.GetContent(id)
		vs := curve.VShares(content.NetRShares, s)
		for cur := id; cur.Valid(); {
			acc, ok := expected[cur]
			if !ok {
				return prototype.Violation("ancestor %s of %s not found", cur, id)
			}
			acc.Add(acc, vs)
			node, _ := c.store.GetContent(cur)
			cur = node.ParentId
		}
	}
	total := new(uint256.Int)
	for _, id := range ids {
		content, _ := c.store.GetContent(id)
		if !content.ChildrenRShares2.Eq(expected[id]) {
			return prototype.Violation("children_rshares2 of %s is %s, expected %s", id, content.ChildrenRShares2.Dec(), expected[id].Dec())
		}
		if content.IsRoot() {
			total.Add(total, expected[id])
		}
	}
	g := c.store.GetGlobals()
	if !g.TotalRewardShares2.Eq(total) {
		return prototype.Violation("total_reward_shares2 is %s, expected %s", g.TotalRewardShares2.Dec(), total.Dec())
	}

	var balances uint64
	for _, name := range c.store.FundNames() {
		f, _ := c.store.GetFund(name)
		balances += f.RewardBalance
	}
	if balances != g.TotalRewardFund {
		return prototype.Violation("reward fund balances sum to %d, total_reward_fund is %d", balances, g.TotalRewardFund)
	}
	if g.TotalEmitted-g.TotalPaid != g.TotalRewardFund {
		return prototype.Violation("emitted %d minus paid %d differs from total_reward_fund %d", g.TotalEmitted, g.TotalPaid, g.TotalRewardFund)
	}
	return nil
}

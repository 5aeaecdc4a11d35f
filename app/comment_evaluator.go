package app

import (
	"github.com/coschain/contentos-reward/app/table"
	"github.com/coschain/contentos-reward/common/constants"
	"github.com/coschain/contentos-reward/prototype"
)

type CommentEvaluator struct {
	ctx *ApplyContext
	op  *prototype.CommentOperation
}

type CommentOptionsEvaluator struct {
	ctx *ApplyContext
	op  *prototype.CommentOptionsOperation
}

func (ev *CommentEvaluator) Apply() error {
	op := ev.op
	store, rules := ev.ctx.store, ev.ctx.rules
	now := ev.ctx.dgp.HeadBlockTime()

	if _, ok := store.GetAccount(op.Author.Value); !ok {
		return prototype.Reject(prototype.StatusAccountNotFound, "author %s not found", op.Author.Value)
	}
	if _, ok := store.ContentByPermlink(op.Author.Value, op.Permlink); ok {
		return prototype.Reject(prototype.StatusContentExists, "content %s/%s already exists", op.Author.Value, op.Permlink)
	}

	var parent table.Content
	isRoot := op.IsRoot()
	if !isRoot {
		pid, ok := store.ContentByPermlink(op.ParentAuthor.Value, op.ParentPermlink)
		if !ok {
			return prototype.Reject(prototype.StatusParentNotFound, "parent %s/%s not found", op.ParentAuthor.Value, op.ParentPermlink)
		}
		parent, _ = store.GetContent(pid)
		if int(parent.Depth)+1 > constants.MaxCommentDepth {
			return prototype.Reject(prototype.StatusDepthExceeded, "comment is nested %d posts deep, maximum depth is %d", parent.Depth+1, constants.MaxCommentDepth)
		}
	}

	rewardWeight := op.RewardWeight
	if rewardWeight == 0 {
		rewardWeight = constants.PERCENT
	}

	id, err := store.CreateContent(func(c *table.Content) {
		c.Author = op.Author.Value
		c.Permlink = op.Permlink
		if !isRoot {
			c.ParentId = parent.Id
			c.RootId = parent.RootId
			c.Depth = parent.Depth + 1
		}
		c.Created = now
		c.CreatedVersion = rules.Version
		c.CashoutTime = initialCashout(rules, isRoot, now)
		c.MaxCashoutTime = prototype.TimeNever
		c.RewardWeight = rewardWeight
		c.PercentStableUnit = constants.PERCENT
		c.MaxAcceptedPayout = constants.MaxAcceptedPayout
		c.AllowVotes = true
		c.AllowCurationRewards = true
	})
	if err != nil {
		return err
	}

	// children counters of every ancestor
	for cur := parent.Id; cur.Valid(); {
		a, ok := store.GetContent(cur)
		if !ok {
			return prototype.Violation("ancestor %s of %s not found", cur, id)
		}
		if err = store.ModifyContent(cur, func(c *table.Content) { c.Children++ }); err != nil {
			return err
		}
		cur = a.ParentId
	}
	ev.ctx.log.Debugf("comment: %s/%s created as %s, cashout %s", op.Author.Value, op.Permlink, id, initialCashout(rules, isRoot, now).ToString())
	return nil
}

func (ev *CommentOptionsEvaluator) Apply() error {
	op := ev.op
	store := ev.ctx.store

	id, ok := store.ContentByPermlink(op.Author.Value, op.Permlink)
	if !ok {
		return prototype.Reject(prototype.StatusContentNotFound, "content %s/%s not found", op.Author.Value, op.Permlink)
	}
	c, _ := store.GetContent(id)

	if !c.AllowVotes && op.AllowVotes {
		return prototype.Reject(prototype.StatusOptionsInvalid, "voting cannot be re-enabled")
	}
	if !c.AllowCurationRewards && op.AllowCurationRewards {
		return prototype.Reject(prototype.StatusOptionsInvalid, "curation rewards cannot be re-enabled")
	}
	if op.PercentStableUnit > c.PercentStableUnit {
		return prototype.Reject(prototype.StatusOptionsInvalid, "percent stable unit cannot be increased")
	}
	if op.MaxAcceptedPayout > c.MaxAcceptedPayout {
		return prototype.Reject(prototype.StatusOptionsInvalid, "max accepted payout cannot be increased")
	}

	if len(op.Beneficiaries) > 0 {
		if len(c.Beneficiaries) > 0 {
			return prototype.Reject(prototype.StatusBeneficiaryInvalid, "beneficiaries can only be set once")
		}
		if c.AbsRShares > 0 || len(store.VotesOf(id)) > 0 {
			return prototype.Reject(prototype.StatusBeneficiaryInvalid, "beneficiaries cannot be set after content has received votes")
		}
		for _, b := range op.Beneficiaries {
			if _, ok := store.GetAccount(b.Account.Value); !ok {
				return prototype.Reject(prototype.StatusBeneficiaryInvalid, "beneficiary %s does not exist", b.Account.Value)
			}
		}
	}

	return store.ModifyContent(id, func(c *table.Content) {
		c.AllowVotes = op.AllowVotes
		c.AllowCurationRewards = op.AllowCurationRewards
		c.PercentStableUnit = op.PercentStableUnit
		c.MaxAcceptedPayout = op.MaxAcceptedPayout
		if len(op.Beneficiaries) > 0 {
			c.Beneficiaries = make([]*prototype.Beneficiary, len(op.Beneficiaries))
			for i, b := range op.Beneficiaries {
				c.Beneficiaries[i] = &prototype.Beneficiary{
					Account: prototype.NewAccountName(b.Account.Value),
					Weight:  b.Weight,
				}
			}
		}
	})
}

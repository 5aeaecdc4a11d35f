package app

import (
	"github.com/coschain/contentos-reward/app/table"
	"github.com/coschain/contentos-reward/hardfork"
	"github.com/coschain/contentos-reward/iservices"
	"github.com/coschain/contentos-reward/prototype"
	"github.com/sirupsen/logrus"
)

type ApplyContext struct {
	store  *table.Store
	ledger iservices.IAccountLedger
	dgp    *DynamicGlobalPropsRW
	rules  hardfork.Rules
	params Params
	log    *logrus.Logger
}

type BaseEvaluator interface {
	Apply() error
}

// GetBaseEvaluator picks the evaluator for an operation. Operation kinds the reward engine
// does not handle have no arm.
func GetBaseEvaluator(ctx *ApplyContext, op prototype.Operation) (BaseEvaluator, error) {
	switch o := op.(type) {
	case *prototype.VoteOperation:
		return &VoteEvaluator{ctx: ctx, op: o}, nil
	case *prototype.CommentOperation:
		return &CommentEvaluator{ctx: ctx, op: o}, nil
	case *prototype.CommentOptionsOperation:
		return &CommentOptionsEvaluator{ctx: ctx, op: o}, nil
	}
	return nil, prototype.Reject(prototype.StatusOperationInvalid, "no matchable evaluator for %T", op)
}

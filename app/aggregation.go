package app

import (
	"github.com/coschain/contentos-reward/app/table"
	"github.com/coschain/contentos-reward/common/constants"
	"github.com/coschain/contentos-reward/prototype"
	"github.com/holiman/uint256"
)

// adjustRShares2 replaces a node's old vshares by new ones in children_rshares2 of the node
// and of every ancestor up to the root, then in the global total.
func adjustRShares2(store *table.Store, id prototype.ContentId, oldVShares, newVShares *uint256.Int) error {
	if oldVShares.Eq(newVShares) {
		return nil
	}
	cur := id
	for depth := 0; depth <= constants.MaxCommentDepth; depth++ {
		c, ok := store.GetContent(cur)
		if !ok {
			return prototype.Violation("aggregation walk lost content %s", cur)
		}
		if c.ChildrenRShares2.Lt(oldVShares) {
			return prototype.Violation("children_rshares2 of %s would go negative", cur)
		}
		if err := store.ModifyContent(cur, func(c *table.Content) {
			c.ChildrenRShares2.Sub(&c.ChildrenRShares2, oldVShares)
			c.ChildrenRShares2.Add(&c.ChildrenRShares2, newVShares)
		}); err != nil {
			return err
		}
		if c.IsRoot() {
			return adjustTotalRShares2(store, oldVShares, newVShares)
		}
		cur = c.ParentId
	}
	return prototype.Violation("aggregation walk from %s exceeds max depth", id)
}

func adjustTotalRShares2(store *table.Store, oldVShares, newVShares *uint256.Int) error {
	g := store.GetGlobals()
	if g.TotalRewardShares2.Lt(oldVShares) {
		return prototype.Violation("total_reward_shares2 would go negative")
	}
	store.ModifyGlobals(func(g *table.Globals) {
		g.TotalRewardShares2.Sub(&g.TotalRewardShares2, oldVShares)
		g.TotalRewardShares2.Add(&g.TotalRewardShares2, newVShares)
	})
	return nil
}

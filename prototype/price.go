package prototype

import (
	"fmt"

	"github.com/coschain/contentos-reward/common/constants"
	"github.com/holiman/uint256"
)

// Price is a feed quote: Base stable units buy Quote coins. A zero side means no feed.
type Price struct {
	Base  uint64 `json:"base"`
	Quote uint64 `json:"quote"`
}

func (p Price) IsNull() bool {
	return p.Base == 0 || p.Quote == 0
}

func mulDiv(a, b, c uint64) uint64 {
	r := new(uint256.Int).Mul(uint256.NewInt(a), uint256.NewInt(b))
	r.Div(r, uint256.NewInt(c))
	if !r.IsUint64() {
		return ^uint64(0)
	}
	return r.Uint64()
}

// ToStable converts coins to stable units, zero under a null feed.
func (p Price) ToStable(coins uint64) uint64 {
	if p.IsNull() {
		return 0
	}
	return mulDiv(coins, p.Base, p.Quote)
}

// ToCoin converts stable units to coins, zero under a null feed.
func (p Price) ToCoin(stable uint64) uint64 {
	if p.IsNull() {
		return 0
	}
	return mulDiv(stable, p.Quote, p.Base)
}

func (p Price) String() string {
	if p.IsNull() {
		return "null"
	}
	return fmt.Sprintf("%d %s/%d %s", p.Base, constants.StableSymbol, p.Quote, constants.CoinSymbol)
}

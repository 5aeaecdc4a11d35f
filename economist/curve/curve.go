// Package curve holds the pure reward and curation weight functions. All intermediates that
// can exceed 64 bits are carried in 256-bit unsigned integers.
package curve

import (
	"math"

	"github.com/holiman/uint256"
)

var u64Max = uint256.NewInt(math.MaxUint64)

func fromInt64(v int64) *uint256.Int {
	if v <= 0 {
		return uint256.NewInt(0)
	}
	return uint256.NewInt(uint64(v))
}

// VShares maps net r-shares to the squared magnitude used for pool share:
// (R+S)^2 - S^2 for positive R, zero otherwise.
func VShares(rshares int64, s uint64) *uint256.Int {
	r := fromInt64(rshares)
	if r.IsZero() {
		return r
	}
	// (R+S)^2 - S^2 == R * (R + 2S)
	twoS := new(uint256.Int).Lsh(uint256.NewInt(s), 1)
	sum := new(uint256.Int).Add(r, twoS)
	return sum.Mul(sum, r)
}

// Claims is the weighted pool claim of a content item: VShares scaled by the
// reward weight in basis points.
func Claims(rshares int64, s uint64, rewardWeight uint16) *uint256.Int {
	c := VShares(rshares, s)
	c.Mul(c, uint256.NewInt(uint64(rewardWeight)))
	return c.Div(c, uint256.NewInt(10000))
}

// RewardFromClaims divides balance proportionally: balance * claims / total.
// ok is false when the share would exceed the balance.
func RewardFromClaims(balance uint64, claims, total *uint256.Int) (reward uint64, ok bool) {
	if total == nil || total.IsZero() || claims.IsZero() || balance == 0 {
		return 0, true
	}
	r := new(uint256.Int).Mul(uint256.NewInt(balance), claims)
	r.Div(r, total)
	if !r.IsUint64() || r.Uint64() > balance {
		return 0, false
	}
	return r.Uint64(), true
}

// CurationWeight is W(R) = U64_MAX * R / (R + 2S), bounded above by U64_MAX.
func CurationWeight(r uint64, s uint64) uint64 {
	if r == 0 {
		return 0
	}
	rr := uint256.NewInt(r)
	den := new(uint256.Int).Lsh(uint256.NewInt(s), 1)
	den.Add(den, rr)
	num := new(uint256.Int).Mul(u64Max, rr)
	return num.Div(num, den).Uint64()
}

// MarginalWeight is W(after) - W(before) for cumulative positive r-shares.
// Summed over consecutive votes it telescopes to W(final).
func MarginalWeight(before, after uint64, s uint64) uint64 {
	if after <= before {
		return 0
	}
	return CurationWeight(after, s) - CurationWeight(before, s)
}

// PreAuctionWeight is rshares^3 / absRShares^2, where absRShares already includes the vote.
func PreAuctionWeight(rshares int64, absRShares uint64) uint64 {
	r := fromInt64(rshares)
	if r.IsZero() || absRShares == 0 {
		return 0
	}
	cube := new(uint256.Int).Mul(r, r)
	cube.Mul(cube, r)
	total2 := uint256.NewInt(absRShares)
	total2.Mul(total2, total2)
	w := cube.Div(cube, total2)
	if !w.IsUint64() {
		return math.MaxUint64
	}
	return w.Uint64()
}

// AuctionDiscount scales weight by min(elapsed, window) / window, truncating.
func AuctionDiscount(weight uint64, elapsed uint32, window uint32) uint64 {
	if window == 0 || elapsed >= window {
		return weight
	}
	w := new(uint256.Int).Mul(uint256.NewInt(weight), uint256.NewInt(uint64(elapsed)))
	return w.Div(w, uint256.NewInt(uint64(window))).Uint64()
}

// MulDiv returns a * b / c truncated, zero when c is zero. The result must fit 64 bits.
func MulDiv(a, b, c uint64) uint64 {
	if c == 0 {
		return 0
	}
	r := new(uint256.Int).Mul(uint256.NewInt(a), uint256.NewInt(b))
	return r.Div(r, uint256.NewInt(c)).Uint64()
}

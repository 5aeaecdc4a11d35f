package curve

import (
	"math"
	"testing"

	"github.com/holiman/uint256"
	"github.com/stretchr/testify/assert"
)

const testS uint64 = 2000000000000

func TestVShares(t *testing.T) {
	myassert := assert.New(t)

	myassert.True(VShares(0, testS).IsZero())
	myassert.True(VShares(-500, testS).IsZero())

	// (10 + 3)^2 - 3^2 = 160
	myassert.Equal(uint64(160), VShares(10, 3).Uint64())

	// stays exact above 128 bits
	big := VShares(math.MaxInt64, math.MaxUint64)
	r := uint256.NewInt(math.MaxInt64)
	s := uint256.NewInt(math.MaxUint64)
	rs := new(uint256.Int).Add(r, s)
	expect := new(uint256.Int).Mul(rs, rs)
	expect.Sub(expect, new(uint256.Int).Mul(s, s))
	myassert.Equal(expect.Hex(), big.Hex())
}

func TestClaimsAndReward(t *testing.T) {
	myassert := assert.New(t)

	full := Claims(1000000, testS, 10000)
	half := Claims(1000000, testS, 5000)
	myassert.Equal(new(uint256.Int).Div(full, uint256.NewInt(2)).Hex(), half.Hex())

	reward, ok := RewardFromClaims(1000, full, full)
	myassert.True(ok)
	myassert.Equal(uint64(1000), reward)

	total := new(uint256.Int).Mul(full, uint256.NewInt(4))
	reward, ok = RewardFromClaims(1000, full, total)
	myassert.True(ok)
	myassert.Equal(uint64(250), reward)

	reward, ok = RewardFromClaims(1000, full, uint256.NewInt(0))
	myassert.True(ok)
	myassert.Equal(uint64(0), reward)

	_, ok = RewardFromClaims(1000, total, full)
	myassert.False(ok)
}

func TestCurationWeight_Bounded(t *testing.T) {
	myassert := assert.New(t)

	myassert.Equal(uint64(0), CurationWeight(0, testS))
	// W(2S) = U64_MAX / 2
	myassert.Equal(uint64(math.MaxUint64/2), CurationWeight(2*testS, testS))
	myassert.True(CurationWeight(math.MaxUint64, testS) <= math.MaxUint64)
	myassert.True(CurationWeight(1000, testS) < CurationWeight(2000, testS))
}

func TestMarginalWeight_Telescopes(t *testing.T) {
	myassert := assert.New(t)

	cumulative := []uint64{0, 1000000, 5000000, 5000001, 90000000000, 1 << 50}
	var sum uint64
	for i := 1; i < len(cumulative); i++ {
		sum += MarginalWeight(cumulative[i-1], cumulative[i], testS)
	}
	myassert.Equal(CurationWeight(cumulative[len(cumulative)-1], testS)-CurationWeight(0, testS), sum)
	myassert.Equal(uint64(0), MarginalWeight(10, 10, testS))
}

func TestPreAuctionWeight(t *testing.T) {
	myassert := assert.New(t)

	// a sole voter owns all of abs_rshares: weight equals rshares
	myassert.Equal(uint64(1000), PreAuctionWeight(1000, 1000))
	// 100^3 / 200^2 = 25
	myassert.Equal(uint64(25), PreAuctionWeight(100, 200))
	myassert.Equal(uint64(0), PreAuctionWeight(-100, 200))
	myassert.Equal(uint64(0), PreAuctionWeight(100, 0))
}

func TestAuctionDiscount(t *testing.T) {
	myassert := assert.New(t)

	myassert.Equal(uint64(0), AuctionDiscount(1000, 0, 1800))
	myassert.Equal(uint64(500), AuctionDiscount(1000, 900, 1800))
	myassert.Equal(uint64(1000), AuctionDiscount(1000, 1800, 1800))
	myassert.Equal(uint64(1000), AuctionDiscount(1000, 5000, 1800))

	// no overflow on the product
	myassert.Equal(uint64(math.MaxUint64/2), AuctionDiscount(math.MaxUint64, 900, 1800))
}

func TestMulDiv(t *testing.T) {
	myassert := assert.New(t)
	myassert.Equal(uint64(0), MulDiv(5, 5, 0))
	myassert.Equal(uint64(math.MaxUint64/2), MulDiv(math.MaxUint64, 5000, 10000))
}

package annual_mint

import "github.com/coschain/contentos-reward/common/constants"

func BaseBudget(ith uint32) uint64 {
	if ith == 0 || ith > constants.MintYears {
		return 0
	}
	var remain uint64 = 0
	if ith == constants.MintYears {
		remain = uint64(constants.TotalSupply) / 1000 / 100 * uint64(56)
	}
	return uint64(constants.TotalSupply)/1000/100*uint64(448)*uint64(ith) + remain
}

// CalculateBudget is the emission of the ith year, counted from 1.
func CalculateBudget(ith uint32) uint64 {
	return BaseBudget(ith)
}

// Minter hands out per-block emission, releasing exactly one annual budget per year.
type Minter struct {
	blocksPerYear uint64
	ith           uint32
	budget        uint64
	minted        uint64
	perBlock      uint64
}

func NewMinter(blocksPerYear uint64) *Minter {
	if blocksPerYear == 0 {
		blocksPerYear = constants.BlocksPerYear
	}
	m := &Minter{blocksPerYear: blocksPerYear}
	m.startYear(1)
	return m
}

func (m *Minter) startYear(ith uint32) {
	m.ith = ith
	m.budget = CalculateBudget(ith)
	m.minted = 0
	m.perBlock = m.budget / m.blocksPerYear
}

// Next returns the emission of the next block.
func (m *Minter) Next() uint64 {
	if m.budget == 0 {
		return 0
	}
	current := m.perBlock
	// prevent deficit
	if m.budget <= m.minted+current {
		current = m.budget - m.minted
		m.startYear(m.ith + 1)
		return current
	}
	m.minted += current
	return current
}

// Year is the mint year the next block belongs to.
func (m *Minter) Year() uint32 {
	return m.ith
}

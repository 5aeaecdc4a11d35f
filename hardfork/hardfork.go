package hardfork

import (
	"fmt"
	"sort"
)

// Version is the protocol version in effect for a block. Every reward rule variant is
// selected from it, never from the block height directly.
type Version uint8

const (
	Legacy Version = iota
	Standard
	Modern
)

func (v Version) String() string {
	switch v {
	case Legacy:
		return "legacy"
	case Standard:
		return "standard"
	case Modern:
		return "modern"
	}
	return fmt.Sprintf("version(%d)", uint8(v))
}

// ParseVersion is the inverse of String.
func ParseVersion(s string) (Version, error) {
	for v := Legacy; v <= Modern; v++ {
		if v.String() == s {
			return v, nil
		}
	}
	return Legacy, fmt.Errorf("unknown protocol version %q", s)
}

func (v Version) Valid() bool {
	return v <= Modern
}

type checkpoint struct {
	height  uint64
	version Version
}

// Schedule maps block heights to protocol versions.
type Schedule struct {
	checkpoints []checkpoint
}

func NewSchedule() *Schedule {
	return &Schedule{
		checkpoints: []checkpoint{{height: 0, version: Legacy}},
	}
}

// Activate registers the height from which v applies. Versions must activate in order.
func (s *Schedule) Activate(height uint64, v Version) *Schedule {
	for i, cp := range s.checkpoints {
		if cp.version == v {
			s.checkpoints[i].height = height
			s.sort()
			return s
		}
	}
	s.checkpoints = append(s.checkpoints, checkpoint{height: height, version: v})
	s.sort()
	return s
}

func (s *Schedule) sort() {
	sort.SliceStable(s.checkpoints, func(i, j int) bool {
		if s.checkpoints[i].height != s.checkpoints[j].height {
			return s.checkpoints[i].height < s.checkpoints[j].height
		}
		return s.checkpoints[i].version < s.checkpoints[j].version
	})
}

// At returns the version in effect at the given block height.
func (s *Schedule) At(height uint64) Version {
	r := Legacy
	for _, cp := range s.checkpoints {
		if height >= cp.height && cp.version > r {
			r = cp.version
		}
	}
	return r
}

// Fixed returns a schedule running a single version from genesis.
func Fixed(v Version) *Schedule {
	return NewSchedule().Activate(0, v)
}

func (s *Schedule) String() string {
	str := ""
	for i, cp := range s.checkpoints {
		if i > 0 {
			str += ", "
		}
		str += fmt.Sprintf("%s@%d", cp.version, cp.height)
	}
	return str
}

package commands

import (
	"fmt"
	"io/ioutil"

	"github.com/coschain/contentos-reward/common/constants"
	"github.com/coschain/contentos-reward/prototype"
	"github.com/pelletier/go-toml"
	"github.com/pkg/errors"
)

const (
	opComment = "comment"
	opVote    = "vote"
	opOptions = "options"
)

type scenarioAccount struct {
	Name    string `toml:"name"`
	Vesting int64  `toml:"vesting"`
	Barred  bool   `toml:"barred"`
}

type scenarioRoute struct {
	Account string `toml:"account"`
	Weight  int64  `toml:"weight"`
}

type scenarioOp struct {
	Type           string `toml:"type"`
	Author         string `toml:"author"`
	Permlink       string `toml:"permlink"`
	ParentAuthor   string `toml:"parent_author"`
	ParentPermlink string `toml:"parent_permlink"`
	RewardWeight   int64  `toml:"reward_weight"`

	Voter  string `toml:"voter"`
	Weight int64  `toml:"weight"`

	MaxAcceptedPayout int64           `toml:"max_accepted_payout"`
	PercentStable     int64           `toml:"percent_stable"`
	AllVesting        bool            `toml:"all_vesting"`
	DisableVotes      bool            `toml:"disable_votes"`
	DisableCuration   bool            `toml:"disable_curation"`
	Beneficiaries     []scenarioRoute `toml:"beneficiaries"`
}

type scenarioBlock struct {
	// seconds after the previous block, BlockInterval when 0
	Interval int64 `toml:"interval"`
	// empty blocks appended after this one
	Repeat int64 `toml:"repeat"`
	// a transaction per operation
	Ops []scenarioOp `toml:"ops"`
}

// Scenario is a scripted chain: accounts at genesis, then blocks of operations.
type Scenario struct {
	Genesis int64 `toml:"genesis"`
	// fixed emission per block, the annual mint schedule when 0
	Emission   int64 `toml:"emission"`
	PriceBase  int64 `toml:"price_base"`
	PriceQuote int64 `toml:"price_quote"`
	// basis points, full when 0
	PrintRate int64             `toml:"print_rate"`
	Accounts  []scenarioAccount `toml:"accounts"`
	Blocks    []scenarioBlock   `toml:"blocks"`
}

func LoadScenario(path string) (*Scenario, error) {
	data, err := ioutil.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseScenario(data)
}

func ParseScenario(data []byte) (*Scenario, error) {
	s := new(Scenario)
	if err := toml.Unmarshal(data, s); err != nil {
		return nil, errors.Wrap(err, "scenario")
	}
	if s.PrintRate == 0 {
		s.PrintRate = constants.PERCENT
	}
	if s.PrintRate < 0 || s.PrintRate > constants.PERCENT || s.PriceBase < 0 || s.PriceQuote < 0 || s.Emission < 0 {
		return nil, errors.New("scenario price, print rate or emission out of range")
	}
	if s.Genesis < 0 || s.Genesis > int64(constants.CashoutNever) {
		return nil, fmt.Errorf("scenario genesis %d out of range", s.Genesis)
	}
	for _, a := range s.Accounts {
		if a.Vesting < 0 {
			return nil, fmt.Errorf("account %s: negative vesting", a.Name)
		}
	}
	for i, b := range s.Blocks {
		if b.Interval < 0 || b.Repeat < 0 {
			return nil, fmt.Errorf("block %d: negative interval or repeat", i)
		}
		for j := range b.Ops {
			if _, err := b.Ops[j].operation(); err != nil {
				return nil, errors.WithMessage(err, fmt.Sprintf("block %d, op %d", i, j))
			}
		}
	}
	return s, nil
}

func accountName(name string) *prototype.AccountName {
	if name == "" {
		return nil
	}
	return prototype.NewAccountName(name)
}

func (o *scenarioOp) operation() (prototype.Operation, error) {
	switch o.Type {
	case opComment:
		if o.RewardWeight < 0 || o.RewardWeight > constants.PERCENT {
			return nil, fmt.Errorf("reward_weight %d out of range", o.RewardWeight)
		}
		return &prototype.CommentOperation{
			Author:         accountName(o.Author),
			Permlink:       o.Permlink,
			ParentAuthor:   accountName(o.ParentAuthor),
			ParentPermlink: o.ParentPermlink,
			RewardWeight:   uint16(o.RewardWeight),
		}, nil
	case opVote:
		if o.Weight > constants.PERCENT || o.Weight < -constants.PERCENT {
			return nil, fmt.Errorf("vote weight %d out of range", o.Weight)
		}
		return &prototype.VoteOperation{
			Voter:    accountName(o.Voter),
			Author:   accountName(o.Author),
			Permlink: o.Permlink,
			Weight:   int16(o.Weight),
		}, nil
	case opOptions:
		op := &prototype.CommentOptionsOperation{
			Author:               accountName(o.Author),
			Permlink:             o.Permlink,
			MaxAcceptedPayout:    constants.MaxAcceptedPayout,
			PercentStableUnit:    constants.PERCENT,
			AllowVotes:           !o.DisableVotes,
			AllowCurationRewards: !o.DisableCuration,
		}
		if o.MaxAcceptedPayout > 0 {
			op.MaxAcceptedPayout = uint64(o.MaxAcceptedPayout)
		}
		if o.PercentStable < 0 || o.PercentStable > constants.PERCENT {
			return nil, fmt.Errorf("percent_stable %d out of range", o.PercentStable)
		}
		if o.PercentStable > 0 {
			op.PercentStableUnit = uint16(o.PercentStable)
		}
		if o.AllVesting {
			op.PercentStableUnit = 0
		}
		for _, r := range o.Beneficiaries {
			if r.Weight <= 0 || r.Weight > constants.PERCENT {
				return nil, fmt.Errorf("beneficiary %s weight %d out of range", r.Account, r.Weight)
			}
			op.Beneficiaries = append(op.Beneficiaries, &prototype.Beneficiary{
				Account: accountName(r.Account),
				Weight:  uint16(r.Weight),
			})
		}
		return op, nil
	}
	return nil, fmt.Errorf("unknown operation type %q", o.Type)
}

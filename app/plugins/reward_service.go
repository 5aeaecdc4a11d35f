package plugins

import (
	"encoding/json"

	"github.com/asaskevich/EventBus"
	"github.com/coschain/contentos-reward/app/blocklog"
	"github.com/coschain/contentos-reward/common/constants"
	"github.com/coschain/contentos-reward/db/storage"
	"github.com/pkg/errors"
	"github.com/sasha-s/go-deadlock"
	"github.com/sirupsen/logrus"
)

var RewardServiceName = "rewardsrv"

const rewardKeyPrefix = "extreward/"

// AccountRewards accumulates everything an account has been paid. Vesting amounts are in vests,
// the rest in coins or stable units.
type AccountRewards struct {
	Account        string `json:"account"`
	AuthorVesting  uint64 `json:"author_vesting"`
	AuthorStable   uint64 `json:"author_stable"`
	AuthorVolatile uint64 `json:"author_volatile"`
	Curation       uint64 `json:"curation"`
	Benefactor     uint64 `json:"benefactor"`
	Contents       uint32 `json:"contents"`
	LastBlock      uint64 `json:"last_block"`
}

// RewardService keeps per-account reward totals by listening to committed ledger events.
type RewardService struct {
	sync deadlock.RWMutex
	db   storage.Database
	ev   EventBus.Bus
	log  *logrus.Logger
	err  error

	// bound once so Unsubscribe matches the subscribed handler
	handler func(ev *blocklog.Event)
}

// service constructor
func NewRewardService(db storage.Database, log *logrus.Logger) *RewardService {
	p := &RewardService{db: db, log: log}
	p.handler = p.onReward
	return p
}

func (p *RewardService) Start(bus EventBus.Bus) error {
	p.ev = bus
	return p.hookEvent()
}

func (p *RewardService) hookEvent() error {
	return p.ev.Subscribe(constants.NoticeRewardEvent, p.handler)
}

func (p *RewardService) unhookEvent() error {
	return p.ev.Unsubscribe(constants.NoticeRewardEvent, p.handler)
}

func (p *RewardService) onReward(ev *blocklog.Event) {
	p.sync.Lock()
	defer p.sync.Unlock()

	var err error
	switch r := ev.Payload.(type) {
	case *blocklog.AuthorReward:
		err = p.update(r.Author, ev.Block, func(a *AccountRewards) {
			a.AuthorVesting += r.VestingPayout
			a.AuthorStable += r.StablePayout
			a.AuthorVolatile += r.VolatilePayout
			a.Contents++
		})
	case *blocklog.CurationReward:
		err = p.update(r.Curator, ev.Block, func(a *AccountRewards) {
			a.Curation += r.Reward
		})
	case *blocklog.CommentBenefactorReward:
		err = p.update(r.Beneficiary, ev.Block, func(a *AccountRewards) {
			a.Benefactor += r.Reward
		})
	}
	if err != nil {
		if p.err == nil {
			p.err = err
		}
		if p.log != nil {
			p.log.Errorf("rewardsrv: block %d: %v", ev.Block, err)
		}
	}
}

func (p *RewardService) update(account string, block uint64, modifier func(a *AccountRewards)) error {
	a, err := p.load(account)
	if err != nil {
		return err
	}
	modifier(a)
	a.LastBlock = block
	data, err := json.Marshal(a)
	if err != nil {
		return err
	}
	return errors.Wrapf(p.db.Put([]byte(rewardKeyPrefix+account), data), "save rewards of %s", account)
}

func (p *RewardService) load(account string) (*AccountRewards, error) {
	a := &AccountRewards{Account: account}
	data, err := p.db.Get([]byte(rewardKeyPrefix + account))
	if err == storage.ErrNotFound {
		return a, nil
	}
	if err != nil {
		return nil, errors.Wrapf(err, "load rewards of %s", account)
	}
	if err = json.Unmarshal(data, a); err != nil {
		return nil, errors.Wrapf(err, "decode rewards of %s", account)
	}
	return a, nil
}

// RewardsOf returns the totals of account, zero if it was never paid.
func (p *RewardService) RewardsOf(account string) (*AccountRewards, error) {
	p.sync.RLock()
	defer p.sync.RUnlock()
	return p.load(account)
}

// All returns the totals of every paid account, ordered by name.
func (p *RewardService) All() ([]*AccountRewards, error) {
	p.sync.RLock()
	defer p.sync.RUnlock()

	var (
		result []*AccountRewards
		err    error
	)
	p.db.Iterate([]byte(rewardKeyPrefix), []byte("extreward0"), false, func(key, value []byte) bool {
		a := new(AccountRewards)
		if err = json.Unmarshal(value, a); err != nil {
			err = errors.Wrapf(err, "decode %s", key)
			return false
		}
		result = append(result, a)
		return true
	})
	return result, err
}

// Err returns the first error hit while recording events.
func (p *RewardService) Err() error {
	p.sync.RLock()
	defer p.sync.RUnlock()
	return p.err
}

func (p *RewardService) Stop() error {
	return p.unhookEvent()
}

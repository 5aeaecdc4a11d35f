package table

import (
	"sort"

	"github.com/coschain/contentos-reward/iservices"
	"github.com/coschain/contentos-reward/prototype"
	lru "github.com/hashicorp/golang-lru"
	"github.com/petar/GoLLRB/llrb"
	"github.com/pkg/errors"
)

const permlinkCacheSize = 4096

var (
	ErrNoTransaction = errors.New("no transaction in progress")
	ErrNotFound      = errors.New("record not found")
	ErrExists        = errors.New("record already exists")
)

var _ iservices.IUndoSession = (*Store)(nil)

type permlinkKey struct {
	author, permlink string
}

type undoSession struct {
	ops []func()
}

// Store is the in-memory ledger state the reward engine works on. Every mutation made
// while a transaction is open is undo-logged; EndTransaction(false) unwinds it.
// Readers get copies, writers go through the Modify helpers.
type Store struct {
	contents  map[prototype.ContentId]*Content
	permlinks map[permlinkKey]prototype.ContentId
	cache     *lru.Cache
	threads   map[prototype.ContentId][]prototype.ContentId
	cashouts  *llrb.LLRB
	nextId    prototype.ContentId

	votes       map[prototype.VoterId]*Vote
	votesByPost map[prototype.ContentId]map[string]struct{}
	accounts    map[string]*Account
	funds       map[string]*RewardFund
	fundOrder   []string
	globals     Globals

	sessions []*undoSession
}

func NewStore() *Store {
	cache, err := lru.New(permlinkCacheSize)
	if err != nil {
		panic(err)
	}
	return &Store{
		contents:    make(map[prototype.ContentId]*Content),
		permlinks:   make(map[permlinkKey]prototype.ContentId),
		cache:       cache,
		threads:     make(map[prototype.ContentId][]prototype.ContentId),
		cashouts:    llrb.New(),
		nextId:      1,
		votes:       make(map[prototype.VoterId]*Vote),
		votesByPost: make(map[prototype.ContentId]map[string]struct{}),
		accounts:    make(map[string]*Account),
		funds:       make(map[string]*RewardFund),
	}
}

//
// undo sessions
//

func (s *Store) BeginTransaction() {
	s.sessions = append(s.sessions, &undoSession{})
}

// EndTransaction closes the innermost session. A committed nested session is merged into
// its parent so the parent can still unwind it.
func (s *Store) EndTransaction(commit bool) error {
	n := len(s.sessions)
	if n == 0 {
		return ErrNoTransaction
	}
	top := s.sessions[n-1]
	s.sessions = s.sessions[:n-1]
	if commit {
		if n > 1 {
			parent := s.sessions[n-2]
			parent.ops = append(parent.ops, top.ops...)
		}
		return nil
	}
	for i := len(top.ops) - 1; i >= 0; i-- {
		top.ops[i]()
	}
	return nil
}

func (s *Store) TransactionHeight() uint {
	return uint(len(s.sessions))
}

func (s *Store) record(undo func()) {
	if n := len(s.sessions); n > 0 {
		s.sessions[n-1].ops = append(s.sessions[n-1].ops, undo)
	}
}

//
// globals
//

func (s *Store) GetGlobals() Globals {
	return s.globals
}

func (s *Store) ModifyGlobals(f func(g *Globals)) {
	old := s.globals
	f(&s.globals)
	s.record(func() { s.globals = old })
}

//
// accounts
//

func (s *Store) CreateAccount(a Account) error {
	if _, ok := s.accounts[a.Name]; ok {
		return errors.Wrapf(ErrExists, "account %s", a.Name)
	}
	s.accounts[a.Name] = &a
	s.record(func() { delete(s.accounts, a.Name) })
	return nil
}

func (s *Store) GetAccount(name string) (Account, bool) {
	if a, ok := s.accounts[name]; ok {
		return *a, true
	}
	return Account{}, false
}

func (s *Store) ModifyAccount(name string, f func(a *Account)) error {
	a, ok := s.accounts[name]
	if !ok {
		return errors.Wrapf(ErrNotFound, "account %s", name)
	}
	old := *a
	f(a)
	a.Name = old.Name
	s.record(func() { *s.accounts[name] = old })
	return nil
}

func (s *Store) AccountNames() []string {
	names := make([]string, 0, len(s.accounts))
	for n := range s.accounts {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

//
// reward funds
//

func (s *Store) CreateFund(f RewardFund) error {
	if _, ok := s.funds[f.Name]; ok {
		return errors.Wrapf(ErrExists, "reward fund %s", f.Name)
	}
	s.funds[f.Name] = &f
	s.fundOrder = append(s.fundOrder, f.Name)
	s.record(func() {
		delete(s.funds, f.Name)
		s.fundOrder = s.fundOrder[:len(s.fundOrder)-1]
	})
	return nil
}

func (s *Store) GetFund(name string) (RewardFund, bool) {
	if f, ok := s.funds[name]; ok {
		return *f, true
	}
	return RewardFund{}, false
}

func (s *Store) ModifyFund(name string, f func(rf *RewardFund)) error {
	rf, ok := s.funds[name]
	if !ok {
		return errors.Wrapf(ErrNotFound, "reward fund %s", name)
	}
	old := *rf
	f(rf)
	rf.Name = old.Name
	s.record(func() { *s.funds[name] = old })
	return nil
}

// FundNames returns fund names in creation order.
func (s *Store) FundNames() []string {
	return append([]string(nil), s.fundOrder...)
}

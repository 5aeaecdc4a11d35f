package app

import (
	"io/ioutil"
	"testing"

	"github.com/asaskevich/EventBus"
	"github.com/coschain/contentos-reward/app/blocklog"
	"github.com/coschain/contentos-reward/app/table"
	"github.com/coschain/contentos-reward/common/constants"
	"github.com/coschain/contentos-reward/db/storage"
	"github.com/coschain/contentos-reward/hardfork"
	"github.com/coschain/contentos-reward/prototype"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
)

// 2019-01-01T00:00:00
const testGenesis = 1546300800

type testEngine struct {
	t         *testing.T
	ctrl      *Controller
	journal   *blocklog.Journal
	height    uint64
	now       uint32
	emission  uint64
	published []*blocklog.Event
}

func newTestEngine(t *testing.T, schedule *hardfork.Schedule) *testEngine {
	log := logrus.New()
	log.Out = ioutil.Discard
	bus := EventBus.New()
	journal := blocklog.NewJournal(storage.NewMemoryDatabase(), bus, log)
	e := &testEngine{
		t:        t,
		ctrl:     NewController(schedule, DefaultParams(), journal, log),
		journal:  journal,
		now:      testGenesis,
		emission: 1000000,
	}
	require.NoError(t, e.ctrl.InitGenesis(prototype.TimePointSec{UtcSeconds: testGenesis}))
	require.NoError(t, bus.Subscribe(constants.NoticeRewardEvent, func(ev *blocklog.Event) {
		e.published = append(e.published, ev)
	}))
	return e
}

func (e *testEngine) account(name string, coins uint64) {
	require.NoError(e.t, e.ctrl.Ledger().CreateAccount(name, coins))
}

// step applies one block dt seconds after the previous one, one transaction per operation.
func (e *testEngine) step(dt uint32, ops ...prototype.Operation) *BlockResult {
	e.height++
	e.now += dt
	b := &Block{
		Height:   e.height,
		Time:     prototype.TimePointSec{UtcSeconds: e.now},
		Emission: e.emission,
	}
	for _, op := range ops {
		b.Transactions = append(b.Transactions, []prototype.Operation{op})
	}
	r, err := e.ctrl.ApplyBlock(b)
	require.NoError(e.t, err)
	return r
}

func (e *testEngine) mustStep(dt uint32, ops ...prototype.Operation) *BlockResult {
	r := e.step(dt, ops...)
	for _, rej := range r.Rejected {
		require.NoError(e.t, rej.Err, "transaction %d", rej.Trx)
	}
	return r
}

// reject applies op alone and returns the code it was rejected with.
func (e *testEngine) reject(dt uint32, op prototype.Operation) prototype.StatusCode {
	r := e.step(dt, op)
	require.Len(e.t, r.Rejected, 1)
	return r.Rejected[0].Code
}

func (e *testEngine) content(author, permlink string) table.Content {
	id, ok := e.ctrl.Store().ContentByPermlink(author, permlink)
	require.True(e.t, ok, "%s/%s", author, permlink)
	c, _ := e.ctrl.Store().GetContent(id)
	return c
}

func (e *testEngine) vote(voter, author, permlink string) (table.Vote, bool) {
	c := e.content(author, permlink)
	return e.ctrl.Store().GetVote(prototype.VoterId{Voter: voter, Content: c.Id})
}

func (e *testEngine) accountOf(name string) table.Account {
	a, ok := e.ctrl.Store().GetAccount(name)
	require.True(e.t, ok, name)
	return a
}

func (e *testEngine) fund(name string) table.RewardFund {
	f, ok := e.ctrl.Store().GetFund(name)
	require.True(e.t, ok, name)
	return f
}

func post(author, permlink string) *prototype.CommentOperation {
	return &prototype.CommentOperation{
		Author:   prototype.NewAccountName(author),
		Permlink: permlink,
	}
}

func reply(author, permlink, parentAuthor, parentPermlink string) *prototype.CommentOperation {
	return &prototype.CommentOperation{
		Author:         prototype.NewAccountName(author),
		Permlink:       permlink,
		ParentAuthor:   prototype.NewAccountName(parentAuthor),
		ParentPermlink: parentPermlink,
	}
}

func vote(voter, author, permlink string, weight int16) *prototype.VoteOperation {
	return &prototype.VoteOperation{
		Voter:    prototype.NewAccountName(voter),
		Author:   prototype.NewAccountName(author),
		Permlink: permlink,
		Weight:   weight,
	}
}

func eventsOf(events []*blocklog.Event, kind string) []*blocklog.Event {
	var r []*blocklog.Event
	for _, ev := range events {
		if ev.Kind() == kind {
			r = append(r, ev)
		}
	}
	return r
}

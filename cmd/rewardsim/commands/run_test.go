package commands

import (
	"bytes"
	"io/ioutil"
	"os"
	"path/filepath"
	"testing"

	"github.com/coschain/contentos-reward/app/blocklog"
	"github.com/coschain/contentos-reward/config"
	"github.com/coschain/contentos-reward/db/storage"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const demoScenario = `
genesis = 1546300800
emission = 1000000

[[accounts]]
name = "alice"
vesting = 100000000

[[accounts]]
name = "bob"
vesting = 100000000

[[accounts]]
name = "dave"

[[blocks]]
[[blocks.ops]]
type = "comment"
author = "alice"
permlink = "hello"

[[blocks]]
[[blocks.ops]]
type = "options"
author = "alice"
permlink = "hello"
[[blocks.ops.beneficiaries]]
account = "dave"
weight = 5000

[[blocks]]
repeat = 2
[[blocks.ops]]
type = "vote"
voter = "bob"
author = "alice"
permlink = "hello"
weight = 10000
[[blocks.ops]]
type = "vote"
voter = "bob"
author = "alice"
permlink = "missing"
weight = 10000

[[blocks]]
interval = 604800
`

func quietLogger() *logrus.Logger {
	log := logrus.New()
	log.Out = ioutil.Discard
	return log
}

func TestParseScenario(t *testing.T) {
	myassert := assert.New(t)
	s, err := ParseScenario([]byte(demoScenario))
	require.NoError(t, err)
	myassert.Equal(int64(1546300800), s.Genesis)
	myassert.Equal(int64(10000), s.PrintRate)
	require.Len(t, s.Accounts, 3)
	require.Len(t, s.Blocks, 4)
	myassert.Equal(int64(2), s.Blocks[2].Repeat)
	require.Len(t, s.Blocks[1].Ops, 1)
	require.Len(t, s.Blocks[1].Ops[0].Beneficiaries, 1)
	myassert.Equal("dave", s.Blocks[1].Ops[0].Beneficiaries[0].Account)

	_, err = ParseScenario([]byte("[[blocks]]\n[[blocks.ops]]\ntype = \"transfer\"\n"))
	myassert.Error(err)
	_, err = ParseScenario([]byte("[[blocks]]\n[[blocks.ops]]\ntype = \"vote\"\nweight = 20000\n"))
	myassert.Error(err)
	_, err = ParseScenario([]byte("genesis = -1\n"))
	myassert.Error(err)
}

func TestReplay(t *testing.T) {
	myassert := assert.New(t)
	s, err := ParseScenario([]byte(demoScenario))
	require.NoError(t, err)
	cfg := config.DefaultChainConfig()

	var out bytes.Buffer
	require.NoError(t, Replay(&cfg, s, storage.NewMemoryDatabase(), &out, true, quietLogger()))
	text := out.String()
	myassert.Contains(text, "transaction 1 rejected")
	myassert.Contains(text, blocklog.KindCommentBenefactorReward)
	myassert.Contains(text, blocklog.KindCurationReward)
	myassert.Contains(text, "head 6")
	myassert.Contains(text, "fund post")
	myassert.Contains(text, "account alice")
	myassert.Contains(text, "account bob")
	myassert.Contains(text, "account dave")
}

func TestReplay_LevelJournal(t *testing.T) {
	myassert := assert.New(t)
	dir, err := ioutil.TempDir("", "rewardsim")
	require.NoError(t, err)
	defer os.RemoveAll(dir)

	s, err := ParseScenario([]byte(demoScenario))
	require.NoError(t, err)
	cfg := config.DefaultChainConfig()

	db, err := storage.NewLevelDatabase(filepath.Join(dir, "journal"))
	require.NoError(t, err)
	var out bytes.Buffer
	require.NoError(t, Replay(&cfg, s, db, &out, false, quietLogger()))
	myassert.NotContains(out.String(), "rejected")

	events, err := blocklog.NewJournal(db, nil, nil).Events(0, ^uint64(0))
	require.NoError(t, err)
	myassert.Len(events, 5)
	for _, ev := range events {
		myassert.Equal(uint64(6), ev.Block)
		myassert.Equal("cashout", ev.Cause)
	}
	db.Close()
}

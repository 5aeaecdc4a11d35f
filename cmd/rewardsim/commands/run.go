package commands

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/asaskevich/EventBus"
	"github.com/coschain/cobra"
	"github.com/coschain/contentos-reward/app"
	"github.com/coschain/contentos-reward/app/annual_mint"
	"github.com/coschain/contentos-reward/app/blocklog"
	"github.com/coschain/contentos-reward/app/plugins"
	"github.com/coschain/contentos-reward/common"
	"github.com/coschain/contentos-reward/common/constants"
	"github.com/coschain/contentos-reward/config"
	"github.com/coschain/contentos-reward/db/storage"
	"github.com/coschain/contentos-reward/mylog"
	"github.com/coschain/contentos-reward/prototype"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

var (
	scenarioPath string
	journalDir   string
	quiet        bool
)

var RunCmd = func() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "run",
		Short:   "replay a scenario through the reward engine",
		Example: "run --scenario demo.toml --journal ./journal",
		Run:     runScenario,
	}
	cmd.Flags().StringVarP(&cfgPath, "config", "c", "", "config file (default is <datadir>/config.toml)")
	cmd.Flags().StringVarP(&scenarioPath, "scenario", "s", "", "scenario file")
	cmd.Flags().StringVarP(&journalDir, "journal", "j", "", "leveldb directory for the event journal (in memory if empty)")
	cmd.Flags().BoolVarP(&quiet, "quiet", "q", false, "print only the final state")
	return cmd
}

func readConfig() *config.ChainConfig {
	path := cfgPath
	if path == "" {
		path = filepath.Join(config.DefaultDataDir(), config.DefaultConfigName)
	}
	if _, err := os.Stat(path); os.IsNotExist(err) && cfgPath == "" {
		cfg := config.DefaultChainConfig()
		return &cfg
	}
	cfg, err := config.LoadChainConfig(path)
	if err != nil {
		common.Fatalf("%v", err)
	}
	return cfg
}

func runScenario(cmd *cobra.Command, args []string) {
	_, _ = cmd, args
	if scenarioPath == "" {
		common.Fatalf("--scenario is required")
	}
	cfg := readConfig()
	s, err := LoadScenario(scenarioPath)
	if err != nil {
		common.Fatalf("%v", err)
	}
	log, err := mylog.Init(cfg.Log.Path, cfg.Log.Level, cfg.Log.Age)
	if err != nil {
		common.Fatalf("%v", err)
	}

	var db storage.Database
	if journalDir != "" {
		if db, err = storage.NewLevelDatabase(journalDir); err != nil {
			common.Fatalf("open journal %s: %v", journalDir, err)
		}
	} else {
		db = storage.NewMemoryDatabase()
	}
	defer db.Close()

	out := io.Writer(os.Stdout)
	if err = Replay(cfg, s, db, out, !quiet, log); err != nil {
		common.Fatalf("%v", err)
	}
}

// Replay runs s over a fresh engine journaling into db, then prints the fund and reward state to out.
func Replay(cfg *config.ChainConfig, s *Scenario, db storage.Database, out io.Writer, verbose bool, log *logrus.Logger) error {
	schedule, err := cfg.Schedule()
	if err != nil {
		return err
	}
	bus := EventBus.New()
	journal := blocklog.NewJournal(db, bus, log)
	rewards := plugins.NewRewardService(db, log)
	if err = rewards.Start(bus); err != nil {
		return err
	}
	defer rewards.Stop()
	if verbose {
		printer := func(ev *blocklog.Event) {
			fmt.Fprintln(out, ev.ToJsonString())
		}
		if err = bus.Subscribe(constants.NoticeRewardEvent, printer); err != nil {
			return err
		}
		defer bus.Unsubscribe(constants.NoticeRewardEvent, printer)
	}

	ctrl := app.NewController(schedule, cfg.Params(), journal, log)
	now := uint32(s.Genesis)
	if err = ctrl.InitGenesis(prototype.TimePointSec{UtcSeconds: now}); err != nil {
		return err
	}
	for _, a := range s.Accounts {
		if err = ctrl.Ledger().CreateAccount(a.Name, uint64(a.Vesting)); err != nil {
			return errors.WithMessage(err, "account "+a.Name)
		}
		if a.Barred {
			ctrl.Ledger().Bar(a.Name)
		}
	}
	ctrl.Ledger().SetPrice(prototype.Price{Base: uint64(s.PriceBase), Quote: uint64(s.PriceQuote)})
	ctrl.Ledger().SetPrintRate(uint16(s.PrintRate))

	minter := annual_mint.NewMinter(cfg.BlocksPerYear)
	emission := func() uint64 {
		if s.Emission > 0 {
			return uint64(s.Emission)
		}
		return minter.Next()
	}

	var height uint64
	apply := func(interval uint32, ops []scenarioOp) error {
		height++
		if interval == 0 {
			interval = constants.BlockInterval
		}
		now += interval
		b := &app.Block{
			Height:   height,
			Time:     prototype.TimePointSec{UtcSeconds: now},
			Emission: emission(),
		}
		for i := range ops {
			op, err := ops[i].operation()
			if err != nil {
				return err
			}
			b.Transactions = append(b.Transactions, []prototype.Operation{op})
		}
		r, err := ctrl.ApplyBlock(b)
		if err != nil {
			return errors.WithMessage(err, fmt.Sprintf("block %d", height))
		}
		if verbose {
			for _, rej := range r.Rejected {
				fmt.Fprintf(out, "block %d: transaction %d rejected (%d): %v\n", height, rej.Trx, rej.Code, rej.Err)
			}
		}
		return nil
	}
	for _, blk := range s.Blocks {
		if err = apply(uint32(blk.Interval), blk.Ops); err != nil {
			return err
		}
		for i := int64(0); i < blk.Repeat; i++ {
			if err = apply(constants.BlockInterval, nil); err != nil {
				return err
			}
		}
	}
	if err = ctrl.ValidateInvariants(); err != nil {
		return err
	}
	if err = rewards.Err(); err != nil {
		return err
	}
	return printState(ctrl, rewards, out)
}

func printState(ctrl *app.Controller, rewards *plugins.RewardService, out io.Writer) error {
	g := ctrl.Store().GetGlobals()
	fmt.Fprintf(out, "head %d at %s, %s, emitted %d, paid %d\n",
		g.HeadBlock, g.HeadTime.ToString(), g.Version, g.TotalEmitted, g.TotalPaid)
	for _, name := range ctrl.Store().FundNames() {
		f, _ := ctrl.Store().GetFund(name)
		fmt.Fprintf(out, "fund %-8s balance %d, recent %s, share %d\n",
			f.Name, f.RewardBalance, f.RecentRShares2.Dec(), f.PercentContentRewards)
	}
	all, err := rewards.All()
	if err != nil {
		return err
	}
	for _, a := range all {
		fmt.Fprintf(out, "account %-12s author %d vests + %d %s + %d %s, curation %d, benefactor %d\n",
			a.Account, a.AuthorVesting, a.AuthorStable, constants.StableSymbol, a.AuthorVolatile, constants.CoinSymbol,
			a.Curation, a.Benefactor)
	}
	return nil
}

package config

import (
	"bytes"
	"fmt"
	"io/ioutil"
	"os"
	"path/filepath"

	"github.com/coschain/contentos-reward/app"
	"github.com/coschain/contentos-reward/common/constants"
	"github.com/coschain/contentos-reward/hardfork"
	"github.com/pelletier/go-toml"
	"github.com/pkg/errors"
	"github.com/spf13/viper"
)

const configHeader = `# This is a TOML config file.
# For more information, see https://github.com/toml-lang/toml

`

type LogConfig struct {
	// empty logs to stdout only
	Path  string
	Level string
	Age   uint32
}

// ChainConfig holds the tunables of a simulated chain. Heights of 0 leave a version unscheduled.
type ChainConfig struct {
	DataDir        string
	GenesisVersion string
	StandardHeight uint64
	ModernHeight   uint64

	ContentConstant        uint64
	VoteDustThreshold      uint64
	VoteRegenerationPerDay uint64
	MaxVoteChanges         int8
	UpvoteLockout          uint32
	ReverseAuctionWindow   uint32
	PostFundPercent        uint16
	CommentFundPercent     uint16
	MinPayoutStable        uint64
	BlocksPerYear          uint64

	Log LogConfig
}

func (c *ChainConfig) Validate() error {
	genesis, err := hardfork.ParseVersion(c.GenesisVersion)
	if err != nil {
		return err
	}
	if c.ContentConstant == 0 {
		return errors.New("ContentConstant must be positive")
	}
	if c.MaxVoteChanges <= 0 {
		return errors.New("MaxVoteChanges must be positive")
	}
	if c.VoteRegenerationPerDay == 0 {
		return errors.New("VoteRegenerationPerDay must be positive")
	}
	if uint32(c.PostFundPercent)+uint32(c.CommentFundPercent) != constants.PERCENT {
		return fmt.Errorf("fund percents %d + %d must sum to %d", c.PostFundPercent, c.CommentFundPercent, constants.PERCENT)
	}
	if genesis < hardfork.Standard && c.StandardHeight > 0 && c.ModernHeight > 0 && c.ModernHeight < c.StandardHeight {
		return fmt.Errorf("ModernHeight %d before StandardHeight %d", c.ModernHeight, c.StandardHeight)
	}
	return nil
}

func (c *ChainConfig) Params() app.Params {
	return app.Params{
		ContentConstant:        c.ContentConstant,
		VoteDustThreshold:      c.VoteDustThreshold,
		VoteRegenerationPerDay: c.VoteRegenerationPerDay,
		MaxVoteChanges:         c.MaxVoteChanges,
		UpvoteLockout:          c.UpvoteLockout,
		ReverseAuctionWindow:   c.ReverseAuctionWindow,
		MinPayoutStable:        c.MinPayoutStable,
		PostFundPercent:        c.PostFundPercent,
		CommentFundPercent:     c.CommentFundPercent,
	}
}

func (c *ChainConfig) Schedule() (*hardfork.Schedule, error) {
	genesis, err := hardfork.ParseVersion(c.GenesisVersion)
	if err != nil {
		return nil, err
	}
	s := hardfork.Fixed(genesis)
	if genesis < hardfork.Standard && c.StandardHeight > 0 {
		s.Activate(c.StandardHeight, hardfork.Standard)
	}
	if genesis < hardfork.Modern && c.ModernHeight > 0 {
		s.Activate(c.ModernHeight, hardfork.Modern)
	}
	return s, nil
}

// LoadChainConfig reads path over the defaults. Keys missing from the file keep their default.
func LoadChainConfig(path string) (*ChainConfig, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("toml")
	if err := v.ReadInConfig(); err != nil {
		return nil, errors.Wrapf(err, "read config %s", path)
	}
	cfg := DefaultChainConfig()
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, errors.Wrapf(err, "decode config %s", path)
	}
	if err := cfg.Validate(); err != nil {
		return nil, errors.WithMessage(err, path)
	}
	return &cfg, nil
}

func WriteChainConfigFile(configDirPath string, configName string, config ChainConfig, mode os.FileMode) error {
	var buffer bytes.Buffer

	data, err := toml.Marshal(config)
	if err != nil {
		return err
	}
	buffer.WriteString(configHeader)
	buffer.Write(data)

	if err = os.MkdirAll(configDirPath, 0755); err != nil {
		return err
	}
	configPath := filepath.Join(configDirPath, configName)
	return ioutil.WriteFile(configPath, buffer.Bytes(), mode)
}

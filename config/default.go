package config

import (
	"path/filepath"

	"github.com/coschain/contentos-reward/common/constants"
	"github.com/coschain/contentos-reward/hardfork"
	"github.com/coschain/contentos-reward/mylog"
	"github.com/mitchellh/go-homedir"
)

const (
	DefaultConfigName = "config.toml"
	DefaultLogAge     = 7
)

// DefaultChainConfig contains the protocol defaults, running the modern rules from genesis.
func DefaultChainConfig() ChainConfig {
	return ChainConfig{
		DataDir:                DefaultDataDir(),
		GenesisVersion:         hardfork.Modern.String(),
		ContentConstant:        constants.ContentConstant,
		VoteDustThreshold:      constants.VoteDustThreshold,
		VoteRegenerationPerDay: constants.VoteRegenerationPerDay,
		MaxVoteChanges:         constants.MaxVoteChanges,
		UpvoteLockout:          constants.UpvoteLockout,
		ReverseAuctionWindow:   constants.ReverseAuctionWindowSeconds,
		PostFundPercent:        constants.PostRewardFundPercent,
		CommentFundPercent:     constants.CommentRewardFundPercent,
		MinPayoutStable:        constants.MinPayoutStable,
		BlocksPerYear:          constants.BlocksPerYear,
		Log: LogConfig{
			Level: mylog.InfoLevel,
			Age:   DefaultLogAge,
		},
	}
}

func DefaultDataDir() string {
	home, err := homedir.Dir()
	if err != nil || home == "" {
		return ""
	}
	return filepath.Join(home, ".rewardsim")
}

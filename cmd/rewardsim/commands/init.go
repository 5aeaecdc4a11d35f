package commands

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/coschain/cobra"
	"github.com/coschain/contentos-reward/common"
	"github.com/coschain/contentos-reward/config"
)

var (
	cfgPath string
	dataDir string
)

var InitCmd = func() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Initialize configuration files",
		Run:   initConf,
	}
	cmd.Flags().StringVarP(&dataDir, "dir", "d", "", "data directory (default is ~/.rewardsim)")
	return cmd
}

func initConf(cmd *cobra.Command, args []string) {
	_, _ = cmd, args
	cfg := config.DefaultChainConfig()
	if dataDir != "" {
		dir, err := filepath.Abs(dataDir)
		if err != nil {
			common.Fatalf("data directory %s cannot be converted to absolute path", dataDir)
		}
		cfg.DataDir = dir
	}
	if cfg.DataDir == "" {
		common.Fatalf("no data directory, use --dir")
	}
	cfg.Log.Path = filepath.Join(cfg.DataDir, "logs")

	confPath := filepath.Join(cfg.DataDir, config.DefaultConfigName)
	if _, err := os.Stat(confPath); err == nil {
		fmt.Printf("config file %s already exists\n", confPath)
		return
	}
	if err := config.WriteChainConfigFile(cfg.DataDir, config.DefaultConfigName, cfg, 0600); err != nil {
		common.Fatalf("write config file: %v", err)
	}
	fmt.Printf("config file written to %s\n", confPath)
}

package main

import (
	"fmt"
	"os"

	"github.com/coschain/cobra"
	"github.com/coschain/contentos-reward/cmd/rewardsim/commands"
)

// rewardsim replays scripted posts and votes through the reward engine and reports the payouts.
var rootCmd = &cobra.Command{
	Use:   "rewardsim",
	Short: "Rewardsim simulates content reward distribution",
}

func addCommands() {
	rootCmd.AddCommand(commands.InitCmd())
	rootCmd.AddCommand(commands.RunCmd())
}

func main() {
	addCommands()
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

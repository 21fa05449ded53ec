package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "nftrade",
	Short: "NFTrade offer orchestration backend.",
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "./config/config.toml", "config file path")
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

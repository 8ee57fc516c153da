package main

import (
	"fmt"
	"os"

	"github.com/tronwallet/walletgo/cmd/cli"
)

var (
	version = "unknown"
	build   = "unknown"
)

func main() {
	rootCmd, _, _ := cli.NewRootCmd("walletcli", "TRON wallet client")
	rootCmd.Version = fmt.Sprintf("%s, %s", version, build)
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

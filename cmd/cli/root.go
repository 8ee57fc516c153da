package cli

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// NewRootCmd returns the command tree of the wallet client. The returned
// Context is loaded before any sub command runs and closed after it.
func NewRootCmd(use, short string) (*cobra.Command, *viper.Viper, *Context) {
	rootCmd, rootVc := NewCommand(nil, nil, use, short)
	rootCmd.SilenceUsage = true

	ctx := &Context{}
	rootPFlags := rootCmd.PersistentFlags()
	AddConfigFlags(rootPFlags)
	BindPFlags(rootVc, rootPFlags)

	rootCmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		return ctx.Load(rootVc)
	}
	rootCmd.PersistentPostRun = func(cmd *cobra.Command, args []string) {
		ctx.Close()
	}

	NewWalletCmd(rootCmd, rootVc, ctx)
	NewRpcCmd(rootCmd, rootVc, ctx)
	NewTxCmd(rootCmd, rootVc, ctx)
	NewGenerateMarkdownCommand(rootCmd)
	return rootCmd, rootVc, ctx
}

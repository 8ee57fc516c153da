package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"golang.org/x/term"

	"github.com/tronwallet/walletgo/common/errors"
)

var readTerminalPassword = func(fd int) ([]byte, error) {
	return term.ReadPassword(fd)
}

func readPassword(cmd *cobra.Command, prompt string) (string, error) {
	cmd.Print(prompt)
	pb, err := readTerminalPassword(int(os.Stdin.Fd()))
	cmd.Println()
	if err != nil {
		return "", errors.IllegalArgumentError.Wrap(err, "fail to read password")
	}
	return string(pb), nil
}

type passwordFlags struct {
	interactive *bool
	secret      *string
	pass        *string
}

func addPasswordFlags(fs *pflag.FlagSet) *passwordFlags {
	return &passwordFlags{
		interactive: fs.BoolP("interactive", "i", false, "Interactive mode for password input"),
		secret:      fs.StringP("secret", "s", "", "File holding the wallet password"),
		pass:        fs.StringP("password", "p", "", "Password of the wallet"),
	}
}

func (pf *passwordFlags) read(cmd *cobra.Command, prompt string) (string, error) {
	switch {
	case *pf.interactive:
		return readPassword(cmd, prompt)
	case *pf.secret != "":
		bs, err := os.ReadFile(*pf.secret)
		if err != nil {
			return "", errors.IllegalArgumentError.Wrapf(err, "fail to open secret file=%s", *pf.secret)
		}
		return strings.TrimRight(string(bs), "\r\n"), nil
	default:
		return *pf.pass, nil
	}
}

// readNew reads the password of a new record. Interactive mode asks twice.
func (pf *passwordFlags) readNew(cmd *cobra.Command) (string, error) {
	if !*pf.interactive {
		return pf.read(cmd, "")
	}
	return confirmPassword(cmd)
}

func confirmPassword(cmd *cobra.Command) (string, error) {
	p1, err := readPassword(cmd, "New Password: ")
	if err != nil {
		return "", err
	}
	p2, err := readPassword(cmd, "Confirm Password: ")
	if err != nil {
		return "", err
	}
	if p1 != p2 {
		return "", errors.IllegalArgumentError.New("passwords do not match")
	}
	return p1, nil
}

func NewWalletCmd(parentCmd *cobra.Command, parentVc *viper.Viper, ctx *Context) (*cobra.Command, *viper.Viper) {
	rootCmd, vc := NewCommand(parentCmd, parentVc, "wallet", "Wallet management")
	rootCmd.Args = cobra.NoArgs

	genCmd := &cobra.Command{
		Use:   "gen",
		Short: "Generate a key pair and store it encrypted",
		Args:  ArgsWithUsage(cobra.NoArgs),
	}
	genPass := addPasswordFlags(genCmd.Flags())
	force := genCmd.Flags().BoolP("force", "f", false, "Overwrite the stored wallet")
	genCmd.RunE = func(cmd *cobra.Command, args []string) error {
		wc, err := ctx.NewWalletClient()
		if err != nil {
			return err
		}
		if err := checkOverwrite(wc.Store().Exists, *force); err != nil {
			return err
		}
		pw, err := genPass.readNew(cmd)
		if err != nil {
			return err
		}
		addr, err := wc.Register(pw)
		if err != nil {
			return err
		}
		defer wc.Logout()
		fmt.Fprintf(cmd.OutOrStdout(), "%s ==> %s\n", addr.String(), ctx.Config.WalletName)
		return nil
	}

	importCmd := &cobra.Command{
		Use:   "import PRIVATE_KEY",
		Short: "Store a hex encoded private key encrypted",
		Args:  ArgsWithUsage(cobra.ExactArgs(1)),
	}
	importPass := addPasswordFlags(importCmd.Flags())
	importForce := importCmd.Flags().BoolP("force", "f", false, "Overwrite the stored wallet")
	importCmd.RunE = func(cmd *cobra.Command, args []string) error {
		wc, err := ctx.NewWalletClient()
		if err != nil {
			return err
		}
		if err := checkOverwrite(wc.Store().Exists, *importForce); err != nil {
			return err
		}
		pw, err := importPass.readNew(cmd)
		if err != nil {
			return err
		}
		addr, err := wc.Import(args[0], pw)
		if err != nil {
			return err
		}
		defer wc.Logout()
		fmt.Fprintf(cmd.OutOrStdout(), "%s ==> %s\n", addr.String(), ctx.Config.WalletName)
		return nil
	}

	verifyCmd := &cobra.Command{
		Use:   "verify",
		Short: "Verify the wallet password",
		Args:  ArgsWithUsage(cobra.NoArgs),
	}
	verifyPass := addPasswordFlags(verifyCmd.Flags())
	verifyCmd.RunE = func(cmd *cobra.Command, args []string) error {
		store, err := ctx.OpenStore()
		if err != nil {
			return err
		}
		pw, err := verifyPass.read(cmd, "Password: ")
		if err != nil {
			return err
		}
		if err := store.CheckPassword(pw); err != nil {
			fmt.Fprintf(cmd.OutOrStdout(), "FAIL err=%v\n", err)
			return nil
		}
		fmt.Fprintln(cmd.OutOrStdout(), "SUCCESS")
		return nil
	}

	addressCmd := &cobra.Command{
		Use:   "address",
		Short: "Print the address of the stored wallet",
		Args:  ArgsWithUsage(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := ctx.OpenStore()
			if err != nil {
				return err
			}
			kp, err := store.LoadPublicOnly()
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), kp.Address().String())
			fmt.Fprintln(cmd.OutOrStdout(), kp.Address().Hex())
			return nil
		},
	}

	pubkeyCmd := &cobra.Command{
		Use:   "pubkey",
		Short: "Print the public key of the stored wallet",
		Args:  ArgsWithUsage(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := ctx.OpenStore()
			if err != nil {
				return err
			}
			kp, err := store.LoadPublicOnly()
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "0x%x\n", kp.PublicKeyBytes())
			return nil
		},
	}

	passwdCmd := &cobra.Command{
		Use:   "passwd",
		Short: "Re-encrypt the stored wallet with a new password",
		Args:  ArgsWithUsage(cobra.NoArgs),
	}
	passwdPass := addPasswordFlags(passwdCmd.Flags())
	newPass := passwdCmd.Flags().StringP("new_password", "n", "", "New password of the wallet")
	passwdCmd.RunE = func(cmd *cobra.Command, args []string) error {
		store, err := ctx.OpenStore()
		if err != nil {
			return err
		}
		oldPw, err := passwdPass.read(cmd, "Old Password: ")
		if err != nil {
			return err
		}
		newPw := *newPass
		if *passwdPass.interactive {
			if newPw, err = confirmPassword(cmd); err != nil {
				return err
			}
		}
		if err := store.ChangePassword(oldPw, newPw); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "SUCCESS")
		return nil
	}

	rootCmd.AddCommand(genCmd, importCmd, verifyCmd, addressCmd, pubkeyCmd, passwdCmd)
	return rootCmd, vc
}

func checkOverwrite(exists func() (bool, error), force bool) error {
	if force {
		return nil
	}
	ok, err := exists()
	if err != nil {
		return err
	}
	if ok {
		return errors.InvalidStateError.New("wallet already exists, use --force to overwrite")
	}
	return nil
}

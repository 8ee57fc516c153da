package cli

import (
	"context"
	"encoding/hex"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/tronwallet/walletgo/client"
	"github.com/tronwallet/walletgo/common/errors"
	"github.com/tronwallet/walletgo/service/transaction"
)

type TransactionView struct {
	ID          string                   `json:"txid"`
	Transaction *transaction.Transaction `json:"transaction"`
}

type txFunc func(ctx context.Context, wc *client.WalletClient, args []string) (*transaction.Transaction, error)

// printTransaction prints tx even when the broadcast failed, so the id of
// a rejected transaction is still visible.
func printTransaction(cmd *cobra.Command, tx *transaction.Transaction, err error) error {
	if tx != nil {
		if perr := printJSON(cmd.OutOrStdout(), &TransactionView{
			ID:          tx.IDString(),
			Transaction: tx,
		}); perr != nil && err == nil {
			err = perr
		}
	}
	return err
}

func parseFrozenSupply(specs []string) ([]transaction.FrozenSupply, error) {
	var frozen []transaction.FrozenSupply
	for _, s := range specs {
		parts := strings.SplitN(s, ":", 2)
		if len(parts) != 2 {
			return nil, errors.IllegalArgumentError.Errorf("frozen supply %q is not AMOUNT:DAYS", s)
		}
		amount, err := parseInt64(parts[0], "frozen amount")
		if err != nil {
			return nil, err
		}
		days, err := parseInt64(parts[1], "frozen days")
		if err != nil {
			return nil, err
		}
		frozen = append(frozen, transaction.FrozenSupply{FrozenAmount: amount, FrozenDays: days})
	}
	return frozen, nil
}

func parseVotes(args []string) (map[string]int64, error) {
	if len(args) == 0 || len(args)%2 != 0 {
		return nil, errors.IllegalArgumentError.New("votes must be ADDRESS COUNT pairs")
	}
	votes := make(map[string]int64, len(args)/2)
	for i := 0; i < len(args); i += 2 {
		cnt, err := parseInt64(args[i+1], "vote count")
		if err != nil {
			return nil, err
		}
		votes[args[i]] = cnt
	}
	return votes, nil
}

func readRawTransaction(arg string) ([]byte, error) {
	text := arg
	if strings.HasPrefix(arg, "@") {
		bs, err := os.ReadFile(arg[1:])
		if err != nil {
			return nil, errors.IllegalArgumentError.Wrapf(err, "fail to open file=%s", arg[1:])
		}
		text = strings.TrimSpace(string(bs))
	}
	raw, err := hex.DecodeString(strings.TrimPrefix(text, "0x"))
	if err != nil {
		return nil, errors.IllegalArgumentError.Wrap(err, "transaction is not hex")
	}
	return raw, nil
}

func NewTxCmd(parentCmd *cobra.Command, parentVc *viper.Viper, ctx *Context) (*cobra.Command, *viper.Viper) {
	rootCmd, vc := NewCommand(parentCmd, parentVc, "tx", "Sign and broadcast transactions")
	pass := addPasswordFlags(rootCmd.PersistentFlags())

	signed := func(use, short string, args cobra.PositionalArgs, fn txFunc) *cobra.Command {
		return &cobra.Command{
			Use:   use,
			Short: short,
			Args:  ArgsWithUsage(args),
			RunE: func(cmd *cobra.Command, args []string) error {
				wc, err := ctx.NewWalletClient()
				if err != nil {
					return err
				}
				pw, err := pass.read(cmd, "Password: ")
				if err != nil {
					return err
				}
				if err := wc.Login(pw); err != nil {
					return err
				}
				defer wc.Logout()
				tx, err := fn(cmd.Context(), wc, args)
				return printTransaction(cmd, tx, err)
			},
		}
	}

	sendCmd := signed("send TO AMOUNT", "Send TRX in sun", cobra.ExactArgs(2),
		func(c context.Context, wc *client.WalletClient, args []string) (*transaction.Transaction, error) {
			to, err := parseAddress(ctx.Network(), args[0])
			if err != nil {
				return nil, err
			}
			amount, err := parseInt64(args[1], "amount")
			if err != nil {
				return nil, err
			}
			return wc.SendCoin(c, to, amount)
		})

	transferAssetCmd := signed("transferasset TO ASSET AMOUNT", "Send an issued asset", cobra.ExactArgs(3),
		func(c context.Context, wc *client.WalletClient, args []string) (*transaction.Transaction, error) {
			to, err := parseAddress(ctx.Network(), args[0])
			if err != nil {
				return nil, err
			}
			amount, err := parseInt64(args[2], "amount")
			if err != nil {
				return nil, err
			}
			return wc.TransferAsset(c, to, args[1], amount)
		})

	participateCmd := signed("participate ISSUER ASSET AMOUNT", "Buy an issued asset with TRX", cobra.ExactArgs(3),
		func(c context.Context, wc *client.WalletClient, args []string) (*transaction.Transaction, error) {
			to, err := parseAddress(ctx.Network(), args[0])
			if err != nil {
				return nil, err
			}
			amount, err := parseInt64(args[2], "amount")
			if err != nil {
				return nil, err
			}
			return wc.ParticipateAssetIssue(c, to, args[1], amount)
		})

	freezeCmd := signed("freeze AMOUNT DAYS", "Freeze TRX for bandwidth and votes", cobra.ExactArgs(2),
		func(c context.Context, wc *client.WalletClient, args []string) (*transaction.Transaction, error) {
			amount, err := parseInt64(args[0], "amount")
			if err != nil {
				return nil, err
			}
			days, err := parseInt64(args[1], "days")
			if err != nil {
				return nil, err
			}
			return wc.FreezeBalance(c, amount, days)
		})

	unfreezeCmd := signed("unfreeze", "Unfreeze expired frozen TRX", cobra.NoArgs,
		func(c context.Context, wc *client.WalletClient, args []string) (*transaction.Transaction, error) {
			return wc.UnfreezeBalance(c)
		})

	unfreezeAssetCmd := signed("unfreezeasset", "Unfreeze expired frozen supply of the issued asset", cobra.NoArgs,
		func(c context.Context, wc *client.WalletClient, args []string) (*transaction.Transaction, error) {
			return wc.UnfreezeAsset(c)
		})

	withdrawCmd := signed("withdraw", "Withdraw witness rewards", cobra.NoArgs,
		func(c context.Context, wc *client.WalletClient, args []string) (*transaction.Transaction, error) {
			return wc.WithdrawBalance(c)
		})

	voteCmd := signed("vote ADDRESS COUNT [ADDRESS COUNT]...", "Vote for witnesses", cobra.MinimumNArgs(2),
		func(c context.Context, wc *client.WalletClient, args []string) (*transaction.Transaction, error) {
			votes, err := parseVotes(args)
			if err != nil {
				return nil, err
			}
			return wc.VoteWitness(c, votes)
		})

	witnessCmd := signed("witness URL", "Apply to be a witness", cobra.ExactArgs(1),
		func(c context.Context, wc *client.WalletClient, args []string) (*transaction.Transaction, error) {
			return wc.CreateWitness(c, args[0])
		})

	updateAccountCmd := signed("updateaccount NAME", "Set the account name", cobra.ExactArgs(1),
		func(c context.Context, wc *client.WalletClient, args []string) (*transaction.Transaction, error) {
			return wc.UpdateAccount(c, args[0])
		})

	issue := &transaction.AssetIssueContract{}
	var frozenSpecs []string
	var issueName, issueDesc, issueURL string
	issueCmd := signed("issue", "Issue an asset", cobra.NoArgs,
		func(c context.Context, wc *client.WalletClient, args []string) (*transaction.Transaction, error) {
			frozen, err := parseFrozenSupply(frozenSpecs)
			if err != nil {
				return nil, err
			}
			issue.Name = []byte(issueName)
			issue.Description = []byte(issueDesc)
			issue.URL = []byte(issueURL)
			issue.FrozenSupply = frozen
			return wc.CreateAssetIssue(c, issue)
		})
	issueFlags := issueCmd.Flags()
	issueFlags.StringVar(&issueName, "name", "", "Asset name")
	issueFlags.Int64Var(&issue.TotalSupply, "total_supply", 0, "Total supply")
	issueFlags.Int32Var(&issue.TrxNum, "trx_num", 1, "TRX side of the exchange rate, in sun")
	issueFlags.Int32Var(&issue.Num, "num", 1, "Asset side of the exchange rate")
	issueFlags.Int64Var(&issue.StartTime, "start", 0, "Start of the sale in ms")
	issueFlags.Int64Var(&issue.EndTime, "end", 0, "End of the sale in ms")
	issueFlags.Int32Var(&issue.VoteScore, "vote_score", 0, "Vote score")
	issueFlags.StringVar(&issueDesc, "description", "", "Description")
	issueFlags.StringVar(&issueURL, "url", "", "URL of the issuer")
	issueFlags.StringSliceVar(&frozenSpecs, "frozen", nil, "Frozen supply as AMOUNT:DAYS, repeatable")
	issueCmd.MarkFlagRequired("name")
	issueCmd.MarkFlagRequired("total_supply")

	broadcastCmd := &cobra.Command{
		Use:   "broadcast HEX|@FILE",
		Short: "Broadcast a signed transaction",
		Args:  ArgsWithUsage(cobra.ExactArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			raw, err := readRawTransaction(args[0])
			if err != nil {
				return err
			}
			wc, err := ctx.NewWalletClient()
			if err != nil {
				return err
			}
			tx, err := wc.Broadcast(cmd.Context(), raw)
			return printTransaction(cmd, tx, err)
		},
	}

	rootCmd.AddCommand(sendCmd, transferAssetCmd, participateCmd,
		freezeCmd, unfreezeCmd, unfreezeAssetCmd, withdrawCmd,
		voteCmd, witnessCmd, updateAccountCmd, issueCmd, broadcastCmd)
	return rootCmd, vc
}

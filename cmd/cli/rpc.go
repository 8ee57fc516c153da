package cli

import (
	"encoding/hex"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/gosuri/uitable"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/tronwallet/walletgo/common"
	"github.com/tronwallet/walletgo/common/errors"
	"github.com/tronwallet/walletgo/server/jsonrpc"
	"github.com/tronwallet/walletgo/service/transaction"
)

const (
	TableMaxColWidth = 64
)

func parseAddress(net *common.Network, text string) (*common.Address, error) {
	return jsonrpc.Address(text).Address(net)
}

func parseInt64(s, name string) (int64, error) {
	v, err := strconv.ParseInt(s, 0, 64)
	if err != nil {
		return 0, errors.IllegalArgumentError.Wrapf(err, "invalid %s %q", name, s)
	}
	return v, nil
}

func parseHash(s string) ([]byte, error) {
	bs, err := hex.DecodeString(strings.TrimPrefix(s, "0x"))
	if err != nil || len(bs) != 32 {
		return nil, errors.IllegalArgumentError.Errorf("invalid hash %q", s)
	}
	return bs, nil
}

func formatMillis(ms int64) string {
	if ms == 0 {
		return "-"
	}
	return time.UnixMilli(ms).UTC().Format(time.RFC3339)
}

func AccountsToTable(accounts []jsonrpc.Account) *uitable.Table {
	table := uitable.New()
	table.MaxColWidth = TableMaxColWidth
	table.AddRow("Address", "Name", "Balance", "Witness")
	for _, a := range accounts {
		table.AddRow(a.Address, a.AccountName, a.Balance, a.IsWitness)
	}
	return table
}

func WitnessesToTable(witnesses []jsonrpc.Witness) *uitable.Table {
	table := uitable.New()
	table.MaxColWidth = TableMaxColWidth
	table.AddRow("Address", "URL", "Votes", "Produced", "Missed", "LatestBlock")
	for _, w := range witnesses {
		table.AddRow(w.Address, w.URL, w.VoteCount, w.TotalProduced, w.TotalMissed, w.LatestBlockNum)
	}
	return table
}

func NodesToTable(nodes []jsonrpc.Node) *uitable.Table {
	table := uitable.New()
	table.AddRow("Host", "Port")
	for _, n := range nodes {
		table.AddRow(n.Host, n.Port)
	}
	return table
}

func AssetsToTable(assets []jsonrpc.AssetIssue) *uitable.Table {
	table := uitable.New()
	table.MaxColWidth = TableMaxColWidth
	table.AddRow("Name", "Owner", "TotalSupply", "Rate", "Start", "End")
	for _, a := range assets {
		table.AddRow(a.Name, a.OwnerAddress, a.TotalSupply,
			fmt.Sprintf("%d:%d", a.TrxNum, a.Num),
			formatMillis(a.StartTime), formatMillis(a.EndTime))
	}
	return table
}

func BlocksToTable(blocks []jsonrpc.Block) *uitable.Table {
	table := uitable.New()
	table.MaxColWidth = TableMaxColWidth
	table.AddRow("Number", "ID", "Time", "Witness", "Txs")
	for _, b := range blocks {
		table.AddRow(b.Header.Number, b.ID.String(), formatMillis(b.Header.Timestamp),
			b.Header.WitnessAddress, len(b.Transactions))
	}
	return table
}

func TransactionsToTable(txs []*transaction.Transaction) *uitable.Table {
	table := uitable.New()
	table.MaxColWidth = TableMaxColWidth
	table.AddRow("ID", "Time", "Contracts")
	for _, tx := range txs {
		types := make([]string, 0, len(tx.RawData.Contracts))
		for _, c := range tx.RawData.Contracts {
			types = append(types, c.Type.String())
		}
		table.AddRow(tx.IDString(), formatMillis(tx.RawData.Timestamp), strings.Join(types, ","))
	}
	return table
}

// printList writes v as JSON when asJson is set, otherwise as the table.
func printList(w io.Writer, asJson bool, v interface{}, table func() *uitable.Table) error {
	if asJson {
		return printJSON(w, v)
	}
	_, err := fmt.Fprintln(w, table())
	return err
}

func NewRpcCmd(parentCmd *cobra.Command, parentVc *viper.Viper, ctx *Context) (*cobra.Command, *viper.Viper) {
	rootCmd, vc := NewCommand(parentCmd, parentVc, "rpc", "Query the ledger")
	rootPFlags := rootCmd.PersistentFlags()
	asJson := rootPFlags.Bool("json", false, "Print lists as JSON")
	BindPFlags(vc, rootPFlags)

	accountCmd := &cobra.Command{
		Use:   "account [ADDRESS]",
		Short: "Account of ADDRESS, or of the stored wallet",
		Args:  ArgsWithUsage(cobra.MaximumNArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			var account *jsonrpc.Account
			if len(args) == 0 {
				wc, err := ctx.NewWalletClient()
				if err != nil {
					return err
				}
				if account, err = wc.QueryAccount(cmd.Context()); err != nil {
					return err
				}
			} else {
				addr, err := parseAddress(ctx.Network(), args[0])
				if err != nil {
					return err
				}
				ledger, err := ctx.NewLedgerClient()
				if err != nil {
					return err
				}
				if account, err = ledger.GetAccount(cmd.Context(), addr); err != nil {
					return err
				}
			}
			return printJSON(cmd.OutOrStdout(), account)
		},
	}

	blockCmd := &cobra.Command{
		Use:   "block [NUM]",
		Short: "Block of height NUM, or the latest block",
		Args:  ArgsWithUsage(cobra.MaximumNArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			num := int64(-1)
			if len(args) > 0 {
				var err error
				if num, err = parseInt64(args[0], "block number"); err != nil {
					return err
				}
			}
			ledger, err := ctx.NewLedgerClient()
			if err != nil {
				return err
			}
			blk, err := ledger.GetBlockByNum(cmd.Context(), num)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), blk)
		},
	}

	blockByIDCmd := &cobra.Command{
		Use:   "blockbyid ID",
		Short: "Block of the given id",
		Args:  ArgsWithUsage(cobra.ExactArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseHash(args[0])
			if err != nil {
				return err
			}
			ledger, err := ctx.NewLedgerClient()
			if err != nil {
				return err
			}
			blk, err := ledger.GetBlockByID(cmd.Context(), id)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), blk)
		},
	}

	blocksCmd := &cobra.Command{
		Use:   "blocks START END",
		Short: "Blocks of heights in [START, END)",
		Args:  ArgsWithUsage(cobra.ExactArgs(2)),
		RunE: func(cmd *cobra.Command, args []string) error {
			start, err := parseInt64(args[0], "start")
			if err != nil {
				return err
			}
			end, err := parseInt64(args[1], "end")
			if err != nil {
				return err
			}
			ledger, err := ctx.NewLedgerClient()
			if err != nil {
				return err
			}
			blocks, err := ledger.GetBlockByLimitNext(cmd.Context(), start, end)
			if err != nil {
				return err
			}
			return printList(cmd.OutOrStdout(), *asJson, blocks, func() *uitable.Table {
				return BlocksToTable(blocks)
			})
		},
	}

	latestCmd := &cobra.Command{
		Use:   "latestblocks N",
		Short: "Latest N blocks",
		Args:  ArgsWithUsage(cobra.ExactArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			n, err := parseInt64(args[0], "count")
			if err != nil {
				return err
			}
			ledger, err := ctx.NewLedgerClient()
			if err != nil {
				return err
			}
			blocks, err := ledger.GetBlockByLatestNum(cmd.Context(), n)
			if err != nil {
				return err
			}
			return printList(cmd.OutOrStdout(), *asJson, blocks, func() *uitable.Table {
				return BlocksToTable(blocks)
			})
		},
	}

	witnessesCmd := &cobra.Command{
		Use:   "witnesses",
		Short: "Witnesses, most voted first",
		Args:  ArgsWithUsage(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			wc, err := ctx.NewWalletClient()
			if err != nil {
				return err
			}
			witnesses, err := wc.ListWitnesses(cmd.Context())
			if err != nil {
				return err
			}
			return printList(cmd.OutOrStdout(), *asJson, witnesses, func() *uitable.Table {
				return WitnessesToTable(witnesses)
			})
		},
	}

	accountsCmd := &cobra.Command{
		Use:   "accounts",
		Short: "Accounts, richest first",
		Args:  ArgsWithUsage(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			wc, err := ctx.NewWalletClient()
			if err != nil {
				return err
			}
			accounts, err := wc.ListAccounts(cmd.Context())
			if err != nil {
				return err
			}
			return printList(cmd.OutOrStdout(), *asJson, accounts, func() *uitable.Table {
				return AccountsToTable(accounts)
			})
		},
	}

	nodesCmd := &cobra.Command{
		Use:   "nodes",
		Short: "Nodes known to the full node",
		Args:  ArgsWithUsage(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			ledger, err := ctx.NewLedgerClient()
			if err != nil {
				return err
			}
			nodes, err := ledger.ListNodes(cmd.Context())
			if err != nil {
				return err
			}
			return printList(cmd.OutOrStdout(), *asJson, nodes, func() *uitable.Table {
				return NodesToTable(nodes)
			})
		},
	}

	bestNodeCmd := &cobra.Command{
		Use:   "bestnode",
		Short: "Full node of the witness with the fewest missed blocks",
		Args:  ArgsWithUsage(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			wc, err := ctx.NewWalletClient()
			if err != nil {
				return err
			}
			node, err := wc.SelectBestNode(cmd.Context(), ctx.Config.WitnessNodes)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), node)
			return nil
		},
	}

	assetsCmd := &cobra.Command{
		Use:   "assets",
		Short: "Issued assets",
		Args:  ArgsWithUsage(cobra.NoArgs),
	}
	assetsOwner := assetsCmd.Flags().String("owner", "", "Only assets issued by the address")
	assetsSince := assetsCmd.Flags().Int64("since", 0, "Only assets issued after the timestamp in ms, from the solidity node")
	assetsCmd.RunE = func(cmd *cobra.Command, args []string) error {
		ledger, err := ctx.NewLedgerClient()
		if err != nil {
			return err
		}
		var assets []jsonrpc.AssetIssue
		switch {
		case *assetsOwner != "":
			addr, err := parseAddress(ctx.Network(), *assetsOwner)
			if err != nil {
				return err
			}
			assets, err = ledger.GetAssetIssueByAccount(cmd.Context(), addr)
			if err != nil {
				return err
			}
		case *assetsSince > 0:
			if assets, err = ledger.GetAssetIssueListByTimestamp(cmd.Context(), *assetsSince); err != nil {
				return err
			}
		default:
			if assets, err = ledger.GetAssetIssueList(cmd.Context()); err != nil {
				return err
			}
		}
		return printList(cmd.OutOrStdout(), *asJson, assets, func() *uitable.Table {
			return AssetsToTable(assets)
		})
	}

	assetCmd := &cobra.Command{
		Use:   "asset NAME",
		Short: "Issued asset of the given name",
		Args:  ArgsWithUsage(cobra.ExactArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			ledger, err := ctx.NewLedgerClient()
			if err != nil {
				return err
			}
			asset, err := ledger.GetAssetIssueByName(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), asset)
		},
	}

	txCmd := &cobra.Command{
		Use:   "tx ID",
		Short: "Transaction of the given id",
		Args:  ArgsWithUsage(cobra.ExactArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseHash(args[0])
			if err != nil {
				return err
			}
			ledger, err := ctx.NewLedgerClient()
			if err != nil {
				return err
			}
			tx, err := ledger.GetTransactionByID(cmd.Context(), id)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), tx)
		},
	}

	txsCmd := &cobra.Command{
		Use:   "txs",
		Short: "Transactions from or to an address, or in a time range, from the solidity node",
		Args:  ArgsWithUsage(cobra.NoArgs),
	}
	txsFlags := txsCmd.Flags()
	txsFrom := txsFlags.String("from", "", "Sender address")
	txsTo := txsFlags.String("to", "", "Recipient address")
	txsStart := txsFlags.Int64("start", 0, "Start of the time range in ms")
	txsEnd := txsFlags.Int64("end", 0, "End of the time range in ms")
	txsCmd.RunE = func(cmd *cobra.Command, args []string) error {
		ledger, err := ctx.NewLedgerClient()
		if err != nil {
			return err
		}
		var txs []*transaction.Transaction
		switch {
		case *txsFrom != "":
			addr, err := parseAddress(ctx.Network(), *txsFrom)
			if err != nil {
				return err
			}
			txs, err = ledger.GetTransactionsFromThis(cmd.Context(), addr)
			if err != nil {
				return err
			}
		case *txsTo != "":
			addr, err := parseAddress(ctx.Network(), *txsTo)
			if err != nil {
				return err
			}
			txs, err = ledger.GetTransactionsToThis(cmd.Context(), addr)
			if err != nil {
				return err
			}
		case *txsEnd > 0:
			if txs, err = ledger.GetTransactionsByTimestamp(cmd.Context(), *txsStart, *txsEnd); err != nil {
				return err
			}
		default:
			return usageError(cmd,
				errors.IllegalArgumentError.New("one of --from, --to or --end is required"))
		}
		return printList(cmd.OutOrStdout(), *asJson, txs, func() *uitable.Table {
			return TransactionsToTable(txs)
		})
	}

	totalTxCmd := &cobra.Command{
		Use:   "totaltx",
		Short: "Number of transactions on the ledger",
		Args:  ArgsWithUsage(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			ledger, err := ctx.NewLedgerClient()
			if err != nil {
				return err
			}
			n, err := ledger.TotalTransaction(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), n)
			return nil
		},
	}

	rootCmd.AddCommand(accountCmd, blockCmd, blockByIDCmd, blocksCmd, latestCmd,
		witnessesCmd, accountsCmd, nodesCmd, bestNodeCmd,
		assetsCmd, assetCmd, txCmd, txsCmd, totalTxCmd)
	return rootCmd, vc
}

package client

import (
	"context"
	"encoding/hex"
	"net/http"
	"time"

	"github.com/tronwallet/walletgo/common"
	"github.com/tronwallet/walletgo/common/errors"
	"github.com/tronwallet/walletgo/common/log"
	"github.com/tronwallet/walletgo/rpc/metric"
	"github.com/tronwallet/walletgo/server/jsonrpc"
	"github.com/tronwallet/walletgo/service/transaction"
)

// LedgerClient talks to the ledger over JSON-RPC. Builders and broadcast
// go to the current full node of the selector. Read queries go to the
// solidity node when one is configured.
type LedgerClient struct {
	hc       *http.Client
	sel      *NodeSelector
	solidity *JsonRpcClient
	net      *common.Network
	log      log.Logger
}

func NewLedgerClient(hc *http.Client, sel *NodeSelector, solidityNode string, net *common.Network) *LedgerClient {
	if hc == nil {
		hc = &http.Client{Timeout: DefaultTimeout}
	}
	c := &LedgerClient{
		hc:  hc,
		sel: sel,
		net: net.Or(),
		log: log.WithFields(log.Fields{
			log.FieldKeyModule:  "ledger",
			log.FieldKeyNetwork: net.Or().Name,
		}),
	}
	if solidityNode != "" {
		c.solidity = NewJsonRpcClient(hc, solidityNode)
	}
	return c
}

func (c *LedgerClient) Network() *common.Network {
	return c.net
}

func (c *LedgerClient) Selector() *NodeSelector {
	return c.sel
}

func (c *LedgerClient) full() *JsonRpcClient {
	return NewJsonRpcClient(c.hc, c.sel.Current())
}

func (c *LedgerClient) reader() *JsonRpcClient {
	if c.solidity != nil {
		return c.solidity
	}
	return c.full()
}

func (c *LedgerClient) solidityOnly(method string) (*JsonRpcClient, error) {
	if c.solidity == nil {
		return nil, errors.UnsupportedError.Errorf("%s requires a solidity node", method)
	}
	return c.solidity, nil
}

func (c *LedgerClient) call(ctx context.Context, jc *JsonRpcClient, method string, param, result interface{}) error {
	start := time.Now()
	_, err := jc.Do(ctx, method, param, result)
	metric.RecordRequest(c.net.Name, method, time.Since(start), err)
	if err != nil {
		c.log.Debugf("%s to %s failed: %v", method, jc.Endpoint, err)
	}
	return err
}

func (c *LedgerClient) GetAccount(ctx context.Context, addr *common.Address) (*jsonrpc.Account, error) {
	account := new(jsonrpc.Account)
	param := &jsonrpc.AddressParam{Address: jsonrpc.AddressOf(addr)}
	if err := c.call(ctx, c.reader(), jsonrpc.MethodGetAccount, param, account); err != nil {
		return nil, err
	}
	return account, nil
}

func (c *LedgerClient) ListAccounts(ctx context.Context) ([]jsonrpc.Account, error) {
	var accounts []jsonrpc.Account
	if err := c.call(ctx, c.reader(), jsonrpc.MethodListAccounts, nil, &accounts); err != nil {
		return nil, err
	}
	return accounts, nil
}

func (c *LedgerClient) ListWitnesses(ctx context.Context) ([]jsonrpc.Witness, error) {
	var witnesses []jsonrpc.Witness
	if err := c.call(ctx, c.reader(), jsonrpc.MethodListWitnesses, nil, &witnesses); err != nil {
		return nil, err
	}
	return witnesses, nil
}

func (c *LedgerClient) ListNodes(ctx context.Context) ([]jsonrpc.Node, error) {
	var nodes []jsonrpc.Node
	if err := c.call(ctx, c.full(), jsonrpc.MethodListNodes, nil, &nodes); err != nil {
		return nil, err
	}
	return nodes, nil
}

func (c *LedgerClient) GetNowBlock(ctx context.Context) (*jsonrpc.Block, error) {
	block := new(jsonrpc.Block)
	if err := c.call(ctx, c.reader(), jsonrpc.MethodGetNowBlock, nil, block); err != nil {
		return nil, err
	}
	return block, nil
}

// GetBlockByNum returns the block at num, or the latest one when num is
// negative.
func (c *LedgerClient) GetBlockByNum(ctx context.Context, num int64) (*jsonrpc.Block, error) {
	if num < 0 {
		return c.GetNowBlock(ctx)
	}
	block := new(jsonrpc.Block)
	param := &jsonrpc.BlockNumParam{Num: num}
	if err := c.call(ctx, c.reader(), jsonrpc.MethodGetBlockByNum, param, block); err != nil {
		return nil, err
	}
	return block, nil
}

func (c *LedgerClient) GetBlockByID(ctx context.Context, id []byte) (*jsonrpc.Block, error) {
	block := new(jsonrpc.Block)
	param := &jsonrpc.IDParam{ID: hex.EncodeToString(id)}
	if err := c.call(ctx, c.full(), jsonrpc.MethodGetBlockByID, param, block); err != nil {
		return nil, err
	}
	return block, nil
}

// GetBlockByLimitNext returns blocks in [start, end).
func (c *LedgerClient) GetBlockByLimitNext(ctx context.Context, start, end int64) ([]jsonrpc.Block, error) {
	var blocks []jsonrpc.Block
	param := &jsonrpc.BlockRangeParam{Start: start, End: end}
	if err := c.call(ctx, c.full(), jsonrpc.MethodGetBlockByLimit, param, &blocks); err != nil {
		return nil, err
	}
	return blocks, nil
}

func (c *LedgerClient) GetBlockByLatestNum(ctx context.Context, n int64) ([]jsonrpc.Block, error) {
	var blocks []jsonrpc.Block
	param := &jsonrpc.LimitParam{Limit: n}
	if err := c.call(ctx, c.full(), jsonrpc.MethodGetBlockByLatest, param, &blocks); err != nil {
		return nil, err
	}
	return blocks, nil
}

func (c *LedgerClient) GetAssetIssueList(ctx context.Context) ([]jsonrpc.AssetIssue, error) {
	var assets []jsonrpc.AssetIssue
	if err := c.call(ctx, c.reader(), jsonrpc.MethodGetAssetIssueList, nil, &assets); err != nil {
		return nil, err
	}
	return assets, nil
}

func (c *LedgerClient) GetAssetIssueByAccount(ctx context.Context, addr *common.Address) ([]jsonrpc.AssetIssue, error) {
	var assets []jsonrpc.AssetIssue
	param := &jsonrpc.AddressParam{Address: jsonrpc.AddressOf(addr)}
	if err := c.call(ctx, c.full(), jsonrpc.MethodGetAssetIssueByAccount, param, &assets); err != nil {
		return nil, err
	}
	return assets, nil
}

func (c *LedgerClient) GetAssetIssueByName(ctx context.Context, name string) (*jsonrpc.AssetIssue, error) {
	asset := new(jsonrpc.AssetIssue)
	param := &jsonrpc.NameParam{Name: name}
	if err := c.call(ctx, c.reader(), jsonrpc.MethodGetAssetIssueByName, param, asset); err != nil {
		return nil, err
	}
	return asset, nil
}

func (c *LedgerClient) GetAssetIssueListByTimestamp(ctx context.Context, ts int64) ([]jsonrpc.AssetIssue, error) {
	jc, err := c.solidityOnly(jsonrpc.MethodGetAssetIssueListByTimestamp)
	if err != nil {
		return nil, err
	}
	var assets []jsonrpc.AssetIssue
	param := &jsonrpc.TimestampParam{Timestamp: ts}
	if err := c.call(ctx, jc, jsonrpc.MethodGetAssetIssueListByTimestamp, param, &assets); err != nil {
		return nil, err
	}
	return assets, nil
}

func (c *LedgerClient) GetTransactionByID(ctx context.Context, id []byte) (*transaction.Transaction, error) {
	msg := new(jsonrpc.TransactionMessage)
	param := &jsonrpc.IDParam{ID: hex.EncodeToString(id)}
	if err := c.call(ctx, c.reader(), jsonrpc.MethodGetTransactionByID, param, msg); err != nil {
		return nil, err
	}
	return parseMessage(msg)
}

func (c *LedgerClient) transactionList(ctx context.Context, method string, param interface{}) ([]*transaction.Transaction, error) {
	jc, err := c.solidityOnly(method)
	if err != nil {
		return nil, err
	}
	var msgs []jsonrpc.TransactionMessage
	if err := c.call(ctx, jc, method, param, &msgs); err != nil {
		return nil, err
	}
	txs := make([]*transaction.Transaction, 0, len(msgs))
	for i := range msgs {
		tx, err := parseMessage(&msgs[i])
		if err != nil {
			return nil, err
		}
		txs = append(txs, tx)
	}
	return txs, nil
}

func (c *LedgerClient) GetTransactionsFromThis(ctx context.Context, addr *common.Address) ([]*transaction.Transaction, error) {
	return c.transactionList(ctx, jsonrpc.MethodGetTransactionsFromThis,
		&jsonrpc.AddressParam{Address: jsonrpc.AddressOf(addr)})
}

func (c *LedgerClient) GetTransactionsToThis(ctx context.Context, addr *common.Address) ([]*transaction.Transaction, error) {
	return c.transactionList(ctx, jsonrpc.MethodGetTransactionsToThis,
		&jsonrpc.AddressParam{Address: jsonrpc.AddressOf(addr)})
}

func (c *LedgerClient) GetTransactionsByTimestamp(ctx context.Context, start, end int64) ([]*transaction.Transaction, error) {
	return c.transactionList(ctx, jsonrpc.MethodGetTransactionsByTimestamp,
		&jsonrpc.TimeRangeParam{Start: start, End: end})
}

func (c *LedgerClient) TotalTransaction(ctx context.Context) (int64, error) {
	var num jsonrpc.NumberMessage
	if err := c.call(ctx, c.reader(), jsonrpc.MethodTotalTransaction, nil, &num); err != nil {
		return 0, err
	}
	return num.Num, nil
}

var buildMethods = map[transaction.ContractType]string{
	transaction.TransferContractType:              jsonrpc.MethodCreateTransaction,
	transaction.TransferAssetContractType:         jsonrpc.MethodTransferAsset,
	transaction.ParticipateAssetIssueContractType: jsonrpc.MethodParticipateAssetIssue,
	transaction.FreezeBalanceContractType:         jsonrpc.MethodFreezeBalance,
	transaction.UnfreezeBalanceContractType:       jsonrpc.MethodUnfreezeBalance,
	transaction.UnfreezeAssetContractType:         jsonrpc.MethodUnfreezeAsset,
	transaction.WithdrawBalanceContractType:       jsonrpc.MethodWithdrawBalance,
	transaction.VoteWitnessContractType:           jsonrpc.MethodVoteWitnessAccount,
	transaction.AssetIssueContractType:            jsonrpc.MethodCreateAssetIssue,
	transaction.WitnessCreateContractType:         jsonrpc.MethodCreateWitness,
	transaction.AccountUpdateContractType:         jsonrpc.MethodUpdateAccount,
}

// BuildMethodOf returns the ledger method building a contract of type ct.
func BuildMethodOf(ct transaction.ContractType) (string, bool) {
	m, ok := buildMethods[ct]
	return m, ok
}

// Build asks the full node for an unsigned transaction carrying p. The
// result may hold no contract when the ledger rejects p, callers must
// check before signing.
func (c *LedgerClient) Build(ctx context.Context, p transaction.Parameter) (*transaction.Transaction, error) {
	method, ok := buildMethods[p.ContractType()]
	if !ok {
		return nil, errors.UnsupportedError.Errorf("no builder for %s", p.ContractType())
	}
	msg := new(jsonrpc.TransactionMessage)
	if err := c.call(ctx, c.full(), method, p, msg); err != nil {
		return nil, err
	}
	return parseMessage(msg)
}

// BroadcastTransaction sends a signed transaction to the full node.
func (c *LedgerClient) BroadcastTransaction(ctx context.Context, tx *transaction.Transaction) (*jsonrpc.Return, error) {
	bs, err := tx.Bytes()
	if err != nil {
		return nil, err
	}
	ret := new(jsonrpc.Return)
	msg := jsonrpc.NewTransactionMessage(bs)
	if err := c.call(ctx, c.full(), jsonrpc.MethodBroadcastTransaction, msg, ret); err != nil {
		return nil, err
	}
	return ret, nil
}

func parseMessage(msg *jsonrpc.TransactionMessage) (*transaction.Transaction, error) {
	bs, err := msg.Bytes()
	if err != nil {
		return nil, errors.RPCMalformedResponseError.Wrap(err, "transaction is not hex")
	}
	return transaction.Parse(bs)
}

package test

import (
	"net/http/httptest"
	"sync"

	"github.com/labstack/echo/v4"

	"github.com/tronwallet/walletgo/common"
	"github.com/tronwallet/walletgo/common/crypto"
	"github.com/tronwallet/walletgo/rpc/metric"
	"github.com/tronwallet/walletgo/server/jsonrpc"
	"github.com/tronwallet/walletgo/service/transaction"
)

// Ledger is an in-process ledger answering the wallet JSON-RPC methods.
// It keeps whatever state the test puts in it and applies no ledger rules
// beyond checking the signature of broadcast transactions.
type Ledger struct {
	Net    *common.Network
	Echo   *echo.Echo
	Server *httptest.Server

	mtx        sync.Mutex
	accounts   map[string]*jsonrpc.Account
	witnesses  []jsonrpc.Witness
	nodes      []jsonrpc.Node
	blocks     []jsonrpc.Block
	assets     []jsonrpc.AssetIssue
	txs        []*transaction.Transaction
	calls      map[string]int
	buildEmpty bool
	result     *jsonrpc.Return
}

// NewLedger starts a ledger serving JSON-RPC on "/" and metrics on
// "/metrics". Close it with Close.
func NewLedger(net *common.Network) *Ledger {
	l := &Ledger{
		Net:      net.Or(),
		accounts: make(map[string]*jsonrpc.Account),
		calls:    make(map[string]int),
	}
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = jsonrpc.NewValidator()

	mr := jsonrpc.NewMethodRepository()
	mr.Debug = true
	l.register(mr)
	e.POST("/", mr.Handle)
	if pe, err := metric.PrometheusExporter(); err == nil {
		e.GET("/metrics", echo.WrapHandler(pe))
	}

	l.Echo = e
	l.Server = httptest.NewServer(e)
	return l
}

func (l *Ledger) URL() string {
	return l.Server.URL
}

func (l *Ledger) Close() {
	l.Server.Close()
}

func (l *Ledger) SetAccount(a jsonrpc.Account) {
	l.mtx.Lock()
	defer l.mtx.Unlock()
	l.accounts[string(a.Address)] = &a
}

func (l *Ledger) SetWitnesses(ws ...jsonrpc.Witness) {
	l.mtx.Lock()
	defer l.mtx.Unlock()
	l.witnesses = ws
}

func (l *Ledger) SetNodes(ns ...jsonrpc.Node) {
	l.mtx.Lock()
	defer l.mtx.Unlock()
	l.nodes = ns
}

func (l *Ledger) AddBlocks(bs ...jsonrpc.Block) {
	l.mtx.Lock()
	defer l.mtx.Unlock()
	l.blocks = append(l.blocks, bs...)
}

func (l *Ledger) AddAssets(as ...jsonrpc.AssetIssue) {
	l.mtx.Lock()
	defer l.mtx.Unlock()
	l.assets = append(l.assets, as...)
}

// BuildEmpty makes builders return transactions without contract, the
// way a ledger answers a request it refuses.
func (l *Ledger) BuildEmpty(yn bool) {
	l.mtx.Lock()
	defer l.mtx.Unlock()
	l.buildEmpty = yn
}

// SetBroadcastResult makes following broadcasts answer r when r is a
// rejection. nil restores accepting every correctly signed transaction.
func (l *Ledger) SetBroadcastResult(r *jsonrpc.Return) {
	l.mtx.Lock()
	defer l.mtx.Unlock()
	l.result = r
}

// Transactions returns the accepted transactions in broadcast order.
func (l *Ledger) Transactions() []*transaction.Transaction {
	l.mtx.Lock()
	defer l.mtx.Unlock()
	return append([]*transaction.Transaction(nil), l.txs...)
}

// Calls returns how many times method was called.
func (l *Ledger) Calls(method string) int {
	l.mtx.Lock()
	defer l.mtx.Unlock()
	return l.calls[method]
}

func (l *Ledger) count(method string) {
	l.mtx.Lock()
	defer l.mtx.Unlock()
	l.calls[method]++
}

func (l *Ledger) handle(method string, h jsonrpc.Handler) (string, jsonrpc.Handler) {
	return method, func(ctx *jsonrpc.Context, params *jsonrpc.Params) (interface{}, error) {
		l.count(method)
		return h(ctx, params)
	}
}

func (l *Ledger) register(mr *jsonrpc.MethodRepository) {
	mr.RegisterMethod(l.handle(jsonrpc.MethodGetAccount, l.getAccount))
	mr.RegisterMethod(l.handle(jsonrpc.MethodListAccounts, l.listAccounts))
	mr.RegisterMethod(l.handle(jsonrpc.MethodListWitnesses, l.listWitnesses))
	mr.RegisterMethod(l.handle(jsonrpc.MethodListNodes, l.listNodes))
	mr.RegisterMethod(l.handle(jsonrpc.MethodGetNowBlock, l.getNowBlock))
	mr.RegisterMethod(l.handle(jsonrpc.MethodGetBlockByNum, l.getBlockByNum))
	mr.RegisterMethod(l.handle(jsonrpc.MethodGetBlockByID, l.getBlockByID))
	mr.RegisterMethod(l.handle(jsonrpc.MethodGetBlockByLimit, l.getBlockByLimitNext))
	mr.RegisterMethod(l.handle(jsonrpc.MethodGetBlockByLatest, l.getBlockByLatestNum))
	mr.RegisterMethod(l.handle(jsonrpc.MethodGetAssetIssueList, l.getAssetIssueList))
	mr.RegisterMethod(l.handle(jsonrpc.MethodGetAssetIssueByAccount, l.getAssetIssueByAccount))
	mr.RegisterMethod(l.handle(jsonrpc.MethodGetAssetIssueByName, l.getAssetIssueByName))
	mr.RegisterMethod(l.handle(jsonrpc.MethodGetAssetIssueListByTimestamp, l.getAssetIssueListByTimestamp))
	mr.RegisterMethod(l.handle(jsonrpc.MethodGetTransactionByID, l.getTransactionByID))
	mr.RegisterMethod(l.handle(jsonrpc.MethodGetTransactionsFromThis, l.getTransactionsFromThis))
	mr.RegisterMethod(l.handle(jsonrpc.MethodGetTransactionsToThis, l.getTransactionsToThis))
	mr.RegisterMethod(l.handle(jsonrpc.MethodGetTransactionsByTimestamp, l.getTransactionsByTimestamp))
	mr.RegisterMethod(l.handle(jsonrpc.MethodTotalTransaction, l.totalTransaction))

	mr.RegisterMethod(l.handle(jsonrpc.MethodCreateTransaction, l.builder(func() transaction.Parameter {
		return new(transaction.TransferContract)
	})))
	mr.RegisterMethod(l.handle(jsonrpc.MethodTransferAsset, l.builder(func() transaction.Parameter {
		return new(transaction.TransferAssetContract)
	})))
	mr.RegisterMethod(l.handle(jsonrpc.MethodParticipateAssetIssue, l.builder(func() transaction.Parameter {
		return new(transaction.ParticipateAssetIssueContract)
	})))
	mr.RegisterMethod(l.handle(jsonrpc.MethodFreezeBalance, l.builder(func() transaction.Parameter {
		return new(transaction.FreezeBalanceContract)
	})))
	mr.RegisterMethod(l.handle(jsonrpc.MethodUnfreezeBalance, l.builder(func() transaction.Parameter {
		return new(transaction.UnfreezeBalanceContract)
	})))
	mr.RegisterMethod(l.handle(jsonrpc.MethodUnfreezeAsset, l.builder(func() transaction.Parameter {
		return new(transaction.UnfreezeAssetContract)
	})))
	mr.RegisterMethod(l.handle(jsonrpc.MethodWithdrawBalance, l.builder(func() transaction.Parameter {
		return new(transaction.WithdrawBalanceContract)
	})))
	mr.RegisterMethod(l.handle(jsonrpc.MethodVoteWitnessAccount, l.builder(func() transaction.Parameter {
		return new(transaction.VoteWitnessContract)
	})))
	mr.RegisterMethod(l.handle(jsonrpc.MethodCreateAssetIssue, l.builder(func() transaction.Parameter {
		return new(transaction.AssetIssueContract)
	})))
	mr.RegisterMethod(l.handle(jsonrpc.MethodCreateWitness, l.builder(func() transaction.Parameter {
		return new(transaction.WitnessCreateContract)
	})))
	mr.RegisterMethod(l.handle(jsonrpc.MethodUpdateAccount, l.builder(func() transaction.Parameter {
		return new(transaction.AccountUpdateContract)
	})))
	mr.RegisterMethod(l.handle(jsonrpc.MethodBroadcastTransaction, l.broadcastTransaction))
}

func (l *Ledger) getAccount(ctx *jsonrpc.Context, params *jsonrpc.Params) (interface{}, error) {
	var param jsonrpc.AddressParam
	if err := params.Convert(&param); err != nil {
		return nil, err
	}
	addr, err := param.Address.Address(l.Net)
	if err != nil {
		return nil, jsonrpc.ErrInvalidParams(err.Error())
	}
	l.mtx.Lock()
	defer l.mtx.Unlock()
	a, ok := l.accounts[addr.String()]
	if !ok {
		return nil, jsonrpc.ErrorCodeServer.Errorf("account %s not found", addr)
	}
	return a, nil
}

func (l *Ledger) listAccounts(ctx *jsonrpc.Context, params *jsonrpc.Params) (interface{}, error) {
	l.mtx.Lock()
	defer l.mtx.Unlock()
	as := make([]*jsonrpc.Account, 0, len(l.accounts))
	for _, a := range l.accounts {
		as = append(as, a)
	}
	return as, nil
}

func (l *Ledger) listWitnesses(ctx *jsonrpc.Context, params *jsonrpc.Params) (interface{}, error) {
	l.mtx.Lock()
	defer l.mtx.Unlock()
	return append([]jsonrpc.Witness{}, l.witnesses...), nil
}

func (l *Ledger) listNodes(ctx *jsonrpc.Context, params *jsonrpc.Params) (interface{}, error) {
	l.mtx.Lock()
	defer l.mtx.Unlock()
	return append([]jsonrpc.Node{}, l.nodes...), nil
}

func (l *Ledger) latestBlock() (*jsonrpc.Block, error) {
	if len(l.blocks) == 0 {
		return nil, jsonrpc.ErrorCodeServer.New("no block")
	}
	return &l.blocks[len(l.blocks)-1], nil
}

func (l *Ledger) getNowBlock(ctx *jsonrpc.Context, params *jsonrpc.Params) (interface{}, error) {
	l.mtx.Lock()
	defer l.mtx.Unlock()
	return l.latestBlock()
}

func (l *Ledger) getBlockByNum(ctx *jsonrpc.Context, params *jsonrpc.Params) (interface{}, error) {
	var param jsonrpc.BlockNumParam
	if err := params.Convert(&param); err != nil {
		return nil, err
	}
	l.mtx.Lock()
	defer l.mtx.Unlock()
	for i := range l.blocks {
		if l.blocks[i].Header.Number == param.Num {
			return &l.blocks[i], nil
		}
	}
	return nil, jsonrpc.ErrorCodeServer.Errorf("block %d not found", param.Num)
}

func (l *Ledger) getBlockByID(ctx *jsonrpc.Context, params *jsonrpc.Params) (interface{}, error) {
	var param jsonrpc.IDParam
	if err := params.Convert(&param); err != nil {
		return nil, err
	}
	l.mtx.Lock()
	defer l.mtx.Unlock()
	for i := range l.blocks {
		if l.blocks[i].ID.String() == "0x"+param.ID {
			return &l.blocks[i], nil
		}
	}
	return nil, jsonrpc.ErrorCodeServer.Errorf("block %s not found", param.ID)
}

func (l *Ledger) getBlockByLimitNext(ctx *jsonrpc.Context, params *jsonrpc.Params) (interface{}, error) {
	var param jsonrpc.BlockRangeParam
	if err := params.Convert(&param); err != nil {
		return nil, err
	}
	l.mtx.Lock()
	defer l.mtx.Unlock()
	bs := []jsonrpc.Block{}
	for _, b := range l.blocks {
		if b.Header.Number >= param.Start && b.Header.Number < param.End {
			bs = append(bs, b)
		}
	}
	return bs, nil
}

func (l *Ledger) getBlockByLatestNum(ctx *jsonrpc.Context, params *jsonrpc.Params) (interface{}, error) {
	var param jsonrpc.LimitParam
	if err := params.Convert(&param); err != nil {
		return nil, err
	}
	l.mtx.Lock()
	defer l.mtx.Unlock()
	from := len(l.blocks) - int(param.Limit)
	if from < 0 {
		from = 0
	}
	return append([]jsonrpc.Block{}, l.blocks[from:]...), nil
}

func (l *Ledger) getAssetIssueList(ctx *jsonrpc.Context, params *jsonrpc.Params) (interface{}, error) {
	l.mtx.Lock()
	defer l.mtx.Unlock()
	return append([]jsonrpc.AssetIssue{}, l.assets...), nil
}

func (l *Ledger) getAssetIssueByAccount(ctx *jsonrpc.Context, params *jsonrpc.Params) (interface{}, error) {
	var param jsonrpc.AddressParam
	if err := params.Convert(&param); err != nil {
		return nil, err
	}
	l.mtx.Lock()
	defer l.mtx.Unlock()
	as := []jsonrpc.AssetIssue{}
	for _, a := range l.assets {
		if a.OwnerAddress == param.Address {
			as = append(as, a)
		}
	}
	return as, nil
}

func (l *Ledger) getAssetIssueByName(ctx *jsonrpc.Context, params *jsonrpc.Params) (interface{}, error) {
	var param jsonrpc.NameParam
	if err := params.Convert(&param); err != nil {
		return nil, err
	}
	l.mtx.Lock()
	defer l.mtx.Unlock()
	for i := range l.assets {
		if l.assets[i].Name == param.Name {
			return &l.assets[i], nil
		}
	}
	return nil, jsonrpc.ErrorCodeServer.Errorf("asset %s not found", param.Name)
}

func (l *Ledger) getAssetIssueListByTimestamp(ctx *jsonrpc.Context, params *jsonrpc.Params) (interface{}, error) {
	var param jsonrpc.TimestampParam
	if err := params.Convert(&param); err != nil {
		return nil, err
	}
	l.mtx.Lock()
	defer l.mtx.Unlock()
	as := []jsonrpc.AssetIssue{}
	for _, a := range l.assets {
		if a.StartTime <= param.Timestamp && param.Timestamp < a.EndTime {
			as = append(as, a)
		}
	}
	return as, nil
}

func messagesOf(txs []*transaction.Transaction) ([]*jsonrpc.TransactionMessage, error) {
	msgs := make([]*jsonrpc.TransactionMessage, 0, len(txs))
	for _, tx := range txs {
		bs, err := tx.Bytes()
		if err != nil {
			return nil, err
		}
		msgs = append(msgs, jsonrpc.NewTransactionMessage(bs))
	}
	return msgs, nil
}

func (l *Ledger) findTransactions(match func(tx *transaction.Transaction, p transaction.Parameter) bool) ([]*jsonrpc.TransactionMessage, error) {
	l.mtx.Lock()
	defer l.mtx.Unlock()
	var found []*transaction.Transaction
	for _, tx := range l.txs {
		p, err := tx.RawData.Contracts[0].Decode()
		if err != nil {
			return nil, err
		}
		if match(tx, p) {
			found = append(found, tx)
		}
	}
	return messagesOf(found)
}

func (l *Ledger) getTransactionByID(ctx *jsonrpc.Context, params *jsonrpc.Params) (interface{}, error) {
	var param jsonrpc.IDParam
	if err := params.Convert(&param); err != nil {
		return nil, err
	}
	msgs, err := l.findTransactions(func(tx *transaction.Transaction, _ transaction.Parameter) bool {
		return tx.IDString() == param.ID
	})
	if err != nil {
		return nil, err
	}
	if len(msgs) == 0 {
		return nil, jsonrpc.ErrorCodeServer.Errorf("transaction %s not found", param.ID)
	}
	return msgs[0], nil
}

func (l *Ledger) addressOf(params *jsonrpc.Params) (*common.Address, error) {
	var param jsonrpc.AddressParam
	if err := params.Convert(&param); err != nil {
		return nil, err
	}
	addr, err := param.Address.Address(l.Net)
	if err != nil {
		return nil, jsonrpc.ErrInvalidParams(err.Error())
	}
	return addr, nil
}

func (l *Ledger) getTransactionsFromThis(ctx *jsonrpc.Context, params *jsonrpc.Params) (interface{}, error) {
	addr, err := l.addressOf(params)
	if err != nil {
		return nil, err
	}
	return l.findTransactions(func(_ *transaction.Transaction, p transaction.Parameter) bool {
		return string(p.Owner()) == string(addr.Bytes())
	})
}

func (l *Ledger) getTransactionsToThis(ctx *jsonrpc.Context, params *jsonrpc.Params) (interface{}, error) {
	addr, err := l.addressOf(params)
	if err != nil {
		return nil, err
	}
	return l.findTransactions(func(_ *transaction.Transaction, p transaction.Parameter) bool {
		switch c := p.(type) {
		case *transaction.TransferContract:
			return string(c.ToAddress) == string(addr.Bytes())
		case *transaction.TransferAssetContract:
			return string(c.ToAddress) == string(addr.Bytes())
		case *transaction.ParticipateAssetIssueContract:
			return string(c.ToAddress) == string(addr.Bytes())
		}
		return false
	})
}

func (l *Ledger) getTransactionsByTimestamp(ctx *jsonrpc.Context, params *jsonrpc.Params) (interface{}, error) {
	var param jsonrpc.TimeRangeParam
	if err := params.Convert(&param); err != nil {
		return nil, err
	}
	return l.findTransactions(func(tx *transaction.Transaction, _ transaction.Parameter) bool {
		return tx.RawData.Timestamp >= param.Start && tx.RawData.Timestamp < param.End
	})
}

func (l *Ledger) totalTransaction(ctx *jsonrpc.Context, params *jsonrpc.Params) (interface{}, error) {
	l.mtx.Lock()
	defer l.mtx.Unlock()
	return &jsonrpc.NumberMessage{Num: int64(len(l.txs))}, nil
}

func (l *Ledger) builder(factory func() transaction.Parameter) jsonrpc.Handler {
	return func(ctx *jsonrpc.Context, params *jsonrpc.Params) (interface{}, error) {
		p := factory()
		if err := params.Convert(p); err != nil {
			return nil, err
		}
		l.mtx.Lock()
		empty := l.buildEmpty
		var ref *jsonrpc.Block
		if len(l.blocks) > 0 {
			ref = &l.blocks[len(l.blocks)-1]
		}
		l.mtx.Unlock()

		tx := new(transaction.Transaction)
		if !empty {
			var err error
			if tx, err = transaction.New(p); err != nil {
				return nil, err
			}
		}
		if ref != nil && len(ref.ID) >= 16 {
			tx.RawData.RefBlockHash = ref.ID[8:16]
		}
		bs, err := tx.Bytes()
		if err != nil {
			return nil, err
		}
		return jsonrpc.NewTransactionMessage(bs), nil
	}
}

func (l *Ledger) broadcastTransaction(ctx *jsonrpc.Context, params *jsonrpc.Params) (interface{}, error) {
	var msg jsonrpc.TransactionMessage
	if err := params.Convert(&msg); err != nil {
		return nil, err
	}
	bs, err := msg.Bytes()
	if err != nil {
		return nil, jsonrpc.ErrInvalidParams(err.Error())
	}
	tx, err := transaction.ValidateBytes(bs)
	if err != nil {
		return &jsonrpc.Return{
			Code:    jsonrpc.ReturnOtherError,
			Message: err.Error(),
		}, nil
	}
	if ret := l.checkSignature(tx); ret != nil {
		return ret, nil
	}

	l.mtx.Lock()
	defer l.mtx.Unlock()
	if l.result != nil && !l.result.Result {
		return l.result, nil
	}
	for _, old := range l.txs {
		if old.IDString() == tx.IDString() {
			return &jsonrpc.Return{Code: jsonrpc.ReturnDuplicateTransaction}, nil
		}
	}
	l.txs = append(l.txs, tx)
	return &jsonrpc.Return{Result: true, Code: jsonrpc.ReturnSuccess}, nil
}

// checkSignature returns nil when the first signature of tx recovers to
// the owner of its first contract.
func (l *Ledger) checkSignature(tx *transaction.Transaction) *jsonrpc.Return {
	sigError := func(msg string) *jsonrpc.Return {
		return &jsonrpc.Return{Code: jsonrpc.ReturnSignatureError, Message: msg}
	}
	if len(tx.Signatures) == 0 {
		return sigError("no signature")
	}
	p, err := tx.RawData.Contracts[0].Decode()
	if err != nil {
		return &jsonrpc.Return{Code: jsonrpc.ReturnContractValidateError, Message: err.Error()}
	}
	hash, err := tx.Hash()
	if err != nil {
		return sigError(err.Error())
	}
	sig, err := crypto.ParseSignature(tx.Signatures[0])
	if err != nil {
		return sigError(err.Error())
	}
	pub, err := sig.RecoverPublicKey(hash)
	if err != nil {
		return sigError(err.Error())
	}
	if string(common.NewAddressFromPublicKey(l.Net, pub).Bytes()) != string(p.Owner()) {
		return sigError("signer is not the owner")
	}
	return nil
}

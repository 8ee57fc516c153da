package client

import (
	"context"
	"sort"

	"github.com/tronwallet/walletgo/common"
	"github.com/tronwallet/walletgo/common/errors"
	"github.com/tronwallet/walletgo/common/log"
	"github.com/tronwallet/walletgo/common/wallet"
	"github.com/tronwallet/walletgo/rpc/metric"
	"github.com/tronwallet/walletgo/server/jsonrpc"
	"github.com/tronwallet/walletgo/service/transaction"
)

// WalletClient ties a stored wallet to a ledger. Each contract operation
// builds the transaction on the ledger, signs it with the logged in key,
// validates it and broadcasts it. Not safe for concurrent use.
type WalletClient struct {
	store  *wallet.Store
	ledger *LedgerClient
	signer *transaction.Signer
	kp     *wallet.KeyPair
	log    log.Logger
}

func NewWalletClient(store *wallet.Store, ledger *LedgerClient, signer *transaction.Signer) (*WalletClient, error) {
	if store.Network() != ledger.Network() {
		return nil, errors.InvalidNetworkError.Errorf(
			"wallet on %s, ledger on %s", store.Network(), ledger.Network())
	}
	if signer == nil {
		signer = transaction.NewSigner(nil)
	}
	return &WalletClient{
		store:  store,
		ledger: ledger,
		signer: signer,
		log: log.WithFields(log.Fields{
			log.FieldKeyModule:  "client",
			log.FieldKeyNetwork: ledger.Network().Name,
		}),
	}, nil
}

func (w *WalletClient) Ledger() *LedgerClient {
	return w.ledger
}

func (w *WalletClient) Store() *wallet.Store {
	return w.store
}

func (w *WalletClient) setKeyPair(kp *wallet.KeyPair) {
	if w.kp != nil && w.kp != kp {
		w.kp.Zero()
	}
	w.kp = kp
}

// Register generates a new key, stores it under password and logs in.
func (w *WalletClient) Register(password string) (*common.Address, error) {
	if err := w.store.KDF.CheckPassword(password); err != nil {
		w.log.Warn("password is too weak")
		return nil, err
	}
	kp := wallet.New(w.store.Network())
	if err := w.store.Save(kp, password); err != nil {
		kp.Zero()
		return nil, err
	}
	w.setKeyPair(kp)
	return kp.Address(), nil
}

// Import stores the hex private key under password and logs in.
func (w *WalletClient) Import(privateKeyHex, password string) (*common.Address, error) {
	if err := w.store.KDF.CheckPassword(password); err != nil {
		w.log.Warn("password is too weak")
		return nil, err
	}
	kp, err := wallet.ParsePrivateKeyHex(privateKeyHex, w.store.Network())
	if err != nil {
		w.log.Warn("private key is invalid")
		return nil, err
	}
	if err := w.store.Save(kp, password); err != nil {
		kp.Zero()
		return nil, err
	}
	w.setKeyPair(kp)
	return kp.Address(), nil
}

func (w *WalletClient) Login(password string) error {
	kp, err := w.store.Load(password)
	if err != nil {
		if errors.WrongPasswordError.Equals(err) {
			w.log.Warn("wrong password, login failed")
		}
		return err
	}
	w.setKeyPair(kp)
	w.log.WithFields(log.Fields{log.FieldKeyWallet: kp.Address().String()}).
		Info("login")
	return nil
}

// Logout wipes the private key of the session.
func (w *WalletClient) Logout() {
	w.setKeyPair(nil)
}

func (w *WalletClient) IsLoggedIn() bool {
	return w.kp != nil && w.kp.HasPrivateKey()
}

func (w *WalletClient) ChangePassword(oldPassword, newPassword string) error {
	return w.store.ChangePassword(oldPassword, newPassword)
}

// Address returns the address of the logged in key, or of the stored
// public key when no one is logged in.
func (w *WalletClient) Address() (*common.Address, error) {
	if w.kp != nil {
		return w.kp.Address(), nil
	}
	kp, err := w.store.LoadPublicOnly()
	if err != nil {
		return nil, err
	}
	return kp.Address(), nil
}

func (w *WalletClient) QueryAccount(ctx context.Context) (*jsonrpc.Account, error) {
	addr, err := w.Address()
	if err != nil {
		w.log.Warn("no wallet to query")
		return nil, err
	}
	return w.ledger.GetAccount(ctx, addr)
}

func destination(to *common.Address) error {
	if to == nil {
		return errors.IllegalArgumentError.New("destination address is required")
	}
	return nil
}

func (w *WalletClient) owner() (*common.Address, error) {
	if !w.IsLoggedIn() {
		w.log.Warn("not logged in")
		return nil, errors.ErrNoPrivateKey
	}
	return w.kp.Address(), nil
}

// process runs build, check, sign, validate and broadcast for p. The
// returned transaction is the one sent to the ledger.
func (w *WalletClient) process(ctx context.Context, p transaction.Parameter) (*transaction.Transaction, error) {
	ct := p.ContractType().String()
	tx, err := w.ledger.Build(ctx, p)
	if err != nil {
		return nil, err
	}
	if len(tx.RawData.Contracts) == 0 {
		w.log.Warnf("create %s failed, ledger returned no contract", ct)
		return nil, errors.EmptyContractSetError.Errorf("ledger built %s without contract", ct)
	}
	if err := w.signer.StampAndSign(tx, w.kp); err != nil {
		return nil, err
	}
	metric.RecordSign(w.ledger.Network().Name, ct)
	if err := transaction.Validate(tx); err != nil {
		return nil, err
	}
	return w.broadcast(ctx, tx, ct)
}

func (w *WalletClient) broadcast(ctx context.Context, tx *transaction.Transaction, ct string) (*transaction.Transaction, error) {
	l := w.log.WithFields(log.Fields{"txid": tx.IDString()})
	l.Infof("broadcast %s", ct)
	ret, err := w.ledger.BroadcastTransaction(ctx, tx)
	if err != nil {
		return nil, err
	}
	metric.RecordBroadcast(w.ledger.Network().Name, ct, ret.Code.String())
	if !ret.Result {
		l.Warnf("broadcast rejected code=%s message=%s", ret.Code, ret.Message)
		return tx, errors.BroadcastFailError.Errorf("%s: %s", ret.Code, ret.Message)
	}
	return tx, nil
}

// Broadcast sends externally signed transaction bytes after validating
// them.
func (w *WalletClient) Broadcast(ctx context.Context, raw []byte) (*transaction.Transaction, error) {
	tx, err := transaction.ValidateBytes(raw)
	if err != nil {
		return nil, err
	}
	return w.broadcast(ctx, tx, tx.RawData.Contracts[0].Type.String())
}

func (w *WalletClient) SendCoin(ctx context.Context, to *common.Address, amount int64) (*transaction.Transaction, error) {
	if err := destination(to); err != nil {
		return nil, err
	}
	owner, err := w.owner()
	if err != nil {
		return nil, err
	}
	return w.process(ctx, &transaction.TransferContract{
		OwnerAddress: owner.Bytes(),
		ToAddress:    to.Bytes(),
		Amount:       amount,
	})
}

func (w *WalletClient) TransferAsset(ctx context.Context, to *common.Address, assetName string, amount int64) (*transaction.Transaction, error) {
	if err := destination(to); err != nil {
		return nil, err
	}
	owner, err := w.owner()
	if err != nil {
		return nil, err
	}
	return w.process(ctx, &transaction.TransferAssetContract{
		AssetName:    []byte(assetName),
		OwnerAddress: owner.Bytes(),
		ToAddress:    to.Bytes(),
		Amount:       amount,
	})
}

func (w *WalletClient) ParticipateAssetIssue(ctx context.Context, to *common.Address, assetName string, amount int64) (*transaction.Transaction, error) {
	if err := destination(to); err != nil {
		return nil, err
	}
	owner, err := w.owner()
	if err != nil {
		return nil, err
	}
	return w.process(ctx, &transaction.ParticipateAssetIssueContract{
		OwnerAddress: owner.Bytes(),
		ToAddress:    to.Bytes(),
		AssetName:    []byte(assetName),
		Amount:       amount,
	})
}

func (w *WalletClient) FreezeBalance(ctx context.Context, amount, days int64) (*transaction.Transaction, error) {
	owner, err := w.owner()
	if err != nil {
		return nil, err
	}
	return w.process(ctx, &transaction.FreezeBalanceContract{
		OwnerAddress:   owner.Bytes(),
		FrozenBalance:  amount,
		FrozenDuration: days,
	})
}

func (w *WalletClient) UnfreezeBalance(ctx context.Context) (*transaction.Transaction, error) {
	owner, err := w.owner()
	if err != nil {
		return nil, err
	}
	return w.process(ctx, &transaction.UnfreezeBalanceContract{OwnerAddress: owner.Bytes()})
}

func (w *WalletClient) UnfreezeAsset(ctx context.Context) (*transaction.Transaction, error) {
	owner, err := w.owner()
	if err != nil {
		return nil, err
	}
	return w.process(ctx, &transaction.UnfreezeAssetContract{OwnerAddress: owner.Bytes()})
}

func (w *WalletClient) WithdrawBalance(ctx context.Context) (*transaction.Transaction, error) {
	owner, err := w.owner()
	if err != nil {
		return nil, err
	}
	return w.process(ctx, &transaction.WithdrawBalanceContract{OwnerAddress: owner.Bytes()})
}

// VoteWitness votes for witnesses given by Base58Check address.
func (w *WalletClient) VoteWitness(ctx context.Context, votes map[string]int64) (*transaction.Transaction, error) {
	owner, err := w.owner()
	if err != nil {
		return nil, err
	}
	c := transaction.NewVoteWitnessContract(owner, w.ledger.Network(), votes)
	return w.process(ctx, c)
}

// CreateAssetIssue issues the asset described by c. The owner is always
// the logged in account.
func (w *WalletClient) CreateAssetIssue(ctx context.Context, c *transaction.AssetIssueContract) (*transaction.Transaction, error) {
	owner, err := w.owner()
	if err != nil {
		return nil, err
	}
	c.OwnerAddress = owner.Bytes()
	return w.process(ctx, c)
}

func (w *WalletClient) CreateWitness(ctx context.Context, url string) (*transaction.Transaction, error) {
	owner, err := w.owner()
	if err != nil {
		return nil, err
	}
	return w.process(ctx, &transaction.WitnessCreateContract{
		OwnerAddress: owner.Bytes(),
		URL:          []byte(url),
	})
}

func (w *WalletClient) UpdateAccount(ctx context.Context, name string) (*transaction.Transaction, error) {
	owner, err := w.owner()
	if err != nil {
		return nil, err
	}
	return w.process(ctx, &transaction.AccountUpdateContract{
		AccountName:  []byte(name),
		OwnerAddress: owner.Bytes(),
	})
}

// ListAccounts returns the accounts of the ledger, richest first.
func (w *WalletClient) ListAccounts(ctx context.Context) ([]jsonrpc.Account, error) {
	accounts, err := w.ledger.ListAccounts(ctx)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(accounts, func(i, j int) bool {
		return accounts[i].Balance > accounts[j].Balance
	})
	return accounts, nil
}

// ListWitnesses returns the witnesses of the ledger, most voted first.
func (w *WalletClient) ListWitnesses(ctx context.Context) ([]jsonrpc.Witness, error) {
	witnesses, err := w.ledger.ListWitnesses(ctx)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(witnesses, func(i, j int) bool {
		return witnesses[i].VoteCount > witnesses[j].VoteCount
	})
	return witnesses, nil
}

// SelectBestNode switches the ledger to the full node of the witness with
// the fewest missed blocks. nodes maps witness URLs to node endpoints.
func (w *WalletClient) SelectBestNode(ctx context.Context, nodes map[string]string) (string, error) {
	witnesses, err := w.ledger.ListWitnesses(ctx)
	if err != nil {
		return "", err
	}
	node, ok := w.ledger.Selector().SelectByWitness(witnesses, nodes)
	if !ok {
		return w.ledger.Selector().Current(), errors.NotFoundError.New("no node for the best witness")
	}
	w.log.Infof("switched to full node %s", node)
	return node, nil
}

package client

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tronwallet/walletgo/common"
	"github.com/tronwallet/walletgo/common/crypto"
	"github.com/tronwallet/walletgo/common/db"
	"github.com/tronwallet/walletgo/common/errors"
	"github.com/tronwallet/walletgo/common/wallet"
	"github.com/tronwallet/walletgo/server/jsonrpc"
	"github.com/tronwallet/walletgo/service/transaction"
	"github.com/tronwallet/walletgo/test"
)

const testPassword = "abcdef12"

type walletFixture struct {
	ledger *test.Ledger
	clock  *common.TestClock
	client *WalletClient
	blobs  db.BlobStore
}

func newWalletFixture(t *testing.T) *walletFixture {
	l := test.NewLedger(common.MainNet)
	t.Cleanup(l.Close)

	blobs, err := db.NewBucketBlobStore(db.NewMapDB(), db.WalletRecord)
	require.NoError(t, err)
	sel, err := NewNodeSelector(l.URL())
	require.NoError(t, err)

	clock := common.NewTestClock(time1)
	wc, err := NewWalletClient(
		wallet.NewStore(blobs, "main", common.MainNet),
		NewLedgerClient(nil, sel, "", common.MainNet),
		transaction.NewSigner(clock),
	)
	require.NoError(t, err)
	return &walletFixture{ledger: l, clock: clock, client: wc, blobs: blobs}
}

func (f *walletFixture) register(t *testing.T) *common.Address {
	addr, err := f.client.Register(testPassword)
	require.NoError(t, err)
	f.ledger.SetAccount(jsonrpc.Account{Address: jsonrpc.AddressOf(addr), Balance: 1000})
	return addr
}

func TestWalletClient_NetworkMismatch(t *testing.T) {
	blobs, _ := db.NewBucketBlobStore(db.NewMapDB(), db.WalletRecord)
	sel, _ := NewNodeSelector("http://127.0.0.1:1")
	_, err := NewWalletClient(
		wallet.NewStore(blobs, "main", common.TestNet),
		NewLedgerClient(nil, sel, "", common.MainNet),
		nil,
	)
	assert.True(t, errors.InvalidNetworkError.Equals(err))
}

func TestWalletClient_LoginLogout(t *testing.T) {
	f := newWalletFixture(t)
	wc := f.client

	_, err := wc.Register("abc")
	assert.True(t, errors.WeakPasswordError.Equals(err))
	assert.False(t, wc.IsLoggedIn())

	addr := f.register(t)
	assert.True(t, wc.IsLoggedIn())

	wc.Logout()
	assert.False(t, wc.IsLoggedIn())

	got, err := wc.Address()
	require.NoError(t, err)
	assert.True(t, addr.Equal(got), "address comes from the stored public key")

	assert.True(t, errors.WrongPasswordError.Equals(wc.Login("abcdef13")))
	assert.False(t, wc.IsLoggedIn())

	require.NoError(t, wc.Login(testPassword))
	assert.True(t, wc.IsLoggedIn())

	require.NoError(t, wc.ChangePassword(testPassword, "new-password"))
	wc.Logout()
	assert.Error(t, wc.Login(testPassword))
	assert.NoError(t, wc.Login("new-password"))
}

func TestWalletClient_Import(t *testing.T) {
	f := newWalletFixture(t)
	sk, pk := crypto.GenerateKeyPair()

	_, err := f.client.Import("1234", testPassword)
	assert.True(t, errors.IllegalArgumentError.Equals(err))

	addr, err := f.client.Import(sk.String()[2:], testPassword)
	require.NoError(t, err)
	assert.True(t, addr.Equal(common.NewAddressFromPublicKey(common.MainNet, pk)))
}

func TestWalletClient_QueryAccount(t *testing.T) {
	f := newWalletFixture(t)

	_, err := f.client.QueryAccount(context.Background())
	assert.True(t, errors.NotFoundError.Equals(err), "no wallet stored")

	addr := f.register(t)
	f.client.Logout()

	account, err := f.client.QueryAccount(context.Background())
	require.NoError(t, err)
	assert.Equal(t, jsonrpc.AddressOf(addr), account.Address)
	assert.Equal(t, int64(1000), account.Balance)
}

func TestWalletClient_SendCoin(t *testing.T) {
	f := newWalletFixture(t)
	ctx := context.Background()
	_, to := crypto.GenerateKeyPair()
	toAddr := common.NewAddressFromPublicKey(common.MainNet, to)

	_, err := f.client.SendCoin(ctx, toAddr, 10)
	assert.True(t, errors.NoPrivateKeyError.Equals(err), "not logged in")
	assert.Equal(t, 0, f.ledger.Calls(jsonrpc.MethodCreateTransaction))

	owner := f.register(t)
	tx, err := f.client.SendCoin(ctx, toAddr, 10)
	require.NoError(t, err)

	assert.Equal(t, time1.UnixMilli(), tx.RawData.Timestamp)
	assert.Equal(t, time1.UnixMilli()+transaction.DefaultExpiration.Milliseconds(),
		tx.RawData.Expiration)
	require.Len(t, tx.Signatures, 1)

	txs := f.ledger.Transactions()
	require.Len(t, txs, 1)
	assert.Equal(t, tx.IDString(), txs[0].IDString())

	p, err := txs[0].RawData.Contracts[0].Decode()
	require.NoError(t, err)
	transfer, ok := p.(*transaction.TransferContract)
	require.True(t, ok)
	assert.Equal(t, owner.Bytes(), transfer.OwnerAddress.Bytes())
	assert.Equal(t, toAddr.Bytes(), transfer.ToAddress.Bytes())
	assert.Equal(t, int64(10), transfer.Amount)
}

func TestWalletClient_NilDestination(t *testing.T) {
	f := newWalletFixture(t)
	f.register(t)
	ctx := context.Background()

	_, err := f.client.SendCoin(ctx, nil, 10)
	assert.True(t, errors.IllegalArgumentError.Equals(err), "%+v", err)
	_, err = f.client.TransferAsset(ctx, nil, "TOKEN", 10)
	assert.True(t, errors.IllegalArgumentError.Equals(err), "%+v", err)
	_, err = f.client.ParticipateAssetIssue(ctx, nil, "TOKEN", 10)
	assert.True(t, errors.IllegalArgumentError.Equals(err), "%+v", err)
	assert.Equal(t, 0, f.ledger.Calls(jsonrpc.MethodBroadcastTransaction))
}

func TestWalletClient_EmptyBuild(t *testing.T) {
	f := newWalletFixture(t)
	f.register(t)
	f.ledger.BuildEmpty(true)

	_, err := f.client.WithdrawBalance(context.Background())
	assert.True(t, errors.EmptyContractSetError.Equals(err))
	assert.Equal(t, 0, f.ledger.Calls(jsonrpc.MethodBroadcastTransaction))
}

func TestWalletClient_BroadcastRejected(t *testing.T) {
	f := newWalletFixture(t)
	f.register(t)
	f.ledger.SetBroadcastResult(&jsonrpc.Return{
		Code:    jsonrpc.ReturnBandwidthError,
		Message: "no bandwidth",
	})

	tx, err := f.client.FreezeBalance(context.Background(), 1000000, 3)
	assert.True(t, errors.BroadcastFailError.Equals(err))
	assert.Contains(t, err.Error(), "BANDWITH_ERROR")
	assert.NotNil(t, tx)
	assert.Empty(t, f.ledger.Transactions())
}

func TestWalletClient_Contracts(t *testing.T) {
	f := newWalletFixture(t)
	ctx := context.Background()
	f.register(t)
	_, other := crypto.GenerateKeyPair()
	otherAddr := common.NewAddressFromPublicKey(common.MainNet, other)

	for _, tc := range []struct {
		name   string
		method string
		run    func() (*transaction.Transaction, error)
	}{
		{"TransferAsset", jsonrpc.MethodTransferAsset, func() (*transaction.Transaction, error) {
			return f.client.TransferAsset(ctx, otherAddr, "TOK", 5)
		}},
		{"Participate", jsonrpc.MethodParticipateAssetIssue, func() (*transaction.Transaction, error) {
			return f.client.ParticipateAssetIssue(ctx, otherAddr, "TOK", 5)
		}},
		{"Freeze", jsonrpc.MethodFreezeBalance, func() (*transaction.Transaction, error) {
			return f.client.FreezeBalance(ctx, 1000000, 3)
		}},
		{"Unfreeze", jsonrpc.MethodUnfreezeBalance, func() (*transaction.Transaction, error) {
			return f.client.UnfreezeBalance(ctx)
		}},
		{"UnfreezeAsset", jsonrpc.MethodUnfreezeAsset, func() (*transaction.Transaction, error) {
			return f.client.UnfreezeAsset(ctx)
		}},
		{"Withdraw", jsonrpc.MethodWithdrawBalance, func() (*transaction.Transaction, error) {
			return f.client.WithdrawBalance(ctx)
		}},
		{"Vote", jsonrpc.MethodVoteWitnessAccount, func() (*transaction.Transaction, error) {
			return f.client.VoteWitness(ctx, map[string]int64{
				otherAddr.String(): 3,
				"not-an-address": 1,
			})
		}},
		{"Witness", jsonrpc.MethodCreateWitness, func() (*transaction.Transaction, error) {
			return f.client.CreateWitness(ctx, "https://witness.example")
		}},
		{"UpdateAccount", jsonrpc.MethodUpdateAccount, func() (*transaction.Transaction, error) {
			return f.client.UpdateAccount(ctx, "alice")
		}},
		{"AssetIssue", jsonrpc.MethodCreateAssetIssue, func() (*transaction.Transaction, error) {
			return f.client.CreateAssetIssue(ctx, &transaction.AssetIssueContract{
				Name:        []byte("TOK"),
				TotalSupply: 1000,
				TrxNum:      1,
				Num:         1,
				StartTime:   1,
				EndTime:     2,
			})
		}},
	} {
		t.Run(tc.name, func(t *testing.T) {
			f.clock.Advance(time1.Sub(time0))
			before := len(f.ledger.Transactions())
			tx, err := tc.run()
			require.NoError(t, err)
			assert.Equal(t, 1, f.ledger.Calls(tc.method))
			assert.Len(t, f.ledger.Transactions(), before+1)
			assert.NoError(t, transaction.Validate(tx))
		})
	}

	vote := f.ledger.Transactions()[6]
	p, err := vote.RawData.Contracts[0].Decode()
	require.NoError(t, err)
	votes := p.(*transaction.VoteWitnessContract).Votes
	require.Len(t, votes, 1)
	assert.Equal(t, otherAddr.Bytes(), votes[0].VoteAddress.Bytes())
}

func TestWalletClient_Broadcast(t *testing.T) {
	f := newWalletFixture(t)
	ctx := context.Background()
	f.register(t)

	kp := wallet.New(common.MainNet)
	tx, err := transaction.New(&transaction.TransferContract{
		OwnerAddress: kp.Address().Bytes(),
		ToAddress:    kp.Address().Bytes(),
		Amount:       1,
	})
	require.NoError(t, err)
	require.NoError(t, transaction.NewSigner(f.clock).StampAndSign(tx, kp))
	raw, err := tx.Bytes()
	require.NoError(t, err)

	_, err = f.client.Broadcast(ctx, raw[:len(raw)-1])
	assert.True(t, errors.MalformedBytesError.Equals(err))

	empty, err := (&transaction.Transaction{}).Bytes()
	require.NoError(t, err)
	_, err = f.client.Broadcast(ctx, empty)
	assert.True(t, errors.EmptyContractSetError.Equals(err))

	sent, err := f.client.Broadcast(ctx, raw)
	require.NoError(t, err)
	assert.Equal(t, tx.IDString(), sent.IDString())

	_, err = f.client.Broadcast(ctx, raw)
	assert.True(t, errors.BroadcastFailError.Equals(err), "duplicate")
}

func TestWalletClient_Lists(t *testing.T) {
	f := newWalletFixture(t)
	ctx := context.Background()

	for i, balance := range []int64{5, 50, 20} {
		_, pk := crypto.GenerateKeyPair()
		f.ledger.SetAccount(jsonrpc.Account{
			Address: jsonrpc.AddressOf(common.NewAddressFromPublicKey(common.MainNet, pk)),
			Balance: balance,
			Type:    int32(i),
		})
	}
	accounts, err := f.client.ListAccounts(ctx)
	require.NoError(t, err)
	require.Len(t, accounts, 3)
	assert.Equal(t, []int64{50, 20, 5},
		[]int64{accounts[0].Balance, accounts[1].Balance, accounts[2].Balance})

	f.ledger.SetWitnesses(
		jsonrpc.Witness{URL: "http://w1", VoteCount: 1, TotalMissed: 0},
		jsonrpc.Witness{URL: "http://w2", VoteCount: 9, TotalMissed: 4},
	)
	witnesses, err := f.client.ListWitnesses(ctx)
	require.NoError(t, err)
	require.Len(t, witnesses, 2)
	assert.Equal(t, "http://w2", witnesses[0].URL)

	node, err := f.client.SelectBestNode(ctx, map[string]string{"http://w1": f.ledger.URL()})
	require.NoError(t, err)
	assert.Equal(t, f.ledger.URL(), node)

	_, err = f.client.SelectBestNode(ctx, map[string]string{"http://w2": "http://127.0.0.1:1"})
	assert.True(t, errors.NotFoundError.Equals(err))
}

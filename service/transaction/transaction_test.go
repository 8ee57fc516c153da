package transaction

import (
	"bytes"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tronwallet/walletgo/common"
	"github.com/tronwallet/walletgo/common/crypto"
	"github.com/tronwallet/walletgo/common/errors"
	"github.com/tronwallet/walletgo/common/wallet"
)

func newTransfer(t *testing.T, from *wallet.KeyPair, amount int64) *Transaction {
	to := wallet.New(common.MainNet)
	tx, err := New(&TransferContract{
		OwnerAddress: from.Address().Bytes(),
		ToAddress:    to.Address().Bytes(),
		Amount:       amount,
	})
	require.NoError(t, err)
	tx.RawData.RefBlockBytes = []byte{0x12, 0x34}
	tx.RawData.RefBlockHash = bytes.Repeat([]byte{0xab}, 8)
	return tx
}

func TestContract_Decode(t *testing.T) {
	owner := wallet.New(common.MainNet)
	params := []Parameter{
		&TransferContract{OwnerAddress: owner.Address().Bytes(), ToAddress: owner.Address().Bytes(), Amount: 1},
		&FreezeBalanceContract{OwnerAddress: owner.Address().Bytes(), FrozenBalance: 1000000, FrozenDuration: 3},
		&UnfreezeBalanceContract{OwnerAddress: owner.Address().Bytes()},
		&WithdrawBalanceContract{OwnerAddress: owner.Address().Bytes()},
		&AccountUpdateContract{OwnerAddress: owner.Address().Bytes(), AccountName: []byte("alice")},
		&WitnessCreateContract{OwnerAddress: owner.Address().Bytes(), URL: []byte("https://w.example")},
		&AssetIssueContract{
			OwnerAddress: owner.Address().Bytes(),
			Name:         []byte("TOK"),
			TotalSupply:  1000,
			TrxNum:       1,
			Num:          1,
			StartTime:    1,
			EndTime:      2,
			FrozenSupply: []FrozenSupply{{FrozenAmount: 10, FrozenDays: 1}},
		},
	}
	for _, p := range params {
		t.Run(p.ContractType().String(), func(t *testing.T) {
			c, err := NewContract(p)
			require.NoError(t, err)
			assert.Equal(t, p.ContractType(), c.Type)

			p2, err := c.Decode()
			require.NoError(t, err)
			assert.Equal(t, p, p2)
		})
	}

	_, err := (&Contract{Type: 99}).Decode()
	assert.True(t, errors.UnsupportedError.Equals(err))
	assert.Equal(t, "ContractType(99)", ContractType(99).String())

	_, err = (&Contract{Type: TransferContractType, Parameter: []byte{0xc1}}).Decode()
	assert.True(t, errors.MalformedBytesError.Equals(err))
}

func TestNewVoteWitnessContract(t *testing.T) {
	owner := wallet.New(common.MainNet)
	w1 := wallet.New(common.MainNet).Address()
	w2 := wallet.New(common.MainNet).Address()

	votes := map[string]int64{"bogus": 7}
	votes[w1.String()] = 5
	votes[w2.String()] = 9
	votes[w2.String()[1:]] = 3
	c := NewVoteWitnessContract(owner.Address(), common.MainNet, votes)
	require.Len(t, c.Votes, 2)
	got := map[string]int64{}
	for _, v := range c.Votes {
		a := new(common.Address)
		copy(a[:], v.VoteAddress)
		got[a.String()] = v.VoteCount
	}
	assert.Equal(t, map[string]int64{w1.String(): 5, w2.String(): 9}, got)
}

func TestValidate_EmptyContractSet(t *testing.T) {
	assert.ErrorIs(t, Validate(nil), errors.ErrEmptyContractSet)

	tx, err := New()
	require.NoError(t, err)
	err = Validate(tx)
	assert.True(t, errors.EmptyContractSetError.Equals(err))

	bs, err := tx.Bytes()
	require.NoError(t, err)
	_, err = ValidateBytes(bs)
	assert.True(t, errors.EmptyContractSetError.Equals(err))
}

func TestValidate_MalformedBytes(t *testing.T) {
	kp := wallet.New(common.MainNet)
	tx := newTransfer(t, kp, 10)
	bs, err := tx.Bytes()
	require.NoError(t, err)

	for _, tc := range []struct {
		name string
		in   []byte
	}{
		{"Empty", nil},
		{"Truncated", bs[:len(bs)/2]},
		{"Trailing", append(append([]byte{}, bs...), 0x00)},
		{"Garbage", []byte("not a transaction")},
	} {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ValidateBytes(tc.in)
			assert.True(t, errors.MalformedBytesError.Equals(err), "err=%v", err)
		})
	}
}

func TestSigner_SignValidate(t *testing.T) {
	kp := wallet.New(common.MainNet)
	clock := common.NewTestClock(time.Date(2018, 5, 1, 0, 0, 0, 0, time.UTC))
	signer := NewSigner(clock)

	tx := newTransfer(t, kp, 100)
	require.NoError(t, signer.StampAndSign(tx, kp))

	assert.Equal(t, clock.Now().UnixMilli(), tx.RawData.Timestamp)
	assert.Equal(t, tx.RawData.Timestamp+DefaultExpiration.Milliseconds(), tx.RawData.Expiration)
	require.Len(t, tx.Signatures, 1)
	assert.Len(t, tx.Signatures[0], crypto.SignatureLenRawWithV)

	assert.NoError(t, Validate(tx))
	assert.NoError(t, VerifySignatures(tx, kp.PublicKey()))

	bs, err := tx.Bytes()
	require.NoError(t, err)
	tx2, err := ValidateBytes(bs)
	require.NoError(t, err)
	assert.Equal(t, tx.IDString(), tx2.IDString())

	other := wallet.New(common.MainNet)
	assert.Error(t, VerifySignatures(tx, other.PublicKey()))
}

func TestSigner_HashExcludesSignatures(t *testing.T) {
	kp := wallet.New(common.MainNet)
	signer := NewSigner(common.NewTestClock(time.Unix(1525132800, 0)))
	tx := newTransfer(t, kp, 1)
	signer.StampTimestamp(tx)

	id1, err := ID(tx)
	require.NoError(t, err)
	require.NoError(t, signer.Sign(tx, kp))
	id2, err := ID(tx)
	require.NoError(t, err)
	assert.Equal(t, id1, id2)

	require.NoError(t, signer.Sign(tx, kp))
	assert.Len(t, tx.Signatures, 2)
	assert.NoError(t, VerifySignatures(tx, kp.PublicKey()))

	raw, err := tx.RawBytes()
	require.NoError(t, err)
	assert.Equal(t, crypto.SHA256Sum(raw), id1)
}

func TestSigner_Failures(t *testing.T) {
	kp := wallet.New(common.MainNet)
	signer := NewSigner(common.NewTestClock(time.Unix(1525132800, 0)))

	tx := newTransfer(t, kp, 1)
	err := signer.Sign(tx, kp.PublicOnly())
	assert.True(t, errors.NoPrivateKeyError.Equals(err))
	err = signer.StampAndSign(tx, nil)
	assert.True(t, errors.NoPrivateKeyError.Equals(err))
	assert.Empty(t, tx.Signatures)

	empty, _ := New()
	err = signer.Sign(empty, kp)
	assert.True(t, errors.EmptyContractSetError.Equals(err))
}

func TestSigner_KeepsExpiration(t *testing.T) {
	kp := wallet.New(common.MainNet)
	signer := NewSigner(common.NewTestClock(time.Unix(1525132800, 0)))
	tx := newTransfer(t, kp, 1)
	tx.RawData.Expiration = 42
	signer.StampTimestamp(tx)
	assert.Equal(t, int64(42), tx.RawData.Expiration)
	assert.Equal(t, int64(1525132800000), tx.RawData.Timestamp)
}

func TestSigner_ZeroClockPanics(t *testing.T) {
	kp := wallet.New(common.MainNet)
	signer := NewSigner(new(common.TestClock))
	tx := newTransfer(t, kp, 1)
	assert.Panics(t, func() {
		signer.StampTimestamp(tx)
	})
}

func TestTransaction_JSON(t *testing.T) {
	kp := wallet.New(common.MainNet)
	tx := newTransfer(t, kp, 7)
	require.NoError(t, NewSigner(nil).StampAndSign(tx, kp))

	js, err := json.Marshal(tx)
	require.NoError(t, err)
	assert.Contains(t, string(js), `"ref_block_bytes":"0x1234"`)

	var tx2 Transaction
	require.NoError(t, json.Unmarshal(js, &tx2))
	assert.Equal(t, tx.IDString(), tx2.IDString())
	assert.NoError(t, VerifySignatures(&tx2, kp.PublicKey()))
}

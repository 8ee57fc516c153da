package wallet

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tronwallet/walletgo/common"
	"github.com/tronwallet/walletgo/common/db"
	"github.com/tronwallet/walletgo/common/errors"
)

func newTestStore(t *testing.T) (*Store, db.BlobStore) {
	bs, err := db.NewBucketBlobStore(db.NewMapDB(), db.WalletRecord)
	require.NoError(t, err)
	return NewStore(bs, "main", common.MainNet), bs
}

func TestStore_Empty(t *testing.T) {
	s, _ := newTestStore(t)

	ok, err := s.Exists()
	assert.NoError(t, err)
	assert.False(t, ok)

	_, err = s.Load(testPassword)
	assert.True(t, errors.NotFoundError.Equals(err))
	_, err = s.LoadPublicOnly()
	assert.True(t, errors.NotFoundError.Equals(err))
	assert.True(t, errors.NotFoundError.Equals(s.CheckPassword(testPassword)))
}

func TestStore_SaveLoad(t *testing.T) {
	s, bs := newTestStore(t)
	kp := New(common.MainNet)
	require.NoError(t, s.Save(kp, testPassword))

	raw, err := bs.Load("main")
	require.NoError(t, err)
	assert.Len(t, raw, RecordLen)

	ok, err := s.Exists()
	assert.NoError(t, err)
	assert.True(t, ok)

	kp2, err := s.Load(testPassword)
	require.NoError(t, err)
	assert.Equal(t, kp.PrivateKey().Bytes(), kp2.PrivateKey().Bytes())

	pub, err := s.LoadPublicOnly()
	require.NoError(t, err)
	assert.True(t, kp.Address().Equal(pub.Address()))

	assert.NoError(t, s.CheckPassword(testPassword))
	assert.True(t, errors.WrongPasswordError.Equals(s.CheckPassword("wrong-password")))
}

func TestStore_WrongSizeIsNoWallet(t *testing.T) {
	for _, n := range []int{0, RecordLen - 1, RecordLen + 1} {
		s, bs := newTestStore(t)
		require.NoError(t, bs.Save("main", make([]byte, n)))

		ok, err := s.Exists()
		assert.NoError(t, err)
		assert.False(t, ok, "len=%d", n)

		_, err = s.Load(testPassword)
		assert.True(t, errors.CorruptRecordError.Equals(err), "len=%d", n)
	}
}

func TestStore_ChangePassword(t *testing.T) {
	s, _ := newTestStore(t)
	kp := New(common.MainNet)
	require.NoError(t, s.Save(kp, testPassword))

	err := s.ChangePassword("wrong-password", "new-password")
	assert.True(t, errors.WrongPasswordError.Equals(err))

	err = s.ChangePassword(testPassword, "short")
	assert.True(t, errors.WeakPasswordError.Equals(err))

	require.NoError(t, s.ChangePassword(testPassword, "new-password"))

	_, err = s.Load(testPassword)
	assert.True(t, errors.WrongPasswordError.Equals(err))

	kp2, err := s.Load("new-password")
	require.NoError(t, err)
	assert.True(t, kp.Address().Equal(kp2.Address()))
}

package wallet

import (
	"crypto/aes"
	"crypto/rand"
	"crypto/subtle"
	"io"

	"github.com/tronwallet/walletgo/common"
	"github.com/tronwallet/walletgo/common/crypto"
	"github.com/tronwallet/walletgo/common/errors"
	"github.com/tronwallet/walletgo/common/log"
)

// Record layout. Every field is fixed size; a blob of any other length is
// not a wallet.
const (
	verifierOffset  = 0
	publicKeyOffset = verifierOffset + KeyLen
	encKeyOffset    = publicKeyOffset + crypto.PublicKeyLenUncompressed
	encSaltOffset   = encKeyOffset + crypto.PrivateKeyLen
	verSaltOffset   = encSaltOffset + SaltLen

	RecordLen = verSaltOffset + SaltLen
)

// Record is the 145-byte at-rest wallet:
//
//	[0:16)    password verifier
//	[16:81)   uncompressed public key
//	[81:113)  private key, AES-128-ECB under the encryption key
//	[113:129) encryption key salt
//	[129:145) verifier salt
//
// ECB without a MAC is a legacy scheme kept for compatibility with
// existing wallet files. The verifier is the only password check.
type Record []byte

func (r Record) Verifier() []byte       { return r[verifierOffset:publicKeyOffset] }
func (r Record) PublicKey() []byte      { return r[publicKeyOffset:encKeyOffset] }
func (r Record) EncryptedKey() []byte   { return r[encKeyOffset:encSaltOffset] }
func (r Record) EncryptionSalt() []byte { return r[encSaltOffset:verSaltOffset] }
func (r Record) VerifierSalt() []byte   { return r[verSaltOffset:RecordLen] }

func checkLength(rec []byte) (Record, error) {
	if len(rec) != RecordLen {
		return nil, errors.CorruptRecordError.Errorf(
			"wallet record is %d bytes, expected %d", len(rec), RecordLen)
	}
	return rec, nil
}

var randReader io.Reader = rand.Reader

func newSalt() ([]byte, error) {
	salt := make([]byte, SaltLen)
	if _, err := io.ReadFull(randReader, salt); err != nil {
		return nil, errors.CriticalIOError.Wrap(err, "no randomness for salt")
	}
	return salt, nil
}

func ecbEncrypt(key, src []byte) ([]byte, error) {
	return ecb(key, src, true)
}

func ecbDecrypt(key, src []byte) ([]byte, error) {
	return ecb(key, src, false)
}

// ecb runs AES block by block. src must be a whole number of blocks.
func ecb(key, src []byte, encrypt bool) ([]byte, error) {
	b, err := aes.NewCipher(key)
	if err != nil {
		return nil, errors.IllegalArgumentError.Wrap(err, "aes key")
	}
	if len(src)%aes.BlockSize != 0 {
		return nil, errors.IllegalArgumentError.Errorf(
			"ecb input %d bytes is not a multiple of %d", len(src), aes.BlockSize)
	}
	dst := make([]byte, len(src))
	for i := 0; i < len(src); i += aes.BlockSize {
		if encrypt {
			b.Encrypt(dst[i:i+aes.BlockSize], src[i:i+aes.BlockSize])
		} else {
			b.Decrypt(dst[i:i+aes.BlockSize], src[i:i+aes.BlockSize])
		}
	}
	return dst, nil
}

// Create encrypts the private key of kp under password with fresh salts.
func (k KDF) Create(kp *KeyPair, password string) (Record, error) {
	if kp == nil || !kp.HasPrivateKey() {
		log.Warn("wallet create without private key")
		return nil, errors.ErrMissingPrivateKey
	}
	if err := k.CheckPassword(password); err != nil {
		return nil, err
	}
	encSalt, err := newSalt()
	if err != nil {
		return nil, err
	}
	verSalt, err := newSalt()
	if err != nil {
		return nil, err
	}
	encKey, err := k.DeriveKey(password, encSalt, PurposeEncryption)
	if err != nil {
		return nil, err
	}
	defer clear(encKey)
	verifier, err := k.DeriveKey(password, verSalt, PurposeVerifier)
	if err != nil {
		return nil, err
	}

	secret := kp.PrivateKey().Bytes()
	defer clear(secret)
	encrypted, err := ecbEncrypt(encKey, secret)
	if err != nil {
		return nil, err
	}

	rec := make(Record, 0, RecordLen)
	rec = append(rec, verifier...)
	rec = append(rec, kp.PublicKeyBytes()...)
	rec = append(rec, encrypted...)
	rec = append(rec, encSalt...)
	rec = append(rec, verSalt...)
	return rec, nil
}

// VerifyPassword checks password against the verifier of rec.
func (k KDF) VerifyPassword(rec []byte, password string) error {
	r, err := checkLength(rec)
	if err != nil {
		return err
	}
	verifier, err := k.DeriveKey(password, r.VerifierSalt(), PurposeVerifier)
	if err != nil {
		return err
	}
	if subtle.ConstantTimeCompare(verifier, r.Verifier()) != 1 {
		return errors.ErrWrongPassword
	}
	return nil
}

// Recover decrypts rec and rebuilds the key pair. The recovered key must
// produce the public key stored in the record.
func (k KDF) Recover(rec []byte, password string, net *common.Network) (*KeyPair, error) {
	if err := k.VerifyPassword(rec, password); err != nil {
		return nil, err
	}
	r := Record(rec)
	encKey, err := k.DeriveKey(password, r.EncryptionSalt(), PurposeEncryption)
	if err != nil {
		return nil, err
	}
	defer clear(encKey)

	secret, err := ecbDecrypt(encKey, r.EncryptedKey())
	if err != nil {
		return nil, err
	}
	defer clear(secret)

	sk, err := crypto.ParsePrivateKey(secret)
	if err != nil {
		return nil, errors.KeyDerivationError.Wrap(err, "decrypted key is not a valid scalar")
	}
	kp := NewFromPrivateKey(sk, net)
	stored, err := crypto.ParsePublicKey(r.PublicKey())
	if err != nil || !stored.Equal(kp.PublicKey()) {
		kp.Zero()
		return nil, errors.KeyDerivationError.New("decrypted key doesn't match stored public key")
	}
	return kp, nil
}

// RecoverPublicOnly returns the watch-only key pair of rec. No password
// is needed.
func RecoverPublicOnly(rec []byte, net *common.Network) (*KeyPair, error) {
	r, err := checkLength(rec)
	if err != nil {
		return nil, err
	}
	kp, err := NewFromPublicKey(r.PublicKey(), net)
	if err != nil {
		return nil, errors.CorruptRecordError.Wrap(err, "stored public key")
	}
	return kp, nil
}

func Create(kp *KeyPair, password string) (Record, error) {
	return DefaultKDF.Create(kp, password)
}

func Recover(rec []byte, password string, net *common.Network) (*KeyPair, error) {
	return DefaultKDF.Recover(rec, password, net)
}

func VerifyPassword(rec []byte, password string) error {
	return DefaultKDF.VerifyPassword(rec, password)
}

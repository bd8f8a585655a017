package keyvault

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/ecdsa"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/token-launcher/backend/internal/models"
)

var ErrInvalidKey = errors.New("encryption key must be 32 bytes hex-encoded")

// Vault seals private keys with AES-256-CTR. Records are {iv, content}, both hex.
type Vault struct {
	block cipher.Block
}

func New(hexKey string) (*Vault, error) {
	key, err := hex.DecodeString(strings.TrimPrefix(hexKey, "0x"))
	if err != nil || len(key) != 32 {
		return nil, ErrInvalidKey
	}
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	return &Vault{block: block}, nil
}

func (v *Vault) Encrypt(plaintext string) (models.EncryptedKey, error) {
	iv := make([]byte, aes.BlockSize)
	if _, err := rand.Read(iv); err != nil {
		return models.EncryptedKey{}, err
	}
	out := make([]byte, len(plaintext))
	cipher.NewCTR(v.block, iv).XORKeyStream(out, []byte(plaintext))
	return models.EncryptedKey{IV: hex.EncodeToString(iv), Content: hex.EncodeToString(out)}, nil
}

func (v *Vault) Decrypt(k models.EncryptedKey) (string, error) {
	iv, err := hex.DecodeString(k.IV)
	if err != nil || len(iv) != aes.BlockSize {
		return "", errors.New("decode iv: invalid")
	}
	content, err := hex.DecodeString(k.Content)
	if err != nil {
		return "", fmt.Errorf("decode content: %w", err)
	}
	out := make([]byte, len(content))
	cipher.NewCTR(v.block, iv).XORKeyStream(out, content)
	return string(out), nil
}

// Signer decrypts a stored key into a usable ECDSA private key.
func (v *Vault) Signer(k models.EncryptedKey) (*ecdsa.PrivateKey, error) {
	plain, err := v.Decrypt(k)
	if err != nil {
		return nil, err
	}
	key, err := crypto.HexToECDSA(strings.TrimPrefix(plain, "0x"))
	if err != nil {
		return nil, fmt.Errorf("parse private key: %w", err)
	}
	return key, nil
}

type Wallet struct {
	Address    string
	PrivateKey string // 0x-prefixed hex
}

func GenerateWallet() (*Wallet, error) {
	key, err := crypto.GenerateKey()
	if err != nil {
		return nil, fmt.Errorf("generate key: %w", err)
	}
	return &Wallet{
		Address:    crypto.PubkeyToAddress(key.PublicKey).Hex(),
		PrivateKey: hexutil.Encode(crypto.FromECDSA(key)),
	}, nil
}

// NewWallet generates a key pair and returns it sealed, ready for the account store.
func (v *Vault) NewWallet() (address string, sealed models.EncryptedKey, err error) {
	w, err := GenerateWallet()
	if err != nil {
		return "", models.EncryptedKey{}, err
	}
	sealed, err = v.Encrypt(w.PrivateKey)
	if err != nil {
		return "", models.EncryptedKey{}, err
	}
	return w.Address, sealed, nil
}

package history

import (
	"crypto/ed25519"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

const (
	pubKeyFile  = "journal.pub"
	privKeyFile = "journal.key"
)

// ensureKeys loads the journal signing keypair from keyDir, generating and
// saving a fresh one on first use.
func ensureKeys(keyDir string) (ed25519.PublicKey, ed25519.PrivateKey, error) {
	pubPath := filepath.Join(keyDir, pubKeyFile)
	privPath := filepath.Join(keyDir, privKeyFile)

	if _, err := os.Stat(privPath); os.IsNotExist(err) {
		pub, priv, err := ed25519.GenerateKey(rand.Reader)
		if err != nil {
			return nil, nil, fmt.Errorf("generate journal keys: %w", err)
		}
		if err := os.MkdirAll(keyDir, 0o700); err != nil {
			return nil, nil, err
		}
		if err := os.WriteFile(pubPath, []byte(hex.EncodeToString(pub)), 0o600); err != nil {
			return nil, nil, err
		}
		if err := os.WriteFile(privPath, []byte(hex.EncodeToString(priv)), 0o600); err != nil {
			return nil, nil, err
		}
		return pub, priv, nil
	}

	pub, err := loadKey(pubPath, ed25519.PublicKeySize)
	if err != nil {
		return nil, nil, fmt.Errorf("load public key: %w", err)
	}
	priv, err := loadKey(privPath, ed25519.PrivateKeySize)
	if err != nil {
		return nil, nil, fmt.Errorf("load private key: %w", err)
	}
	return ed25519.PublicKey(pub), ed25519.PrivateKey(priv), nil
}

func loadKey(path string, size int) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	key, err := hex.DecodeString(string(data))
	if err != nil {
		return nil, err
	}
	if len(key) != size {
		return nil, errors.New("invalid key size")
	}
	return key, nil
}

// verifySignature checks a record signature against its hex-encoded public key.
func verifySignature(pubHex, data, sigHex string) (bool, error) {
	pub, err := hex.DecodeString(pubHex)
	if err != nil {
		return false, err
	}
	if len(pub) != ed25519.PublicKeySize {
		return false, errors.New("invalid public key size")
	}
	sig, err := hex.DecodeString(sigHex)
	if err != nil {
		return false, err
	}
	return ed25519.Verify(ed25519.PublicKey(pub), []byte(data), sig), nil
}

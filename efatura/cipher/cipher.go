package cipher

import (
	"crypto/rsa"
	"io"

	"github.com/alapierre/go-efatura-connector/efatura/aes"
	"github.com/go-faster/errors"
)

// AesCipher szyfruje pojedyncze pole nagłówka kluczem sesji (AES-128-ECB, PKCS#5).
func AesCipher(plaintext string, key []byte) ([]byte, error) {
	encrypted, err := aes.EncryptECBPKCS5([]byte(plaintext), key)
	if err != nil {
		return nil, errors.Wrap(err, "cannot encrypt field with session key")
	}
	return encrypted, nil
}

// RsaCipher opakowuje klucz sesji kluczem publicznym AT (RSA PKCS#1 v1.5).
func RsaCipher(random io.Reader, message []byte, publicKey *rsa.PublicKey) ([]byte, error) {
	if publicKey == nil {
		return nil, errors.New("cannot encrypt given message: public key is nil")
	}
	encrypted, err := rsa.EncryptPKCS1v15(random, publicKey, message)
	if err != nil {
		return nil, errors.Wrap(err, "cannot encrypt given message with public key")
	}
	return encrypted, nil
}

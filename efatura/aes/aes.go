package aes

import (
	"bytes"
	aes2 "crypto/aes"
	"crypto/rand"
	"io"

	"github.com/go-faster/errors"
)

// KeySize AT wymaga AES-128
const KeySize = 16

// GenerateRandom128BitsKey generuje losowy 128-bitowy klucz sesji (16 bajtów)
func GenerateRandom128BitsKey() ([]byte, error) {
	return GenerateKey(rand.Reader)
}

// GenerateKey czyta klucz z podanego źródła losowości.
func GenerateKey(r io.Reader) ([]byte, error) {
	key := make([]byte, KeySize)
	if _, err := io.ReadFull(r, key); err != nil {
		return nil, errors.Wrap(err, "błąd generowania losowego klucza")
	}
	return key, nil
}

// EncryptECBPKCS5 szyfruje content w trybie AES-ECB z dopełnieniem PKCS#5/7.
// Każdy blok szyfrowany jest niezależnie, tego wymaga protokół AT.
func EncryptECBPKCS5(content, key []byte) ([]byte, error) {
	if len(key) != KeySize {
		return nil, errors.Errorf("nieprawidłowa długość klucza: %d, oczekiwano %d bajtów (AES-128)", len(key), KeySize)
	}

	block, err := aes2.NewCipher(key)
	if err != nil {
		return nil, errors.Wrap(err, "NewCipher")
	}

	padded := pkcs7Pad(content, aes2.BlockSize)
	out := make([]byte, len(padded))
	for i := 0; i < len(padded); i += aes2.BlockSize {
		block.Encrypt(out[i:i+aes2.BlockSize], padded[i:i+aes2.BlockSize])
	}
	return out, nil
}

// DecryptECBPKCS5 odszyfrowuje bufor AES-ECB z PKCS5/7.
func DecryptECBPKCS5(ciphertext, key []byte) ([]byte, error) {
	if len(key) != KeySize {
		return nil, errors.Errorf("klucz musi mieć %d bajtów (AES-128), ma %d", KeySize, len(key))
	}
	if len(ciphertext) == 0 || len(ciphertext)%aes2.BlockSize != 0 {
		return nil, errors.New("dane nie są wielokrotnością rozmiaru bloku")
	}

	block, err := aes2.NewCipher(key)
	if err != nil {
		return nil, errors.Wrap(err, "NewCipher")
	}

	plain := make([]byte, len(ciphertext))
	for i := 0; i < len(ciphertext); i += aes2.BlockSize {
		block.Decrypt(plain[i:i+aes2.BlockSize], ciphertext[i:i+aes2.BlockSize])
	}

	// PKCS7 unpad z walidacją
	pad := int(plain[len(plain)-1])
	if pad <= 0 || pad > aes2.BlockSize || pad > len(plain) {
		return nil, errors.New("niepoprawny padding")
	}
	for i := 0; i < pad; i++ {
		if plain[len(plain)-1-i] != byte(pad) {
			return nil, errors.New("niepoprawny padding")
		}
	}
	return plain[:len(plain)-pad], nil
}

func pkcs7Pad(src []byte, blockSize int) []byte {
	padLen := blockSize - (len(src) % blockSize)
	out := make([]byte, 0, len(src)+padLen)
	out = append(out, src...)
	return append(out, bytes.Repeat([]byte{byte(padLen)}, padLen)...)
}

// Wipe zeruje bufor z materiałem klucza.
func Wipe(b []byte) {
	for i := range b {
		b[i] = 0
	}
}

package cipher

import (
	"crypto/rand"
	"crypto/rsa"
	"encoding/base64"
	"io"
	"time"

	"github.com/alapierre/go-efatura-connector/efatura"
	"github.com/alapierre/go-efatura-connector/efatura/aes"
)

// CreatedLayout znacznik czasu Created: ISO-8601 z dokładnością do sekundy, bez części ułamkowej.
const CreatedLayout = "2006-01-02T15:04:05Z"

// EncryptionService buduje jednorazowe nagłówki WS-Security UsernameToken.
// Klucz publiczny AT jest tylko do odczytu, więc serwis jest bezpieczny dla wielu goroutine.
type EncryptionService struct {
	pub    *rsa.PublicKey
	random io.Reader
	now    func() time.Time
}

type Option func(*EncryptionService)

func WithRandom(r io.Reader) Option {
	return func(s *EncryptionService) { s.random = r }
}

func WithClock(now func() time.Time) Option {
	return func(s *EncryptionService) { s.now = now }
}

func NewEncryptionService(pub *rsa.PublicKey, opts ...Option) *EncryptionService {
	s := &EncryptionService{
		pub:    pub,
		random: rand.Reader,
		now:    time.Now,
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// BuildHeader generuje świeży klucz sesji, szyfruje nim hasło i znacznik czasu,
// a sam klucz opakowuje kluczem publicznym AT (pole Nonce).
// Klucz sesji jest zerowany przed powrotem.
func (s *EncryptionService) BuildHeader(creds efatura.Credentials) (*efatura.SecurityHeader, error) {
	if s.pub == nil {
		return nil, &efatura.CryptoError{Op: "load public key", Err: efatura.ErrNoPublicKey}
	}

	key, err := aes.GenerateKey(s.random)
	if err != nil {
		return nil, &efatura.CryptoError{Op: "generate session key", Err: err}
	}
	defer aes.Wipe(key)

	password, err := AesCipher(creds.Password, key)
	if err != nil {
		return nil, &efatura.CryptoError{Op: "encrypt password", Err: err}
	}

	created, err := AesCipher(s.now().UTC().Format(CreatedLayout), key)
	if err != nil {
		return nil, &efatura.CryptoError{Op: "encrypt created", Err: err}
	}

	nonce, err := RsaCipher(s.random, key, s.pub)
	if err != nil {
		return nil, &efatura.CryptoError{Op: "wrap session key", Err: err}
	}

	return &efatura.SecurityHeader{
		Username: creds.Username,
		Password: base64.StdEncoding.EncodeToString(password),
		Nonce:    base64.StdEncoding.EncodeToString(nonce),
		Created:  base64.StdEncoding.EncodeToString(created),
	}, nil
}

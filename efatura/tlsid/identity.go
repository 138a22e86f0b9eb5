// Package tlsid loads the client identity used for mutual TLS with the tax authority
// and the authority's encryption certificate.
//
// Both are loaded once at startup and never mutated afterwards.
package tlsid

import (
	"crypto/rsa"
	"crypto/tls"
	"crypto/x509"
	"os"
	"strings"
	"time"

	"github.com/alapierre/go-efatura-connector/efatura"
	"github.com/alapierre/go-efatura-connector/efatura/keys"
	rsa2 "github.com/alapierre/go-efatura-connector/efatura/rsa"
	"github.com/go-faster/errors"
	"github.com/sirupsen/logrus"
	"software.sslmate.com/src/go-pkcs12"
)

var logger = logrus.WithField("component", "efatura.tlsid")

// Source opisuje skąd wziąć tożsamość: para PEM albo paczka PKCS#12.
type Source struct {
	CertFile    string
	KeyFile     string
	KeyPassword string

	PFXFile     string
	PFXPassword string

	CounterpartyCertFile string

	MinVersion   string   // "1.2" albo "1.3"
	CipherSuites []string // nazwy IANA, puste = domyślne Go
}

func (s Source) hasPEM() bool {
	return s.CertFile != "" && s.KeyFile != ""
}

func (s Source) hasPFX() bool {
	return s.PFXFile != "" && s.PFXPassword != ""
}

type Identity struct {
	tlsConfig       *tls.Config
	counterparty    *rsa.PublicKey
	counterpartyExp time.Time
	leaf            *x509.Certificate
}

// Load fails fast with *efatura.ConfigError when the identity is incomplete.
func Load(src Source) (*Identity, error) {
	if src.CounterpartyCertFile == "" {
		return nil, &efatura.ConfigError{Field: "EFATURA_AT_PUBLIC_CERT", Msg: "counterparty public key certificate path is required"}
	}

	var (
		cert tls.Certificate
		err  error
	)
	switch {
	case src.hasPEM():
		cert, err = loadPEM(src)
	case src.hasPFX():
		cert, err = loadPFX(src)
	default:
		return nil, &efatura.ConfigError{Field: "EFATURA_TLS_CERT", Msg: "either PEM certificate and key or PKCS#12 bundle with passphrase is required"}
	}
	if err != nil {
		return nil, err
	}

	minVersion, err := parseMinVersion(src.MinVersion)
	if err != nil {
		return nil, err
	}
	suites, err := parseCipherSuites(src.CipherSuites)
	if err != nil {
		return nil, err
	}

	pub, notAfter, err := rsa2.LoadRSAPubFromCertFile(src.CounterpartyCertFile)
	if err != nil {
		return nil, &efatura.ConfigError{Field: "EFATURA_AT_PUBLIC_CERT", Msg: err.Error()}
	}
	if time.Now().After(notAfter) {
		logger.Warnf("counterparty certificate expired at %s", notAfter.Format(time.RFC3339))
	}

	id := &Identity{
		tlsConfig: &tls.Config{
			Certificates: []tls.Certificate{cert},
			MinVersion:   minVersion,
			CipherSuites: suites,
		},
		counterparty:    pub,
		counterpartyExp: notAfter,
		leaf:            cert.Leaf,
	}

	if id.leaf != nil {
		logger.WithFields(logrus.Fields{
			"subject":   id.leaf.Subject.String(),
			"not_after": id.leaf.NotAfter.Format(time.RFC3339),
		}).Info("TLS client identity loaded")
	}
	return id, nil
}

// NewIdentity składa tożsamość z gotowych obiektów (testy, osadzenie w innym procesie).
func NewIdentity(cert tls.Certificate, counterparty *rsa.PublicKey, cfg *tls.Config) *Identity {
	c := &tls.Config{MinVersion: tls.VersionTLS12}
	if cfg != nil {
		c = cfg.Clone()
	}
	c.Certificates = []tls.Certificate{cert}
	return &Identity{tlsConfig: c, counterparty: counterparty, leaf: cert.Leaf}
}

// TLSConfig zwraca kopię konfiguracji, oryginał pozostaje niezmienny.
func (i *Identity) TLSConfig() *tls.Config {
	return i.tlsConfig.Clone()
}

func (i *Identity) CounterpartyKey() *rsa.PublicKey {
	return i.counterparty
}

// CounterpartyNotAfter data wygaśnięcia certyfikatu szyfrującego AT; zero dla NewIdentity.
func (i *Identity) CounterpartyNotAfter() time.Time {
	return i.counterpartyExp
}

func (i *Identity) Leaf() *x509.Certificate {
	return i.leaf
}

func loadPEM(src Source) (tls.Certificate, error) {
	certPEM, err := os.ReadFile(src.CertFile)
	if err != nil {
		return tls.Certificate{}, &efatura.ConfigError{Field: "EFATURA_TLS_CERT", Msg: err.Error()}
	}

	signer, err := keys.LoadPrivateKeyFromFile(src.KeyFile, []byte(src.KeyPassword))
	if err != nil {
		return tls.Certificate{}, &efatura.ConfigError{Field: "EFATURA_TLS_KEY", Msg: err.Error()}
	}

	var cert tls.Certificate
	rest := certPEM
	for {
		xc, next, ok := nextCertificate(rest)
		if !ok {
			break
		}
		cert.Certificate = append(cert.Certificate, xc.Raw)
		if cert.Leaf == nil {
			cert.Leaf = xc
		}
		rest = next
	}
	if len(cert.Certificate) == 0 {
		return tls.Certificate{}, &efatura.ConfigError{Field: "EFATURA_TLS_CERT", Msg: "no CERTIFICATE block found"}
	}
	if !publicKeysMatch(cert.Leaf, signer.Public()) {
		return tls.Certificate{}, &efatura.ConfigError{Field: "EFATURA_TLS_KEY", Msg: "private key does not match certificate"}
	}
	cert.PrivateKey = signer
	return cert, nil
}

func loadPFX(src Source) (tls.Certificate, error) {
	data, err := os.ReadFile(src.PFXFile)
	if err != nil {
		return tls.Certificate{}, &efatura.ConfigError{Field: "EFATURA_TLS_PFX", Msg: err.Error()}
	}

	key, leaf, chain, err := pkcs12.DecodeChain(data, src.PFXPassword)
	if err != nil {
		return tls.Certificate{}, &efatura.ConfigError{Field: "EFATURA_TLS_PFX", Msg: errors.Wrap(err, "decode PKCS#12").Error()}
	}

	cert := tls.Certificate{
		Certificate: [][]byte{leaf.Raw},
		PrivateKey:  key,
		Leaf:        leaf,
	}
	for _, c := range chain {
		cert.Certificate = append(cert.Certificate, c.Raw)
	}
	return cert, nil
}

func parseMinVersion(v string) (uint16, error) {
	switch strings.TrimSpace(v) {
	case "", "1.2", "TLS1.2", "TLSv1.2":
		return tls.VersionTLS12, nil
	case "1.3", "TLS1.3", "TLSv1.3":
		return tls.VersionTLS13, nil
	}
	return 0, &efatura.ConfigError{Field: "EFATURA_TLS_MIN_VERSION", Msg: "allowed values: 1.2, 1.3"}
}

func parseCipherSuites(names []string) ([]uint16, error) {
	if len(names) == 0 {
		return nil, nil
	}

	known := map[string]uint16{}
	for _, s := range tls.CipherSuites() {
		known[s.Name] = s.ID
	}
	// słabe zestawy też dopuszczamy, jeżeli ktoś je jawnie wskaże
	for _, s := range tls.InsecureCipherSuites() {
		known[s.Name] = s.ID
	}

	var ids []uint16
	for _, n := range names {
		n = strings.TrimSpace(n)
		if n == "" {
			continue
		}
		id, ok := known[n]
		if !ok {
			return nil, &efatura.ConfigError{Field: "EFATURA_TLS_CIPHERS", Msg: "unknown cipher suite " + n}
		}
		ids = append(ids, id)
	}
	return ids, nil
}

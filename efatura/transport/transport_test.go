package transport

import (
	"context"
	"crypto/tls"
	"crypto/x509"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alapierre/go-efatura-connector/efatura"
	"github.com/alapierre/go-efatura-connector/efatura/soap"
	"github.com/alapierre/go-efatura-connector/efatura/tlsid"
	"github.com/alapierre/go-efatura-connector/internal/testpki"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	server *httptest.Server
	client testpki.Pair
	roots  *x509.CertPool
}

func newFixture(t *testing.T, h http.HandlerFunc) *fixture {
	t.Helper()

	srvPair := testpki.New(t, "localhost")
	cliPair := testpki.New(t, "123456789")

	clientCAs := x509.NewCertPool()
	clientCAs.AddCert(cliPair.Cert)

	srv := httptest.NewUnstartedServer(h)
	srv.TLS = &tls.Config{
		Certificates: []tls.Certificate{srvPair.TLSCertificate()},
		ClientAuth:   tls.RequireAndVerifyClientCert,
		ClientCAs:    clientCAs,
	}
	srv.StartTLS()
	t.Cleanup(srv.Close)

	roots := x509.NewCertPool()
	roots.AddCert(srvPair.Cert)

	return &fixture{server: srv, client: cliPair, roots: roots}
}

func (f *fixture) transport(opts ...Option) *HTTPTransport {
	id := tlsid.NewIdentity(f.client.TLSCertificate(), &f.client.Key.PublicKey, nil)
	opts = append([]Option{WithRootCAs(f.roots), WithEndpoint(efatura.Test, f.server.URL)}, opts...)
	return New(id, opts...)
}

func TestDo_PostsEnvelopeOverMutualTLS(t *testing.T) {
	var (
		gotBody   []byte
		gotHeader http.Header
		peerCN    string
	)
	f := newFixture(t, func(w http.ResponseWriter, r *http.Request) {
		gotBody, _ = io.ReadAll(r.Body)
		gotHeader = r.Header.Clone()
		if len(r.TLS.PeerCertificates) > 0 {
			peerCN = r.TLS.PeerCertificates[0].Subject.CommonName
		}
		w.Header().Set("Content-Type", ContentType)
		_, _ = w.Write([]byte("<Envelope/>"))
	})

	resp, err := f.transport().Do(context.Background(), efatura.Test, []byte("<S:Envelope/>"))
	require.NoError(t, err)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.True(t, resp.IsSuccess())
	assert.Equal(t, "<Envelope/>", string(resp.Body))
	assert.Equal(t, "<S:Envelope/>", string(gotBody))
	assert.Equal(t, ContentType, gotHeader.Get("Content-Type"))
	assert.Equal(t, soap.SOAPAction, gotHeader.Get("SOAPAction"))
	assert.Equal(t, "123456789", peerCN)
}

func TestDo_NonSuccessStatusIsNotAnError(t *testing.T) {
	f := newFixture(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte("boom"))
	})

	resp, err := f.transport().Do(context.Background(), efatura.Test, []byte("x"))
	require.NoError(t, err)
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	assert.False(t, resp.IsSuccess())
	assert.Equal(t, "boom", string(resp.Body))
}

func TestDo_TimeoutIsTransportError(t *testing.T) {
	release := make(chan struct{})
	f := newFixture(t, func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	})
	defer close(release)

	_, err := f.transport(WithTimeout(200*time.Millisecond)).Do(context.Background(), efatura.Test, []byte("x"))
	var te *efatura.TransportError
	require.ErrorAs(t, err, &te)
	assert.Zero(t, te.Status)
}

func TestDo_PoolSizeBoundsConcurrentConnections(t *testing.T) {
	var active, peak int32
	f := newFixture(t, func(w http.ResponseWriter, r *http.Request) {
		n := atomic.AddInt32(&active, 1)
		for {
			p := atomic.LoadInt32(&peak)
			if n <= p || atomic.CompareAndSwapInt32(&peak, p, n) {
				break
			}
		}
		time.Sleep(200 * time.Millisecond)
		atomic.AddInt32(&active, -1)
		_, _ = w.Write([]byte("<Envelope/>"))
	})
	tr := f.transport(WithPoolSize(2))

	const callers = 8
	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		errs []error
		done int
	)
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			resp, err := tr.Do(context.Background(), efatura.Test, []byte("<S:Envelope/>"))
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				errs = append(errs, err)
				return
			}
			if resp.IsSuccess() {
				done++
			}
		}()
	}
	wg.Wait()

	assert.Empty(t, errs)
	assert.Equal(t, callers, done, "extra callers wait for a free connection")
	assert.LessOrEqual(t, atomic.LoadInt32(&peak), int32(2))
	assert.GreaterOrEqual(t, atomic.LoadInt32(&peak), int32(1))
}

func TestDo_UntrustedServerIsTransportError(t *testing.T) {
	f := newFixture(t, func(w http.ResponseWriter, r *http.Request) {})

	id := tlsid.NewIdentity(f.client.TLSCertificate(), &f.client.Key.PublicKey, nil)
	tr := New(id, WithRootCAs(x509.NewCertPool()), WithEndpoint(efatura.Test, f.server.URL))

	_, err := tr.Do(context.Background(), efatura.Test, []byte("x"))
	var te *efatura.TransportError
	assert.ErrorAs(t, err, &te)
}

func TestEndpointDefaults(t *testing.T) {
	p := testpki.New(t, "c")
	tr := New(tlsid.NewIdentity(p.TLSCertificate(), &p.Key.PublicKey, nil), WithEndpoint(efatura.Prod, ""))

	assert.Equal(t, efatura.Test.BaseURL(), tr.Endpoint(efatura.Test))
	assert.Equal(t, efatura.Prod.BaseURL(), tr.Endpoint(efatura.Prod))
}

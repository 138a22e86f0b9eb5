// Package transport wysyła koperty SOAP do usługi AT po mTLS.
package transport

import (
	"context"
	"crypto/x509"
	"net/http"
	"time"

	"github.com/alapierre/go-efatura-connector/efatura"
	"github.com/alapierre/go-efatura-connector/efatura/soap"
	"github.com/alapierre/go-efatura-connector/efatura/tlsid"
	"github.com/alapierre/go-efatura-connector/efatura/util"
	"github.com/go-resty/resty/v2"
	"github.com/sirupsen/logrus"
)

var logger = logrus.WithField("component", "efatura.transport")

const (
	DefaultPoolSize = 20
	DefaultTimeout  = 60 * time.Second

	ContentType = "text/xml; charset=utf-8"
)

type Response struct {
	StatusCode int
	Body       []byte
}

// IsSuccess reports a 2xx status.
func (r *Response) IsSuccess() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}

// HTTPTransport jeden na tożsamość, współdzielony przez wszystkie zapytania.
// Pula połączeń jest ograniczona; po jej wyczerpaniu wywołujący czekają na wolne połączenie.
type HTTPTransport struct {
	rest      *resty.Client
	endpoints map[efatura.Environment]string
}

type config struct {
	poolSize  int
	timeout   time.Duration
	endpoints map[efatura.Environment]string
	rootCAs   *x509.CertPool
}

type Option func(*config)

func WithPoolSize(n int) Option {
	return func(c *config) {
		if n > 0 {
			c.poolSize = n
		}
	}
}

func WithTimeout(d time.Duration) Option {
	return func(c *config) {
		if d > 0 {
			c.timeout = d
		}
	}
}

// WithEndpoint nadpisuje domyślny adres usługi dla środowiska.
func WithEndpoint(env efatura.Environment, url string) Option {
	return func(c *config) {
		if url != "" {
			c.endpoints[env] = url
		}
	}
}

// WithRootCAs ustawia zaufane CA serwera; domyślnie systemowe.
func WithRootCAs(pool *x509.CertPool) Option {
	return func(c *config) { c.rootCAs = pool }
}

func New(id *tlsid.Identity, opts ...Option) *HTTPTransport {
	cfg := &config{
		poolSize: DefaultPoolSize,
		timeout:  DefaultTimeout,
		endpoints: map[efatura.Environment]string{
			efatura.Test: efatura.Test.BaseURL(),
			efatura.Prod: efatura.Prod.BaseURL(),
		},
	}
	for _, o := range opts {
		o(cfg)
	}

	tlsConfig := id.TLSConfig()
	if cfg.rootCAs != nil {
		tlsConfig.RootCAs = cfg.rootCAs
	}

	ht := &http.Transport{
		Proxy:               http.ProxyFromEnvironment,
		TLSClientConfig:     tlsConfig,
		MaxConnsPerHost:     cfg.poolSize,
		MaxIdleConnsPerHost: cfg.poolSize,
		MaxIdleConns:        cfg.poolSize * 2,
		IdleConnTimeout:     90 * time.Second,
		TLSHandshakeTimeout: 15 * time.Second,
	}

	rest := resty.New().
		SetTransport(ht).
		SetTimeout(cfg.timeout).
		SetHeader("Content-Type", ContentType).
		SetHeader("SOAPAction", soap.SOAPAction)

	logger.WithFields(logrus.Fields{
		"pool_size": cfg.poolSize,
		"timeout":   cfg.timeout.String(),
	}).Debug("transport initialised")

	return &HTTPTransport{rest: rest, endpoints: cfg.endpoints}
}

// Endpoint zwraca adres, pod który trafią żądania dla środowiska.
func (t *HTTPTransport) Endpoint(env efatura.Environment) string {
	return t.endpoints[env]
}

// Do wysyła kopertę metodą POST. Status spoza 2xx nie jest błędem tej warstwy;
// błąd oznacza brak odpowiedzi (TLS, socket, timeout) i jest zawsze *efatura.TransportError.
func (t *HTTPTransport) Do(ctx context.Context, env efatura.Environment, envelope []byte) (*Response, error) {
	url, ok := t.endpoints[env]
	if !ok {
		return nil, &efatura.TransportError{Err: &efatura.ConfigError{Field: "environment", Msg: "no endpoint for " + env.String()}}
	}

	r := t.rest.R().SetContext(ctx).SetBody(envelope)
	trace := util.HttpTraceEnabled()
	if trace {
		r.EnableTrace()
	}

	resp, err := r.Post(url)
	if err != nil {
		logger.WithField("endpoint", url).Errorf("request failed: %v", err)
		return nil, &efatura.TransportError{Err: err}
	}

	if trace {
		printTraceInfo(url, resp)
	}

	return &Response{StatusCode: resp.StatusCode(), Body: resp.Body()}, nil
}

func printTraceInfo(url string, resp *resty.Response) {
	ti := resp.Request.TraceInfo()
	logger.WithFields(logrus.Fields{
		"endpoint":      url,
		"status":        resp.StatusCode(),
		"proto":         resp.Proto(),
		"tls_handshake": ti.TLSHandshake.String(),
		"server_time":   ti.ServerTime.String(),
		"total_time":    ti.TotalTime.String(),
		"conn_reused":   ti.IsConnReused,
	}).Debug("AT response")
	logger.Tracef("AT response body: %s", soap.Preview(resp.Body(), 4096))
}

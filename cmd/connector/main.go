package main

import (
	"os"
	"time"

	"github.com/alapierre/go-efatura-connector/efatura"
	"github.com/alapierre/go-efatura-connector/efatura/cipher"
	"github.com/alapierre/go-efatura-connector/efatura/invoices"
	"github.com/alapierre/go-efatura-connector/efatura/tlsid"
	"github.com/alapierre/go-efatura-connector/efatura/transport"
	"github.com/alapierre/go-efatura-connector/efatura/util"
	"github.com/alapierre/go-efatura-connector/internal/config"
	"github.com/alapierre/go-efatura-connector/internal/server"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

func main() {

	cfg, err := config.Load()
	if err != nil {
		logrus.Fatalf("Failed to load configuration: %v", err)
	}
	setupLogging(cfg)

	// kwoty w JSON jako liczby, nie napisy
	decimal.MarshalJSONWithoutQuotes = true

	identity, err := tlsid.Load(cfg.TLSSource())
	if err != nil {
		logrus.Fatalf("Failed to load TLS identity: %v", err)
	}

	logrus.WithField("not_after", identity.CounterpartyNotAfter().Format(time.RFC3339)).
		Info("AT encryption certificate loaded")

	encryptor := cipher.NewEncryptionService(identity.CounterpartyKey())
	httpTransport := transport.New(identity, cfg.TransportOptions()...)
	client := invoices.NewClient(httpTransport, encryptor, invoices.WithPageSize(cfg.Upstream.PageSize))

	logrus.WithFields(logrus.Fields{
		"endpoint_test": httpTransport.Endpoint(efatura.Test),
		"page_size":     client.PageSize(),
	}).Info("e-Fatura connector configured")

	srv := server.New(cfg.Addr(), cfg.APIToken, client)
	if err := srv.Start(); err != nil {
		logrus.Errorf("Server error: %v", err)
		os.Exit(1)
	}
}

func setupLogging(cfg *config.Config) {
	if cfg.LogFormat == "json" {
		logrus.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}

	if cfg.Debug || util.DebugEnabled() {
		logrus.SetLevel(logrus.DebugLevel)
		gin.SetMode(gin.DebugMode)
	} else {
		logrus.SetLevel(logrus.InfoLevel)
		gin.SetMode(gin.ReleaseMode)
	}
	if util.HttpTraceEnabled() {
		logrus.SetLevel(logrus.TraceLevel)
	}
}

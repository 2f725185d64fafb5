package config

import (
	"crypto/tls"
	"crypto/x509"
	"log"
	"net"
)

// CreatePostgresTLSConfig builds the TLS config for the record store.
// Returns nil when no CA cert is configured (plain connection, local
// development).
func (c *Config) CreatePostgresTLSConfig() *tls.Config {
	if c.DBCACert == "" {
		return nil
	}
	rootCertPool := x509.NewCertPool()
	if ok := rootCertPool.AppendCertsFromPEM([]byte(c.DBCACert)); !ok {
		log.Fatal("failed to parse Postgres CA certificate")
	}
	return &tls.Config{
		RootCAs:    rootCertPool,
		ServerName: c.DBHost,
	}
}

// CreateKafkaTLSConfig builds the TLS config for the batch consumer.
// Returns nil when brokers run without TLS.
func (c *Config) CreateKafkaTLSConfig() *tls.Config {
	if c.KafkaCACert == "" {
		return nil
	}
	rootCertPool := x509.NewCertPool()
	if ok := rootCertPool.AppendCertsFromPEM([]byte(c.KafkaCACert)); !ok {
		log.Fatal("failed to parse Kafka CA certificate")
	}

	// ServerName must match a SAN in the broker certificate; brokers
	// are listed host:port so strip the port when present.
	var serverName string
	if len(c.KafkaBrokers) > 0 {
		host, _, err := net.SplitHostPort(c.KafkaBrokers[0])
		if err != nil {
			serverName = c.KafkaBrokers[0]
		} else {
			serverName = host
		}
	}

	cfg := &tls.Config{
		RootCAs:    rootCertPool,
		ServerName: serverName,
		MinVersion: tls.VersionTLS12,
	}

	if c.KafkaCert != "" && c.KafkaKey != "" {
		cert, err := tls.X509KeyPair([]byte(c.KafkaCert), []byte(c.KafkaKey))
		if err != nil {
			log.Fatal("failed to load Kafka client certificate: ", err)
		}
		cfg.Certificates = []tls.Certificate{cert}
	}

	return cfg
}

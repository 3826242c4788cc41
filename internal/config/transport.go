package config

import (
	"crypto/tls"
	"fmt"

	"github.com/paybridge/gateway/internal/transport"
)

// SenderConfig translates the transport section into the sender's own
// config, loading the client certificate when one is configured.
func (c TransportConfig) SenderConfig() (transport.Config, error) {
	cfg := transport.Config{Timeout: c.Timeout}

	if c.ClientCertFile != "" || c.ClientKeyFile != "" {
		if c.ClientCertFile == "" || c.ClientKeyFile == "" {
			return cfg, fmt.Errorf("client cert and key must be configured together")
		}
		cert, err := tls.LoadX509KeyPair(c.ClientCertFile, c.ClientKeyFile)
		if err != nil {
			return cfg, fmt.Errorf("loading client certificate: %w", err)
		}
		cfg.ClientCert = &cert
	}

	return cfg, nil
}

package grpcservice

import (
	"crypto/tls"
	"fmt"
	"net"
)

type Config struct {
	Port        uint32
	NoTLS       bool
	TLSCertPath string
	TLSKeyPath  string
	// EnableFund exposes the Fund rpc, development only.
	EnableFund bool
}

func (c Config) Validate() error {
	lis, err := net.Listen("tcp", c.address())
	if err != nil {
		return fmt.Errorf("invalid port: %s", err)
	}
	//nolint:errcheck
	lis.Close()

	if !c.insecure() {
		if _, err := c.tlsConfig(); err != nil {
			return err
		}
	}
	return nil
}

func (c Config) insecure() bool {
	return c.NoTLS
}

func (c Config) address() string {
	return fmt.Sprintf(":%d", c.Port)
}

func (c Config) tlsConfig() (*tls.Config, error) {
	if c.insecure() {
		return nil, nil
	}
	if c.TLSCertPath == "" || c.TLSKeyPath == "" {
		return nil, fmt.Errorf("missing tls cert or key path")
	}
	cert, err := tls.LoadX509KeyPair(c.TLSCertPath, c.TLSKeyPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load tls key pair: %s", err)
	}
	return &tls.Config{
		MinVersion:   tls.VersionTLS12,
		NextProtos:   []string{"h2"},
		Certificates: []tls.Certificate{cert},
	}, nil
}

// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package kanboard

import (
	"crypto/tls"
	"crypto/x509"
	"errors"
	"fmt"
	"os"
)

// TLSConfig builds the TLS policy for cfg.
//
// The system trust store is used unless CAFile is set. Insecure turns off
// certificate and hostname verification. IgnoreHostnameVerification keeps
// chain validation but accepts any server name.
func TLSConfig(cfg Config) (*tls.Config, error) {
	tlsCfg := &tls.Config{MinVersion: tls.VersionTLS12}

	var roots *x509.CertPool
	if cfg.CAFile != "" {
		pem, err := os.ReadFile(cfg.CAFile)
		if err != nil {
			return nil, fmt.Errorf("read ca file: %w", err)
		}
		roots = x509.NewCertPool()
		if !roots.AppendCertsFromPEM(pem) {
			return nil, fmt.Errorf("ca file %s: no certificates found", cfg.CAFile)
		}
		tlsCfg.RootCAs = roots
	}

	switch {
	case cfg.Insecure:
		tlsCfg.InsecureSkipVerify = true
	case cfg.IgnoreHostnameVerification:
		// The standard verifier always checks the name, so run the chain
		// check ourselves without one.
		tlsCfg.InsecureSkipVerify = true
		tlsCfg.VerifyConnection = verifyChainOnly(roots)
	}
	return tlsCfg, nil
}

func verifyChainOnly(roots *x509.CertPool) func(tls.ConnectionState) error {
	return func(cs tls.ConnectionState) error {
		if len(cs.PeerCertificates) == 0 {
			return errors.New("tls: server presented no certificates")
		}
		opts := x509.VerifyOptions{
			Roots:         roots,
			Intermediates: x509.NewCertPool(),
		}
		for _, cert := range cs.PeerCertificates[1:] {
			opts.Intermediates.AddCert(cert)
		}
		_, err := cs.PeerCertificates[0].Verify(opts)
		return err
	}
}

package cert

import (
	"crypto/tls"
	"crypto/x509"
	"encoding/pem"

	"github.com/pkg/errors"
)

// InitTLSConfig returns a tls.Config populated with default encryption
// parameters. This is used as baseline config for both ends of the repair
// protocol channel.
func InitTLSConfig() *tls.Config {
	return &tls.Config{
		MinVersion: tls.VersionTLS12,
		CipherSuites: []uint16{
			tls.TLS_ECDHE_ECDSA_WITH_AES_256_GCM_SHA384,
			tls.TLS_ECDHE_ECDSA_WITH_AES_128_GCM_SHA256,
			tls.TLS_ECDHE_RSA_WITH_AES_256_GCM_SHA384,
			tls.TLS_ECDHE_RSA_WITH_AES_128_GCM_SHA256,
		},
	}
}

// ClientTLSConfig returns a TLS configuration presenting the session
// keypair and trusting exactly the given daemon certificate. The daemon
// certificate is pinned: it becomes the only root of trust and supplies
// the expected server name.
func ClientTLSConfig(info *Info, serverCertPEM string) (*tls.Config, error) {
	config := InitTLSConfig()
	config.Certificates = []tls.Certificate{
		info.KeyPair(),
	}

	certBlock, _ := pem.Decode([]byte(serverCertPEM))
	if certBlock == nil {
		return nil, errors.Errorf("invalid daemon certificate")
	}
	serverCert, err := x509.ParseCertificate(certBlock.Bytes)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	// Make the pinned certificate a valid root.
	serverCert.IsCA = true
	serverCert.KeyUsage = x509.KeyUsageCertSign

	pool := x509.NewCertPool()
	pool.AddCert(serverCert)
	config.RootCAs = pool

	if len(serverCert.DNSNames) > 0 {
		config.ServerName = serverCert.DNSNames[0]
	}
	return config, nil
}

// ServerTLSConfig returns a new server-side tls.Config generated from the
// given certificate info.
func ServerTLSConfig(info *Info) *tls.Config {
	config := InitTLSConfig()
	config.ClientAuth = tls.RequestClientCert
	config.Certificates = []tls.Certificate{
		info.KeyPair(),
	}
	return config
}

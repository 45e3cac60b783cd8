package cert

import (
	"crypto/rsa"
	"crypto/sha256"
	"crypto/tls"
	"crypto/x509"
	"encoding/pem"
	"fmt"
)

// Info captures TLS certificate information about a public/private keypair.
// The protocol client generates one of these per session, and pins the
// daemon's certificate against it.
type Info struct {
	keypair tls.Certificate
}

// NewInfo creates a new cert.Info with sane defaults.
func NewInfo(keypair tls.Certificate) *Info {
	return &Info{
		keypair: keypair,
	}
}

// KeyPair returns the public/private key pair.
func (c *Info) KeyPair() tls.Certificate {
	return c.keypair
}

// PublicKey is a convenience to encode the underlying public key to ASCII.
func (c *Info) PublicKey() []byte {
	data := c.KeyPair().Certificate[0]
	return pem.EncodeToMemory(&pem.Block{Type: "CERTIFICATE", Bytes: data})
}

// PrivateKey is a convenience to encode the underlying private key.
func (c *Info) PrivateKey() []byte {
	key, ok := c.KeyPair().PrivateKey.(*rsa.PrivateKey)
	if !ok {
		return nil
	}
	data := x509.MarshalPKCS1PrivateKey(key)
	return pem.EncodeToMemory(&pem.Block{Type: "RSA PRIVATE KEY", Bytes: data})
}

// Fingerprint returns the sha256 fingerprint of the certificate.
func (c *Info) Fingerprint() string {
	return fmt.Sprintf("%x", sha256.Sum256(c.KeyPair().Certificate[0]))
}

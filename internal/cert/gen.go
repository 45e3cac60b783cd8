package cert

import (
	"crypto/rand"
	"crypto/rsa"
	"crypto/tls"
	"crypto/x509"
	"crypto/x509/pkix"
	"encoding/pem"
	"fmt"
	"math/big"
	"net"
	"os"
	"os/user"
	"time"

	"github.com/pkg/errors"
	"github.com/spoke-d/filament/internal/clock"
)

const defaultCertValidPeriod = 10 * 365 * 24 * time.Hour

// OS is a high-level facade for the operating-system level functionality
// certificate generation uses.
type OS interface {

	// Hostname returns the host name reported by the kernel.
	Hostname() (string, error)

	// User returns the current user.
	User() (*user.User, error)
}

// CertGenerator attempts to generate certificates and keys
type CertGenerator struct {
	clock        clock.Clock
	os           OS
	bits         int
	organization []string
}

// CertKey represents a tuple of Certificates and Keys as a pair.
type CertKey struct {
	Cert, Key []byte
}

// NewCertGenerator creates a new CertGenerator with sane defaults
func NewCertGenerator(organization []string, options ...Option) *CertGenerator {
	opts := newOptions()
	for _, option := range options {
		option(opts)
	}

	return &CertGenerator{
		clock:        opts.clock,
		os:           opts.os,
		bits:         opts.bits,
		organization: organization,
	}
}

// GenerateMemCert creates a client or server certificate and key pair,
// returning them as byte arrays in memory.
func (g *CertGenerator) GenerateMemCert(client bool) (CertKey, error) {
	privateKey, err := rsa.GenerateKey(rand.Reader, g.bits)
	if err != nil {
		return CertKey{}, errors.Wrap(err, "failed to generate key")
	}

	validFrom := g.clock.Now()
	validTo := validFrom.Add(defaultCertValidPeriod)

	serialNumberLimit := new(big.Int).Lsh(big.NewInt(1), 128)
	serialNumber, err := rand.Int(rand.Reader, serialNumberLimit)
	if err != nil {
		return CertKey{}, errors.Wrap(err, "failed to generate serial number")
	}

	username := "UNKNOWN"
	userEntry, err := g.os.User()
	if err == nil && userEntry.Username != "" {
		username = userEntry.Username
	}

	hostname, err := g.os.Hostname()
	if err != nil {
		hostname = "UNKNOWN"
	}

	template := x509.Certificate{
		SerialNumber: serialNumber,
		Subject: pkix.Name{
			Organization: g.organization,
			CommonName:   fmt.Sprintf("%s@%s", username, hostname),
		},
		NotBefore: validFrom,
		NotAfter:  validTo,

		KeyUsage:              x509.KeyUsageKeyEncipherment | x509.KeyUsageDigitalSignature,
		BasicConstraintsValid: true,
	}

	if client {
		template.ExtKeyUsage = []x509.ExtKeyUsage{
			x509.ExtKeyUsageClientAuth,
		}
	} else {
		template.ExtKeyUsage = []x509.ExtKeyUsage{
			x509.ExtKeyUsageServerAuth,
		}
		template.DNSNames = append(template.DNSNames, hostname)
		template.IPAddresses = append(template.IPAddresses, net.ParseIP("127.0.0.1"))
	}

	derBytes, err := x509.CreateCertificate(
		rand.Reader,
		&template,
		&template,
		&privateKey.PublicKey,
		privateKey,
	)
	if err != nil {
		return CertKey{}, errors.Wrap(err, "failed to create certificate")
	}

	cert := pemEncodeCert(derBytes)
	key := pemEncodeKey(x509.MarshalPKCS1PrivateKey(privateKey))

	return CertKey{
		Cert: cert,
		Key:  key,
	}, nil
}

// GenerateSessionInfo creates an ephemeral in-memory client keypair and
// wraps it in an Info, ready for use as TLS client credentials.
func (g *CertGenerator) GenerateSessionInfo() (*Info, error) {
	certKey, err := g.GenerateMemCert(true)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	keypair, err := tls.X509KeyPair(certKey.Cert, certKey.Key)
	if err != nil {
		return nil, errors.Wrap(err, "invalid keypair material")
	}
	return NewInfo(keypair), nil
}

func pemEncodeCert(der []byte) []byte {
	return pem.EncodeToMemory(&pem.Block{Type: "CERTIFICATE", Bytes: der})
}

func pemEncodeKey(der []byte) []byte {
	return pem.EncodeToMemory(&pem.Block{Type: "RSA PRIVATE KEY", Bytes: der})
}

type osShim struct{}

func (osShim) Hostname() (string, error) {
	return os.Hostname()
}

func (osShim) User() (*user.User, error) {
	return user.Current()
}

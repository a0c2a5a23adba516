package provisioner

import (
	"context"
	"crypto/rand"
	"crypto/rsa"
	"crypto/sha1"
	"crypto/x509"
	"crypto/x509/pkix"
	"encoding/pem"
	"fmt"
	"math/big"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/mcp-sharepoint/cert-setup/internal/app/toolrunner"
)

// fakeOpenSSL answers the two openssl invocations made by the provisioner using crypto/x509
type fakeOpenSSL struct {
	calls [][]string
}

func (f *fakeOpenSSL) Run(_ context.Context, args ...string) (*toolrunner.Result, error) {
	f.calls = append(f.calls, args)

	flags := map[string]string{}
	for i := 1; i < len(args)-1; i++ {
		if strings.HasPrefix(args[i], "-") && !strings.HasPrefix(args[i+1], "-") {
			flags[args[i]] = args[i+1]
		}
	}

	var err error
	var stdout string

	switch args[0] {
	case "req":
		err = f.req(flags)
	case "x509":
		stdout, err = f.fingerprint(flags["-in"])
	default:
		err = fmt.Errorf("unsupported command %q", args[0])
	}

	if err != nil {
		return &toolrunner.Result{Stderr: []byte(err.Error()), ExitCode: 1}, nil
	}
	return &toolrunner.Result{Stdout: []byte(stdout)}, nil
}

func (f *fakeOpenSSL) req(flags map[string]string) error {
	days, err := strconv.Atoi(flags["-days"])
	if err != nil {
		return err
	}

	subject := pkix.Name{}
	for _, part := range splitSubject(flags["-subj"]) {
		kv := strings.SplitN(part, "=", 2)
		if len(kv) != 2 {
			return fmt.Errorf("Missing '=' after RDN type string %q", part)
		}
		switch kv[0] {
		case "CN":
			subject.CommonName = kv[1]
		case "O":
			subject.Organization = []string{kv[1]}
		}
	}

	key, err := rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		return err
	}

	serialNumber, err := rand.Int(rand.Reader, new(big.Int).Lsh(big.NewInt(1), 128))
	if err != nil {
		return err
	}

	template := x509.Certificate{
		SerialNumber:          serialNumber,
		Subject:               subject,
		NotBefore:             time.Now(),
		NotAfter:              time.Now().AddDate(0, 0, days),
		BasicConstraintsValid: true,
	}

	der, err := x509.CreateCertificate(rand.Reader, &template, &template, &key.PublicKey, key)
	if err != nil {
		return err
	}

	keyDer, err := x509.MarshalPKCS8PrivateKey(key)
	if err != nil {
		return err
	}

	if err = os.WriteFile(flags["-keyout"], pem.EncodeToMemory(&pem.Block{Type: "PRIVATE KEY", Bytes: keyDer}), 0o600); err != nil {
		return err
	}
	return os.WriteFile(flags["-out"], pem.EncodeToMemory(&pem.Block{Type: "CERTIFICATE", Bytes: der}), 0o644)
}

// splitSubject splits "/CN=a/O=b" into RDNs, honouring backslash escapes the way openssl -subj does
func splitSubject(subj string) []string {
	var parts []string
	var current strings.Builder

	escaped := false
	for _, r := range strings.TrimPrefix(subj, "/") {
		switch {
		case escaped:
			current.WriteRune(r)
			escaped = false
		case r == '\\':
			escaped = true
		case r == '/':
			parts = append(parts, current.String())
			current.Reset()
		default:
			current.WriteRune(r)
		}
	}
	return append(parts, current.String())
}

func (f *fakeOpenSSL) fingerprint(path string) (string, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}

	block, _ := pem.Decode(raw)
	if block == nil {
		return "", fmt.Errorf("unable to load certificate %s", path)
	}

	return "sha1 Fingerprint=" + colonHex(sha1.Sum(block.Bytes)) + "\n", nil
}

func colonHex(sum [sha1.Size]byte) string {
	parts := make([]string, 0, len(sum))
	for _, b := range sum {
		parts = append(parts, fmt.Sprintf("%02X", b))
	}
	return strings.Join(parts, ":")
}

func parseCertificatePEM(content []byte) (*x509.Certificate, error) {
	block, _ := pem.Decode(content)
	if block == nil || block.Type != "CERTIFICATE" {
		return nil, fmt.Errorf("no certificate found")
	}

	certificate, err := x509.ParseCertificate(block.Bytes)
	if err != nil {
		return nil, fmt.Errorf("error parsing TLS certificate: %s", err)
	}

	return certificate, nil
}

// Package domain contains shared definitions.
package domain

// CertificateBundle represents the files written by a successful certificate generation.
type CertificateBundle struct {
	CertificatePath string `json:"cert_path"`
	PrivateKeyPath  string `json:"key_path"`
	CombinedPath    string `json:"pem_path"`
	// Fingerprint is the SHA-1 thumbprint of the certificate as 40 uppercase hex characters
	Fingerprint string `json:"thumbprint"`
}

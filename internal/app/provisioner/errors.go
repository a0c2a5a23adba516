package provisioner

import (
	"errors"
	"fmt"
)

var (
	// ErrToolMissing is returned when openssl is not installed or not on the PATH
	ErrToolMissing = errors.New("certificate tool not found")
	// ErrGenerationFailed is returned when openssl fails to create the key and certificate
	ErrGenerationFailed = errors.New("certificate generation failed")
	// ErrFingerprintExtractionFailed is returned when the thumbprint cannot be read back from the certificate
	ErrFingerprintExtractionFailed = errors.New("fingerprint extraction failed")
)

// ToolError carries the diagnostic output of a failed tool invocation
type ToolError struct {
	Kind   error
	Output string
}

func (e *ToolError) Error() string {
	if e.Output == "" {
		return e.Kind.Error()
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Output)
}

func (e *ToolError) Unwrap() error {
	return e.Kind
}

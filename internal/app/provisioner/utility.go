package provisioner

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"

	"github.com/mcp-sharepoint/cert-setup/internal/app/domain"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

const fingerprintPrefix = "sha1 fingerprint="

var fingerprintPattern = regexp.MustCompile(`^[0-9A-F]{40}$`)

// parseFingerprint extracts the thumbprint from a line such as "sha1 Fingerprint=AA:BB:...".
// OpenSSL 1.x prints the algorithm as SHA1, so the prefix is matched without regard to case.
func parseFingerprint(output string) (string, error) {
	line := strings.TrimSpace(output)
	if line == "" {
		return "", fmt.Errorf("%w: empty output", ErrFingerprintExtractionFailed)
	}
	if strings.ContainsAny(line, "\r\n") {
		return "", fmt.Errorf("%w: expected a single line, got %q", ErrFingerprintExtractionFailed, line)
	}
	if len(line) < len(fingerprintPrefix) || !strings.EqualFold(line[:len(fingerprintPrefix)], fingerprintPrefix) {
		return "", fmt.Errorf("%w: unexpected output %q", ErrFingerprintExtractionFailed, line)
	}

	fingerprint := strings.ToUpper(strings.ReplaceAll(line[len(fingerprintPrefix):], ":", ""))
	if !fingerprintPattern.MatchString(fingerprint) {
		return "", fmt.Errorf("%w: malformed fingerprint %q", ErrFingerprintExtractionFailed, fingerprint)
	}

	return fingerprint, nil
}

func normalizeSubject(subject domain.Subject) (domain.Subject, error) {
	var err error

	normalized := domain.Subject{}
	if normalized.CommonName, err = normalizeUnicode(subject.CommonName); err != nil {
		return domain.Subject{}, fmt.Errorf("unable to normalize common name: %w", err)
	}
	if normalized.Organization, err = normalizeUnicode(subject.Organization); err != nil {
		return domain.Subject{}, fmt.Errorf("unable to normalize organization: %w", err)
	}

	return normalized, nil
}

func normalizeUnicode(input string) (string, error) {
	normalized, _, err := transform.String(norm.NFC, input)
	if err == nil {
		return normalized, nil
	}
	return "", err
}

func isASCII(s string) bool {
	for _, r := range s {
		if r > unicode.MaxASCII {
			return false
		}
	}
	return true
}

package provisioner

import (
	"errors"
	"testing"

	"github.com/mcp-sharepoint/cert-setup/internal/app/domain"
	"github.com/stretchr/testify/require"
)

func TestParseFingerprint(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		fingerprint, err := parseFingerprint("sha1 Fingerprint=3A:1F:9C:00:42:B7:E1:5D:6A:88:0C:FE:21:94:D3:7B:5E:AA:10:C6\n")
		require.NoError(t, err)
		require.Equal(t, "3A1F9C0042B7E15D6A880CFE2194D37B5EAA10C6", fingerprint)
	})

	t.Run("openssl 1.x prefix", func(t *testing.T) {
		fingerprint, err := parseFingerprint("SHA1 Fingerprint=3A:1F:9C:00:42:B7:E1:5D:6A:88:0C:FE:21:94:D3:7B:5E:AA:10:C6")
		require.NoError(t, err)
		require.Equal(t, "3A1F9C0042B7E15D6A880CFE2194D37B5EAA10C6", fingerprint)
	})

	t.Run("lowercase hex", func(t *testing.T) {
		fingerprint, err := parseFingerprint("sha1 Fingerprint=3a:1f:9c:00:42:b7:e1:5d:6a:88:0c:fe:21:94:d3:7b:5e:aa:10:c6")
		require.NoError(t, err)
		require.Equal(t, "3A1F9C0042B7E15D6A880CFE2194D37B5EAA10C6", fingerprint)
	})

	failures := map[string]string{
		"empty":          "",
		"wrong prefix":   "sha256 Fingerprint=3A:1F:9C:00:42:B7:E1:5D:6A:88:0C:FE:21:94:D3:7B:5E:AA:10:C6",
		"no prefix":      "3A:1F:9C:00:42:B7:E1:5D:6A:88:0C:FE:21:94:D3:7B:5E:AA:10:C6",
		"short":          "sha1 Fingerprint=3A:1F:9C",
		"not hex":        "sha1 Fingerprint=ZZ:1F:9C:00:42:B7:E1:5D:6A:88:0C:FE:21:94:D3:7B:5E:AA:10:C6",
		"multiple lines": "sha1 Fingerprint=3A:1F:9C:00:42:B7:E1:5D:6A:88:0C:FE:21:94:D3:7B:5E:AA:10:C6\nextra",
	}
	for name, output := range failures {
		output := output
		t.Run(name, func(t *testing.T) {
			fingerprint, err := parseFingerprint(output)
			require.Error(t, err)
			require.True(t, errors.Is(err, ErrFingerprintExtractionFailed))
			require.Empty(t, fingerprint)
		})
	}
}

func TestNormalizeSubject(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		// "e" followed by a combining acute accent composes to a single rune
		subject, err := normalizeSubject(domain.Subject{CommonName: "cafe\u0301", Organization: "MCP SharePoint Server"})
		require.NoError(t, err)
		require.Equal(t, "caf\u00e9", subject.CommonName)
		require.Equal(t, "MCP SharePoint Server", subject.Organization)
		require.Equal(t, "/CN=caf\u00e9/O=MCP SharePoint Server", subject.String())
	})

	t.Run("ascii", func(t *testing.T) {
		require.True(t, isASCII("/CN=mcp-sharepoint/O=MCP SharePoint Server"))
		require.False(t, isASCII("/CN=café"))
	})

	t.Run("no organization", func(t *testing.T) {
		require.Equal(t, "/CN=mcp-sharepoint", domain.Subject{CommonName: "mcp-sharepoint"}.String())
	})
}

// Package console contains the operator facing setup flow and its printed instructions
package console

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/logrusorgru/aurora"
	"github.com/mattn/go-isatty"
	"github.com/mcp-sharepoint/cert-setup/internal/app/config"
	"github.com/mcp-sharepoint/cert-setup/internal/app/domain"
	"github.com/mcp-sharepoint/cert-setup/internal/app/provisioner"
	"go.uber.org/zap"
)

//go:generate go run github.com/golang/mock/mockgen -source ./console.go -destination=./mocks/mock_console.go -package=mocks

const (
	// EnvCertificatePath is the variable the server reads the combined PEM path from
	EnvCertificatePath = "SHP_CERT_PATH"
	// EnvCertificateThumbprint is the variable the server reads the certificate thumbprint from
	EnvCertificateThumbprint = "SHP_CERT_THUMBPRINT"
)

const (
	exitOK      = 0
	exitFailure = 1
)

var rule = strings.Repeat("=", 60)

// CertificateProvisioner interfaces for generating the certificate bundle
type CertificateProvisioner interface {
	// GenerateCertificate will write the key, certificate and combined PEM and return their paths and thumbprint
	GenerateCertificate(ctx context.Context, req domain.GenerationRequest) (*domain.CertificateBundle, error)
}

// Setup runs the certificate setup and prints the follow-up steps for the operator
type Setup struct {
	Provisioner CertificateProvisioner
	Request     domain.GenerationRequest
	Tool        string
	Out         io.Writer
	Err         io.Writer

	au aurora.Aurora
}

// NewSetup will return a Setup writing to stdout and stderr, coloured when stdout is a terminal
func NewSetup(cfg *config.Config, certificateProvisioner CertificateProvisioner) *Setup {
	return &Setup{
		Provisioner: certificateProvisioner,
		Request:     cfg.Request(),
		Tool:        cfg.Tool,
		Out:         os.Stdout,
		Err:         os.Stderr,
		au:          aurora.NewAurora(isatty.IsTerminal(os.Stdout.Fd())),
	}
}

// Run will generate the certificate and print the registration steps, returning the process exit code
func (s *Setup) Run(ctx context.Context) int {
	if s.au == nil {
		s.au = aurora.NewAurora(false)
	}

	s.banner("SharePoint MCP Server - Certificate Setup")
	fmt.Fprintln(s.Out)
	fmt.Fprintln(s.Out, "Generating self-signed certificate...")

	bundle, err := s.Provisioner.GenerateCertificate(ctx, s.Request)
	if err != nil {
		zap.L().Error("certificate setup failed", zap.Error(err))
		s.printFailure(err)
		return exitFailure
	}

	fmt.Fprintf(s.Out, "  Certificate: %s\n", bundle.CertificatePath)
	fmt.Fprintf(s.Out, "  Private key: %s\n", bundle.PrivateKeyPath)
	fmt.Fprintf(s.Out, "  Combined PEM: %s\n", bundle.CombinedPath)
	fmt.Fprintf(s.Out, "  Thumbprint: %s\n", bundle.Fingerprint)
	fmt.Fprintln(s.Out)

	if err = s.printNextSteps(bundle); err != nil {
		zap.L().Error("failed to print next steps", zap.Error(err))
		fmt.Fprintf(s.Err, "%s %s\n", s.au.Red("Error:"), err)
		return exitFailure
	}

	return exitOK
}

func (s *Setup) banner(title string) {
	fmt.Fprintln(s.Out, rule)
	fmt.Fprintln(s.Out, s.au.Bold(title))
	fmt.Fprintln(s.Out, rule)
}

func (s *Setup) printNextSteps(bundle *domain.CertificateBundle) error {
	env, err := godotenv.Marshal(map[string]string{
		EnvCertificatePath:       bundle.CombinedPath,
		EnvCertificateThumbprint: bundle.Fingerprint,
	})
	if err != nil {
		return fmt.Errorf("failed to render environment: %w", err)
	}

	s.banner("NEXT STEPS")
	fmt.Fprintln(s.Out)

	fmt.Fprintln(s.Out, s.au.Cyan("1. Upload the certificate to Azure:"))
	fmt.Fprintln(s.Out, "   - Go to https://portal.azure.com")
	fmt.Fprintln(s.Out, "   - Navigate to: App registrations > Your App > Certificates & secrets")
	fmt.Fprintln(s.Out, "   - Click 'Certificates' tab > 'Upload certificate'")
	fmt.Fprintf(s.Out, "   - Upload: %s\n", bundle.CertificatePath)
	fmt.Fprintln(s.Out)

	fmt.Fprintln(s.Out, s.au.Cyan("2. Add these to your .env file:"))
	fmt.Fprintln(s.Out)
	for _, line := range strings.Split(env, "\n") {
		fmt.Fprintf(s.Out, "   %s\n", line)
	}
	fmt.Fprintln(s.Out)

	fmt.Fprintln(s.Out, s.au.Cyan("3. Make sure you have SharePoint API permissions:"))
	fmt.Fprintln(s.Out, "   - App registrations > Your App > API permissions")
	fmt.Fprintln(s.Out, "   - Add permission > SharePoint > Application permissions")
	fmt.Fprintln(s.Out, "   - Select: Sites.FullControl.All (or Sites.ReadWrite.All)")
	fmt.Fprintln(s.Out, "   - Click 'Grant admin consent'")
	fmt.Fprintln(s.Out)

	fmt.Fprintln(s.Out, rule)
	fmt.Fprintln(s.Out, s.au.Green("Setup complete! Run 'mcp-sharepoint' to start the server."))
	fmt.Fprintln(s.Out, rule)

	return nil
}

func (s *Setup) printFailure(err error) {
	var toolErr *provisioner.ToolError

	switch {
	case errors.Is(err, provisioner.ErrToolMissing):
		fmt.Fprintf(s.Err, "%s %s not found. Please install OpenSSL.\n", s.au.Red("Error:"), s.Tool)
		for _, hint := range installHints {
			fmt.Fprintf(s.Err, "  %s: %s\n", hint.platform, hint.command)
		}
	case errors.Is(err, provisioner.ErrGenerationFailed) && errors.As(err, &toolErr) && toolErr.Output != "":
		fmt.Fprintf(s.Err, "%s %s\n", s.au.Red("Error generating certificate:"), toolErr.Output)
	case errors.Is(err, provisioner.ErrGenerationFailed):
		fmt.Fprintf(s.Err, "%s %s\n", s.au.Red("Error generating certificate:"), err)
	default:
		fmt.Fprintf(s.Err, "%s %s\n", s.au.Red("Error:"), err)
	}
}

type installHint struct {
	platform string
	command  string
}

var installHints = []installHint{
	{"macOS", "brew install openssl"},
	{"Ubuntu/Debian", "sudo apt install openssl"},
	{"Fedora/RHEL", "sudo dnf install openssl"},
	{"Windows", "winget install ShiningLight.OpenSSL.Light (or https://slproweb.com/products/Win32OpenSSL.html)"},
}

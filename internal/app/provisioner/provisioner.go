// Package provisioner generates the self-signed certificate used for SharePoint app-only authentication
package provisioner

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/mcp-sharepoint/cert-setup/internal/app/config"
	"github.com/mcp-sharepoint/cert-setup/internal/app/domain"
	"github.com/mcp-sharepoint/cert-setup/internal/app/toolrunner"
	"go.uber.org/zap"
)

// ProvisionerImpl generates certificates by invoking openssl through a ToolRunner
type ProvisionerImpl struct {
	Runner  toolrunner.ToolRunner
	Subject domain.Subject
	Files   domain.FileNames
}

// NewProvisioner will return a new ProvisionerImpl using the subject and file names from cfg
func NewProvisioner(cfg *config.Config, runner toolrunner.ToolRunner) *ProvisionerImpl {
	return &ProvisionerImpl{
		Runner:  runner,
		Subject: cfg.Subject,
		Files:   cfg.Files,
	}
}

// GenerateCertificate will create the key, certificate and combined PEM files in the requested directory and
// return their paths along with the certificate's SHA-1 fingerprint
func (p *ProvisionerImpl) GenerateCertificate(ctx context.Context, req domain.GenerationRequest) (*domain.CertificateBundle, error) {
	if err := os.MkdirAll(req.OutputDirectory, 0o755); err != nil {
		zap.L().Debug("failed to create output directory", zap.String("directory", req.OutputDirectory), zap.Error(err))
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	bundle := &domain.CertificateBundle{
		CertificatePath: filepath.Join(req.OutputDirectory, p.Files.Certificate),
		PrivateKeyPath:  filepath.Join(req.OutputDirectory, p.Files.Key),
		CombinedPath:    filepath.Join(req.OutputDirectory, p.Files.Combined),
	}

	if err := p.generate(ctx, bundle, req.ValidityDays); err != nil {
		return nil, err
	}

	if err := combine(bundle); err != nil {
		return nil, err
	}

	fingerprint, err := p.fingerprint(ctx, bundle.CertificatePath)
	if err != nil {
		return nil, err
	}
	bundle.Fingerprint = fingerprint

	zap.L().Info("certificate generated",
		zap.String("certificate", bundle.CertificatePath),
		zap.String("combined", bundle.CombinedPath),
		zap.String("thumbprint", bundle.Fingerprint))
	return bundle, nil
}

func (p *ProvisionerImpl) generate(ctx context.Context, bundle *domain.CertificateBundle, days int) error {
	subject, err := normalizeSubject(p.Subject)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrGenerationFailed, err)
	}

	args := []string{
		"req", "-x509", "-sha256", "-nodes",
		"-days", strconv.Itoa(days),
		"-newkey", "rsa:2048",
		"-keyout", bundle.PrivateKeyPath,
		"-out", bundle.CertificatePath,
		"-subj", subject.String(),
	}
	if !isASCII(subject.String()) {
		args = append(args, "-utf8")
	}

	zap.L().Info("generating self-signed certificate", zap.String("subject", subject.String()), zap.Int("days", days))

	result, err := p.Runner.Run(ctx, args...)
	if err != nil {
		if errors.Is(err, toolrunner.ErrToolNotFound) {
			return fmt.Errorf("%w: %v", ErrToolMissing, err)
		}
		return &ToolError{Kind: ErrGenerationFailed, Output: err.Error()}
	}

	if !result.Success() {
		output := strings.TrimSpace(string(result.Stderr))
		zap.L().Debug("openssl failed to generate the certificate", zap.Int("exitCode", result.ExitCode), zap.String("stderr", output))
		return &ToolError{Kind: ErrGenerationFailed, Output: output}
	}

	return nil
}

// combine writes the certificate bytes followed by the key bytes, unmodified, to the combined file
func combine(bundle *domain.CertificateBundle) error {
	certificate, err := os.ReadFile(bundle.CertificatePath)
	if err != nil {
		return fmt.Errorf("failed to read certificate: %w", err)
	}

	key, err := os.ReadFile(bundle.PrivateKeyPath)
	if err != nil {
		return fmt.Errorf("failed to read private key: %w", err)
	}

	combined := make([]byte, 0, len(certificate)+len(key))
	combined = append(combined, certificate...)
	combined = append(combined, key...)

	if err = os.WriteFile(bundle.CombinedPath, combined, 0o600); err != nil {
		zap.L().Debug("failed to write combined PEM", zap.String("path", bundle.CombinedPath), zap.Error(err))
		return fmt.Errorf("failed to write combined PEM: %w", err)
	}

	return nil
}

func (p *ProvisionerImpl) fingerprint(ctx context.Context, certificatePath string) (string, error) {
	result, err := p.Runner.Run(ctx, "x509", "-in", certificatePath, "-fingerprint", "-sha1", "-noout")
	if err != nil {
		zap.L().Debug("failed to read certificate fingerprint", zap.Error(err))
		return "", &ToolError{Kind: ErrFingerprintExtractionFailed, Output: err.Error()}
	}

	if !result.Success() {
		output := strings.TrimSpace(string(result.Stderr))
		zap.L().Debug("openssl failed to read the fingerprint", zap.Int("exitCode", result.ExitCode), zap.String("stderr", output))
		return "", &ToolError{Kind: ErrFingerprintExtractionFailed, Output: output}
	}

	return parseFingerprint(string(result.Stdout))
}

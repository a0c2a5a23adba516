package domain

import (
	"fmt"
	"strings"
)

var subjectEscaper = strings.NewReplacer(`\`, `\\`, "/", `\/`)

// GenerationRequest contains the per-run inputs for generating a certificate
type GenerationRequest struct {
	OutputDirectory string
	ValidityDays    int
}

// Subject represents the distinguished name of the generated certificate
type Subject struct {
	CommonName   string `koanf:"common_name"`
	Organization string `koanf:"organization"`
}

// String renders the subject in the slash separated form understood by openssl -subj.
// Backslashes and slashes inside values are escaped with a backslash.
func (s Subject) String() string {
	if s.Organization == "" {
		return fmt.Sprintf("/CN=%s", subjectEscaper.Replace(s.CommonName))
	}
	return fmt.Sprintf("/CN=%s/O=%s", subjectEscaper.Replace(s.CommonName), subjectEscaper.Replace(s.Organization))
}

// FileNames are the names of the files written inside the output directory
type FileNames struct {
	Key         string `koanf:"key"`
	Certificate string `koanf:"certificate"`
	Combined    string `koanf:"combined"`
}

package cds

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Credentials identify a CDS account.
type Credentials struct {
	URL string
	Key string
}

// LoadCredentials resolves CDS credentials the same way the reference
// cdsapi client does: the CDSAPI_URL and CDSAPI_KEY environment
// variables take precedence, falling back to ~/.cdsapirc.
func LoadCredentials() (Credentials, error) {
	creds := Credentials{
		URL: os.Getenv("CDSAPI_URL"),
		Key: os.Getenv("CDSAPI_KEY"),
	}
	if creds.Key != "" {
		if creds.URL == "" {
			creds.URL = DefaultBaseURL
		}
		return creds, nil
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return Credentials{}, fmt.Errorf("locate home directory: %w", err)
	}
	return readCDSAPIRC(filepath.Join(home, ".cdsapirc"))
}

// readCDSAPIRC parses the two-key "url: ...\nkey: ..." file format
// used by the cdsapi reference client.
func readCDSAPIRC(path string) (Credentials, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Credentials{}, fmt.Errorf("read CDS credentials: %w", err)
	}

	var creds Credentials
	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		name, value, ok := strings.Cut(line, ":")
		if !ok {
			continue
		}
		switch strings.TrimSpace(name) {
		case "url":
			creds.URL = strings.TrimSpace(value)
		case "key":
			creds.Key = strings.TrimSpace(value)
		}
	}

	if creds.Key == "" {
		return Credentials{}, fmt.Errorf("no key found in %s", path)
	}
	if creds.URL == "" {
		creds.URL = DefaultBaseURL
	}
	return creds, nil
}

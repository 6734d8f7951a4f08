package storage

import (
	"encoding/base64"
	"testing"
)

func TestResolveCredentials_Order(t *testing.T) {
	inlineJSON := `{"access_key_id":"inline-key","secret_access_key":"inline-secret"}`
	encoded := base64.StdEncoding.EncodeToString([]byte(`{"access_key_id":"b64-key","secret_access_key":"b64-secret"}`))

	tests := []struct {
		name       string
		cfg        Config
		wantSource string
	}{
		{
			name:       "inline JSON wins over everything",
			cfg:        Config{CredentialsJSON: inlineJSON, CredentialsBase64: encoded, AccessKeyID: "k", SecretAccessKey: "s", SharedCredentialsFile: "/tmp/creds"},
			wantSource: "inline-json",
		},
		{
			name:       "base64 JSON next",
			cfg:        Config{CredentialsBase64: encoded, AccessKeyID: "k", SecretAccessKey: "s", SharedCredentialsFile: "/tmp/creds"},
			wantSource: "base64-json",
		},
		{
			name:       "explicit key pair next",
			cfg:        Config{AccessKeyID: "k", SecretAccessKey: "s", SharedCredentialsFile: "/tmp/creds"},
			wantSource: "key-pair",
		},
		{
			name:       "credentials file next",
			cfg:        Config{SharedCredentialsFile: "/tmp/creds"},
			wantSource: "credentials-file",
		},
		{
			name:       "nothing configured falls to ambient chain",
			cfg:        Config{},
			wantSource: "ambient",
		},
		{
			name:       "key pair requires both halves",
			cfg:        Config{AccessKeyID: "k"},
			wantSource: "ambient",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, source, err := resolveCredentials(tt.cfg)
			if err != nil {
				t.Fatalf("resolveCredentials() error = %v", err)
			}
			if source != tt.wantSource {
				t.Errorf("source = %v, want %v", source, tt.wantSource)
			}
		})
	}
}

func TestResolveCredentials_MalformedInput(t *testing.T) {
	t.Run("invalid inline JSON", func(t *testing.T) {
		_, _, err := resolveCredentials(Config{CredentialsJSON: "not json"})
		if err == nil {
			t.Error("expected error for invalid JSON")
		}
	})

	t.Run("invalid base64", func(t *testing.T) {
		_, _, err := resolveCredentials(Config{CredentialsBase64: "!!not-base64!!"})
		if err == nil {
			t.Error("expected error for invalid base64")
		}
	})

	t.Run("JSON missing key fields", func(t *testing.T) {
		_, _, err := resolveCredentials(Config{CredentialsJSON: `{"access_key_id":"only-half"}`})
		if err == nil {
			t.Error("expected error for incomplete credential JSON")
		}
	})
}

package storage

import (
	"encoding/base64"
	"encoding/json"
	"fmt"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
)

// credentialJSON is the shape accepted by the inline and base64 credential
// forms.
type credentialJSON struct {
	AccessKeyID     string `json:"access_key_id"`
	SecretAccessKey string `json:"secret_access_key"`
	SessionToken    string `json:"session_token,omitempty"`
}

// resolveCredentials turns the configured credential material into AWS load
// options. The forms are tried in order - inline JSON, base64 JSON, explicit
// key pair, credentials file, ambient default chain - and the first match
// wins. The result is resolved once at construction and reused for the
// process lifetime.
func resolveCredentials(cfg Config) ([]func(*awsconfig.LoadOptions) error, string, error) {
	switch {
	case cfg.CredentialsJSON != "":
		opts, err := staticFromJSON([]byte(cfg.CredentialsJSON))
		if err != nil {
			return nil, "", fmt.Errorf("inline credentials: %w", err)
		}
		return opts, "inline-json", nil

	case cfg.CredentialsBase64 != "":
		decoded, err := base64.StdEncoding.DecodeString(cfg.CredentialsBase64)
		if err != nil {
			return nil, "", fmt.Errorf("base64 credentials: %w", err)
		}
		opts, err := staticFromJSON(decoded)
		if err != nil {
			return nil, "", fmt.Errorf("base64 credentials: %w", err)
		}
		return opts, "base64-json", nil

	case cfg.AccessKeyID != "" && cfg.SecretAccessKey != "":
		return []func(*awsconfig.LoadOptions) error{
			awsconfig.WithCredentialsProvider(
				credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
			),
		}, "key-pair", nil

	case cfg.SharedCredentialsFile != "":
		return []func(*awsconfig.LoadOptions) error{
			awsconfig.WithSharedCredentialsFiles([]string{cfg.SharedCredentialsFile}),
		}, "credentials-file", nil

	default:
		// Ambient default chain (environment, instance metadata, etc.)
		return nil, "ambient", nil
	}
}

// staticFromJSON parses a JSON credential blob into a static provider option.
func staticFromJSON(raw []byte) ([]func(*awsconfig.LoadOptions) error, error) {
	var creds credentialJSON
	if err := json.Unmarshal(raw, &creds); err != nil {
		return nil, fmt.Errorf("parse credential JSON: %w", err)
	}
	if creds.AccessKeyID == "" || creds.SecretAccessKey == "" {
		return nil, fmt.Errorf("credential JSON missing access_key_id or secret_access_key")
	}
	return []func(*awsconfig.LoadOptions) error{
		awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(creds.AccessKeyID, creds.SecretAccessKey, creds.SessionToken),
		),
	}, nil
}

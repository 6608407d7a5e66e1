package types

import "time"

// Known honeytoken types. The catalog is open: unknown types fall
// back to the generic opaque token builder.
const (
	TokenAWSAccessKey  = "aws_access_key"
	TokenAWSSecretKey  = "aws_secret_key"
	TokenGitHub        = "github_token"
	TokenSSHPrivateKey = "ssh_private_key"
	TokenDBPassword    = "database_password"
	TokenAPIToken      = "api_token"
	TokenJWTSecret     = "jwt_secret"
	TokenPatientID     = "patient_id"
	TokenSSN           = "ssn"
	TokenCreditCard    = "credit_card"
	TokenEmployeeID    = "employee_id"
	TokenMRN           = "medical_record_number"
)

// Honeytoken is an issued decoy secret, the unit tracked for
// detection. The record is owned exclusively by the store; generators
// only produce the value.
//
// TokenValue is matched byte-for-byte against whatever an attacker
// exfiltrates, so it is never normalized or trimmed on write or read.
type Honeytoken struct {
	TokenID       string         `json:"token_id"`
	TokenType     string         `json:"token_type"`
	TokenValue    string         `json:"token_value"`
	HoneypotID    string         `json:"honeypot_id,omitempty"`
	FilePath      string         `json:"file_path,omitempty"`
	CreatedAt     time.Time      `json:"created_at"`
	AccessedAt    *time.Time     `json:"accessed_at,omitempty"`
	AccessCount   int            `json:"access_count"`
	IsActive      bool           `json:"is_active"`
	TokenMetadata map[string]any `json:"token_metadata,omitempty"`
}

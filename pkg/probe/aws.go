// Package probe verifies that issued honeytokens are inert. A decoy
// credential that a real provider accepts is an incident, not a decoy;
// the probe's passing outcome is rejection.
package probe

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/sts"
)

// Status is a probe outcome.
type Status string

const (
	// StatusInert means the provider rejected the credential; the
	// honeytoken is safe to deploy.
	StatusInert Status = "inert"
	// StatusLive means the provider accepted the credential. The
	// token collides with a real identity and must not be deployed.
	StatusLive Status = "live"
	// StatusUndetermined means the probe could not reach a verdict.
	StatusUndetermined Status = "undetermined"
)

// Result carries the probe verdict and a human-readable explanation.
type Result struct {
	Status  Status `json:"status"`
	Message string `json:"message"`
}

// STSClient is the STS surface the probe needs; real and mock clients
// both satisfy it.
type STSClient interface {
	GetCallerIdentity(ctx context.Context, params *sts.GetCallerIdentityInput, optFns ...func(*sts.Options)) (*sts.GetCallerIdentityOutput, error)
}

// AWS probes AWS access-key honeytokens against STS.
type AWS struct {
	// client, when nil, is built per probe with the credential pair
	// under test.
	client STSClient
	logger *slog.Logger
}

// NewAWS creates a probe that builds an STS client per call.
func NewAWS(logger *slog.Logger) *AWS {
	if logger == nil {
		logger = slog.Default()
	}
	return &AWS{logger: logger}
}

// NewAWSWithClient creates a probe with a fixed STS client, used in
// tests.
func NewAWSWithClient(client STSClient, logger *slog.Logger) *AWS {
	if logger == nil {
		logger = slog.Default()
	}
	return &AWS{client: client, logger: logger}
}

// Probe calls GetCallerIdentity with the honeytoken pair. Rejection is
// the expected, passing outcome.
func (p *AWS) Probe(ctx context.Context, accessKeyID, secretAccessKey string) (*Result, error) {
	client := p.client
	if client == nil {
		cfg, err := config.LoadDefaultConfig(ctx,
			config.WithCredentialsProvider(
				credentials.NewStaticCredentialsProvider(accessKeyID, secretAccessKey, ""),
			),
			config.WithRegion("us-east-1"),
		)
		if err != nil {
			return &Result{
				Status:  StatusUndetermined,
				Message: fmt.Sprintf("failed to create AWS config: %v", err),
			}, nil
		}
		client = sts.NewFromConfig(cfg)
	}

	identity, err := client.GetCallerIdentity(ctx, &sts.GetCallerIdentityInput{})
	if err != nil {
		p.logger.Debug("honeytoken rejected by STS", "access_key_id", accessKeyID)
		return &Result{
			Status:  StatusInert,
			Message: fmt.Sprintf("credentials rejected: %v", err),
		}, nil
	}

	p.logger.Error("honeytoken accepted by STS",
		"access_key_id", accessKeyID,
		"account", aws.ToString(identity.Account))
	return &Result{
		Status: StatusLive,
		Message: fmt.Sprintf("credentials accepted for account %s, arn %s",
			aws.ToString(identity.Account), aws.ToString(identity.Arn)),
	}, nil
}

package sqslisten

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/aws/retry"
	aws_config "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
)

// Config selects the region and, optionally, the endpoint and credentials
// the SQS client talks to. Fields left empty fall back to the default AWS
// credential and region chain (environment, shared config, instance role).
type Config struct {
	// Region is the AWS region of the queues, e.g. "eu-central-1".
	Region string

	// Endpoint overrides the SQS endpoint URL. Useful for Localstack and
	// other emulators.
	Endpoint string

	// AccessKey and SecretKey configure static credentials. Leave both
	// empty to use the default chain.
	AccessKey string
	SecretKey string

	// MaxRetries caps how often the SDK retries a single API call before
	// the error surfaces to the listener. Zero keeps the SDK default.
	MaxRetries int
}

func loadAWSConfig(ctx context.Context, c Config) (aws.Config, error) {
	var options []func(*aws_config.LoadOptions) error

	if c.Region != "" {
		options = append(options, aws_config.WithRegion(c.Region))
	}
	if c.AccessKey != "" || c.SecretKey != "" {
		options = append(options, aws_config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(c.AccessKey, c.SecretKey, "")))
	}
	if c.Endpoint != "" {
		endpoint := c.Endpoint
		options = append(options, aws_config.WithEndpointResolverWithOptions(
			aws.EndpointResolverWithOptionsFunc(func(_, region string, _ ...interface{}) (aws.Endpoint, error) {
				return aws.Endpoint{
					URL:               endpoint,
					PartitionID:       "aws",
					SigningRegion:     region,
					HostnameImmutable: true,
				}, nil
			})))
	}
	if c.MaxRetries > 0 {
		maxAttempts := c.MaxRetries
		options = append(options, aws_config.WithRetryer(func() aws.Retryer {
			return retry.NewStandard(func(o *retry.StandardOptions) {
				o.MaxAttempts = maxAttempts
			})
		}))
	}

	awsCfg, err := aws_config.LoadDefaultConfig(ctx, options...)
	if err != nil {
		return aws.Config{}, fmt.Errorf("unable to load AWS SDK config: %w", err)
	}
	return awsCfg, nil
}

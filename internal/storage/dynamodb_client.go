package storage

import (
	"context"
	"errors"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
)

type DynamoConfig struct {
	Region   string
	Table    string
	Index    string
	Endpoint string
}

// NewClient builds the DynamoDB client. With an endpoint override the
// client talks to a local instance using dummy static credentials; in
// production the default chain picks up the web identity token file
// that the identity refresher keeps fresh.
func NewClient(ctx context.Context, cfg DynamoConfig) (*dynamodb.Client, error) {
	if cfg.Region == "" || cfg.Table == "" {
		return nil, errors.New("storage region and table are required")
	}

	var opts []func(*config.LoadOptions) error
	opts = append(opts, config.WithRegion(cfg.Region))

	if cfg.Endpoint != "" {
		opts = append(opts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider("DUMMY_KEY", "DUMMY_PASSWORD", "")))
	}

	awsCfg, err := config.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, err
	}

	client := dynamodb.NewFromConfig(awsCfg, func(o *dynamodb.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
	})

	return client, nil
}

package storage

import (
	"context"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/MuhamadAgungGumelar/invoicer-ai-be/internal/shared/config"
	"github.com/MuhamadAgungGumelar/invoicer-ai-be/internal/shared/database"
	"github.com/MuhamadAgungGumelar/invoicer-ai-be/internal/shared/utils"
)

// Driver names accepted by STORAGE_DRIVER
const (
	DriverFile     = "file"
	DriverMemory   = "memory"
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
	DriverS3       = "s3"
	DriverDynamoDB = "dynamodb"
)

// New builds the Store selected by cfg.StorageDriver
func New(ctx context.Context, cfg *config.Config) (Store, error) {
	driver := strings.ToLower(strings.TrimSpace(cfg.StorageDriver))

	var (
		store Store
		err   error
	)
	switch driver {
	case DriverFile, "":
		store, err = NewFileStore(cfg.DataDir)

	case DriverMemory:
		store = NewMemoryStore()

	case DriverSQLite:
		store, err = NewSQLiteStore(ctx, cfg.SQLitePath)

	case DriverPostgres:
		var db *database.DB
		db, err = database.NewDB(cfg.DatabaseURL)
		if err == nil {
			store = NewPostgresStore(db.GORM)
		}

	case DriverS3:
		if cfg.S3Bucket == "" {
			return nil, fmt.Errorf("S3_BUCKET is required for the s3 storage driver")
		}
		var awsCfg aws.Config
		awsCfg, err = loadAWSConfig(ctx, cfg)
		if err == nil {
			store = NewS3Store(s3.NewFromConfig(awsCfg), cfg.S3Bucket, cfg.S3Prefix)
		}

	case DriverDynamoDB:
		var awsCfg aws.Config
		awsCfg, err = loadAWSConfig(ctx, cfg)
		if err == nil {
			client := dynamodb.NewFromConfig(awsCfg, func(o *dynamodb.Options) {
				if cfg.DynamoDBEndpoint != "" {
					o.BaseEndpoint = aws.String(cfg.DynamoDBEndpoint)
				}
			})
			store = NewDynamoStore(client, cfg.DynamoDBTable)
		}

	default:
		return nil, fmt.Errorf("unsupported storage driver: %s", cfg.StorageDriver)
	}
	if err != nil {
		return nil, err
	}

	utils.LogInfo("storage initialized", map[string]interface{}{"store": store.Name()})
	return store, nil
}

// loadAWSConfig uses static credentials when both keys are set and falls
// back to the default provider chain otherwise.
func loadAWSConfig(ctx context.Context, cfg *config.Config) (aws.Config, error) {
	opts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(cfg.AWSRegion),
	}
	if cfg.AWSAccessKeyID != "" && cfg.AWSSecretAccessKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AWSAccessKeyID, cfg.AWSSecretAccessKey, ""),
		))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return aws.Config{}, fmt.Errorf("failed to load AWS config: %w", err)
	}
	return awsCfg, nil
}

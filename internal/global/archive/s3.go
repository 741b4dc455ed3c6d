// Package archive stores the raw spreadsheets accepted by the import
// endpoint in an S3 bucket, so there is an audit copy of every bulk
// change to the roster.
package archive

import (
	"bytes"
	"context"
	"fmt"
	"path"
	"strings"
	"sync"
	"time"

	appconfig "student-data-system/config"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

type Archive struct {
	cfg      appconfig.Archive
	initOnce sync.Once
	initErr  error
	s3Client *s3.Client
}

// New returns an Archive, or nil when no bucket is configured. A nil
// Archive is valid; Store on it is a no-op.
func New(cfg appconfig.Archive) *Archive {
	if cfg.Bucket == "" {
		return nil
	}
	return &Archive{cfg: cfg}
}

func (a *Archive) initS3(ctx context.Context) error {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(a.cfg.Region),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			a.cfg.AccessKey, a.cfg.SecretAccessKey, "",
		)),
	)
	if err != nil {
		return fmt.Errorf("load aws config: %w", err)
	}

	a.s3Client = s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if a.cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(a.cfg.Endpoint)
		}
		o.UsePathStyle = a.cfg.UsePathStyle
	})
	return nil
}

// Store uploads one file under a timestamped key and returns the key.
func (a *Archive) Store(ctx context.Context, filename string, data []byte) (string, error) {
	if a == nil {
		return "", nil
	}
	a.initOnce.Do(func() {
		a.initErr = a.initS3(ctx)
	})
	if a.initErr != nil {
		return "", a.initErr
	}

	ext := strings.ToLower(path.Ext(filename))
	key := path.Join(strings.Trim(a.cfg.Prefix, "/"),
		fmt.Sprintf("%d%s", time.Now().UnixNano(), ext))
	key = strings.TrimLeft(key, "/")

	_, err := a.s3Client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(a.cfg.Bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String("application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"),
	})
	if err != nil {
		return "", fmt.Errorf("put object: %w", err)
	}
	return key, nil
}

package services

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"

	"github.com/packrat-app/packrat/config"
)

// MediaService mirrors provider GIFs into S3-compatible storage so
// cards keep working if the provider expires its CDN links. When the
// mirror is disabled, MirrorGIF passes the provider URL through.
type MediaService struct {
	client  *s3.Client
	bucket  string
	region  string
	gifRoot string
	enabled bool
	http    *http.Client
}

func NewMediaService(cfg config.SpacesConfig) (*MediaService, error) {
	if !cfg.Enabled {
		return &MediaService{enabled: false}, nil
	}

	resolver := aws.EndpointResolverWithOptionsFunc(func(service, region string, options ...interface{}) (aws.Endpoint, error) {
		return aws.Endpoint{
			URL: fmt.Sprintf("https://%s.digitaloceanspaces.com", region),
		}, nil
	})

	awsCfg, err := awsconfig.LoadDefaultConfig(context.Background(),
		awsconfig.WithEndpointResolverWithOptions(resolver),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(cfg.Key, cfg.Secret, "")),
		awsconfig.WithRegion(cfg.Region),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load spaces config: %w", err)
	}

	return &MediaService{
		client:  s3.NewFromConfig(awsCfg),
		bucket:  cfg.Bucket,
		region:  cfg.Region,
		gifRoot: cfg.GifRoot,
		enabled: true,
		http:    &http.Client{Timeout: 30 * time.Second},
	}, nil
}

func (m *MediaService) Enabled() bool {
	return m.enabled
}

// MirrorGIF downloads the GIF and stores it under key, returning the
// public URL of the mirrored object.
func (m *MediaService) MirrorGIF(ctx context.Context, gifURL, key string) (string, error) {
	if !m.enabled {
		return gifURL, nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, gifURL, nil)
	if err != nil {
		return "", fmt.Errorf("failed to build download request: %w", err)
	}

	resp, err := m.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to download gif: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("gif download returned status %d", resp.StatusCode)
	}

	objectKey := fmt.Sprintf("%s/%s.gif", m.gifRoot, key)
	_, err = m.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:       aws.String(m.bucket),
		Key:          aws.String(objectKey),
		Body:         resp.Body,
		ContentType:  aws.String("image/gif"),
		CacheControl: aws.String("public, max-age=31536000"),
		ACL:          types.ObjectCannedACLPublicRead,
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload gif: %w", err)
	}

	return fmt.Sprintf("https://%s.%s.digitaloceanspaces.com/%s", m.bucket, m.region, objectKey), nil
}

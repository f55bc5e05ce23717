// Package storage uploads car photos and identity documents to an
// S3-compatible bucket (Cloudflare R2).
package storage

import (
	"context"
	"fmt"
	"io"
	"path"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"

	"github.com/amouromar/omba/internal/config"
)

type Client struct {
	s3            *s3.Client
	bucket        string
	publicBaseURL string
}

// New builds an R2 client from config. Returns nil when storage is not
// configured; callers treat a nil client as "uploads disabled".
func New(cfg *config.Config) (*Client, error) {
	if cfg.Storage.Endpoint == "" || cfg.Storage.AccessKey == "" {
		return nil, nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			cfg.Storage.AccessKey,
			cfg.Storage.SecretKey,
			"",
		)),
		awsconfig.WithRegion(cfg.Storage.Region),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to configure storage client: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(cfg.Storage.Endpoint)
	})

	return &Client{
		s3:            client,
		bucket:        cfg.Storage.Bucket,
		publicBaseURL: strings.TrimSuffix(cfg.Storage.PublicBaseURL, "/"),
	}, nil
}

// UploadCarPhoto stores a car image and returns its public URL.
func (c *Client) UploadCarPhoto(ctx context.Context, carID, filename, contentType string, body io.Reader) (string, error) {
	key := fmt.Sprintf("cars/%s/%s%s", carID, uuid.NewString(), path.Ext(filename))
	return c.put(ctx, key, contentType, body)
}

// UploadDocument stores an identity document (national ID, license, selfie)
// under the renter's profile prefix and returns its public URL.
func (c *Client) UploadDocument(ctx context.Context, profileID, kind, filename, contentType string, body io.Reader) (string, error) {
	key := fmt.Sprintf("documents/%s/%s-%s%s", profileID, kind, uuid.NewString(), path.Ext(filename))
	return c.put(ctx, key, contentType, body)
}

func (c *Client) put(ctx context.Context, key, contentType string, body io.Reader) (string, error) {
	_, err := c.s3.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(c.bucket),
		Key:         aws.String(key),
		Body:        body,
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload %s: %w", key, err)
	}
	return c.publicBaseURL + "/" + key, nil
}

// Delete removes an object by its public URL. Unknown URLs are ignored.
func (c *Client) Delete(ctx context.Context, url string) error {
	if !strings.HasPrefix(url, c.publicBaseURL+"/") {
		return nil
	}
	key := strings.TrimPrefix(url, c.publicBaseURL+"/")
	_, err := c.s3.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(c.bucket),
		Key:    aws.String(key),
	})
	return err
}

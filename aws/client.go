package aws

import (
	"bytes"
	"context"
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/s3/s3manager"
	"github.com/rs/zerolog/log"
)

type Client struct {
	session  *session.Session
	bucket   string
	region   string
	uploader *s3manager.Uploader
	s3Client *s3.S3
}

func NewClient(region, bucket string) *Client {
	sess, err := session.NewSession(&aws.Config{
		Region: aws.String(region),
	})
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create AWS session")
	}

	log.Info().
		Str("bucket", bucket).
		Str("region", region).
		Msg("AWS session created successfully")

	return &Client{
		session:  sess,
		bucket:   bucket,
		region:   region,
		uploader: s3manager.NewUploader(sess),
		s3Client: s3.New(sess),
	}
}

// AttachmentKey builds the object key for a lead's attachment. The file name is reduced
// to its base so callers cannot write outside the lead's prefix.
func AttachmentKey(leadID int64, name string, at time.Time) string {
	base := path.Base(strings.ReplaceAll(name, "\\", "/"))
	if base == "." || base == "/" || base == "" {
		base = "file"
	}
	return fmt.Sprintf("attachments/%d/%d_%s", leadID, at.UnixMilli(), base)
}

// PublicURL is the virtual-hosted URL of key.
func (c *Client) PublicURL(key string) string {
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", c.bucket, c.region, key)
}

// UploadAttachment stores data under the lead's prefix and returns its public URL.
func (c *Client) UploadAttachment(ctx context.Context, leadID int64, name, contentType string, data []byte) (string, error) {
	key := AttachmentKey(leadID, name, time.Now())
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	log.Info().
		Str("bucket", c.bucket).
		Str("key", key).
		Int64("lead_id", leadID).
		Int("content_size", len(data)).
		Msg("Starting attachment upload")

	result, err := c.uploader.UploadWithContext(ctx, &s3manager.UploadInput{
		Bucket:      aws.String(c.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		log.Error().
			Err(err).
			Str("bucket", c.bucket).
			Str("region", c.region).
			Str("key", key).
			Msg("Attachment upload failed")
		return "", fmt.Errorf("failed to upload attachment to S3: %w", err)
	}

	_, aclErr := c.s3Client.PutObjectAclWithContext(ctx, &s3.PutObjectAclInput{
		Bucket: aws.String(c.bucket),
		Key:    aws.String(key),
		ACL:    aws.String(s3.ObjectCannedACLPublicRead),
	})
	if aclErr != nil {
		log.Warn().
			Err(aclErr).
			Str("bucket", c.bucket).
			Str("key", key).
			Msg("Failed to set public-read ACL on attachment, the lead may not be able to open it")
	}

	publicURL := c.PublicURL(key)

	log.Info().
		Str("s3_url", publicURL).
		Str("s3_location", result.Location).
		Str("key", key).
		Msg("Attachment uploaded to S3 successfully")

	return publicURL, nil
}

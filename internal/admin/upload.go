package admin

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Uploader stores gallery photos in S3-compatible object storage and hands
// back their public URL. The row insert stays with the caller; no
// transformation is applied to the image bytes.
type Uploader struct {
	client    *s3.Client
	bucket    string
	publicURL string
	log       zerolog.Logger
}

func NewUploader(client *s3.Client, bucket, publicURL string, log zerolog.Logger) *Uploader {
	return &Uploader{
		client:    client,
		bucket:    bucket,
		publicURL: strings.TrimRight(publicURL, "/"),
		log:       log,
	}
}

// UploadGalleryPhoto stores the file under a unique gallery key and returns
// the public URL it will be served from.
func (u *Uploader) UploadGalleryPhoto(ctx context.Context, file io.Reader, filename, contentType string) (string, error) {
	key := fmt.Sprintf("gallery/%s_%s", uuid.New().String(), filename)

	obj, err := u.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(u.bucket),
		Key:         aws.String(key),
		Body:        file,
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("upload gallery photo: %w", err)
	}
	u.log.Info().Str("key", key).Str("etag", aws.ToString(obj.ETag)).Msg("gallery photo uploaded")

	return u.publicURL + "/" + key, nil
}

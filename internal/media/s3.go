package media

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"path"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"hairworks/internal/domain"
)

// S3Fetcher downloads uploaded videos from the uploads bucket.
type S3Fetcher struct {
	client *s3.Client
	bucket string
}

// NewS3Fetcher wires a fetcher for the given bucket.
func NewS3Fetcher(client *s3.Client, bucket string) *S3Fetcher {
	return &S3Fetcher{client: client, bucket: bucket}
}

// Fetch downloads storageKey to a temp file and returns its path.
func (f *S3Fetcher) Fetch(ctx context.Context, storageKey string) (string, error) {
	out, err := f.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(f.bucket),
		Key:    aws.String(storageKey),
	})
	if err != nil {
		return "", fmt.Errorf("download video %s: %w", storageKey, err)
	}
	defer out.Body.Close()

	suffix := path.Ext(storageKey)
	if suffix == "" {
		suffix = ".mp4"
	}
	tmp, err := os.CreateTemp("", "upload-*"+suffix)
	if err != nil {
		return "", fmt.Errorf("create temp video file: %w", err)
	}
	if _, err := io.Copy(tmp, out.Body); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return "", fmt.Errorf("write temp video file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return "", fmt.Errorf("close temp video file: %w", err)
	}
	return tmp.Name(), nil
}

// S3Uploader publishes rendered views to the results bucket and hands out
// presigned GET URLs.
type S3Uploader struct {
	client     *s3.Client
	presigner  *s3.PresignClient
	bucket     string
	presignTTL time.Duration
}

// NewS3Uploader wires an uploader for the given results bucket.
func NewS3Uploader(client *s3.Client, bucket string, presignTTL time.Duration) *S3Uploader {
	return &S3Uploader{
		client:     client,
		presigner:  s3.NewPresignClient(client),
		bucket:     bucket,
		presignTTL: presignTTL,
	}
}

// Upload stores the four views under deterministic keys so a reprocessed job
// overwrites its previous renders instead of duplicating them.
func (u *S3Uploader) Upload(ctx context.Context, jobID, styleSlug string, views *ViewSet) (domain.ViewURLs, error) {
	var urls domain.ViewURLs
	for _, name := range ViewNames {
		data := views.Get(name)
		key := ViewKey(jobID, styleSlug, name)
		_, err := u.client.PutObject(ctx, &s3.PutObjectInput{
			Bucket:      aws.String(u.bucket),
			Key:         aws.String(key),
			Body:        bytes.NewReader(data),
			ContentType: aws.String("image/png"),
		})
		if err != nil {
			return domain.ViewURLs{}, fmt.Errorf("upload view %s: %w", key, err)
		}

		presigned, err := u.presigner.PresignGetObject(ctx, &s3.GetObjectInput{
			Bucket: aws.String(u.bucket),
			Key:    aws.String(key),
		}, s3.WithPresignExpires(u.presignTTL))
		if err != nil {
			return domain.ViewURLs{}, fmt.Errorf("presign view %s: %w", key, err)
		}
		setViewURL(&urls, name, presigned.URL)
	}
	return urls, nil
}

// ViewKey builds the object key for one rendered view.
func ViewKey(jobID, styleSlug, view string) string {
	return fmt.Sprintf("results/%s/%s/%s.png", jobID, styleSlug, view)
}

func setViewURL(urls *domain.ViewURLs, name, url string) {
	switch name {
	case "front":
		urls.Front = url
	case "left":
		urls.Left = url
	case "right":
		urls.Right = url
	case "back":
		urls.Back = url
	}
}

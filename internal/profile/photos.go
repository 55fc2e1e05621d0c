// internal/profile/photos.go
// Turns stored photo keys into URLs a client can load

package profile

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/request"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
)

// ErrNoPhoto is returned when a profile has no primary photo.
var ErrNoPhoto = errors.New("profile has no photo")

// PhotoResolver derives a displayable URL from a stored photo key.
type PhotoResolver interface {
	PhotoURL(ctx context.Context, key string) (string, error)
}

// LocalPhotoResolver serves photos stored on the local upload directory.
type LocalPhotoResolver struct {
	baseURL string
}

// NewLocalPhotoResolver creates a resolver that prefixes keys with baseURL
func NewLocalPhotoResolver(baseURL string) *LocalPhotoResolver {
	return &LocalPhotoResolver{baseURL: strings.TrimRight(baseURL, "/")}
}

// PhotoURL implements PhotoResolver
func (r *LocalPhotoResolver) PhotoURL(_ context.Context, key string) (string, error) {
	key = strings.TrimSpace(key)
	if key == "" {
		return "", ErrNoPhoto
	}
	if isAbsoluteURL(key) {
		return key, nil
	}
	return fmt.Sprintf("%s/uploads/%s", r.baseURL, strings.TrimLeft(key, "/")), nil
}

// objectRequester is the part of the S3 client used for presigning.
type objectRequester interface {
	GetObjectRequest(input *s3.GetObjectInput) (*request.Request, *s3.GetObjectOutput)
}

// S3PhotoResolver presigns GET requests for private photo objects.
type S3PhotoResolver struct {
	client objectRequester
	bucket string
	expiry time.Duration
}

// NewS3PhotoResolver creates an S3 backed resolver for bucket in region
func NewS3PhotoResolver(bucket, region string, expiry time.Duration) (*S3PhotoResolver, error) {
	sess, err := session.NewSession(&aws.Config{
		Region: aws.String(region),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create AWS session: %w", err)
	}
	return newS3PhotoResolver(s3.New(sess), bucket, expiry), nil
}

func newS3PhotoResolver(client objectRequester, bucket string, expiry time.Duration) *S3PhotoResolver {
	if expiry <= 0 {
		expiry = 15 * time.Minute
	}
	return &S3PhotoResolver{client: client, bucket: bucket, expiry: expiry}
}

// PhotoURL implements PhotoResolver
func (r *S3PhotoResolver) PhotoURL(ctx context.Context, key string) (string, error) {
	key = strings.TrimLeft(strings.TrimSpace(key), "/")
	if key == "" {
		return "", ErrNoPhoto
	}
	if isAbsoluteURL(key) {
		return key, nil
	}

	req, _ := r.client.GetObjectRequest(&s3.GetObjectInput{
		Bucket: aws.String(r.bucket),
		Key:    aws.String(key),
	})
	req.SetContext(ctx)

	url, err := req.Presign(r.expiry)
	if err != nil {
		return "", fmt.Errorf("failed to presign %s: %w", key, err)
	}
	return url, nil
}

func isAbsoluteURL(s string) bool {
	return strings.HasPrefix(s, "https://") || strings.HasPrefix(s, "http://")
}

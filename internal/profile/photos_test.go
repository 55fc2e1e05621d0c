package profile

import (
	"context"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalPhotoResolver(t *testing.T) {
	r := NewLocalPhotoResolver("http://localhost:8080/")
	ctx := context.Background()

	url, err := r.PhotoURL(ctx, "photos/a.jpg")
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:8080/uploads/photos/a.jpg", url)

	url, err = r.PhotoURL(ctx, "https://cdn.example.com/x.jpg")
	require.NoError(t, err)
	assert.Equal(t, "https://cdn.example.com/x.jpg", url)

	_, err = r.PhotoURL(ctx, "  ")
	assert.ErrorIs(t, err, ErrNoPhoto)
}

func TestS3PhotoResolverPresigns(t *testing.T) {
	sess, err := session.NewSession(&aws.Config{
		Region:      aws.String("us-east-1"),
		Credentials: credentials.NewStaticCredentials("AKIDEXAMPLE", "secret", ""),
	})
	require.NoError(t, err)

	r := newS3PhotoResolver(s3.New(sess), "sangam-photos", 10*time.Minute)

	url, err := r.PhotoURL(context.Background(), "/users/u1/primary.jpg")
	require.NoError(t, err)
	assert.Contains(t, url, "sangam-photos")
	assert.Contains(t, url, "users/u1/primary.jpg")
	assert.Contains(t, url, "X-Amz-Signature=")
	assert.Contains(t, url, "X-Amz-Expires=600")

	_, err = r.PhotoURL(context.Background(), "")
	assert.ErrorIs(t, err, ErrNoPhoto)
}

package s3_test

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"etm/config"
	"etm/infras/otel/mocks"
	"etm/infras/s3"
)

func TestGetObjectNameFromURL(t *testing.T) {
	cfg := config.Defaults()
	cfg.External.S3.PublicDomain = "https://cdn.example.com"
	cfg.External.S3.APIEndpoint = "https://storage.example.com"
	cfg.External.S3.BucketName = "etm"

	svc := s3.New(&cfg, mocks.NewOtel())

	tests := []struct {
		name     string
		url      string
		expected string
	}{
		{name: "public domain", url: "https://cdn.example.com/avatars/e1.png", expected: "avatars/e1.png"},
		{name: "api endpoint", url: "https://storage.example.com/etm/avatars/e1.png", expected: "avatars/e1.png"},
		{name: "foreign url", url: "https://elsewhere.example.com/avatars/e1.png", expected: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, svc.GetObjectNameFromURL(tt.url))
		})
	}
}

func TestNew_WithoutBucket(t *testing.T) {
	cfg := config.Defaults()
	svc := s3.New(&cfg, mocks.NewOtel())

	_, err := svc.UploadFile(context.Background(), "avatars", "e1.png", "image/png", bytes.NewReader([]byte{1}), 1)
	assert.ErrorIs(t, err, s3.ErrNotConfigured)
	assert.ErrorIs(t, svc.DeleteFile(context.Background(), "avatars/e1.png"), s3.ErrNotConfigured)
}

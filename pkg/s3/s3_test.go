package s3

import (
	"testing"

	"classifieds/pkg/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObjectURL_MinIO(t *testing.T) {
	client, err := newClient(&config.Config{
		AWSRegion:    "us-east-1",
		AWSEndpoint:  "http://minio:9000",
		S3UseSSL:     "false",
		S3BucketName: "media",
	})
	require.NoError(t, err)

	assert.Equal(t, "http://minio:9000/media/a.png", client.ObjectURL("a.png"))
}

func TestObjectURL_AWS(t *testing.T) {
	client, err := newClient(&config.Config{
		AWSRegion:    "eu-west-1",
		S3BucketName: "media",
	})
	require.NoError(t, err)

	assert.Equal(t, "https://media.s3.eu-west-1.amazonaws.com/a.mp4", client.ObjectURL("a.mp4"))
}

func TestContentType(t *testing.T) {
	assert.Equal(t, "image/png", ContentType("x.PNG"))
	assert.Equal(t, "application/octet-stream", ContentType("x.unknownext"))
}

package source

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/nguyengg/docarc/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testClient serves data for every GetObject call and keeps the input parameters for asserting.
type testClient struct {
	data  []byte
	calls []s3.GetObjectInput
}

func (c *testClient) GetObject(_ context.Context, input *s3.GetObjectInput, _ ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	c.calls = append(c.calls, *input)

	return &s3.GetObjectOutput{
		Body:          io.NopCloser(bytes.NewReader(c.data)),
		ContentLength: aws.Int64(int64(len(c.data))),
		ContentType:   aws.String("application/zip"),
	}, nil
}

func TestOpen_File(t *testing.T) {
	name := filepath.Join(t.TempDir(), "test.zip")
	require.NoError(t, os.WriteFile(name, []byte("hello, world!"), 0644))

	src, err := Open(t.Context(), name)
	require.NoError(t, err)
	defer src.Close()

	assert.Equal(t, "test.zip", src.Name)
	assert.Equal(t, int64(13), src.Size)

	data, err := io.ReadAll(src)
	require.NoError(t, err)
	assert.Equal(t, "hello, world!", string(data))
}

func TestOpen_Directory(t *testing.T) {
	_, err := Open(t.Context(), t.TempDir())
	assert.ErrorContains(t, err, "is a directory")
}

func TestOpen_S3(t *testing.T) {
	name := filepath.Join(t.TempDir(), config.Name)
	require.NoError(t, os.WriteFile(name, []byte(`
[s3://my-bucket]
expected-bucket-owner = 123456789012
`), 0644))

	l := config.NewLoader()
	require.NoError(t, l.LoadFile(name))

	client := &testClient{data: []byte("hello, world!")}
	src, err := Open(t.Context(), "s3://my-bucket/path/to/test.zip", func(opts *Options) {
		opts.Loader = l
		opts.Client = client
	})
	require.NoError(t, err)
	defer src.Close()

	assert.Equal(t, "test.zip", src.Name)
	assert.Equal(t, int64(13), src.Size)
	assert.Equal(t, "application/zip", src.ContentType)

	require.Len(t, client.calls, 1)
	assert.Equal(t, "my-bucket", aws.ToString(client.calls[0].Bucket))
	assert.Equal(t, "path/to/test.zip", aws.ToString(client.calls[0].Key))
	assert.Equal(t, "123456789012", aws.ToString(client.calls[0].ExpectedBucketOwner))
}

func TestOpen_InvalidS3URI(t *testing.T) {
	_, err := Open(t.Context(), "s3://my-bucket", func(opts *Options) {
		opts.Client = &testClient{}
	})
	assert.Error(t, err)
}

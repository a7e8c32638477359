// Package source opens the byte stream of a local file or an S3 object for parsing.
package source

import (
	"context"
	"fmt"
	"io"
	"os"
	"path"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/nguyengg/docarc/internal"
	"github.com/nguyengg/docarc/internal/config"
)

// Source is an opened local file or S3 object.
//
// The caller owns Source and must close it. The parser only ever borrows it.
type Source struct {
	io.ReadCloser

	// Name is the base name of the file or the S3 key, used as the document's resource name.
	Name string
	// Size is the number of bytes in the stream, or -1 if unknown.
	Size int64
	// ContentType is the content type that S3 reports for the object, empty for local files.
	ContentType string
}

// GetObjectClient abstracts the API that is needed to read S3 objects.
type GetObjectClient interface {
	GetObject(context.Context, *s3.GetObjectInput, ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

// Options customises Open.
type Options struct {
	// Loader provides the S3 client and bucket settings such as expected-bucket-owner.
	//
	// By default, config.DefaultLoader is used.
	Loader *config.Loader

	// Client overrides the S3 client from Loader.
	Client GetObjectClient

	// ModifyGetObjectInput can be used to modify the GetObject input parameters.
	//
	// Its return value will be used to make the GetObject call.
	ModifyGetObjectInput func(*s3.GetObjectInput) *s3.GetObjectInput
}

// Open opens the named local file, or the S3 object if name is an S3 URI in format s3://bucket/key.
func Open(ctx context.Context, name string, optFns ...func(*Options)) (*Source, error) {
	if !internal.IsS3URI(name) {
		return openFile(name)
	}

	opts := &Options{
		Loader: config.DefaultLoader,
		ModifyGetObjectInput: func(input *s3.GetObjectInput) *s3.GetObjectInput {
			return input
		},
	}
	for _, fn := range optFns {
		fn(opts)
	}

	bucket, key, err := internal.ParseS3URI(name)
	if err != nil {
		return nil, err
	}

	client := opts.Client
	if client == nil {
		if client, err = opts.Loader.NewS3ClientForBucket(ctx, bucket); err != nil {
			return nil, fmt.Errorf("create S3 client error: %w", err)
		}
	}

	getObjectOutput, err := client.GetObject(ctx, opts.ModifyGetObjectInput(&s3.GetObjectInput{
		Bucket:              aws.String(bucket),
		Key:                 aws.String(key),
		ExpectedBucketOwner: opts.Loader.ForBucket(bucket).ExpectedBucketOwner,
	}))
	if err != nil {
		return nil, fmt.Errorf("get S3 object error: %w", err)
	}

	size := int64(-1)
	if getObjectOutput.ContentLength != nil {
		size = *getObjectOutput.ContentLength
	}

	return &Source{
		ReadCloser:  getObjectOutput.Body,
		Name:        path.Base(key),
		Size:        size,
		ContentType: aws.ToString(getObjectOutput.ContentType),
	}, nil
}

func openFile(name string) (*Source, error) {
	f, err := os.Open(name)
	if err != nil {
		return nil, fmt.Errorf("open file error: %w", err)
	}

	fi, err := f.Stat()
	if err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("stat file error: %w", err)
	}

	if fi.IsDir() {
		_ = f.Close()
		return nil, fmt.Errorf(`"%s" is a directory`, name)
	}

	return &Source{ReadCloser: f, Name: fi.Name(), Size: fi.Size()}, nil
}

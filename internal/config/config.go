package config

import (
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/nguyengg/docarc/archive"
)

// ParseConfig contains settings for parsing archives.
type ParseConfig struct {
	// MaxDepth is the maximum number of nested archives or compressed streams to descend into.
	MaxDepth int
	// BufferSize is the size of the buffers used for reading entries.
	BufferSize int
	// SkipDirectories skips directory entries instead of passing them to the extractor.
	SkipDirectories bool
}

// DefaultParseConfig is used when the .docarc file has no [parse] section.
var DefaultParseConfig = ParseConfig{
	MaxDepth:   16,
	BufferSize: archive.DefaultBufferSize,
}

// ForParse returns configuration for parsing.
func (l *Loader) ForParse() (c ParseConfig) {
	c = DefaultParseConfig

	sec, err := l.cfg.GetSection("parse")
	if err != nil {
		return c
	}

	c.MaxDepth = sec.Key("max-depth").MustInt(c.MaxDepth)
	c.BufferSize = sec.Key("buffer-size").MustInt(c.BufferSize)
	c.SkipDirectories = sec.Key("skip-directories").MustBool(c.SkipDirectories)

	return
}

// ForParse calls Loader.ForParse on the DefaultLoader instance.
func ForParse() ParseConfig {
	return DefaultLoader.ForParse()
}

// BucketConfig contains configuration settings for a specific bucket.
type BucketConfig struct {
	Bucket              string
	AWSProfile          string
	ExpectedBucketOwner *string
}

// ForBucket returns configuration for a specific bucket.
func (l *Loader) ForBucket(bucket string) (c BucketConfig) {
	c.Bucket = bucket

	sec, err := l.cfg.GetSection("s3://" + bucket)
	if err != nil {
		return c
	}

	c.AWSProfile = sec.Key("aws-profile").Value()

	if sec.HasKey("expected-bucket-owner") {
		c.ExpectedBucketOwner = aws.String(sec.Key("expected-bucket-owner").Value())
	}

	return
}

// ForBucket calls Loader.ForBucket on the DefaultLoader instance.
func ForBucket(bucket string) BucketConfig {
	return DefaultLoader.ForBucket(bucket)
}

package internal

import (
	"fmt"
	"strings"
)

// IsS3URI returns true if text starts with s3://.
func IsS3URI(text string) bool {
	return strings.HasPrefix(text, "s3://")
}

// ParseS3URI parses S3 URIs in format s3://bucket/key.
//
// The only validation that exists right now is that text must start with s3:// and have a non-empty bucket and key.
func ParseS3URI(text string) (bucket, key string, err error) {
	// don't bother validating valid bucket names.
	if !IsS3URI(text) {
		return "", "", fmt.Errorf("text does not start with s3://")
	}

	parts := strings.SplitN(strings.TrimPrefix(text, "s3://"), "/", 2)
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", "", fmt.Errorf(`S3 URI "%s" must have both bucket and key`, text)
	}

	return parts[0], parts[1], nil
}

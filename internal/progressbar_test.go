package internal

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDescribe(t *testing.T) {
	assert.Equal(t, "extracting report.zip", Describe("path/to/report.zip"))
	assert.Equal(t, "extracting key.tar.gz", Describe("s3://bucket/prefix/key.tar.gz"))
	assert.Equal(t, "extracting "+strings.Repeat("a", 32)+"…", Describe(strings.Repeat("a", 40)+".zip"))
}

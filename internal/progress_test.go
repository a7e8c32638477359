package internal

import (
	"bytes"
	"io"
	"log"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestProgressLogger(t *testing.T) {
	var buf bytes.Buffer
	l := NewProgressLogger(log.New(&buf, "", 0), 2048, time.Hour)

	n, err := io.Copy(io.Discard, io.TeeReader(strings.NewReader(strings.Repeat("a", 1024)), l))
	assert.NoError(t, err)
	assert.Equal(t, int64(1024), n)
	assert.Equal(t, int64(1024), l.Offset())
	assert.NoError(t, l.Close())

	// rate.Sometimes always runs the first call.
	assert.Equal(t, "read 1.0 KiB / 2.0 KiB so far\nread 1.0 KiB / 2.0 KiB in total\n", buf.String())
}

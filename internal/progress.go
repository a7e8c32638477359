package internal

import (
	"log"
	"time"

	"github.com/dustin/go-humanize"
	"golang.org/x/time/rate"
)

// ProgressLogger implements io.WriteCloser that logs the number of bytes written to it every so often.
//
// Use it with io.TeeReader to report how much of an input stream has been consumed.
type ProgressLogger struct {
	logger       *log.Logger
	rate         *rate.Sometimes
	offset, size int64
}

// NewProgressLogger creates a new ProgressLogger that logs with the given interval.
//
// size is the expected total number of bytes, or -1 if unknown.
func NewProgressLogger(logger *log.Logger, size int64, interval time.Duration) *ProgressLogger {
	return &ProgressLogger{
		logger: logger,
		rate:   &rate.Sometimes{Interval: interval},
		size:   size,
	}
}

func (l *ProgressLogger) Write(p []byte) (n int, err error) {
	n = len(p)
	l.offset += int64(n)

	l.rate.Do(func() {
		if l.size < 0 {
			l.logger.Printf("read %s so far", humanize.IBytes(uint64(l.offset)))
		} else {
			l.logger.Printf("read %s / %s so far", humanize.IBytes(uint64(l.offset)), humanize.IBytes(uint64(l.size)))
		}
	})

	return n, nil
}

// Close logs the final tally.
func (l *ProgressLogger) Close() error {
	if l.size < 0 || l.offset == l.size {
		l.logger.Printf("read %s in total", humanize.IBytes(uint64(l.offset)))
	} else {
		l.logger.Printf("read %s / %s in total", humanize.IBytes(uint64(l.offset)), humanize.IBytes(uint64(l.size)))
	}

	return nil
}

// Offset returns the number of bytes written so far.
func (l *ProgressLogger) Offset() int64 {
	return l.offset
}

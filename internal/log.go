package internal

import (
	"context"
	"fmt"
	"log"
	"os"
	"path"

	"github.com/nguyengg/docarc/util"
)

// Prefix creates a consistent prefix for all file-based commands to use.
//
// i and n are the zero-based ordinal and expected count.
func Prefix(i, n int, name string) string {
	return fmt.Sprintf(`[%d/%d] "%s" - `, i+1, n, util.TruncateRightWithSuffix(path.Base(name), 30, "..."))
}

type loggerKey struct{}

// WithPrefixLogger creates a new logger using the given prefix, then attaches the logger to context.
func WithPrefixLogger(ctx context.Context, prefix string) context.Context {
	return WithLogger(ctx, log.New(os.Stderr, prefix, 0))
}

// WithLogger attaches the given logger to context.
func WithLogger(ctx context.Context, logger *log.Logger) context.Context {
	return context.WithValue(ctx, loggerKey{}, logger)
}

// Logger returns the logger attached to the given context, or log.Default if there is none.
func Logger(ctx context.Context) *log.Logger {
	if logger, ok := ctx.Value(loggerKey{}).(*log.Logger); ok {
		return logger
	}

	return log.Default()
}

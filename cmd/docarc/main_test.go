package main

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jessevdk/go-flags"
	"github.com/stretchr/testify/assert"
)

func TestExitCode(t *testing.T) {
	assert.Equal(t, 0, exitCode(nil))
	assert.Equal(t, 0, exitCode(&flags.Error{Type: flags.ErrHelp, Message: "usage"}))
	assert.Equal(t, 2, exitCode(&flags.Error{Type: flags.ErrUnknownFlag, Message: "unknown flag `x'"}))
	assert.Equal(t, 2, exitCode(fmt.Errorf("parse error: %w", &flags.Error{Type: flags.ErrRequired})))
	assert.Equal(t, 1, exitCode(errors.New("failed to extract 1/2 files")))
}

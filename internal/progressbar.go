package internal

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/nguyengg/docarc/util"
	"github.com/schollz/progressbar/v3"
)

// maxDescriptionLen is the number of runes of the input's name shown in front of the bar.
const maxDescriptionLen = 32

// NewProgressBar returns a progress bar that counts the bytes read from the named input.
//
// maxBytes can be -1 if the size of the input is unknown, in which case a spinner is shown. The bar is written to
// standard error so that it never mixes with an XHTML document written to standard output.
func NewProgressBar(maxBytes int64, name string, options ...progressbar.Option) *progressbar.ProgressBar {
	return progressbar.NewOptions64(maxBytes,
		append([]progressbar.Option{
			progressbar.OptionSetDescription(Describe(name)),
			progressbar.OptionSetWriter(os.Stderr),
			progressbar.OptionShowBytes(true),
			progressbar.OptionSetWidth(10),
			progressbar.OptionThrottle(1 * time.Second),
			progressbar.OptionShowElapsedTimeOnFinish(),
			progressbar.OptionOnCompletion(func() {
				_, _ = fmt.Fprint(os.Stderr, "\n")
			}),
			progressbar.OptionSpinnerType(14),
			progressbar.OptionFullWidth(),
			progressbar.OptionSetRenderBlankState(true)},
			options...)...)
}

// Describe returns the description of the progress bar for the named input: its base name, truncated if too long.
func Describe(name string) string {
	return "extracting " + util.TruncateRightWithSuffix(filepath.Base(name), maxDescriptionLen, "…")
}

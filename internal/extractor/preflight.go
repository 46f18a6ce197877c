package extractor

import (
	"fmt"
	"os"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
)

// Preflight validates the file structure with pdfcpu before text extraction
// and returns its page count. Encrypted, truncated and non-PDF files fail
// here with ErrUnreadable.
func Preflight(path string) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrUnreadable, err)
	}
	defer f.Close()

	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed

	n, err := api.PageCount(f, conf)
	if err != nil {
		return 0, fmt.Errorf("%w: %s: %v", ErrUnreadable, path, err)
	}
	if n == 0 {
		return 0, fmt.Errorf("%w: %s: PDF has no pages", ErrUnreadable, path)
	}
	return n, nil
}

package extractor

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"unicode"

	"github.com/insightdelivered/phonebill-converter/internal/models"
)

// ErrUnreadable is returned when a document cannot be opened or yields no
// text: corrupt, encrypted, or image-only files.
var ErrUnreadable = errors.New("unreadable document")

// Sources for Options.Source.
const (
	SourceAuto    = "auto"
	SourceLibrary = "library"
	SourceRaw     = "raw"
)

// Options configures Open.
type Options struct {
	// Encoding of byte strings without a ToUnicode map: "cp1250" (default) or "utf-8".
	Encoding string
	// Source selects the extraction method. Empty means SourceAuto: the
	// PDF library first, the raw stream walker when it yields nothing usable.
	Source string
	Logger *slog.Logger
}

// Open extracts the ordered, per-page tokens of the PDF at path.
func Open(path string, opts Options) (*models.Document, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	norm, err := NewNormalizer(opts.Encoding)
	if err != nil {
		return nil, err
	}

	pageCount, err := Preflight(path)
	if err != nil {
		return nil, err
	}
	logger.Debug("preflight ok", "path", path, "pages", pageCount)

	switch opts.Source {
	case SourceLibrary:
		return extractWithLibrary(path, norm)
	case SourceRaw:
		return ExtractRaw(path, norm)
	case "", SourceAuto:
	default:
		return nil, fmt.Errorf("unknown extraction source %q", opts.Source)
	}

	doc, libErr := extractWithLibrary(path, norm)
	if errors.Is(libErr, ErrUnreadable) {
		return nil, libErr
	}
	if libErr == nil && isReadable(doc) {
		logger.Debug("extracted with library", "path", path, "tokens", doc.TokenCount())
		return doc, nil
	}
	if libErr != nil {
		logger.Warn("library extraction failed, trying raw streams", "path", path, "error", libErr)
	}

	raw, rawErr := ExtractRaw(path, norm)
	if rawErr == nil && isReadable(raw) {
		logger.Debug("extracted from raw streams", "path", path, "tokens", raw.TokenCount())
		return raw, nil
	}

	if libErr != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrUnreadable, path, libErr)
	}
	if rawErr != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrUnreadable, path, rawErr)
	}
	return nil, fmt.Errorf("%w: %s: no readable text, the file may be image-based", ErrUnreadable, path)
}

// textQuality returns the ratio of printable runes to all runes over every
// token of doc, in [0, 1].
func textQuality(doc *models.Document) float64 {
	total, printable := 0, 0
	for _, p := range doc.Pages {
		for _, tok := range p.Tokens {
			for _, r := range tok {
				total++
				if unicode.IsPrint(r) && r != unicode.ReplacementChar {
					printable++
				}
			}
		}
	}
	if total == 0 {
		return 0
	}
	return float64(printable) / float64(total)
}

// isReadable requires at least one token and mostly printable text.
func isReadable(doc *models.Document) bool {
	if doc == nil || doc.TokenCount() == 0 {
		return false
	}
	return textQuality(doc) > 0.6
}

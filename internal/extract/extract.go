// Package extract pulls plain text out of resume documents.
//
// Extraction never fails loudly: an unreadable, corrupt, unsupported or empty
// document yields "" and a warning in the log. Callers treat "" as "no usable
// text".
package extract

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/spigell/jobmatch/internal/logger"
	"github.com/spigell/jobmatch/internal/utils"
)

const defaultPreviewLength = 200

// TextSource turns a document path into plain text.
type TextSource interface {
	Extract(path string) string
}

// Extractor dispatches on file extension. It keeps no state between calls.
type Extractor struct {
	logger     *zap.Logger
	previewLen int
}

func New(log *zap.Logger, previewLen int) *Extractor {
	if previewLen <= 0 {
		previewLen = defaultPreviewLength
	}
	return &Extractor{
		logger:     logger.WithEngineFields(log, "text_extractor"),
		previewLen: previewLen,
	}
}

// Extract returns the trimmed text of the document at path, or "" on any failure.
func (e *Extractor) Extract(path string) (text string) {
	log := e.logger.With(zap.String("resume_path", path))

	defer func() {
		// Malformed PDFs can make the parser panic deep inside its object reader.
		if r := recover(); r != nil {
			log.Warn("document extraction failed", zap.Error(fmt.Errorf("parser panic: %v", r)))
			text = ""
		}
	}()

	var err error
	switch kind := strings.ToLower(filepath.Ext(path)); kind {
	case ".pdf":
		text, err = readPDF(path)
	case ".html", ".htm":
		text, err = readHTML(path)
	case "", ".txt", ".text", ".md":
		text, err = readPlain(path)
	default:
		err = fmt.Errorf("unsupported document type %q", kind)
	}

	if err != nil {
		log.Warn("document extraction failed", zap.Error(err))
		return ""
	}

	text = strings.TrimSpace(text)
	if text == "" {
		log.Warn("document has no extractable text")
		return ""
	}

	log.Debug("document extracted",
		zap.Int("text_length", utf8.RuneCountInString(text)),
		zap.String("text_preview", utils.TruncateForLog(text, e.previewLen)),
	)
	return text
}

func readPlain(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read text document: %w", err)
	}
	if !utf8.Valid(data) {
		return "", fmt.Errorf("text document is not valid UTF-8")
	}
	return string(data), nil
}

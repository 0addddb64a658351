// Package report renders captured cookbook sessions into self-contained
// Markdown documents. Four session shapes are supported (chat, tool-calling,
// context-search, manual-context) plus flat CSV/JSON/Markdown exports of the
// model listing. Renderers are pure functions of their records and metadata;
// the only side effects are directory creation and the file write.
package report

import (
	"time"

	"go.uber.org/zap"
)

// Reporter writes session reports through a Sink. A failed save is an
// operator-visible, non-fatal condition: it is logged and returned as an
// error that callers report and skip.
type Reporter struct {
	sink   *Sink
	logger *zap.Logger
	now    func() time.Time
}

// New creates a Reporter over the given sink. A nil logger disables
// logging.
func New(sink *Sink, logger *zap.Logger) *Reporter {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Reporter{sink: sink, logger: logger, now: time.Now}
}

// generatedAt is the human-readable generation timestamp embedded at the
// top of every document.
func (r *Reporter) generatedAt() string {
	return r.now().Format("2006-01-02 15:04:05")
}

// modelQualifier is the filename qualifier for a model identifier.
func modelQualifier(modelID string) string {
	if modelID == "" {
		return "unknown"
	}
	return modelID
}

// save writes a finished document and logs the outcome.
func (r *Reporter) save(filename, doc string) (string, error) {
	path, err := r.sink.Write(filename, doc)
	if err != nil {
		r.logger.Error("failed to save report", zap.String("filename", filename), zap.Error(err))
		return "", err
	}
	r.logger.Info("report saved", zap.String("path", path))
	return path, nil
}

package tabular

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
)

// extractor is the capability implemented once per backend.
// It returns normalized rows plus the ordered column list for them.
type extractor interface {
	extract(data []byte) ([]Row, []string, error)
}

// Pipeline is the PDF extraction engine.
type Pipeline struct {
	cfg      Config
	logger   *slog.Logger
	backends map[Method]extractor

	// fallback order for auto mode: richer structural extraction first,
	// plain text only as last resort.
	order []Method
}

// Config configures the extraction pipeline.
type Config struct {
	// MaxFileSize is the maximum payload size to process (default: 50 MB).
	MaxFileSize int64 `json:"max_file_size" yaml:"max_file_size"`

	// Logger for debug/error messages.
	Logger *slog.Logger `json:"-" yaml:"-"`
}

func (c *Config) defaults() {
	if c.MaxFileSize <= 0 {
		c.MaxFileSize = 50 * 1024 * 1024
	}
	if c.Logger == nil {
		c.Logger = slog.Default()
	}
}

// New creates a Pipeline with the given configuration.
func New(cfg Config) *Pipeline {
	cfg.defaults()
	return &Pipeline{
		cfg:    cfg,
		logger: cfg.Logger,
		backends: map[Method]extractor{
			MethodPlumber: plumberExtractor{},
			MethodTabula:  tabulaExtractor{},
			MethodText:    textExtractor{},
		},
		order: []Method{MethodPlumber, MethodTabula, MethodText},
	}
}

// MaxFileSize reports the configured payload limit.
func (p *Pipeline) MaxFileSize() int64 { return p.cfg.MaxFileSize }

// Extract converts a PDF payload into rows using the requested method.
//
// Auto mode tries each backend in quality-descending order; a backend that
// errors or yields zero rows is skipped. Malformed input fails fast with
// ErrEmptyInput or ErrInvalidPDF before any backend runs.
func (p *Pipeline) Extract(ctx context.Context, data []byte, method Method) (*Result, error) {
	if len(data) == 0 {
		return nil, ErrEmptyInput
	}
	if int64(len(data)) > p.cfg.MaxFileSize {
		return nil, fmt.Errorf("%w: %d bytes (max %d)", ErrInvalidPDF, len(data), p.cfg.MaxFileSize)
	}
	if err := p.validatePDF(data); err != nil {
		return nil, err
	}

	methods := []Method{method}
	if method == MethodAuto {
		methods = p.order
	}

	for i, m := range methods {
		last := i == len(methods)-1
		ext, ok := p.backends[m]
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrUnknownMethod, m)
		}

		rows, cols, err := ext.extract(data)
		if err != nil {
			if last {
				if method != MethodAuto {
					return nil, fmt.Errorf("extract %s: %w", m, err)
				}
				p.logger.Warn("extraction method failed", "method", m, "error", err)
				return nil, ErrNoContent
			}
			p.logger.Debug("extraction method failed, falling back", "method", m, "error", err)
			continue
		}
		if len(rows) == 0 {
			if last {
				return nil, ErrNoContent
			}
			p.logger.Debug("extraction method found no rows, falling back", "method", m)
			continue
		}

		if err := ctx.Err(); err != nil {
			return nil, err
		}
		p.logger.Info("extraction complete", "method", m, "rows", len(rows), "columns", len(cols))
		return &Result{
			MethodUsed:    m,
			RowsExtracted: len(rows),
			Columns:       cols,
			Rows:          rows,
			ExtractedAt:   time.Now().UTC(),
		}, nil
	}

	return nil, ErrNoContent
}

// validatePDF rejects payloads that do not parse as PDF structure.
// This is a distinct failure from "extraction found nothing".
func (p *Pipeline) validatePDF(data []byte) error {
	if !bytes.HasPrefix(data, []byte("%PDF-")) {
		return fmt.Errorf("%w: missing %%PDF header", ErrInvalidPDF)
	}
	conf := model.NewDefaultConfiguration()
	if _, err := api.ReadValidateAndOptimize(bytes.NewReader(data), conf); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidPDF, err)
	}
	return nil
}

// SupportedMethods returns the selectable method names.
func SupportedMethods() []string {
	return []string{string(MethodAuto), string(MethodPlumber), string(MethodTabula), string(MethodText)}
}

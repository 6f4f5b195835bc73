// Package pipeline orchestrates turning an uploaded resume file into a checked ResumeDocument:
// validate, extract, split, parse and check.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/Vigneshm07/resume-parser/internal/extraction"
	"github.com/Vigneshm07/resume-parser/internal/ingestion"
	"github.com/Vigneshm07/resume-parser/internal/observability"
	"github.com/Vigneshm07/resume-parser/internal/parsing"
	"github.com/Vigneshm07/resume-parser/internal/schemas"
	"github.com/Vigneshm07/resume-parser/internal/types"
	"github.com/Vigneshm07/resume-parser/internal/upload"
)

// Step names reported through ProgressEvent
const (
	StepValidate = "validate"
	StepExtract  = "extract"
	StepSplit    = "split"
	StepParse    = "parse"
	StepCheck    = "check"
)

// ProgressEvent represents a progress update while a file is processed
type ProgressEvent struct {
	Step    string `json:"step"`
	Source  string `json:"source"`
	Message string `json:"message"`
}

// ProgressCallback is called when pipeline progress occurs
type ProgressCallback func(event ProgressEvent)

// Options holds configuration for processing files
type Options struct {
	MaxUploadBytes    int64 // 0 means upload.MaxUploadBytes
	SkipPDFValidation bool
	OnProgress        ProgressCallback
}

// Input is one uploaded file held in memory
type Input struct {
	Filename    string
	ContentType string
	Data        []byte
}

// Output is the result of processing one file
type Output struct {
	File      upload.Metadata       `json:"file"`
	Document  *types.ResumeDocument `json:"content"`
	PageCount int                   `json:"page_count"`
	LineCount int                   `json:"line_count"`
}

// FileResult pairs a batch input path with its output or error
type FileResult struct {
	Path   string
	Output *Output
	Err    error
}

// emitProgress calls the progress callback if configured
func emitProgress(opts *Options, step, source, message string) {
	if opts.OnProgress != nil {
		opts.OnProgress(ProgressEvent{Step: step, Source: source, Message: message})
	}
}

func (o *Options) limit() int64 {
	if o.MaxUploadBytes > 0 {
		return o.MaxUploadBytes
	}
	return upload.MaxUploadBytes
}

func (o *Options) extractorFor(kind upload.Kind) (extraction.Extractor, error) {
	switch kind {
	case upload.KindPDF:
		return &extraction.PDFExtractor{SkipValidation: o.SkipPDFValidation}, nil
	case upload.KindDOCX:
		return extraction.ForKind(kind)
	default:
		// Declared PDF or DOCX but the bytes are something else.
		return nil, &extraction.ExtractionError{
			Message: "unrecognised document content",
			Cause:   fmt.Errorf("%w: %s", extraction.ErrUnsupportedKind, kind),
		}
	}
}

// Process validates, extracts and parses one uploaded file.
//
// Upload errors wrap the upload sentinels; extraction failures are *extraction.ExtractionError.
// A document that fails the output schema is reported as a plain error.
func Process(ctx context.Context, in Input, opts Options) (*Output, error) {
	logger := observability.Logger(ctx).With("file", in.Filename)
	start := time.Now()

	emitProgress(&opts, StepValidate, in.Filename, "validating upload")
	if err := upload.ValidateLimit(in.Filename, in.ContentType, int64(len(in.Data)), opts.limit()); err != nil {
		return nil, err
	}
	meta := upload.NewMetadata(in.Filename, in.ContentType, in.Data)

	emitProgress(&opts, StepExtract, in.Filename, fmt.Sprintf("extracting %s text", meta.Kind))
	extractor, err := opts.extractorFor(meta.Kind)
	if err != nil {
		return nil, err
	}
	result, err := extractor.Extract(ctx, in.Data)
	if err != nil {
		return nil, err
	}
	logger.Debug("text extracted", "kind", meta.Kind, "pages", result.PageCount)

	emitProgress(&opts, StepSplit, in.Filename, fmt.Sprintf("splitting %d pages", result.PageCount))
	lines := ingestion.LinesFromPages(result.Pages)

	emitProgress(&opts, StepParse, in.Filename, fmt.Sprintf("parsing %d lines", len(lines)))
	doc, err := ParseLines(lines)
	if err != nil {
		return nil, err
	}

	emitProgress(&opts, StepCheck, in.Filename, "document checked")
	logger.Info("resume processed",
		"pages", result.PageCount,
		"lines", len(lines),
		"experience", len(doc.Experience),
		"projects", len(doc.Projects),
		"duration_ms", time.Since(start).Milliseconds(),
	)

	return &Output{
		File:      *meta,
		Document:  doc,
		PageCount: result.PageCount,
		LineCount: len(lines),
	}, nil
}

// ParseLines parses prepared lines and checks the result against the output contract.
func ParseLines(lines []string) (*types.ResumeDocument, error) {
	doc := parsing.Parse(lines)
	if err := schemas.ValidateResumeDocument(doc); err != nil {
		return nil, fmt.Errorf("parsed document failed schema check: %w", err)
	}
	return doc, nil
}

// ProcessFile reads path and processes it, sniffing the content type from the bytes.
func ProcessFile(ctx context.Context, path string, opts Options) (*Output, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("failed to stat %s: %w", path, err)
	}
	if info.Size() > opts.limit() {
		return nil, fmt.Errorf("%w: %d bytes (max %d)", upload.ErrFileTooLarge, info.Size(), opts.limit())
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	return Process(ctx, Input{
		Filename:    filepath.Base(path),
		ContentType: upload.ContentType(data),
		Data:        data,
	}, opts)
}

// ProcessFiles processes paths with at most concurrency files in flight.
// Per-file failures are reported in the results, in input order; only cancellation of ctx
// stops the batch early.
func ProcessFiles(ctx context.Context, paths []string, concurrency int, opts Options) ([]FileResult, error) {
	if concurrency < 1 {
		concurrency = 1
	}

	results := make([]FileResult, len(paths))
	var mu sync.Mutex // serializes the progress callback

	if cb := opts.OnProgress; cb != nil {
		opts.OnProgress = func(e ProgressEvent) {
			mu.Lock()
			defer mu.Unlock()
			cb(e)
		}
	}

	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)

	for i, path := range paths {
		g.Go(func() error {
			if err := gCtx.Err(); err != nil {
				return err
			}
			out, err := ProcessFile(gCtx, path, opts)
			results[i] = FileResult{Path: path, Output: out, Err: err}

			var extractErr *extraction.ExtractionError
			if errors.As(err, &extractErr) && errors.Is(extractErr, context.Canceled) {
				return err
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return results, err
	}
	return results, nil
}

// Package export delivers assembled pages: one SVG file per page, or every
// page of a project in one print-ready HTML document.
package export

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/wudi/infosvg/assemble"
	"github.com/wudi/infosvg/observability"
	"github.com/wudi/infosvg/svg"
)

var (
	// ErrNoActivePage is returned when no page is selected for export.
	ErrNoActivePage = errors.New("export: no active page selected")
	// ErrSurfaceUnavailable is wrapped by print surfaces that cannot open,
	// for instance when the environment blocks new windows.
	ErrSurfaceUnavailable = errors.New("export: print surface unavailable")
)

// SVGMIMEType is the media type of single-page files.
const SVGMIMEType = "image/svg+xml;charset=utf-8"

// File is a named document ready for download.
type File struct {
	Name     string
	MIMEType string
	Data     []byte
}

// Downloader hands a file to the user.
type Downloader interface {
	Download(ctx context.Context, f *File) error
}

// PrintSurface shows a print document and lets it drive the print dialog.
type PrintSurface interface {
	Print(ctx context.Context, doc *PrintDocument) error
}

// Exporter drives the assembler once per page.
type Exporter struct {
	assembler   *assemble.Assembler
	downloader  Downloader
	surface     PrintSurface
	logger      observability.Logger
	tracer      observability.Tracer
	settleDelay time.Duration
	title       string
}

// Option configures an Exporter.
type Option func(*Exporter)

// WithDownloader sets where single-page files are delivered.
func WithDownloader(d Downloader) Option {
	return func(e *Exporter) { e.downloader = d }
}

// WithPrintSurface sets where print documents are delivered.
func WithPrintSurface(s PrintSurface) Option {
	return func(e *Exporter) { e.surface = s }
}

// WithLogger sets the logger.
func WithLogger(l observability.Logger) Option {
	return func(e *Exporter) { e.logger = l }
}

// WithTracer sets the tracer.
func WithTracer(t observability.Tracer) Option {
	return func(e *Exporter) { e.tracer = t }
}

// WithSettleDelay makes the print script wait d after fonts are ready
// before printing. This is a known limitation kept for surfaces that
// report fonts ready before the pages are painted: a fixed delay can still
// truncate very large documents.
func WithSettleDelay(d time.Duration) Option {
	return func(e *Exporter) {
		if d > 0 {
			e.settleDelay = d
		}
	}
}

// WithTitle sets the print document title.
func WithTitle(title string) Option {
	return func(e *Exporter) { e.title = title }
}

// New returns an exporter over a.
func New(a *assemble.Assembler, opts ...Option) *Exporter {
	e := &Exporter{
		assembler: a,
		logger:    observability.NopLogger{},
		tracer:    observability.NopTracer(),
		title:     "PDF Export",
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// FileName returns the download name of the page at 1-based index.
func FileName(index int) string {
	return fmt.Sprintf("Layout_Page_%d.svg", index)
}

// RenderPage builds the standalone file of one page without delivering it.
// It returns nil and no error when the page is not rendered.
func (e *Exporter) RenderPage(ctx context.Context, pageID string) (*File, error) {
	if pageID == "" {
		return nil, ErrNoActivePage
	}
	doc, err := e.assembler.Assemble(ctx, pageID)
	if err != nil {
		return nil, fmt.Errorf("export: page %q: %w", pageID, err)
	}
	if doc == nil {
		return nil, nil
	}
	data, err := svg.Marshal(doc, svg.WithDeclaration())
	if err != nil {
		return nil, fmt.Errorf("export: encode page %q: %w", pageID, err)
	}
	index := slices.Index(e.assembler.Source().PageIDs(), pageID) + 1
	return &File{Name: FileName(index), MIMEType: SVGMIMEType, Data: data}, nil
}

// ExportPage renders one page and hands it to the downloader.
func (e *Exporter) ExportPage(ctx context.Context, pageID string) (*File, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, span := e.tracer.StartSpan(ctx, observability.SpanExportPage)
	defer span.Finish()

	f, err := e.RenderPage(ctx, pageID)
	if err != nil {
		span.SetError(err)
		return nil, err
	}
	if f == nil {
		e.logger.Info("nothing to export", observability.String("page", pageID))
		return nil, nil
	}
	if e.downloader != nil {
		if err := e.downloader.Download(ctx, f); err != nil {
			span.SetError(err)
			return nil, fmt.Errorf("export: download %s: %w", f.Name, err)
		}
	}
	e.logger.Info("page exported",
		observability.String("page", pageID),
		observability.String("file", f.Name),
		observability.Int("bytes", len(f.Data)),
	)
	return f, nil
}

// RenderPrint builds the compound print document of every page.
func (e *Exporter) RenderPrint(ctx context.Context) (*PrintDocument, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	var pages [][]byte
	for _, id := range e.assembler.Source().PageIDs() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		doc, err := e.assembler.Assemble(ctx, id)
		if err != nil {
			return nil, fmt.Errorf("export: page %q: %w", id, err)
		}
		var page []byte
		if doc != nil {
			if page, err = svg.Marshal(doc); err != nil {
				return nil, fmt.Errorf("export: encode page %q: %w", id, err)
			}
		}
		pages = append(pages, bytes.TrimSpace(page))
	}
	return newPrintDocument(e.title, pages, e.settleDelay), nil
}

// ExportAll renders every page into one print document and hands it to the
// print surface. A surface that cannot open is logged and ignored.
func (e *Exporter) ExportAll(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, span := e.tracer.StartSpan(ctx, observability.SpanExportAll)
	defer span.Finish()

	doc, err := e.RenderPrint(ctx)
	if err != nil {
		span.SetError(err)
		return err
	}
	if e.surface == nil {
		e.logger.Warn("no print surface configured", observability.Int("pages", doc.Pages))
		return nil
	}
	if err := e.surface.Print(ctx, doc); err != nil {
		if errors.Is(err, ErrSurfaceUnavailable) {
			e.logger.Warn("print surface did not open", observability.Error("error", err))
			return nil
		}
		span.SetError(err)
		return fmt.Errorf("export: print: %w", err)
	}
	e.logger.Info("print document delivered", observability.Int("pages", doc.Pages))
	return nil
}

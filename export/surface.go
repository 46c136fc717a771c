package export

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/wudi/infosvg/scripting"
)

// DirDownloader writes files into a directory.
type DirDownloader struct {
	Dir string
}

func (d DirDownloader) Download(ctx context.Context, f *File) error {
	if err := os.MkdirAll(d.Dir, 0o755); err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(d.Dir, f.Name), f.Data, 0o644)
}

// DownloaderFunc adapts a function to Downloader.
type DownloaderFunc func(ctx context.Context, f *File) error

func (fn DownloaderFunc) Download(ctx context.Context, f *File) error { return fn(ctx, f) }

// FileSurface writes the print document to Path for a browser to open.
type FileSurface struct {
	Path string
}

func (s FileSurface) Print(ctx context.Context, doc *PrintDocument) error {
	f, err := os.Create(s.Path)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrSurfaceUnavailable, err)
	}
	if _, err := f.Write(doc.HTML); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// ErrNotPrinted is returned by HeadlessSurface when the document never
// invoked print.
var ErrNotPrinted = errors.New("export: print document did not print")

// HeadlessSurface loads the print document in a scripted stub window and
// checks the handoff: print must fire, close is recorded.
type HeadlessSurface struct {
	// Window is the stub of the last document run.
	Window *scripting.Window
}

func (s *HeadlessSurface) Print(ctx context.Context, doc *PrintDocument) error {
	w, err := scripting.RunPrintDocument(ctx, string(doc.HTML))
	s.Window = w
	if err != nil {
		return err
	}
	if w.Printed() == 0 {
		return ErrNotPrinted
	}
	return nil
}

package main

import (
	"bytes"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"

	"github.com/wudi/infosvg/assemble"
	"github.com/wudi/infosvg/export"
	"github.com/wudi/infosvg/fonts"
	"github.com/wudi/infosvg/layout"
	"github.com/wudi/infosvg/observability"
	"github.com/wudi/infosvg/project"
	"github.com/wudi/infosvg/recovery"
	"github.com/wudi/infosvg/snapshot"
	"github.com/wudi/infosvg/textfrag"
	"github.com/wudi/infosvg/visual"
)

type options struct {
	inputPath string
	pageID    string
	all       bool
	outDir    string
	printPath string
	strict    bool
	verbose   bool
}

func main() {
	opts, err := parseFlags(os.Args[1:])
	if err != nil {
		fmt.Fprintf(os.Stderr, "svgexport: %v\n", err)
		os.Exit(2)
	}
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	if err := run(ctx, opts); err != nil {
		fmt.Fprintf(os.Stderr, "svgexport: %v\n", err)
		os.Exit(1)
	}
}

func parseFlags(args []string) (options, error) {
	var opts options
	fs := flag.NewFlagSet("svgexport", flag.ContinueOnError)
	fs.Usage = func() {
		fmt.Fprintf(fs.Output(), "Usage: svgexport [-page id | -all] [-out dir] [-print file] [-strict] snapshot.json|project.json\n")
		fs.PrintDefaults()
	}
	fs.StringVar(&opts.pageID, "page", "", "Export the page with this id")
	fs.BoolVar(&opts.all, "all", false, "Export every page as its own file")
	fs.StringVar(&opts.outDir, "out", ".", "Directory for exported page files")
	fs.StringVar(&opts.printPath, "print", "", "Write the compound print document to this file")
	fs.BoolVar(&opts.strict, "strict", false, "Fail on the first degraded node")
	fs.BoolVar(&opts.verbose, "v", false, "Log debug output")
	if err := fs.Parse(args); err != nil {
		return options{}, err
	}

	if fs.NArg() != 1 {
		fs.Usage()
		return options{}, fmt.Errorf("missing input path")
	}
	if opts.pageID != "" && opts.all {
		return options{}, fmt.Errorf("-page and -all are mutually exclusive")
	}
	opts.inputPath = fs.Arg(0)
	if opts.pageID == "" && opts.printPath == "" {
		opts.all = true
	}
	return opts, nil
}

func run(ctx context.Context, opts options) error {
	level := slog.LevelInfo
	if opts.verbose {
		level = slog.LevelDebug
	}
	logger := observability.NewSlogLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	data, err := os.ReadFile(opts.inputPath)
	if err != nil {
		return fmt.Errorf("read input: %w", err)
	}
	face, err := fonts.DefaultFace()
	if err != nil {
		return err
	}
	src, err := load(data, face, logger)
	if err != nil {
		return err
	}

	var strategy recovery.Strategy = &recovery.LenientStrategy{Logger: logger}
	if opts.strict {
		strategy = recovery.NewStrictStrategy()
	}
	a := assemble.New(src,
		assemble.WithMeasurer(textfrag.FallbackMeasurer{
			Primary:   textfrag.GlyphMeasurer{},
			Secondary: fonts.NewMeasurer(face, src.Scale()),
		}),
		assemble.WithRecovery(strategy),
		assemble.WithLogger(logger),
	)

	eopts := []export.Option{
		export.WithLogger(logger),
		export.WithDownloader(export.DirDownloader{Dir: opts.outDir}),
	}
	if opts.printPath != "" {
		eopts = append(eopts, export.WithPrintSurface(export.FileSurface{Path: opts.printPath}))
	}
	e := export.New(a, eopts...)

	switch {
	case opts.pageID != "":
		f, err := e.ExportPage(ctx, opts.pageID)
		if err != nil {
			return err
		}
		if f == nil {
			return fmt.Errorf("page %q not found", opts.pageID)
		}
	case opts.all:
		for _, id := range src.PageIDs() {
			if _, err := e.ExportPage(ctx, id); err != nil {
				return err
			}
		}
	}
	if opts.printPath != "" {
		if err := e.ExportAll(ctx); err != nil {
			return err
		}
	}
	return nil
}

// load decodes data as a report project when its blocks carry a type, and
// as a captured snapshot otherwise.
func load(data []byte, face *fonts.Face, logger observability.Logger) (visual.Source, error) {
	if !isProject(data) {
		snap, err := snapshot.Decode(bytes.NewReader(data))
		if err != nil {
			return nil, err
		}
		return snap, nil
	}
	doc, err := project.Load(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	engine, err := layout.NewEngine(layout.WithFace(face), layout.WithLogger(logger))
	if err != nil {
		return nil, err
	}
	return engine.Render(doc)
}

func isProject(data []byte) bool {
	var probe struct {
		Pages []struct {
			Blocks []struct {
				Kind string `json:"kind"`
				Type string `json:"type"`
			} `json:"blocks"`
		} `json:"pages"`
	}
	if err := json.Unmarshal(data, &probe); err != nil {
		return false
	}
	for _, p := range probe.Pages {
		for _, b := range p.Blocks {
			if b.Kind != "" {
				return false
			}
			if b.Type != "" {
				return true
			}
		}
	}
	return false
}

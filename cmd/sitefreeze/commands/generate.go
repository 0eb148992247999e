package commands

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"
)

// GenerateCmd implements the 'generate' command.
type GenerateCmd struct {
	Output             string   `short:"o" help:"Output folder (defaults to output.directory)"`
	BaseURL            string   `name:"base-url" help:"Final base URL written into pages (defaults to output.base_url)"`
	Preserve           []string `help:"Top-level names in the output folder to keep when clearing"`
	SkipMedia          bool     `name:"skip-media" help:"Do not copy media referenced by pages"`
	SkipPluginAssets   bool     `name:"skip-plugin-assets" help:"Do not copy plugin assets"`
	IgnoreUntranslated bool     `name:"ignore-untranslated" help:"Skip pages lacking a translation for the language being generated"`
	IndexFile          string   `name:"index-file" help:"Index file name for directory pages"`
	Record             string   `help:"Write a build record to this path"`
}

func (c *GenerateCmd) Run(g *Global, root *CLI) error {
	cfg, err := loadConfig(g, root)
	if err != nil {
		return err
	}
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	s, err := openSinks(cfg, nil)
	if err != nil {
		return err
	}
	defer s.Close()

	p, err := loadProject(cfg, s, overrides{
		recordPath:         c.Record,
		indexFile:          c.IndexFile,
		skipMedia:          c.SkipMedia,
		skipPluginAssets:   c.SkipPluginAssets,
		ignoreUntranslated: c.IgnoreUntranslated,
	})
	if err != nil {
		return err
	}

	out := firstNonEmpty(c.Output, cfg.Output.Directory)
	preserve := append(append([]string(nil), cfg.Output.Preserve...), c.Preserve...)
	files, err := p.gen.Generate(ctx, out, firstNonEmpty(c.BaseURL, cfg.Output.BaseURL), preserve)
	if err != nil {
		return err
	}
	fmt.Printf("Generated %d files in %s\n", len(files), cfg.Resolve(out))
	return nil
}

// PagesCmd implements the 'pages' command.
type PagesCmd struct {
	BaseURL string `name:"base-url" help:"Final base URL written into pages (defaults to output.base_url)"`
}

func (c *PagesCmd) Run(g *Global, root *CLI) error {
	cfg, err := loadConfig(g, root)
	if err != nil {
		return err
	}
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	p, err := loadProject(cfg, &sinks{}, overrides{})
	if err != nil {
		return err
	}
	files, err := p.gen.GeneratePages(ctx, firstNonEmpty(c.BaseURL, cfg.Output.BaseURL))
	if err != nil {
		return err
	}
	fmt.Printf("Rendered %d files in %s\n", len(files), p.gen.OutputFolder())
	return nil
}

// CopyCmd implements the 'copy' command.
type CopyCmd struct {
	Path string `arg:"" help:"File or folder to copy, relative to the project root"`
}

func (c *CopyCmd) Run(g *Global, root *CLI) error {
	cfg, err := loadConfig(g, root)
	if err != nil {
		return err
	}
	p, err := loadProject(cfg, &sinks{}, overrides{})
	if err != nil {
		return err
	}
	files := p.gen.CopyFiles(context.Background(), c.Path)
	fmt.Printf("Copied %d files to %s\n", len(files), p.gen.OutputFolder())
	return nil
}

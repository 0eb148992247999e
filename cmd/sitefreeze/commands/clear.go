package commands

import (
	"fmt"

	"git.home.luguber.info/inful/sitefreeze/internal/foundation/errors"
)

// ClearCmd implements the 'clear' command.
type ClearCmd struct {
	Folder   string   `arg:"" help:"Folder to empty, relative to the project root"`
	Preserve []string `help:"Top-level names to keep"`
}

func (c *ClearCmd) Run(g *Global, root *CLI) error {
	cfg, err := loadConfig(g, root)
	if err != nil {
		return err
	}
	p, err := loadProject(cfg, &sinks{}, overrides{})
	if err != nil {
		return err
	}
	if !p.gen.ClearFolder(c.Folder, c.Preserve) {
		return errors.FileSystemError("some entries could not be removed").
			WithContext("folder", cfg.Resolve(c.Folder)).Build()
	}
	fmt.Printf("Cleared %s\n", cfg.Resolve(c.Folder))
	return nil
}

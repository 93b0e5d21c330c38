package commands

import (
	"fmt"

	"git.home.luguber.info/inful/debbuilder/internal/builder"
	"git.home.luguber.info/inful/debbuilder/internal/config"
	"git.home.luguber.info/inful/debbuilder/internal/executor"
)

// DiscoverCmd lists the Build Set a run would use, for debugging filter
// rules before committing to a build.
type DiscoverCmd struct {
	Whitelist string `help:"Override the whitelist pattern"`
	Blacklist string `help:"Override the blacklist pattern"`
}

func (d *DiscoverCmd) Run(_ *Global, root *CLI) error {
	cfg, err := config.Load(root.Config)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if d.Whitelist != "" {
		cfg.Whitelist = d.Whitelist
	}
	if d.Blacklist != "" {
		cfg.Blacklist = d.Blacklist
	}

	units, err := builder.NewOrchestrator(cfg, executor.NewSystem()).Select()
	if err != nil {
		return err
	}

	fmt.Printf("%d packages selected:\n", len(units))
	for _, u := range units {
		fmt.Printf("  %s\t%s\n", u.Name, u.Path)
	}
	return nil
}

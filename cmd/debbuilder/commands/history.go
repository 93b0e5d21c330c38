package commands

import (
	"context"
	"fmt"

	"git.home.luguber.info/inful/debbuilder/internal/config"
	"git.home.luguber.info/inful/debbuilder/internal/history"
)

// HistoryCmd prints recent run reports from the history database.
type HistoryCmd struct {
	Limit int `short:"n" help:"Number of runs to show" default:"10"`
}

func (h *HistoryCmd) Run(_ *Global, root *CLI) error {
	cfg, err := config.Load(root.Config)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if cfg.History.Path == "" {
		return fmt.Errorf("history is not configured (set history.path)")
	}

	store, err := history.Open(cfg.History.Path)
	if err != nil {
		return err
	}
	defer store.Close()

	rows, err := store.Recent(context.Background(), h.Limit)
	if err != nil {
		return err
	}
	if len(rows) == 0 {
		fmt.Println("No recorded runs")
		return nil
	}

	for _, r := range rows {
		fmt.Printf("%s  %s  total=%d succeeded=%d failed=%d artifacts=%d\n",
			r.Timestamp.Format("2006-01-02 15:04:05"),
			r.RunID, r.Total, r.Succeeded, r.Failed, len(r.Artifacts))
	}
	return nil
}

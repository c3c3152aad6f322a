// Command panoptes-setup is an interactive terminal wizard that builds
// the chain/node/repository monitoring configuration consumed by the
// alerting backend. Sessions can be saved as drafts and resumed later.
package main

import (
	"context"
	"database/sql"
	"flag"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/tkel/panoptes-setup/internal/config"
	"github.com/tkel/panoptes-setup/internal/draft"
	"github.com/tkel/panoptes-setup/internal/tui"
	"github.com/tkel/panoptes-setup/internal/wizard"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "panoptes-setup:", err)
		os.Exit(1)
	}
}

func run() error {
	var (
		resumeID   = flag.String("resume", "", "resume the draft with this id")
		listDrafts = flag.Bool("list-drafts", false, "list saved drafts and exit")
		exportPath = flag.String("export", "", "override the export path")
	)
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if *exportPath != "" {
		cfg.Export.Path = *exportPath
	}

	workflows, err := wizard.LoadWorkflows(cfg.Workflow.Path)
	if err != nil {
		return err
	}

	// Draft storage is best-effort: a broken database disables
	// save/resume but not the wizard itself.
	var drafts *draft.Repo
	db, err := openDrafts(cfg.Draft)
	if err != nil {
		fmt.Fprintln(os.Stderr, "panoptes-setup: drafts disabled:", err)
	} else {
		defer db.Close()
		drafts = draft.NewRepo(db)
	}

	if *listDrafts {
		if drafts == nil {
			return fmt.Errorf("draft storage unavailable")
		}
		return printDrafts(drafts)
	}

	session, err := buildSession(workflows, drafts, *resumeID)
	if err != nil {
		return err
	}

	model := tui.New(session, drafts, cfg.Export.Path)
	if *resumeID != "" {
		model = model.WithDraftID(*resumeID)
	}
	program := tea.NewProgram(model, tea.WithAltScreen())
	_, err = program.Run()
	return err
}

func openDrafts(cfg config.DraftConfig) (*sql.DB, error) {
	db, err := draft.Open(cfg.Path)
	if err != nil {
		return nil, err
	}
	if cfg.Migrations != "" {
		err = draft.RunMigrations(db, cfg.Migrations)
	} else {
		err = draft.RunEmbeddedMigrations(db)
	}
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate drafts db: %w", err)
	}
	return db, nil
}

func buildSession(ws *wizard.WorkflowSet, drafts *draft.Repo, resumeID string) (*wizard.Session, error) {
	if resumeID == "" {
		return wizard.NewSession(ws)
	}
	if drafts == nil {
		return nil, fmt.Errorf("cannot resume %q: draft storage unavailable", resumeID)
	}
	d, err := drafts.Get(context.Background(), resumeID)
	if err != nil {
		return nil, fmt.Errorf("resume draft %q: %w", resumeID, err)
	}
	session, err := wizard.RestoreSession(ws, d.Snapshot)
	if err != nil {
		return nil, fmt.Errorf("resume draft %q: %w", resumeID, err)
	}
	return session, nil
}

func printDrafts(drafts *draft.Repo) error {
	list, err := drafts.List(context.Background())
	if err != nil {
		return err
	}
	if len(list) == 0 {
		fmt.Println("no drafts saved")
		return nil
	}
	for _, d := range list {
		fmt.Printf("%s  %-24s  updated %s\n", d.ID, d.Name, d.UpdatedAt.Format("2006-01-02 15:04"))
	}
	return nil
}

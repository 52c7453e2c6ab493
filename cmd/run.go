package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/abhisek/outlines/internal/app"
	"github.com/abhisek/outlines/internal/ccnclient"
	"github.com/abhisek/outlines/internal/screens/wizard"
)

// runApp builds the backend and launches the TUI. With OUTLINES_API_URL set
// it talks to a server; otherwise it works on the local store.
func runApp(cmd *cobra.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	log, err := newLogger(cfg, true)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer log.Sync()

	courseID, _ := cmd.Flags().GetString("course")
	opts := app.Options{
		CourseID: courseID,
		Deps: wizard.Deps{
			Policy:    cfg.Policy,
			Bounds:    cfg.Justification,
			Detection: cfg.DetectionEnabled,
			Logger:    log,
		},
	}

	if cfg.Remote() {
		opts.Deps.Backend = ccnclient.New(cfg.APIURL, ccnclient.StaticToken(cfg.Token))
		opts.Status = cfg.APIURL
		log.Info("using remote backend", "api_url", cfg.APIURL)
		return app.Run(opts)
	}

	svc, closeStore, err := openService(cfg, log)
	if err != nil {
		return err
	}
	defer closeStore()

	opts.Deps.Backend = svc.Local(localActor())
	opts.Deps.Snapshots = svc
	opts.Status = "local · catalog " + svc.Catalog().Version()
	return app.Run(opts)
}

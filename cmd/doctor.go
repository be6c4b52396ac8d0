package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/CosmoTheDev/scamshield/internal/api"
	"github.com/CosmoTheDev/scamshield/internal/config"
	"github.com/CosmoTheDev/scamshield/internal/session"
	"github.com/spf13/cobra"
)

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Verify configuration, backend reachability and the session ledger",
	Long: `Checks that the configuration is valid, that the ScamShield backend
answers, and that the in-memory session ledger can be created.`,
	RunE: runDoctor,
}

func runDoctor(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	out := cmd.OutOrStdout()
	allOK := true

	fmt.Fprintln(out, "=== scamshield doctor ===")
	fmt.Fprintln(out)

	fmt.Fprint(out, "Config ................... ")
	cfg, err := config.Load(cfgFile)
	if err != nil {
		fmt.Fprintf(out, "FAIL (%s)\n", err)
		fmt.Fprintln(out)
		fmt.Fprintln(out, warnStyle.Render("Fix the configuration: run 'scamshield config init'."))
		return nil
	}
	path, _ := config.ConfigPath(cfgFile)
	fmt.Fprintf(out, "OK (%s)\n", path)

	fmt.Fprint(out, "Backend .................. ")
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	start := time.Now()
	err = api.New(cfg.API).Ping(pingCtx)
	cancel()
	if err != nil {
		fmt.Fprintf(out, "FAIL (%s: %s)\n", api.Kind(err), err)
		allOK = false
	} else {
		fmt.Fprintf(out, "OK (%s, %s)\n", cfg.API.BaseURL, time.Since(start).Round(time.Millisecond))
	}

	fmt.Fprint(out, "Session ledger ........... ")
	store, err := session.Open(ctx, cfg.Session)
	if err != nil {
		fmt.Fprintf(out, "FAIL (%s)\n", err)
		allOK = false
	} else {
		if _, err := store.Counts(ctx); err != nil {
			fmt.Fprintf(out, "FAIL (%s)\n", err)
			allOK = false
		} else {
			fmt.Fprintf(out, "OK (sqlite in-memory: %s)\n", store.Name())
		}
		store.Close()
	}

	fmt.Fprintln(out)
	if allOK {
		fmt.Fprintln(out, successStyle.Render("All checks passed, scamshield is ready!"))
	} else {
		fmt.Fprintln(out, warnStyle.Render("Some checks failed. Scans will show offline results until the backend is reachable."))
	}
	return nil
}

package cmd

import (
	"fmt"
	"os"
	"os/exec"
	"strconv"
	"strings"
	"time"

	"github.com/CosmoTheDev/scamshield/internal/config"
	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "View and manage scamshield configuration",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(cfgFile)
		if err != nil {
			return err
		}
		return writeStructured(cmd.OutOrStdout(), "yaml", cfg)
	},
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Print the path to the config file",
	RunE: func(cmd *cobra.Command, args []string) error {
		p, err := config.ConfigPath(cfgFile)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), p)
		return nil
	},
}

var configEditCmd = &cobra.Command{
	Use:   "edit",
	Short: "Open the config file in $EDITOR",
	RunE: func(cmd *cobra.Command, args []string) error {
		p, err := config.ConfigPath(cfgFile)
		if err != nil {
			return err
		}
		if _, err := os.Stat(p); os.IsNotExist(err) {
			if err := config.Save(config.Default(), p); err != nil {
				return err
			}
		}
		editor := os.Getenv("EDITOR")
		if editor == "" {
			editor = "nano"
		}
		fmt.Printf("Opening %s with %s...\n", p, editor)
		c := exec.Command(editor, p) // #nosec G204 -- editor is from $EDITOR env var, intentional user-controlled binary
		c.Stdin = os.Stdin
		c.Stdout = os.Stdout
		c.Stderr = os.Stderr
		return c.Run()
	},
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Interactively write a config file",
	RunE:  runConfigInit,
}

func init() {
	configCmd.AddCommand(configShowCmd, configPathCmd, configEditCmd, configInitCmd)
}

func runConfigInit(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		cfg = config.Default()
	}

	baseURL := cfg.API.BaseURL
	timeout := cfg.API.Timeout.String()
	interval := cfg.Feed.PollInterval.String()
	limit := strconv.Itoa(cfg.Feed.Limit)
	drillDown := strconv.Itoa(cfg.Trends.DrillDownLimit)
	save := true

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Backend URL").
				Placeholder(config.DefaultBaseURL).
				Value(&baseURL),
			huh.NewInput().
				Title("Request timeout").
				Description("0s leaves it to the transport").
				Value(&timeout).
				Validate(validDuration),
			huh.NewInput().
				Title("Feed poll interval").
				Value(&interval).
				Validate(validDuration),
			huh.NewInput().
				Title("Feed size").
				Value(&limit).
				Validate(validPositive),
			huh.NewInput().
				Title("Drill-down size").
				Value(&drillDown).
				Validate(validPositive),
		),
		huh.NewGroup(
			huh.NewConfirm().
				Title("Save changes?").
				Value(&save),
		),
	)
	if err := form.Run(); err != nil {
		return err
	}
	if !save {
		fmt.Println(dimStyle.Render("Nothing saved."))
		return nil
	}

	cfg.API.BaseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	cfg.API.Timeout, _ = time.ParseDuration(strings.TrimSpace(timeout))
	cfg.Feed.PollInterval, _ = time.ParseDuration(strings.TrimSpace(interval))
	cfg.Feed.Limit, _ = strconv.Atoi(strings.TrimSpace(limit))
	cfg.Trends.DrillDownLimit, _ = strconv.Atoi(strings.TrimSpace(drillDown))
	if err := cfg.Validate(); err != nil {
		return err
	}

	p, err := config.ConfigPath(cfgFile)
	if err != nil {
		return err
	}
	if err := config.Save(cfg, p); err != nil {
		return err
	}
	fmt.Println(successStyle.Render("Saved " + p))
	return nil
}

func validDuration(s string) error {
	if _, err := time.ParseDuration(strings.TrimSpace(s)); err != nil {
		return fmt.Errorf("expected a duration such as 10s or 1m")
	}
	return nil
}

func validPositive(s string) error {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n <= 0 {
		return fmt.Errorf("expected a positive number")
	}
	return nil
}

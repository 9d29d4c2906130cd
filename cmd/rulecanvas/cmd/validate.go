package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/spf13/cobra"

	"github.com/calder/rulecanvas/internal/catalog"
	"github.com/calder/rulecanvas/internal/config"
	"github.com/calder/rulecanvas/internal/validate"
)

var validateCmd = &cobra.Command{
	Use:   "validate <document.json>",
	Short: "Validate a rule document",
	Args:  cobra.ExactArgs(1),
	RunE:  runValidate,
}

func init() {
	rootCmd.AddCommand(validateCmd)
	validateCmd.Flags().Bool("strict", false, "promote advisory checks to errors")
	validateCmd.Flags().Bool("draft", false, "tolerate incomplete in-progress documents")
}

func runValidate(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	raw, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("failed to read document: %w", err)
	}

	cat, err := loadCatalog(cfg)
	if err != nil {
		return err
	}

	result := validate.Validate(raw, cat, validate.Options{
		Strict: cfg.Strict,
		Draft:  cfg.Draft,
	})

	if cfg.Output == config.OutputJSON {
		out, err := json.MarshalIndent(result, "", "  ")
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(out))
	} else if !result.OK() {
		fmt.Fprintln(cmd.OutOrStdout(), renderErrors(result))
	}

	if !result.OK() {
		return fmt.Errorf("%d validation error(s)", len(result.Errors))
	}
	if cfg.Output == config.OutputTable {
		fmt.Fprintln(cmd.OutOrStdout(), "document is valid")
	}
	return nil
}

// renderErrors formats the error list as a table keyed by path.
func renderErrors(result validate.Result) string {
	tw := table.NewWriter()
	tw.AppendHeader(table.Row{"Type", "Path", "Message"})
	for _, e := range result.Errors {
		tw.AppendRow(table.Row{string(e.Type), e.Path, e.Message})
	}
	tw.SetColumnConfigs([]table.ColumnConfig{
		{Number: 3, WidthMax: 60},
	})
	style := table.StyleLight
	style.Format.Header = text.FormatDefault
	tw.SetStyle(style)
	return tw.Render()
}

// loadConfig merges the config file with command-line overrides.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.Load(configFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if catalogFile != "" {
		cfg.CatalogPath = catalogFile
	}
	if output != "" {
		cfg.Output = output
	}
	if cmd.Flags().Changed("strict") {
		cfg.Strict, _ = cmd.Flags().GetBool("strict")
	}
	if cmd.Flags().Changed("draft") {
		cfg.Draft, _ = cmd.Flags().GetBool("draft")
	}
	if err := config.Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// loadCatalog reads the configured catalog file, or returns an empty catalog
// when none is configured.
func loadCatalog(cfg *config.Config) (catalog.Provider, error) {
	if cfg.CatalogPath == "" {
		return catalog.NewInMemory(), nil
	}
	cat, err := catalog.Load(cfg.CatalogPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load catalog: %w", err)
	}
	return cat, nil
}

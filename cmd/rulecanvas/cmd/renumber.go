package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/calder/rulecanvas/internal/tree"
	"github.com/calder/rulecanvas/internal/types"
)

var renumberCmd = &cobra.Command{
	Use:   "renumber <document.json>",
	Short: "Rewrite a document with canonical node names",
	Args:  cobra.ExactArgs(1),
	RunE:  runRenumber,
}

func init() {
	rootCmd.AddCommand(renumberCmd)
	renumberCmd.Flags().Bool("write", false, "rewrite the file in place instead of printing")
}

func runRenumber(cmd *cobra.Command, args []string) error {
	raw, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("failed to read document: %w", err)
	}

	var doc types.Document
	if err := json.Unmarshal(raw, &doc); err != nil {
		return fmt.Errorf("failed to parse document: %w", err)
	}

	tree.Renumber(&doc)

	out, err := json.MarshalIndent(&doc, "", "  ")
	if err != nil {
		return err
	}

	if write, _ := cmd.Flags().GetBool("write"); write {
		return os.WriteFile(args[0], append(out, '\n'), 0o644)
	}
	fmt.Fprintln(cmd.OutOrStdout(), string(out))
	return nil
}

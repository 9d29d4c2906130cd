package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/spf13/cobra"

	"github.com/calder/rulecanvas/internal/tree"
	"github.com/calder/rulecanvas/internal/types"
)

var showCmd = &cobra.Command{
	Use:   "show <document.json>",
	Short: "Print the document outline with names and visibility",
	Args:  cobra.ExactArgs(1),
	RunE:  runShow,
}

func init() {
	rootCmd.AddCommand(showCmd)
	showCmd.Flags().Bool("new", false, "apply the freshly-authored visibility policy")
}

func runShow(cmd *cobra.Command, args []string) error {
	raw, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("failed to read document: %w", err)
	}

	var doc types.Document
	if err := json.Unmarshal(raw, &doc); err != nil {
		return fmt.Errorf("failed to parse document: %w", err)
	}
	if doc.Structure == nil {
		return fmt.Errorf("document has no structure")
	}

	isNew, _ := cmd.Flags().GetBool("new")
	state := tree.NewExpansionState(doc.Structure.NodeType(), isNew)

	tw := table.NewWriter()
	tw.SetTitle("%s (%s -> %s)", doc.Metadata.ID, doc.RuleType, doc.ReturnType)
	tw.AppendHeader(table.Row{"Node", "Path", "Expanded"})
	appendOutlineRows(tw, state, doc.Structure, tree.Key(doc.Structure.NodeType(), 0), 0)

	style := table.StyleLight
	style.Format.Header = text.FormatDefault
	tw.SetStyle(style)
	fmt.Fprintln(cmd.OutOrStdout(), tw.Render())
	return nil
}

// appendOutlineRows walks the tree in document order, one row per named or
// container node.
func appendOutlineRows(tw table.Writer, state *tree.ExpansionState, n types.Node, path string, depth int) {
	indent := strings.Repeat("  ", depth)
	label := func(name string) string {
		if name == "" {
			name = tree.Label(n.NodeType())
		}
		return indent + name
	}

	switch node := n.(type) {
	case *types.ConditionGroup:
		tw.AppendRow(table.Row{label(node.Name), path, state.IsExpanded(path)})
		for i, child := range node.Conditions {
			if child == nil {
				continue
			}
			appendOutlineRows(tw, state, child, tree.Child(path, child.NodeType(), i), depth+1)
		}
	case *types.Condition:
		tw.AppendRow(table.Row{label(node.Name), path, state.IsExpanded(path)})
	case *types.ExpressionGroup:
		tw.AppendRow(table.Row{label(""), path, state.IsExpanded(path)})
	case *types.CaseBlock:
		tw.AppendRow(table.Row{label(""), path, state.IsExpanded(path)})
		for i, when := range node.Whens {
			if when == nil {
				continue
			}
			appendOutlineRows(tw, state, when, tree.Child(path, types.NodeWhen, i), depth+1)
		}
		if node.Else != nil {
			appendOutlineRows(tw, state, node.Else, tree.Child(path, types.NodeExpressionGroup, len(node.Whens)), depth+1)
		}
	case *types.WhenClause:
		tw.AppendRow(table.Row{label(node.ResultName), path, state.IsExpanded(path)})
		if node.When != nil {
			appendOutlineRows(tw, state, node.When, tree.Child(path, types.NodeConditionGroup, 0), depth+1)
		}
		if node.Then != nil {
			appendOutlineRows(tw, state, node.Then, tree.Child(path, types.NodeExpressionGroup, 1), depth+1)
		}
	}
}

package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/robert-malhotra/go-uvh5/h5store"
)

var treeCmd = &cobra.Command{
	Use:   "tree <file>",
	Short: "List the groups and datasets of a file",
	Args:  cobra.ExactArgs(1),
	RunE:  runTree,
}

func init() {
	treeCmd.Flags().Int("depth", 0, "maximum depth to print (0 = unlimited)")
	rootCmd.AddCommand(treeCmd)
}

func runTree(cmd *cobra.Command, args []string) error {
	if _, _, err := setup(cmd); err != nil {
		return err
	}
	depth, _ := cmd.Flags().GetInt("depth")

	f, err := h5store.Open(args[0])
	if err != nil {
		return err
	}
	defer f.Close()
	return printTree(cmd.OutOrStdout(), f, depth)
}

// printTree writes one line per object, indented by depth. Datasets show
// their shape; scalars show "scalar".
func printTree(w io.Writer, r h5store.Reader, maxDepth int) error {
	return h5store.Walk(r, "/", func(obj h5store.Object, err error) error {
		if err != nil {
			fmt.Fprintf(w, "%s: ERROR %v\n", obj.Path, err)
			return nil
		}
		parts := h5store.SplitPath(obj.Path)
		depth := len(parts)
		if depth == 0 {
			_, err = fmt.Fprintln(w, "/")
			return err
		}
		if maxDepth > 0 && depth > maxDepth {
			return nil
		}
		indent := strings.Repeat("  ", depth-1)
		name := parts[depth-1]

		switch {
		case obj.Group:
			_, err = fmt.Fprintf(w, "%s%s/\n", indent, name)
		case obj.Shape == nil:
			_, err = fmt.Fprintf(w, "%s%s  scalar\n", indent, name)
		default:
			_, err = fmt.Fprintf(w, "%s%s  %v\n", indent, name, obj.Shape)
		}
		return err
	})
}

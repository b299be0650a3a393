package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/fur0rem/streamgraph/internal/service"
)

var loadCmd = &cobra.Command{
	Use:   "load <file>",
	Short: "Load a stream graph document and print a summary",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		f, err := os.Open(args[0])
		if err != nil {
			return fmt.Errorf("opening %s: %w", args[0], err)
		}
		defer f.Close()

		eng := service.New(GetConfig(), GetLogger())
		g, err := eng.Build(context.Background(), f)
		if err != nil {
			return err
		}

		fmt.Printf("nodes:    %d\n", len(g.Nodes))
		fmt.Printf("links:    %d\n", len(g.Links))
		fmt.Printf("moments:  %d\n", g.Moments.Len())
		fmt.Printf("lifespan: [%d, %d)\n", g.Lifespan.Start, g.Lifespan.End)
		if g.Names != nil {
			fmt.Printf("named:    yes\n")
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(loadCmd)
}

package cli

import (
	"github.com/spf13/cobra"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the state of the local index",
	RunE: func(cmd *cobra.Command, _ []string) error {
		index, err := openIndex()
		if err != nil {
			return err
		}
		defer index.Close()

		if err := index.EnsureSchema(cmd.Context()); err != nil {
			return err
		}
		count, err := index.Count(cmd.Context())
		if err != nil {
			return err
		}

		cmd.Printf("Index:  %s\n", index.Path())
		cmd.Printf("Chunks: %d\n", count)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Delete every account and start a fresh session",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		sess, err := openSession()
		if err != nil {
			return err
		}
		defer sess.Close()

		sess.store.Reset(cmd.Context())
		fmt.Fprintln(cmd.OutOrStdout(), "✓ Session reset")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(resetCmd)
}

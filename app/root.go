// Package app implements the main application commands.
package app

import (
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "go-helpdesk",
	Short: "GoHelpdesk is a web-based support ticket system",
	Long: `GoHelpdesk is a web-based support ticket system with role-based
access control, live event notifications and private messaging.`,
	Args: cobra.OnlyValidArgs,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

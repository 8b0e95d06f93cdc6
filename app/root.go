// Package app implements the main application commands.
package app

import (
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "sitecms",
	Short: "sitecms serves the CreativeMicroInk studio site content API",
	Long: `sitecms is the content backend for the CreativeMicroInk studio site.
It serves the settings driven page content, handles admin authentication
and stores uploaded images in S3 compatible object storage.`,
	Args: cobra.OnlyValidArgs,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

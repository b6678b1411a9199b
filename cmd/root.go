package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	httpcmd "github.com/samarthyatrust/samarthya_backend/cmd/http"
	systemcmd "github.com/samarthyatrust/samarthya_backend/cmd/system"
)

var (
	cfgFile string
)

var rootCmd = &cobra.Command{
	Use:   "samarthya",
	Short: "Samarthya Trust public engagement backend.",
	Long: `Samarthya is the backend for the Samarthya Trust website. It receives
public form submissions (contact, donations, volunteering, internships, events,
collaborations, media, news, newsletter) and gives administrators one place to
triage them.`,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	// Global config flag, available for all commands.
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "config.yaml", "config file path")

	// Attach top-level command trees.
	rootCmd.AddCommand(systemcmd.NewSystemCommand())
	rootCmd.AddCommand(httpcmd.NewHTTPCommand())
}

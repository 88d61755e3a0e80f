// Command ceaserver runs the real-estate transaction analytics engine:
// an embedded indexed store, aggregation kernels, and the documented
// HTTP contract.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "ceaserver",
	Short: "CEA transaction analytics server",
	Long: `ceaserver serves the real-estate transaction dataset over HTTP:
paginated rows, cross-tab analytics, time-series, market insights, and
agent roll-ups, backed by a read-only embedded store.

Configuration can be provided via:
  - a YAML config file (--config)
  - environment variables (CEA_DATA_DIR, CEA_CORS_ORIGINS, CEA_SERVER_PORT, CEA_LOG_LEVEL)`,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Path to configuration file")
}

var configPath string

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

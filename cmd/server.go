package cmd

import (
	"StreamingMusical/server"

	"github.com/spf13/cobra"
)

var (
	serverAddr   string
	serverMemory bool
)

var serverCmd = &cobra.Command{
	Use:   "server",
	Short: "Start the HTTP API server",
	Long:  `Start the HTTP API server. --addr and --memory override HTTP_ADDR and USE_MEMORY_DB.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if cmd.Flags().Changed("addr") {
			cfg.HTTPAddr = serverAddr
		}
		if cmd.Flags().Changed("memory") {
			cfg.UseMemoryDB = serverMemory
		}
		return server.Start(cfg)
	},
}

func init() {
	serverCmd.Flags().StringVar(&serverAddr, "addr", ":8080", "listen address")
	serverCmd.Flags().BoolVar(&serverMemory, "memory", false, "use the in-memory store instead of the database")
	rootCmd.AddCommand(serverCmd)
}

package cmd

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/lehigh-university-libraries/dspace-crosswalk/rest"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the patch and crosswalk endpoints over HTTP",
	Long: `Serve the repository loaded from --fixture over HTTP:

  PATCH /api/{category}/{model}/{id}   apply a JSON Patch document
  PATCH /api/core/bitstreams           bulk delete bitstreams
  GET   /api/crosswalks                list crosswalks
  GET   /api/crosswalks/{name}/{ref}   disseminate an object

The listen address defaults to server.addr from the configuration.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := loadEnv()
		if err != nil {
			return err
		}
		addr := serveAddr
		if addr == "" {
			addr = env.Config.ServerAddr
		}
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		return rest.New(env).ListenAndServe(ctx, addr)
	},
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "Listen address (default: server.addr)")
}

package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/gridkit/pkg/api"
	"github.com/matzehuels/gridkit/pkg/preset"
)

// serveCommand creates the serve command for the HTTP render service.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr      string
		noCache   bool
		noPresets bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve grid overlays over HTTP",
		Long: `Run the HTTP render service.

Endpoints:
  GET  /healthz
  GET  /v1/render?viewport=x,y,w,h&zoom=&type=&format=
  POST /v1/render
  GET  /v1/presets, POST /v1/presets
  GET  /v1/presets/{name}, DELETE /v1/presets/{name}
  GET  /v1/presets/{name}/render`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if addr == "" {
				addr = c.Config.Server.Addr
			}

			runner, err := c.newRunner(ctx, noCache)
			if err != nil {
				return err
			}
			defer runner.Close()

			var store preset.Store
			if !noPresets {
				store, err = c.newPresetStore(ctx)
				if err != nil {
					return err
				}
				defer store.Close()
			}

			sc := c.Config.Server
			srv := api.New(runner, store, api.Options{
				Logger:         c.Logger,
				Theme:          c.Config.Theme,
				Background:     c.Config.Render.Background,
				RequestTimeout: sc.RequestTimeout,
				ReadTimeout:    sc.ReadTimeout,
				WriteTimeout:   sc.WriteTimeout,
			})

			printInfo("Serving on %s", StyleLink.Render("http://"+displayAddr(addr)))
			printDetail("cache: %s, presets: %s", c.Config.Cache.Backend, presetBackend(store, c.Config.Presets.Backend))
			return srv.ListenAndServe(ctx, addr)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config, :8080)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable the artifact cache")
	cmd.Flags().BoolVar(&noPresets, "no-presets", false, "disable preset endpoints")

	return cmd
}

// displayAddr turns ":8080" into "localhost:8080".
func displayAddr(addr string) string {
	if len(addr) > 0 && addr[0] == ':' {
		return "localhost" + addr
	}
	return addr
}

func presetBackend(store preset.Store, backend string) string {
	if store == nil {
		return "disabled"
	}
	return backend
}

package cli

import (
	"github.com/spf13/cobra"

	"github.com/pratik-mahalle/missioncontrol/internal/navigation"
	"github.com/pratik-mahalle/missioncontrol/internal/pkg/logger"
	"github.com/pratik-mahalle/missioncontrol/internal/tui"
)

func newTUICmd() *cobra.Command {
	var noBrowser bool

	cmd := &cobra.Command{
		Use:   "tui",
		Short: "Interactive sign-in, consent screen and dashboard",
		RunE: func(cmd *cobra.Command, args []string) error {
			var fallback navigation.Opener
			if !noBrowser {
				fallback = navigation.BrowserOpener()
			}

			router := navigation.NewRouter(nil)
			router.SetOpener(navigation.InAppRedirect(apiClient.HTTPClient(), router, fallback))

			// The UI owns the terminal; only file logging survives.
			log := appLogger
			switch appConfig.Logging.OutputPath {
			case "", "stdout", "stderr":
				log = logger.Nop()
			}

			return tui.Run(cmd.Context(), tui.Options{
				Client: apiClient,
				Router: router,
				Logger: log,
			})
		},
	}

	cmd.Flags().BoolVar(&noBrowser, "no-browser", false, "never open external redirects in the browser")

	return cmd
}

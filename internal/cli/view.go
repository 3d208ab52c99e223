package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mmeshcher/astrostore/internal/guard"
	"github.com/mmeshcher/astrostore/internal/session"
)

// NewViewCommand создаёт команду перехода к представлению витрины через проверку доступа.
func NewViewCommand(opts *RootOptions) *cobra.Command {
	names := make([]string, 0, len(guard.Routes))
	for _, r := range guard.Routes {
		names = append(names, r.Name)
	}

	return &cobra.Command{
		Use:   "view <name>",
		Short: "Open a storefront view",
		Long: fmt.Sprintf(`Open a storefront view, honouring its access requirements.

Unauthenticated visitors are sent to the login view; non-admins opening an
admin view are sent home with a notice.

Views: %s`, strings.Join(names, ", ")),
		Args:      cobra.ExactArgs(1),
		ValidArgs: names,
		RunE: func(cmd *cobra.Command, args []string) error {
			route, ok := guard.Lookup(args[0])
			if !ok {
				return fmt.Errorf("unknown view %q: must be one of %v", args[0], names)
			}

			return opts.withState(cmd.Context(), func(s *session.State) error {
				if enterView(cmd, route.Name, s.Session()) {
					fmt.Fprintf(cmd.OutOrStdout(), "Showing %s\n", route.Path)
				}
				return nil
			})
		},
	}
}

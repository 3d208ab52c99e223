package cli

import (
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/mmeshcher/astrostore/internal/apiclient"
	"github.com/mmeshcher/astrostore/internal/carousel"
	"github.com/mmeshcher/astrostore/internal/model"
)

// ServicesOptions содержит флаги команды services.
type ServicesOptions struct {
	*RootOptions
	Ticks  int
	Select string
	Full   bool
}

// NewServicesCommand создаёт команду, показывающую карусель услуг.
func NewServicesCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ServicesOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "services",
		Short: "Show the services carousel",
		Long: `Show the services carousel three cards at a time.

With --ticks the carousel advances every --interval and prints each group.
With --select the card is picked from the carousel and its detail view is opened.
With --full the whole catalog is printed with descriptions and features.

Example:
  astroshop services --ticks 3 --interval 2s
  astroshop services --select kundli-report`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServices(cmd, opts)
		},
	}

	cmd.Flags().IntVar(&opts.Ticks, "ticks", 0, "number of auto-advance steps to show")
	cmd.Flags().StringVar(&opts.Select, "select", "", "open the detail view of a carousel card")
	cmd.Flags().BoolVar(&opts.Full, "full", false, "print the full catalog")
	cmd.MarkFlagsMutuallyExclusive("ticks", "select", "full")

	return cmd
}

type tick struct {
	cursor int
	group  []model.ServiceSummary
}

func runServices(cmd *cobra.Command, opts *ServicesOptions) error {
	ctx := cmd.Context()
	out := cmd.OutOrStdout()

	if opts.Full {
		return runFullCatalog(cmd, opts.RootOptions)
	}

	c := carousel.New(opts.api, opts.logger)
	if err := c.Load(ctx); err != nil {
		fmt.Fprintln(out, "Failed to load services.")
		return err
	}

	groups := c.Groups()
	if len(groups) == 0 {
		fmt.Fprintln(out, "No services available.")
		return nil
	}

	if opts.Select != "" {
		path, ok := c.Select(opts.Select)
		if !ok {
			return fmt.Errorf("service %q is not in the carousel", opts.Select)
		}
		fmt.Fprintf(out, "Opening %s\n", path)
		return showService(cmd, opts.RootOptions, opts.Select)
	}

	printGroup(out, c.Cursor(), len(groups), c.Current())

	if opts.Ticks <= 0 {
		return nil
	}

	ticks := make(chan tick)
	done := make(chan struct{})

	err := c.Start(ctx, opts.Config.CarouselInterval, func(cursor int, group []model.ServiceSummary) {
		select {
		case ticks <- tick{cursor: cursor, group: group}:
		case <-done:
		}
	})
	if err != nil {
		return err
	}
	defer func() {
		close(done)
		c.Stop()
	}()

	for i := 0; i < opts.Ticks; i++ {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case t := <-ticks:
			printGroup(out, t.cursor, len(groups), t.group)
		}
	}
	return nil
}

func printGroup(w io.Writer, cursor, total int, group []model.ServiceSummary) {
	fmt.Fprintf(w, "[%d/%d]\n", cursor+1, total)
	for _, s := range group {
		fmt.Fprintf(w, "  %-24s ₹%-10s %s\n", s.ID, s.Price, s.Title)
	}
}

// NewServiceCommand создаёт команду, показывающую подробное описание услуги.
func NewServiceCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "service <id>",
		Short: "Show service details",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return showService(cmd, opts, args[0])
		},
	}
}

func showService(cmd *cobra.Command, opts *RootOptions, id string) error {
	s, err := opts.api.GetService(cmd.Context(), id)
	if err != nil {
		if errors.Is(err, apiclient.ErrNotFound) {
			return fmt.Errorf("service %q not found", id)
		}
		return err
	}
	printService(cmd.OutOrStdout(), s)
	return nil
}

func runFullCatalog(cmd *cobra.Command, opts *RootOptions) error {
	out := cmd.OutOrStdout()

	services, err := opts.api.ListServices(cmd.Context())
	if err != nil {
		fmt.Fprintln(out, "Failed to load services.")
		return err
	}
	if len(services) == 0 {
		fmt.Fprintln(out, "No services available.")
		return nil
	}

	for i := range services {
		printService(out, &services[i])
	}
	return nil
}

func printService(w io.Writer, s *model.ServiceDescriptor) {
	fmt.Fprintf(w, "%s (%s)\n", s.Name, carousel.DetailPath(s.ID))
	fmt.Fprintf(w, "  %s\n", s.Description)
	if s.OriginalPrice > s.Price {
		fmt.Fprintf(w, "  Price: ₹%s (was ₹%s, -%d%%)\n", s.Price, s.OriginalPrice, s.Discount)
	} else {
		fmt.Fprintf(w, "  Price: ₹%s\n", s.Price)
	}
	if s.ReviewCount > 0 {
		fmt.Fprintf(w, "  Rating: %.1f (%d reviews)\n", s.Rating, s.ReviewCount)
	}
	for _, f := range s.Features {
		fmt.Fprintf(w, "  * %s: %s\n", f.Title, f.Description)
	}
}

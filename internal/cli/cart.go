package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/mmeshcher/astrostore/internal/guard"
	"github.com/mmeshcher/astrostore/internal/model"
	"github.com/mmeshcher/astrostore/internal/session"
)

// NewCartCommand создаёт группу команд для работы с корзиной.
func NewCartCommand(opts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cart",
		Short: "Manage the shopping cart",
	}

	cmd.AddCommand(newCartAddCommand(opts))
	cmd.AddCommand(newCartRemoveCommand(opts))
	cmd.AddCommand(newCartSetCommand(opts))
	cmd.AddCommand(newCartClearCommand(opts))
	cmd.AddCommand(newCartShowCommand(opts))

	return cmd
}

func parseQuantity(s string) (int, error) {
	q, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("invalid quantity %q", s)
	}
	return q, nil
}

func newCartAddCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "add <service-id> [quantity]",
		Short: "Add a service to the cart",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			quantity := session.MinQuantity
			if len(args) == 2 {
				q, err := parseQuantity(args[1])
				if err != nil {
					return err
				}
				quantity = q
			}

			return opts.withState(cmd.Context(), func(s *session.State) error {
				changed, err := s.AddItem(cmd.Context(), args[0], quantity)
				if err != nil {
					return err
				}
				if !changed {
					fmt.Fprintf(cmd.OutOrStdout(), "Quantity must be at least %d, cart unchanged.\n", session.MinQuantity)
					return nil
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s: %d in cart\n", args[0], s.Quantity(args[0]))
				return nil
			})
		},
	}
}

func newCartRemoveCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "remove <service-id>",
		Short: "Remove a service from the cart",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.withState(cmd.Context(), func(s *session.State) error {
				changed, err := s.RemoveItem(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				if !changed {
					fmt.Fprintf(cmd.OutOrStdout(), "%s is not in the cart.\n", args[0])
					return nil
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s removed\n", args[0])
				return nil
			})
		},
	}
}

func newCartSetCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "set <service-id> <quantity>",
		Short: "Set the quantity of a cart line (0 removes it)",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			quantity, err := parseQuantity(args[1])
			if err != nil {
				return err
			}

			return opts.withState(cmd.Context(), func(s *session.State) error {
				if _, err := s.SetQuantity(cmd.Context(), args[0], quantity); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s: %d in cart\n", args[0], s.Quantity(args[0]))
				return nil
			})
		},
	}
}

func newCartClearCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Empty the cart",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.withState(cmd.Context(), func(s *session.State) error {
				if err := s.ClearCart(cmd.Context()); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), "Cart is empty.")
				return nil
			})
		},
	}
}

func newCartShowCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show cart lines and totals (requires login)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()

			return opts.withState(cmd.Context(), func(s *session.State) error {
				if !enterView(cmd, "cart", s.Session()) {
					return nil
				}

				lines := s.Lines()
				if len(lines) == 0 {
					fmt.Fprintln(out, "Cart is empty.")
					return nil
				}

				prices, err := opts.api.Prices(cmd.Context())
				if err != nil {
					return fmt.Errorf("load prices: %w", err)
				}

				for _, l := range lines {
					price, ok := prices[l.ProductID]
					if !ok {
						fmt.Fprintf(out, "  %-24s x%-3d unavailable\n", l.ProductID, l.Quantity)
						continue
					}
					fmt.Fprintf(out, "  %-24s x%-3d ₹%s\n", l.ProductID, l.Quantity, price*model.Money(l.Quantity))
				}

				fmt.Fprintf(out, "Items: %d\n", s.Count())
				t := s.Totals(prices, opts.Config.TaxRate)
				fmt.Fprintf(out, "Subtotal: ₹%s\n", t.Subtotal)
				fmt.Fprintf(out, "Tax: ₹%s\n", t.Tax)
				fmt.Fprintf(out, "Total: ₹%s\n", t.Total)
				return nil
			})
		},
	}
}

// enterView проверяет доступ к представлению и печатает перенаправление при отказе.
func enterView(cmd *cobra.Command, name string, s session.Session) bool {
	route, ok := guard.Lookup(name)
	if !ok {
		return false
	}

	d := guard.Check(route, s, guard.NotifierFunc(func(message string) {
		fmt.Fprintf(cmd.ErrOrStderr(), "notice: %s\n", message)
	}))
	if !d.Allowed() {
		fmt.Fprintf(cmd.OutOrStdout(), "Redirecting to %s\n", d.Target)
		return false
	}
	return true
}

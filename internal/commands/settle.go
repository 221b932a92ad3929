package commands

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/mmynk/dues/internal/calculator"
	"github.com/mmynk/dues/internal/config"
	"github.com/mmynk/dues/internal/service"
)

func newSettleCommand(cfg *config.Config) *cobra.Command {
	var showBalances bool

	cmd := &cobra.Command{
		Use:   "settle",
		Short: "Print the simplified dues for every recorded expense",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := openStore(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			defer store.Close()

			places := int32(cfg.CurrencyPlaces)
			dues, err := service.ComputeDues(cmd.Context(), store, places)
			if err != nil {
				return err
			}
			return printDues(cmd.OutOrStdout(), dues, places, showBalances)
		},
	}

	cmd.Flags().BoolVar(&showBalances, "balances", false, "also print each member's net balance")

	return cmd
}

func printDues(w io.Writer, dues *service.Dues, places int32, showBalances bool) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)

	names := make(map[string]string, len(dues.Balances))
	for _, b := range dues.Balances {
		names[b.Member.ID] = b.Member.Name
	}

	if len(dues.Settlements) == 0 {
		fmt.Fprintln(tw, "No dues to settle")
	}
	// One block per paying member, in member name order.
	byDebtor := calculator.GroupByDebtor(dues.Settlements)
	for _, b := range dues.Balances {
		for _, s := range byDebtor[b.Member.ID] {
			fmt.Fprintf(tw, "%s\tpays\t%s\t%s\n", b.Member.Name, name(names, s.To), s.Amount.StringFixed(places))
		}
	}

	if showBalances {
		fmt.Fprintln(tw)
		fmt.Fprintln(tw, "MEMBER\tNET\tTO PAY\tTO RECEIVE")
		for _, b := range dues.Balances {
			fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", b.Member.Name,
				b.Net.StringFixed(places), b.ToPay.StringFixed(places), b.ToReceive.StringFixed(places))
		}
	}
	return tw.Flush()
}

func name(names map[string]string, id string) string {
	if n, ok := names[id]; ok {
		return n
	}
	return id
}

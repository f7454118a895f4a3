package cli

import (
	"fmt"
	"strconv"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
)

func newReceiptCmd(e *env) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "receipt",
		Short: "Contador de recibos",
	}

	peek := &cobra.Command{
		Use:   "peek",
		Short: "Muestra el valor actual (lo crea con 1000 si no existe)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			id, err := e.svc.Counter.Peek(cmd.Context())
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), e.svc.Counter.Format(id))
			return err
		},
	}

	advance := &cobra.Command{
		Use:   "advance",
		Short: "Avanza el contador y muestra el nuevo número",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			id, err := e.svc.Counter.Advance(cmd.Context())
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), e.svc.Counter.Format(id))
			return err
		},
	}

	set := &cobra.Command{
		Use:   "set N",
		Short: "Fija el contador (N >= 1000)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			n, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("valor inválido %q: %w", args[0], err)
			}
			id, err := e.svc.Counter.SetTo(cmd.Context(), n)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), e.svc.Counter.Format(id))
			return err
		},
	}

	var limit int
	logCmd := &cobra.Command{
		Use:   "log",
		Short: "Lista los últimos recibos emitidos",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			list, err := e.svc.Issue.Recent(cmd.Context(), limit)
			if err != nil {
				return err
			}
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "NUMERO\tCLIENTE\tTOTAL\tEMITIDO\tPROVISIONAL")
			for _, r := range list {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%t\n",
					r.Number, r.CustomerName, r.Total.StringFixed(2), r.IssuedAt.Format(time.DateTime), r.Provisional)
			}
			return tw.Flush()
		},
	}
	logCmd.Flags().IntVar(&limit, "limit", 20, "máximo de recibos (hasta 200)")

	cmd.AddCommand(peek, advance, set, logCmd)
	return cmd
}

package cli

import (
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/jhoicas/cep-backoffice/internal/application/stock"
)

func newStockCmd(e *env) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stock",
		Short: "Kardex de productos",
	}

	var (
		qty     int64
		remarks string
		sign    string
	)
	create := &cobra.Command{
		Use:   "create NAME",
		Short: "Crea un producto con su cantidad inicial",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := e.svc.Ledger.CreateProduct(cmd.Context(), stock.CreateProductInput{
				Name:            args[0],
				InitialQuantity: qty,
				Remarks:         remarks,
				Sign:            sign,
			})
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), p)
		},
	}
	create.Flags().Int64Var(&qty, "qty", 0, "cantidad inicial")
	create.Flags().StringVar(&remarks, "remarks", "", "observaciones del movimiento inicial")
	create.Flags().StringVar(&sign, "sign", "", "quién registra")

	var (
		in, out int64
		date    string
	)
	add := &cobra.Command{
		Use:   "add PRODUCT_ID",
		Short: "Registra un movimiento (entrada y/o salida)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			mv := stock.MovementInput{StockedIn: in, StockedOut: out, Remarks: remarks, Sign: sign}
			if date != "" {
				d, err := time.Parse(time.DateOnly, date)
				if err != nil {
					return fmt.Errorf("--date debe tener formato YYYY-MM-DD: %w", err)
				}
				mv.Date = d
			}
			m, err := e.svc.Ledger.AppendMovement(cmd.Context(), args[0], mv)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), m)
		},
	}
	add.Flags().Int64Var(&in, "in", 0, "unidades que entran")
	add.Flags().Int64Var(&out, "out", 0, "unidades que salen")
	add.Flags().StringVar(&remarks, "remarks", "", "observaciones")
	add.Flags().StringVar(&sign, "sign", "", "quién registra")
	add.Flags().StringVar(&date, "date", "", "fecha del movimiento YYYY-MM-DD (por defecto ahora)")

	show := &cobra.Command{
		Use:   "show PRODUCT_ID",
		Short: "Muestra el producto con su historial",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := e.svc.Ledger.GetProduct(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), p)
		},
	}

	var (
		name      string
		createdOn string
	)
	list := &cobra.Command{
		Use:   "list",
		Short: "Lista productos (más recientes primero)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			f := stock.ListFilter{NameContains: name}
			if createdOn != "" {
				d, err := time.Parse(time.DateOnly, createdOn)
				if err != nil {
					return fmt.Errorf("--created-on debe tener formato YYYY-MM-DD: %w", err)
				}
				f.CreatedOn = d
			}
			rows, err := e.svc.Ledger.ListProducts(cmd.Context(), f)
			if err != nil {
				return err
			}
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tNOMBRE\tMOVS\tTOTAL\tSALDO\tCREADO")
			for _, r := range rows {
				fmt.Fprintf(tw, "%s\t%s\t%d\t%d\t%d\t%s\n",
					r.ID, r.Name, r.MovementCount, r.TotalStock, r.Balance, r.CreatedAt.Format(time.DateOnly))
			}
			return tw.Flush()
		},
	}
	list.Flags().StringVar(&name, "name", "", "filtra por nombre (sin tildes ni mayúsculas)")
	list.Flags().StringVar(&createdOn, "created-on", "", "filtra por día de creación YYYY-MM-DD")

	del := &cobra.Command{
		Use:   "delete PRODUCT_ID",
		Short: "Elimina el producto y todo su historial",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := e.svc.Ledger.DeleteProduct(cmd.Context(), args[0]); err != nil {
				return err
			}
			_, err := fmt.Fprintf(cmd.OutOrStdout(), "eliminado %s\n", args[0])
			return err
		},
	}

	cmd.AddCommand(create, add, show, list, del)
	return cmd
}

// Package cli comandos de cepctl (cobra).
package cli

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/jhoicas/cep-backoffice/internal/bootstrap"
	"github.com/jhoicas/cep-backoffice/pkg/config"
	"github.com/jhoicas/cep-backoffice/pkg/logger"
)

var version = "1.0.0"

// env estado compartido por los subcomandos, creado en PersistentPreRunE.
type env struct {
	envFiles []string
	logLevel string
	cfg      *config.Config
	log      *logger.Logger
	svc      *bootstrap.Services
}

// NewRootCmd construye el árbol de comandos.
func NewRootCmd() *cobra.Command {
	e := &env{}

	root := &cobra.Command{
		Use:   "cepctl",
		Short: "Administración del contador de recibos y del kardex",
		Long: `cepctl opera sobre el mismo almacén que la API (STORE_DRIVER):
consulta y ajusta el contador de recibos, registra movimientos de stock
y prepara el esquema del almacén.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return e.setup(cmd)
		},
		PersistentPostRun: func(*cobra.Command, []string) {
			if e.svc != nil {
				e.svc.Close()
			}
		},
	}
	root.PersistentFlags().StringSliceVar(&e.envFiles, "env-file", nil, "archivo(s) .env a cargar antes de leer la configuración")
	root.PersistentFlags().StringVar(&e.logLevel, "log-level", "warn", "nivel de log (trace, debug, info, warn, error)")

	root.AddCommand(
		newReceiptCmd(e),
		newStockCmd(e),
		newMigrateCmd(e),
		newHashKeyCmd(),
	)
	return root
}

func (e *env) setup(cmd *cobra.Command) error {
	if len(e.envFiles) > 0 {
		// godotenv.Load no pisa variables ya definidas en el entorno.
		if err := godotenv.Load(e.envFiles...); err != nil {
			return fmt.Errorf("cargar %v: %w", e.envFiles, err)
		}
	}
	if cmd.Annotations[annotationNoStore] == "true" {
		return nil
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	e.cfg = cfg
	e.log = logger.New(logger.Config{Env: "production", Level: e.logLevel, Out: cmd.ErrOrStderr()})

	svc, err := bootstrap.New(cmd.Context(), cfg, e.log)
	if err != nil {
		return err
	}
	e.svc = svc
	return nil
}

// annotationNoStore marca comandos que no abren el almacén.
const annotationNoStore = "no-store"

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

package cli

import (
	"bufio"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jhoicas/cep-backoffice/internal/application/auth"
)

func newMigrateCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Prepara el esquema del almacén (tabla en Postgres, índices en Mongo)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := e.svc.Backend.Migrate(cmd.Context()); err != nil {
				return err
			}
			_, err := fmt.Fprintf(cmd.OutOrStdout(), "esquema listo (%s)\n", e.svc.Backend.Driver)
			return err
		},
	}
}

// newHashKeyCmd genera el valor de ADMIN_KEY_HASH leyendo la clave de stdin.
func newHashKeyCmd() *cobra.Command {
	return &cobra.Command{
		Use:         "hash-key",
		Short:       "Genera ADMIN_KEY_HASH a partir de la clave leída de stdin",
		Args:        cobra.NoArgs,
		Annotations: map[string]string{annotationNoStore: "true"},
		RunE: func(cmd *cobra.Command, _ []string) error {
			line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
			if err != nil && line == "" {
				return fmt.Errorf("leer clave: %w", err)
			}
			hash, err := auth.HashKey(strings.TrimRight(line, "\r\n"))
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), hash)
			return err
		},
	}
}

// cepctl administra el contador de recibos y el kardex directamente sobre el almacén.
package main

import (
	"fmt"
	"os"

	"github.com/jhoicas/cep-backoffice/internal/cli"
)

func main() {
	if err := cli.NewRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

package stock

import (
	"fmt"

	"github.com/jhoicas/cep-backoffice/internal/domain/entity"
)

// BalancePolicy cómo se deriva Balance de cada movimiento.
type BalancePolicy string

const (
	// BalanceLegacy balance_i = totalStock_i - stockedOut_i. Solo resta la salida del
	// movimiento actual; es el cálculo con el que se registraron los datos existentes.
	BalanceLegacy BalancePolicy = "legacy"
	// BalanceRunning balance_i = balance_{i-1} + stockedIn_i - stockedOut_i (existencia real).
	BalanceRunning BalancePolicy = "running"
)

// ParseBalancePolicy convierte el valor de configuración.
func ParseBalancePolicy(s string) (BalancePolicy, error) {
	switch p := BalancePolicy(s); p {
	case BalanceLegacy, BalanceRunning:
		return p, nil
	case "":
		return BalanceLegacy, nil
	}
	return "", fmt.Errorf("política de saldo desconocida %q", s)
}

// nextMovement completa TotalStock y Balance a partir del último movimiento.
// totalStock acumula entradas en ambas políticas.
func (p BalancePolicy) nextMovement(last *entity.StockMovement, m entity.StockMovement) entity.StockMovement {
	if last == nil {
		m.TotalStock = m.StockedIn
		m.Balance = m.StockedIn - m.StockedOut
		return m
	}
	m.TotalStock = last.TotalStock + m.StockedIn
	switch p {
	case BalanceRunning:
		m.Balance = last.Balance + m.StockedIn - m.StockedOut
	default:
		m.Balance = m.TotalStock - m.StockedOut
	}
	return m
}

package counting

import (
	"context"

	"github.com/tu-usuario/foodcost-pro/internal/domain/repository"
)

// TxRepos repositorios ligados a una misma transacción. Una recepción
// escribe mercancía recibida y cotizaciones de precio de forma atómica.
type TxRepos struct {
	Purchases repository.PurchaseRepository
	Quotes    repository.PriceQuoteRepository
}

// TxRunner ejecuta fn dentro de una transacción. Si fn retorna error la
// transacción se revierte.
type TxRunner interface {
	Run(ctx context.Context, fn func(repos TxRepos) error) error
}

package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product representa un producto del inventario.
// Name es la clave natural: el importador y el alta manual hacen upsert por nombre.
// El precio se guarda en centavos enteros para evitar errores de punto flotante.
type Product struct {
	ID         int64
	Name       string
	Quantity   int
	PriceCents int64
	UpdatedAt  time.Time // solo fecha (mes/día/año), medianoche UTC
}

// InventorySummary totales del inventario calculados por el store.
type InventorySummary struct {
	Products   int64
	Units      int64
	StockValue decimal.Decimal // suma de precio × cantidad, en unidades monetarias
}

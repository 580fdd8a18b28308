package dto

import "time"

// SaveProductRequest entrada para crear o actualizar (por nombre) un producto.
// UpdatedAt en cero significa "hoy".
type SaveProductRequest struct {
	Name       string
	Quantity   int
	PriceCents int64
	UpdatedAt  time.Time
}

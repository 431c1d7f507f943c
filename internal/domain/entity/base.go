package entity

import "time"

// Base representa una ubicación física que mantiene inventario.
type Base struct {
	ID        string
	Name      string
	Location  string
	CreatedAt time.Time
}

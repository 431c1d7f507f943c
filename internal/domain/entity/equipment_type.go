package entity

import "time"

// EquipmentType categoría de activo que se controla por cantidad (no por número de serie).
type EquipmentType struct {
	ID          string
	Name        string
	Category    string
	Description string
	CreatedAt   time.Time
}

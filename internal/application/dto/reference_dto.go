package dto

import "time"

// CreateBaseRequest entrada para crear una base.
type CreateBaseRequest struct {
	Name     string `json:"name" validate:"required,min=1,max=200"`
	Location string `json:"location" validate:"max=200"`
}

// BaseResponse salida de una base.
type BaseResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Location  string    `json:"location,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// CreateEquipmentTypeRequest entrada para crear un tipo de equipo.
type CreateEquipmentTypeRequest struct {
	Name        string `json:"name" validate:"required,min=1,max=200"`
	Category    string `json:"category" validate:"max=100"`
	Description string `json:"description" validate:"max=1000"`
}

// EquipmentTypeResponse salida de un tipo de equipo.
type EquipmentTypeResponse struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Category    string    `json:"category,omitempty"`
	Description string    `json:"description,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

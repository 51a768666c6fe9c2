package entities

import (
	"time"
)

type Image struct {
	ID        int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	Nombre    string    `gorm:"type:varchar(255);not null" json:"nombre"`
	Contenido []byte    `gorm:"type:bytea;not null" json:"-"`
	BatchID   string    `gorm:"column:lote_id;type:varchar(130);not null;index" json:"lote_id"`
	CreatedAt time.Time `gorm:"default:CURRENT_TIMESTAMP" json:"created_at"`
}

func (Image) TableName() string {
	return "imagen"
}

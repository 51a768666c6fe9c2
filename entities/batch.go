package entities

type Batch struct {
	ID       string `gorm:"type:varchar(130);primaryKey" json:"id"`
	Nombre   string `gorm:"type:varchar(100);not null" json:"nombre"`
	Especie  string `gorm:"type:varchar(100);not null" json:"especie"`
	Variedad string `gorm:"type:varchar(100);not null" json:"variedad"`

	Images []*Image `gorm:"foreignKey:BatchID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`
}

func (Batch) TableName() string {
	return "lote"
}

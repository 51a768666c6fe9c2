package migration

import (
	"Lote-Tracker/entities"

	"github.com/gofiber/fiber/v2/log"
	"gorm.io/gorm"
)

// models are migrated in order. Batch must come first: parsing it registers
// the cascading imagen.lote_id foreign key on Image's schema.
var models = []interface{}{
	&entities.Batch{},
	&entities.Image{},
}

// Migrate creates the lote and imagen tables when they do not exist yet.
func Migrate(db *gorm.DB) error {
	for _, model := range models {
		if err := db.AutoMigrate(model); err != nil {
			log.Errorf("Error migrating %T: %v", model, err)
			return err
		}
	}

	log.Info("Database tables verified")
	return nil
}

package seeds

import (
	catalogs "cobranza_backend/internals/seeds/catalogs"

	"gorm.io/gorm"
)

// RunAllSeeds loads reference catalogs. Every seeder skips rows that already exist.
func RunAllSeeds(db *gorm.DB) {

	//* Catalogs (fees, dues, products, concepts, bonus & surcharge rules)
	catalogs.SeedCatalogsFromJSON(db, "internals/seeds/catalogs/data_catalogs.json")

}

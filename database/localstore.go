package database

import (
	"log"

	courseModels "lms/models/course"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// LocalStore is a separate sqlite handle used only for virtual
// certificates written when the durable store rejects an insert. Keeping
// it on its own connection guarantees degraded-path writes can never
// land in a durable table.
var LocalStore DbInstance

// ConnectLocalStore opens (or creates) the local fallback database.
func ConnectLocalStore(path string) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{TranslateError: true})
	if err != nil {
		log.Fatalf("Failed to open local store %s: %v", path, err)
	}

	if err := db.AutoMigrate(&courseModels.VirtualCertificate{}); err != nil {
		log.Fatalf("Local store migration failed: %v", err)
	}

	LocalStore = DbInstance{Db: db}
}

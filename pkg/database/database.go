package database

import (
	"log"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func Init(dsn string) *gorm.DB {
	// TranslateError maps driver errors onto gorm.Err* sentinels
	// (gorm.ErrDuplicatedKey for unique violations).
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{TranslateError: true})
	if err != nil {
		log.Fatal("failed to connect database:", err)
	}
	return db
}

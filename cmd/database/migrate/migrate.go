package migration

import (
	"fmt"
	"log"

	"notin-market/entities"

	"gorm.io/gorm"
)

func Migrate(db *gorm.DB) error {
	db.Exec("CREATE EXTENSION IF NOT EXISTS \"uuid-ossp\";")

	if err := db.AutoMigrate(&entities.User{}); err != nil {
		log.Fatalf("Error migrating user database: %v", err)
		return err
	}
	if err := db.AutoMigrate(&entities.Otp{}); err != nil {
		log.Fatalf("Error migrating otp database: %v", err)
		return err
	}
	if err := db.AutoMigrate(&entities.Wallet{}); err != nil {
		log.Fatalf("Error migrating wallet database: %v", err)
		return err
	}
	if err := db.AutoMigrate(&entities.Category{}); err != nil {
		log.Fatalf("Error migrating category database: %v", err)
		return err
	}
	if err := db.AutoMigrate(&entities.Product{}); err != nil {
		log.Fatalf("Error migrating product database: %v", err)
		return err
	}
	if err := db.AutoMigrate(&entities.CoinPackage{}); err != nil {
		log.Fatalf("Error migrating coin package database: %v", err)
		return err
	}
	if err := db.AutoMigrate(&entities.WalletTransaction{}); err != nil {
		log.Fatalf("Error migrating wallet transaction database: %v", err)
		return err
	}
	if err := db.AutoMigrate(&entities.ProductPurchase{}); err != nil {
		log.Fatalf("Error migrating product purchase database: %v", err)
		return err
	}
	if err := db.AutoMigrate(&entities.ProductLike{}); err != nil {
		log.Fatalf("Error migrating product like database: %v", err)
		return err
	}
	if err := db.AutoMigrate(&entities.ProductView{}); err != nil {
		log.Fatalf("Error migrating product view database: %v", err)
		return err
	}
	if err := db.AutoMigrate(&entities.PaymentOrder{}); err != nil {
		log.Fatalf("Error migrating payment order database: %v", err)
		return err
	}

	fmt.Println("Database migration complete")
	return nil
}

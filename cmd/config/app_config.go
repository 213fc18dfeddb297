package config

import (
	"os"
	"time"

	"notin-market/internal/api/handlers"
	"notin-market/internal/api/routes"
	"notin-market/internal/middleware"
	"notin-market/internal/utils"
	"notin-market/internal/utils/storage"
	"notin-market/pkg/category"
	"notin-market/pkg/coin"
	"notin-market/pkg/jwt"
	"notin-market/pkg/midtrans"
	"notin-market/pkg/product"
	"notin-market/pkg/purchase"
	"notin-market/pkg/user"
	"notin-market/pkg/wallet"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"gorm.io/gorm"
)

func NewApp(db *gorm.DB) (*fiber.App, error) {
	utils.InitValidator()
	app := fiber.New(fiber.Config{
		EnablePrintRoutes: true,
	})
	middlewares := middleware.NewMiddleware()
	validator := utils.Validate

	// setting up logging and limiter
	err := os.MkdirAll("./logs", os.ModePerm)
	if err != nil {
		log.Fatalf("error creating logs directory: %v", err)
	}
	file, err := os.OpenFile(
		"./logs/app.log",
		os.O_RDWR|os.O_CREATE|os.O_APPEND,
		0666,
	)
	if err != nil {
		log.Fatalf("error opening file: %v", err)
	}
	app.Use(logger.New(logger.Config{
		TimeFormat: "2006-01-02 15:04:05",
		TimeZone:   "Asia/Jakarta",
		Output:     file,
	}))

	app.Use(limiter.New(limiter.Config{
		Max:        10,
		Expiration: 1 * time.Second,
	}))

	// utils
	s3 := storage.NewAwsS3()

	// Repository
	userRepository := user.NewUserRepository(db)
	walletRepository := wallet.NewWalletRepository(db)
	productRepository := product.NewProductRepository(db)
	categoryRepository := category.NewCategoryRepository(db)
	coinRepository := coin.NewCoinRepository(db)
	midtransRepository := midtrans.NewMidtransRepository(db)

	// Service
	jwtService := jwt.NewJWTService()
	userService := user.NewUserService(userRepository, jwtService)
	walletService := wallet.NewWalletService(walletRepository)
	productService := product.NewProductService(productRepository, s3)
	categoryService := category.NewCategoryService(categoryRepository, s3)
	coinService := coin.NewCoinService(coinRepository, s3)
	purchaseService := purchase.NewPurchaseService(
		purchase.NewUnitOfWork(db),
		walletRepository,
		productRepository,
		coinRepository,
	)
	midtransService := midtrans.NewMidtransService(
		midtransRepository,
		coinRepository,
		userRepository,
		purchaseService,
	)

	// Handler
	userHandler := handlers.NewUserHandler(userService, validator)
	productHandler := handlers.NewProductHandler(productService, purchaseService)
	categoryHandler := handlers.NewCategoryHandler(categoryService)
	walletHandler := handlers.NewWalletHandler(walletService, purchaseService, validator)
	coinHandler := handlers.NewCoinHandler(coinService, midtransService, validator)

	// routes
	routesConfig := routes.Config{
		App:             app,
		UserHandler:     userHandler,
		ProductHandler:  productHandler,
		CategoryHandler: categoryHandler,
		WalletHandler:   walletHandler,
		CoinHandler:     coinHandler,
		Middleware:      middlewares,
		JWTService:      jwtService,
	}
	routesConfig.Setup()
	return app, nil
}

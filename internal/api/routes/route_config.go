package routes

import (
	"notin-market/internal/api/handlers"
	"notin-market/internal/middleware"
	"notin-market/pkg/jwt"

	"github.com/gofiber/fiber/v2"
)

type Config struct {
	App             *fiber.App
	UserHandler     handlers.UserHandler
	ProductHandler  handlers.ProductHandler
	CategoryHandler handlers.CategoryHandler
	WalletHandler   handlers.WalletHandler
	CoinHandler     handlers.CoinHandler
	Middleware      middleware.Middleware
	JWTService      jwt.JWTService
}

func (c *Config) Setup() {
	c.App.Use(c.Middleware.CORSMiddleware())
	c.User()
	c.Products()
	c.Categories()
	c.Wallet()
	c.CoinPackages()
	c.GuestRoute()
}

func (c *Config) User() {
	user := c.App.Group("/api/v1/users")
	{
		user.Post("/register", c.UserHandler.Register)
		user.Post("/login", c.UserHandler.Login)
		user.Post("/send_verify", c.UserHandler.SendVerificationEmail)
		user.Post("/verify", c.UserHandler.VerifyOtp)
		user.Get("/me", c.Middleware.AuthMiddleware(c.JWTService), c.UserHandler.Me)
	}
}

func (c *Config) Products() {
	products := c.App.Group("/api/v1/products", c.Middleware.AuthMiddleware(c.JWTService))
	{
		products.Get("", c.ProductHandler.GetProducts)
		products.Get("/purchased", c.ProductHandler.GetMyPurchases)
		products.Get("/:id", c.ProductHandler.GetProductDetails)
		products.Post("/:id/like", c.ProductHandler.ToggleLike)
		products.Post("/:id/purchase", c.ProductHandler.Purchase)
		products.Post("/:id/image", c.Middleware.OnlyAdmin(), c.ProductHandler.UploadImage)
	}
}

func (c *Config) Categories() {
	categories := c.App.Group("/api/v1/categories", c.Middleware.AuthMiddleware(c.JWTService))
	{
		categories.Get("", c.CategoryHandler.GetCategories)
		// registered before "/:id" so "with-products" is not read as an id
		categories.Get("/with-products", c.CategoryHandler.GetCategoriesWithProducts)
		categories.Get("/:id", c.CategoryHandler.GetCategoryDetails)
	}
}

func (c *Config) Wallet() {
	wallet := c.App.Group("/api/v1/wallet", c.Middleware.AuthMiddleware(c.JWTService))
	{
		wallet.Get("", c.WalletHandler.GetWallet)
		wallet.Get("/transactions", c.WalletHandler.GetTransactions)
		wallet.Post("/purchase-package", c.WalletHandler.PurchasePackage)
	}
}

func (c *Config) CoinPackages() {
	coinPackages := c.App.Group("/api/v1/coin-packages", c.Middleware.AuthMiddleware(c.JWTService))
	{
		coinPackages.Get("", c.CoinHandler.GetCoinPackages)
		coinPackages.Post("/payment", c.CoinHandler.CreatePayment)
	}
}

func (c *Config) GuestRoute() {
	c.App.Get("/api/ping", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"message": "pong"})
	})
	c.App.Post("/webhook/midtrans", c.CoinHandler.MidtransWebhook)
}

package handler

import (
	"siteledger/internal/config"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"gorm.io/gorm"
)

// SetupRouter wires middleware and routes.
func SetupRouter(db *gorm.DB, rdb *redis.Client, cfg *config.Config) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()

	r.Use(RecoveryMiddleware())
	r.Use(LoggerMiddleware())
	r.Use(CORSMiddleware())

	h := NewHandler(db, rdb, cfg)

	api := r.Group("/api/v1")
	{
		supplier := api.Group("/supplier")
		{
			supplier.POST("/create", h.CreateSupplier)
			supplier.GET("/detail", h.GetSupplier)
			supplier.GET("/list", h.ListSuppliers)
		}

		project := api.Group("/project")
		{
			project.POST("/create", h.CreateProject)
			project.GET("/list", h.ListProjects)
		}

		ledgerGroup := api.Group("/ledger")
		{
			ledgerGroup.GET("/balance", h.GetBalance)
			ledgerGroup.GET("/statement", h.GetStatement)
			ledgerGroup.GET("/breakdown", h.GetBreakdown)
			ledgerGroup.GET("/transactions", h.ListTransactions)
			ledgerGroup.POST("/purchase", h.RecordPurchase)
			ledgerGroup.POST("/payment", h.RecordPayment)
		}
	}

	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	return r
}

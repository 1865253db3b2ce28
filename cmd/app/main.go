package main

import (
	"context"
	"log"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/fx"
	"gorm.io/gorm"

	"github.com/AlexeiFed/waxhands-sub002/cmd/fx/account_fx"
	"github.com/AlexeiFed/waxhands-sub002/cmd/fx/db_fx"
	"github.com/AlexeiFed/waxhands-sub002/cmd/fx/logger_fx"
	"github.com/AlexeiFed/waxhands-sub002/cmd/fx/memcache_fx"
	"github.com/AlexeiFed/waxhands-sub002/cmd/fx/payment_fx"
	"github.com/AlexeiFed/waxhands-sub002/cmd/fx/refund_fx"
	"github.com/AlexeiFed/waxhands-sub002/cmd/fx/registration_fx"
	"github.com/AlexeiFed/waxhands-sub002/cmd/fx/robokassa_fx"
	"github.com/AlexeiFed/waxhands-sub002/cmd/fx/worker_fx"
	"github.com/AlexeiFed/waxhands-sub002/internal/api/controllers"
	"github.com/AlexeiFed/waxhands-sub002/internal/infra"
	"github.com/AlexeiFed/waxhands-sub002/internal/worker"
	"github.com/AlexeiFed/waxhands-sub002/pkg/middleware"
)

func init() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}
}

func main() {
	app := fx.New(
		logger_fx.Module,
		db_fx.Module,
		memcache_fx.Module,
		robokassa_fx.Module,
		account_fx.Module,
		registration_fx.Module,
		payment_fx.Module,
		refund_fx.Module,
		worker_fx.Module,

		fx.Provide(ProvideRouter),
		fx.Invoke(Migrate),
		fx.Invoke(StartServer),
		fx.Invoke(StartBackground),
	)

	app.Run()
}

func Migrate(db *gorm.DB) {
	if err := infra.AutoMigrate(db); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}
}

func StartServer(lc fx.Lifecycle, engine *gin.Engine, db *gorm.DB) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				log.Println("Starting HTTP server at ${PORT}")
				if err := engine.Run(":" + os.Getenv("PORT")); err != nil {
					log.Fatalf("Failed to start server: %v", err)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			log.Println("Stopping HTTP server")
			infra.ClosePostgresql(db)
			return nil
		},
	})
}

func StartBackground(lc fx.Lifecycle, srv *worker.Server, poller *worker.RefundPoller) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			srv.Start()
			poller.Start()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			poller.Stop()
			srv.Shutdown()
			return nil
		},
	})
}

func ProvideRouter(
	accountController *controllers.AccountController,
	registrationController *controllers.RegistrationController,
	paymentController *controllers.PaymentController,
	refundController *controllers.RefundController) *gin.Engine {

	r := gin.Default()
	r.Use(gin.Logger())
	r.Use(gin.Recovery())
	r.Use(middleware.CORSMiddleware())
	r.Use(middleware.TraceIDMiddleware())

	RegisterRoutes(r, accountController, registrationController, paymentController, refundController)

	return r
}

func RegisterRoutes(r *gin.Engine,
	accountController *controllers.AccountController,
	registrationController *controllers.RegistrationController,
	paymentController *controllers.PaymentController,
	refundController *controllers.RefundController) {

	accountGroup := r.Group("/accounts")
	accountGroup.POST("/register", accountController.Register)
	accountGroup.POST("/login", accountController.Login)

	// Gateway-facing endpoints carry their own signature or token
	// verification instead of bearer auth.
	paymentGroup := r.Group("/payments")
	paymentGroup.POST("/result", paymentController.ResultNotification)
	paymentGroup.POST("/webhook", paymentController.TokenNotification)
	paymentGroup.GET("/success", paymentController.SuccessReturn)
	paymentGroup.GET("/fail", paymentController.FailReturn)
	paymentGroup.POST("/link", middleware.JWTAuthMiddleware(), paymentController.CreatePaymentLink)

	registrationGroup := r.Group("/registrations", middleware.JWTAuthMiddleware())
	registrationGroup.POST("", registrationController.GroupRegister)

	invoiceGroup := r.Group("/invoices", middleware.JWTAuthMiddleware())
	invoiceGroup.GET("/:id", registrationController.GetInvoice)

	refundGroup := r.Group("/refunds", middleware.JWTAuthMiddleware())
	refundGroup.POST("", refundController.RequestRefund)
	refundGroup.GET("/eligibility", refundController.Eligibility)
	refundGroup.GET("/:invoiceId", refundController.GetRefundState)
}

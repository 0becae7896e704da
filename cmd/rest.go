package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	coreconfig "github.com/AzielCF/az-press/core/config"
	"github.com/AzielCF/az-press/ui/rest"
	"github.com/AzielCF/az-press/ui/rest/middleware"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var restCmd = &cobra.Command{
	Use:   "rest",
	Short: "Serve the blog API over http",
	Long:  `Starts the HTTP API: articles, comment threads, accounts and cache administration.`,
	RunE:  restServer,
}

func init() {
	restCmd.Flags().String("cors-origins", "*", `allowed CORS origins --cors-origins <string> | example: --cors-origins="https://blog.example.com"`)
	restCmd.Flags().Int("rate-limit", 1000, "max requests per IP per minute")
	rootCmd.AddCommand(restCmd)
}

func restServer(cmd *cobra.Command, _ []string) error {
	cfg := coreconfig.Global
	origins, _ := cmd.Flags().GetString("cors-origins")
	rateLimit, _ := cmd.Flags().GetInt("rate-limit")

	container, err := openContainer(cmd.Context())
	if err != nil {
		return err
	}
	defer container.Close()

	app := fiber.New(fiber.Config{
		AppName:               "az-press",
		ServerHeader:          "Hidden",
		DisableStartupMessage: !cfg.App.Debug,
		ErrorHandler:          middleware.ErrorHandler,
	})

	// Security: RequestID for audit trails
	app.Use(requestid.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: origins,
		AllowHeaders: "Origin, Content-Type, Accept, Authorization, X-Request-ID",
	}))
	app.Use(middleware.Recovery())

	// Security: Hardened Headers
	app.Use(helmet.New(helmet.Config{
		XSSProtection:      "1; mode=block",
		ContentTypeNosniff: "nosniff",
		XFrameOptions:      "SAMEORIGIN",
		HSTSMaxAge:         31536000, // 1 Year
		ReferrerPolicy:     "strict-origin-when-cross-origin",
	}))
	app.Use(limiter.New(limiter.Config{
		Max:        rateLimit,
		Expiration: 1 * time.Minute,
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP()
		},
	}))

	if cfg.App.Debug {
		app.Use(logger.New())
	}

	rest.Mount(app.Group(cfg.App.BasePath+"/api"), container)

	// Graceful shutdown handler
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigChan
		logrus.Info("[REST] Reception of termination signal, shutting down gracefully...")
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := app.ShutdownWithContext(ctx); err != nil {
			logrus.Errorf("[REST] Error during Fiber shutdown: %v", err)
		}
	}()

	logrus.Infof("[REST] Listening on :%s", cfg.App.Port)
	if err := app.Listen(":" + cfg.App.Port); err != nil {
		logrus.Errorf("[REST] Failed to start: %v", err)
		return err
	}
	logrus.Info("[APP] Application stopped cleanly.")
	return nil
}

package main

import (
	"chatbot"
	"chatbot/internal/api/handler/endpoints"
	"chatbot/internal/api/models"
	"context"
	"errors"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/graceful"
	"github.com/gin-gonic/gin"
)

func main() {
	chatbot.InitConfig(".env")
	gin.SetMode(gin.ReleaseMode)

	if chatbot.GetConfig().Mode == "dev" {
		if err := chatbot.DB.AutoMigrate(
			&models.User{},
			&models.Workflow{},
			&models.Node{},
			&models.Edge{},
			&models.Agent{},
			&models.McpServer{},
			&models.ChatThread{},
			&models.ChatMessage{},
		); err != nil {
			chatbot.Logger.Fatal().Err(err).Msg("Failed to migrate database")
		}
		chatbot.Logger.Info().Msg("Database migrated successfully")
		gin.SetMode(gin.DebugMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	router, err := graceful.Default(graceful.WithAddr(chatbot.GetConfig().ApiPort))
	if err != nil {
		panic(err)
	}
	defer stop()
	defer router.Close()

	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "PATCH", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	initAPI(router)

	chatbot.Logger.Debug().Msgf("Starting chatbot API on port %s", chatbot.GetConfig().ApiPort)
	if err = router.RunWithContext(ctx); err != nil && !errors.Is(err, context.Canceled) {
		chatbot.Logger.Fatal().Msg(err.Error())
		panic(err)
	}
}

func initAPI(router *graceful.Graceful) {
	endpoints.AuthHandler(router)
	endpoints.WorkflowHandler(router)
	endpoints.AgentHandler(router)
	endpoints.McpHandler(router)
	endpoints.ChatHandler(router)
}

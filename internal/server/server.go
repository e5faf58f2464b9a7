package server

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"todoapi/internal/config"
	"todoapi/internal/database"
	"todoapi/internal/handler"
	"todoapi/internal/middleware"
	"todoapi/internal/repository"
	"todoapi/internal/service"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

type Server struct {
	Engine *gin.Engine
	DB     *gorm.DB
	Config *config.Config
}

func Init(cfg *config.Config) (*Server, error) {
	// Setup GORM
	dsn := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		cfg.DBHost, cfg.DBPort, cfg.DBUser, cfg.DBPassword, cfg.DBName,
	)
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("❌ failed to connect to DB: %w", err)
	}
	log.Println("✅ Connected to database")

	if err := database.Migrate(db); err != nil {
		return nil, fmt.Errorf("❌ failed to migrate DB: %w", err)
	}
	log.Println("✅ Database schema is up to date")

	// Setup Gin
	r := gin.Default()
	r.Use(middleware.RequestID())
	r.Use(cors.Default())
	r.SetHTMLTemplate(handler.LoadTemplates())

	// Initialize layers
	todoRepo := repository.NewTodoRepository(db)
	todoService := service.NewTodoService(todoRepo)
	todoHandler := handler.NewTodoHandler(todoService)
	pageHandler := handler.NewPageHandler(todoService)

	// API routes
	api := r.Group("/api")
	{
		api.GET("/todos", todoHandler.GetAll)
		api.GET("/todos/:id", todoHandler.GetByID)
		api.GET("/todos/status/:isCompleted", todoHandler.GetByStatus)
		api.POST("/todos", todoHandler.Create)
		api.PUT("/todos/:id", todoHandler.Update)
		api.DELETE("/todos/:id", todoHandler.Delete)
	}

	// Server-rendered pages
	r.GET("/", pageHandler.List)
	r.GET("/todos/new", pageHandler.NewForm)
	r.POST("/todos", pageHandler.Create)
	r.GET("/todos/:id", pageHandler.Detail)
	r.GET("/todos/:id/edit", pageHandler.EditForm)
	r.POST("/todos/:id", pageHandler.Update)
	r.POST("/todos/:id/delete", pageHandler.Delete)

	// API documentation
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	return &Server{
		Engine: r,
		DB:     db,
		Config: cfg,
	}, nil
}

func (s *Server) Run() {
	srv := &http.Server{
		Addr:    ":" + s.Config.ServerPort,
		Handler: s.Engine,
	}

	go func() {
		log.Printf("🚀 Server running on port %s\n", s.Config.ServerPort)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("❌ Failed to listen: %s\n", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("🛑 Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("❌ Server forced to shutdown: %s", err)
	}

	log.Println("✅ Server exited properly")
}

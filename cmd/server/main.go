package main

import (
	"log"

	_ "todoapi/docs"
	"todoapi/internal/config"
	"todoapi/internal/server"
)

// @title           Todo API
// @version         1.0
// @description     REST API for managing todo items, with a server-rendered frontend.

// @host      localhost:8080
// @BasePath  /

// @schemes http
func main() {
	cfg := config.Load()

	s, err := server.Init(cfg)
	if err != nil {
		log.Fatalf("❌ Server initialization failed: %v", err)
	}

	s.Run()
}

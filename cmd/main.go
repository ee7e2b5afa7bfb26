package main

import (
	"log"

	"github.com/joho/godotenv"

	"github.com/myaicademy/curriculum-ops/internal/app"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, relying on environment")
	}

	application, err := app.New()
	if err != nil {
		log.Fatalf("failed to initialize app: %v", err)
	}
	defer application.Close()

	if err := application.Start(); err != nil {
		application.Log.Fatal("Failed to start background jobs", "error", err)
	}
	if err := application.Run(); err != nil {
		application.Log.Fatal("Server exited", "error", err)
	}
}

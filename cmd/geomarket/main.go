package main

import (
	"log"

	"github.com/MrSnakeDoc/geomarket/internal/app"
)

func main() {
	a, err := app.New()
	if err != nil {
		log.Fatalf("❌ geomarket failed to initialize: %v", err)
	}
	if err := a.Run(); err != nil {
		log.Fatalf("❌ geomarket failed to start: %v", err)
	}
}

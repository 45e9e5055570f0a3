package main

import (
	"context"
	"log"

	"admin-console/internal/config"
	"admin-console/internal/resource"
	"admin-console/internal/stub"
)

func main() {
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	log.Printf("Config loaded (port: %d, db: %s)", cfg.Stub.Port, cfg.Stub.DatabasePath)

	registry := resource.Catalogue()

	server, err := stub.New(ctx, cfg.Stub, registry)
	if err != nil {
		log.Fatalf("Failed to start stub backend: %v", err)
	}
	defer server.Close()
	log.Printf("Stub backend ready (%d resources)", len(registry.All()))

	if err := server.Listen(); err != nil {
		log.Fatalf("Server stopped: %v", err)
	}
}

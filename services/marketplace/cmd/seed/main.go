package main

import (
	"context"
	"flag"
	"fmt"

	"classifieds/pkg/config"
	"classifieds/pkg/logger"
	marketplaceApp "classifieds/services/marketplace/internal/app"
)

func main() {
	var opts marketplaceApp.SeedOptions
	flag.StringVar(&opts.ImageURL, "images", "", "URL to fetch a demo photo from for every listing (e.g. https://picsum.photos/800/600)")
	flag.StringVar(&opts.Password, "password", "password123", "Password for seeded accounts")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		panic(fmt.Sprintf("Failed to load config: %v", err))
	}

	log := logger.New()
	if err := marketplaceApp.Seed(context.Background(), cfg, log, opts); err != nil {
		log.Error("Failed to seed database: %v", err)
		panic(err)
	}

	log.Info("Database seeded successfully!")
	log.Flush()
}

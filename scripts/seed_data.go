package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"shareit/internal/client"
	"shareit/internal/seed"

	"github.com/rs/zerolog"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()
	var (
		seedPath = flag.String("file", "configs/seed.yaml", "path to seed.yaml")
		baseURL  = flag.String("url", "http://localhost:8080", "shareit API base url")
		apiKey   = flag.String("api-key", os.Getenv("SHAREIT_API_KEY"), "API key, if auth is enabled")
	)
	flag.Parse()

	f, err := seed.LoadFile(*seedPath)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	res, err := seed.Apply(ctx, client.New(*baseURL, *apiKey), f, &logger)
	if err != nil {
		return err
	}

	fmt.Printf("done: users created=%d existing=%d, items created=%d existing=%d\n",
		res.UsersCreated, res.UsersExisting, res.ItemsCreated, res.ItemsExisting)
	return nil
}

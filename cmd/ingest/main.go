package main

import (
	"context"
	"flag"
	"log"
	"os"
	"path/filepath"
	"strings"

	"math-mentor-be/internal/config"
	"math-mentor-be/pkg/database"
	"math-mentor-be/pkg/embedding"
	"math-mentor-be/pkg/events"
	"math-mentor-be/pkg/ingest"
	pktNats "math-mentor-be/pkg/nats"
	"math-mentor-be/pkg/ragstore"

	"github.com/fatih/color"
)

// Loads a directory of curriculum markdown files into the knowledge
// collection. Each file is split on headings; chunks carry their header
// path as metadata and the filename as citation source.
func main() {
	dir := flag.String("dir", "./curriculum", "directory of markdown files to ingest")
	flag.Parse()

	cfg := config.Load()

	db, err := database.NewGormDBFromDSN(cfg.Database.Connection)
	if err != nil {
		color.Red("Failed to connect to database: %v", err)
		os.Exit(1)
	}

	embeddingProvider, embName, err := embedding.NewProvider(embedding.Credentials{
		OpenAIAPIKey: cfg.Keys.OpenAI,
		GeminiAPIKey: cfg.Keys.GoogleGemini,
	})
	if err != nil {
		color.Red("Failed to initialize embedding provider: %v", err)
		os.Exit(1)
	}
	color.Cyan("Using embedding provider: %s", embName)

	store := ragstore.NewStore(db, embeddingProvider, log.New(os.Stdout, "", log.LstdFlags))

	natsPub, err := pktNats.NewPublisher(cfg.App.NatsURL)
	if err != nil {
		color.Yellow("NATS unavailable, skipping ingest events: %v", err)
		natsPub = nil
	}

	entries, err := os.ReadDir(*dir)
	if err != nil {
		color.Red("Failed to read directory %s: %v", *dir, err)
		os.Exit(1)
	}

	ctx := context.Background()
	totalChunks := 0
	totalFiles := 0

	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".md") {
			continue
		}

		path := filepath.Join(*dir, entry.Name())
		content, err := os.ReadFile(path)
		if err != nil {
			color.Red("  %s: read failed: %v", entry.Name(), err)
			continue
		}

		chunks := ingest.SplitMarkdown(entry.Name(), string(content))
		if len(chunks) == 0 {
			color.Yellow("  %s: no chunks, skipped", entry.Name())
			continue
		}

		if err := store.AddKnowledge(ctx, chunks); err != nil {
			color.Red("  %s: ingest failed: %v", entry.Name(), err)
			continue
		}

		color.Green("  %s: %d chunks ingested", entry.Name(), len(chunks))
		totalChunks += len(chunks)
		totalFiles++

		if natsPub != nil {
			evt := events.NewKnowledgeIngested(entry.Name(), len(chunks))
			if err := natsPub.Publish(ctx, evt); err != nil {
				color.Yellow("  %s: failed to publish ingest event: %v", entry.Name(), err)
			}
		}
	}

	if natsPub != nil {
		natsPub.Close()
	}

	color.Cyan("Done: %d chunks from %d files", totalChunks, totalFiles)
}

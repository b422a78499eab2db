package app

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/askmydoc/askmydoc/internal/config"
	"github.com/askmydoc/askmydoc/internal/core"
	db "github.com/askmydoc/askmydoc/internal/core/database"
	"github.com/askmydoc/askmydoc/internal/core/extract"
	"github.com/askmydoc/askmydoc/internal/core/llm"
	"github.com/askmydoc/askmydoc/internal/core/objectstore"
	"github.com/askmydoc/askmydoc/internal/core/rag"
)

type App struct {
	DBClient     core.DbClient
	ObjectClient core.ObjectClient
	Ingestor     *rag.Ingestor
	Answerer     *rag.Answerer
	Server       *Server
}

func NewApp(ctx context.Context, cfg *config.Config) (*App, error) {
	appCtx, cancel := context.WithTimeout(ctx, 5*time.Minute)
	defer cancel()

	dbClient, err := db.NewDatabaseClient(appCtx, cfg)
	if err != nil {
		return nil, err
	}
	log.Println("Database initialized and ready.")

	objClient, err := objectstore.NewS3Client(appCtx, cfg)
	if err != nil {
		return nil, err
	}
	log.Println("Object client initialized and ready.")

	// Backend clients are constructed cold; the first embedding or
	// generation call loads them, once, for the whole process.
	embedder := llm.NewGeminiEmbedder(cfg.AIAPIKey, cfg.EmbedModel)
	generator := rag.NewGenerator(
		llm.NewGeminiLLM(cfg.AIAPIKey, cfg.GenModel),
		llm.NewOpenAIChat(cfg.OpenAIAPIKey, cfg.FallbackModel),
	)

	store, err := newIndexStore(cfg, objClient)
	if err != nil {
		return nil, err
	}

	ingestor := rag.NewIngestor(embedder, generator, store, rag.IngestConfig{
		ChunkSize:    cfg.ChunkSize,
		ChunkOverlap: cfg.ChunkOverlap,
	})
	answerer := rag.NewAnswerer(embedder, generator, store, cfg.TopK)
	extractor := extract.NewDocconvExtractor(false)

	server := NewServer(cfg, dbClient, objClient, extractor, ingestor, answerer)

	return &App{
		DBClient:     dbClient,
		ObjectClient: objClient,
		Ingestor:     ingestor,
		Answerer:     answerer,
		Server:       server,
	}, nil
}

func newIndexStore(cfg *config.Config, obj core.ObjectClient) (rag.IndexStore, error) {
	switch cfg.IndexBackend {
	case "fs", "":
		return rag.NewFSStore(cfg.IndexDir), nil
	case "s3":
		return rag.NewS3Store(obj, cfg.BucketName, cfg.IndexDir), nil
	default:
		return nil, fmt.Errorf("unknown INDEX_BACKEND %q (want fs or s3)", cfg.IndexBackend)
	}
}

func (a *App) Close() {
	if a.DBClient != nil {
		_ = a.DBClient.Close()
	}
}

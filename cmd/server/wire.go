package main

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/fadilmartias/hiring-assistant/internal/config"
	"github.com/fadilmartias/hiring-assistant/internal/extractor"
	"github.com/fadilmartias/hiring-assistant/internal/repository"
	"github.com/fadilmartias/hiring-assistant/internal/service"
	"github.com/fadilmartias/hiring-assistant/internal/usecase"
)

type dependencies struct {
	catalog    *usecase.CatalogUsecase
	analysis   *usecase.AnalysisUsecase
	processing *usecase.ProcessingUsecase
}

func wire(ctx context.Context) (*dependencies, error) {
	db, err := connectDB()
	if err != nil {
		return nil, err
	}
	store := repository.NewStore(db)

	storageConfig := config.LoadStorageConfig()
	storage, err := service.NewFileStorage(storageConfig)
	if err != nil {
		return nil, fmt.Errorf("prepare upload dir: %w", err)
	}

	inferenceConfig := config.LoadInferenceConfig()
	ai, err := service.NewInferenceService(ctx, inferenceConfig, zlog)
	if err != nil {
		return nil, err
	}

	index, err := service.NewCandidateIndex(ctx, config.LoadVectorConfig(), store.Embeddings(), ai.EmbedModel(), zlog)
	if err != nil {
		return nil, err
	}

	zlog.Info("components ready",
		zap.String("ai_provider", ai.Provider()),
		zap.String("vector_store", index.Name()),
		zap.String("pdf_engine", storageConfig.PDFEngine),
	)

	analysis := usecase.NewAnalysisUsecase(ai, inferenceConfig.PlaceholderScore, zlog)
	return &dependencies{
		catalog:  usecase.NewCatalogUsecase(store),
		analysis: analysis,
		processing: usecase.NewProcessingUsecase(
			store,
			storage,
			extractor.New(storageConfig, zlog),
			analysis,
			ai,
			index,
			zlog,
		),
	}, nil
}

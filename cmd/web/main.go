package main

import (
	"context"
	"fmt"
	"net"
	"os"
	"time"

	"github.com/POUPE-AI/poupeai-report-service/pkg/handlers/reports"
	"github.com/POUPE-AI/poupeai-report-service/pkg/models/domain"
	"github.com/POUPE-AI/poupeai-report-service/pkg/server"
	"github.com/POUPE-AI/poupeai-report-service/pkg/services/ai"
	"github.com/POUPE-AI/poupeai-report-service/pkg/services/categorization"
	"github.com/POUPE-AI/poupeai-report-service/pkg/services/config"
	"github.com/POUPE-AI/poupeai-report-service/pkg/services/finance"
	"github.com/POUPE-AI/poupeai-report-service/pkg/services/report"
	"github.com/POUPE-AI/poupeai-report-service/pkg/services/savings"
	storereport "github.com/POUPE-AI/poupeai-report-service/pkg/store/report"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var cfgPath string

func main() {
	var rootCmd = &cobra.Command{
		Use:   "web",
		Short: "Start the report generation web service",
		RunE:  runServer,
	}

	rootCmd.Flags().StringVarP(&cfgPath, "config", "c", "config.yaml",
		"Path to the configuration file")

	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func runServer(cmd *cobra.Command, _ []string) error {
	if err := godotenv.Load(); err != nil {
		fmt.Printf("Error loading .env file: %v\n", err)
	}

	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()

	cfg, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	logger.Info().Msgf("Configuration found at `%s` successfully loaded.", cfgPath)

	ctx, cancel := context.WithTimeout(cmd.Context(), 10*time.Second)
	defer cancel()

	mongoClient, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.Database.URI))
	if err != nil {
		return fmt.Errorf("failed to connect to MongoDB: %w", err)
	}
	if err := mongoClient.Ping(ctx, nil); err != nil {
		return fmt.Errorf("failed to reach MongoDB: %w", err)
	}
	db := mongoClient.Database(cfg.Database.Name)

	retry := ai.DefaultRetryPolicy()
	gemini := ai.NewGeminiClient(ai.GeminiConfig{
		APIKey:  cfg.Gemini.APIKey,
		BaseURL: cfg.Gemini.BaseURL,
		Model:   cfg.Gemini.Model,
	}, retry)
	deepseek := ai.NewDeepseekClient(ai.DeepseekConfig{
		APIKey:  cfg.Deepseek.APIKey,
		BaseURL: cfg.Deepseek.BaseURL,
		Model:   cfg.Deepseek.Model,
	}, retry)
	aggregator := ai.NewAggregator(gemini, deepseek)

	financeClient, err := finance.NewClient(finance.Config{
		BaseURL:              cfg.Finance.BaseURL,
		TransactionsEndpoint: cfg.Finance.TransactionsEndpoint,
	})
	if err != nil {
		return fmt.Errorf("failed to create finance service client: %w", err)
	}

	handler := reports.NewHandler(reports.Dependencies{
		Finance:        financeClient,
		AI:             aggregator,
		Overview:       report.NewOverviewPipeline(storereport.NewMongo[domain.OverviewReport](db, "overviewreports")),
		Expense:        report.NewExpensePipeline(storereport.NewMongo[domain.ExpenseReport](db, "expensereports")),
		Income:         report.NewIncomePipeline(storereport.NewMongo[domain.IncomeReport](db, "incomereports")),
		Category:       report.NewCategoryPipeline(storereport.NewMongo[domain.CategoryReport](db, "categoryreports")),
		Insight:        report.NewInsightPipeline(storereport.NewMongo[domain.InsightReport](db, "insightreports")),
		Savings:        savings.NewService(),
		Categorization: categorization.NewService(),
	})

	api := server.NewWebAPI(logger, server.Config{
		Addr:            net.JoinHostPort(cfg.Server.Host, cfg.Server.Port),
		ShutdownTimeout: cfg.Server.ShutdownTimeout,
		Dependencies:    server.Dependencies{Reports: handler},
	})

	defer func() {
		disconnectCtx, disconnectCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer disconnectCancel()
		if err := mongoClient.Disconnect(disconnectCtx); err != nil {
			logger.Error().Err(err).Msg("failed to disconnect from MongoDB")
		}
	}()

	return api.Start()
}

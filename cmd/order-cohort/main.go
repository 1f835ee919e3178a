package main

import (
	"fmt"
	"os"

	"github.com/diillson/order-cohort-analytics-go/internal/adapter/driven/config"
	"github.com/diillson/order-cohort-analytics-go/internal/adapter/driven/export"
	"github.com/diillson/order-cohort-analytics-go/internal/adapter/driven/orders"
	"github.com/diillson/order-cohort-analytics-go/internal/adapter/driving/cli"
	"github.com/diillson/order-cohort-analytics-go/internal/application/usecase"
	"github.com/diillson/order-cohort-analytics-go/pkg/console"
	"github.com/diillson/order-cohort-analytics-go/pkg/version"
)

func main() {
	// Inicializa o aplicativo CLI
	app := cli.NewCLIApp(version.Version)

	// Inicializa os repositórios
	orderRepo := orders.NewOrderRepository()
	exportRepo := export.NewExportRepository()
	configRepo := config.NewConfigRepository()
	consoleImpl := console.NewConsole()

	// Inicializa o caso de uso
	analyticsUseCase := usecase.NewAnalyticsUseCase(
		orderRepo,
		exportRepo,
		configRepo,
		consoleImpl,
	)

	// Define o caso de uso no aplicativo CLI
	app.SetAnalyticsUseCase(analyticsUseCase)

	// Executa o aplicativo
	if err := app.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

package main

import (
	"bufio"
	"context"
	"fmt"
	"math/rand"
	"os"
	"strings"
	"time"

	"budgetai/internal/backend"
	"budgetai/internal/cli"
	"budgetai/internal/insights"
	"budgetai/internal/parse"
	"budgetai/internal/predict"
)

const banner = `budgetai - tell me what you spent, e.g. "500 rupees for pizza"
commands: summary, analysis, forecast, tip, quit`

func main() {
	cli.LoadEnvFile()
	logger := cli.SetupLogger("cli")
	cfg := cli.LoadAndValidateConfig(logger)

	backendCfg, err := backend.FromAppConfig(cfg)
	if err != nil {
		logger.Error("Failed to build backend config", "error", err)
		os.Exit(1)
	}

	factory := backend.NewFactory(logger.WithComponent("backend").Logger)
	result, err := factory.CreateBackend(context.Background(), backendCfg)
	if err != nil {
		logger.Error("Failed to create backend", "error", err, "backend", cfg.DataBackend)
		os.Exit(1)
	}
	defer func() {
		if result.Cleanup != nil {
			_ = result.Cleanup()
		}
	}()

	parser := cli.NewParser(cfg)
	forecaster := predict.Forecaster{MinSamples: cfg.ForecastMinSamples}
	rng := rand.New(rand.NewSource(time.Now().UnixNano()))

	fmt.Println(banner)

	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			break
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		ctx := context.Background()

		switch strings.ToLower(line) {
		case "quit", "exit":
			fmt.Println("bye")
			return
		case "summary":
			printSummary(ctx, result.Backend)
		case "analysis":
			printAnalysis(ctx, result.Backend)
		case "forecast":
			printForecast(ctx, result.Backend, forecaster)
		case "tip":
			printTip(ctx, result.Backend, rng)
		default:
			recordUtterance(ctx, result.Backend, parser, line)
		}
	}

	if err := scanner.Err(); err != nil {
		logger.Error("Input error", "error", err)
		os.Exit(1)
	}
}

func recordUtterance(ctx context.Context, b backend.Backend, parser *parse.Parser, line string) {
	tx, err := parser.Parse(line)
	if err != nil {
		if kind, ok := parse.FailureKindOf(err); ok {
			switch kind {
			case parse.NoAmountFound:
				fmt.Println("I couldn't find an amount in that. Try something like \"120 for lunch\".")
			case parse.InvalidAmount:
				fmt.Println("That amount doesn't look right. Amounts can't be negative.")
			default:
				fmt.Println("I couldn't understand that:", err)
			}
			return
		}
		fmt.Println("Something went wrong:", err)
		return
	}

	if _, err := b.Append(ctx, tx); err != nil {
		fmt.Println("Failed to save:", err)
		return
	}

	fmt.Println(tx.Confirmation())
}

func printSummary(ctx context.Context, b backend.Backend) {
	now := time.Now()
	summary, err := b.ReadMonthSummary(ctx, now.Year(), int(now.Month()))
	if err != nil {
		fmt.Println("Failed to read summary:", err)
		return
	}

	if summary.Count == 0 {
		fmt.Println("Nothing logged this month yet.")
		return
	}

	fmt.Printf("%s %d: %s across %d transactions\n",
		now.Month(), now.Year(), summary.Total, summary.Count)
	for _, ca := range summary.ByCategory {
		fmt.Printf("  %-10s %s\n", ca.Category, ca.Amount)
	}
}

func printAnalysis(ctx context.Context, b backend.Backend) {
	history, err := b.ListAll(ctx)
	if err != nil {
		fmt.Println("Failed to read history:", err)
		return
	}

	analysis, ok := insights.Analyze(history)
	if !ok {
		fmt.Println("Nothing logged yet.")
		return
	}

	fmt.Printf("Total spent: %s across %d transactions\n", analysis.Total, analysis.Count)
	fmt.Printf("Top category: %s\n", analysis.TopCategory)
	fmt.Println("Monthly breakdown:")
	for _, m := range analysis.Monthly {
		fmt.Printf("  %s %d: %s\n", m.Month, m.Year, m.Total)
	}
}

func printForecast(ctx context.Context, b backend.Backend, forecaster predict.Forecaster) {
	history, err := b.ReadHistory(ctx)
	if err != nil {
		fmt.Println("Failed to read history:", err)
		return
	}

	forecast, err := forecaster.Forecast(history)
	if err != nil {
		fmt.Println("Not enough history for a forecast yet. Keep logging!")
		return
	}

	fmt.Printf("Next expected spend: %s (trend: %s over %d entries)\n",
		forecast.Next, forecast.Trend, forecast.Samples)
}

func printTip(ctx context.Context, b backend.Backend, rng *rand.Rand) {
	history, err := b.ListAll(ctx)
	if err != nil {
		fmt.Println("Failed to read history:", err)
		return
	}

	analysis, ok := insights.Analyze(history)
	if !ok {
		fmt.Println(insights.FirstTip)
		return
	}

	fmt.Printf("Most of your spending is on %s.\n", analysis.TopCategory)
	fmt.Println(insights.Tip(analysis.TopCategory, rng))
}

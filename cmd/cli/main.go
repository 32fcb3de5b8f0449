package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"

	"github.com/dvloznov/finanzas-ai/internal/analyzer"
	"github.com/dvloznov/finanzas-ai/internal/config"
	"github.com/dvloznov/finanzas-ai/internal/finance"
	"github.com/dvloznov/finanzas-ai/internal/llm"
	"github.com/dvloznov/finanzas-ai/internal/logger"
)

const commandTimeout = 2 * time.Minute

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}
	log := logger.New(cfg.Log.Level, cfg.Log.Format)

	switch os.Args[1] {
	case "context":
		runContext(log)
	case "analyze":
		runAnalyze(cfg, log)
	case "categorize":
		runCategorize(cfg, log)
	case "chat":
		runChat(cfg, log)
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println("Finanzas AI CLI")
	fmt.Println("\nUsage:")
	fmt.Println("  cli <command> [options]")
	fmt.Println("\nCommands:")
	fmt.Println("  context     Print the financial summary sent to the model")
	fmt.Println("  analyze     Run a complete financial analysis")
	fmt.Println("  categorize  Categorize a single transaction")
	fmt.Println("  chat        Ask the assistant a question, optionally with financial data")
	fmt.Println("  help        Show this help message")
	fmt.Println("\nRun 'cli <command> -h' for more information on a command.")
}

func runContext(log zerolog.Logger) {
	fs := flag.NewFlagSet("context", flag.ExitOnError)
	file := fs.String("file", "", "Path to a JSON file with gastos, ingresos and presupuestos")
	fs.Parse(os.Args[2:])

	if *file == "" {
		log.Fatal().Msg("Error: -file is required")
	}

	data, err := loadFinancialData(*file)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load financial data")
	}

	fmt.Print(finance.FormatContext(data))
}

func runAnalyze(cfg *config.Config, log zerolog.Logger) {
	fs := flag.NewFlagSet("analyze", flag.ExitOnError)
	file := fs.String("file", "", "Path to a JSON file with gastos, ingresos and presupuestos")
	fs.Parse(os.Args[2:])

	if *file == "" {
		log.Fatal().Msg("Error: -file is required")
	}

	data, err := loadFinancialData(*file)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load financial data")
	}

	ctx, cancel := commandContext(log)
	defer cancel()

	result, err := newAnalyzer(ctx, cfg, log).GenerateCompleteAnalysis(ctx, data)
	if err != nil {
		log.Fatal().Err(err).Msg("Analysis failed")
	}

	printJSON(result)
}

func runCategorize(cfg *config.Config, log zerolog.Logger) {
	fs := flag.NewFlagSet("categorize", flag.ExitOnError)
	desc := fs.String("desc", "", "Transaction description")
	amount := fs.Float64("amount", 0, "Transaction amount")
	kind := fs.String("kind", string(finance.KindExpense), "Transaction kind: gasto or ingreso")
	fs.Parse(os.Args[2:])

	if *desc == "" {
		log.Fatal().Msg("Error: -desc is required")
	}

	ctx, cancel := commandContext(log)
	defer cancel()

	result := newAnalyzer(ctx, cfg, log).CategorizeTransaction(ctx, *desc, *amount, finance.Kind(*kind))
	printJSON(result)
}

func runChat(cfg *config.Config, log zerolog.Logger) {
	fs := flag.NewFlagSet("chat", flag.ExitOnError)
	message := fs.String("message", "", "Question for the assistant")
	file := fs.String("file", "", "Optional JSON file with financial data for context")
	fs.Parse(os.Args[2:])

	if *message == "" {
		log.Fatal().Msg("Error: -message is required")
	}

	ctx, cancel := commandContext(log)
	defer cancel()
	a := newAnalyzer(ctx, cfg, log)

	var (
		reply string
		err   error
	)
	if *file != "" {
		data, loadErr := loadFinancialData(*file)
		if loadErr != nil {
			log.Fatal().Err(loadErr).Msg("Failed to load financial data")
		}
		reply, err = a.ChatWithContext(ctx, *message, nil, data)
	} else {
		reply, err = a.Chat(ctx, *message, nil)
	}
	if err != nil {
		log.Fatal().Err(err).Msg("Chat failed")
	}

	fmt.Println(reply)
}

func commandContext(log zerolog.Logger) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithTimeout(context.Background(), commandTimeout)
	return logger.WithContext(ctx, log), cancel
}

func newAnalyzer(ctx context.Context, cfg *config.Config, log zerolog.Logger) *analyzer.Analyzer {
	provider, err := llm.New(ctx, cfg.AI)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create AI provider")
	}
	log.Debug().Str("provider", provider.Name()).Str("model", provider.Model()).Msg("Using AI provider")
	return analyzer.New(provider, log)
}

// loadFinancialData reads and validates a financial data JSON file.
func loadFinancialData(path string) (finance.FinancialData, error) {
	f, err := os.Open(path)
	if err != nil {
		return finance.FinancialData{}, fmt.Errorf("loadFinancialData: %w", err)
	}
	defer f.Close()
	return decodeFinancialData(f)
}

func decodeFinancialData(r io.Reader) (finance.FinancialData, error) {
	var data finance.FinancialData
	if err := json.NewDecoder(r).Decode(&data); err != nil {
		return finance.FinancialData{}, fmt.Errorf("decodeFinancialData: %w", err)
	}
	if err := data.Validate(); err != nil {
		return finance.FinancialData{}, fmt.Errorf("decodeFinancialData: %w", err)
	}
	return data, nil
}

func printJSON(v interface{}) {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to encode output: %v\n", err)
		os.Exit(1)
	}
}

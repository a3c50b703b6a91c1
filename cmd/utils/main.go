package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/aquamarinepk/aqm"
	"github.com/joho/godotenv"

	"github.com/appetiteclub/staffops/cmd/utils/internal/commands"
)

const (
	appName    = "staffops-utils"
	appVersion = "0.1.0"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	_ = godotenv.Load()

	config, err := aqm.LoadConfig("UTILS", os.Args[2:])
	if err != nil {
		log.Fatalf("Cannot load config: %v", err)
	}

	logLevel, _ := config.GetString("log.level")
	if logLevel == "" {
		logLevel = "info"
	}
	logger := aqm.NewLogger(logLevel)

	ctx := context.Background()
	command := os.Args[1]

	switch command {
	case "seed-demo":
		if err := commands.SeedDemo(ctx, config, logger); err != nil {
			log.Fatalf("Demo seeding failed: %v", err)
		}
		logger.Info("Demo seeding completed successfully")

	case "clear-demo":
		if err := commands.ClearDemo(ctx, config, logger); err != nil {
			log.Fatalf("Clear demo data failed: %v", err)
		}
		logger.Info("Demo data cleared successfully")

	case "reset-db":
		if err := commands.ResetDB(ctx, config, logger); err != nil {
			log.Fatalf("Database reset failed: %v", err)
		}
		logger.Info("Database reset completed successfully")

	case "token":
		token, err := commands.IssueToken(commands.TokenRequestFromConfig(config))
		if err != nil {
			log.Fatalf("Cannot issue token: %v", err)
		}
		fmt.Println(token)

	case "version":
		fmt.Printf("%s version %s\n", appName, appVersion)

	case "help", "-h", "--help":
		printUsage()

	default:
		fmt.Printf("Unknown command: %s\n\n", command)
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Printf(`%s - StaffOps utility commands

Usage:
  %s <command> [options]

Commands:
  seed-demo    Seed backoffice demo data (requests, payroll, shift reports, notifications)
  clear-demo   Remove backoffice demo data
  reset-db     Drop the tasks and backoffice databases (USE WITH CAUTION)
  token        Print a signed role token for local testing
  version      Print version information
  help         Show this help message

Environment Variables:
  UTILS_DB_MONGO_URL      MongoDB connection URL (default: mongodb://localhost:27017)
  UTILS_AUTH_SIGNING_KEY  Key shared with the services for role tokens
  UTILS_TOKEN_ROLE        owner, manager or employee (default: owner)
  UTILS_TOKEN_SUBJECT     Staff member id carried by the token
  UTILS_TOKEN_NAME        Display name carried by the token
  UTILS_TOKEN_TTL         Token lifetime (default: 8h)
  UTILS_LOG_LEVEL         Log level: debug, info, warn, error (default: info)

Examples:
  %s seed-demo
  UTILS_TOKEN_ROLE=manager %s token
  UTILS_DB_MONGO_URL=mongodb://localhost:27017 %s reset-db

`, appName, appName, appName, appName, appName)
}

package main

import (
	"fmt"
	"os"
	"strconv"

	"chat-seeder/generators"
	"chat-seeder/repositories"
	"chat-seeder/seeder"
	"chat-seeder/storage"

	"github.com/Netflix/go-env"
	"github.com/dgraph-io/badger/v4"
	"github.com/gookit/color"
	"github.com/joho/godotenv"
	"github.com/mama165/sdk-go/logs"
	"github.com/olekukonko/tablewriter"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "Fatal error: %v\n", err)
		os.Exit(1)
	}
}

// run wires configuration, store, repositories and the engine, so that all
// defers execute before the process exits and the wiring stays testable.
func run(args []string) error {
	_ = godotenv.Load()
	var config Config
	if _, err := env.UnmarshalFromEnviron(&config); err != nil {
		return fmt.Errorf("config error: %w", err)
	}
	log := logs.GetLoggerFromString(config.LogLevel)

	cfg := seeder.Config{
		UsersNumber:    config.UsersNumber,
		GroupsNumber:   config.GroupsNumber,
		MessagesNumber: config.MessagesNumber,
		MaxAttempts:    config.MaxAttempts,
	}
	applyArgs(&cfg, args)

	generators.Seed(0)

	db, err := badger.Open(badger.DefaultOptions(config.BadgerFilepath).
		WithLoggingLevel(badger.WARNING))
	if err != nil {
		return fmt.Errorf("database opening failed: %w", err)
	}
	defer func() {
		log.Info("Closing BadgerDB...")
		_ = db.Close()
	}()

	users := repositories.NewUserRepository(db, log)
	groups := repositories.NewGroupRepository(db, log, users)
	conversations := repositories.NewConversationRepository(db, log, users, groups)
	dumper := storage.NewDumper(log, users, groups, conversations, config.ResultDir)

	banner("Resetting store")
	if err := repositories.ClearAll(db); err != nil {
		return fmt.Errorf("store reset failed: %w", err)
	}
	if err := dumper.Reset(); err != nil {
		return fmt.Errorf("result directory reset failed: %w", err)
	}

	engine := seeder.NewEngine(log, cfg, users, groups, conversations)
	normalized := engine.Config()
	log.Info("Result script arguments",
		"users", normalized.UsersNumber,
		"groups", normalized.GroupsNumber,
		"messages", normalized.MessagesNumber,
	)

	banner("Populating store")
	summary, err := engine.Run()
	if err != nil {
		return err
	}

	banner("Unloading result storages to directory")
	if err := dumper.Dump(); err != nil {
		return err
	}

	printSummary(summary)
	fmt.Printf("That's the end. You can see the result in %q.\n", config.ResultDir)
	return nil
}

// applyArgs overrides the configured numbers with up to three positional
// integers (users, groups, messages). Each argument is validated on its own;
// a non-numeric or non-positive value keeps the configured default.
func applyArgs(cfg *seeder.Config, args []string) {
	targets := []*int{&cfg.UsersNumber, &cfg.GroupsNumber, &cfg.MessagesNumber}
	for i, target := range targets {
		if i >= len(args) {
			break
		}
		n, err := strconv.Atoi(args[i])
		if err != nil || n <= 0 {
			continue
		}
		*target = n
	}
}

func banner(message string) {
	fmt.Println(color.New(color.BgBlack, color.FgGreen).Render("  ====== " + message + " ======"))
}

func printSummary(summary seeder.Summary) {
	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"Phase", "Result"})
	table.SetAutoFormatHeaders(true)
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetBorder(false)
	table.SetTablePadding("\t")

	table.Append([]string{"users created", strconv.Itoa(summary.Users)})
	table.Append([]string{"groups created", strconv.Itoa(summary.Groups)})
	table.Append([]string{"conversations created", strconv.Itoa(summary.Conversations)})
	for phase, count := range summary.Skipped {
		table.Append([]string{phase + " attempts skipped", strconv.Itoa(count)})
	}
	table.Render()
}

// Package main provides the interactive terminal front end for the card
// name quiz: pick sets, draw random cards, and guess their names by typed
// input or multiple choice.
package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/ramonehamilton/cardquiz/internal/config"
	"github.com/ramonehamilton/cardquiz/internal/display"
	"github.com/ramonehamilton/cardquiz/internal/quiz"
	"github.com/ramonehamilton/cardquiz/internal/scryfall"
	"github.com/ramonehamilton/cardquiz/internal/store"
	"github.com/ramonehamilton/cardquiz/internal/version"
)

var (
	setsFlag    = flag.String("sets", "", "Comma-separated set codes to quiz on (e.g. \"neo,dsk\")")
	modeFlag    = flag.String("mode", "", "Input mode: \"text\" or \"choice\"")
	dbPath      = flag.String("db-path", "", "Session database path (default: ~/.cardquiz/session.db)")
	listSets    = flag.Bool("list-sets", false, "List available sets and exit")
	showVersion = flag.Bool("version", false, "Print version and exit")
)

func main() {
	flag.Parse()

	if *showVersion {
		fmt.Printf("cardquiz %s\n", version.GetVersion())
		return
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if *modeFlag != "" {
		cfg.Game.Mode = *modeFlag
	}
	if *setsFlag != "" {
		cfg.Game.Sets = strings.Split(*setsFlag, ",")
	}
	if *dbPath != "" {
		cfg.Store.Path = *dbPath
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid config: %v", err)
	}

	client := scryfall.NewClient(scryfall.WithBaseURL(cfg.API.BaseURL))
	displayer := display.NewQuizDisplayer()
	ctx := context.Background()

	if *listSets {
		sets, err := client.Sets(ctx)
		if err != nil {
			log.Fatalf("Failed to fetch sets: %v", err)
		}
		displayer.DisplaySets(sets)
		return
	}

	filters := quiz.NewFilterSet(cfg.Game.Sets...)
	if filters.Empty() {
		fmt.Println("No sets selected. Pick sets with -sets (see -list-sets).")
		os.Exit(1)
	}

	mode := quiz.ModeFreeText
	if cfg.Game.Mode == "choice" {
		mode = quiz.ModeMultipleChoice
	}

	sessionStore := openStore(cfg)
	defer func() {
		if err := sessionStore.Close(); err != nil {
			log.Printf("Error closing session store: %v", err)
		}
	}()

	engine, err := quiz.NewEngine(ctx, quiz.EngineConfig{
		Searcher:      client,
		Suggester:     client,
		Store:         sessionStore,
		Filters:       filters,
		Mode:          mode,
		CacheCapacity: cfg.Cache.MaxEntries,
	})
	if err != nil {
		log.Fatalf("Failed to create quiz engine: %v", err)
	}

	displayer.DisplayBanner(filters, engine.Totals())
	runGame(ctx, engine, displayer)
}

// openStore opens the SQLite session store, degrading to an in-memory
// store when the database cannot be opened.
func openStore(cfg *config.Config) store.Store {
	path := cfg.Store.Path
	if path == "" {
		defaultPath, err := config.DefaultStorePath()
		if err != nil {
			log.Printf("No session database path available (%v); session will not persist", err)
			return store.NewMemoryStore()
		}
		path = defaultPath
	}

	s, err := store.OpenSQLite(path)
	if err != nil {
		log.Printf("Failed to open session database (%v); session will not persist", err)
		return store.NewMemoryStore()
	}
	return s
}

// answerAction is the outcome of one answer prompt.
type answerAction int

const (
	actionResolved answerAction = iota
	actionReset
	actionQuit
)

func runGame(ctx context.Context, engine *quiz.Engine, displayer *display.QuizDisplayer) {
	scanner := bufio.NewScanner(os.Stdin)

	for {
		round := engine.Round()
		if round == nil || round.Submitted {
			var err error
			round, err = engine.NextCard(ctx)
			if err != nil {
				if quiz.IsEmptyPool(err) {
					fmt.Println("No cards available for the selected sets. Try different sets.")
					return
				}
				if quiz.IsNoCardsOnPage(err) {
					fmt.Println("Hit an empty result page, drawing again...")
					continue
				}
				log.Fatalf("Failed to draw a card: %v", err)
			}
		}

		displayer.DisplayPrompt(round)

		switch promptAnswer(ctx, engine, displayer, scanner, round) {
		case actionQuit:
			return
		case actionReset:
			fmt.Println("Session reset, new card drawn.")
			fmt.Println()
			continue
		}

		displayer.DisplayVerdict(engine.Round(), engine.Totals())

		fmt.Print("Press Enter for the next card (q to quit): ")
		if !scanner.Scan() || strings.TrimSpace(scanner.Text()) == "q" {
			return
		}
		fmt.Println()
	}
}

// promptAnswer reads input until the round is resolved, reset, or the
// player quits.
func promptAnswer(ctx context.Context, engine *quiz.Engine, displayer *display.QuizDisplayer, scanner *bufio.Scanner, round *quiz.Round) answerAction {
	for {
		if len(round.Options) > 0 {
			fmt.Print("Answer (1-4, s to skip, q to quit): ")
		} else {
			fmt.Print("Answer (?prefix for suggestions, s to skip, q to quit): ")
		}
		if !scanner.Scan() {
			return actionQuit
		}
		input := strings.TrimSpace(scanner.Text())

		switch {
		case input == "q":
			return actionQuit
		case input == "s":
			if _, err := engine.Skip(ctx); err != nil {
				fmt.Printf("Skip failed: %v\n", err)
				continue
			}
			return actionResolved
		case input == "r":
			if _, err := engine.Reset(ctx); err != nil {
				fmt.Printf("Reset failed: %v\n", err)
				continue
			}
			return actionReset
		case strings.HasPrefix(input, "?"):
			displayer.DisplaySuggestions(engine.Suggest(ctx, strings.TrimPrefix(input, "?")))
			continue
		}

		if len(round.Options) > 0 {
			idx, err := strconv.Atoi(input)
			if err != nil {
				fmt.Println("Enter an option number.")
				continue
			}
			if _, err := engine.SubmitChoice(ctx, idx-1); err != nil {
				fmt.Printf("Invalid choice: %v\n", err)
				continue
			}
			return actionResolved
		}

		_, err := engine.SubmitGuess(ctx, input)
		if errors.Is(err, quiz.ErrEmptyGuess) {
			continue
		}
		if err != nil {
			fmt.Printf("Submit failed: %v\n", err)
			continue
		}
		return actionResolved
	}
}

package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"os/signal"
	"sort"
	"strconv"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/Onimbus/proz/internal/config"
	"github.com/Onimbus/proz/internal/database"
	"github.com/Onimbus/proz/internal/game"
	"github.com/Onimbus/proz/internal/logging"
	"github.com/Onimbus/proz/internal/maintenance"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

const defaultDBPath = "./proz.db"

// CLI flags
var (
	dbPath    string
	gameFile  string
	verbosity int
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "proz",
		Short: "proz - team quiz store",
		Long:  `proz keeps questions, teams, users and answers of a levelled team quiz in SQLite.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return loadEnv()
		},
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().StringVarP(&dbPath, "db", "d", defaultDBPath, "SQLite database path (or set DB_PATH env var)")
	rootCmd.PersistentFlags().StringVarP(&gameFile, "game", "g", "", "Game file with levels and questions (or set GAME_FILE env var); built-in game when empty")
	rootCmd.PersistentFlags().CountVarP(&verbosity, "verbose", "v", "Increase verbosity (-v debug, -vv trace)")

	rootCmd.AddCommand(
		newSeedCmd(),
		newRatingCmd(),
		newTeamsCmd(),
		newRegisterCmd(),
		newQuestionCmd(),
		newAnswerCmd(),
		newSettingsCmd(),
		newMaintainCmd(),
		&cobra.Command{
			Use:   "version",
			Short: "Show version information",
			Run: func(cmd *cobra.Command, args []string) {
				fmt.Fprintf(cmd.OutOrStdout(), "proz %s (commit: %s, built: %s)\n", version, commit, date)
			},
		},
	)

	return rootCmd
}

func newSeedCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Create tables and insert the game's questions and keys",
		RunE: func(cmd *cobra.Command, args []string) error {
			db, manager, err := openStore()
			if err != nil {
				return err
			}
			defer db.Close()

			if err := manager.Seed(); err != nil {
				return err
			}
			count, err := db.CountQuestions()
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%d questions in %d levels\n", count, manager.Game().LevelCount())
			for _, level := range manager.Game().Levels() {
				fmt.Fprintf(cmd.OutOrStdout(), "level %d: %d questions, bonus %d\n", level.Number, len(level.QuestionIDs), level.Bonus)
			}
			return nil
		},
	}
}

func newRatingCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "rating",
		Short: "Print teams ordered by score",
		RunE: func(cmd *cobra.Command, args []string) error {
			db, _, err := openStore()
			if err != nil {
				return err
			}
			defer db.Close()

			rating, err := db.GetRating()
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), database.FormatRating(rating))
			return nil
		},
	}
}

func newTeamsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "teams",
		Short: "List registered teams",
		RunE: func(cmd *cobra.Command, args []string) error {
			db, _, err := openStore()
			if err != nil {
				return err
			}
			defer db.Close()

			teams, err := db.GetTeamsNames()
			if err != nil {
				return err
			}
			for _, t := range teams {
				fmt.Fprintf(cmd.OutOrStdout(), "%d\t%s\n", t.ID, t.Name)
			}
			return nil
		},
	}
}

func newRegisterCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "register <user-id> <team>",
		Short: "Add a user to a team, creating the team if needed",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			userID, err := parseUserID(args[0])
			if err != nil {
				return err
			}

			db, manager, err := openStore()
			if err != nil {
				return err
			}
			defer db.Close()

			teamID, err := game.New(manager).Register(userID, args[1])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "user %d in team %d\n", userID, teamID)
			return nil
		},
	}
}

func newQuestionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "question <user-id>",
		Short: "Print the user's current question",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			userID, err := parseUserID(args[0])
			if err != nil {
				return err
			}

			db, manager, err := openStore()
			if err != nil {
				return err
			}
			defer db.Close()

			q, err := game.New(manager).Current(userID)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "#%d (level %d, %d points): %s\n", q.ID, q.Level, q.Score, q.Text)
			return nil
		},
	}
}

func newAnswerCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "answer <user-id> <answer>",
		Short: "Submit an answer for the user's current question",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			userID, err := parseUserID(args[0])
			if err != nil {
				return err
			}

			db, manager, err := openStore()
			if err != nil {
				return err
			}
			defer db.Close()

			res, err := game.New(manager).Submit(userID, args[1])
			if err != nil {
				return err
			}
			printResult(cmd, res)
			return nil
		},
	}
}

func printResult(cmd *cobra.Command, res game.Result) {
	out := cmd.OutOrStdout()
	switch {
	case res.Locked:
		fmt.Fprintf(out, "question %d is locked\n", res.QuestionID)
		return
	case !res.Correct:
		fmt.Fprintln(out, "wrong answer")
		return
	case res.AlreadySolved:
		fmt.Fprintln(out, "already solved by your team")
	default:
		fmt.Fprintf(out, "correct, +%d points\n", res.Points)
		if res.QuestionKey != "" {
			fmt.Fprintf(out, "key: %s\n", res.QuestionKey)
		}
	}
	if res.LevelFinished {
		fmt.Fprintf(out, "level finished, +%d bonus, level key: %s\n", res.LevelBonus, res.LevelKey)
		if res.MaxLevel {
			fmt.Fprintln(out, "all levels finished")
		}
	}
	if res.NextQuestionID != 0 {
		fmt.Fprintf(out, "next question: %d\n", res.NextQuestionID)
	}
}

func newSettingsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "settings",
		Short: "List runtime settings stored in the database",
		RunE: func(cmd *cobra.Command, args []string) error {
			db, _, err := openStore()
			if err != nil {
				return err
			}
			defer db.Close()

			settings, err := db.GetAllSettings()
			if err != nil {
				return err
			}
			keys := make([]string, 0, len(settings))
			for k := range settings {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			for _, k := range keys {
				fmt.Fprintf(cmd.OutOrStdout(), "%s=%s\n", k, settings[k])
			}
			return nil
		},
	}
}

func newMaintainCmd() *cobra.Command {
	var once, vacuum bool

	cmd := &cobra.Command{
		Use:   "maintain",
		Short: "Optimize the database on the configured schedule",
		Long:  `Runs PRAGMA optimize (and VACUUM with --vacuum) on the maintenance.schedule setting until interrupted, or once with --once.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			db, _, err := openStore()
			if err != nil {
				return err
			}
			defer db.Close()

			scheduler := maintenance.New(db)
			if cmd.Flags().Changed("vacuum") {
				scheduler.SetVacuum(vacuum)
			}

			if once {
				if err := scheduler.RunOnce(); err != nil {
					return err
				}
				if last := scheduler.LastRun(); last != nil {
					log.Info().Time("last_run", *last).Str("database", db.Path()).Msg("Maintenance finished")
				}
				return nil
			}

			started, err := scheduler.Start()
			if err != nil {
				return fmt.Errorf("invalid maintenance schedule: %w", err)
			}
			if !started {
				log.Warn().Msg("Maintenance disabled (maintenance.enabled = false)")
				return nil
			}
			defer scheduler.Stop()

			if next := scheduler.NextRun(); next != nil {
				log.Info().Time("next_run", *next).Msg("Waiting for next maintenance run")
			}

			sigChan := make(chan os.Signal, 1)
			signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
			sig := <-sigChan
			log.Info().Str("signal", sig.String()).Msg("Received shutdown signal")
			return nil
		},
	}

	cmd.Flags().BoolVar(&once, "once", false, "Run maintenance immediately and exit")
	cmd.Flags().BoolVar(&vacuum, "vacuum", false, "Also VACUUM the database")
	return cmd
}

// loadEnv reads .env when present and applies env fallbacks for flags left
// at their defaults.
func loadEnv() error {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to load .env: %w", err)
	}

	if dbPath == defaultDBPath {
		if envDB := os.Getenv("DB_PATH"); envDB != "" {
			dbPath = envDB
		}
	}
	if gameFile == "" {
		gameFile = os.Getenv("GAME_FILE")
	}

	logging.Setup(levelForVerbosity(verbosity, "info"))
	return nil
}

// openStore opens and migrates the database, switches logging to the
// configured file output and builds the data manager.
func openStore() (*database.DB, *database.Manager, error) {
	db, err := database.New(dbPath)
	if err != nil {
		return nil, nil, err
	}

	if err := db.Migrate(); err != nil {
		db.Close()
		return nil, nil, fmt.Errorf("failed to run database migrations: %w", err)
	}
	if err := db.InitializeDefaults(); err != nil {
		db.Close()
		return nil, nil, fmt.Errorf("failed to initialize settings: %w", err)
	}

	loader := config.NewLoader(db)
	logging.Apply(levelForVerbosity(verbosity, loader.String("log.level", "info")), loader, logging.FilePathForDB(db.Path()))

	game, err := loadGame()
	if err != nil {
		db.Close()
		return nil, nil, err
	}

	log.Debug().
		Str("database", dbPath).
		Str("game", gameFile).
		Int("levels", game.LevelCount()).
		Msg("Store ready")

	return db, database.NewManager(db, game), nil
}

func loadGame() (*config.Game, error) {
	if gameFile == "" {
		return config.DefaultGame()
	}
	return config.LoadGame(gameFile)
}

func parseUserID(arg string) (int64, error) {
	id, err := strconv.ParseInt(arg, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid user id %q: %w", arg, err)
	}
	return id, nil
}

// levelForVerbosity lets -v/-vv override the configured log level.
func levelForVerbosity(verbosity int, configured string) string {
	switch {
	case verbosity == 1:
		return "debug"
	case verbosity >= 2:
		return "trace"
	default:
		return configured
	}
}

package main

import (
	"context"
	"crypto/rand"
	"encoding/base32"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/DaanHessen/questlog-tui/internal/engine"
	"github.com/DaanHessen/questlog-tui/internal/save"
	"github.com/DaanHessen/questlog-tui/internal/scheduler"
	"github.com/DaanHessen/questlog-tui/internal/session"
	"github.com/DaanHessen/questlog-tui/internal/store"
	"github.com/DaanHessen/questlog-tui/internal/text"
	"github.com/DaanHessen/questlog-tui/internal/ui"
	"github.com/DaanHessen/questlog-tui/internal/util"
)

var (
	version      = "0.1.0"
	seedAlphabet = base32.NewEncoding("abcdefghijklmnopqrstuvwxyz234567").WithPadding(base32.NoPadding)
)

const usage = `questlog [flags] [command]

commands:
  (none)            open the TUI
  version           print the version
  migrate up|down   apply or roll back the PostgreSQL schema
  export <file>     write the save as JSON ("-" for stdout)
  import <file>     replace the save with a JSON export
  rollover          run the day transition if a new day started
  report [days]     print the profile and the ledger
  saves             list save slots

flags:
`

func main() {
	// Load .env file if it exists (ignore error if file doesn't exist)
	_ = godotenv.Load()
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	cfg, err := util.LoadConfig()
	if err != nil {
		return err
	}
	configPath := flag.String("config", cfg.SettingsPath, "settings file (YAML)")
	driver := flag.String("driver", "", "store driver: sqlite|postgres")
	dsn := flag.String("dsn", "", "database DSN (sqlite path or PostgreSQL URL)")
	slot := flag.String("slot", "", "save slot")
	seedFlag := flag.String("seed", cfg.Seed, "seed string (random if omitted)")
	theme := flag.String("theme", "", "colour theme")
	debug := flag.Bool("debug", false, "debug logging and debug keys")
	flag.Usage = func() {
		fmt.Fprint(os.Stderr, usage)
		flag.PrintDefaults()
	}
	flag.Parse()

	settings, err := util.LoadSettings(*configPath)
	if err != nil {
		return err
	}
	cfg.Apply(&settings)
	if *driver != "" {
		settings.Store.Driver = *driver
	}
	if *dsn != "" {
		settings.Store.DSN = *dsn
	}
	if *slot != "" {
		settings.Store.Slot = *slot
	}
	if *theme != "" {
		settings.UI.Theme = *theme
	}
	if *debug {
		settings.Log.Debug = true
	}

	args := flag.Args()
	if len(args) > 0 && args[0] == "version" {
		fmt.Println("questlog", version)
		return nil
	}

	logger, err := newLogger(settings.Log)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer func() { _ = logger.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if len(args) > 0 && args[0] == "migrate" {
		if err := migrate(ctx, settings.Store, args[1:]); err != nil {
			return err
		}
		fmt.Println("Migrations", args[1], "done")
		return nil
	}

	if settings.Store.Driver == store.DriverPostgres {
		// Ensure migrations are present and applied before opening the store
		if err := migrate(ctx, settings.Store, []string{"up"}); err != nil {
			return err
		}
	}
	db, err := store.Open(ctx, store.Options{Driver: settings.Store.Driver, DSN: settings.Store.DSN, Logger: logger})
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	saves := store.NewSaveRepo(db)
	if len(args) > 0 && args[0] == "saves" {
		return listSaves(ctx, saves, store.NewLedgerRepo(db))
	}

	seedText := strings.TrimSpace(*seedFlag)
	if seedText == "" {
		if seedText, err = generateSeed(); err != nil {
			return fmt.Errorf("failed to generate seed: %w", err)
		}
	}
	seed, err := engine.NewSeed(seedText)
	if err != nil {
		return err
	}
	logger.Info("starting",
		zap.String("version", version),
		zap.String("driver", db.Driver()),
		zap.String("slot", settings.Store.Slot),
		zap.String("seed", seedText))

	sched := scheduler.New(logger, time.Local)
	defer sched.Stop()
	notifier := ui.NewNotifier()
	sess, err := session.Open(ctx, session.Options{
		Engine:    engine.New(settings.Rules),
		Store:     saves,
		Scheduler: sched,
		Logger:    logger,
		Seed:      seed,
		Slot:      settings.Store.Slot,
		Debounce:  settings.Save.Debounce,
		MaxWait:   settings.Save.MaxWait,
		OnSaved:   notifier.Saved,
	})
	if err != nil {
		return err
	}
	defer func() {
		if err := sess.Flush(); err != nil {
			logger.Error("final save failed", zap.Error(err))
		}
	}()

	ledger := text.WithFallback(store.NewLedgerRepo(db).ForSlot(settings.Store.Slot), text.FromStats(sess.State().Stats))
	if len(args) > 0 {
		return subcommand(ctx, sess, ledger, args)
	}

	sess.CheckRollover()
	if err := sess.ScheduleRollover(notifier.RolledOver); err != nil {
		return err
	}
	return ui.Run(ctx, sess, ui.Options{
		Theme:     settings.UI.Theme,
		Debug:     settings.Log.Debug,
		Ledger:    ledger,
		Notifier:  notifier,
		ExportDir: ".",
	})
}

func subcommand(ctx context.Context, sess *session.Session, ledger text.LedgerSource, args []string) error {
	switch args[0] {
	case "export":
		if len(args) < 2 {
			return errors.New("export requires a file name")
		}
		return exportTo(args[1], sess.State())
	case "import":
		if len(args) < 2 {
			return errors.New("import requires a file name")
		}
		f, err := os.Open(args[1])
		if err != nil {
			return err
		}
		defer f.Close()
		doc, err := save.Read(f, time.Now())
		if err != nil {
			return err
		}
		if res := sess.Dispatch(engine.ImportData{Document: doc}); !res.Accepted() {
			return res.Rejection
		}
		fmt.Println("Imported", args[1])
		return sess.Flush()
	case "rollover":
		if sess.CheckRollover() {
			fmt.Println("Day transition done for", sess.State().LastProcessedDate)
		} else {
			fmt.Println("Already up to date")
		}
		return sess.Flush()
	case "report":
		days := 7
		if len(args) > 1 {
			n, err := strconv.Atoi(args[1])
			if err != nil || n <= 0 {
				return fmt.Errorf("bad day count %q", args[1])
			}
			days = n
		}
		st := sess.State()
		md, err := text.LedgerReport(ctx, ledger, time.Now(), days)
		if err != nil {
			return err
		}
		out, err := text.Render(text.ProfileReport(st)+"\n"+md+"\n"+text.BoardReport(st, sess.Rules()), 80)
		if err != nil {
			return err
		}
		fmt.Print(out)
		return nil
	default:
		flag.Usage()
		return fmt.Errorf("unknown command %q", args[0])
	}
}

func exportTo(path string, st engine.State) error {
	var w io.Writer = os.Stdout
	if path != "-" {
		f, err := os.Create(path)
		if err != nil {
			return err
		}
		defer f.Close()
		w = f
	}
	return save.Encode(w, st, time.Now())
}

func migrate(ctx context.Context, s util.StoreSettings, args []string) error {
	if len(args) < 1 {
		return errors.New("migrate requires 'up' or 'down'")
	}
	if s.Driver != store.DriverPostgres {
		return errors.New("migrations are only used with the postgres driver; sqlite creates its schema on open")
	}
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()
	migrator, err := store.NewMigrator(s.DSN)
	if err != nil {
		return err
	}
	switch args[0] {
	case "up":
		if err := migrator.Up(ctx); err != nil && !errors.Is(err, store.ErrNoChange) {
			return fmt.Errorf("migrations failed: %w", err)
		}
	case "down":
		if err := migrator.Down(ctx); err != nil && !errors.Is(err, store.ErrNoChange) {
			return fmt.Errorf("rollback failed: %w", err)
		}
	default:
		return errors.New("unknown migrate action; use up|down")
	}
	return nil
}

func listSaves(ctx context.Context, saves *store.SaveRepo, ledger *store.LedgerRepo) error {
	list, err := saves.List(ctx)
	if err != nil {
		return err
	}
	if len(list) == 0 {
		fmt.Println("No saves yet")
		return nil
	}
	for _, s := range list {
		total, err := ledger.Totals(ctx, s.Slot)
		if err != nil {
			return err
		}
		fmt.Printf("%-12s %-16s level %-3d %sg  %s XP earned, %s done  %s\n",
			s.Slot, s.Hero, s.Level, text.Num(s.Gold), text.Num(total.XP), text.Num(total.Completed),
			s.UpdatedAt.Local().Format(time.DateTime))
	}
	return nil
}

// newLogger writes to the log file; the TUI owns the terminal.
func newLogger(s util.LogSettings) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	if s.Debug {
		cfg = zap.NewDevelopmentConfig()
	}
	path := s.Path
	if path == "" {
		path = "questlog.log"
	}
	cfg.OutputPaths = []string{path}
	cfg.ErrorOutputPaths = []string{path}
	return cfg.Build()
}

func generateSeed() (string, error) {
	buf := make([]byte, 15) // 24 characters base32
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return strings.ToLower(seedAlphabet.EncodeToString(buf)), nil
}

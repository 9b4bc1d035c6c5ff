package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/rs/zerolog"
	"github.com/spf13/pflag"

	"github.com/sadopc/plantcare/internal/config"
	"github.com/sadopc/plantcare/internal/export"
	"github.com/sadopc/plantcare/internal/logging"
	"github.com/sadopc/plantcare/internal/registry"
	"github.com/sadopc/plantcare/internal/store"
	"github.com/sadopc/plantcare/internal/tui"
	"github.com/sadopc/plantcare/internal/view"
	"github.com/sadopc/plantcare/internal/web"
)

const usage = `Usage: plantcare [flags] [command]

Commands:
  tui             open the terminal UI (default)
  serve           serve the browser UI and JSON API
  export <file>   write the collection to <file> (.json or .csv)
  import <file>   replace the collection with a JSON export
  clear           delete every plant

Flags:
`

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	flags := pflag.NewFlagSet("plantcare", pflag.ContinueOnError)
	configPath := flags.StringP("config", "c", "", "config file (default ~/.config/plantcare/config.yaml)")
	yes := flags.BoolP("yes", "y", false, "clear without asking for confirmation")
	flags.Usage = func() {
		fmt.Fprint(os.Stderr, usage)
		flags.PrintDefaults()
	}
	if err := flags.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return nil
		}
		return err
	}

	cmd, rest := "tui", flags.Args()
	if len(rest) > 0 {
		cmd, rest = rest[0], rest[1:]
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		return err
	}

	switch cmd {
	case "tui":
		return runTUI(cfg)
	case "serve":
		return runServe(cfg)
	case "export":
		if len(rest) != 1 {
			return errors.New("export needs exactly one file argument")
		}
		return runExport(cfg, rest[0])
	case "import":
		if len(rest) != 1 {
			return errors.New("import needs exactly one file argument")
		}
		return runImport(cfg, rest[0])
	case "clear":
		return runClear(cfg, *yes)
	default:
		flags.Usage()
		return fmt.Errorf("unknown command %q", cmd)
	}
}

// open connects the database and loads the collection.
func open(cfg *config.Config, log zerolog.Logger) (*store.Store, *registry.Registry, error) {
	s, err := store.New(cfg.Storage.DBPath)
	if err != nil {
		return nil, nil, fmt.Errorf("opening database: %w", err)
	}
	doc := store.NewPlantDocument(s, cfg.Storage.PlantsKey, log)
	reg := registry.New(doc, log, registry.WithMaxPhotoBytes(cfg.Photo.MaxBytes))
	return s, reg, nil
}

func runTUI(cfg *config.Config) error {
	log, logFile, err := logging.File(cfg.Log.File, cfg.Log.Level)
	if err != nil {
		return err
	}
	defer logFile.Close()

	s, reg, err := open(cfg, log)
	if err != nil {
		return err
	}
	defer s.Close()

	app := tui.NewApp(reg, s, log, tui.Options{MaxPhotoBytes: cfg.Photo.MaxBytes})
	p := tea.NewProgram(app, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return err
	}
	return nil
}

func runServe(cfg *config.Config) error {
	log, err := logging.Console(cfg.Log.Level)
	if err != nil {
		return err
	}

	s, reg, err := open(cfg, log)
	if err != nil {
		return err
	}
	defer s.Close()

	handler, err := web.NewHandler(reg, s, log, web.Options{
		MaxPhotoBytes: cfg.Photo.MaxBytes,
		Metrics:       web.NewMetrics(cfg.Web.Metrics),
		CSRF:          true,
	})
	if err != nil {
		return fmt.Errorf("handler init failed: %w", err)
	}
	app := web.NewApp(handler)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	log.Info().
		Str("addr", "http://"+cfg.Addr()).
		Str("db", cfg.Storage.DBPath).
		Bool("metrics", cfg.Web.Metrics).
		Msg("plantcare listening")
	if err := web.Serve(ctx, app, cfg.Addr(), cfg.Web.ShutdownTimeout); err != nil {
		return err
	}
	log.Info().Msg("server stopped")
	return nil
}

func runExport(cfg *config.Config, path string) error {
	log, err := logging.Console(cfg.Log.Level)
	if err != nil {
		return err
	}
	s, reg, err := open(cfg, log)
	if err != nil {
		return err
	}
	defer s.Close()

	plants := reg.Plants()
	if strings.EqualFold(filepath.Ext(path), ".csv") {
		err = export.ToCSV(plants, time.Now(), path)
	} else {
		err = export.ToJSON(plants, path)
	}
	if err != nil {
		return err
	}
	fmt.Println(view.Exported(path).Message)
	return nil
}

func runImport(cfg *config.Config, path string) error {
	log, err := logging.Console(cfg.Log.Level)
	if err != nil {
		return err
	}
	data, err := export.ReadFile(path)
	if err != nil {
		return err
	}

	s, reg, err := open(cfg, log)
	if err != nil {
		return err
	}
	defer s.Close()

	if err := reg.Import(data); err != nil {
		return err
	}
	fmt.Println(view.Imported(reg.Len()).Message)
	return nil
}

func runClear(cfg *config.Config, yes bool) error {
	if !yes {
		confirmed := false
		err := huh.NewConfirm().
			Title("Delete all plant data?").
			Description("This cannot be undone.").
			Affirmative("Delete").
			Negative("Cancel").
			Value(&confirmed).
			Run()
		if err != nil {
			return err
		}
		if !confirmed {
			fmt.Println("Nothing was deleted.")
			return nil
		}
	}

	log, err := logging.Console(cfg.Log.Level)
	if err != nil {
		return err
	}
	s, reg, err := open(cfg, log)
	if err != nil {
		return err
	}
	defer s.Close()

	if err := reg.Clear(); err != nil {
		return err
	}
	fmt.Println(view.Cleared().Message)
	return nil
}

package main

import (
	"database/sql"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/urfave/cli/v3"

	"github.com/tomasvidal/trackseek/internal/repositories"
	"github.com/tomasvidal/trackseek/internal/resolver"
	"github.com/tomasvidal/trackseek/internal/services"
	"github.com/tomasvidal/trackseek/internal/shared"
	"github.com/tomasvidal/trackseek/internal/tasks"
)

// Runner holds all dependencies for CLI commands and provides methods for each command action.
type Runner struct {
	config   *shared.Config
	catalog  services.CatalogService
	search   services.SearchService
	resolver *resolver.Resolver
	engine   *tasks.ResolveEngine
	logger   *log.Logger
	output   io.Writer
	db       *sql.DB
}

// RunnerOpts contains configuration options for creating a Runner.
type RunnerOpts struct {
	Config  *shared.Config
	Catalog services.CatalogService
	Search  services.SearchService
	Logger  *log.Logger
	Output  io.Writer
}

// NewRunner creates a new Runner with the provided configuration
func NewRunner(opts RunnerOpts) *Runner {
	if opts.Config == nil {
		opts.Config = shared.DefaultConfig()
	}
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}
	if opts.Output == nil {
		opts.Output = os.Stdout
	}

	res := resolver.New(opts.Search, opts.Config.Resolver, opts.Logger)

	return &Runner{
		config:   opts.Config,
		catalog:  opts.Catalog,
		search:   opts.Search,
		resolver: res,
		engine:   tasks.NewResolveEngine(opts.Catalog, res, opts.Logger),
		logger:   opts.Logger,
		output:   opts.Output,
	}
}

func (r *Runner) register() []*cli.Command {
	commands := []*cli.Command{}
	for _, fn := range [](func(*Runner) *cli.Command){
		setupCommand, resolveCommand, cacheCommand, serveCommand, tuiCommand,
	} {
		commands = append(commands, fn(r))
	}

	return commands
}

// SetLogger swaps the runner's logger and propagates it to the engine.
func (r *Runner) SetLogger(logger *log.Logger) {
	r.logger = logger
}

// openStore lazily opens the configured database and returns its repositories.
func (r *Runner) openStore() (*repositories.ResolutionRepository, *repositories.JobRepository, error) {
	if r.db == nil {
		db, err := shared.NewDatabase(r.config.Database.Path)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open database: %w", err)
		}
		shared.ConfigureDatabase(db, r.config.Database.MaxOpenConns, r.config.Database.MaxIdleConns)
		r.db = db
	}

	return repositories.NewResolutionRepository(r.db), repositories.NewJobRepository(r.db), nil
}

// Close releases the runner's database handle, if one was opened.
func (r *Runner) Close() {
	if r.db != nil {
		r.db.Close()
		r.db = nil
	}
}

func (r *Runner) writeJSON(data any, pretty bool) error {
	output, err := shared.MarshalJSON(data, pretty)
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}

	if _, err := r.output.Write(output); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}

	if _, err := r.output.Write([]byte("\n")); err != nil {
		return fmt.Errorf("failed to write newline: %w", err)
	}

	return nil
}

func (r *Runner) writePlain(format string, args ...any) error {
	text := fmt.Sprintf(format, args...)
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *Runner) writePlainln(format string, args ...any) error {
	text := "\n" + fmt.Sprintf(format, args...) + "\n"
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *Runner) writePlainHeader(title string) {
	r.writePlain("═══════════════════════════════════════\n")
	r.writePlain("%v\n", title)
	r.writePlain("═══════════════════════════════════════\n")
}

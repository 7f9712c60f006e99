package main

import (
	"log"

	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"

	"diffexpr/adapters/postgres"
	"diffexpr/adapters/tabular"
	"diffexpr/app"
	"diffexpr/domain/expr"
	"diffexpr/internal/analysis"
	"diffexpr/internal/config"
	"diffexpr/internal/errors"
	"diffexpr/internal/testkit"
	"diffexpr/ports"
	"diffexpr/ui"
)

// initDatabase connects to PostgreSQL and ensures the run schema exists.
func initDatabase(url string) (*sqlx.DB, error) {
	db, err := sqlx.Connect("postgres", url)
	if err != nil {
		return nil, errors.Wrap(err, "failed to connect to database")
	}
	if err := db.Ping(); err != nil {
		return nil, errors.Wrap(err, "failed to ping database")
	}
	if err := postgres.EnsureSchema(db); err != nil {
		return nil, err
	}
	return db, nil
}

// countsReader opens a fresh reader per counts file, so one server can handle
// both CSV and Excel inputs across requests.
type countsReader struct{}

func (countsReader) ReadCounts(path string) (*expr.Matrix, error) {
	return tabular.NewDataReader(path).ReadCounts(path)
}

func main() {
	// A missing .env file is fine; the environment may be set directly.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("configuration error: %v", err)
	}

	var repo ports.RunRepository
	if cfg.Database.URL != "" {
		db, err := initDatabase(cfg.Database.URL)
		if err != nil {
			log.Fatalf("database error: %v", err)
		}
		defer db.Close()
		repo = postgres.NewRunRepository(db)
	} else {
		log.Println("DATABASE_URL not set, keeping runs in memory")
		repo = testkit.NewInMemoryRunRepository()
	}

	pipeline := app.NewPipelineService(
		app.NewNormalizeService(countsReader{}),
		app.NewDiffExpService(analysis.NewEngine(cfg.Engine.Workers), repo),
		app.NewActionableService(),
		cfg.Report,
	)

	httpApp := ui.NewApp(repo, pipeline)
	if err := httpApp.Start(ui.Config{Port: cfg.Server.Port}); err != nil {
		log.Fatalf("server error: %v", err)
	}
}

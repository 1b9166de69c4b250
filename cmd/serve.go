package cmd

import (
	"database/sql"
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/robalobadob/memorygame/internal/db"
	"github.com/robalobadob/memorygame/internal/deck"
	"github.com/robalobadob/memorygame/internal/httpserver"
	"github.com/robalobadob/memorygame/internal/store"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server (default)",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe()
	},
}

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply database migrations and exit",
	RunE: func(cmd *cobra.Command, args []string) error {
		sqlDB, err := db.OpenMigrated(cfg.DBPath)
		if err != nil {
			return err
		}
		log.Info().Str("db", cfg.DBPath).Msg("migrations applied")
		return sqlDB.Close()
	},
}

func runServe() error {
	dk, err := deck.Load(cfg.DeckFile)
	if err != nil {
		return fmt.Errorf("load deck: %w", err)
	}
	log.Info().Strs("pools", dk.Names()).Msg("deck loaded")

	sqlDB, err := db.OpenMigrated(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("open db: %w", err)
	}
	defer sqlDB.Close()

	st, err := sessionStore(cfg.Store, sqlDB)
	if err != nil {
		return err
	}

	srv := httpserver.New(cfg, st, sqlDB, dk)
	log.Info().Str("port", cfg.Port).Str("store", cfg.Store).Msg("starting memory server")
	return srv.Start(":" + cfg.Port)
}

// sessionStore picks the board session backend named by STORE.
func sessionStore(kind string, sqlDB *sql.DB) (store.Store, error) {
	switch kind {
	case "", "memory":
		return store.NewMemoryStore(), nil
	case "sqlite":
		return store.NewSQLStore(sqlDB), nil
	}
	return nil, fmt.Errorf("unknown STORE %q (want memory or sqlite)", kind)
}

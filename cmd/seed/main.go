// Command seed loads the bundled movie fixtures into the redis or mysql
// movie source.
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/spf13/pflag"

	"github.com/iliyamo/moviex-storefront/internal/config"
	"github.com/iliyamo/moviex-storefront/internal/database"
	"github.com/iliyamo/moviex-storefront/internal/fixtures"
	"github.com/iliyamo/moviex-storefront/internal/model"
	"github.com/iliyamo/moviex-storefront/internal/repository"
)

func main() {
	target := pflag.StringP("target", "t", config.SourceRedis, "where to load movies: redis or mysql")
	dryRun := pflag.Bool("dry-run", false, "print the movies without writing them")
	envFile := pflag.String("env-file", ".env", "dotenv file to read before the environment")
	pflag.Parse()

	config.LoadDotEnv(*envFile)
	movies, err := fixtures.Movies()
	if err != nil {
		log.Fatalf("fixtures: %v", err)
	}
	if *dryRun {
		for _, m := range movies {
			fmt.Printf("%s\t%s\t%s\n", m.ID, m.Status, m.Title)
		}
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := seed(ctx, *target, movies); err != nil {
		log.Printf("seed %s: %v", *target, err)
		os.Exit(1)
	}
	log.Printf("seeded %d movies into %s", len(movies), *target)
}

func seed(ctx context.Context, target string, movies []model.Movie) error {
	switch target {
	case config.SourceRedis:
		rdb := config.NewRedisClient()
		if rdb == nil {
			return fmt.Errorf("redis is not reachable")
		}
		defer rdb.Close()
		return repository.NewRedisSource(rdb, repository.MoviesPath).Replace(ctx, movies)

	case config.SourceMySQL:
		cfg, err := config.Load()
		if err != nil {
			return err
		}
		db, err := database.Open(database.Settings{
			User: cfg.DBUser, Pass: cfg.DBPass, Host: cfg.DBHost, Port: cfg.DBPort, Name: cfg.DBName,
		})
		if err != nil {
			return err
		}
		defer db.Close()
		if err := database.EnsureSchema(ctx, db); err != nil {
			return err
		}
		src := repository.NewSQLSource(db, 0)
		for _, m := range movies {
			if err := src.Put(ctx, m); err != nil {
				return fmt.Errorf("put %s: %w", m.ID, err)
			}
		}
		return nil
	}
	return fmt.Errorf("unknown target %q (want redis or mysql)", target)
}

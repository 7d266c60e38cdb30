package main

import (
	"context"
	"encoding/json"
	"io"

	"github.com/azoom-yongrok-choi/dummyMCP/internal/ask"
	"github.com/azoom-yongrok-choi/dummyMCP/internal/db"
	"github.com/azoom-yongrok-choi/dummyMCP/internal/schema"
	anthropicpkg "github.com/azoom-yongrok-choi/dummyMCP/pkg/anthropic"
)

// askEnv holds the initialized backend and ask service shared by the
// ask/query/serve commands.
type askEnv struct {
	Service *ask.Service
	closeFn func()
}

// Close releases resources held by the environment.
func (e *askEnv) Close() {
	if e.closeFn != nil {
		e.closeFn()
	}
}

// initAsk wires the configured backend and model client into an ask.Service.
// Callers should defer env.Close(). needModel/needStore let dry-run and
// filter-only commands skip collaborators they never call.
func initAsk(ctx context.Context, needModel, needStore bool) (*askEnv, error) {
	var needs []string
	if needModel {
		needs = append(needs, "anthropic")
	}
	if needStore {
		needs = append(needs, "store")
	}
	if err := cfg.Validate(needs...); err != nil {
		return nil, err
	}

	var (
		exec    ask.Executor
		closeFn func()
	)
	if needStore {
		var err error
		exec, closeFn, err = initExecutor(ctx)
		if err != nil {
			return nil, err
		}
	}

	var gen ask.Generator
	if needModel {
		client := anthropicpkg.NewClient(cfg.Anthropic.Key)
		gen = anthropicpkg.NewGenerator(client, cfg.Anthropic.Model, cfg.Anthropic.MaxTokens)
	}

	svc := ask.New(gen, exec, schema.CovidOpenData(), cfg.Query.Table, cfg.Query.DefaultLimit, cfg.Query.MaxLimit)
	return &askEnv{Service: svc, closeFn: closeFn}, nil
}

// initExecutor opens the backend selected by store.driver.
func initExecutor(ctx context.Context) (ask.Executor, func(), error) {
	switch cfg.Store.Driver {
	case "sqlite":
		ex, err := db.NewSQLite(cfg.Store.DatabaseURL)
		if err != nil {
			return nil, nil, err
		}
		if err := ex.Migrate(ctx, cfg.Query.Table); err != nil {
			_ = ex.Close()
			return nil, nil, err
		}
		return ex, func() { _ = ex.Close() }, nil
	default:
		pool, err := db.NewPool(ctx, cfg.Store.DatabaseURL, nil)
		if err != nil {
			return nil, nil, err
		}
		return db.NewPostgresExecutor(pool), pool.Close, nil
	}
}

// printJSON writes v as indented JSON.
func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

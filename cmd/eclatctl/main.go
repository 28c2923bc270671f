package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/eclatdining/eclat-api/internal/admins"
	"github.com/eclatdining/eclat-api/internal/config"
	"github.com/eclatdining/eclat-api/internal/database"
	"github.com/eclatdining/eclat-api/internal/schema"
	"github.com/eclatdining/eclat-api/internal/store"
	"github.com/eclatdining/eclat-api/pkg/logger"
	"github.com/redis/go-redis/v9"
	"gopkg.in/yaml.v3"
)

const usage = `usage: eclatctl <command> [flags]

commands:
  import-menu  -file menu.yaml      insert menu items from a YAML or JSON file
  create-admin -email E -password P [-role admin|editor|viewer]
`

func main() {
	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}
	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Fatalf("failed to load config: %v", err)
	}
	logger.Init(cfg.LogLevel)

	ctx := context.Background()
	switch os.Args[1] {
	case "import-menu":
		err = importMenu(ctx, cfg, os.Args[2:])
	case "create-admin":
		err = createAdmin(ctx, cfg, os.Args[2:])
	default:
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}
	if err != nil {
		logger.Fatalf("%s: %v", os.Args[1], err)
	}
}

func importMenu(ctx context.Context, cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("import-menu", flag.ExitOnError)
	file := fs.String("file", "", "YAML or JSON file with menu items")
	_ = fs.Parse(args)
	if *file == "" {
		return errors.New("-file is required")
	}
	raw, err := os.ReadFile(*file)
	if err != nil {
		return err
	}
	items, err := parseMenu(raw)
	if err != nil {
		return err
	}
	s, closeFn, err := connect(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeFn()
	n, err := insertMenu(ctx, s, items)
	if err != nil {
		return err
	}
	logger.Infof("Imported %d menu items", n)
	return nil
}

func insertMenu(ctx context.Context, s store.Store, items []schema.MenuItem) (int, error) {
	docs := make([]any, 0, len(items))
	for _, it := range items {
		docs = append(docs, it)
	}
	return s.CreateDocuments(ctx, schema.KindMenuItem.Collection(), docs)
}

// parseMenu accepts either a bare list of items or a document with an items
// key. JSON input is read through the same YAML decoder.
func parseMenu(raw []byte) ([]schema.MenuItem, error) {
	var doc any
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("parse menu file: %w", err)
	}
	if list, ok := doc.([]any); ok {
		doc = map[string]any{"items": list}
	}
	body, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("parse menu file: %w", err)
	}
	res := schema.Decode[schema.MenuImport](body)
	if !res.OK() {
		for _, fe := range res.Errors {
			logger.Errorf("invalid menu item: %s: %s", fe.Field, fe.Message)
		}
		return nil, fmt.Errorf("%d validation errors", len(res.Errors))
	}
	return res.Value.Items, nil
}

func createAdmin(ctx context.Context, cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("create-admin", flag.ExitOnError)
	email := fs.String("email", "", "admin email")
	password := fs.String("password", "", "admin password")
	role := fs.String("role", schema.RoleAdmin, "admin, editor or viewer")
	_ = fs.Parse(args)
	if *email == "" || *password == "" {
		return errors.New("-email and -password are required")
	}
	s, closeFn, err := connect(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeFn()
	ref, err := admins.NewService(s).Create(ctx, *email, *password, *role)
	if err != nil {
		return err
	}
	logger.Infof("created %s %s (%s)", *role, *email, ref)
	return nil
}

// connect opens the configured Mongo database. When Redis is configured the
// store is wrapped in the same content cache the API uses, so writes made
// here bump the cache version and a running API serves them right away.
func connect(ctx context.Context, cfg *config.Config) (store.Store, func(), error) {
	if cfg.Database.URL == "" || cfg.Database.Name == "" {
		return nil, nil, errors.New("DATABASE_URL and DATABASE_NAME must be set")
	}
	client, err := database.ConnectMongo(ctx, cfg.Database.URL, cfg.Database.Timeout)
	if err != nil {
		return nil, nil, err
	}
	rdb := openCache(ctx, cfg)
	closeFn := func() {
		dctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = client.Disconnect(dctx)
		if rdb != nil {
			_ = rdb.Close()
		}
	}
	return withCache(store.NewMongo(client.Database(cfg.Database.Name)), rdb, cfg.Redis.CacheTTL), closeFn, nil
}

func openCache(ctx context.Context, cfg *config.Config) *redis.Client {
	addr := cfg.RedisAddr()
	if addr == "" {
		return nil
	}
	rdb := redis.NewClient(&redis.Options{Addr: addr, Password: cfg.Redis.Password, DB: cfg.Redis.DB})
	if err := rdb.Ping(ctx).Err(); err != nil {
		logger.Warnf("Redis at %s unreachable, the API may serve cached content for up to %s: %v", addr, cfg.Redis.CacheTTL, err)
		_ = rdb.Close()
		return nil
	}
	return rdb
}

func withCache(s store.Store, rdb *redis.Client, ttl time.Duration) store.Store {
	if rdb == nil {
		return s
	}
	return store.NewCached(s, rdb, ttl, schema.PublicCollections()...)
}

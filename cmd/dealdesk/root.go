package main

import (
	"context"
	"dealdesk/internal/config"
	"dealdesk/internal/dealapi"
	"dealdesk/internal/deals"
	"dealdesk/internal/logger"
	"dealdesk/internal/models"
	"dealdesk/internal/reqcache"
	"fmt"

	"github.com/spf13/cobra"
)

type app struct {
	cfg    *config.Config
	log    *logger.Logger
	client *dealapi.Client
	stores map[models.Role]*deals.Store
	cache  reqcache.Cache

	// renderClient memoizes GETs when api.render_cache is on. Only the
	// render command reads through it.
	renderClient *dealapi.Client
}

var (
	current  *app
	roleFlag string
)

var rootCmd = &cobra.Command{
	Use:           "dealdesk",
	Short:         "Клиент сделок B2B-площадки",
	SilenceUsage:  true,
	SilenceErrors: false,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		current = a
		return nil
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		if current == nil {
			return nil
		}
		if closer, ok := current.cache.(*reqcache.Redis); ok {
			return closer.Close()
		}
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&roleFlag, "role", string(models.RolePurchases), "purchases или sales")
}

func newApp() (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	log := logger.New(logger.Config{
		Level:      cfg.Runtime.Log.Level,
		Format:     cfg.Runtime.Log.Format,
		Output:     cfg.Runtime.Log.File,
		MaxSize:    cfg.Runtime.Log.MaxSize,
		MaxBackups: cfg.Runtime.Log.MaxBackups,
		MaxAge:     cfg.Runtime.Log.MaxAge,
		Compress:   cfg.Runtime.Log.Compress,
	})

	opts := []dealapi.Option{
		dealapi.WithToken(cfg.API.Token),
		dealapi.WithTimeout(cfg.API.Timeout),
		dealapi.WithPhoneRegion(cfg.Company.Region),
	}

	client := dealapi.New(cfg.API.BaseURL, cfg.API.BasePath, log, opts...)
	renderClient := client

	var cache reqcache.Cache
	if cfg.API.RenderCache {
		switch cfg.Cache.Backend {
		case "redis":
			cache = reqcache.NewRedis(cfg.Cache.RedisAddr, cfg.Cache.Password, cfg.Cache.RedisDB, cfg.Cache.TTL)
		default:
			cache = reqcache.NewMemory()
		}
		renderClient = dealapi.New(cfg.API.BaseURL, cfg.API.BasePath, log, append(opts, dealapi.WithRenderCache(cache))...)
	}

	return &app{
		cfg:          cfg,
		log:          log,
		client:       client,
		renderClient: renderClient,
		cache:        cache,
		stores: map[models.Role]*deals.Store{
			models.RolePurchases: deals.New(models.RolePurchases, client, log, cfg.Runtime.Workers),
			models.RoleSales:     deals.New(models.RoleSales, client, log, cfg.Runtime.Workers),
		},
	}, nil
}

func (a *app) store() (*deals.Store, error) {
	store, ok := a.stores[models.Role(roleFlag)]
	if !ok {
		return nil, fmt.Errorf("Неизвестная роль: %s", roleFlag)
	}
	return store, nil
}

// renderStore is a throwaway store for --role reading through the render
// client, with all deals fetched.
func (a *app) renderStore(ctx context.Context) (*deals.Store, error) {
	role := models.Role(roleFlag)
	if _, ok := a.stores[role]; !ok {
		return nil, fmt.Errorf("Неизвестная роль: %s", roleFlag)
	}
	store := deals.New(role, a.renderClient, a.log, a.cfg.Runtime.Workers)
	if _, err := store.LoadAll(ctx); err != nil {
		return nil, err
	}
	return store, nil
}

// loadedStore returns the store for --role with all deals fetched.
func (a *app) loadedStore(ctx context.Context) (*deals.Store, error) {
	store, err := a.store()
	if err != nil {
		return nil, err
	}
	if _, err := store.LoadAll(ctx); err != nil {
		return nil, err
	}
	return store, nil
}

package cli

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v4/pgxpool"
	goredis "github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"

	"dota-picker-service/internal/app"
	"dota-picker-service/internal/config"
	"dota-picker-service/internal/domain"
	"dota-picker-service/internal/infra/memory"
	infrapg "dota-picker-service/internal/infra/postgres"
	infraredis "dota-picker-service/internal/infra/redis"
)

// NewTokenCmd mints an access token for a user.
func NewTokenCmd(configPath *string) *cobra.Command {
	var userID int64
	var ttl string

	cmd := &cobra.Command{
		Use:   "token",
		Short: "Issue an access token for a user",
		RunE: func(cmd *cobra.Command, args []string) error {
			if userID == 0 {
				return fmt.Errorf("--user is required")
			}
			cfg, err := config.Load(*configPath)
			if err != nil {
				return err
			}

			store, cleanup, err := tokenStoreFromConfig(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			defer cleanup()

			tokenTTL := config.TTLDuration(ttl,
				config.TTLDuration(cfg.Token.TTL, domain.DefaultTokenTTL))
			token, err := store.Issue(cmd.Context(), userID, tokenTTL)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), token)
			return nil
		},
	}

	cmd.Flags().Int64Var(&userID, "user", 0, "user ID to issue the token for")
	cmd.Flags().StringVar(&ttl, "ttl", "", "token lifetime (default 24h)")
	return cmd
}

func tokenStoreFromConfig(ctx context.Context, cfg config.Config) (app.TokenStore, func(), error) {
	if cfg.Redis.Addr != "" {
		client := goredis.NewClient(&goredis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		return infraredis.NewTokenStore(client), func() { _ = client.Close() }, nil
	}
	if cfg.Postgres.URL != "" {
		pool, err := pgxpool.Connect(ctx, cfg.Postgres.URL)
		if err != nil {
			return nil, nil, err
		}
		return infrapg.NewTokenStore(pool), pool.Close, nil
	}
	// Without a shared store the token dies with this process; only useful
	// for local experiments.
	return memory.NewTokenStore(), func() {}, nil
}

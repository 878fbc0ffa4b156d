// Command devtoken mints a signed access token for local testing. With -session
// it also registers the token's jti in redis so session-checked deployments accept it.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"

	"github.com/angelmondragon/bazaar-backend/pkg/auth"
	"github.com/angelmondragon/bazaar-backend/pkg/config"
	"github.com/angelmondragon/bazaar-backend/pkg/enums"
	"github.com/angelmondragon/bazaar-backend/pkg/logger"
	"github.com/angelmondragon/bazaar-backend/pkg/redis"
)

func main() {
	_ = godotenv.Load()

	userFlag := flag.String("user", "", "user id (random when empty)")
	roleFlag := flag.String("role", string(enums.UserRoleUser), "user|admin")
	withSession := flag.Bool("session", false, "register the token jti in redis")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		exitf("load config: %v", err)
	}
	logg := logger.New(logger.Options{
		ServiceName: "bazaar-devtoken",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		Output:      os.Stderr,
	})
	ctx := context.Background()

	if cfg.App.IsProd() {
		exitf("devtoken refuses to run with BAZAAR_APP_ENV=%s", cfg.App.Env)
	}

	userID := uuid.New()
	if *userFlag != "" {
		userID, err = uuid.Parse(*userFlag)
		if err != nil {
			exitf("invalid -user: %v", err)
		}
	}
	role, err := enums.ParseUserRole(*roleFlag)
	if err != nil {
		exitf("invalid -role: %v", err)
	}

	jti := uuid.NewString()
	token, err := auth.MintAccessToken(cfg.JWT, time.Now(), auth.AccessTokenPayload{
		UserID: userID,
		Role:   role,
		JTI:    jti,
	})
	if err != nil {
		exitf("mint token: %v", err)
	}

	if *withSession {
		if !cfg.Redis.Enabled() {
			exitf("-session requires redis configuration")
		}
		client, err := redis.New(ctx, cfg.Redis, logg)
		if err != nil {
			exitf("connect redis: %v", err)
		}
		defer client.Close()

		ttl := time.Duration(cfg.JWT.ExpirationMinutes) * time.Minute
		if err := client.Set(ctx, client.AccessSessionKey(jti), userID.String(), ttl); err != nil {
			exitf("register session: %v", err)
		}
	}

	logg.Info(logg.WithFields(ctx, map[string]any{
		"user_id": userID.String(),
		"role":    role.String(),
		"session": *withSession,
	}), "devtoken.minted")
	fmt.Println(token)
}

func exitf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(1)
}

package main

import (
	"context"
	"fmt"

	"github.com/dzahariev/usergate/api"
	"github.com/dzahariev/usergate/auth"
	"github.com/dzahariev/usergate/cfg"
	"github.com/dzahariev/usergate/common"
	"github.com/dzahariev/usergate/idp"
	"github.com/dzahariev/usergate/service"
	"go.uber.org/zap"
)

func main() {
	config, err := cfg.Load()
	if err != nil {
		panic(fmt.Sprintf("Failed to load configuration: %v", err))
	}

	logger, err := common.InitLogger(config.Logger.Level, config.Logger.Format)
	if err != nil {
		panic(fmt.Sprintf("Failed to initialize logger: %v", err))
	}
	defer func() { _ = logger.Sync() }()

	ctx := context.Background()

	authClient, err := initAuthClient(ctx, config)
	if err != nil {
		logger.Fatal("Failed to initialize authentication", zap.Error(err))
	}

	permissions, err := auth.LoadPermissions(config.Auth.PermissionsFile)
	if err != nil {
		logger.Fatal("Failed to load permissions", zap.Error(err))
	}

	users := service.NewUserService(idp.NewClient(&config.Keycloak), config.Keycloak.Realm)
	server := api.NewServer(config.Server, authClient, permissions, users)
	if err := server.Run(ctx); err != nil {
		logger.Fatal("Server failed", zap.Error(err))
	}
}

// initAuthClient builds the caller authentication for the configured mode
func initAuthClient(ctx context.Context, config *cfg.Config) (auth.Client, error) {
	if config.Auth.Mode == cfg.AuthModeOIDC {
		return auth.NewOIDCClient(ctx, &config.Keycloak, config.Auth.Audience)
	}
	return auth.NewClient(&config.Keycloak), nil
}

package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/dzahariev/usergate/auth"
	"github.com/dzahariev/usergate/cfg"
	"github.com/dzahariev/usergate/service"
	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

const (
	USER_RESOURCE = "user"

	READ  = "read"
	WRITE = "write"
)

// Server represent current API server
type Server struct {
	ServerConfig cfg.Server
	Router       *mux.Router
	AuthClient   auth.Client
	Permissions  auth.Permissions
	Users        *service.UserService
}

func NewServer(serverConfig cfg.Server, authClient auth.Client, permissions auth.Permissions, users *service.UserService) *Server {
	// Initialise server instance
	server := &Server{}
	// Keep configuration
	server.ServerConfig = serverConfig
	// Store Auth Client
	server.AuthClient = authClient
	// Initialise roles to permissions mapping
	server.Permissions = permissions
	// Store user facade
	server.Users = users
	// Initialise router and register all routes
	server.initRouter()
	zap.L().Info("Server initialized", zap.String("port", server.ServerConfig.Port), zap.String("realm", users.Realm()))
	return server
}

// initRouter is used to register routes
func (server *Server) initRouter() {
	server.Router = mux.NewRouter()
	server.Router.Use(loggerMiddleware, accessLogMiddleware)

	usersPath := fmt.Sprintf("/%s/users", server.ServerConfig.APIPath)
	// hello must be registered before the {id} route
	server.Router.HandleFunc(usersPath+"/hello", server.Protected(server.Hello, USER_RESOURCE, READ)).Methods(http.MethodGet)
	server.Router.HandleFunc(usersPath, server.Protected(ContentTypeJSON(server.CreateUser), USER_RESOURCE, WRITE)).Methods(http.MethodPost)
	server.Router.HandleFunc(usersPath+"/{id}", server.Protected(ContentTypeJSON(server.GetUser), USER_RESOURCE, READ)).Methods(http.MethodGet)
	// Healthcheck Route
	server.Router.HandleFunc("/healthz", server.Public(ContentTypeJSON(server.Health))).Methods(http.MethodGet)

	err := server.Router.Walk(func(route *mux.Route, router *mux.Router, ancestors []*mux.Route) error {
		path, err := route.GetPathTemplate()
		if err != nil {
			return err
		}
		methods, err := route.GetMethods()
		if err != nil {
			return err
		}
		zap.L().Info("Registered route", zap.String("path", path), zap.Strings("methods", methods))
		return nil
	})
	if err != nil {
		zap.L().Error("Cannot list routes", zap.Error(err))
	}
}

// Run starts the http server and blocks until ctx is done or SIGINT/SIGTERM is received
func (server *Server) Run(ctx context.Context) error {
	addr := fmt.Sprintf("0.0.0.0:%s", server.ServerConfig.Port)
	srv := &http.Server{
		Addr:         addr,
		WriteTimeout: server.ServerConfig.WriteTimeout,
		ReadTimeout:  server.ServerConfig.ReadTimeout,
		IdleTimeout:  server.ServerConfig.IdleTimeout,
		Handler:      server.Router,
	}

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	serveErr := make(chan error, 1)
	go func() {
		zap.L().Info("Listening on port", zap.String("port", server.ServerConfig.Port))
		serveErr <- srv.ListenAndServe()
	}()

	select {
	case err := <-serveErr:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	// Wait for a deadline for termination.
	shutdownCtx, cancel := context.WithTimeout(context.Background(), server.ServerConfig.DeadlineOnInterrupt)
	defer cancel()
	zap.L().Info("Shutting down")
	return srv.Shutdown(shutdownCtx)
}

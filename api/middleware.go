package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/dzahariev/usergate/common"
	"github.com/gofrs/uuid/v5"
	"go.uber.org/zap"
)

var (
	errUnauthenticated = errors.New("unauthorized, missing or invalid bearer token")
	errInternal        = errors.New("internal server error")
)

// Wrapper for public resources
func (server *Server) Public(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		next(w, r)
	}
}

// Wrapper for protected resources; the caller must hold resource.permission
func (server *Server) Protected(next http.HandlerFunc, resource, permission string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		logger := common.GetLogger(ctx)
		// Parse token
		tokenString, err := bearerToken(r)
		if err != nil {
			logger.Error("Unauthorized request", zap.Error(err))
			ERROR(w, http.StatusUnauthorized, errUnauthenticated)
			return
		}
		// Verify token and read the caller
		principal, err := server.AuthClient.Authenticate(ctx, tokenString)
		if err != nil {
			logger.Error("Unauthorized request, invalid token", zap.Error(err))
			ERROR(w, http.StatusUnauthorized, errUnauthenticated)
			return
		}
		// Check permissions
		resourcePermission := fmt.Sprintf("%s.%s", resource, permission)
		if !server.Permissions.Allows(principal.Roles, resourcePermission) {
			logger.Error("Forbidden request, no permission for resource", zap.String("user", principal.Name()), zap.String("permission", resourcePermission))
			ERROR(w, http.StatusForbidden, fmt.Errorf("forbidden, no permission for %s", resourcePermission))
			return
		}
		logger = logger.With(zap.String("user", principal.Name()))
		newCtx := common.WithLogger(common.WithPrincipal(ctx, principal), logger)
		next(w, r.WithContext(newCtx))
	}
}

func bearerToken(r *http.Request) (string, error) {
	authHeader := r.Header.Get("Authorization")
	if len(authHeader) < 7 {
		return "", errors.New("missing or invalid Authorization header")
	}
	authType := strings.ToLower(authHeader[:6])
	if authType != "bearer" {
		return "", fmt.Errorf("invalid Authorization header type %q", authType)
	}
	tokenString := strings.TrimSpace(authHeader[7:])
	if tokenString == "" {
		return "", errors.New("empty bearer token")
	}
	return tokenString, nil
}

// Middleware to add request_id logger into context
func loggerMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		reqID := uuid.Must(uuid.NewV4()).String()
		logger := zap.L().With(zap.String("request_id", reqID))
		ctx := common.WithLogger(r.Context(), logger)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// Middleware to log every request with its status, size and duration
func accessLogMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		lrw := &loggingResponseWriter{ResponseWriter: w, statusCode: http.StatusOK}
		next.ServeHTTP(lrw, r)
		common.GetLogger(r.Context()).Info("Request served",
			zap.String("method", r.Method),
			zap.String("uri", r.RequestURI),
			zap.Int("status", lrw.statusCode),
			zap.Int("size", lrw.size),
			zap.Duration("duration", time.Since(start)),
		)
	})
}

// loggingResponseWriter captures the status and size of the response
type loggingResponseWriter struct {
	http.ResponseWriter
	statusCode int
	size       int
}

func (lrw *loggingResponseWriter) WriteHeader(code int) {
	lrw.statusCode = code
	lrw.ResponseWriter.WriteHeader(code)
}

func (lrw *loggingResponseWriter) Write(b []byte) (int, error) {
	size, err := lrw.ResponseWriter.Write(b)
	lrw.size += size
	return size, err
}

// ContentTypeJSON set the content type to JSON
func ContentTypeJSON(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		next(w, r)
	}
}

// JSON returns data as JSON stream
func JSON(w http.ResponseWriter, statusCode int, data interface{}) {
	if w.Header().Get("Content-Type") == "" {
		w.Header().Set("Content-Type", "application/json")
	}
	w.WriteHeader(statusCode)
	err := json.NewEncoder(w).Encode(data)
	if err != nil {
		fmt.Fprintf(w, "%s", err.Error())
	}
}

// TEXT returns body as plain text
func TEXT(w http.ResponseWriter, statusCode int, body string) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(statusCode)
	fmt.Fprint(w, body)
}

// ERROR returns error as JSON representation
func ERROR(w http.ResponseWriter, statusCode int, err error) {
	if err != nil {
		JSON(w, statusCode, struct {
			Error string `json:"error"`
		}{
			Error: err.Error(),
		})
		return
	}
	JSON(w, http.StatusBadRequest, nil)
}

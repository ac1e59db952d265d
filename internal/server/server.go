package server

import (
	"context"
	"errors"
	"net/http"
	"os"
	"sync"

	"github.com/akolanti/SemanticSearchAPI/internal/adapter/utils"
	"github.com/akolanti/SemanticSearchAPI/internal/config"
	"github.com/akolanti/SemanticSearchAPI/internal/middleware"
	"github.com/akolanti/SemanticSearchAPI/pkg/logger_i"
)

var (
	server  *http.Server
	_logger *logger_i.Logger
)

type ShutdownParams struct {
	GracefulShutdown chan os.Signal
	StopExecution    chan bool
	WorkerStop       chan bool
	Group            *sync.WaitGroup
	CloseServices    context.CancelFunc
}

func CreateServer(listenAddr string, mcpHandler http.Handler) {
	_logger = logger_i.NewLogger("Server")

	r := utils.GetRouter()

	r.Router.Get("/health", middleware.GetHandler)
	r.Router.Get("/models", middleware.ListModelsHandler)

	r.Router.Get("/indexes", middleware.ListIndexesHandler)
	r.Router.Post("/indexes/build", middleware.BuildIndexHandler)
	r.Router.Get("/status/{id}", middleware.GetStatusHandler)

	r.Router.Post("/search", middleware.SearchHandler)
	r.Router.Post("/search/batch", middleware.BatchSearchHandler)
	r.Router.Get("/search/history", middleware.GetHistoryHandler)

	r.Router.Post("/dataset/upload", middleware.UploadDatasetHandler)
	r.Router.Get("/dataset/list", middleware.ListDatasetHandler)
	r.Router.Get("/dataset/stats", middleware.DatasetStatsHandler)
	r.Router.Get("/dataset/{filename}", middleware.GetDocumentHandler)
	r.Router.Delete("/dataset/{filename}", middleware.DeleteDocumentHandler)

	//the MCP transport carries its own framing, it mounts unwrapped
	r.Router.Handle("/mcp", mcpHandler)

	server = &http.Server{
		Addr:         listenAddr,
		Handler:      r.Router,
		ReadTimeout:  config.ReadTimeout,
		WriteTimeout: config.WriteTimeout,
		IdleTimeout:  config.IdleTimeout,
	}

	_logger.Info("Server is listening at", "address", listenAddr)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		_logger.Error("Server crashed", "error :", err.Error(), "addr", listenAddr)
	}
}

func ShutDownHandler(shutdownParams ShutdownParams) {
	state := <-shutdownParams.GracefulShutdown
	println("\nServer is shutting down", state)

	ctx, cancel := context.WithTimeout(context.Background(), config.ShutdownContextTimeout)
	defer cancel()

	done := make(chan struct{})

	go func() {
		server.SetKeepAlivesEnabled(false)

		if err := server.Shutdown(ctx); err != nil {
			_logger.Error("Could not shutdown gracefully: %s", err)
		}

		//close workers
		close(shutdownParams.WorkerStop)
		shutdownParams.Group.Wait()
		shutdownParams.CloseServices()
		close(shutdownParams.StopExecution)
		close(done)
	}()

	select {
	case <-done:
		_logger.Info("Gracefully is shutting down")
	case <-ctx.Done():
		_logger.Info("Force Shut down")
		os.Exit(1)
	}
}

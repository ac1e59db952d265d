// @title           Semantic Search API
// @version         1.0
// @description     Semantic search over uploaded documents with pluggable embedding models and vector index backends
// @termsOfService  http://swagger.io/terms/

// @contact.name    me lol
// @contact.url
// @contact.email

// @license.name    Apache 2.0
// @license.url     http://www.apache.org/licenses/LICENSE-2.0.html

// @host      localhost:3000
// @BasePath  /
// @schemes   http https
package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/akolanti/SemanticSearchAPI/internal/config"
	"github.com/akolanti/SemanticSearchAPI/internal/data/store"
	"github.com/akolanti/SemanticSearchAPI/internal/documents"
	jobmodel "github.com/akolanti/SemanticSearchAPI/internal/domain/jobModel"
	"github.com/akolanti/SemanticSearchAPI/internal/domain/searchModel"
	"github.com/akolanti/SemanticSearchAPI/internal/handlers"
	"github.com/akolanti/SemanticSearchAPI/internal/job"
	"github.com/akolanti/SemanticSearchAPI/internal/mcpServer"
	"github.com/akolanti/SemanticSearchAPI/internal/search/chunker"
	"github.com/akolanti/SemanticSearchAPI/internal/search/embedding"
	"github.com/akolanti/SemanticSearchAPI/internal/search/embedding/factory"
	"github.com/akolanti/SemanticSearchAPI/internal/search/queryEngine"
	"github.com/akolanti/SemanticSearchAPI/internal/search/registry"
	"github.com/akolanti/SemanticSearchAPI/internal/server"
	"github.com/akolanti/SemanticSearchAPI/internal/worker"
	"github.com/akolanti/SemanticSearchAPI/pkg/logger_i"
)

var (
	listenAddr        string
	dataDir           string
	vectorStoreDir    string
	requestCount      int64
	stopWorkerChannel chan bool
	workerWaitGroup   sync.WaitGroup
)

func main() {

	logger_i.Init()
	var logger = logger_i.NewLogger("main")

	//config
	flag.StringVar(&listenAddr, "listen-addr", config.ServerListenAddr, "server listen address")
	flag.StringVar(&dataDir, "data-dir", config.DataDir, "directory holding uploaded documents")
	flag.StringVar(&vectorStoreDir, "vector-store-dir", config.VectorStoreDir, "directory holding persisted indices")
	flag.Parse()

	//init buffered job channel
	jobChannel := make(chan jobmodel.Job, config.BufferLimit)
	dispatcherChannel := make(chan bool, 1)
	stopWorkerChannel = make(chan bool, 1)

	serviceContext, closeExternalServices := context.WithCancel(context.Background())
	defer closeExternalServices()

	//init job service and stores, redis first with in-memory fallback
	var jobStore jobmodel.JobStore
	if redisJobStore := store.GetRedisJobStore(serviceContext); redisJobStore != nil {
		jobStore = redisJobStore
	} else {
		logger.Error("Redis job store is offline, falling back to in-memory")
		jobStore = store.InitInMemoryJobStore()
	}
	var historyStore searchModel.HistoryStore
	if redisHistoryStore := store.GetRedisHistoryStore(serviceContext); redisHistoryStore != nil {
		historyStore = redisHistoryStore
	} else {
		logger.Error("Redis history store is offline, falling back to in-memory")
		historyStore = store.InitHistoryStore()
	}

	logger.Info("Starting job service")
	service := job.InitJobService(job.ServiceConfig{
		JobChannel:        jobChannel,
		RequestCount:      requestCount,
		DispatcherChannel: dispatcherChannel,
		JobStore:          jobStore,
		HistoryStore:      historyStore,
	})

	//search pipeline
	documentStore, err := documents.NewStore(dataDir)
	if err != nil {
		logger.Error("Could not open the document store. Shutting down.", "error", err)
		return
	}
	embedders := embedding.NewManager(serviceContext, factory.New)
	indexRegistry := registry.New(serviceContext, documentStore, embedders, vectorStoreDir, chunker.Config{
		ChunkSize: config.ChunkSize,
		Overlap:   config.ChunkOverlap,
	})
	engine := queryEngine.New(indexRegistry, embedders)

	handlers.InitHandlers(handlers.Services{
		JobService: service,
		Engine:     engine,
		Registry:   indexRegistry,
		Documents:  documentStore,
		History:    historyStore,
	})

	//init worker pool
	worker.InitServices(service, indexRegistry)
	worker.InitWorkerPool(stopWorkerChannel, &workerWaitGroup)

	mcp := mcpServer.NewServer(engine, indexRegistry)

	//server handling
	gracefulShutdown := make(chan os.Signal, 1)
	signal.Notify(gracefulShutdown, syscall.SIGINT, syscall.SIGTERM)
	stopExecution := make(chan bool, 1)

	shutdownParams := server.ShutdownParams{
		GracefulShutdown: gracefulShutdown,
		StopExecution:    stopExecution,
		WorkerStop:       stopWorkerChannel,
		Group:            &workerWaitGroup,
		CloseServices:    closeExternalServices,
	}
	go server.ShutDownHandler(shutdownParams)
	go server.CreateServer(listenAddr, mcp.Handler())

	<-stopExecution
	logger.Info("Server stopped")
}

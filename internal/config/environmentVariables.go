package config

import (
	"log/slog"
	"os"
	"time"
)

const (
	IS_PROD        = false
	LOG_LEVEL_PROD = slog.LevelInfo
	TRACE_ID_KEY   = "traceId"

	RATE_LIMIT_PER_SECOND       = 2
	BURST_RATE_LIMIT_PER_SECOND = 5

	//chunking defaults - tuned for short text documents
	ChunkSize    = 500
	ChunkOverlap = 50

	//embedding
	EmbeddingBatchSize   = 100
	GoogleEmbeddingModel = "gemini-embedding-001"
	//gemini supports variable output dimensionality, we pin it so every
	//index built with this model stays queryable
	GoogleEmbeddingDimension int32 = 768

	OpenAIEmbeddingModelSmall = "text-embedding-3-small"
	OpenAIEmbeddingModelLarge = "text-embedding-3-large"
	OpenAISmallDimension      = 1536
	OpenAILargeDimension      = 3072

	//index backends
	BackendMemory = "memory"
	BackendDisk   = "disk"
	BackendQdrant = "qdrant"

	//worker pool
	RequestsPerNewWorkerCount int64 = 10
	MaxWorkerCount            int64 = 10
	MinWorkerCount            int64 = 1
	IdleWorkerTimeout               = 1 * time.Minute

	//a full rebuild embeds the entire corpus, give it room
	BuildJobTimeout = 10 * time.Minute
	QueryTimeout    = 30 * time.Second

	//outbound http pooling - embedding providers reuse connections
	MaxIdleConns        = 100
	MaxIdleConnsPerHost = 10
	IdleConnTimeout     = 90 * time.Second

	//serverTimeouts
	ReadTimeout            = 5 * time.Second
	WriteTimeout           = 30 * time.Second
	IdleTimeout            = 120 * time.Second
	ShutdownContextTimeout = 10 * time.Second

	//server listening port
	ServerListenAddr = ":3000"

	//job requests buffer limit
	BufferLimit = 100

	//vectorDB
	QdrantHost             = ""
	QdrantGrpcPort         = 6334
	QdrantUseTLS           = false
	QdrantPoolSize         = 1
	QdrantKeepAliveTimeout = 30 * time.Second

	//redis
	redisHost = "127.0.0.1"
	redisPort = "6379"
	RedisAddr = redisHost + ":" + redisPort

	//redis has 16 DB we can use
	RedisJobStore     = 0
	RedisHistoryStore = 1

	//redis timeouts
	RedisJobStoreTTL = 24 * time.Hour

	//how many history entries the presentation layer keeps around
	HistoryListLimit = 50
)

// filesystem layout - documents live in DataDir, persisted indices under VectorStoreDir
const (
	DataDir        = "data"
	VectorStoreDir = "vector_store"
)

var (
	AuthToken    = os.Getenv("API_AUTH_TOKEN")
	NoAuthBypass = AuthToken == "" //dev convenience, never leave the token unset in prod

	GoogleAPIKey = os.Getenv("GOOGLE_API_KEY")
	OpenAIAPIKey = os.Getenv("OPENAI_API_KEY")

	RedisPassword = os.Getenv("REDIS_PASSWORD")
)

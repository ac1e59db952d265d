package qdrantIndex

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/akolanti/SemanticSearchAPI/internal/config"
	"github.com/akolanti/SemanticSearchAPI/internal/domain/searchModel"
	"github.com/akolanti/SemanticSearchAPI/internal/metrics"
	"github.com/akolanti/SemanticSearchAPI/internal/search/vectorIndex"
	"github.com/akolanti/SemanticSearchAPI/pkg/logger_i"
	"github.com/google/uuid"
	"github.com/qdrant/go-client/qdrant"
)

var logger *logger_i.Logger
var clientInstance *qdrant.Client
var clientErr error
var once sync.Once

// upsert batch size, keeps single gRPC messages well under the default limit
const upsertBatchSize = 100

// GetClient hands out the shared Qdrant connection, dialing it on first use
// and closing it when the root context ends.
func GetClient(ctx context.Context) (*qdrant.Client, error) {
	once.Do(func() {
		logger = logger_i.NewLogger("Qdrant")

		host := os.Getenv("QDRANT_HOST")
		port, er := strconv.Atoi(os.Getenv("QDRANT_PORT"))
		if host == "" || er != nil {
			host = config.QdrantHost
			port = config.QdrantGrpcPort
		}

		client, err := qdrant.NewClient(&qdrant.Config{
			Host:     host,
			Port:     port,
			UseTLS:   config.QdrantUseTLS,
			PoolSize: uint(config.QdrantPoolSize),
		})
		if err != nil {
			logger.Error("could not instantiate: ", "error:", err)
			clientErr = fmt.Errorf("%w: qdrant dial: %v", searchModel.ErrBackendIO, err)
			return
		}

		clientInstance = client
		go closeClient(ctx, client)
	})

	return clientInstance, clientErr
}

func closeClient(ctx context.Context, client *qdrant.Client) {
	<-ctx.Done()
	logger.Info("Shutting down Qdrant")
	if err := client.Close(); err != nil {
		logger.Error("could not close Qdrant: ", "error:", err)
	}
	logger.Info("Closed Qdrant")
}

// index maps one (model, backend) pair onto a collection alias. Every build
// fills a fresh generation collection and repoints the alias in one atomic
// request, so searches land on either the previous generation or the new
// one, never on a half-filled collection. The server owns durability, so
// Persist has nothing left to do after Build.
type index struct {
	client  *qdrant.Client
	modelId string
	alias   string

	mu         sync.RWMutex
	dimension  int
	chunkCount int
	createdAt  time.Time
}

func New(ctx context.Context, modelId string) (vectorIndex.Persistent, error) {
	client, err := GetClient(ctx)
	if err != nil {
		return nil, err
	}
	return &index{
		client:  client,
		modelId: modelId,
		alias:   searchModel.IndexId(modelId, config.BackendQdrant),
	}, nil
}

// Load resolves the alias to its live generation and counts its points. The
// alias only exists once a build has completed, otherwise the index does not
// exist.
func Load(ctx context.Context, modelId string, dimension int) (vectorIndex.Persistent, error) {
	client, err := GetClient(ctx)
	if err != nil {
		return nil, err
	}

	alias := searchModel.IndexId(modelId, config.BackendQdrant)
	target, err := resolveAlias(ctx, client, alias)
	if err != nil {
		return nil, err
	}
	if target == "" {
		return nil, fmt.Errorf("%w: no collection behind alias %s", searchModel.ErrIndexNotFound, alias)
	}

	count, err := client.Count(ctx, &qdrant.CountPoints{
		CollectionName: target,
		Exact:          qdrant.PtrOf(true),
	})
	if err != nil {
		return nil, fmt.Errorf("%w: counting points in %s: %v", searchModel.ErrBackendIO, target, err)
	}

	return &index{
		client:     client,
		modelId:    modelId,
		alias:      alias,
		dimension:  dimension,
		chunkCount: int(count),
	}, nil
}

// Build upserts every chunk into a brand new generation collection, then
// swaps the alias onto it. A failed build leaves the alias and the serving
// generation exactly as they were. Vectors get normalized locally so the
// reported scores match the exact-scan backends.
func (q *index) Build(ctx context.Context, chunks []searchModel.Chunk, vectors [][]float32) error {
	dim, err := vectorIndex.ValidateBuild(chunks, vectors)
	if err != nil {
		return err
	}
	loggr := logger.With(config.TRACE_ID_KEY, ctx.Value(config.TRACE_ID_KEY))

	generation := generationName(q.alias)
	if err := q.createCollection(ctx, generation, dim); err != nil {
		return err
	}

	points := make([]*qdrant.PointStruct, len(chunks))
	for i, chunk := range chunks {
		// Ids are keyed on the alias, a chunk keeps its id across rebuilds
		id := uuid.NewSHA1(uuid.NameSpaceOID, fmt.Appendf(nil, "%s/%s/%d", q.alias, chunk.SourceDocument, chunk.Sequence))
		points[i] = &qdrant.PointStruct{
			Id:      qdrant.NewID(id.String()),
			Vectors: qdrant.NewVectors(vectorIndex.Normalize(vectors[i])...),
			Payload: qdrant.NewValueMap(map[string]any{
				"content":         chunk.Text,
				"source_document": chunk.SourceDocument,
				"sequence":        int64(chunk.Sequence),
			}),
		}
	}

	upsertStart := time.Now()
	defer func() { metrics.CaptureExecutionMetrics("qdrant_upsert", time.Since(upsertStart)) }()

	for start := 0; start < len(points); start += upsertBatchSize {
		end := min(start+upsertBatchSize, len(points))
		_, err := q.client.Upsert(ctx, &qdrant.UpsertPoints{
			CollectionName: generation,
			Points:         points[start:end],
			Wait:           qdrant.PtrOf(true),
		})
		if err != nil {
			loggr.Error("upsert batch failed: ", "collection", generation, "error:", err)
			q.dropCollection(ctx, generation, loggr)
			return fmt.Errorf("%w: qdrant upsert: %v", searchModel.ErrBackendIO, err)
		}
	}

	previous, err := resolveAlias(ctx, q.client, q.alias)
	if err != nil {
		q.dropCollection(ctx, generation, loggr)
		return err
	}
	if err := q.swapAlias(ctx, generation, previous); err != nil {
		q.dropCollection(ctx, generation, loggr)
		return err
	}

	// generations older than the one just replaced have no searches left on
	// them; the replaced one stays until the next build so in-flight
	// searches can drain
	q.reapStaleGenerations(ctx, generation, previous, loggr)

	q.mu.Lock()
	q.dimension = dim
	q.chunkCount = len(chunks)
	q.createdAt = time.Now().UTC()
	q.mu.Unlock()

	loggr.Info("generation swapped in", "alias", q.alias, "collection", generation, "points", len(points))
	return nil
}

func (q *index) createCollection(ctx context.Context, name string, dimension int) error {
	err := q.client.CreateCollection(ctx, &qdrant.CreateCollection{
		CollectionName: name,
		VectorsConfig: qdrant.NewVectorsConfig(&qdrant.VectorParams{
			Size:     uint64(dimension),
			Distance: qdrant.Distance_Cosine,
		}),
	})
	if err != nil {
		return fmt.Errorf("%w: creating collection %s: %v", searchModel.ErrBackendIO, name, err)
	}
	return nil
}

func (q *index) dropCollection(ctx context.Context, name string, log *logger_i.Logger) {
	if err := q.client.DeleteCollection(ctx, name); err != nil {
		log.Warn("could not drop collection: ", "collection", name, "error:", err)
	}
}

// swapAlias repoints the alias at the freshly built generation. Delete and
// create travel in one UpdateAliases request, which the server applies
// atomically.
func (q *index) swapAlias(ctx context.Context, generation string, previous string) error {
	if err := q.client.UpdateAliases(ctx, aliasSwapActions(q.alias, generation, previous)); err != nil {
		return fmt.Errorf("%w: repointing alias %s: %v", searchModel.ErrBackendIO, q.alias, err)
	}
	return nil
}

// aliasSwapActions assembles the swap request: retire the old binding when
// one exists, then bind the alias to the new generation.
func aliasSwapActions(alias string, generation string, previous string) []*qdrant.AliasOperations {
	actions := make([]*qdrant.AliasOperations, 0, 2)
	if previous != "" {
		actions = append(actions, &qdrant.AliasOperations{
			Action: &qdrant.AliasOperations_DeleteAlias{
				DeleteAlias: &qdrant.DeleteAlias{AliasName: alias},
			},
		})
	}
	return append(actions, &qdrant.AliasOperations{
		Action: &qdrant.AliasOperations_CreateAlias{
			CreateAlias: &qdrant.CreateAlias{AliasName: alias, CollectionName: generation},
		},
	})
}

func (q *index) reapStaleGenerations(ctx context.Context, live string, previous string, log *logger_i.Logger) {
	collections, err := q.client.ListCollections(ctx)
	if err != nil {
		log.Warn("could not list collections for cleanup: ", "error:", err)
		return
	}
	for _, name := range staleGenerations(collections, q.alias, live, previous) {
		q.dropCollection(ctx, name, log)
	}
}

// resolveAlias returns the collection behind an alias, empty when the alias
// does not exist.
func resolveAlias(ctx context.Context, client *qdrant.Client, alias string) (string, error) {
	aliases, err := client.ListAliases(ctx)
	if err != nil {
		return "", fmt.Errorf("%w: listing aliases: %v", searchModel.ErrBackendIO, err)
	}
	for _, a := range aliases {
		if a.GetAliasName() == alias {
			return a.GetCollectionName(), nil
		}
	}
	return "", nil
}

// generationName salts the alias with the build time, every rebuild lands in
// its own collection.
func generationName(alias string) string {
	return fmt.Sprintf("%s_%d", alias, time.Now().UnixNano())
}

// staleGenerations picks the generation collections that are safe to drop:
// everything carrying this alias's generation naming except the live
// generation and the one it replaced. Collections of other aliases never
// match, their names carry their own alias prefix.
func staleGenerations(collections []string, alias string, live string, previous string) []string {
	var stale []string
	prefix := alias + "_"
	for _, name := range collections {
		if name == live || name == previous {
			continue
		}
		suffix, found := strings.CutPrefix(name, prefix)
		if !found || !allDigits(suffix) {
			continue
		}
		stale = append(stale, name)
	}
	return stale
}

func allDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

func (q *index) Search(ctx context.Context, queryVector []float32, k int) ([]searchModel.ScoredChunk, error) {
	q.mu.RLock()
	dim := q.dimension
	q.mu.RUnlock()
	if dim != 0 && len(queryVector) != dim {
		return nil, fmt.Errorf("%w: query has %d dims, index expects %d", searchModel.ErrDimensionMismatch, len(queryVector), dim)
	}

	start := time.Now()
	defer func() { metrics.CaptureExecutionMetrics("qdrant_query", time.Since(start)) }()

	// the alias resolves server-side to whichever generation is live
	hits, err := q.client.Query(ctx, &qdrant.QueryPoints{
		CollectionName: q.alias,
		Query:          qdrant.NewQuery(vectorIndex.Normalize(queryVector)...),
		Limit:          qdrant.PtrOf(uint64(k)),
		WithPayload:    qdrant.NewWithPayload(true),
	})
	if err != nil {
		logger.With(config.TRACE_ID_KEY, ctx.Value(config.TRACE_ID_KEY)).Error("Error querying Qdrant: ", "error:", err)
		return nil, fmt.Errorf("%w: qdrant query: %v", searchModel.ErrBackendIO, err)
	}

	results := make([]searchModel.ScoredChunk, 0, len(hits))
	for _, hit := range hits {
		results = append(results, searchModel.ScoredChunk{
			Chunk: searchModel.Chunk{
				SourceDocument: hit.Payload["source_document"].GetStringValue(),
				Sequence:       int(hit.Payload["sequence"].GetIntegerValue()),
				Text:           hit.Payload["content"].GetStringValue(),
			},
			Score: float64(hit.Score),
		})
	}
	return results, nil
}

func (q *index) Manifest() searchModel.IndexManifest {
	q.mu.RLock()
	defer q.mu.RUnlock()
	return searchModel.IndexManifest{
		ModelId:    q.modelId,
		BackendId:  config.BackendQdrant,
		Dimension:  q.dimension,
		ChunkCount: q.chunkCount,
		CreatedAt:  q.createdAt,
	}
}

// Persist is a no-op, Upsert already waited for server-side durability.
func (q *index) Persist(ctx context.Context) error {
	return nil
}

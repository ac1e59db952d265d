package customHttpClient

import (
	"net/http"

	"github.com/akolanti/SemanticSearchAPI/internal/config"
)

var customTransport = &http.Transport{
	MaxIdleConns:        config.MaxIdleConns,
	MaxIdleConnsPerHost: config.MaxIdleConnsPerHost,
	IdleConnTimeout:     config.IdleConnTimeout,
}

var pooledClient = &http.Client{Transport: customTransport}

// GetPooledClient is shared by the embedding providers so repeated
// embedding calls reuse connections instead of redialing per batch.
func GetPooledClient() *http.Client {
	return pooledClient
}

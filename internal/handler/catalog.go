package handler

import (
	"context"
	"net/http"

	"github.com/osse101/PrizeKiosk_Go/internal/catalog"
	"github.com/osse101/PrizeKiosk_Go/internal/logger"
)

// CatalogReloader re-reads the catalog and applies it to the engine
type CatalogReloader interface {
	Reload(ctx context.Context) (remote bool, err error)
	Catalog() *catalog.Catalog
}

// CatalogReloadResponse describes the catalog now in effect
type CatalogReloadResponse struct {
	Message    string `json:"message"`
	Remote     bool   `json:"remote"`
	Signature  string `json:"signature"`
	Categories int    `json:"categories"`
	Items      int    `json:"items"`
	MaxScore   int    `json:"max_score"`
}

// HandleReloadCatalog reloads the catalog, preferring the remote endpoint
// POST /api/v1/catalog/reload
func HandleReloadCatalog(reloader CatalogReloader) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		remote, err := reloader.Reload(r.Context())
		if err != nil {
			respondServiceError(w, r, OpReloadCatalog, err)
			return
		}

		resp := CatalogReloadResponse{Message: MsgCatalogReloaded, Remote: remote}
		if cat := reloader.Catalog(); cat != nil {
			resp.Signature = cat.Signature()
			resp.Categories = len(cat.Categories)
			resp.Items = cat.ItemCount()
			resp.MaxScore = cat.MaxScore
		}
		logger.FromContext(r.Context()).Info(MsgCatalogReloaded, "remote", remote, "signature", resp.Signature)
		respondJSON(w, http.StatusOK, resp)
	}
}

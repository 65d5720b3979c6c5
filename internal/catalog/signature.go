package catalog

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
)

// SignatureVersion is bumped whenever the signed field set changes,
// which deliberately invalidates every persisted ledger record.
const SignatureVersion = "v3"

type signatureItem struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Daily    int    `json:"daily"`
	Campaign int    `json:"campaign"`
}

type signatureCategory struct {
	ID    int             `json:"id"`
	Name  string          `json:"name"`
	Min   float64         `json:"min"`
	Max   float64         `json:"max"`
	Items []signatureItem `json:"items"`
}

type signatureDoc struct {
	Version    string              `json:"version"`
	MaxScore   int                 `json:"maxScore"`
	Auto       bool                `json:"auto"`
	Categories []signatureCategory `json:"categories"`
}

// computeSignature hashes a canonical JSON rendering of every allocation-relevant field.
// Struct field order fixes the key order, so the output is stable across re-serialisations.
// Asset references are left out: changing artwork does not reset stock.
func computeSignature(c *Catalog) string {
	doc := signatureDoc{
		Version:    SignatureVersion,
		MaxScore:   c.MaxScore,
		Auto:       c.AutoPercentBands,
		Categories: make([]signatureCategory, 0, len(c.Categories)),
	}
	for _, cat := range c.Categories {
		sc := signatureCategory{
			ID:    cat.ID,
			Name:  cat.Name,
			Min:   cat.ManualBand.Min,
			Max:   cat.ManualBand.Max,
			Items: make([]signatureItem, 0, len(cat.Items)),
		}
		for _, it := range cat.Items {
			sc.Items = append(sc.Items, signatureItem{
				ID:       it.ID,
				Name:     it.Name,
				Daily:    it.InitialDailyStock,
				Campaign: it.TotalCampaignStock,
			})
		}
		doc.Categories = append(doc.Categories, sc)
	}

	// Marshalling plain structs of strings and numbers cannot fail.
	data, _ := json.Marshal(doc)
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

package catalog

import (
	"embed"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/osse101/PrizeKiosk_Go/internal/domain"
	"github.com/osse101/PrizeKiosk_Go/internal/validation"
)

//go:embed schemas/*.json
var schemaFS embed.FS

// document is the wire shape shared by local files and the remote endpoint.
// Pointer fields distinguish "absent" from zero so defaults can be applied.
type document struct {
	MaxScore         *int          `json:"maxScore" yaml:"maxScore"`
	AutoPercentBands *bool         `json:"autoPercentBands" yaml:"autoPercentBands"`
	Categories       []categoryDoc `json:"categories" yaml:"categories"`
}

type categoryDoc struct {
	ID         *int      `json:"id" yaml:"id"`
	Name       string    `json:"name" yaml:"name"`
	ManualBand Band      `json:"manualBand" yaml:"manualBand"`
	Items      []itemDoc `json:"items" yaml:"items"`
}

type itemDoc struct {
	ID                 string `json:"id" yaml:"id"`
	Name               string `json:"name" yaml:"name"`
	Asset              string `json:"asset" yaml:"asset"`
	InitialDailyStock  int    `json:"initialDailyStock" yaml:"initialDailyStock"`
	TotalCampaignStock int    `json:"totalCampaignStock" yaml:"totalCampaignStock"`
}

func (d document) toCatalog() (*Catalog, error) {
	maxScore := DefaultMaxScore
	if d.MaxScore != nil {
		maxScore = *d.MaxScore
	}
	auto := DefaultAutoPercentBands
	if d.AutoPercentBands != nil {
		auto = *d.AutoPercentBands
	}

	categories := make([]Category, 0, len(d.Categories))
	for i, cd := range d.Categories {
		id := i
		if cd.ID != nil {
			id = *cd.ID
		}
		cat := Category{
			ID:         id,
			Name:       cd.Name,
			ManualBand: cd.ManualBand,
			Items:      make([]Item, 0, len(cd.Items)),
		}
		for _, itd := range cd.Items {
			cat.Items = append(cat.Items, Item{
				ID:                 itd.ID,
				Name:               itd.Name,
				Asset:              itd.Asset,
				InitialDailyStock:  itd.InitialDailyStock,
				TotalCampaignStock: itd.TotalCampaignStock,
			})
		}
		categories = append(categories, cat)
	}

	return New(maxScore, auto, categories)
}

// Parser turns raw catalog documents into validated catalogs
type Parser struct {
	schemas validation.SchemaValidator
}

// NewParser creates a parser that checks documents against the bundled catalog schema
func NewParser() *Parser {
	return &Parser{schemas: validation.NewSchemaValidator(schemaFS)}
}

// ParseJSON parses a JSON catalog document
func (p *Parser) ParseJSON(data []byte) (*Catalog, error) {
	if err := p.schemas.ValidateBytes(data, SchemaPath); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidCatalog, err)
	}

	var doc document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidCatalog, err)
	}
	return doc.toCatalog()
}

// ParseYAML parses a YAML catalog document.
// The document is re-encoded as JSON for schema validation.
func (p *Parser) ParseYAML(data []byte) (*Catalog, error) {
	var raw interface{}
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidCatalog, err)
	}
	asJSON, err := json.Marshal(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidCatalog, err)
	}
	if err := p.schemas.ValidateBytes(asJSON, SchemaPath); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidCatalog, err)
	}

	var doc document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidCatalog, err)
	}
	return doc.toCatalog()
}

// Parse dispatches on format ("json" or "yaml")
func (p *Parser) Parse(data []byte, format string) (*Catalog, error) {
	switch format {
	case FormatJSON:
		return p.ParseJSON(data)
	case FormatYAML:
		return p.ParseYAML(data)
	default:
		return nil, fmt.Errorf("%w: %q", domain.ErrUnsupportedFormat, format)
	}
}

// LoadFile reads a catalog from disk, choosing the format from the file extension
func (p *Parser) LoadFile(path string) (*Catalog, error) {
	format, err := FormatForPath(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog %s: %w", path, err)
	}
	cat, err := p.Parse(data, format)
	if err != nil {
		return nil, fmt.Errorf("load catalog %s: %w", path, err)
	}
	return cat, nil
}

// FormatForPath maps a file extension to a catalog format
func FormatForPath(path string) (string, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	default:
		return "", fmt.Errorf("%w: %s", domain.ErrUnsupportedFormat, path)
	}
}

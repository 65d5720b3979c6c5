package catalog

import "time"

// Defaults applied when a catalog document omits a field
const (
	DefaultMaxScore           = 370
	DefaultAutoPercentBands   = true
	DefaultCategoryNameFormat = "Category %d"
)

// Remote fetch configuration
const (
	DefaultRemoteTimeout = 6 * time.Second
	MaxRemoteBodyBytes   = 1 << 20
)

// SchemaPath is the catalog schema inside the embedded schema filesystem
const SchemaPath = "schemas/catalog.schema.json"

// Supported local file formats
const (
	FormatJSON = "json"
	FormatYAML = "yaml"
)

// Log messages
const (
	LogMsgCatalogLoaded      = "Reward catalog loaded"
	LogMsgRemoteFetchStarted = "Fetching remote reward catalog"
	LogMsgRemoteFetchFailed  = "Remote reward catalog unavailable"
	LogMsgWatcherReload      = "Catalog file changed, reloading"
	LogMsgWatcherStatFailed  = "Failed to stat catalog file"
)

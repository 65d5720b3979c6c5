package stock

// Store backends
const (
	BackendMemory = "memory"
	BackendFile   = "file"
	BackendSQLite = "sqlite"
)

// File names used by the file and SQLite backends
const (
	DailyFileName     = "rewards_daily_stock.json"
	CampaignFileName  = "rewards_campaign_stock.json"
	DefaultSQLiteFile = "rewards.db"
)

// SQLite record keys
const (
	recordKindDaily    = "daily"
	recordKindCampaign = "campaign"
)

// DateLayout is the calendar date format stored in daily records
const DateLayout = "2006-01-02"

// DataDirPermissions is used when creating the data directory
const DataDirPermissions = 0755

// Log messages
const (
	LogMsgDailyRestored        = "Daily stock restored"
	LogMsgDailyRebuilt         = "Daily stock rebuilt from catalog defaults"
	LogMsgCampaignRestored     = "Campaign stock restored"
	LogMsgCampaignRebuilt      = "Campaign stock rebuilt from catalog defaults"
	LogMsgLoadDailyFailed      = "Failed to read daily stock record, treating as absent"
	LogMsgLoadCampaignFailed   = "Failed to read campaign stock record, treating as absent"
	LogMsgSaveDailyFailed      = "Failed to persist daily stock, will retry on next change"
	LogMsgSaveCampaignFailed   = "Failed to persist campaign stock, will retry on next change"
	LogMsgDailyRollover        = "Calendar day changed, daily stock rebuilt"
	LogMsgDailyForceReset      = "Daily stock force reset"
	LogMsgTopUp                = "Daily stock topped up from campaign"
	LogMsgSetToday             = "Daily stock set"
	LogMsgSetCampaign          = "Campaign stock set"
	LogMsgDecrementUnavailable = "Decrement ignored, no stock left"
	LogMsgReloadKeptMemory     = "Stock store still unwritable, keeping in-memory counters for reloaded catalog"
)

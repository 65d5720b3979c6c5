package outcome

// Default rule values for the kiosk game
const (
	DefaultPelletPerfectScore = 2460
	DefaultAllPelletsMaxScore = 2770
	DefaultLanguage           = "pt-BR"
)

// Message keys. The English text doubles as the fallback translation.
const (
	MsgThanksNotThisTime = "Thank you for playing!\n\nNot this time!"
	MsgThanks            = "Thank you for playing!"
	MsgCongratulations   = "CONGRATULATIONS!\nYou scored %d points!"
)

// Log messages
const (
	LogMsgOutcomeResolved = "Play outcome resolved"
	LogMsgCommitFailed    = "Failed to commit play outcome"
)

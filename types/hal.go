package types

// Link is the link/state reported for the keyboard capability.
type Link string

const (
	LinkUp       Link = "up"
	LinkDown     Link = "down"
	LinkDegraded Link = "degraded"
)

// ------------------------
// Board configuration
// ------------------------

// BoardSetup is the static description of one hardware variant: which reader
// backend it carries and how that reader is wired.
type BoardSetup struct {
	Board  string      `json:"board"` // e.g. "cardputer", "cardputer_adv"
	Reader ReaderSetup `json:"reader"`
}

// ReaderSetup selects a registered reader builder by type.
type ReaderSetup struct {
	Type   string      `json:"type"`   // "iomatrix", "tca8418"
	Params interface{} `json:"params"` // builder-specific params
}

package domain

// ViewState is a state of the questionnaire flow.
type ViewState string

const (
	ViewHero             ViewState = "hero"
	ViewForm             ViewState = "form"
	ViewAnalyzing        ViewState = "analyzing"
	ViewResult           ViewState = "result"
	ViewInsufficientData ViewState = "insufficient"
	ViewAdmin            ViewState = "admin"
)

// Entry selects how a session is opened.
type Entry int

const (
	EntryDefault Entry = iota
	EntryAdmin
)

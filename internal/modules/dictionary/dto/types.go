package dto

type Hint struct {
	Word string
	Meta map[string]any
}

type Ticket struct {
	Generation uint64
	Query      string
}

type HintResult struct {
	Ticket
	Hints []Hint
}

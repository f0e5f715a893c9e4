package models

// OptionCount is the number of choices every question must carry.
const OptionCount = 4

// Question is one entry of a character's question set. IDs are a contiguous
// 1..N sequence assigned at save time; the set is immutable afterwards.
type Question struct {
	ID       int      `json:"id"`
	Question string   `json:"question"`
	Options  []string `json:"options"`
	Answer   string   `json:"answer"`
}

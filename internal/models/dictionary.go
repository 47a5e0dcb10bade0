package models

// DictionaryCategory groups words under an uppercase name. Name is unique
// case-insensitively across the collection; Words never holds two entries
// equal after uppercasing.
type DictionaryCategory struct {
	Meta
	Name        string   `json:"name"`
	Words       []string `json:"words"`
	Placeholder string   `json:"placeholder,omitempty"`
}

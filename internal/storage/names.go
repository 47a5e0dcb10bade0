package storage

// Storage keys for the four collections.
const (
	CollectionItems      = "universe_items"
	CollectionDictionary = "universe_dictionary"
	CollectionNotebook   = "universe_notebook"
	CollectionSoundtrack = "universe_soundtrack"
)

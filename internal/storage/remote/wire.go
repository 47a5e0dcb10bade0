package remote

import "github.com/pmiralles/lorekeeper/internal/storage"

// The remote service uses snake_case field names for the soundtrack
// collection while documents use camelCase internally. The mapping is a pure
// renaming of top-level keys, applied symmetrically; values are untouched.
var soundtrackToWire = map[string]string{
	"songTitle":        "song_title",
	"styleDescription": "style_description",
	"excludedStyle":    "excluded_style",
	"styleInfluence":   "style_influence",
	"sunoUrl":          "suno_url",
	"cuePoints":        "cue_points",
	"createdAt":        "created_at",
	"updatedAt":        "updated_at",
}

var soundtrackFromWire = invert(soundtrackToWire)

func invert(m map[string]string) map[string]string {
	out := make(map[string]string, len(m))
	for k, v := range m {
		out[v] = k
	}
	return out
}

func rename(doc storage.Document, table map[string]string) storage.Document {
	if doc == nil {
		return nil
	}
	out := make(storage.Document, len(doc))
	for k, v := range doc {
		if mapped, ok := table[k]; ok {
			k = mapped
		}
		out[k] = v
	}
	return out
}

// toWire converts a document to the external casing convention.
func toWire(collection string, doc storage.Document) storage.Document {
	if collection != storage.CollectionSoundtrack {
		return doc
	}
	return rename(doc, soundtrackToWire)
}

// fromWire converts a document back to the internal casing convention.
func fromWire(collection string, doc storage.Document) storage.Document {
	if collection != storage.CollectionSoundtrack {
		return doc
	}
	return rename(doc, soundtrackFromWire)
}

func toWireAll(collection string, docs []storage.Document) []storage.Document {
	if collection != storage.CollectionSoundtrack {
		return docs
	}
	out := make([]storage.Document, len(docs))
	for i, d := range docs {
		out[i] = rename(d, soundtrackToWire)
	}
	return out
}

func fromWireAll(collection string, docs []storage.Document) []storage.Document {
	if collection != storage.CollectionSoundtrack {
		return docs
	}
	out := make([]storage.Document, len(docs))
	for i, d := range docs {
		out[i] = rename(d, soundtrackFromWire)
	}
	return out
}

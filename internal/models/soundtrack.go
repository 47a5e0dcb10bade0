package models

// Limits for soundtrack prompt fields, shared by validation and the
// song-generation service the prompts are written for.
const (
	MaxSongTitleLen        = 255
	MaxLyricsLen           = 5000
	MaxStyleDescriptionLen = 1000
	MaxExcludedStyleLen    = 1000
)

// Section is a time-ranged part of a song structure (e.g. intro, chorus).
type Section struct {
	Nombre string `json:"nombre"`
	Inicio string `json:"inicio"`
	Fin    string `json:"fin,omitempty"`
}

// CuePoint marks a moment of interest inside a track.
type CuePoint struct {
	Tiempo   string `json:"tiempo"`
	Etiqueta string `json:"etiqueta,omitempty"`
}

// SoundtrackPrompt is a catalog entry describing a prompt for an external
// song-generation service, plus metadata about the generated track.
// Weirdness and StyleInfluence are percentages in [0,100]; Calificacion is a
// 1-10 rating, nil when the track has not been rated.
type SoundtrackPrompt struct {
	Meta
	SongTitle        string     `json:"songTitle"`
	Lyrics           string     `json:"lyrics,omitempty"`
	StyleDescription string     `json:"styleDescription,omitempty"`
	ExcludedStyle    string     `json:"excludedStyle,omitempty"`
	Weirdness        int        `json:"weirdness"`
	StyleInfluence   int        `json:"styleInfluence"`
	Version          string     `json:"version,omitempty"`
	Duracion         string     `json:"duracion,omitempty"`
	SunoURL          string     `json:"sunoUrl,omitempty"`
	BPM              string     `json:"bpm,omitempty"`
	Key              string     `json:"key,omitempty"`
	Tags             []string   `json:"tags"`
	Momento          string     `json:"momento,omitempty"`
	Notas            string     `json:"notas,omitempty"`
	Estructura       []Section  `json:"estructura"`
	CuePoints        []CuePoint `json:"cuePoints"`
	Calificacion     *int       `json:"calificacion,omitempty"`
}

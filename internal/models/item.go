package models

// Tipo identifies the kind of catalog item.
type Tipo string

const (
	TipoPersonaje Tipo = "personaje"
	TipoLace      Tipo = "lace"
	TipoCriatura  Tipo = "criatura"
	TipoFaccion   Tipo = "faccion"
	TipoArco      Tipo = "arco" // narrative arc, not an entity
)

// ValidTipos lists every accepted item kind.
var ValidTipos = []Tipo{TipoPersonaje, TipoLace, TipoCriatura, TipoFaccion, TipoArco}

// IsValidTipo reports whether t is a member of the tipo enumeration.
func IsValidTipo(t Tipo) bool {
	for _, v := range ValidTipos {
		if t == v {
			return true
		}
	}
	return false
}

// Component is a typed sub-object attached to an item, keyed by a generated
// id. The shape of Data depends on Type and is supplied by external
// configuration; it is stored and returned unchanged.
type Component struct {
	Type string         `json:"type"`
	Data map[string]any `json:"data"`
}

// Item is a catalog entity (character, lace, creature, faction) or a
// narrative arc. Components is always a map, never nil after creation.
type Item struct {
	Meta
	Nombre           string               `json:"nombre"`
	Tipo             Tipo                 `json:"tipo"`
	Descripcion      string               `json:"descripcion,omitempty"`
	Imagen           string               `json:"imagen,omitempty"`
	Origen           string               `json:"origen,omitempty"`
	Actitud          string               `json:"actitud,omitempty"`
	PrimeraAparicion string               `json:"primera_aparicion,omitempty"`
	Components       map[string]Component `json:"components"`
}

// IsArco reports whether the item is a narrative arc.
func (i *Item) IsArco() bool {
	return i.Tipo == TipoArco
}

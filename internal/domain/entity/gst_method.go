package entity

import (
	"encoding/json"
	"strings"
)

// GSTMethod indica si el precio de cada línea ya incluye el GST o si se suma encima.
// Se fija una vez por factura (viene de la configuración del negocio).
type GSTMethod int

const (
	GSTInclusive GSTMethod = iota
	GSTExclusive
)

// Etiquetas tal como las entrega la configuración del cliente.
const (
	GSTInclusiveLabel = "Inclusive GST"
	GSTExclusiveLabel = "Exclusive GST"
)

func (m GSTMethod) String() string {
	if m == GSTExclusive {
		return GSTExclusiveLabel
	}
	return GSTInclusiveLabel
}

// Short devuelve "Inclusive" o "Exclusive" (etiqueta del PDF).
func (m GSTMethod) Short() string {
	if m == GSTExclusive {
		return "Exclusive"
	}
	return "Inclusive"
}

// ParseGSTMethod interpreta "Inclusive GST" / "Exclusive GST" (y variantes cortas).
// Vacío o desconocido => Inclusive.
func ParseGSTMethod(s string) GSTMethod {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "exclusive gst", "exclusive":
		return GSTExclusive
	default:
		return GSTInclusive
	}
}

func (m GSTMethod) MarshalJSON() ([]byte, error) {
	return json.Marshal(m.String())
}

func (m *GSTMethod) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		var i int
		if err := json.Unmarshal(data, &i); err != nil {
			return err
		}
		*m = GSTMethod(i)
		return nil
	}
	*m = ParseGSTMethod(s)
	return nil
}

// UnmarshalText permite leerlo desde TOML/env.
func (m *GSTMethod) UnmarshalText(text []byte) error {
	*m = ParseGSTMethod(string(text))
	return nil
}

package entity

import "time"

// ClientConfig configuración del negocio emisor. El llamador la obtiene una vez
// y la inyecta en cada render.
type ClientConfig struct {
	ID            string    `json:"id,omitempty" toml:"id"`
	InvPrefix     string    `json:"inv_prefix" toml:"inv_prefix"`
	GSTMethod     GSTMethod `json:"gst_method" toml:"gst_method"`
	ClientName    string    `json:"client_name" toml:"client_name"`
	ClientAddress string    `json:"client_address" toml:"client_address"`
	GSTNo         string    `json:"gst_no" toml:"gst_no"`
	Phone         string    `json:"phone" toml:"phone"`
	Email         string    `json:"email,omitempty" toml:"email"`
	UpdatedAt     time.Time `json:"updated_at,omitempty" toml:"-"`
}

package entity

// Customer receptor de la factura.
type Customer struct {
	Name    string `json:"name" toml:"name"`
	Address string `json:"address,omitempty" toml:"address"`
	Phone   string `json:"phone,omitempty" toml:"phone"`
	GSTNo   string `json:"gst_no,omitempty" toml:"gst_no"`
	Email   string `json:"email,omitempty" toml:"email"`
}

package model

// ExportDocument is the JSON backup format written by export.
type ExportDocument struct {
	Version    int     `json:"version"`
	ExportedAt string  `json:"exportedAt"`
	Brews      []*Brew `json:"brews"`
}

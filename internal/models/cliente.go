package models

// Cliente is a client (milk provider) account, the foreign key target for
// transports.
type Cliente struct {
	ClienteID int    `json:"CLIENTEID"`
	Name      string `json:"NOMBRE"`
}

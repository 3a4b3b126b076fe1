package models

// Role codes as defined by the upstream API.
const (
	RoleAdmin   = 1
	RoleCliente = 2
	RoleStaff   = 3
	RoleDriver  = 4
)

type User struct {
	UserID      int    `json:"USUARIOID"`
	Name        string `json:"NOMBRE"`
	Email       string `json:"EMAIL"`
	Phone       string `json:"TELEFONO"`
	Role        int    `json:"ROLUSUARIO"`
	External    bool   `json:"EXTERNO"`
	ClienteID   int    `json:"CLIENTEID"`        // only meaningful when Role == RoleCliente
	Password    string `json:"HSPASS,omitempty"` // input-only, never echoed by the upstream
	EmailNotify bool   `json:"NOTIFICACION_EMAIL"`
	WppNotify   bool   `json:"NOTIFICACION_WPP"`
}

// LoginRequest is the request body the dashboard accepts at /auth/login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Remember bool   `json:"remember"`
}

// AuthResponse is returned after a successful login.
type AuthResponse struct {
	Token     string `json:"token"`
	UserID    int    `json:"user_id"`
	Name      string `json:"name"`
	Role      int    `json:"role"`
	ClienteID int    `json:"cliente_id,omitempty"`
}

package request

// LoginRequest carries the shared curation credential pair. This gate is a
// convenience boundary, not an authentication system.
type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

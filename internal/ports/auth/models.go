package auth

// Claims representa la información extraída del token (la "sesión" actual).
type Claims struct {
	UserID      string
	Email       string
	DisplayName string
}

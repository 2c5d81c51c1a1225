package model

type SignupRequest struct {
	Email       string `json:"email" binding:"required,email"`
	Password    string `json:"password" binding:"required,min=6"`
	DisplayName string `json:"displayName,omitempty"`
}

type LoginRequest struct {
	Email      string `json:"email" binding:"required,email"`
	Password   string `json:"password" binding:"required"`
	RememberMe bool   `json:"rememberMe"`
}

type ForgotPasswordRequest struct {
	Email string `json:"email" binding:"required,email"`
}

type SignupData struct {
	UID           string `json:"uid"`
	Email         string `json:"email"`
	DisplayName   string `json:"displayName,omitempty"`
	CustomToken   string `json:"customToken"`
	EmailVerified bool   `json:"emailVerified"`
}

type LoginData struct {
	UID             string `json:"uid"`
	Email           string `json:"email"`
	DisplayName     string `json:"displayName,omitempty"`
	CustomToken     string `json:"customToken"`
	EmailVerified   bool   `json:"emailVerified"`
	RememberMe      bool   `json:"rememberMe"`
	SessionType     string `json:"sessionType"`
	SuggestedExpiry string `json:"suggestedExpiry"`
}

type ForgotPasswordData struct {
	Email     string `json:"email"`
	ResetLink string `json:"resetLink,omitempty"`
}

type ProfileData struct {
	UID            string `json:"uid"`
	Email          string `json:"email"`
	DisplayName    string `json:"displayName,omitempty"`
	EmailVerified  bool   `json:"emailVerified"`
	CreationTime   string `json:"creationTime,omitempty"`
	LastSignInTime string `json:"lastSignInTime,omitempty"`
}

// AuthUser - identidade extraída do ID token verificado pelo middleware.
type AuthUser struct {
	UID   string
	Email string
}

package request

// CreateGuestRequest is the request body for creating a guest player
type CreateGuestRequest struct {
	DisplayName string `json:"display_name"`
}

// RegisterRequest is the request body for registering a player
type RegisterRequest struct {
	Username    string `json:"username"`
	Password    string `json:"password"`
	DisplayName string `json:"display_name"`
}

// LoginRequest is the request body for logging in
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// ConvertGuestRequest is the request body for upgrading a guest player
// to a registered account
type ConvertGuestRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// CreateMatchRequest is the request body for creating a match
type CreateMatchRequest struct {
	Type          string `json:"type"`
	Format        string `json:"format"`
	StartingScore int    `json:"starting_score"`

	HomeName string `json:"home_name"`
	AwayName string `json:"away_name"`

	// Optional registered player identities for stats attribution
	HomePlayerID string `json:"home_player_id,omitempty"`
	AwayPlayerID string `json:"away_player_id,omitempty"`

	// FirstThrower defaults to home when omitted
	FirstThrower string `json:"first_thrower,omitempty"`
}

// AddDartRequest is the request body for recording a dart
type AddDartRequest struct {
	Score int `json:"score"`
}

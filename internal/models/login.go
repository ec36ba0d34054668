package models

type AccountType string

var (
	AccountTypeTwitch            AccountType = "TWITCH"
	AccountTypeYouTube           AccountType = "YOUTUBE"
	AccountTypeYouTubeAPIKey     AccountType = "YOUTUBE_API_KEY"
	AccountTypeYouTubeOAuthCreds AccountType = "YOUTUBE_OAUTH_CREDENTIALS"
	AccountTypeKick              AccountType = "KICK"
)

// Login holds whatever credential material one account type requires.
// At most one Login per AccountType is active at a time.
type Login struct {
	Type         AccountType `json:"type"`
	AccessToken  string      `json:"access_token,omitempty"`
	RefreshToken string      `json:"refresh_token,omitempty"`
	ExpiresAt    int64       `json:"expires_at,omitempty"` // epoch seconds
	APIKey       string      `json:"api_key,omitempty"`
	ClientID     string      `json:"client_id,omitempty"`     // YOUTUBE_OAUTH_CREDENTIALS only
	ClientSecret string      `json:"client_secret,omitempty"` // YOUTUBE_OAUTH_CREDENTIALS only
}

// ReplaceLogin drops any existing login of the same type and appends the new one.
func ReplaceLogin(logins []Login, login Login) []Login {
	kept := make([]Login, 0, len(logins)+1)
	for _, existing := range logins {
		if existing.Type != login.Type {
			kept = append(kept, existing)
		}
	}

	return append(kept, login)
}

func RemoveLogin(logins []Login, accountType AccountType) []Login {
	kept := make([]Login, 0, len(logins))
	for _, existing := range logins {
		if existing.Type != accountType {
			kept = append(kept, existing)
		}
	}

	return kept
}

func FindLogin(logins []Login, accountType AccountType) *Login {
	for i := range logins {
		if logins[i].Type == accountType {
			return &logins[i]
		}
	}

	return nil
}

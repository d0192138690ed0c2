package model

import "time"

// Token is the bearer credential pair issued by the remote service.
type Token struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

// UserProfile is the user payload returned at login, cached locally.
type UserProfile struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role,omitempty"`
}

type AuthRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type AuthResponse struct {
	User         UserProfile `json:"user"`
	AccessToken  string      `json:"accessToken"`
	RefreshToken string      `json:"refreshToken"`
}

// SubmissionPayload is the JSON body for an audio-less (or path-referenced)
// submission. Field names follow the remote service contract.
type SubmissionPayload struct {
	WordID       string `json:"wordId"`
	LanguageID   string `json:"languageId"`
	DistrictID   string `json:"districtId"`
	TehsilID     string `json:"tehsilId"`
	VillageID    string `json:"villageId"`
	RegionalText string `json:"regionalText"`
	AudioURL     string `json:"audioUrl,omitempty"`
}

// SubmissionResponse is what the remote service returns on accept.
type SubmissionResponse struct {
	ID        string    `json:"id"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"createdAt"`
}

// ErrorBody is the JSON error shape the remote service uses on non-2xx.
type ErrorBody struct {
	Message string `json:"message"`
	Error   string `json:"error,omitempty"`
}

// Text returns the most specific human-readable message present.
func (e ErrorBody) Text() string {
	if e.Message != "" {
		return e.Message
	}
	return e.Error
}

// SubmissionFilter narrows the remote submission listing.
type SubmissionFilter struct {
	UserIDs  []string
	Statuses []string
	Page     int
	Limit    int
	Sort     string
}

// SubmissionPage is one page of the remote submission listing.
type SubmissionPage struct {
	Items []SubmissionResponse `json:"items"`
	Page  int                  `json:"page"`
	Limit int                  `json:"limit"`
	Total int                  `json:"total"`
}

// SyncReport aggregates one drain pass over the offline queue.
type SyncReport struct {
	SyncedCount int `json:"synced_count"`
	ErrorCount  int `json:"error_count"`
}

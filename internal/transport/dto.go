package transport

import "github.com/Skotchmaster/portfolio/internal/models"

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginResponse struct {
	Token        string `json:"token"`
	RefreshToken string `json:"refreshToken"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

type RefreshResponse struct {
	AccessToken string `json:"accessToken"`
}

type IDsRequest struct {
	IDs []string `json:"ids"`
}

type ElementRef struct {
	ID string `json:"_id"`
}

type ReorderRequest struct {
	Elements []ElementRef `json:"elements"`
}

type BulkTimelineRequest struct {
	Elements []models.TimelineElement `json:"elements"`
}

type ViewRequest struct {
	ProjectID string `json:"projectId"`
	SessionID string `json:"sessionId"`
}

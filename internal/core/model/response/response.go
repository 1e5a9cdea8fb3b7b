package response

import (
	"time"

	"itemtracker/internal/core/domain"
)

type UserResponse struct {
	UUID      string    `json:"uuid,omitempty"`
	Name      string    `json:"name,omitempty"`
	Email     string    `json:"email,omitempty"`
	CreatedAt time.Time `json:"created_at,omitempty"`
	UpdatedAt time.Time `json:"updated_at,omitempty"`
}

type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

type ItemResponse struct {
	ID        int       `json:"id"`
	Value     string    `json:"value"`
	Name      *string   `json:"name"`
	Notes     *string   `json:"notes"`
	Completed bool      `json:"completed"`
	Duration  *float64  `json:"duration"`
	Created   time.Time `json:"created"`
	Updated   time.Time `json:"updated"`
}

func NewItemResponse(item domain.Item) ItemResponse {
	return ItemResponse{
		ID:        item.ID,
		Value:     item.Value,
		Name:      item.Name,
		Notes:     item.Notes,
		Completed: item.Completed,
		Duration:  item.Duration,
		Created:   item.Created,
		Updated:   item.Updated,
	}
}

func NewItemListResponse(items []domain.Item) []ItemResponse {
	data := make([]ItemResponse, 0, len(items))

	for _, item := range items {
		data = append(data, NewItemResponse(item))
	}

	return data
}

type AveragePerUserResponse struct {
	AveragePerUser float64 `json:"average_per_user"`
}

type UserAverageResponse struct {
	UserID          int      `json:"user_id"`
	AverageDuration *float64 `json:"average_duration"`
}

type TotalsResponse struct {
	TotalUsers              int                   `json:"total_users"`
	OverallAverageDuration  float64               `json:"overall_average_duration"`
	AverageDurationsPerUser []UserAverageResponse `json:"average_durations_per_user"`
}

func NewTotalsResponse(totals domain.Totals) TotalsResponse {
	perUser := make([]UserAverageResponse, 0, len(totals.PerUserAverages))

	for _, avg := range totals.PerUserAverages {
		perUser = append(perUser, UserAverageResponse{
			UserID:          avg.UserID,
			AverageDuration: avg.AverageDuration,
		})
	}

	return TotalsResponse{
		TotalUsers:              totals.TotalUsers,
		OverallAverageDuration:  totals.OverallAverageDuration,
		AverageDurationsPerUser: perUser,
	}
}

type AverageDurationMinutesResponse struct {
	AverageDurationMinutes float64 `json:"average_duration_minutes"`
}

// LegacyErrorResponse is the body the average-duration endpoint sends with a
// 200 when the item does not exist.
type LegacyErrorResponse struct {
	Error string `json:"error"`
}

type DeleteResponse struct {
	Success bool `json:"success"`
}

type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

type ResponseError struct {
	Code    string            `json:"code"`
	Errors  []ValidationError `json:"errors"`
	Details any               `json:"details,omitempty"`
}

type SuccessResponse struct {
	Data    any    `json:"data,omitempty"`
	Message string `json:"message,omitempty"`
}

type ErrorResponse struct {
	Error ResponseError `json:"error"`
}

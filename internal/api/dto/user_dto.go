package dto

import "foodgram/internal/api/models"

// UserResponse: public view of a user. IsSubscribed is relative to the
// requester and always false for anonymous requests.
type UserResponse struct {
	Email        string `json:"email"`
	ID           string `json:"id"`
	Username     string `json:"username"`
	FirstName    string `json:"first_name"`
	LastName     string `json:"last_name"`
	IsSubscribed bool   `json:"is_subscribed"`
}

func UserFromModel(u models.User, isSubscribed bool) UserResponse {
	return UserResponse{
		Email:        u.Email,
		ID:           u.ID,
		Username:     u.Username,
		FirstName:    u.FirstName,
		LastName:     u.LastName,
		IsSubscribed: isSubscribed,
	}
}

// SubscriptionResponse: author view in the subscriptions listing, extended
// with the author's recipes and their count.
type SubscriptionResponse struct {
	UserResponse
	Recipes      []RecipeShortResponse `json:"recipes"`
	RecipesCount int64                 `json:"recipes_count"`
}

// SubscriptionListResponse: list of subscribed authors
type SubscriptionListResponse struct {
	Items []SubscriptionResponse `json:"items"`
	Total int                    `json:"total"`
}

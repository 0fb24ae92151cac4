package profile

import "time"

const RoleAdmin = "admin"

type AdminProfile struct {
	UID             string    `json:"uid"`
	Email           string    `json:"email"`
	Name            string    `json:"name"`
	RestaurantName  string    `json:"restaurantName"`
	RestaurantPhone string    `json:"restaurantPhone"`
	Role            string    `json:"role"`
	CreatedAt       time.Time `json:"createdAt"`
}

func (p AdminProfile) IsAdmin() bool {
	return p.Role == RoleAdmin
}

type UpdateInput struct {
	Email           *string `json:"email"`
	Name            *string `json:"name"`
	RestaurantName  *string `json:"restaurantName"`
	RestaurantPhone *string `json:"restaurantPhone"`
}

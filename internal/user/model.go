package user

import (
	"strconv"
	"time"
)

type Role string

const RoleAdmin Role = "admin"

type User struct {
	ID        uint      `json:"id"`
	Email     string    `json:"email"`
	Password  string    `json:"-"`
	Role      Role      `json:"role"`
	CreatedAt time.Time `json:"createdAt"`
}

// UID is the identity key used by the admin profile.
func (u User) UID() string {
	return strconv.FormatUint(uint64(u.ID), 10)
}

type SignUpInput struct {
	Email           string `json:"email"`
	Password        string `json:"password"`
	Name            string `json:"name"`
	RestaurantName  string `json:"restaurantName"`
	RestaurantPhone string `json:"restaurantPhone"`
}

type LoginInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

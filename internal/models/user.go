package models

import "encoding/json"

// UserDto is the transport shape of a user. Password and Role are accepted on
// input and kept in the cache, but never written to JSON output.
type UserDto struct {
	UserID    int64  `json:"userId" msgpack:"userId"`
	Name      string `json:"name" msgpack:"name" validate:"notblank,max=50"`
	Surname   string `json:"surname" msgpack:"surname" validate:"notblank,max=50"`
	BirthDate Date   `json:"birthDate" msgpack:"birthDate" validate:"required,past"`
	Email     string `json:"email" msgpack:"email" validate:"notblank,email"`
	Password  string `json:"password" msgpack:"password" validate:"notblank,min=5,max=255"`
	Role      string `json:"role" msgpack:"role" validate:"required,oneof=USER ADMIN"`
}

type userView struct {
	UserID    int64  `json:"userId"`
	Name      string `json:"name"`
	Surname   string `json:"surname"`
	BirthDate Date   `json:"birthDate"`
	Email     string `json:"email"`
}

func (u UserDto) MarshalJSON() ([]byte, error) {
	return json.Marshal(userView{
		UserID:    u.UserID,
		Name:      u.Name,
		Surname:   u.Surname,
		BirthDate: u.BirthDate,
		Email:     u.Email,
	})
}

// GreetingResponse is returned by GET /api/users/hello
type GreetingResponse struct {
	Message string `json:"message"`
}

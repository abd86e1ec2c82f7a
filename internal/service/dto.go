package service

import "github.com/Skotchmaster/portfolio/internal/models"

type CreateUserInput struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type UserPatch struct {
	Username *string `json:"username"`
	Email    *string `json:"email"`
	Password *string `json:"password"`
}

type ProjectPatch struct {
	Title       *string         `json:"title"`
	Description *string         `json:"description"`
	Details     *string         `json:"details"`
	Timeline    *string         `json:"timeline"`
	Skills      *[]string       `json:"skills"`
	Learned     *string         `json:"learned"`
	Status      *string         `json:"status"`
	Image       *string         `json:"image"`
	Public      *bool           `json:"public"`
	Media       *[]models.Media `json:"media"`
	Github      *string         `json:"github"`
	Live        *string         `json:"live"`
	Featured    *bool           `json:"featured"`
}

type BulkResult struct {
	Created    []models.Project `json:"created"`
	Duplicates []string         `json:"duplicates"`
}

type TimelinePatch struct {
	Type             *string `json:"type"`
	Year             *int    `json:"year"`
	Title            *string `json:"title"`
	Icon             *string `json:"icon"`
	ShortDescription *string `json:"shortDescription"`
	LongDescription  *string `json:"longDescription"`
	AboutMe          *string `json:"aboutMe"`
	Hobbies          *string `json:"hobbies"`
	Interests        *string `json:"interests"`
	Order            *int    `json:"order"`
}

type ContactInput struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Message string `json:"message"`
}

type ContactListQuery struct {
	SortBy    string
	SortOrder string
	Filter    string
}

func set[T any](dst *T, src *T) {
	if src != nil {
		*dst = *src
	}
}

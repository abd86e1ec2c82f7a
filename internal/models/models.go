package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

func ensureID(id *string) {
	if *id == "" {
		*id = uuid.NewString()
	}
}

type User struct {
	ID        string    `gorm:"primaryKey;type:varchar(36)"   json:"_id"`
	Username  string    `gorm:"not null"                      json:"username"`
	Email     string    `gorm:"uniqueIndex;not null"          json:"email"`
	Password  string    `gorm:"not null"                      json:"-"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (u *User) BeforeCreate(*gorm.DB) error { ensureID(&u.ID); return nil }

const (
	StatusCompleted = "completed"
	StatusWIP       = "wip"
	StatusPlanned   = "planned"
)

func ValidProjectStatus(s string) bool {
	switch s {
	case StatusCompleted, StatusWIP, StatusPlanned:
		return true
	}
	return false
}

type Media struct {
	Type string `json:"type"`
	URL  string `json:"url"`
}

type Project struct {
	ID          string    `gorm:"primaryKey;type:varchar(36)" json:"_id"`
	Title       string    `gorm:"index;not null"              json:"title"`
	Description string    `gorm:"not null"                    json:"description"`
	Details     string    `json:"details,omitempty"`
	Timeline    string    `json:"timeline,omitempty"`
	Skills      []string  `gorm:"serializer:json"             json:"skills"`
	Learned     string    `json:"learned,omitempty"`
	Status      string    `gorm:"not null;default:planned"    json:"status"`
	Image       string    `json:"image,omitempty"`
	Public      bool      `gorm:"default:false"               json:"public"`
	Media       []Media   `gorm:"serializer:json"             json:"media"`
	Github      string    `json:"github,omitempty"`
	Live        string    `json:"live,omitempty"`
	Featured    bool      `gorm:"default:false"               json:"featured"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

func (p *Project) BeforeCreate(*gorm.DB) error { ensureID(&p.ID); return nil }

type Skill struct {
	ID          string `gorm:"primaryKey;type:varchar(36)" json:"_id"`
	Category    string `json:"category"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Icon        string `json:"icon"`
	IsCore      bool   `json:"isCore"`
	Color       string `json:"color"`
}

func (s *Skill) BeforeCreate(*gorm.DB) error { ensureID(&s.ID); return nil }

const (
	TimelineProfile = "profile"
	TimelineFuture  = "future"
	TimelineEvent   = "event"
	TimelineCurrent = "current"
)

func ValidTimelineType(t string) bool {
	switch t {
	case TimelineProfile, TimelineFuture, TimelineEvent, TimelineCurrent:
		return true
	}
	return false
}

type TimelineElement struct {
	ID               string    `gorm:"primaryKey;type:varchar(36)" json:"_id"`
	Type             string    `gorm:"not null"                    json:"type"`
	Year             *int      `json:"year,omitempty"`
	Title            string    `json:"title,omitempty"`
	Icon             string    `json:"icon,omitempty"`
	ShortDescription string    `json:"shortDescription,omitempty"`
	LongDescription  string    `json:"longDescription,omitempty"`
	AboutMe          string    `json:"aboutMe,omitempty"`
	Hobbies          string    `json:"hobbies,omitempty"`
	Interests        string    `json:"interests,omitempty"`
	Order            int       `gorm:"column:position;index;not null" json:"order"`
	CreatedAt        time.Time `json:"createdAt"`
	UpdatedAt        time.Time `json:"updatedAt"`
}

func (t *TimelineElement) BeforeCreate(*gorm.DB) error { ensureID(&t.ID); return nil }

type Contact struct {
	ID        string    `gorm:"primaryKey;type:varchar(36)" json:"_id"`
	Name      string    `gorm:"not null"                    json:"name"`
	Email     string    `gorm:"not null"                    json:"email"`
	Message   string    `gorm:"not null"                    json:"message"`
	Read      bool      `gorm:"index;default:false"         json:"read"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (c *Contact) BeforeCreate(*gorm.DB) error { ensureID(&c.ID); return nil }

// View is stored either in MongoDB or, without one, in the relational database.
type View struct {
	ID        string    `gorm:"primaryKey;type:varchar(36)" json:"_id"       bson:"_id"`
	ProjectID *string   `gorm:"index;type:varchar(64)"      json:"projectId" bson:"projectId"`
	SessionID string    `gorm:"not null"                    json:"sessionId" bson:"sessionId"`
	Timestamp time.Time `gorm:"column:viewed_at;index;not null" json:"timestamp" bson:"timestamp"`
}

func (v *View) BeforeCreate(*gorm.DB) error { ensureID(&v.ID); return nil }

type DailyCount struct {
	Day   string `json:"day"   bson:"_id"`
	Count int64  `json:"count" bson:"count"`
}

func All() []any {
	return []any{&User{}, &Project{}, &Skill{}, &TimelineElement{}, &Contact{}, &View{}}
}

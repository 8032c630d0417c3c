package models

import "time"

// RegistrationRow is the relational shape of a registration. Column names are
// snake_case; interests are stored as a JSON array.
type RegistrationRow struct {
	ID         int64     `gorm:"column:id;primaryKey;autoIncrement"`
	Name       string    `gorm:"column:name;type:text;not null"`
	Email      string    `gorm:"column:email;size:255;index"`
	Phone      string    `gorm:"column:phone;type:text"`
	Experience string    `gorm:"column:experience;type:text"`
	Interests  []string  `gorm:"column:interests;type:text;serializer:json"`
	HearAbout  string    `gorm:"column:hear_about;type:text"`
	Notes      string    `gorm:"column:notes;type:text"`
	CreatedAt  time.Time `gorm:"column:created_at"`
}

// TableName overrides the table name.
func (RegistrationRow) TableName() string {
	return "registrations"
}

// ToRow converts a registration to its relational shape.
func ToRow(r Registration) RegistrationRow {
	return RegistrationRow{
		ID:         r.ID,
		Name:       r.Name,
		Email:      r.Email,
		Phone:      r.Phone,
		Experience: string(r.Experience),
		Interests:  r.Interests,
		HearAbout:  r.HearAbout,
		Notes:      r.Notes,
		CreatedAt:  r.RegistrationDate,
	}
}

// ToRegistration converts a row to the canonical registration.
func (row RegistrationRow) ToRegistration() Registration {
	interests := row.Interests
	if interests == nil {
		interests = []string{}
	}
	return Registration{
		ID:               row.ID,
		Name:             row.Name,
		Email:            row.Email,
		Phone:            row.Phone,
		Experience:       Experience(row.Experience),
		Interests:        interests,
		HearAbout:        row.HearAbout,
		Notes:            row.Notes,
		RegistrationDate: Stamp(row.CreatedAt),
	}
}

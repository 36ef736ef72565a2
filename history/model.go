package history

import (
	"time"

	"spine-mod-loader/assets"
)

// MaxEntries is the number of folders kept in the history
const MaxEntries = 50

// Entry is one previously opened mod folder
type Entry struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Path        string    `gorm:"uniqueIndex;not null" json:"path"`
	ModType     string    `gorm:"not null" json:"modType"`
	CharacterID *string   `json:"modId,omitempty"`
	OpenedAt    time.Time `gorm:"index;not null" json:"openedAt"`
}

// TableName overrides the gorm default
func (Entry) TableName() string {
	return "history_entries"
}

// Category returns the parsed mod type, Unknown when the stored name is not recognised
func (e Entry) Category() assets.ModCategory {
	return assets.ParseModCategory(e.ModType)
}

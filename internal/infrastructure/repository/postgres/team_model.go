package postgres

import (
	"database/sql"
	"time"

	"github.com/quinielabs/quiniela-assistant/internal/domain/team"
)

type teamTableModel struct {
	ID              int64         `db:"id"`
	PublicID        string        `db:"public_id"`
	ExternalID      sql.NullInt64 `db:"external_id"`
	LeagueID        string        `db:"league_id"`
	Name            string        `db:"name"`
	Short           string        `db:"short"`
	LogoURL         string        `db:"logo_url"`
	StadiumCapacity int           `db:"stadium_capacity"`
	FoundedYear     int           `db:"founded_year"`
	CreatedAt       time.Time     `db:"created_at"`
	UpdatedAt       time.Time     `db:"updated_at"`
	DeletedAt       *time.Time    `db:"deleted_at"`
}

type teamInsertModel struct {
	PublicID        string `db:"public_id"`
	ExternalID      *int64 `db:"external_id"`
	LeagueID        string `db:"league_id"`
	Name            string `db:"name"`
	Short           string `db:"short"`
	LogoURL         string `db:"logo_url"`
	StadiumCapacity int    `db:"stadium_capacity"`
	FoundedYear     int    `db:"founded_year"`
}

func (m teamTableModel) toDomain() team.Team {
	return team.Team{
		ID:              m.PublicID,
		ExternalID:      nullInt64ToInt64(m.ExternalID),
		LeagueID:        m.LeagueID,
		Name:            m.Name,
		Short:           m.Short,
		LogoURL:         m.LogoURL,
		StadiumCapacity: m.StadiumCapacity,
		FoundedYear:     m.FoundedYear,
	}
}

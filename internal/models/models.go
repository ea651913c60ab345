// Package models defines the data structures (models) that map to database tables.
// GORM uses these structs to generate SQL queries and map database rows back to Go
// values; the struct field tags tell GORM each column's type, constraints and
// relationships.
//
// The data model represents a club golf competition platform where:
//   - Players inscribe into Tournaments played at Courses
//   - Each (tournament, player) pair owns one Scorecard with per-hole HoleScores
//   - "Frutales"-format tournaments are converted into points tables (FrutalesScore)
//   - Tournaments are grouped into Stages inside a Season, and stage results are
//     aggregated into a season Playoff ranking
//
// FrutalesScore, StageScore and PlayoffResult are pure derived state: they are
// created and destroyed entirely by their owning engine's recompute and are never
// mutated by anything else.
package models

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// --- Enums ---
// Go has no enum keyword; a named string type plus constants gives type safety
// while keeping the values human-readable in the database.

// UserRole is a user's global permission level.
type UserRole string

const (
	UserRoleAdmin  UserRole = "admin"  // Full access: manage tournaments, recompute rankings
	UserRoleScorer UserRole = "scorer" // Can enter and deliver scores on behalf of players
	UserRoleUser   UserRole = "user"   // Regular player
)

// TournamentType describes the competitive format of a tournament.
// Only "FRUTALES" tournaments are eligible for points scoring and
// stage/playoff aggregation.
type TournamentType string

const (
	TournamentTypeClasico  TournamentType = "CLASICO"
	TournamentTypeFrutales TournamentType = "FRUTALES"
)

// TournamentStatus tracks the lifecycle of a tournament.
type TournamentStatus string

const (
	TournamentStatusPending   TournamentStatus = "PENDING"
	TournamentStatusActive    TournamentStatus = "ACTIVE"
	TournamentStatusFinalized TournamentStatus = "FINALIZED"
)

// ScorecardStatus is the scorecard's state machine.
//
//	IN_PROGRESS  initial; hole scores may be incomplete
//	DELIVERED    terminal for normal scoring; every player stroke filled,
//	             delivery timestamp set
//	CANCELLED    reachable only from IN_PROGRESS while scores are incomplete
//	             (a complete card must be delivered, never cancelled)
//	DISQUALIFIED reachable from any state; reversible back to DELIVERED or
//	             IN_PROGRESS depending on completeness
type ScorecardStatus string

const (
	ScorecardStatusInProgress   ScorecardStatus = "IN_PROGRESS"
	ScorecardStatusDelivered    ScorecardStatus = "DELIVERED"
	ScorecardStatusCancelled    ScorecardStatus = "CANCELLED"
	ScorecardStatusDisqualified ScorecardStatus = "DISQUALIFIED"
)

// --- Models ---

// User is a registered account able to call the API. Players are a separate
// concept: a player is a competitor, a user is a login.
type User struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Username     string    `gorm:"uniqueIndex;not null"`
	PasswordHash string    `gorm:"not null"`
	DisplayName  string    `gorm:"not null"`
	Role         UserRole  `gorm:"type:user_role;not null;default:'user'"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Player is a competitor. The handicap index is the player's current WHS
// index and is nullable; new members may not have one yet.
type Player struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	FirstName     string    `gorm:"not null;size:100"`
	LastName      string    `gorm:"not null;size:100"`
	Matricula     string    `gorm:"uniqueIndex;not null;size:50"` // Club membership number
	Email         *string
	Phone         *string  `gorm:"size:50"`
	ClubOrigin    *string  // Visiting players carry their home club
	HandicapIndex *float64 `gorm:"type:decimal(4,1)"`
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// FullName returns the display form used throughout rankings: "LastName FirstName".
func (p *Player) FullName() string {
	return fmt.Sprintf("%s %s", p.LastName, p.FirstName)
}

// Course is a golf course. Holes hang off the course directly; tee-specific
// data (conversion table) lives on CourseTee.
type Course struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Name         string    `gorm:"not null"`
	City         *string   `gorm:"size:100"`
	HoleCount    int       `gorm:"not null;default:18"`
	CourseRating *float64  `gorm:"type:decimal(4,1)"`
	SlopeRating  *int
	CreatedAt    time.Time
	UpdatedAt    time.Time
	Tees         []CourseTee `gorm:"foreignKey:CourseID"`
	Holes        []Hole      `gorm:"foreignKey:CourseID"`
}

// CourseTee is one set of tee boxes on a course (e.g. "Azul", "Blanco").
type CourseTee struct {
	ID       uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	CourseID uuid.UUID `gorm:"type:uuid;not null"`
	Course   Course    `gorm:"foreignKey:CourseID"`
	Name     string    `gorm:"not null"`
}

// Hole stores per-hole details. Number runs 1..HoleCount; StrokeIndex is the
// handicap allocation order.
type Hole struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	CourseID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_course_hole"`
	Course      Course    `gorm:"foreignKey:CourseID"`
	Number      int       `gorm:"not null;uniqueIndex:idx_course_hole"`
	Par         int       `gorm:"not null"`
	StrokeIndex int       `gorm:"not null"`
}

// HandicapConversion maps a handicap-index range to a course handicap for a
// specific tee. Read when a scorecard is created, never by the ranking engines.
type HandicapConversion struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	TeeID          uuid.UUID `gorm:"type:uuid;not null"`
	Tee            CourseTee `gorm:"foreignKey:TeeID"`
	IndexFrom      float64   `gorm:"type:decimal(4,1);not null"`
	IndexTo        float64   `gorm:"type:decimal(4,1);not null"`
	CourseHandicap int       `gorm:"not null"`
}

// Tournament is a single competition date.
type Tournament struct {
	ID           uuid.UUID        `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Name         string           `gorm:"not null"`
	Code         string           `gorm:"uniqueIndex;not null;size:20"`
	Type         TournamentType   `gorm:"type:tournament_type;not null;default:'CLASICO'"`
	Status       TournamentStatus `gorm:"type:tournament_status;not null;default:'PENDING'"`
	CourseID     uuid.UUID        `gorm:"type:uuid;not null"`
	Course       Course           `gorm:"foreignKey:CourseID"`
	StartDate    time.Time        `gorm:"not null"`
	EndDate      *time.Time
	DoublePoints bool `gorm:"not null;default:false"` // 2x multiplier on every Frutales point
	CreatedAt    time.Time
	UpdatedAt    time.Time
	Categories   []TournamentCategory `gorm:"foreignKey:TournamentID"`
}

// TournamentCategory is an inclusive [HandicapMin, HandicapMax] bracket. A
// player's category is re-derived from the scorecard's course handicap on
// every leaderboard computation; the inscription-level category is only a
// fallback shown before any handicap exists.
type TournamentCategory struct {
	ID           uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	TournamentID uuid.UUID  `gorm:"type:uuid;not null"`
	Tournament   Tournament `gorm:"foreignKey:TournamentID"`
	Name         string     `gorm:"not null;size:100"`
	HandicapMin  float64    `gorm:"type:decimal(4,1);not null"`
	HandicapMax  float64    `gorm:"type:decimal(4,1);not null"`
}

// Inscription registers a player into a tournament. Paid tracks the entry fee.
type Inscription struct {
	ID             uuid.UUID           `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	TournamentID   uuid.UUID           `gorm:"type:uuid;not null;uniqueIndex:idx_tournament_player"`
	Tournament     Tournament          `gorm:"foreignKey:TournamentID"`
	PlayerID       uuid.UUID           `gorm:"type:uuid;not null;uniqueIndex:idx_tournament_player"`
	Player         Player              `gorm:"foreignKey:PlayerID"`
	CategoryID     *uuid.UUID          `gorm:"type:uuid"`
	Category       *TournamentCategory `gorm:"foreignKey:CategoryID"`
	HandicapCourse *float64            `gorm:"type:decimal(4,1)"`
	Paid           bool                `gorm:"not null;default:false"`
	CreatedAt      time.Time
}

// Scorecard is the one card a player keeps during a tournament round.
//
// Invariant: a card with all holes filled and status DELIVERED always has a
// non-nil DeliveredAt.
type Scorecard struct {
	ID             uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	TournamentID   uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_scorecard_tournament_player"`
	Tournament     Tournament      `gorm:"foreignKey:TournamentID"`
	PlayerID       uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_scorecard_tournament_player"`
	Player         Player          `gorm:"foreignKey:PlayerID"`
	MarkerID       *uuid.UUID      `gorm:"type:uuid"` // Fellow competitor keeping the duplicate card
	Marker         *Player         `gorm:"foreignKey:MarkerID"`
	HandicapCourse *float64        `gorm:"type:decimal(4,2)"` // Assigned from the conversion table at creation
	Status         ScorecardStatus `gorm:"type:scorecard_status;not null;default:'IN_PROGRESS'"`
	DeliveredAt    *time.Time
	CreatedAt      time.Time
	UpdatedAt      time.Time
	HoleScores     []HoleScore `gorm:"foreignKey:ScorecardID"`
}

// HoleScore records the strokes on a single hole. PlayerStrokes is what the
// player writes for themselves, MarkerStrokes the duplicate kept by the
// marker; only PlayerStrokes feeds scoring. Both are nil until entered.
type HoleScore struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	ScorecardID   uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_scorecard_hole"`
	Scorecard     Scorecard `gorm:"foreignKey:ScorecardID"`
	HoleID        uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_scorecard_hole"`
	Hole          Hole      `gorm:"foreignKey:HoleID"`
	PlayerStrokes *int
	MarkerStrokes *int
}

// FrutalesScore is the computed points row for one scorecard in one Frutales
// tournament. Position is nil for disqualified entries. The whole set for a
// tournament is replaced on every recompute.
type FrutalesScore struct {
	ID                  uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	TournamentID        uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex:idx_frutales_tournament_card"`
	Tournament          Tournament `gorm:"foreignKey:TournamentID"`
	ScorecardID         uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex:idx_frutales_tournament_card"`
	Scorecard           Scorecard  `gorm:"foreignKey:ScorecardID"`
	PlayerID            uuid.UUID  `gorm:"type:uuid;not null"`
	Player              Player     `gorm:"foreignKey:PlayerID"`
	Position            *int
	PositionPoints      int `gorm:"not null;default:0"`
	BirdieCount         int `gorm:"not null;default:0"`
	BirdiePoints        int `gorm:"not null;default:0"`
	EagleCount          int `gorm:"not null;default:0"`
	EaglePoints         int `gorm:"not null;default:0"`
	AceCount            int `gorm:"not null;default:0"`
	AcePoints           int `gorm:"not null;default:0"`
	ParticipationPoints int `gorm:"not null;default:0"`
	TotalPoints         int `gorm:"not null;default:0"`
	CreatedAt           time.Time
}

// Season is the year-long container whose stages feed the playoff.
type Season struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Name      string    `gorm:"not null"`
	Year      int       `gorm:"not null"`
	CreatedAt time.Time
	UpdatedAt time.Time
	Stages    []Stage `gorm:"foreignKey:SeasonID"`
}

// Stage is a named group of tournaments ("dates") inside a season, scored
// cumulatively. A tournament belongs to at most one stage per season.
type Stage struct {
	ID          uuid.UUID    `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	SeasonID    uuid.UUID    `gorm:"type:uuid;not null"`
	Season      Season       `gorm:"foreignKey:SeasonID"`
	Name        string       `gorm:"not null"`
	Tournaments []Tournament `gorm:"many2many:stage_tournaments"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// StageScore is the computed aggregation row for one player in one stage.
// The tie-break columns snapshot the inputs the stage ranking was decided on.
// The whole set for a stage is replaced on every recompute.
type StageScore struct {
	ID                    uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	StageID               uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_stage_player"`
	Stage                 Stage     `gorm:"foreignKey:StageID"`
	PlayerID              uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_stage_player"`
	Player                Player    `gorm:"foreignKey:PlayerID"`
	TotalPoints           int       `gorm:"not null;default:0"`
	Position              *int
	TieBreakHandicapIndex *float64 `gorm:"type:decimal(4,1)"`
	LastTournamentNet     *float64 `gorm:"type:decimal(10,2)"` // Net score at the stage's chronologically last date
	CreatedAt             time.Time
}

// PlayoffResult is the computed season-level row for one player. Qualified is
// true for the top 8 positions. The whole set for a season is replaced on
// every recompute.
type PlayoffResult struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	SeasonID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_playoff_season_player"`
	Season      Season    `gorm:"foreignKey:SeasonID"`
	PlayerID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_playoff_season_player"`
	Player      Player    `gorm:"foreignKey:PlayerID"`
	TotalPoints int       `gorm:"not null;default:0"`
	Position    int       `gorm:"not null"`
	Qualified   bool      `gorm:"not null;default:false"`
	CreatedAt   time.Time
}

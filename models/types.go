package models

import (
	"time"

	"github.com/danielhkuo/carshow/votestatus"
)

// Request types

type LoginRequest struct {
	Password string `json:"password"`
}

type SetScheduleRequest struct {
	OpensAt  time.Time `json:"opens_at"`
	ClosesAt time.Time `json:"closes_at"`
}

type CreateVehicleRequest struct {
	OwnerName   string `json:"owner_name"`
	Year        int    `json:"year"`
	Make        string `json:"make"`
	Model       string `json:"model"`
	Description string `json:"description"`
	ImageURL    string `json:"image_url"`
}

type RegisterVoterRequest struct {
	DisplayName string `json:"display_name"`
}

// Response types

type LoginResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

type RegisterVoterResponse struct {
	VoterToken string `json:"voter_token"`
}

type CastVoteResponse struct {
	VoteID    string `json:"vote_id"`
	VehicleID string `json:"vehicle_id"`
	Message   string `json:"message"`
}

type VotingStatusResponse struct {
	Status            votestatus.Status    `json:"status"`
	Schedule          *votestatus.Schedule `json:"schedule"`
	IsVotingOpen      bool                 `json:"is_voting_open"`
	HasVotingEnded    bool                 `json:"has_voting_ended"`
	SecondsUntilOpen  *int64               `json:"seconds_until_open,omitempty"`
	SecondsUntilClose *int64               `json:"seconds_until_close,omitempty"`
	Message           string               `json:"message"`
	UpdatedAt         time.Time            `json:"updated_at"`
}

// Reports which settings are present, never their values
type EnvCheckResponse struct {
	DatabaseConfigured  bool   `json:"database_configured"`
	DatabaseType        string `json:"database_type"`
	AdminPasswordSet    bool   `json:"admin_password_set"`
	JWTSecretSet        bool   `json:"jwt_secret_set"`
	VoterSaltSet        bool   `json:"voter_salt_set"`
	RemoteStatusSource  bool   `json:"remote_status_source"`
	RedisConfigured     bool   `json:"redis_configured"`
	PollIntervalSeconds int64  `json:"poll_interval_seconds"`
}

// Domain types

type Vehicle struct {
	ID          string    `json:"id"`
	OwnerName   string    `json:"owner_name"`
	Year        int       `json:"year"`
	Make        string    `json:"make"`
	Model       string    `json:"model"`
	Description string    `json:"description"`
	ImageURL    string    `json:"image_url"`
	CreatedAt   time.Time `json:"created_at"`
	Votes       *int      `json:"votes,omitempty"` // Only once voting has ended
}

type Vote struct {
	ID        string    `json:"id"`
	VoterID   string    `json:"-"`
	VehicleID string    `json:"vehicle_id"`
	CastAt    time.Time `json:"cast_at"`
	IPHash    *string   `json:"-"` // Never expose in JSON
	UserAgent *string   `json:"-"` // Never expose in JSON
}

type VehicleTally struct {
	VehicleID string `json:"vehicle_id"`
	Label     string `json:"label"`
	OwnerName string `json:"owner_name"`
	Votes     int    `json:"votes"`
	Rank      int    `json:"rank"` // 1-indexed, ties share a rank
}

type Results struct {
	ComputedAt time.Time      `json:"computed_at"`
	TotalVotes int            `json:"total_votes"`
	Rankings   []VehicleTally `json:"rankings"`
}

// Error response

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

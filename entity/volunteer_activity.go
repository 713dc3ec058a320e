package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ActivityStatus enumerates the lifecycle of a volunteer activity.
type ActivityStatus string

const (
	ActivityPlanning   ActivityStatus = "PLANNING"    // being prepared, not visible for applying
	ActivityRecruiting ActivityStatus = "RECRUITING"  // accepting applications
	ActivitySelected   ActivityStatus = "SELECTED"    // participants chosen
	ActivityInProgress ActivityStatus = "IN_PROGRESS" // happening now
	ActivityCompleted  ActivityStatus = "COMPLETED"
	ActivityCancelled  ActivityStatus = "CANCELLED"
)

// activityTransitions lists the allowed next states. CANCELLED is reachable
// from every non-terminal state.
var activityTransitions = map[ActivityStatus][]ActivityStatus{
	ActivityPlanning:   {ActivityRecruiting, ActivityCancelled},
	ActivityRecruiting: {ActivitySelected, ActivityCancelled},
	ActivitySelected:   {ActivityInProgress, ActivityCancelled},
	ActivityInProgress: {ActivityCompleted, ActivityCancelled},
	ActivityCompleted:  nil,
	ActivityCancelled:  nil,
}

func (s ActivityStatus) Valid() bool {
	_, ok := activityTransitions[s]
	return ok
}

// Terminal reports whether no further transition is possible.
func (s ActivityStatus) Terminal() bool {
	return s.Valid() && len(activityTransitions[s]) == 0
}

// CanTransitionTo reports whether next is an allowed successor of s.
// Staying in the same state is always allowed.
func (s ActivityStatus) CanTransitionTo(next ActivityStatus) bool {
	if !next.Valid() {
		return false
	}
	if s == next {
		return true
	}
	for _, n := range activityTransitions[s] {
		if n == next {
			return true
		}
	}
	return false
}

// ActiveCommitment reports whether a selected volunteer of an activity in
// this state still has an obligation towards it.
func (s ActivityStatus) ActiveCommitment() bool {
	return s == ActivityRecruiting || s == ActivitySelected || s == ActivityInProgress
}

// CommitmentStatuses is ActiveCommitment as a list, for queries.
var CommitmentStatuses = []ActivityStatus{ActivityRecruiting, ActivitySelected, ActivityInProgress}

// Seoul is the fixed timezone used for day-granularity deadline checks.
var Seoul = time.FixedZone("Asia/Seoul", 9*60*60)

// VolunteerActivity is a recruitable volunteer event.
type VolunteerActivity struct {
	ID                  uuid.UUID      `json:"id" gorm:"type:uuid;primaryKey;default:uuid_generate_v4()"`
	Title               string         `json:"title" gorm:"type:text;not null"`
	Description         string         `json:"description" gorm:"type:text;not null"`
	StartAt             time.Time      `json:"startAt" gorm:"not null;index"`
	EndAt               time.Time      `json:"endAt" gorm:"not null"`
	Location            string         `json:"location" gorm:"type:text;not null"`
	Status              ActivityStatus `json:"status" gorm:"type:text;index;not null;default:'PLANNING'"`
	ApplicationDeadline time.Time      `json:"applicationDeadline" gorm:"not null"`
	ManagerID           uuid.UUID      `json:"managerId" gorm:"type:uuid;index;not null"`
	MaxParticipants     *int           `json:"maxParticipants"`
	Qualifications      *string        `json:"qualifications" gorm:"type:text"`
	Materials           *string        `json:"materials" gorm:"type:text"`
	CreatedAt           time.Time      `json:"createdAt"`
	UpdatedAt           time.Time      `json:"updatedAt"`
	DeletedAt           gorm.DeletedAt `json:"-" gorm:"index"`

	Manager      *User         `json:"manager,omitempty" gorm:"foreignKey:ManagerID"`
	Applications []Application `json:"applications,omitempty" gorm:"foreignKey:VolunteerActivityID"`
}

// DeadlinePassed compares now and the application deadline by calendar day
// in Seoul time: the deadline day itself is still open.
func (a *VolunteerActivity) DeadlinePassed(now time.Time) bool {
	return day(now).After(day(a.ApplicationDeadline))
}

// Started reports whether now is at or after the start time.
func (a *VolunteerActivity) Started(now time.Time) bool {
	return !now.Before(a.StartAt)
}

// Full reports whether count applications reach the participant cap.
func (a *VolunteerActivity) Full(count int) bool {
	return a.MaxParticipants != nil && count >= *a.MaxParticipants
}

// ManagedBy reports whether userID is the activity manager.
func (a *VolunteerActivity) ManagedBy(userID uuid.UUID) bool {
	return a.ManagerID == userID
}

func day(t time.Time) time.Time {
	y, m, d := t.In(Seoul).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, Seoul)
}

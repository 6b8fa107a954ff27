package model

import (
	"context"
	"fmt"
)

// FundingStatus is the lifecycle state of a funding application.
type FundingStatus string

const (
	FundingDraft     FundingStatus = "DRAFT"
	FundingSubmitted FundingStatus = "SUBMITTED"
	FundingInReview  FundingStatus = "IN_REVIEW"
	FundingApproved  FundingStatus = "APPROVED"
	FundingRejected  FundingStatus = "REJECTED"
	FundingCancelled FundingStatus = "CANCELLED"
)

// ParseFundingStatus validates a raw status string.
func ParseFundingStatus(s string) (FundingStatus, error) {
	switch FundingStatus(s) {
	case FundingDraft, FundingSubmitted, FundingInReview, FundingApproved, FundingRejected, FundingCancelled:
		return FundingStatus(s), nil
	}
	return "", fmt.Errorf("unknown funding status %q", s)
}

// CanTransitionTo reports whether moving to next is a legal lifecycle step.
// Approved, rejected and cancelled applications are terminal.
func (s FundingStatus) CanTransitionTo(next FundingStatus) bool {
	switch s {
	case FundingDraft:
		return next == FundingSubmitted || next == FundingCancelled
	case FundingSubmitted:
		return next == FundingInReview || next == FundingCancelled
	case FundingInReview:
		return next == FundingApproved || next == FundingRejected || next == FundingCancelled
	}
	return false
}

// Terminal reports whether no further transitions are possible.
func (s FundingStatus) Terminal() bool {
	return s == FundingApproved || s == FundingRejected || s == FundingCancelled
}

// FundingApplication is a club's request for money in a given semester.
type FundingApplication struct {
	record
	loader Loader

	description *string
	amount      *float64
	state       *FundingStatus
	semester    *int
	clubID      *int64
	reviewerID  *int64
	version     *int
}

// NewFundingApplication builds an application that has not been persisted yet.
func NewFundingApplication(description string, amount float64, state FundingStatus, semester int, clubID int64) *FundingApplication {
	return &FundingApplication{
		description: &description,
		amount:      &amount,
		state:       &state,
		semester:    &semester,
		clubID:      &clubID,
	}
}

// FundingRef builds a stub whose attributes hydrate on first access.
func FundingRef(id int64, loader Loader) *FundingApplication {
	f := &FundingApplication{loader: loader}
	f.SetID(id)
	return f
}

// FundingRefVersion builds a stub with the version pre-loaded, as returned
// by finders on versioned tables.
func FundingRefVersion(id int64, version int, loader Loader) *FundingApplication {
	f := FundingRef(id, loader)
	f.version = &version
	return f
}

func (f *FundingApplication) Description(ctx context.Context) (string, error) {
	if f.description == nil && f.loader != nil {
		v, err := f.loader.FundingDescription(ctx, f.ID())
		if err != nil {
			return "", err
		}
		f.description = &v
	}
	if f.description == nil {
		return "", nil
	}
	return *f.description, nil
}

func (f *FundingApplication) SetDescription(description string) { f.description = &description }

func (f *FundingApplication) Amount(ctx context.Context) (float64, error) {
	if f.amount == nil && f.loader != nil {
		v, err := f.loader.FundingAmount(ctx, f.ID())
		if err != nil {
			return 0, err
		}
		f.amount = &v
	}
	if f.amount == nil {
		return 0, nil
	}
	return *f.amount, nil
}

func (f *FundingApplication) SetAmount(amount float64) { f.amount = &amount }

func (f *FundingApplication) State(ctx context.Context) (FundingStatus, error) {
	if f.state == nil && f.loader != nil {
		v, err := f.loader.FundingState(ctx, f.ID())
		if err != nil {
			return "", err
		}
		f.state = &v
	}
	if f.state == nil {
		return "", nil
	}
	return *f.state, nil
}

func (f *FundingApplication) SetState(state FundingStatus) { f.state = &state }

func (f *FundingApplication) Semester(ctx context.Context) (int, error) {
	if f.semester == nil && f.loader != nil {
		v, err := f.loader.FundingSemester(ctx, f.ID())
		if err != nil {
			return 0, err
		}
		f.semester = &v
	}
	if f.semester == nil {
		return 0, nil
	}
	return *f.semester, nil
}

func (f *FundingApplication) SetSemester(semester int) { f.semester = &semester }

func (f *FundingApplication) Club(ctx context.Context) (*StudentClub, error) {
	if f.clubID == nil && f.loader != nil {
		id, err := f.loader.FundingClubID(ctx, f.ID())
		if err != nil {
			return nil, err
		}
		f.clubID = &id
	}
	if f.clubID == nil {
		return nil, nil
	}
	return ClubRef(*f.clubID, f.loader), nil
}

func (f *FundingApplication) SetClubID(id int64) { f.clubID = &id }

// Reviewer returns the faculty admin handling the application, nil when the
// application has not been picked up.
func (f *FundingApplication) Reviewer(ctx context.Context) (*FacultyAdmin, error) {
	if f.reviewerID == nil && f.loader != nil {
		id, err := f.loader.FundingReviewerID(ctx, f.ID())
		if err != nil {
			return nil, err
		}
		f.reviewerID = &id
	}
	if f.reviewerID == nil || *f.reviewerID == 0 {
		return nil, nil
	}
	return FacultyRef(*f.reviewerID, f.loader), nil
}

func (f *FundingApplication) SetReviewer(facultyID int64) { f.reviewerID = &facultyID }

func (f *FundingApplication) Version(ctx context.Context) (int, error) {
	if f.version == nil && f.loader != nil {
		v, err := f.loader.FundingVersion(ctx, f.ID())
		if err != nil {
			return 0, err
		}
		f.version = &v
	}
	if f.version == nil {
		return 0, nil
	}
	return *f.version, nil
}

func (f *FundingApplication) SetVersion(version int) { f.version = &version }

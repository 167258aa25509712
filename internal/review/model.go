package review

import (
	"time"

	"github.com/google/uuid"

	"github.com/orgkit/orgkit/internal/policy"
)

// AnonymousReviewer is the reviewer name shown to viewers who may not see
// the real identity.
const AnonymousReviewer = "Anonymous"

// Review represents a row in the reviews table, joined with the display
// names of the reviewer, the optional reviewee, and the project. A review
// with no reviewee evaluates the project itself; one with a reviewee
// evaluates that person.
type Review struct {
	ID             uuid.UUID
	ReviewerID     uuid.UUID
	RevieweeUserID *uuid.UUID
	ProjectID      uuid.UUID
	Rating         int
	Content        string
	CreatedAt      time.Time
	UpdatedAt      time.Time

	ReviewerName string
	RevieweeName *string
	ProjectName  string
}

// Ref returns the policy engine's view of this review.
func (r *Review) Ref() policy.ReviewRef {
	return policy.ReviewRef{
		ReviewerID: r.ReviewerID,
		RevieweeID: r.RevieweeUserID,
		ProjectID:  r.ProjectID,
	}
}

// IsUserReview reports whether the review is about a person.
func (r *Review) IsUserReview() bool {
	return r.RevieweeUserID != nil
}

// IsProjectReview reports whether the review is about the project only.
func (r *Review) IsProjectReview() bool {
	return r.RevieweeUserID == nil
}

// VisibleReviewerName returns the reviewer name to display to the given
// viewer. Only executives see the real identity; every other viewer gets
// AnonymousReviewer, including the review's own author.
func (r *Review) VisibleReviewerName(viewer *policy.Actor) string {
	if viewer == nil {
		return AnonymousReviewer
	}

	if viewer.IsExecutive() {
		return r.ReviewerName
	}

	return AnonymousReviewer
}

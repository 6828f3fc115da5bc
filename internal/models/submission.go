package models

import "time"

type PurchaseStatus string

const (
	PurchasePending   PurchaseStatus = "pending"
	PurchaseCompleted PurchaseStatus = "completed"
	PurchaseCancelled PurchaseStatus = "cancelled"
)

// Valid reports whether s is one of the known statuses
func (s PurchaseStatus) Valid() bool {
	switch s {
	case PurchasePending, PurchaseCompleted, PurchaseCancelled:
		return true
	}
	return false
}

type ContactInquiry struct {
	ID        string    `json:"id" db:"id"`
	Name      string    `json:"name" db:"name"`
	Email     string    `json:"email" db:"email"`
	Phone     string    `json:"phone,omitempty" db:"phone"`
	Subject   string    `json:"subject" db:"subject"`
	Message   string    `json:"message" db:"message"`
	IPAddress string    `json:"ipAddress" db:"ip_address"`
	UserAgent string    `json:"userAgent" db:"user_agent"`
	Timezone  string    `json:"timezone,omitempty" db:"timezone"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
}

type CoursePurchase struct {
	ID          string         `json:"id" db:"id"`
	Name        string         `json:"name" db:"name"`
	Email       string         `json:"email" db:"email"`
	Phone       string         `json:"phone,omitempty" db:"phone"`
	CourseSlug  string         `json:"courseSlug" db:"course_slug"`
	CourseTitle string         `json:"courseTitle" db:"course_title"`
	CoursePrice float64        `json:"coursePrice" db:"course_price"`
	Status      PurchaseStatus `json:"status" db:"status"`
	IPAddress   string         `json:"ipAddress" db:"ip_address"`
	UserAgent   string         `json:"userAgent" db:"user_agent"`
	CreatedAt   time.Time      `json:"createdAt" db:"created_at"`
}

// PurchaseConfirmation is the minimal payload returned to the buyer
type PurchaseConfirmation struct {
	PurchaseID  string `json:"purchaseId"`
	CourseTitle string `json:"courseTitle"`
	Email       string `json:"email"`
}

// RequestMeta carries client details captured at the HTTP boundary
type RequestMeta struct {
	IPAddress string
	UserAgent string
	Timezone  string
}

type SubmissionKind string

const (
	SubmissionContact  SubmissionKind = "contact"
	SubmissionPurchase SubmissionKind = "purchase"
)

// SubmissionEvent is published after a submission is stored. It carries no
// personal data beyond the record id.
type SubmissionEvent struct {
	Kind       SubmissionKind `json:"kind"`
	ID         string         `json:"id"`
	CourseSlug string         `json:"courseSlug,omitempty"`
	CreatedAt  time.Time      `json:"createdAt"`
}

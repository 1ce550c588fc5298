package models

import "time"

type ComplaintCategory string

const (
	ComplaintCategoryProduct ComplaintCategory = "Product"
	ComplaintCategoryService ComplaintCategory = "Service"
	ComplaintCategorySupport ComplaintCategory = "Support"
)

type ComplaintPriority string

const (
	ComplaintPriorityLow    ComplaintPriority = "Low"
	ComplaintPriorityMedium ComplaintPriority = "Medium"
	ComplaintPriorityHigh   ComplaintPriority = "High"
)

type ComplaintStatus string

const (
	ComplaintStatusPending    ComplaintStatus = "Pending"
	ComplaintStatusInProgress ComplaintStatus = "In Progress"
	ComplaintStatusResolved   ComplaintStatus = "Resolved"
)

type Complaint struct {
	ID          string
	UserID      string
	Title       string
	Description string
	Category    ComplaintCategory
	Priority    ComplaintPriority
	Status      ComplaintStatus
	SubmittedAt time.Time
	UpdatedAt   time.Time
}

type Attachment struct {
	ID          string
	ComplaintID string
	ObjectKey   string
	FileName    string
	ContentType string
	SizeBytes   int64
	CreatedAt   time.Time
}

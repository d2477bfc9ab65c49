package dto

// ListAuditLogsRequest carries the filter and paging parameters for the
// audit log listing used by the admin dashboard.
type ListAuditLogsRequest struct {
	Resource string `form:"resource" binding:"omitempty,oneof=student medication"`
	Action   string `form:"action" binding:"omitempty,oneof=create update delete"`
	Success  *bool  `form:"success" binding:"omitempty"`
	Page     int    `form:"page" binding:"omitempty,min=1"`
	PageSize int    `form:"pageSize" binding:"omitempty,min=1,max=100"`
}

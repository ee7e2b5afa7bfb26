package types

// Severity levels for an impact report, most severe first.
const (
	SeverityCritical = "critical"
	SeverityHigh     = "high"
	SeverityMedium   = "medium"
	SeverityLow      = "low"
	SeverityInfo     = "info"
)

// Recommended actions derived from severity and affected-lesson count.
const (
	ActionUpdateLesson  = "update_lesson"
	ActionCreateLesson  = "create_lesson"
	ActionUpdateMapping = "update_mapping"
	ActionNoAction      = "no_action"
)

// Impact report review statuses.
const (
	StatusNew      = "new"
	StatusApproved = "approved"
	StatusRejected = "rejected"
	StatusAssigned = "assigned"
	StatusDone     = "done"
)

// Audit log actions.
const (
	AuditActionCreate          = "create"
	AuditActionUpdate          = "update"
	AuditActionApprove         = "approve"
	AuditActionReject          = "reject"
	AuditActionAssign          = "assign"
	AuditActionCourseGenerated = "course_generated"
	AuditActionAutoGenerated   = "auto_generated"
)

// Entity types recorded in the audit log.
const (
	EntityImpactReport = "impact_report"
	EntityMappingRule  = "mapping_rule"
	EntityCourse       = "course"
)

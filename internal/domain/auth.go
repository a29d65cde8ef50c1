package domain

// SubjectType differentiates member vs admin session tokens.
type SubjectType string

const (
	SubjectTypeMember SubjectType = "MEMBER"
	SubjectTypeAdmin  SubjectType = "ADMIN"
)

package models

// InstructorSummary is one row of the instructors listing.
type InstructorSummary struct {
	User
	ApprovedClasses int      `json:"approvedClasses"`
	ClassNames      []string `json:"classNames"`
}

// InstructorDetail bundles an instructor with every class they own.
type InstructorDetail struct {
	Instructor *User   `json:"instructor"`
	Classes    []Class `json:"classes"`
}

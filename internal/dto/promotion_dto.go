package dto

// PromotionEvaluation is the result of evaluating a student's eligibility
// for automatic promotion. An ineligible outcome is a normal decision, not
// an error.
type PromotionEvaluation struct {
	Eligible     bool    `json:"eligible"`
	Average      float64 `json:"average"`
	Threshold    float64 `json:"threshold"`
	SubjectCount int     `json:"subject_count"`
	Reason       string  `json:"reason,omitempty"`
}

// PromoteStudentRequest runs the promotion workflow for a single student.
type PromoteStudentRequest struct {
	SchoolYearID      uint   `json:"school_year_id" validate:"required"`
	SubdivisionMethod string `json:"subdivision_method" validate:"omitempty,oneof=auto manual"`
}

// PromotionResult is the outcome of one student's promotion attempt.
type PromotionResult struct {
	StudentID       uint    `json:"student_id"`
	StudentName     string  `json:"student_name,omitempty"`
	Promoted        bool    `json:"promoted"`
	Average         float64 `json:"average"`
	NewClassID      uint    `json:"new_class_id,omitempty"`
	NewClassName    string  `json:"new_class_name,omitempty"`
	NewSubdivision  string  `json:"new_subdivision,omitempty"`
	Reason          string  `json:"reason,omitempty"`
}

// RunPromotionRequest runs the promotion workflow over every student.
type RunPromotionRequest struct {
	SchoolYearID      uint   `json:"school_year_id" validate:"required"`
	SubdivisionMethod string `json:"subdivision_method" validate:"omitempty,oneof=auto manual"`
}

// CohortPromotionResponse tallies a bulk promotion run. Each student's
// outcome is independent; failures do not abort the run.
type CohortPromotionResponse struct {
	Promoted    int               `json:"promoted"`
	NotPromoted int               `json:"not_promoted"`
	Failed      int               `json:"failed"`
	Results     []PromotionResult `json:"results"`
}

// CommitPromotionRequest applies recorded promotion outcomes to the
// students' class and subdivision fields.
type CommitPromotionRequest struct {
	SchoolYearID uint   `json:"school_year_id" validate:"required"`
	StudentIDs   []uint `json:"student_ids" validate:"omitempty,dive,required"`
}

// CommitPromotionResponse reports how many students were moved.
type CommitPromotionResponse struct {
	Committed int               `json:"committed"`
	Results   []PromotionResult `json:"results"`
}

// AssignSubdivisionsRequest distributes students of a class over its
// subdivisions, randomly or by explicit assignment.
type AssignSubdivisionsRequest struct {
	ClassID     uint                    `json:"class_id" validate:"required"`
	Method      string                  `json:"method" validate:"required,oneof=auto manual"`
	StudentIDs  []uint                  `json:"student_ids" validate:"omitempty,dive,required"`
	Assignments []SubdivisionAssignment `json:"assignments" validate:"omitempty,dive"`
}

// SubdivisionAssignment pins one student to one named subdivision.
type SubdivisionAssignment struct {
	StudentID   uint   `json:"student_id" validate:"required"`
	Subdivision string `json:"subdivision" validate:"required,max=32"`
}

// SubdivisionAssignmentResult reports one student's placement.
type SubdivisionAssignmentResult struct {
	StudentID   uint   `json:"student_id"`
	StudentName string `json:"student_name"`
	Subdivision string `json:"subdivision"`
}

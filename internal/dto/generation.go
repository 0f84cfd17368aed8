package dto

// Batch generation modes accepted by POST /generate-groups.
const (
	ModeExplicit      = "explicit"
	ModeAllProfessors = "all-professors"
)

// GroupParams is one (professor, subject) tuple in an explicit batch request.
type GroupParams struct {
	SubjectID   FlexID  `json:"subjectId"`
	ProfessorID FlexID  `json:"professorId"`
	ClassroomID *FlexID `json:"classroomId,omitempty"`
	CycleID     *FlexID `json:"cycleId,omitempty"`
	GroupID     *FlexID `json:"groupId,omitempty"`
}

// GenerateGroupsRequest drives both batch modes. ParamsList selects explicit
// mode; mode=all-professors uses the idSalon/idCiclo pair instead.
type GenerateGroupsRequest struct {
	Mode       string        `json:"mode,omitempty"`
	ParamsList []GroupParams `json:"paramsList,omitempty"`
	IDSalon    *FlexID       `json:"idSalon,omitempty"`
	IDCiclo    *FlexID       `json:"idCiclo,omitempty"`
}

// CreateGroupRequest is the wire shape for POST /groups.
type CreateGroupRequest struct {
	SubjectID   FlexID  `json:"subjectId"`
	ProfessorID FlexID  `json:"professorId"`
	ClassroomID *FlexID `json:"classroomId,omitempty"`
	CycleID     *FlexID `json:"cycleId,omitempty"`
	GroupID     *FlexID `json:"groupId,omitempty"`
}

// UpdateGroupRequest is the wire shape for PUT /groups/:id. Only supplied
// fields change.
type UpdateGroupRequest struct {
	SubjectID   *FlexID `json:"subjectId,omitempty"`
	ProfessorID *FlexID `json:"professorId,omitempty"`
	ClassroomID *FlexID `json:"classroomId,omitempty"`
	CycleID     *FlexID `json:"cycleId,omitempty"`
}

package dto

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFlexIDDecodesNumberAndString(t *testing.T) {
	var params GroupParams
	payload := `{"subjectId": 12, "professorId": "7", "classroomId": "3"}`
	require.NoError(t, json.Unmarshal([]byte(payload), &params))

	assert.Equal(t, int64(12), params.SubjectID.Int64())
	assert.Equal(t, int64(7), params.ProfessorID.Int64())
	require.NotNil(t, params.ClassroomID)
	assert.Equal(t, int64(3), *params.ClassroomID.Ptr())
	assert.Nil(t, params.CycleID.Ptr())
}

func TestFlexIDRejectsNonInteger(t *testing.T) {
	var id FlexID
	assert.Error(t, json.Unmarshal([]byte(`"abc"`), &id))
	assert.Error(t, json.Unmarshal([]byte(`"1.5"`), &id))
	assert.Error(t, json.Unmarshal([]byte(`1.5`), &id))
}

func TestFlexIDNull(t *testing.T) {
	var id FlexID
	require.NoError(t, json.Unmarshal([]byte(`null`), &id))
	assert.Equal(t, int64(0), id.Int64())
}

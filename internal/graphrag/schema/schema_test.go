package schema

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNodeType_IsValid(t *testing.T) {
	for _, nt := range NodeTypes {
		assert.True(t, nt.IsValid(), nt.String())
	}
	assert.False(t, NodeType("Gang").IsValid())
}

func TestNodeType_KeyProperty(t *testing.T) {
	assert.Equal(t, "name", NodeTypeLocation.KeyProperty())
	assert.Equal(t, "id", NodeTypePerson.KeyProperty())
	assert.Equal(t, "id", NodeTypeOrganization.KeyProperty())
}

func TestValidateEndpoints(t *testing.T) {
	tests := []struct {
		name    string
		label   RelationType
		from    NodeType
		to      NodeType
		wantErr bool
	}{
		{"membership", RelationMemberOf, NodeTypePerson, NodeTypeOrganization, false},
		{"membership reversed", RelationMemberOf, NodeTypeOrganization, NodeTypePerson, true},
		{"acquaintance is symmetric", RelationKnows, NodeTypePerson, NodeTypePerson, false},
		{"ownership of vehicle", RelationOwns, NodeTypePerson, NodeTypeVehicle, false},
		{"ownership of crime", RelationOwns, NodeTypePerson, NodeTypeCrime, true},
		{"unknown label", RelationType("LIKES"), NodeTypePerson, NodeTypePerson, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateEndpoints(tt.label, tt.from, tt.to)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestAttributes_NonEmptyForEveryType(t *testing.T) {
	for _, nt := range NodeTypes {
		assert.NotEmpty(t, nt.Attributes(), nt.String())
	}
}

package conversation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ManishKondoju/CrimeInvestigationGraph/internal/graphrag/entity"
	"github.com/ManishKondoju/CrimeInvestigationGraph/internal/graphrag/schema"
	"github.com/ManishKondoju/CrimeInvestigationGraph/internal/types"
)

var (
	westSideCrew = entity.Candidate{Type: schema.NodeTypeOrganization, Text: "West Side Crew", ID: "O001", Name: "West Side Crew"}
	latinKings   = entity.Candidate{Type: schema.NodeTypeOrganization, Text: "Latin Kings", ID: "O002", Name: "Latin Kings"}
	marcus       = entity.Candidate{Type: schema.NodeTypePerson, Text: "Marcus Johnson", ID: "P001", Name: "Marcus Johnson"}
)

func setOf(cs ...entity.Candidate) entity.Set {
	var s entity.Set
	for _, c := range cs {
		s.Add(c)
	}
	return s
}

func TestReferencedTypes(t *testing.T) {
	tests := []struct {
		question string
		want     []schema.NodeType
	}{
		{"Show me their members", entity.RecognizedTypes},
		{"What crimes has that gang committed?", []schema.NodeType{schema.NodeTypeOrganization}},
		{"Who does he know?", []schema.NodeType{schema.NodeTypePerson}},
		{"How risky is this area?", []schema.NodeType{schema.NodeTypeLocation}},
		{"How many crimes are there?", nil},
		{"Is that true?", nil},
		{"Where is the Hierarchy?", nil},
	}

	for _, tt := range tests {
		t.Run(tt.question, func(t *testing.T) {
			assert.Equal(t, tt.want, ReferencedTypes(tt.question))
		})
	}
}

func TestResolve(t *testing.T) {
	t.Run("substitutes prior organization for bare pronoun", func(t *testing.T) {
		res := Resolve("Show me their members", entity.Set{}, setOf(westSideCrew))
		assert.True(t, res.Substituted)
		assert.Equal(t, []entity.Candidate{westSideCrew}, res.Effective.Organizations)
	})

	t.Run("new entity of referenced type wins", func(t *testing.T) {
		res := Resolve("What crimes has that gang committed, the Latin Kings?", setOf(latinKings), setOf(westSideCrew))
		assert.False(t, res.Substituted)
		assert.Equal(t, []entity.Candidate{latinKings}, res.Effective.Organizations)
	})

	t.Run("only referenced types are substituted", func(t *testing.T) {
		res := Resolve("Who does he know?", entity.Set{}, setOf(westSideCrew, marcus))
		assert.Equal(t, []entity.Candidate{marcus}, res.Effective.Persons)
		assert.Empty(t, res.Effective.Organizations)
	})

	t.Run("no cue keeps recognized set", func(t *testing.T) {
		recognized := setOf(latinKings)
		res := Resolve("Who leads the Latin Kings?", recognized, setOf(westSideCrew, marcus))
		assert.Equal(t, recognized, res.Effective)
		assert.False(t, res.Substituted)
	})

	t.Run("mixed reference keeps new person and prior organization", func(t *testing.T) {
		res := Resolve("Is Marcus Johnson in that gang?", setOf(marcus), setOf(westSideCrew))
		assert.Equal(t, []entity.Candidate{marcus}, res.Effective.Persons)
		assert.Equal(t, []entity.Candidate{westSideCrew}, res.Effective.Organizations)
	})
}

func TestSession_ContextPersistence(t *testing.T) {
	s := NewSession()
	require.NotEmpty(t, s.ID)

	tk := s.Begin()
	require.NoError(t, s.Commit(tk, Turn{Question: "Who runs the West Side Crew?", Recognized: setOf(westSideCrew)}))
	assert.Equal(t, setOf(westSideCrew), s.Context())

	// A turn without recognized entities leaves the context unchanged.
	tk = s.Begin()
	require.NoError(t, s.Commit(tk, Turn{Question: "Show me their members"}))
	assert.Equal(t, setOf(westSideCrew), s.Context())

	// New entities replace the context wholesale.
	tk = s.Begin()
	require.NoError(t, s.Commit(tk, Turn{Question: "What about Marcus Johnson?", Recognized: setOf(marcus)}))
	assert.Equal(t, setOf(marcus), s.Context())

	turns := s.Turns()
	require.Len(t, turns, 3)
	for i, turn := range turns {
		assert.Equal(t, i+1, turn.Seq)
		assert.False(t, turn.At.IsZero())
	}
	assert.Len(t, s.LastTurns(2), 2)
	assert.Equal(t, "What about Marcus Johnson?", s.LastTurns(2)[1].Question)
	assert.Len(t, s.LastTurns(10), 3)
	assert.Nil(t, s.LastTurns(0))
}

func TestSession_StaleTurnIsDiscarded(t *testing.T) {
	s := NewSession()

	first := s.Begin()
	second := s.Begin()
	assert.False(t, s.IsCurrent(first))
	assert.True(t, s.IsCurrent(second))

	err := s.Commit(first, Turn{Question: "old", Recognized: setOf(westSideCrew)})
	require.Error(t, err)
	assert.True(t, types.HasCode(err, types.STALE_TURN))
	assert.Empty(t, s.Turns())
	assert.True(t, s.Context().IsEmpty())

	require.NoError(t, s.Commit(second, Turn{Question: "new"}))
	assert.Len(t, s.Turns(), 1)
}

func TestSession_Reset(t *testing.T) {
	s := NewSession()
	tk := s.Begin()
	require.NoError(t, s.Commit(tk, Turn{Question: "q", Recognized: setOf(westSideCrew)}))

	inFlight := s.Begin()
	s.Reset()

	assert.Empty(t, s.Turns())
	assert.True(t, s.Context().IsEmpty())
	assert.False(t, s.IsCurrent(inFlight))
}

func TestIsResetSignal(t *testing.T) {
	for _, in := range []string{"new investigation", "Start over.", "RESET", "/new", "start a new investigation"} {
		assert.True(t, IsResetSignal(in), in)
	}
	for _, in := range []string{"reset the password for Marcus", "who started over there", ""} {
		assert.False(t, IsResetSignal(in), in)
	}
}

package schema

import "fmt"

// NodeType is the immutable type tag of a node.
type NodeType string

const (
	NodeTypePerson        NodeType = "Person"
	NodeTypeOrganization  NodeType = "Organization"
	NodeTypeLocation      NodeType = "Location"
	NodeTypeCrime         NodeType = "Crime"
	NodeTypeEvidence      NodeType = "Evidence"
	NodeTypeWeapon        NodeType = "Weapon"
	NodeTypeVehicle       NodeType = "Vehicle"
	NodeTypeInvestigator  NodeType = "Investigator"
	NodeTypeModusOperandi NodeType = "ModusOperandi"
)

// NodeTypes lists every node type in declaration order.
var NodeTypes = []NodeType{
	NodeTypePerson,
	NodeTypeOrganization,
	NodeTypeLocation,
	NodeTypeCrime,
	NodeTypeEvidence,
	NodeTypeWeapon,
	NodeTypeVehicle,
	NodeTypeInvestigator,
	NodeTypeModusOperandi,
}

// String returns the string representation of NodeType.
func (nt NodeType) String() string {
	return string(nt)
}

// IsValid checks if the NodeType is part of the vocabulary.
func (nt NodeType) IsValid() bool {
	for _, t := range NodeTypes {
		if t == nt {
			return true
		}
	}
	return false
}

// KeyProperty returns the property that uniquely identifies a node of this type.
// Locations are keyed by their block name; everything else carries an id.
func (nt NodeType) KeyProperty() string {
	if nt == NodeTypeLocation {
		return "name"
	}
	return "id"
}

// NameProperty returns the human-readable property used when rendering a node.
func (nt NodeType) NameProperty() string {
	switch nt {
	case NodeTypeCrime:
		return "case_number"
	case NodeTypeEvidence, NodeTypeWeapon:
		return "type"
	case NodeTypeVehicle:
		return "license_plate"
	case NodeTypeModusOperandi:
		return "description"
	default:
		return "name"
	}
}

// Attributes returns the scalar attribute columns returned by an attribute lookup.
func (nt NodeType) Attributes() []string {
	switch nt {
	case NodeTypePerson:
		return []string{"age", "gender", "occupation", "alias", "criminal_record", "risk_score"}
	case NodeTypeOrganization:
		return []string{"type", "territory", "founded_year", "members_count", "activity_level", "threat_level"}
	case NodeTypeLocation:
		return []string{"district", "area", "latitude", "longitude"}
	case NodeTypeCrime:
		return []string{"type", "subtype", "date", "severity", "status", "arrest_made"}
	case NodeTypeEvidence:
		return []string{"type", "description", "verified", "significance", "collection_date"}
	case NodeTypeWeapon:
		return []string{"type", "make", "model", "caliber", "recovered", "registered"}
	case NodeTypeVehicle:
		return []string{"make", "model", "year", "color", "reported_stolen"}
	case NodeTypeInvestigator:
		return []string{"badge_number", "department", "specialization", "cases_solved", "active_cases", "success_rate"}
	case NodeTypeModusOperandi:
		return []string{"signature_element", "crime_type", "frequency", "confidence_score"}
	default:
		return nil
	}
}

// RelationType is a relation label from the fixed vocabulary.
type RelationType string

const (
	RelationPartyTo         RelationType = "PARTY_TO"
	RelationMemberOf        RelationType = "MEMBER_OF"
	RelationKnows           RelationType = "KNOWS"
	RelationFamily          RelationType = "FAMILY_REL"
	RelationOwns            RelationType = "OWNS"
	RelationOccurredAt      RelationType = "OCCURRED_AT"
	RelationInvestigatedBy  RelationType = "INVESTIGATED_BY"
	RelationMatchesMO       RelationType = "MATCHES_MO"
	RelationHasEvidence     RelationType = "HAS_EVIDENCE"
	RelationLinksTo         RelationType = "LINKS_TO"
	RelationInvolvedVehicle RelationType = "INVOLVED_VEHICLE"
	RelationUsedWeapon      RelationType = "USED_WEAPON"
)

// String returns the string representation of RelationType.
func (rt RelationType) String() string {
	return string(rt)
}

// Constraint describes the endpoint types a relation label is expected to join.
type Constraint struct {
	From      []NodeType
	To        []NodeType
	Symmetric bool
}

var constraints = map[RelationType]Constraint{
	RelationPartyTo:         {From: []NodeType{NodeTypePerson}, To: []NodeType{NodeTypeCrime}},
	RelationMemberOf:        {From: []NodeType{NodeTypePerson}, To: []NodeType{NodeTypeOrganization}},
	RelationKnows:           {From: []NodeType{NodeTypePerson}, To: []NodeType{NodeTypePerson}, Symmetric: true},
	RelationFamily:          {From: []NodeType{NodeTypePerson}, To: []NodeType{NodeTypePerson}, Symmetric: true},
	RelationOwns:            {From: []NodeType{NodeTypePerson}, To: []NodeType{NodeTypeWeapon, NodeTypeVehicle}},
	RelationOccurredAt:      {From: []NodeType{NodeTypeCrime}, To: []NodeType{NodeTypeLocation}},
	RelationInvestigatedBy:  {From: []NodeType{NodeTypeCrime}, To: []NodeType{NodeTypeInvestigator}},
	RelationMatchesMO:       {From: []NodeType{NodeTypeCrime}, To: []NodeType{NodeTypeModusOperandi}},
	RelationHasEvidence:     {From: []NodeType{NodeTypeCrime}, To: []NodeType{NodeTypeEvidence}},
	RelationLinksTo:         {From: []NodeType{NodeTypeEvidence}, To: []NodeType{NodeTypePerson}},
	RelationInvolvedVehicle: {From: []NodeType{NodeTypeCrime}, To: []NodeType{NodeTypeVehicle}},
	RelationUsedWeapon:      {From: []NodeType{NodeTypeCrime}, To: []NodeType{NodeTypeWeapon}},
}

// ConstraintFor returns the endpoint constraint of a relation label.
func ConstraintFor(rt RelationType) (Constraint, bool) {
	c, ok := constraints[rt]
	return c, ok
}

// IsValid checks if the RelationType is part of the vocabulary.
func (rt RelationType) IsValid() bool {
	_, ok := constraints[rt]
	return ok
}

// Allows reports whether the label may join from and to, in either
// direction when the relation is symmetric.
func (c Constraint) Allows(from, to NodeType) bool {
	if contains(c.From, from) && contains(c.To, to) {
		return true
	}
	return c.Symmetric && contains(c.From, to) && contains(c.To, from)
}

// Node is a typed record with a stable identifier.
type Node struct {
	Type       NodeType       `json:"type"`
	ID         string         `json:"id"`
	Name       string         `json:"name,omitempty"`
	Properties map[string]any `json:"properties,omitempty"`
}

// Edge is a labelled relation between two node identifiers.
type Edge struct {
	Label      RelationType   `json:"label"`
	From       string         `json:"from"`
	To         string         `json:"to"`
	Properties map[string]any `json:"properties,omitempty"`
}

// ValidateEndpoints checks the edge label against the endpoint types.
func ValidateEndpoints(label RelationType, from, to NodeType) error {
	c, ok := constraints[label]
	if !ok {
		return fmt.Errorf("unknown relation label: %s", label)
	}
	if !c.Allows(from, to) {
		return fmt.Errorf("relation %s does not join %s to %s", label, from, to)
	}
	return nil
}

func contains(types []NodeType, t NodeType) bool {
	for _, candidate := range types {
		if candidate == t {
			return true
		}
	}
	return false
}

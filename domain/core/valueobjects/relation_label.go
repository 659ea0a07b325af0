package valueobjects

import (
	"fmt"

	apperrors "genealogy3d/pkg/errors"
)

// RelationLabel is the fine-grained relation vocabulary offered by the
// add-member form. A label describes the new (target) person relative to
// the reference person: "mother" means the target is the reference's mother.
type RelationLabel string

const (
	LabelParent        RelationLabel = "parent"
	LabelMother        RelationLabel = "mother"
	LabelFather        RelationLabel = "father"
	LabelChild         RelationLabel = "child"
	LabelSon           RelationLabel = "son"
	LabelDaughter      RelationLabel = "daughter"
	LabelSibling       RelationLabel = "sibling"
	LabelSister        RelationLabel = "sister"
	LabelBrother       RelationLabel = "brother"
	LabelSpouse        RelationLabel = "spouse"
	LabelWife          RelationLabel = "wife"
	LabelHusband       RelationLabel = "husband"
	LabelGrandParent   RelationLabel = "grandParent"
	LabelGrandFather   RelationLabel = "grandFather"
	LabelGrandMother   RelationLabel = "grandMother"
	LabelGrandUncle    RelationLabel = "grandUncle"
	LabelGrandAunt     RelationLabel = "grandAunt"
	LabelGrandChild    RelationLabel = "grandChild"
	LabelUncle         RelationLabel = "uncle"
	LabelAunt          RelationLabel = "aunt"
	LabelNephew        RelationLabel = "nephew"
	LabelNiece         RelationLabel = "niece"
	LabelCousin        RelationLabel = "cousin"
	LabelBrotherInLaw  RelationLabel = "brotherInLaw"
	LabelSisterInLaw   RelationLabel = "sisterInLaw"
	LabelStepMother    RelationLabel = "stepMother"
	LabelStepFather    RelationLabel = "stepFather"
	LabelSonInLaw      RelationLabel = "sonInLaw"
	LabelDaughterInLaw RelationLabel = "daughterInLaw"
	LabelStepBrother   RelationLabel = "stepBrother"
	LabelStepSister    RelationLabel = "stepSister"
)

type labelRule struct {
	shift  int
	stored RelationType
}

// labelRules is authoritative domain data. Sibling-like labels shift by 0.
var labelRules = map[RelationLabel]labelRule{
	LabelParent:   {-1, RelationParent},
	LabelMother:   {-1, RelationParent},
	LabelFather:   {-1, RelationParent},
	LabelChild:    {+1, RelationChild},
	LabelSon:      {+1, RelationChild},
	LabelDaughter: {+1, RelationChild},

	LabelSibling: {0, RelationSibling},
	LabelSister:  {0, RelationSibling},
	LabelBrother: {0, RelationSibling},

	LabelSpouse:  {0, RelationSpouse},
	LabelWife:    {0, RelationSpouse},
	LabelHusband: {0, RelationSpouse},

	LabelGrandParent: {-2, RelationParent},
	LabelGrandFather: {-2, RelationParent},
	LabelGrandMother: {-2, RelationParent},
	LabelGrandUncle:  {-2, RelationParent},
	LabelGrandAunt:   {-2, RelationParent},
	LabelGrandChild:  {+2, RelationChild},

	LabelUncle:  {-1, RelationParent},
	LabelAunt:   {-1, RelationParent},
	LabelNephew: {+1, RelationChild},
	LabelNiece:  {+1, RelationChild},
	LabelCousin: {0, RelationSibling},

	LabelBrotherInLaw:  {0, RelationSibling},
	LabelSisterInLaw:   {0, RelationSibling},
	LabelStepMother:    {-1, RelationParent},
	LabelStepFather:    {-1, RelationParent},
	LabelSonInLaw:      {+1, RelationChild},
	LabelDaughterInLaw: {+1, RelationChild},
	LabelStepBrother:   {0, RelationSibling},
	LabelStepSister:    {0, RelationSibling},
}

// RelationLabels lists every label in form order.
var RelationLabels = []RelationLabel{
	LabelParent, LabelMother, LabelFather,
	LabelChild, LabelSon, LabelDaughter,
	LabelSibling, LabelSister, LabelBrother,
	LabelSpouse, LabelWife, LabelHusband,
	LabelGrandParent, LabelGrandFather, LabelGrandMother, LabelGrandUncle, LabelGrandAunt,
	LabelGrandChild,
	LabelUncle, LabelAunt, LabelNephew, LabelNiece, LabelCousin,
	LabelBrotherInLaw, LabelSisterInLaw,
	LabelStepMother, LabelStepFather,
	LabelSonInLaw, LabelDaughterInLaw,
	LabelStepBrother, LabelStepSister,
}

// ParseRelationLabel rejects anything outside the label table.
func ParseRelationLabel(s string) (RelationLabel, error) {
	l := RelationLabel(s)
	if _, ok := labelRules[l]; !ok {
		return "", apperrors.NewValidationError(fmt.Sprintf("unknown relation label %q", s))
	}
	return l, nil
}

// Valid reports whether l is in the label table.
func (l RelationLabel) Valid() bool {
	_, ok := labelRules[l]
	return ok
}

// Shift is the generation offset of the target relative to the reference.
func (l RelationLabel) Shift() (int, error) {
	r, ok := labelRules[l]
	if !ok {
		return 0, apperrors.NewValidationError(fmt.Sprintf("unknown relation label %q", l))
	}
	return r.shift, nil
}

// StoredType collapses the label to the persisted relation type stored on
// the reference → target row.
func (l RelationLabel) StoredType() (RelationType, error) {
	r, ok := labelRules[l]
	if !ok {
		return "", apperrors.NewValidationError(fmt.Sprintf("unknown relation label %q", l))
	}
	return r.stored, nil
}

// ComputeGeneration returns the generation of a person related to a
// reference person of generation ref by label.
func ComputeGeneration(ref int, label RelationLabel) (int, error) {
	shift, err := label.Shift()
	if err != nil {
		return 0, err
	}
	return ref + shift, nil
}

func (l RelationLabel) String() string { return string(l) }

// ABOUTME: Built-in football decision taxonomy used by the review form
// ABOUTME: Basic outcomes, offside offences, cards, and VAR review reasons
package decision

// Node ids of the built-in taxonomy
const (
	NoFoul           = "noFoul"
	IndirectFreeKick = "indirectFreeKick"
	DirectFreeKick   = "directFreeKick"
	PenaltyKick      = "penaltyKick"
	Goal             = "goal"

	Offside                    = "offside"
	OffsideInterferingPlay     = "offsideInterferingPlay"
	OffsideInterferingOpponent = "offsideInterferingOpponent"
	OffsideGainingAdvantage    = "offsideGainingAdvantage"

	NoCard     = "noCard"
	YellowCard = "yellowCard"
	RedCard    = "redCard"

	VARReview           = "varReview"
	VARGoal             = "varGoal"
	VARPenalty          = "varPenalty"
	VARDirectRedCard    = "varDirectRedCard"
	VARMistakenIdentity = "varMistakenIdentity"
)

// The basic outcomes are semantically exclusive but are deliberately not
// constrained against each other.
var defaultNodes = []Node{
	{ID: NoFoul, Label: "No Foul", Group: GroupBasic},
	{ID: IndirectFreeKick, Label: "Indirect Free Kick", Group: GroupBasic},
	{ID: DirectFreeKick, Label: "Direct Free Kick", Group: GroupBasic},
	{ID: PenaltyKick, Label: "Penalty Kick", Group: GroupBasic},
	{ID: Goal, Label: "Goal", Group: GroupBasic},

	{ID: Offside, Label: "Offside", Group: GroupOffside},
	{ID: OffsideInterferingPlay, Label: "Interfering with Play", Group: GroupOffside, ParentID: Offside},
	{ID: OffsideInterferingOpponent, Label: "Interfering with an Opponent", Group: GroupOffside, ParentID: Offside},
	{ID: OffsideGainingAdvantage, Label: "Gaining an Advantage", Group: GroupOffside, ParentID: Offside},

	{ID: NoCard, Label: "No Card", Group: GroupCards},
	{ID: YellowCard, Label: "Yellow Card", Group: GroupCards},
	{ID: RedCard, Label: "Red Card", Group: GroupCards},

	{ID: VARReview, Label: "VAR Intervention", Group: GroupVAR},
	{ID: VARGoal, Label: "Goal / No Goal", Group: GroupVAR, ParentID: VARReview},
	{ID: VARPenalty, Label: "Penalty / No Penalty", Group: GroupVAR, ParentID: VARReview},
	{ID: VARDirectRedCard, Label: "Direct Red Card", Group: GroupVAR, ParentID: VARReview},
	{ID: VARMistakenIdentity, Label: "Mistaken Identity", Group: GroupVAR, ParentID: VARReview},
}

var defaultTaxonomy = MustTaxonomy(defaultNodes)

// Default returns the process-wide built-in taxonomy
func Default() *Taxonomy {
	return defaultTaxonomy
}

// Initialize returns an all-false state for the built-in taxonomy
func Initialize() State {
	return defaultTaxonomy.Initialize()
}

// ApplyToggle applies a toggle against the built-in taxonomy
func ApplyToggle(state State, nodeID string, desired bool) (State, error) {
	return defaultTaxonomy.ApplyToggle(state, nodeID, desired)
}

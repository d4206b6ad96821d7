package domain

// statusMessages is the short copy shown when a fast enters a phase. Every
// table entry must have one; the table test enforces it.
var statusMessages = map[ID]string{
	PhaseFed:            "Digesting — your body is running on the last meal.",
	PhasePostAbsorptive: "Insulin is dropping; glycogen breakdown has started.",
	PhaseFatBurning:     "Fat burning is ramping up.",
	PhaseKetosis:        "Ketosis has begun — ketones are now fueling you.",
	PhaseDeepKetosis:    "Deep ketosis: the metabolic switch is complete.",
	PhaseAutophagy:      "Autophagy is active — cellular cleanup in progress.",
	PhaseGrowthHormone:  "Growth hormone is surging, protecting lean mass.",
	PhaseInsulinReset:   "Insulin sensitivity is resetting.",
	PhaseImmuneRenewal:  "Immune cell renewal — seek supervision at this length.",
}

// MessageFor returns the status copy for a phase id.
func MessageFor(id ID) (string, bool) {
	message, ok := statusMessages[id]
	return message, ok
}

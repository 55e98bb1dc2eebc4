package docs

// The built-in reference table. Entries mirror the scripting binding the
// assistant generates against; the remote refresh (fetch.go) can overwrite
// descriptions but never removes entries.

type Method struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Signature   string `json:"signature"`
	Example     string `json:"example"`
}

type Section struct {
	Name          string   `json:"name"`
	Description   string   `json:"description"`
	SourceURL     string   `json:"source_url,omitempty"`
	Methods       []Method `json:"methods,omitempty"`
	CommonErrors  []string `json:"common_errors,omitempty"`
	BestPractices []string `json:"best_practices,omitempty"`
}

type ErrorSignature struct {
	Code        string `json:"code"`
	Description string `json:"description"`
	Context     string `json:"context"`
	Solution    string `json:"solution"`
}

func builtinSections() []Section {
	return []Section{
		{
			Name:        "sketch",
			Description: "Create and manage sketches on construction planes.",
			Methods: []Method{
				{
					Name:        "NewSketch",
					Description: "Creates a new sketch on a plane",
					Signature:   "doc.NewSketch(plane cad.Plane) *cad.Sketch",
					Example:     `sketch := doc.NewSketch(cad.PlaneXY)`,
				},
				{
					Name:        "Circle",
					Description: "Adds a closed circular profile",
					Signature:   "sketch.Circle(cx, cy, r float64)",
					Example:     `sketch.Circle(0, 0, cad.MM(5))`,
				},
				{
					Name:        "Rect",
					Description: "Adds a closed rectangular profile",
					Signature:   "sketch.Rect(x, y, w, h float64)",
					Example:     `sketch.Rect(0, 0, cad.MM(10), cad.MM(10))`,
				},
			},
			CommonErrors: []string{
				"Open curves never form a profile; only Circle and Rect produce closed profiles",
				"Profile collection may be empty if the sketch only contains lines",
			},
			BestPractices: []string{
				"Always check sketch.Profiles() > 0 before extruding",
				"Use cad.MM or cad.CM so dimensions carry explicit units",
			},
		},
		{
			Name:        "extrude",
			Description: "Create bodies by extruding closed profiles.",
			Methods: []Method{
				{
					Name:        "Extrude",
					Description: "Extrudes the sketch's first profile into a body",
					Signature:   "doc.Extrude(sketch *cad.Sketch, height float64) (*cad.Body, error)",
					Example:     `body, err := doc.Extrude(sketch, cad.MM(10))`,
				},
			},
			CommonErrors: []string{
				"Profile must be closed for a solid extrusion",
				"Cannot extrude a sketch with no closed profile",
			},
			BestPractices: []string{
				"Validate that profiles exist before extruding",
				"Handle the returned error; extrude fails on empty sketches",
			},
		},
		{
			Name:        "revolve",
			Description: "Create bodies by revolving closed profiles around an axis.",
			Methods: []Method{
				{
					Name:        "Revolve",
					Description: "Revolves the sketch's first profile around an axis",
					Signature:   "doc.Revolve(sketch *cad.Sketch, axis cad.Axis, angleDeg float64) (*cad.Body, error)",
					Example:     `body, err := doc.Revolve(sketch, cad.Axis{X1: 0, Y1: -1, X2: 0, Y2: 1}, 360)`,
				},
			},
			CommonErrors: []string{
				"Axis cannot be tangent to the profile (ASM_PATH_TANGENT)",
				"Axis cannot intersect the profile boundary",
				"Revolution angle must be greater than zero",
			},
			BestPractices: []string{
				"Always check the axis position relative to the profile",
				"For full revolutions use an angle of 360 degrees",
			},
		},
		{
			Name:        "boolean",
			Description: "Combine bodies with join, cut and intersect operations.",
			Methods: []Method{
				{
					Name:        "Combine",
					Description: "Merges two bodies with a boolean operation",
					Signature:   "doc.Combine(target, tool *cad.Body, op cad.BoolOp) (*cad.Body, error)",
					Example:     `merged, err := doc.Combine(base, hole, cad.OpCut)`,
				},
			},
			CommonErrors: []string{
				"Both bodies must exist before the operation",
			},
			BestPractices: []string{
				"Verify all bodies exist before combining",
			},
		},
	}
}

func builtinErrorSignatures() []ErrorSignature {
	return []ErrorSignature{
		{
			Code:        "ASM_PATH_TANGENT",
			Description: "the axis is tangent to the profile",
			Context:     "revolve operations",
			Solution:    "Ensure the revolution axis is not tangent to any part of the profile. Move the axis away from the profile boundary or change the profile shape.",
		},
		{
			Code:        "no closed profile",
			Description: "the sketch contains no closed profile",
			Context:     "extrude operations",
			Solution:    "Verify the sketch contains closed profiles with non-zero area. Lines alone never close a profile; use Circle or Rect.",
		},
		{
			Code:        "body does not exist",
			Description: "a boolean operand body was nil",
			Context:     "boolean operations",
			Solution:    "Verify all bodies exist before the operation and check the error returned by the feature that should have created them.",
		},
	}
}

// keyTerms is the fixed keyword list the retriever matches against free text.
func keyTerms() []string {
	return []string{
		"extrude", "revolve", "sketch", "profile", "plane", "body",
		"boolean", "combine", "join", "cut", "intersect", "axis",
		"circle", "rect", "cube", "cylinder", "pattern", "fillet", "chamfer",
	}
}

// sectionForTerm routes a matched keyword to a section name.
func sectionForTerm(term string) string {
	switch term {
	case "extrude", "cube":
		return "extrude"
	case "revolve", "axis", "cylinder":
		return "revolve"
	case "boolean", "combine", "join", "cut", "intersect", "body":
		return "boolean"
	case "sketch", "profile", "plane", "circle", "rect":
		return "sketch"
	default:
		return ""
	}
}

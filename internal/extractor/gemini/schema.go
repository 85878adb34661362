package gemini

import "google.golang.org/genai"

func annotated(t genai.Type) *genai.Schema {
	return &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"value":      {Type: t, Nullable: genai.Ptr(true)},
			"confidence": {Type: genai.TypeNumber},
		},
		Required:         []string{"value", "confidence"},
		PropertyOrdering: []string{"value", "confidence"},
	}
}

func object(props map[string]*genai.Schema, order ...string) *genai.Schema {
	return &genai.Schema{
		Type:             genai.TypeObject,
		Properties:       props,
		Required:         order,
		PropertyOrdering: order,
	}
}

func array(items *genai.Schema) *genai.Schema {
	return &genai.Schema{Type: genai.TypeArray, Items: items}
}

func holeSchema(scoresOnly bool) *genai.Schema {
	props := map[string]*genai.Schema{
		"hole_number":         annotated(genai.TypeInteger),
		"strokes":             annotated(genai.TypeInteger),
		"putts":               annotated(genai.TypeInteger),
		"fairway_hit":         annotated(genai.TypeBoolean),
		"green_in_regulation": annotated(genai.TypeBoolean),
	}
	order := []string{"hole_number", "strokes", "putts", "fairway_hit", "green_in_regulation"}
	if !scoresOnly {
		props["par"] = annotated(genai.TypeInteger)
		props["handicap"] = annotated(genai.TypeInteger)
		order = []string{"hole_number", "par", "handicap", "strokes", "putts", "fairway_hit", "green_in_regulation"}
	}
	return object(props, order...)
}

func totalsSchema() *genai.Schema {
	return object(map[string]*genai.Schema{
		"total_score":      annotated(genai.TypeInteger),
		"front_nine_score": annotated(genai.TypeInteger),
		"back_nine_score":  annotated(genai.TypeInteger),
		"total_putts":      annotated(genai.TypeInteger),
	}, "total_score", "front_nine_score", "back_nine_score", "total_putts")
}

// resultSchema mirrors extraction.Result. The scores-only variant drops
// everything the course record supplies.
func resultSchema(scoresOnly bool) *genai.Schema {
	props := map[string]*genai.Schema{
		"date":        annotated(genai.TypeString),
		"player_name": annotated(genai.TypeString),
		"holes":       array(holeSchema(scoresOnly)),
		"totals":      totalsSchema(),
		"notes":       annotated(genai.TypeString),
	}
	order := []string{"date", "player_name", "holes", "totals", "notes"}
	if scoresOnly {
		return object(props, order...)
	}

	props["course"] = object(map[string]*genai.Schema{
		"name":     annotated(genai.TypeString),
		"location": annotated(genai.TypeString),
		"par":      annotated(genai.TypeInteger),
	}, "name", "location", "par")
	props["tees"] = array(object(map[string]*genai.Schema{
		"color":         annotated(genai.TypeString),
		"slope_rating":  annotated(genai.TypeNumber),
		"course_rating": annotated(genai.TypeNumber),
		"hole_yardages": array(object(map[string]*genai.Schema{
			"hole_number": {Type: genai.TypeInteger},
			"yardage":     annotated(genai.TypeInteger),
		}, "hole_number", "yardage")),
	}, "color", "slope_rating", "course_rating", "hole_yardages"))
	return object(props, append([]string{"course", "tees"}, order...)...)
}

func identificationSchema() *genai.Schema {
	return object(map[string]*genai.Schema{
		"name":     annotated(genai.TypeString),
		"location": annotated(genai.TypeString),
	}, "name", "location")
}

package carddex

// sideboardStaples lists generic sideboard picks per color, used when a
// sideboard must be filled without any recognized signal to go on.
var sideboardStaples = map[Color][]Line{
	White: {
		{Name: "Rest in Peace", Quantity: 2},
		{Name: "Stony Silence", Quantity: 2},
		{Name: "Path to Exile", Quantity: 3},
	},
	Blue: {
		{Name: "Negate", Quantity: 3},
		{Name: "Dispel", Quantity: 2},
		{Name: "Mystical Dispute", Quantity: 2},
	},
	Black: {
		{Name: "Duress", Quantity: 3},
		{Name: "Fatal Push", Quantity: 2},
		{Name: "Thoughtseize", Quantity: 2},
	},
	Red: {
		{Name: "Abrade", Quantity: 3},
		{Name: "Roiling Vortex", Quantity: 2},
		{Name: "Smash to Smithereens", Quantity: 2},
	},
	Green: {
		{Name: "Veil of Summer", Quantity: 3},
		{Name: "Force of Vigor", Quantity: 2},
		{Name: "Scavenging Ooze", Quantity: 2},
	},
}

var colorlessStaples = []Line{
	{Name: "Grafdigger's Cage", Quantity: 2},
	{Name: "Pithing Needle", Quantity: 2},
	{Name: "Relic of Progenitus", Quantity: 2},
}

// SideboardStaples returns generic sideboard lines for the given colors,
// in WUBRG order, followed by the colorless options.
func SideboardStaples(colors []Color) []Line {
	var lines []Line
	for _, color := range colorOrder {
		if !containsColor(colors, color) {
			continue
		}
		lines = append(lines, sideboardStaples[color]...)
	}
	lines = append(lines, colorlessStaples...)
	return lines
}

func containsColor(colors []Color, want Color) bool {
	for _, color := range colors {
		if color == want {
			return true
		}
	}
	return false
}

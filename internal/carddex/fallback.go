package carddex

// FallbackDeck returns the static mono-red list emitted when recognition
// produces nothing usable. Exactly 60 mainboard and 15 sideboard cards.
func FallbackDeck() (main, side []Line) {
	main = []Line{
		{Name: "Lightning Strike", Quantity: 4},
		{Name: "Play with Fire", Quantity: 4},
		{Name: "Kumano Faces Kakkazan", Quantity: 4},
		{Name: "Monastery Swiftspear", Quantity: 4},
		{Name: "Phoenix Chick", Quantity: 4},
		{Name: "Feldon, Ronom Excavator", Quantity: 3},
		{Name: "Squee, Dubious Monarch", Quantity: 3},
		{Name: "Urabrask's Forge", Quantity: 2},
		{Name: "Witchstalker Frenzy", Quantity: 3},
		{Name: "Obliterating Bolt", Quantity: 3},
		{Name: "Nahiri's Warcrafting", Quantity: 3},
		{Name: "Sokenzan, Crucible of Defiance", Quantity: 3},
		{Name: "Mountain", Quantity: 20},
	}
	side = []Line{
		{Name: "Abrade", Quantity: 3},
		{Name: "Lithomantic Barrage", Quantity: 2},
		{Name: "Roiling Vortex", Quantity: 2},
		{Name: "Urabrask", Quantity: 2},
		{Name: "Chandra, Dressed to Kill", Quantity: 2},
		{Name: "Jaya, Fiery Negotiator", Quantity: 2},
		{Name: "Obliterating Bolt", Quantity: 2},
	}
	return main, side
}

package carddex

// popularNames is the curated list of the most played cards across formats.
// It seeds the fast resolution tier so common cards never need an oracle
// round trip.
var popularNames = []string{
	// Fetch lands
	"Flooded Strand",
	"Polluted Delta",
	"Bloodstained Mire",
	"Wooded Foothills",
	"Windswept Heath",
	"Marsh Flats",
	"Scalding Tarn",
	"Verdant Catacombs",
	"Arid Mesa",
	"Misty Rainforest",

	// Shock lands
	"Hallowed Fountain",
	"Watery Grave",
	"Blood Crypt",
	"Stomping Ground",
	"Temple Garden",
	"Godless Shrine",
	"Steam Vents",
	"Overgrown Tomb",
	"Sacred Foundry",
	"Breeding Pool",

	// Modern staples
	"Lightning Bolt",
	"Path to Exile",
	"Fatal Push",
	"Thoughtseize",
	"Snapcaster Mage",
	"Tarmogoyf",
	"Liliana of the Veil",
	"Cryptic Command",
	"Aether Vial",
	"Collected Company",

	// Legacy and vintage staples
	"Force of Will",
	"Brainstorm",
	"Ponder",
	"Swords to Plowshares",
	"Daze",
	"Wasteland",
	"Force of Negation",
	"Delver of Secrets",
	"Dark Ritual",
	"Lotus Petal",

	// Commander staples
	"Sol Ring",
	"Command Tower",
	"Arcane Signet",
	"Mana Crypt",
	"Cyclonic Rift",
	"Rhystic Study",
	"Smothering Tithe",
	"Mystic Remora",
	"Demonic Tutor",
	"Vampiric Tutor",
	"Birds of Paradise",
	"Llanowar Elves",
	"Cultivate",
	"Kodama's Reach",
	"Rampant Growth",
	"Farseek",
	"Nature's Lore",
	"Three Visits",
	"Skyshroud Claim",
	"Explosive Vegetation",

	// Planeswalkers
	"Teferi, Hero of Dominaria",
	"Jace, the Mind Sculptor",
	"Liliana, the Last Hope",
	"Karn Liberated",
	"Ugin, the Spirit Dragon",
	"Nicol Bolas, Dragon-God",
	"Wrenn and Six",
	"Oko, Thief of Crowns",
	"Teferi, Time Raveler",
	"Narset, Parter of Veils",

	// Standard
	"Sheoldred, the Apocalypse",
	"Raffine, Scheming Seer",
	"Fable of the Mirror-Breaker",
	"The Wandering Emperor",
	"Invoke Despair",
	"Make Disappear",
	"Play with Fire",
	"Consider",
	"Expressive Iteration",
	"Ledger Shredder",

	// Creatures
	"Ragavan, Nimble Pilferer",
	"Dragon's Rage Channeler",
	"Murktide Regent",
	"Fury",
	"Solitude",
	"Endurance",
	"Grief",
	"Subtlety",
	"Omnath, Locus of Creation",
	"Uro, Titan of Nature's Wrath",

	// Artifacts
	"The One Ring",
	"Mishra's Bauble",
	"Sensei's Divining Top",
	"Chalice of the Void",
	"Ensnaring Bridge",
	"Pithing Needle",
	"Grafdigger's Cage",
	"Tormod's Crypt",
	"Relic of Progenitus",
	"Lightning Greaves",
	"Swiftfoot Boots",
}

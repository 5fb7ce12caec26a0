package domain

// Character is an entry of the universe lore page.
type Character struct {
	ID    string
	Name  string
	Image string
	Lore  string
	Color string
}

// Characters is the static roster shown on /universe, in display order.
var Characters = []Character{
	{
		ID:    "lefty",
		Name:  "Lefty",
		Image: "/left.png",
		Lore:  "The guardian of the left side, Lefty has watched over the store since the beginning of time. Legend says that every product that passes through the left side of the screen receives a blessing of quality and craftsmanship. Lefty is known for being quiet but fiercely protective of customers seeking the best deals.",
		Color: "violet",
	},
	{
		ID:    "righty",
		Name:  "Righty",
		Image: "/right.png",
		Lore:  "Mirror to Lefty, Righty guards the right side with unwavering dedication. Where Lefty blesses quality, Righty bestows style. Together they form an unbreakable duo that ensures every visitor to the store leaves with something special. Righty is more playful than their counterpart, often seen dancing when no one is looking.",
		Color: "yellow",
	},
	{
		ID:    "tinsel",
		Name:  "Tinsel",
		Image: "/tinsel.png",
		Lore:  "The mysterious Tinsel appears when you least expect it. Wrapped in ribbons and always carrying a lantern, Tinsel wanders the aisles at night straightening shelves and leaving small notes for the morning crew. Some say if you spot Tinsel three times in one visit, you unlock a secret discount. Nobody has ever confirmed this.",
		Color: "emerald",
	},
	{
		ID:    "nugget",
		Name:  "Nugget",
		Image: "/nugget.png",
		Lore:  "The party never stops when Nugget is around! This golden bundle of joy lives on the edge of your screen, always ready to celebrate. Click on Nugget and watch the colors fly - a disco of pure happiness. Nugget believes that every purchase deserves a celebration, no matter how small.",
		Color: "orange",
	},
}

// Reversed reports whether the character at index uses the mirrored layout.
func Reversed(index int) bool {
	return index%2 == 1
}

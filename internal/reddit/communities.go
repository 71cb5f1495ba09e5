package reddit

// DefaultCommunities is the catalogue searched for every product, in query
// order.
var DefaultCommunities = []string{
	"BuyItForLife",
	"reviews",
	"gadgets",
	"technology",
	"headphones",
	"MechanicalKeyboards",
	"buildapc",
	"frugal",
	"ProductPorn",
	"LinusTechTips",
	"MKBHD",
	"UnboxTherapy",
	"hardware",
	"TechNewsToday",
	"TechReviews",
	"pcmasterrace",
	"Android",
	"apple",
	"GooglePixel",
	"samsung",
	"laptops",
	"monitors",
	"audiophile",
	"BudgetAudiophile",
}

package domain

// Shop is the store identity rendered in the header.
type Shop struct {
	ID               string
	Name             string
	Description      string
	PrimaryDomainURL string
	LogoURL          string
}

// Layout is the data shared by every page: shop, header menu and footer menu.
type Layout struct {
	Shop       Shop
	HeaderMenu *ProcessedMenu
	FooterMenu *ProcessedMenu
}

package domain

import (
	"fmt"
	"net/url"
	"strings"
)

// TargetBlank opens a link in a new tab.
const TargetBlank = "_blank"

// platformDomain is matched in addition to the configured store domains.
const platformDomain = "myshopify.com"

// Menu is a navigation menu as returned by the catalog API.
type Menu struct {
	ID    string     `json:"id"`
	Items []MenuItem `json:"items"`
}

// MenuItem is a raw menu entry. Items nest one level deep.
type MenuItem struct {
	ID         string     `json:"id"`
	ResourceID string     `json:"resourceId,omitempty"`
	Tags       []string   `json:"tags"`
	Title      string     `json:"title"`
	Type       string     `json:"type"`
	URL        string     `json:"url"`
	Items      []MenuItem `json:"items"`
}

// ParentMenuItem is a normalized top-level entry.
type ParentMenuItem struct {
	ID     string
	Title  string
	To     string
	Target string
	Items  []ChildMenuItem
}

// ChildMenuItem is a normalized link.
type ChildMenuItem struct {
	ID     string
	Title  string
	To     string
	Target string
}

// ProcessedMenu is the result of ProcessMenu.
type ProcessedMenu struct {
	Items []ParentMenuItem
}

// ProcessMenu rewrites menu URLs that point at the shop itself into relative
// paths and flags everything that is not a relative path as external.
// A nil menu yields a nil result.
func ProcessMenu(menu *Menu, primaryDomainURL, publicStoreDomain string) (*ProcessedMenu, error) {
	if menu == nil {
		return nil, nil
	}

	items := make([]ParentMenuItem, 0, len(menu.Items))
	for _, item := range menu.Items {
		to, target, err := NormalizeMenuURL(item.URL, primaryDomainURL, publicStoreDomain)
		if err != nil {
			return nil, err
		}

		children := make([]ChildMenuItem, 0, len(item.Items))
		for _, child := range item.Items {
			childTo, childTarget, err := NormalizeMenuURL(child.URL, primaryDomainURL, publicStoreDomain)
			if err != nil {
				return nil, err
			}
			children = append(children, ChildMenuItem{
				ID:     child.ID,
				Title:  child.Title,
				To:     childTo,
				Target: childTarget,
			})
		}

		items = append(items, ParentMenuItem{
			ID:     item.ID,
			Title:  item.Title,
			To:     to,
			Target: target,
			Items:  children,
		})
	}

	return &ProcessedMenu{Items: items}, nil
}

// NormalizeMenuURL returns the link destination and target for a single URL.
// Empty URLs become "#". An empty domain argument never matches.
func NormalizeMenuURL(raw, primaryDomainURL, publicStoreDomain string) (to, target string, err error) {
	to = "#"
	if raw != "" {
		to = raw
		if isShopURL(raw, primaryDomainURL, publicStoreDomain) && !strings.HasPrefix(raw, "/") {
			u, perr := url.Parse(raw)
			if perr != nil || u.Host == "" {
				return "", "", fmt.Errorf("%w: %q", ErrInvalidMenuURL, raw)
			}
			to = u.EscapedPath()
			if to == "" {
				to = "/"
			}
		}
	}

	if !strings.HasPrefix(to, "/") {
		target = TargetBlank
	}
	return to, target, nil
}

func isShopURL(raw string, domains ...string) bool {
	if strings.Contains(raw, platformDomain) {
		return true
	}
	for _, d := range domains {
		if d != "" && strings.Contains(raw, d) {
			return true
		}
	}
	return false
}

// footerExcludedTitles hides items the footer never shows.
var footerExcludedTitles = []string{"search", "privacy", "your choice"}

// MaxFooterColumns caps the number of menu columns in the footer.
const MaxFooterColumns = 3

// FooterColumns filters a processed menu for display in the footer.
func FooterColumns(menu *ProcessedMenu) []ParentMenuItem {
	if menu == nil {
		return nil
	}

	columns := make([]ParentMenuItem, 0, MaxFooterColumns)
	for _, item := range menu.Items {
		if len(columns) == MaxFooterColumns {
			break
		}
		if hiddenInFooter(item.Title) {
			continue
		}
		children := make([]ChildMenuItem, 0, len(item.Items))
		for _, child := range item.Items {
			if !hiddenInFooter(child.Title) {
				children = append(children, child)
			}
		}
		item.Items = children
		columns = append(columns, item)
	}
	return columns
}

func hiddenInFooter(title string) bool {
	t := strings.ToLower(title)
	for _, excluded := range footerExcludedTitles {
		if strings.Contains(t, excluded) {
			return true
		}
	}
	return false
}

// NavItem is a static header navigation entry.
type NavItem struct {
	ID    string
	Title string
	To    string
}

// HeaderNavItems are rendered regardless of the platform menu.
var HeaderNavItems = []NavItem{
	{ID: "home", Title: "Home", To: "/"},
	{ID: "collections", Title: "Collections", To: "/collections"},
	{ID: "universe", Title: "Universe", To: "/universe"},
}

// FallbackHeaderMenu is used when the platform returns no header menu.
var FallbackHeaderMenu = Menu{
	ID: "gid://shopify/Menu/199655587896",
	Items: []MenuItem{
		{ID: "gid://shopify/MenuItem/461609500728", Title: "Collections", Type: "HTTP", URL: "/collections"},
		{ID: "gid://shopify/MenuItem/461609533496", Title: "Blog", Type: "HTTP", URL: "/blogs/journal"},
		{ID: "gid://shopify/MenuItem/461609566264", Title: "Policies", Type: "HTTP", URL: "/policies"},
		{ID: "gid://shopify/MenuItem/461609599032", ResourceID: "gid://shopify/Page/92591030328", Title: "About", Type: "PAGE", URL: "/pages/about"},
	},
}

// CartBadgeLabel renders the header cart count: empty at zero, "9+" above nine.
func CartBadgeLabel(count int) string {
	switch {
	case count <= 0:
		return ""
	case count > 9:
		return "9+"
	default:
		return fmt.Sprintf("%d", count)
	}
}

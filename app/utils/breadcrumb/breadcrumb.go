package breadcrumb

type Breadcrumb struct {
	Name string
	URL  string
}

// Trail always starts at the catalog.
func Trail(crumbs ...Breadcrumb) []Breadcrumb {
	return append([]Breadcrumb{{Name: "Home", URL: "/products"}}, crumbs...)
}

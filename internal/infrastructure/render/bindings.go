package render

// Bindings names every element id the storefront shell and the fragments share.
// One value is built at startup and handed to the renderer and the HTTP layer.
type Bindings struct {
	ProductsContainer string `json:"products_container"`
	FeaturedProducts  string `json:"featured_products"`
	Pagination        string `json:"pagination"`
	ResultsCount      string `json:"results_count"`
	CategoryFilter    string `json:"category_filter"`
	PriceFilter       string `json:"price_filter"`
	SearchInput       string `json:"search_input"`
	SortSelect        string `json:"sort_select"`
	CartSidebar       string `json:"cart_sidebar"`
	CartItems         string `json:"cart_items"`
	CartSubtotal      string `json:"cart_subtotal"`
	CartCount         string `json:"cart_count"`
	SearchOverlay     string `json:"search_overlay"`
	SearchResults     string `json:"search_results"`
	ProductModal      string `json:"product_modal"`
	CheckoutModal     string `json:"checkout_modal"`
	CheckoutForm      string `json:"checkout_form"`
	ProductDetail     string `json:"product_detail"`
	Notification      string `json:"notification"`
}

// DefaultBindings returns the ids used by the bundled page shell.
func DefaultBindings() Bindings {
	return Bindings{
		ProductsContainer: "products-container",
		FeaturedProducts:  "featured-products",
		Pagination:        "pagination",
		ResultsCount:      "results-count",
		CategoryFilter:    "category-filter",
		PriceFilter:       "price-filter",
		SearchInput:       "product-search",
		SortSelect:        "sort-select",
		CartSidebar:       "cart-sidebar",
		CartItems:         "cart-items",
		CartSubtotal:      "cart-subtotal",
		CartCount:         "cart-count",
		SearchOverlay:     "search-overlay",
		SearchResults:     "search-results",
		ProductModal:      "product-modal",
		CheckoutModal:     "checkout-modal",
		CheckoutForm:      "checkout-form",
		ProductDetail:     "product-detail-container",
		Notification:      "notification",
	}
}

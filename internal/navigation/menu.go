// Package navigation describes the admin side menu.  Entries are plain data:
// a stable key plus the label, icon name and route the client renders.
package navigation

// Key identifies a menu entry independently of its label or route.
type Key string

const (
	KeyDashboard Key = "dashboard"
	KeyBuses     Key = "buses"
	KeyLayouts   Key = "seat-layouts"
	KeyRoutes    Key = "routes"
	KeyBookings  Key = "bookings"
	KeyUsers     Key = "users"
)

// Link is the display descriptor of one menu entry.  Icon is a name from the
// client's icon set, not a rendered element.
type Link struct {
	Key   Key    `json:"key"`
	Label string `json:"label"`
	Icon  string `json:"icon"`
	Route string `json:"link"`
}

var menu = []Link{
	{Key: KeyDashboard, Label: "Dashboard", Icon: "layout-dashboard", Route: "/admin"},
	{Key: KeyBuses, Label: "Buses", Icon: "bus", Route: "/admin/buses"},
	{Key: KeyLayouts, Label: "Seat Layouts", Icon: "armchair", Route: "/admin/seat-layout"},
	{Key: KeyRoutes, Label: "Routes", Icon: "route", Route: "/admin/routes"},
	{Key: KeyBookings, Label: "Bookings", Icon: "ticket", Route: "/admin/bookings"},
	{Key: KeyUsers, Label: "Users", Icon: "users", Route: "/admin/users"},
}

// Menu returns the ordered link table.  The slice is a copy.
func Menu() []Link {
	out := make([]Link, len(menu))
	copy(out, menu)
	return out
}

// Lookup returns the link for key.
func Lookup(key Key) (Link, bool) {
	for _, l := range menu {
		if l.Key == key {
			return l, true
		}
	}
	return Link{}, false
}

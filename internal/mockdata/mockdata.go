// Package mockdata provides the built-in demo datasets of the dashboard.
package mockdata

import (
	"sort"
	"time"

	"github.com/gnemet/memgrid"
)

// Dataset is a named record set with its column schema
type Dataset struct {
	Name    string
	Title   string
	Columns []memgrid.Column
	Records []memgrid.Record
}

var builders = map[string]func(now time.Time) Dataset{
	"revenue":    Revenue,
	"engagement": Engagement,
	"users":      Users,
}

// Names lists the available datasets in sorted order
func Names() []string {
	names := make([]string, 0, len(builders))
	for n := range builders {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Lookup builds the named dataset relative to now.
func Lookup(name string, now time.Time) (Dataset, bool) {
	b, ok := builders[name]
	if !ok {
		return Dataset{}, false
	}
	return b(now), true
}

// Revenue is the customer revenue table of the analytics explorer
func Revenue(time.Time) Dataset {
	return Dataset{
		Name:  "revenue",
		Title: "Revenue Data",
		Columns: []memgrid.Column{
			{Key: "customer", Label: "Customer", Sortable: true, Type: memgrid.TypeText},
			{Key: "plan", Label: "Plan", Sortable: true, Type: memgrid.TypeText},
			{Key: "mrr", Label: "MRR", Sortable: true, Type: memgrid.TypeCurrency},
			{Key: "churn", Label: "Churn Risk", Sortable: true, Type: memgrid.TypeStatus},
			{Key: "growth", Label: "Growth %", Sortable: true, Type: memgrid.TypePercentage},
		},
		Records: []memgrid.Record{
			{"id": 1, "customer": "Acme Corp", "plan": "Enterprise", "mrr": 2500, "churn": 0, "growth": 15},
			{"id": 2, "customer": "TechStart Inc", "plan": "Professional", "mrr": 890, "churn": 0, "growth": 8},
			{"id": 3, "customer": "Global Solutions", "plan": "Enterprise", "mrr": 3200, "churn": 0, "growth": 22},
			{"id": 4, "customer": "Innovation Labs", "plan": "Starter", "mrr": 290, "churn": 1, "growth": -5},
			{"id": 5, "customer": "Digital Dynamics", "plan": "Professional", "mrr": 1200, "churn": 0, "growth": 12},
		},
	}
}

// Engagement is the per-user activity table of the analytics explorer
func Engagement(time.Time) Dataset {
	return Dataset{
		Name:  "engagement",
		Title: "User Data",
		Columns: []memgrid.Column{
			{Key: "user", Label: "User", Sortable: true, Type: memgrid.TypeText},
			{Key: "lastActive", Label: "Last Active", Sortable: true, Type: memgrid.TypeText},
			{Key: "sessions", Label: "Sessions", Sortable: true, Type: memgrid.TypeText},
			{Key: "plan", Label: "Plan", Sortable: true, Type: memgrid.TypeText},
		},
		Records: []memgrid.Record{
			{"id": 1, "user": "john.doe@acme.com", "lastActive": "2 hours ago", "sessions": 45, "plan": "Enterprise"},
			{"id": 2, "user": "sarah.smith@tech.com", "lastActive": "1 day ago", "sessions": 23, "plan": "Professional"},
			{"id": 3, "user": "mike.johnson@global.com", "lastActive": "3 hours ago", "sessions": 67, "plan": "Enterprise"},
			{"id": 4, "user": "lisa.brown@innovation.com", "lastActive": "5 days ago", "sessions": 12, "plan": "Starter"},
			{"id": 5, "user": "david.wilson@digital.com", "lastActive": "1 hour ago", "sessions": 34, "plan": "Professional"},
		},
	}
}

// Users is the team roster of the user-management console. Last-login
// times are relative to now; pending invites have none.
func Users(now time.Time) Dataset {
	ago := func(d time.Duration) time.Time { return now.Add(-d) }
	return Dataset{
		Name:  "users",
		Title: "Team Members",
		Columns: []memgrid.Column{
			{Key: "name", Label: "Name", Sortable: true, Type: memgrid.TypeText},
			{Key: "email", Label: "Email", Sortable: true, Type: memgrid.TypeText},
			{Key: "role", Label: "Role", Sortable: true, Type: memgrid.TypeText},
			{Key: "team", Label: "Team", Sortable: true, Type: memgrid.TypeText},
			{Key: "status", Label: "Status", Sortable: true, Type: memgrid.TypeStatus},
			{Key: "lastLogin", Label: "Last Login", Sortable: true, Type: memgrid.TypeDate},
		},
		Records: []memgrid.Record{
			{"id": 1, "name": "Sarah Johnson", "email": "sarah.johnson@company.com", "role": "Admin", "team": "Engineering", "status": "Active", "lastLogin": ago(2 * time.Hour)},
			{"id": 2, "name": "Michael Chen", "email": "michael.chen@company.com", "role": "Manager", "team": "Product", "status": "Active", "lastLogin": ago(4 * time.Hour)},
			{"id": 3, "name": "Emily Rodriguez", "email": "emily.rodriguez@company.com", "role": "Analyst", "team": "Marketing", "status": "Active", "lastLogin": ago(24 * time.Hour)},
			{"id": 4, "name": "David Thompson", "email": "david.thompson@company.com", "role": "Viewer", "team": "Sales", "status": "Inactive", "lastLogin": ago(7 * 24 * time.Hour)},
			{"id": 5, "name": "Lisa Wang", "email": "lisa.wang@company.com", "role": "Manager", "team": "Engineering", "status": "Active", "lastLogin": ago(30 * time.Minute)},
			{"id": 6, "name": "James Wilson", "email": "james.wilson@company.com", "role": "Analyst", "team": "Product", "status": "Pending", "lastLogin": nil},
		},
	}
}

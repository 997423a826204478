package fallback

// Catalog is the single set of reference values sample records draw from.
type Catalog struct {
	Categories       map[string][]string // category -> subcategories
	CategoryOrder    []string
	CategoryWeights  []int
	Sources          []string
	RootCauses       []string
	LinesOfBusiness  []string
	AssignmentGroups map[string]string // category -> owning group
}

// DefaultCatalog returns the consolidated sample catalog.
func DefaultCatalog() Catalog {
	return Catalog{
		Categories: map[string][]string{
			"Application": {"Login", "Checkout", "Reporting", "Batch Job"},
			"Network":     {"VPN", "DNS", "Load Balancer", "Firewall"},
			"Database":    {"Replication", "Deadlock", "Storage", "Backup"},
			"Infrastructure": {
				"Compute", "Kubernetes", "Certificate", "Disk",
			},
			"Security": {"Access Request", "Phishing", "Vulnerability"},
			"Hardware": {"Laptop", "Printer", "Peripheral"},
		},
		CategoryOrder:   []string{"Application", "Network", "Database", "Infrastructure", "Security", "Hardware"},
		CategoryWeights: []int{30, 18, 16, 16, 10, 10},
		Sources:         []string{"Monitoring", "Email", "Phone", "Self-Service", "Chat"},
		RootCauses: []string{
			"Configuration Change",
			"Code Defect",
			"Capacity",
			"Third-Party Outage",
			"Human Error",
			"Hardware Failure",
			"Expired Certificate",
		},
		LinesOfBusiness: []string{"Retail", "Corporate", "Wealth", "Operations"},
		AssignmentGroups: map[string]string{
			"Application":    "App Support",
			"Network":        "Network Ops",
			"Database":       "DBA",
			"Infrastructure": "Platform",
			"Security":       "SecOps",
			"Hardware":       "Service Desk",
		},
	}
}

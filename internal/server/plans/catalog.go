package plans

// DefaultCatalog returns the plans loaded by Seed.
func DefaultCatalog() []Plan {
	const unlimited, sms = "Unlimited", "100/Day"
	return []Plan{
		{ID: 1, Price: 299, Validity: "28 Days", Data: "1.5 GB/Day", Calls: unlimited, SMS: sms, Popular: true, Operator: "airtel", Category: "popular",
			Features: []string{"Free Roaming", "Disney+ Hotstar Mobile", "Wynk Music Premium"}, Description: "Perfect for daily usage with entertainment benefits"},
		{ID: 2, Price: 719, Validity: "84 Days", Data: "1.5 GB/Day", Calls: unlimited, SMS: sms, Operator: "airtel", Category: "validity",
			Features: []string{"Free Roaming", "Netflix Mobile", "Amazon Prime Video"}, Description: "Long validity plan with premium OTT benefits"},
		{ID: 3, Price: 199, Validity: "18 Days", Data: "2 GB/Day", Calls: unlimited, SMS: sms, Operator: "jio", Category: "data",
			Features: []string{"Free Roaming", "JioTV", "JioCinema"}, Description: "High data plan for heavy internet users"},
		{ID: 4, Price: 259, Validity: "30 Days", Data: "1.5 GB/Day", Calls: unlimited, SMS: sms, Popular: true, Operator: "jio", Category: "popular",
			Features: []string{"Free Roaming", "JioTV", "JioCinema", "JioSaavn"}, Description: "Most popular monthly plan with Jio apps"},
		{ID: 5, Price: 666, Validity: "84 Days", Data: "1.5 GB/Day", Calls: unlimited, SMS: sms, Operator: "jio", Category: "validity",
			Features: []string{"Free Roaming", "Netflix Mobile", "Disney+ Hotstar"}, Description: "Extended validity with premium entertainment"},
		{ID: 6, Price: 309, Validity: "28 Days", Data: "2 GB/Day", Calls: unlimited, SMS: sms, Operator: "vi", Category: "data",
			Features: []string{"Free Roaming", "Vi Movies & TV", "Weekend Data Rollover"}, Description: "High-speed data with weekend rollover benefits"},
		{ID: 7, Price: 449, Validity: "56 Days", Data: "2 GB/Day", Calls: unlimited, SMS: sms, Operator: "vi", Category: "validity",
			Features: []string{"Free Roaming", "Netflix Mobile", "Amazon Prime Video"}, Description: "Perfect balance of data and validity"},
		{ID: 8, Price: 197, Validity: "18 Days", Data: "2 GB/Day", Calls: unlimited, SMS: sms, Popular: true, Operator: "bsnl", Category: "popular",
			Features: []string{"Free Roaming", "BSNL Tunes", "Location Based Services"}, Description: "Budget-friendly plan with good data allocation"},
		{ID: 9, Price: 399, Validity: "70 Days", Data: "1 GB/Day", Calls: unlimited, SMS: sms, Operator: "bsnl", Category: "validity",
			Features: []string{"Free Roaming", "BSNL Mail", "Web SMS"}, Description: "Long validity plan for light data users"},
		{ID: 10, Price: 599, Validity: "28 Days", Data: "3 GB/Day", Calls: unlimited, SMS: sms, Operator: "airtel", Category: "data",
			Features: []string{"Free Roaming", "Netflix Mobile", "Disney+ Hotstar", "Amazon Prime"}, Description: "Premium data plan with all OTT benefits"},
	}
}
